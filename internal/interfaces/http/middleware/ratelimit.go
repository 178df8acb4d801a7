package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cryptorafts.backend/pkg/logger"
	"cryptorafts.backend/pkg/redis"
)

// RateLimitMiddleware applies a fixed-window rate limit per authenticated
// user (falling back to client IP). Limits live in Redis so they hold
// across instances. The limiter fails open when Redis is unreachable.
func RateLimitMiddleware(name string, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.ClientIP()
		if userID, ok := GetUserID(c); ok {
			subject = userID.String()
		}

		key := fmt.Sprintf("ratelimit:%s:%s", name, subject)
		count, err := redis.IncrWithTTL(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn(c.Request.Context(), "rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		if count > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, try again later",
			})
			return
		}

		c.Next()
	}
}
