package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cryptorafts.backend/internal/interfaces/http/handlers"
	"cryptorafts.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	onboardingHandler   *handlers.OnboardingHandler
	adminHandler        *handlers.AdminHandler
	verificationHandler *handlers.VerificationHandler
	pitchHandler        *handlers.PitchHandler
	chatHandler         *handlers.ChatHandler
	authMiddleware      gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/verify-email", d.authHandler.VerifyEmail)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
			auth.POST("/request-code", d.authMiddleware, d.authHandler.RequestCode)
			auth.POST("/verify-code", d.authMiddleware, d.authHandler.VerifyCode)
		}

		// Onboarding routes (protected)
		onboarding := v1.Group("/onboarding")
		onboarding.Use(d.authMiddleware)
		{
			onboarding.POST("/organization", d.onboardingHandler.RegisterOrganization)
			onboarding.GET("/status", d.onboardingHandler.GetStatus)
			onboarding.POST("/team/invite", d.onboardingHandler.InviteTeamMember)
		}

		v1.POST("/kyc/start", d.authMiddleware, d.onboardingHandler.StartKYC)

		// KYB routes: submission for applicants, on-chain proofs for admins
		kyb := v1.Group("/kyb")
		kyb.Use(d.authMiddleware)
		{
			kyb.POST("/start", d.onboardingHandler.StartKYB)

			// On-chain writes cost gas, keep them behind a rate limit
			proofLimit := middleware.RateLimitMiddleware("onchain-proof", 10, time.Minute)
			kyb.POST("/store-on-chain", middleware.RequireAdmin(), proofLimit, d.verificationHandler.StoreOnChain)
			kyb.POST("/delete-on-chain", middleware.RequireAdmin(), proofLimit, d.verificationHandler.DeleteOnChain)
		}

		// Pitch routes (protected)
		pitches := v1.Group("/pitches")
		pitches.Use(d.authMiddleware)
		{
			pitches.POST("", d.pitchHandler.Submit)
			pitches.GET("/mine", d.pitchHandler.ListMine)
		}

		// Chat routes (protected)
		chat := v1.Group("/chat")
		chat.Use(d.authMiddleware)
		{
			chat.POST("/rooms", d.chatHandler.CreateRoom)
			chat.GET("/rooms", d.chatHandler.ListRooms)
			chat.POST("/rooms/:id/messages", d.chatHandler.SendMessage)
			chat.GET("/rooms/:id/messages", d.chatHandler.ListMessages)
			chat.PUT("/rooms/:id/pin", d.chatHandler.SetPinned)
			chat.PUT("/rooms/:id/read", d.chatHandler.MarkRoomRead)
			chat.POST("/messages/:id/reactions", d.chatHandler.ToggleReaction)
			chat.POST("/messages/:id/read", d.chatHandler.MarkRead)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/users", d.adminHandler.ListUsers)
			admin.GET("/users/:id", d.adminHandler.GetUser)
			admin.PUT("/users/:id/kyc", d.adminHandler.ReviewKYC)
			admin.GET("/stats", d.adminHandler.GetStats)

			admin.GET("/organizations", d.adminHandler.ListOrganizations)
			admin.GET("/organizations/:id", d.adminHandler.GetOrganization)
			admin.POST("/organizations/sync", d.adminHandler.SyncOrganizations)
			admin.PUT("/organizations/:id/approve", d.adminHandler.ApproveOrganization)
			admin.PUT("/organizations/:id/reject", d.adminHandler.RejectOrganization)
			admin.PUT("/organizations/:id/reset", d.adminHandler.ResetOrganization)

			// On-chain writes cost gas, keep them behind a rate limit
			proofLimit := middleware.RateLimitMiddleware("onchain-proof", 10, time.Minute)
			admin.POST("/organizations/:id/proof/store", proofLimit, d.verificationHandler.StoreProof)
			admin.POST("/organizations/:id/proof/delete", proofLimit, d.verificationHandler.DeleteProof)
			admin.GET("/organizations/:id/proof/tasks", d.verificationHandler.ListProofTasks)

			admin.GET("/pitches", d.pitchHandler.List)
			admin.GET("/pitches/:id", d.pitchHandler.Get)
			admin.PUT("/pitches/:id/status", d.pitchHandler.Review)
		}
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "cryptorafts-backend",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})
}
