package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"cryptorafts.backend/internal/interfaces/http/handlers"
	"cryptorafts.backend/pkg/logger"
)

func newTestDeps() routeDeps {
	return routeDeps{
		authHandler:         &handlers.AuthHandler{},
		onboardingHandler:   &handlers.OnboardingHandler{},
		adminHandler:        &handlers.AdminHandler{},
		verificationHandler: &handlers.VerificationHandler{},
		pitchHandler:        &handlers.PitchHandler{},
		chatHandler:         &handlers.ChatHandler{},
		authMiddleware: func(c *gin.Context) {
			c.Next()
		},
	}
}

func TestRegisterAPIV1Routes_RegistersKeyRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.Init("development")
	r := gin.New()

	registerAPIV1Routes(r, newTestDeps())

	routes := r.Routes()
	if len(routes) < 25 {
		t.Fatalf("expected many routes registered, got %d", len(routes))
	}

	expects := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/auth/register"},
		{"POST", "/api/v1/auth/login"},
		{"GET", "/api/v1/auth/me"},
		{"POST", "/api/v1/onboarding/organization"},
		{"GET", "/api/v1/onboarding/status"},
		{"POST", "/api/v1/onboarding/team/invite"},
		{"POST", "/api/v1/kyc/start"},
		{"POST", "/api/v1/kyb/start"},
		{"POST", "/api/v1/kyb/store-on-chain"},
		{"POST", "/api/v1/kyb/delete-on-chain"},
		{"PUT", "/api/v1/chat/rooms/:id/read"},
		{"POST", "/api/v1/pitches"},
		{"POST", "/api/v1/chat/rooms"},
		{"GET", "/api/v1/chat/rooms/:id/messages"},
		{"GET", "/api/v1/admin/stats"},
		{"POST", "/api/v1/admin/organizations/sync"},
		{"PUT", "/api/v1/admin/organizations/:id/approve"},
		{"PUT", "/api/v1/admin/users/:id/kyc"},
		{"POST", "/api/v1/admin/organizations/:id/proof/store"},
		{"PUT", "/api/v1/admin/pitches/:id/status"},
	}

	for _, exp := range expects {
		found := false
		for _, route := range routes {
			if route.Method == exp.method && route.Path == exp.path {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("route %s %s not registered", exp.method, exp.path)
		}
	}
}

func TestRegisterAPIV1Routes_RouteResponds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.Init("development")
	r := gin.New()
	registerHealthRoute(r)
	registerAPIV1Routes(r, newTestDeps())

	// Smoke: unrelated helper route still works after route registration.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestApplyCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	applyCORSMiddleware(r)
	registerHealthRoute(r)

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow-origin header %q", got)
	}
}
