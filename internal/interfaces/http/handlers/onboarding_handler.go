package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/interfaces/http/middleware"
	"cryptorafts.backend/internal/interfaces/http/response"
	"cryptorafts.backend/internal/usecases"
)

// OnboardingHandler handles KYC/KYB onboarding endpoints
type OnboardingHandler struct {
	onboardingUsecase *usecases.OnboardingUsecase
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboardingUsecase *usecases.OnboardingUsecase) *OnboardingHandler {
	return &OnboardingHandler{
		onboardingUsecase: onboardingUsecase,
	}
}

// RegisterOrganization submits business details for KYB review
// POST /api/v1/onboarding/organization
func (h *OnboardingHandler) RegisterOrganization(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input entities.RegisterOrganizationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	org, err := h.onboardingUsecase.RegisterOrganization(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message":      "Organization submitted for review",
		"organization": org,
	})
}

// StartKYC marks the individual verification as submitted
// POST /api/v1/kyc/start
func (h *OnboardingHandler) StartKYC(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	user, err := h.onboardingUsecase.StartKYC(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("User not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":   "KYC started",
		"kycStatus": user.KYCStatus,
	})
}

// StartKYB marks the business verification as submitted
// POST /api/v1/kyb/start
func (h *OnboardingHandler) StartKYB(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	user, err := h.onboardingUsecase.StartKYB(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("User not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":   "KYB started",
		"kybStatus": user.KYBStatus,
	})
}

// InviteTeamMember emails an invitation to join the caller's organization
// POST /api/v1/onboarding/team/invite
func (h *OnboardingHandler) InviteTeamMember(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.onboardingUsecase.InviteTeamMember(c.Request.Context(), userID, input.Email); err != nil {
		if errors.Is(err, domainerrors.ErrNotConfigured) {
			response.Error(c, domainerrors.NewAppError(http.StatusServiceUnavailable, "ERR_NOT_CONFIGURED", "Email delivery is not configured", err))
			return
		}
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("User not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Invitation sent",
	})
}

// GetStatus returns the caller's resolved verification state
// GET /api/v1/onboarding/status
func (h *OnboardingHandler) GetStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	state, err := h.onboardingUsecase.GetStatus(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("User not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}
