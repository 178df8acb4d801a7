package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/domain/repositories"
	"cryptorafts.backend/internal/interfaces/http/middleware"
	"cryptorafts.backend/internal/interfaces/http/response"
	"cryptorafts.backend/internal/usecases"
	"cryptorafts.backend/pkg/utils"
)

// AdminHandler handles admin endpoints
type AdminHandler struct {
	adminUsecase    *usecases.AdminUsecase
	approvalUsecase *usecases.ApprovalUsecase
	orgSyncUsecase  *usecases.OrgSyncUsecase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	adminUsecase *usecases.AdminUsecase,
	approvalUsecase *usecases.ApprovalUsecase,
	orgSyncUsecase *usecases.OrgSyncUsecase,
) *AdminHandler {
	return &AdminHandler{
		adminUsecase:    adminUsecase,
		approvalUsecase: approvalUsecase,
		orgSyncUsecase:  orgSyncUsecase,
	}
}

// ListUsers lists users with optional search and filters
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	search := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	pagination := utils.GetPaginationParams(page, limit)

	users, total, err := h.adminUsecase.ListUsers(c.Request.Context(), search, &repositories.ListUsersParams{
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Limit:  pagination.Limit,
		Offset: pagination.CalculateOffset(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"users":      users,
		"pagination": utils.CalculateMeta(total, pagination.Page, pagination.Limit),
	})
}

// GetUser returns a single user
// GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	user, err := h.adminUsecase.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("User not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// ListOrganizations lists organizations with optional status filter
// GET /api/v1/admin/organizations
func (h *AdminHandler) ListOrganizations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	pagination := utils.GetPaginationParams(page, limit)

	orgs, total, err := h.adminUsecase.ListOrganizations(c.Request.Context(), c.Query("status"), pagination.Limit, pagination.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"organizations": orgs,
		"pagination":    utils.CalculateMeta(total, pagination.Page, pagination.Limit),
	})
}

// GetOrganization returns a single organization
// GET /api/v1/admin/organizations/:id
func (h *AdminHandler) GetOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid organization ID"))
		return
	}

	org, err := h.adminUsecase.GetOrganization(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Organization not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"organization": org})
}

// GetStats returns dashboard stats
// GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminUsecase.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// SyncOrganizations runs an on-demand organization sync pass
// POST /api/v1/admin/organizations/sync
func (h *AdminHandler) SyncOrganizations(c *gin.Context) {
	report, err := h.orgSyncUsecase.SyncAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Organization sync completed",
		"report":  report,
	})
}

// ApproveOrganization approves a pending KYB review
// PUT /api/v1/admin/organizations/:id/approve
func (h *AdminHandler) ApproveOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid organization ID"))
		return
	}

	reviewer, _ := middleware.GetUserEmail(c)

	org, err := h.approvalUsecase.Approve(c.Request.Context(), id, reviewer)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Organization not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":      "Organization approved",
		"organization": org,
	})
}

// RejectOrganization rejects a pending KYB review with a reason
// PUT /api/v1/admin/organizations/:id/reject
func (h *AdminHandler) RejectOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid organization ID"))
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	reviewer, _ := middleware.GetUserEmail(c)

	org, err := h.approvalUsecase.Reject(c.Request.Context(), id, reviewer, input.Reason)
	if err != nil {
		if errors.Is(err, domainerrors.ErrReasonRequired) {
			response.Error(c, domainerrors.BadRequest("Rejection reason is required"))
			return
		}
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Organization not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":      "Organization rejected",
		"organization": org,
	})
}

// ReviewKYC approves or rejects an individual user's KYC submission
// PUT /api/v1/admin/users/:id/kyc
func (h *AdminHandler) ReviewKYC(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid user ID"))
		return
	}

	var input struct {
		Approve bool   `json:"approve"`
		Reason  string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	reviewer, _ := middleware.GetUserEmail(c)

	user, err := h.approvalUsecase.ReviewKYC(c.Request.Context(), id, input.Approve, reviewer, input.Reason)
	if err != nil {
		if errors.Is(err, domainerrors.ErrReasonRequired) {
			response.Error(c, domainerrors.BadRequest("Rejection reason is required"))
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
		"message": "KYC reviewed",
		"user":    user,
	})
}

// ResetOrganization moves a reviewed organization back to pending
// PUT /api/v1/admin/organizations/:id/reset
func (h *AdminHandler) ResetOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid organization ID"))
		return
	}

	reviewer, _ := middleware.GetUserEmail(c)

	org, err := h.approvalUsecase.Reset(c.Request.Context(), id, reviewer)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Organization not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":      "Organization reset to pending",
		"organization": org,
	})
}
