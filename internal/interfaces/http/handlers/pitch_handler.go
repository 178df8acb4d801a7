package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/interfaces/http/middleware"
	"cryptorafts.backend/internal/interfaces/http/response"
	"cryptorafts.backend/internal/usecases"
	"cryptorafts.backend/pkg/utils"
)

// PitchHandler handles pitch submission and review endpoints
type PitchHandler struct {
	pitchUsecase *usecases.PitchUsecase
}

// NewPitchHandler creates a new pitch handler
func NewPitchHandler(pitchUsecase *usecases.PitchUsecase) *PitchHandler {
	return &PitchHandler{
		pitchUsecase: pitchUsecase,
	}
}

// Submit creates a pitch for review
// POST /api/v1/pitches
func (h *PitchHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	var input usecases.SubmitPitchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	pitch, err := h.pitchUsecase.Submit(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Pitch submitted for review",
		"pitch":   pitch,
	})
}

// ListMine lists the caller's pitches
// GET /api/v1/pitches/mine
func (h *PitchHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	pitches, err := h.pitchUsecase.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"pitches": pitches})
}

// Get returns a single pitch
// GET /api/v1/admin/pitches/:id
func (h *PitchHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid pitch ID"))
		return
	}

	pitch, err := h.pitchUsecase.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Pitch not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"pitch": pitch})
}

// List lists pitches with an optional status filter
// GET /api/v1/admin/pitches
func (h *PitchHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	pagination := utils.GetPaginationParams(page, limit)

	pitches, total, err := h.pitchUsecase.List(c.Request.Context(), c.Query("status"), pagination.Limit, pagination.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"pitches":    pitches,
		"pagination": utils.CalculateMeta(total, pagination.Page, pagination.Limit),
	})
}

// Review records an admin decision on a pitch
// PUT /api/v1/admin/pitches/:id/status
func (h *PitchHandler) Review(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid pitch ID"))
		return
	}

	var input entities.UpdatePitchStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	reviewer, _ := middleware.GetUserEmail(c)

	pitch, err := h.pitchUsecase.Review(c.Request.Context(), id, reviewer, &input)
	if err != nil {
		if errors.Is(err, domainerrors.ErrReasonRequired) {
			response.Error(c, domainerrors.BadRequest("A reason is required for this decision"))
			return
		}
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Pitch not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Pitch review recorded",
		"pitch":   pitch,
	})
}
