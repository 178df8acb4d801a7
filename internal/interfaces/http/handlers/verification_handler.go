package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/interfaces/http/response"
	"cryptorafts.backend/internal/usecases"
)

// VerificationHandler handles on-chain verification proof endpoints
type VerificationHandler struct {
	proofUsecase *usecases.OnChainProofUsecase
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(proofUsecase *usecases.OnChainProofUsecase) *VerificationHandler {
	return &VerificationHandler{
		proofUsecase: proofUsecase,
	}
}

type onChainProofInput struct {
	OrgID string `json:"orgId" binding:"required,uuid"`
}

// StoreProof writes an approval proof digest to the registry contract
// POST /api/v1/admin/organizations/:id/proof/store
func (h *VerificationHandler) StoreProof(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid organization ID"))
		return
	}
	h.storeProof(c, id)
}

// StoreOnChain is the body-addressed variant of StoreProof
// POST /api/v1/kyb/store-on-chain
func (h *VerificationHandler) StoreOnChain(c *gin.Context) {
	var input onChainProofInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	h.storeProof(c, uuid.MustParse(input.OrgID))
}

// DeleteProof removes a stored proof record from the registry contract
// POST /api/v1/admin/organizations/:id/proof/delete
func (h *VerificationHandler) DeleteProof(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid organization ID"))
		return
	}
	h.deleteProof(c, id)
}

// DeleteOnChain is the body-addressed variant of DeleteProof
// POST /api/v1/kyb/delete-on-chain
func (h *VerificationHandler) DeleteOnChain(c *gin.Context) {
	var input onChainProofInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	h.deleteProof(c, uuid.MustParse(input.OrgID))
}

func (h *VerificationHandler) storeProof(c *gin.Context, id uuid.UUID) {
	result, err := h.proofUsecase.StoreOnChain(c.Request.Context(), id)
	if err != nil {
		h.proofError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":     "Proof stored on chain",
		"txHash":      result.TxHash,
		"explorerUrl": result.ExplorerURL,
	})
}

func (h *VerificationHandler) deleteProof(c *gin.Context, id uuid.UUID) {
	result, err := h.proofUsecase.DeleteOnChain(c.Request.Context(), id)
	if err != nil {
		h.proofError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":     "Proof deleted on chain",
		"txHash":      result.TxHash,
		"explorerUrl": result.ExplorerURL,
	})
}

func (h *VerificationHandler) proofError(c *gin.Context, err error) {
	if errors.Is(err, domainerrors.ErrNotFound) {
		response.Error(c, domainerrors.NotFound("Organization not found"))
		return
	}
	if errors.Is(err, domainerrors.ErrNotConfigured) {
		response.Error(c, domainerrors.NewAppError(http.StatusServiceUnavailable, "ERR_NOT_CONFIGURED", "Blockchain registry is not configured", err))
		return
	}
	response.Error(c, err)
}

// ListProofTasks lists queued proof tasks for an organization
// GET /api/v1/admin/organizations/:id/proof/tasks
func (h *VerificationHandler) ListProofTasks(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid organization ID"))
		return
	}

	tasks, err := h.proofUsecase.ListTasks(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			response.Error(c, domainerrors.NotFound("Organization not found"))
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tasks": tasks})
}
