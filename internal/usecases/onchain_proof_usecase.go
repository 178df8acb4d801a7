package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/domain/repositories"
	"cryptorafts.backend/pkg/crypto"
	"cryptorafts.backend/pkg/metrics"
)

// ProofRegistry is satisfied by blockchain.VerificationRegistry
type ProofRegistry interface {
	StoreProof(ctx context.Context, recordID, digestHex, saltHex string) (string, error)
	DeleteProof(ctx context.Context, recordID string) (string, error)
	TxURL(txHash string) string
}

// OnChainProofUsecase exposes direct admin control over registry proofs and
// feeds the background queue. A nil registry means the chain integration is
// not configured; direct operations then fail cleanly.
type OnChainProofUsecase struct {
	orgRepo   repositories.OrganizationRepository
	proofRepo repositories.ProofTaskRepository
	registry  ProofRegistry
}

// NewOnChainProofUsecase creates a new on-chain proof usecase
func NewOnChainProofUsecase(
	orgRepo repositories.OrganizationRepository,
	proofRepo repositories.ProofTaskRepository,
	registry ProofRegistry,
) *OnChainProofUsecase {
	return &OnChainProofUsecase{
		orgRepo:   orgRepo,
		proofRepo: proofRepo,
		registry:  registry,
	}
}

// ProofResult is the outcome of a direct on-chain operation
type ProofResult struct {
	TxHash      string `json:"txHash"`
	ExplorerURL string `json:"explorerUrl"`
}

// StoreOnChain writes the organization's salted digest to the registry now
func (u *OnChainProofUsecase) StoreOnChain(ctx context.Context, orgID uuid.UUID) (*ProofResult, error) {
	if u.registry == nil {
		return nil, domainerrors.ErrNotConfigured
	}

	org, err := u.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org.KYBStatus != entities.StatusApproved {
		return nil, domainerrors.BadRequest("organization is not approved")
	}

	digest, err := crypto.HashWithSalt(proofPayload(org), "")
	if err != nil {
		return nil, fmt.Errorf("compute digest: %w", err)
	}

	txHash, err := u.registry.StoreProof(ctx, org.ID.String(), digest.Hash, digest.Salt)
	if err != nil {
		metrics.OnChainProofs.WithLabelValues("store", "error").Inc()
		return nil, err
	}
	metrics.OnChainProofs.WithLabelValues("store", "ok").Inc()

	org.OnChainTxHash = null.StringFrom(txHash)
	org.OnChainStoredAt = null.TimeFrom(time.Now())
	org.OnChainDeleted = false
	org.OnChainDeleteTxHash = null.String{}
	org.OnChainDeletedAt = null.Time{}
	if err := u.orgRepo.UpdateOnChain(ctx, org); err != nil {
		return nil, err
	}

	return &ProofResult{TxHash: txHash, ExplorerURL: u.registry.TxURL(txHash)}, nil
}

// DeleteOnChain removes the organization's digest from the registry now
func (u *OnChainProofUsecase) DeleteOnChain(ctx context.Context, orgID uuid.UUID) (*ProofResult, error) {
	if u.registry == nil {
		return nil, domainerrors.ErrNotConfigured
	}

	org, err := u.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !org.OnChainTxHash.Valid {
		return nil, domainerrors.BadRequest("organization has no on-chain record")
	}

	txHash, err := u.registry.DeleteProof(ctx, org.ID.String())
	if err != nil {
		metrics.OnChainProofs.WithLabelValues("delete", "error").Inc()
		return nil, err
	}
	metrics.OnChainProofs.WithLabelValues("delete", "ok").Inc()

	org.OnChainDeleted = true
	org.OnChainDeleteTxHash = null.StringFrom(txHash)
	org.OnChainDeletedAt = null.TimeFrom(time.Now())
	if err := u.orgRepo.UpdateOnChain(ctx, org); err != nil {
		return nil, err
	}

	return &ProofResult{TxHash: txHash, ExplorerURL: u.registry.TxURL(txHash)}, nil
}

// ListTasks returns the proof task history for an organization
func (u *OnChainProofUsecase) ListTasks(ctx context.Context, orgID uuid.UUID) ([]*entities.ProofTask, error) {
	if _, err := u.orgRepo.GetByID(ctx, orgID); err != nil {
		return nil, err
	}
	return u.proofRepo.ListByOrganization(ctx, orgID)
}

// proofPayload is the canonical string digested for the registry. It must
// stay stable across releases or digests stop matching their proofs.
func proofPayload(org *entities.Organization) string {
	return fmt.Sprintf("%s|%s|%s|%s", org.ID, org.OrganizationName, org.Email, org.KYBStatus)
}
