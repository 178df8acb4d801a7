package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"cryptorafts.backend/internal/domain/entities"
)

// ProofTaskRepository defines on-chain proof task queue operations
type ProofTaskRepository interface {
	Create(ctx context.Context, task *entities.ProofTask) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ProofTask, error)
	// ClaimDue returns pending tasks whose RunAfter has passed, marking them
	// running so concurrent workers do not pick them up twice.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*entities.ProofTask, error)
	Update(ctx context.Context, task *entities.ProofTask) error
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*entities.ProofTask, error)
}
