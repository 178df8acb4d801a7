package repositories

import (
	"context"

	"github.com/google/uuid"
	"cryptorafts.backend/internal/domain/entities"
)

// OrganizationRepository defines organization data operations
type OrganizationRepository interface {
	Create(ctx context.Context, org *entities.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Organization, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Organization, error)
	GetByEmail(ctx context.Context, email string) (*entities.Organization, error)
	Update(ctx context.Context, org *entities.Organization) error
	// UpdateDecision writes only the review outcome columns of an
	// organization (status, reason, reviewer, timestamps).
	UpdateDecision(ctx context.Context, org *entities.Organization) error
	// UpdateOnChain writes only the on-chain proof columns.
	UpdateOnChain(ctx context.Context, org *entities.Organization) error
	List(ctx context.Context, status string, limit, offset int) ([]*entities.Organization, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
