package repositories

import (
	"context"

	"github.com/google/uuid"
	"cryptorafts.backend/internal/domain/entities"
)

// PitchRepository defines pitch data operations
type PitchRepository interface {
	Create(ctx context.Context, pitch *entities.Pitch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Pitch, error)
	Update(ctx context.Context, pitch *entities.Pitch) error
	List(ctx context.Context, status string, limit, offset int) ([]*entities.Pitch, int64, error)
	ListByFounder(ctx context.Context, founderID uuid.UUID) ([]*entities.Pitch, error)
}
