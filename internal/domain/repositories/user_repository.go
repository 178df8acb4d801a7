package repositories

import (
	"context"

	"github.com/google/uuid"
	"cryptorafts.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	// UpdateVerification writes only the verification status columns of a
	// user (canonical, legacy and nested document) plus ProfileCompleted.
	UpdateVerification(ctx context.Context, user *entities.User) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, params *ListUsersParams) ([]*entities.User, int64, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
}

// ListUsersParams filters and pages the admin user listing.
type ListUsersParams struct {
	Role   string
	Status string
	Limit  int
	Offset int
}

// EmailVerificationRepository defines email verification token operations
type EmailVerificationRepository interface {
	Create(ctx context.Context, userID uuid.UUID, token string) error
	GetUserByToken(ctx context.Context, token string) (*entities.User, error)
	MarkVerified(ctx context.Context, token string) error
}
