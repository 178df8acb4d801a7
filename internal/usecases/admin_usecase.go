package usecases

import (
	"context"

	"github.com/google/uuid"

	"cryptorafts.backend/internal/domain/entities"
	"cryptorafts.backend/internal/domain/repositories"
)

// AdminUsecase serves the admin console's read side
type AdminUsecase struct {
	userRepo repositories.UserRepository
	orgRepo  repositories.OrganizationRepository
}

// NewAdminUsecase creates a new admin usecase
func NewAdminUsecase(userRepo repositories.UserRepository, orgRepo repositories.OrganizationRepository) *AdminUsecase {
	return &AdminUsecase{
		userRepo: userRepo,
		orgRepo:  orgRepo,
	}
}

// PlatformStats aggregates the admin dashboard numbers
type PlatformStats struct {
	TotalUsers    int64            `json:"totalUsers"`
	UsersByRole   map[string]int64 `json:"usersByRole"`
	OrgsByStatus  map[string]int64 `json:"orgsByStatus"`
	PendingReview int64            `json:"pendingReview"`
}

// ListUsers returns users filtered for the admin console
func (u *AdminUsecase) ListUsers(ctx context.Context, search string, params *repositories.ListUsersParams) ([]*entities.User, int64, error) {
	return u.userRepo.List(ctx, search, params)
}

// GetUser returns one user
func (u *AdminUsecase) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// ListOrganizations returns organizations filtered by status
func (u *AdminUsecase) ListOrganizations(ctx context.Context, status string, limit, offset int) ([]*entities.Organization, int64, error) {
	return u.orgRepo.List(ctx, status, limit, offset)
}

// GetOrganization returns one organization
func (u *AdminUsecase) GetOrganization(ctx context.Context, id uuid.UUID) (*entities.Organization, error) {
	return u.orgRepo.GetByID(ctx, id)
}

// Stats aggregates platform counters for the dashboard
func (u *AdminUsecase) Stats(ctx context.Context) (*PlatformStats, error) {
	byRole, err := u.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := u.orgRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &PlatformStats{
		UsersByRole:   byRole,
		OrgsByStatus:  byStatus,
		PendingReview: byStatus[string(entities.StatusPending)],
	}
	for _, n := range byRole {
		stats.TotalUsers += n
	}
	return stats, nil
}
