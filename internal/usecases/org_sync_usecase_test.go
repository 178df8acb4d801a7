package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/usecases"
)

func businessUser(role entities.UserRole, kybStatus string) *entities.User {
	return &entities.User{
		ID:        uuid.New(),
		Email:     uuid.New().String() + "@example.com",
		Name:      "Owner",
		Role:      role,
		KYCStatus: entities.StatusPending,
		KYBStatus: entities.VerificationStatus(kybStatus),
	}
}

func TestOrgSync_CreatesOrganizationWithPlaceholders(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOrgSyncUsecase(userRepo, orgRepo)
	ctx := context.Background()

	user := businessUser(entities.UserRoleVC, "pending")
	user.CompanyName = null.StringFrom("Nimbus Capital")

	userRepo.On("List", ctx, "", mock.Anything).Return([]*entities.User{user}, int64(1), nil)
	orgRepo.On("GetByUserID", ctx, user.ID).Return(nil, domainerrors.ErrNotFound)
	orgRepo.On("GetByEmail", ctx, user.Email).Return(nil, domainerrors.ErrNotFound)
	orgRepo.On("Create", ctx, mock.MatchedBy(func(org *entities.Organization) bool {
		return org.UserID == user.ID &&
			org.OrganizationName == "Nimbus Capital" &&
			org.Email == user.Email &&
			org.TaxID == entities.PlaceholderField &&
			org.KYBStatus == entities.StatusPending
	})).Return(nil)

	report, err := uc.SyncAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Scanned)
	require.Equal(t, 1, report.Created)
	require.Zero(t, report.Updated)
	orgRepo.AssertExpectations(t)
}

func TestOrgSync_CompanyNameAloneCreatesPending(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOrgSyncUsecase(userRepo, orgRepo)
	ctx := context.Background()

	// no status source, no timestamp: the role + company name qualify alone
	user := businessUser(entities.UserRoleVC, "")
	user.CompanyName = null.StringFrom("Nimbus Capital")

	userRepo.On("List", ctx, "", mock.Anything).Return([]*entities.User{user}, int64(1), nil)
	orgRepo.On("GetByUserID", ctx, user.ID).Return(nil, domainerrors.ErrNotFound)
	orgRepo.On("GetByEmail", ctx, user.Email).Return(nil, domainerrors.ErrNotFound)
	orgRepo.On("Create", ctx, mock.MatchedBy(func(org *entities.Organization) bool {
		return org.OrganizationName == "Nimbus Capital" &&
			org.KYBStatus == entities.StatusPending
	})).Return(nil)

	report, err := uc.SyncAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Scanned)
	require.Equal(t, 1, report.Created)
	orgRepo.AssertExpectations(t)
}

func TestOrgSync_SkipsUsersWithoutSubmission(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOrgSyncUsecase(userRepo, orgRepo)
	ctx := context.Background()

	// legacy sentinel only, no timestamp, no company name: nothing to create
	user := businessUser(entities.UserRoleExchange, "")
	user.LegacyKYBStatus = null.StringFrom("not_submitted")

	userRepo.On("List", ctx, "", mock.Anything).Return([]*entities.User{user}, int64(1), nil)

	report, err := uc.SyncAll(ctx)
	require.NoError(t, err)
	require.Zero(t, report.Scanned)
	require.Zero(t, report.Created)
	orgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrgSync_SentinelWithTimestampCreatesPending(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOrgSyncUsecase(userRepo, orgRepo)
	ctx := context.Background()

	submitted := time.Now().Add(-24 * time.Hour)
	user := businessUser(entities.UserRoleIDO, "")
	user.LegacyKYBStatus = null.StringFrom("not_submitted")
	user.KYBSubmittedAt = null.TimeFrom(submitted)

	userRepo.On("List", ctx, "", mock.Anything).Return([]*entities.User{user}, int64(1), nil)
	orgRepo.On("GetByUserID", ctx, user.ID).Return(nil, domainerrors.ErrNotFound)
	orgRepo.On("GetByEmail", ctx, user.Email).Return(nil, domainerrors.ErrNotFound)
	orgRepo.On("Create", ctx, mock.MatchedBy(func(org *entities.Organization) bool {
		return org.KYBStatus == entities.StatusPending && org.SubmittedAt.Valid
	})).Return(nil)

	report, err := uc.SyncAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)
	orgRepo.AssertExpectations(t)
}

func TestOrgSync_UpdatesStatusWhenOutOfSync(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOrgSyncUsecase(userRepo, orgRepo)
	ctx := context.Background()

	user := businessUser(entities.UserRoleVC, "")
	user.KYB = &entities.KYBDocument{Status: "approved"}

	org := &entities.Organization{
		ID:               uuid.New(),
		UserID:           user.ID,
		OrganizationName: "Existing Org",
		Email:            user.Email,
		KYBStatus:        entities.StatusPending,
		SubmittedAt:      null.TimeFrom(time.Now()),
	}

	userRepo.On("List", ctx, "", mock.Anything).Return([]*entities.User{user}, int64(1), nil)
	orgRepo.On("GetByUserID", ctx, user.ID).Return(org, nil)
	orgRepo.On("Update", ctx, mock.MatchedBy(func(o *entities.Organization) bool {
		return o.ID == org.ID && o.KYBStatus == entities.StatusApproved
	})).Return(nil)

	report, err := uc.SyncAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Updated)
	orgRepo.AssertExpectations(t)
}

func TestOrgSync_SecondPassWritesNothing(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOrgSyncUsecase(userRepo, orgRepo)
	ctx := context.Background()

	user := businessUser(entities.UserRoleAgency, "approved")
	org := &entities.Organization{
		ID:               uuid.New(),
		UserID:           user.ID,
		OrganizationName: "Stable Org",
		Email:            user.Email,
		KYBStatus:        entities.StatusApproved,
		SubmittedAt:      null.TimeFrom(time.Now()),
	}

	userRepo.On("List", ctx, "", mock.Anything).Return([]*entities.User{user}, int64(1), nil)
	orgRepo.On("GetByUserID", ctx, user.ID).Return(org, nil)

	report, err := uc.SyncAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Skipped)
	require.Zero(t, report.Created)
	require.Zero(t, report.Updated)
	orgRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	orgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrgSync_MatchesByEmailWhenUserIDMissing(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOrgSyncUsecase(userRepo, orgRepo)
	ctx := context.Background()

	user := businessUser(entities.UserRoleVC, "approved")
	org := &entities.Organization{
		ID:               uuid.New(),
		UserID:           uuid.New(), // stale owner id
		OrganizationName: "Legacy Org",
		Email:            user.Email,
		KYBStatus:        entities.StatusPending,
		SubmittedAt:      null.TimeFrom(time.Now()),
	}

	userRepo.On("List", ctx, "", mock.Anything).Return([]*entities.User{user}, int64(1), nil)
	orgRepo.On("GetByUserID", ctx, user.ID).Return(nil, domainerrors.ErrNotFound)
	orgRepo.On("GetByEmail", ctx, user.Email).Return(org, nil)
	orgRepo.On("Update", ctx, mock.MatchedBy(func(o *entities.Organization) bool {
		return o.ID == org.ID && o.KYBStatus == entities.StatusApproved
	})).Return(nil)

	report, err := uc.SyncAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Updated)
	orgRepo.AssertExpectations(t)
}

func TestOrgSync_NonBusinessRolesWithoutKYBDataIgnored(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOrgSyncUsecase(userRepo, orgRepo)
	ctx := context.Background()

	founder := businessUser(entities.UserRoleFounder, "")
	founder.CompanyName = null.StringFrom("Side Hustle") // company name without a business role is not enough
	influencer := businessUser(entities.UserRoleInfluencer, "")

	userRepo.On("List", ctx, "", mock.Anything).Return([]*entities.User{founder, influencer}, int64(2), nil)

	report, err := uc.SyncAll(ctx)
	require.NoError(t, err)
	require.Zero(t, report.Scanned)
	orgRepo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}

func TestOrgSync_NonBusinessRoleWithKYBDataIsSynced(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOrgSyncUsecase(userRepo, orgRepo)
	ctx := context.Background()

	// role changes leave orphaned KYB data behind; it still gets an org
	founder := businessUser(entities.UserRoleFounder, "approved")

	userRepo.On("List", ctx, "", mock.Anything).Return([]*entities.User{founder}, int64(1), nil)
	orgRepo.On("GetByUserID", ctx, founder.ID).Return(nil, domainerrors.ErrNotFound)
	orgRepo.On("GetByEmail", ctx, founder.Email).Return(nil, domainerrors.ErrNotFound)
	orgRepo.On("Create", ctx, mock.MatchedBy(func(org *entities.Organization) bool {
		return org.KYBStatus == entities.StatusApproved
	})).Return(nil)

	report, err := uc.SyncAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Created)
	orgRepo.AssertExpectations(t)
}

func TestOrgSync_OneBadRecordDoesNotAbortPass(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOrgSyncUsecase(userRepo, orgRepo)
	ctx := context.Background()

	broken := businessUser(entities.UserRoleVC, "pending")
	healthy := businessUser(entities.UserRoleVC, "pending")

	userRepo.On("List", ctx, "", mock.Anything).Return([]*entities.User{broken, healthy}, int64(2), nil)
	orgRepo.On("GetByUserID", ctx, broken.ID).Return(nil, context.DeadlineExceeded)
	orgRepo.On("GetByUserID", ctx, healthy.ID).Return(nil, domainerrors.ErrNotFound)
	orgRepo.On("GetByEmail", ctx, healthy.Email).Return(nil, domainerrors.ErrNotFound)
	orgRepo.On("Create", ctx, mock.Anything).Return(nil)

	report, err := uc.SyncAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, report.Scanned)
	require.Equal(t, 1, report.Created)
	require.Equal(t, 1, report.Skipped)
}
