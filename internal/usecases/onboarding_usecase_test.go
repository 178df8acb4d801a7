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

func TestRegisterOrganization_CreatesAndStampsUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOnboardingUsecase(userRepo, orgRepo, nil)
	ctx := context.Background()

	user := businessUser(entities.UserRoleVC, "")

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	orgRepo.On("GetByUserID", ctx, user.ID).Return(nil, domainerrors.ErrNotFound)
	orgRepo.On("Create", ctx, mock.MatchedBy(func(org *entities.Organization) bool {
		return org.OrganizationName == "Nimbus Capital" &&
			org.KYBStatus == entities.StatusPending &&
			org.SubmittedAt.Valid &&
			org.Email == user.Email &&
			org.TaxID == entities.PlaceholderField
	})).Return(nil)
	userRepo.On("UpdateVerification", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.KYBStatus == entities.StatusPending &&
			u.LegacyKYBStatus.String == "pending" &&
			u.KYBSubmittedAt.Valid &&
			u.KYB != nil && u.KYB.SubmittedAt != nil &&
			u.CompanyName.String == "Nimbus Capital"
	})).Return(nil)

	org, err := uc.RegisterOrganization(ctx, user.ID, &entities.RegisterOrganizationInput{
		OrganizationName: "Nimbus Capital",
		Website:          "https://nimbus.example.com",
	})
	require.NoError(t, err)
	require.Equal(t, entities.StatusPending, org.KYBStatus)
	userRepo.AssertExpectations(t)
	orgRepo.AssertExpectations(t)
}

func TestRegisterOrganization_ResubmissionRestartsReview(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOnboardingUsecase(userRepo, orgRepo, nil)
	ctx := context.Background()

	user := businessUser(entities.UserRoleVC, "rejected")
	existing := &entities.Organization{
		ID:               uuid.New(),
		UserID:           user.ID,
		OrganizationName: "Old Name",
		Email:            user.Email,
		KYBStatus:        entities.StatusRejected,
		RejectionReason:  null.StringFrom("bad docs"),
		SubmittedAt:      null.TimeFrom(time.Now().Add(-48 * time.Hour)),
	}

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	orgRepo.On("GetByUserID", ctx, user.ID).Return(existing, nil)
	orgRepo.On("Update", ctx, mock.MatchedBy(func(org *entities.Organization) bool {
		return org.ID == existing.ID &&
			org.OrganizationName == "New Name" &&
			org.KYBStatus == entities.StatusPending
	})).Return(nil)
	userRepo.On("UpdateVerification", ctx, mock.Anything).Return(nil)

	org, err := uc.RegisterOrganization(ctx, user.ID, &entities.RegisterOrganizationInput{OrganizationName: "New Name"})
	require.NoError(t, err)
	require.Equal(t, entities.StatusPending, org.KYBStatus)
	orgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterOrganization_ApprovedCannotResubmit(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOnboardingUsecase(userRepo, orgRepo, nil)
	ctx := context.Background()

	user := businessUser(entities.UserRoleVC, "approved")
	existing := &entities.Organization{ID: uuid.New(), UserID: user.ID, KYBStatus: entities.StatusApproved}

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	orgRepo.On("GetByUserID", ctx, user.ID).Return(existing, nil)

	_, err := uc.RegisterOrganization(ctx, user.ID, &entities.RegisterOrganizationInput{OrganizationName: "X"})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestRegisterOrganization_FounderForbidden(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOnboardingUsecase(userRepo, orgRepo, nil)
	ctx := context.Background()

	founder := businessUser(entities.UserRoleFounder, "")
	userRepo.On("GetByID", ctx, founder.ID).Return(founder, nil)

	_, err := uc.RegisterOrganization(ctx, founder.ID, &entities.RegisterOrganizationInput{OrganizationName: "X"})
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
	orgRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStartKYC_MarksSubmitted(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewOnboardingUsecase(userRepo, new(MockOrganizationRepository), nil)
	ctx := context.Background()

	user := businessUser(entities.UserRoleFounder, "")
	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	userRepo.On("UpdateVerification", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.KYCStatus == entities.StatusPending && u.KYCSubmittedAt.Valid
	})).Return(nil)

	got, err := uc.StartKYC(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, got.KYCSubmittedAt.Valid)
}

func TestStartKYC_AlreadyApproved(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewOnboardingUsecase(userRepo, new(MockOrganizationRepository), nil)
	ctx := context.Background()

	user := businessUser(entities.UserRoleFounder, "")
	user.KYCStatus = entities.StatusApproved
	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

	_, err := uc.StartKYC(ctx, user.ID)
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestStartKYB_StampsAllSynonyms(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewOnboardingUsecase(userRepo, new(MockOrganizationRepository), nil)
	ctx := context.Background()

	user := businessUser(entities.UserRoleVC, "")
	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	userRepo.On("UpdateVerification", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.KYBStatus == entities.StatusPending &&
			u.LegacyKYBStatus.String == "pending" &&
			u.KYB != nil && u.KYB.Status == "pending" && u.KYB.SubmittedAt != nil &&
			u.KYBSubmittedAt.Valid
	})).Return(nil)

	got, err := uc.StartKYB(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, entities.StatusPending, got.KYBStatus)
	userRepo.AssertExpectations(t)
}

func TestStartKYB_FounderForbidden(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewOnboardingUsecase(userRepo, new(MockOrganizationRepository), nil)
	ctx := context.Background()

	user := businessUser(entities.UserRoleFounder, "")
	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

	_, err := uc.StartKYB(ctx, user.ID)
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestGetStatus_ResolvesLegacyFields(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOnboardingUsecase(userRepo, orgRepo, nil)
	ctx := context.Background()

	user := businessUser(entities.UserRoleVC, "")
	user.KYB = &entities.KYBDocument{Status: "approved"}
	user.KYCStatus = ""

	org := &entities.Organization{ID: uuid.New(), UserID: user.ID, KYBStatus: entities.StatusApproved}

	userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
	orgRepo.On("GetByUserID", ctx, user.ID).Return(org, nil)

	state, err := uc.GetStatus(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, entities.StatusApproved, state.KYBStatus)
	require.Equal(t, entities.StatusPending, state.KYCStatus)
	require.True(t, state.RequiresKYB)
	require.Equal(t, org, state.Organization)
}

func TestGetStatus_FounderHasNoOrganization(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	uc := usecases.NewOnboardingUsecase(userRepo, orgRepo, nil)
	ctx := context.Background()

	founder := businessUser(entities.UserRoleFounder, "")
	userRepo.On("GetByID", ctx, founder.ID).Return(founder, nil)

	state, err := uc.GetStatus(ctx, founder.ID)
	require.NoError(t, err)
	require.False(t, state.RequiresKYB)
	require.Nil(t, state.Organization)
	orgRepo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}

func TestInviteTeamMember_SendsInvitation(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	notifier := new(MockNotifier)
	uc := usecases.NewOnboardingUsecase(userRepo, orgRepo, notifier)
	ctx := context.Background()

	inviter := businessUser(entities.UserRoleVC, "approved")
	org := &entities.Organization{ID: uuid.New(), UserID: inviter.ID, OrganizationName: "Acme Capital"}

	userRepo.On("GetByID", ctx, inviter.ID).Return(inviter, nil)
	orgRepo.On("GetByUserID", ctx, inviter.ID).Return(org, nil)
	notifier.On("SendTeamInvitation", ctx, "teammate@example.com", inviter.Name, "Acme Capital", mock.AnythingOfType("string")).Return(true)

	err := uc.InviteTeamMember(ctx, inviter.ID, "teammate@example.com")
	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestInviteTeamMember_RequiresOrganization(t *testing.T) {
	userRepo := new(MockUserRepository)
	orgRepo := new(MockOrganizationRepository)
	notifier := new(MockNotifier)
	uc := usecases.NewOnboardingUsecase(userRepo, orgRepo, notifier)
	ctx := context.Background()

	inviter := businessUser(entities.UserRoleVC, "")
	userRepo.On("GetByID", ctx, inviter.ID).Return(inviter, nil)
	orgRepo.On("GetByUserID", ctx, inviter.ID).Return(nil, domainerrors.ErrNotFound)

	err := uc.InviteTeamMember(ctx, inviter.ID, "teammate@example.com")
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
	notifier.AssertNotCalled(t, "SendTeamInvitation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInviteTeamMember_WithoutMailerNotConfigured(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc := usecases.NewOnboardingUsecase(userRepo, new(MockOrganizationRepository), nil)

	err := uc.InviteTeamMember(context.Background(), uuid.New(), "teammate@example.com")
	require.ErrorIs(t, err, domainerrors.ErrNotConfigured)
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
