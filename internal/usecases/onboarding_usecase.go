package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/domain/repositories"
	"cryptorafts.backend/pkg/crypto"
)

// inviteNotifier is the slice of Mailer the team-invite flow needs
type inviteNotifier interface {
	SendTeamInvitation(ctx context.Context, to, inviterName, orgName, token string) bool
}

// OnboardingUsecase handles applicant-side verification flows
type OnboardingUsecase struct {
	userRepo repositories.UserRepository
	orgRepo  repositories.OrganizationRepository
	notifier inviteNotifier
}

// NewOnboardingUsecase creates a new onboarding usecase
func NewOnboardingUsecase(userRepo repositories.UserRepository, orgRepo repositories.OrganizationRepository, notifier inviteNotifier) *OnboardingUsecase {
	return &OnboardingUsecase{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		notifier: notifier,
	}
}

// VerificationState is the applicant's view of their review progress
type VerificationState struct {
	KYCStatus    entities.VerificationStatus `json:"kycStatus"`
	KYBStatus    entities.VerificationStatus `json:"kybStatus"`
	RequiresKYB  bool                        `json:"requiresKyb"`
	Organization *entities.Organization      `json:"organization,omitempty"`
}

// RegisterOrganization submits or resubmits business verification details.
// An existing record is overwritten and the review restarts at pending;
// approved organizations cannot be resubmitted.
func (u *OnboardingUsecase) RegisterOrganization(ctx context.Context, userID uuid.UUID, input *entities.RegisterOrganizationInput) (*entities.Organization, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Role.RequiresKYB() {
		return nil, domainerrors.Forbidden("role does not require business verification")
	}

	now := time.Now()

	existing, err := u.orgRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.KYBStatus == entities.StatusApproved {
		return nil, domainerrors.Conflict("organization is already approved")
	}

	org := existing
	if org == nil {
		org = &entities.Organization{UserID: userID}
	}

	org.OrganizationName = input.OrganizationName
	org.OrganizationType = orDefault(input.OrganizationType, string(user.Role))
	org.RegistrationNumber = orDefault(input.RegistrationNumber, entities.PlaceholderField)
	org.TaxID = orDefault(input.TaxID, entities.PlaceholderField)
	org.Address = orDefault(input.Address, entities.PlaceholderField)
	org.Country = orDefault(input.Country, entities.PlaceholderField)
	org.ContactPerson = user.Name
	org.Email = user.Email
	org.Phone = orDefault(input.Phone, entities.PlaceholderField)
	org.Website = input.Website
	org.BusinessDescription = input.BusinessDescription
	org.KYBStatus = entities.StatusPending
	org.SubmittedAt = null.TimeFrom(now)

	if input.Documents != nil {
		raw, err := json.Marshal(input.Documents)
		if err != nil {
			return nil, domainerrors.BadRequest("invalid documents payload")
		}
		org.Documents = null.JSONFrom(raw)
	}

	if existing == nil {
		if err := u.orgRepo.Create(ctx, org); err != nil {
			return nil, err
		}
	} else {
		if err := u.orgRepo.Update(ctx, org); err != nil {
			return nil, err
		}
	}

	// stamp the submission on the user so the syncer and legacy readers agree
	user.KYBStatus = entities.StatusPending
	user.LegacyKYBStatus = null.StringFrom(string(entities.StatusPending))
	user.KYBSubmittedAt = null.TimeFrom(now)
	if user.KYB == nil {
		user.KYB = &entities.KYBDocument{}
	}
	user.KYB.Status = string(entities.StatusPending)
	user.KYB.SubmittedAt = &now
	user.KYB.Website = input.Website
	if input.OrganizationName != "" {
		user.CompanyName = null.StringFrom(input.OrganizationName)
	}
	if err := u.userRepo.UpdateVerification(ctx, user); err != nil {
		return nil, err
	}

	return org, nil
}

// StartKYC marks the user's identity verification as submitted
func (u *OnboardingUsecase) StartKYC(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.KYCStatus == entities.StatusApproved {
		return nil, domainerrors.Conflict("identity verification is already approved")
	}

	user.KYCStatus = entities.StatusPending
	user.KYCSubmittedAt = null.TimeFrom(time.Now())
	if err := u.userRepo.UpdateVerification(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// StartKYB marks the user's business verification as submitted, stamping
// the canonical status together with every legacy synonym.
func (u *OnboardingUsecase) StartKYB(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Role.RequiresKYB() {
		return nil, domainerrors.Forbidden("role does not onboard as a business")
	}
	if user.KYBStatus == entities.StatusApproved {
		return nil, domainerrors.Conflict("business verification is already approved")
	}

	now := time.Now()
	user.KYBStatus = entities.StatusPending
	user.LegacyKYBStatus = null.StringFrom(string(entities.StatusPending))
	user.KYBSubmittedAt = null.TimeFrom(now)
	if user.KYB == nil {
		user.KYB = &entities.KYBDocument{}
	}
	user.KYB.Status = string(entities.StatusPending)
	user.KYB.SubmittedAt = &now

	if err := u.userRepo.UpdateVerification(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// InviteTeamMember emails an invitation to join the caller's organization.
// The caller must have an organization record; the send itself is
// fire-and-forget like every other notification.
func (u *OnboardingUsecase) InviteTeamMember(ctx context.Context, inviterID uuid.UUID, email string) error {
	if u.notifier == nil {
		return domainerrors.ErrNotConfigured
	}

	inviter, err := u.userRepo.GetByID(ctx, inviterID)
	if err != nil {
		return err
	}
	org, err := u.orgRepo.GetByUserID(ctx, inviterID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.Forbidden("register an organization before inviting teammates")
		}
		return err
	}

	token, err := crypto.GenerateVerificationToken()
	if err != nil {
		return err
	}
	u.notifier.SendTeamInvitation(ctx, email, inviter.Name, org.OrganizationName, token)
	return nil
}

// GetStatus returns the applicant's current verification state with the
// canonical status resolved from all legacy fields.
func (u *OnboardingUsecase) GetStatus(ctx context.Context, userID uuid.UUID) (*VerificationState, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	state := &VerificationState{
		KYCStatus:   resolveSingle(string(user.KYCStatus)),
		KYBStatus:   entities.ResolveStatus(user.KYBSources()),
		RequiresKYB: user.Role.RequiresKYB(),
	}

	if state.RequiresKYB {
		org, err := u.orgRepo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		state.Organization = org
	}

	return state, nil
}

func resolveSingle(raw string) entities.VerificationStatus {
	return entities.ResolveStatus(entities.StatusSources{Flat: raw})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
