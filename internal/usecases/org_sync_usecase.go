package usecases

import (
	"context"
	"errors"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/domain/repositories"
	"cryptorafts.backend/pkg/logger"
	"cryptorafts.backend/pkg/metrics"
)

// OrgSyncUsecase reconciles organization records against their source users.
// Users carry verification state in three differently-shaped fields; the
// syncer reduces them to one canonical status and guarantees every user
// that needs an organization record has exactly one.
type OrgSyncUsecase struct {
	userRepo repositories.UserRepository
	orgRepo  repositories.OrganizationRepository
}

// NewOrgSyncUsecase creates a new organization sync usecase
func NewOrgSyncUsecase(userRepo repositories.UserRepository, orgRepo repositories.OrganizationRepository) *OrgSyncUsecase {
	return &OrgSyncUsecase{
		userRepo: userRepo,
		orgRepo:  orgRepo,
	}
}

// SyncAll scans every user and reconciles the organization record of those
// that need one: users already carrying KYB-shaped data regardless of role,
// and business-role users with a company name. The pass is idempotent: a
// second run over unchanged data writes nothing.
func (u *OrgSyncUsecase) SyncAll(ctx context.Context) (*entities.SyncReport, error) {
	users, _, err := u.userRepo.List(ctx, "", nil)
	if err != nil {
		return nil, err
	}

	metrics.OrgSyncRuns.Inc()
	report := &entities.SyncReport{}

	for _, user := range users {
		if !user.NeedsOrganization() {
			continue
		}
		report.Scanned++

		if err := u.syncUser(ctx, user, report); err != nil {
			// one bad record must not abort the pass
			logger.Error(ctx, "sync user failed",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
			report.Skipped++
		}
	}

	logger.Info(ctx, "organization sync finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

// SyncUser reconciles a single user's organization record
func (u *OrgSyncUsecase) SyncUser(ctx context.Context, user *entities.User) (*entities.SyncReport, error) {
	report := &entities.SyncReport{Scanned: 1}
	if !user.NeedsOrganization() {
		report.Skipped++
		return report, nil
	}
	if err := u.syncUser(ctx, user, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (u *OrgSyncUsecase) syncUser(ctx context.Context, user *entities.User, report *entities.SyncReport) error {
	sources := user.KYBSources()
	status := entities.ResolveStatus(sources)

	org, err := u.findOrganization(ctx, user)
	if err != nil {
		return err
	}

	if org == nil {
		org = u.buildOrganization(user, status, sources)
		if err := u.orgRepo.Create(ctx, org); err != nil {
			return err
		}
		metrics.OrgSyncWrites.WithLabelValues("created").Inc()
		report.Created++
		return nil
	}

	changed := false

	if org.KYBStatus != status {
		org.KYBStatus = status
		changed = true
	}
	if org.NeedsDisplayBackfill() {
		u.backfillDisplayFields(org, user)
		changed = true
	}
	if !org.SubmittedAt.Valid && sources.SubmittedAt != nil {
		org.SubmittedAt = null.TimeFrom(*sources.SubmittedAt)
		changed = true
	}

	if !changed {
		report.Skipped++
		return nil
	}

	if err := u.orgRepo.Update(ctx, org); err != nil {
		return err
	}
	metrics.OrgSyncWrites.WithLabelValues("updated").Inc()
	report.Updated++
	return nil
}

// findOrganization matches by owning user first, then by email for records
// created before user ids were stamped on organizations.
func (u *OrgSyncUsecase) findOrganization(ctx context.Context, user *entities.User) (*entities.Organization, error) {
	org, err := u.orgRepo.GetByUserID(ctx, user.ID)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	org, err = u.orgRepo.GetByEmail(ctx, user.Email)
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	return nil, nil
}

func (u *OrgSyncUsecase) buildOrganization(user *entities.User, status entities.VerificationStatus, sources entities.StatusSources) *entities.Organization {
	org := &entities.Organization{
		UserID:             user.ID,
		OrganizationName:   entities.PlaceholderName,
		OrganizationType:   string(user.Role),
		RegistrationNumber: entities.PlaceholderField,
		TaxID:              entities.PlaceholderField,
		Address:            entities.PlaceholderField,
		Country:            entities.PlaceholderField,
		ContactPerson:      user.Name,
		Email:              user.Email,
		Phone:              entities.PlaceholderField,
		KYBStatus:          status,
	}
	if user.CompanyName.Valid && user.CompanyName.String != "" {
		org.OrganizationName = user.CompanyName.String
	}
	if user.KYB != nil && user.KYB.Website != "" {
		org.Website = user.KYB.Website
	}
	if sources.SubmittedAt != nil {
		org.SubmittedAt = null.TimeFrom(*sources.SubmittedAt)
	}
	return org
}

func (u *OrgSyncUsecase) backfillDisplayFields(org *entities.Organization, user *entities.User) {
	if user.CompanyName.Valid && user.CompanyName.String != "" {
		org.OrganizationName = user.CompanyName.String
	}
	if org.ContactPerson == "" || org.ContactPerson == entities.PlaceholderField {
		org.ContactPerson = user.Name
	}
	if org.Email == "" {
		org.Email = user.Email
	}
	if org.Website == "" && user.KYB != nil {
		org.Website = user.KYB.Website
	}
}
