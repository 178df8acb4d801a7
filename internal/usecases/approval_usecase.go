package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/domain/repositories"
	"cryptorafts.backend/pkg/logger"
	"cryptorafts.backend/pkg/metrics"
)

// Notifier is satisfied by email.Mailer. Sends report success as a bool and
// never block a review decision.
type Notifier interface {
	SendKYBApproval(ctx context.Context, to, name, orgName string) bool
	SendKYBRejection(ctx context.Context, to, name, orgName, reason string) bool
	SendKYCApproval(ctx context.Context, to, name string) bool
	SendKYCRejection(ctx context.Context, to, name, reason string) bool
	SendPitchDecision(ctx context.Context, to, name, projectName, status, reason string) bool
}

const defaultProofAttempts = 3

// ApprovalUsecase executes admin review decisions on organizations. The
// organization row is the single source of truth: it is written first and
// its failure is the only one surfaced. The user mirror, the on-chain proof
// task and the notification email are side effects that degrade to log
// lines.
type ApprovalUsecase struct {
	orgRepo   repositories.OrganizationRepository
	userRepo  repositories.UserRepository
	proofRepo repositories.ProofTaskRepository
	notifier  Notifier
}

// NewApprovalUsecase creates a new approval usecase
func NewApprovalUsecase(
	orgRepo repositories.OrganizationRepository,
	userRepo repositories.UserRepository,
	proofRepo repositories.ProofTaskRepository,
	notifier Notifier,
) *ApprovalUsecase {
	return &ApprovalUsecase{
		orgRepo:   orgRepo,
		userRepo:  userRepo,
		proofRepo: proofRepo,
		notifier:  notifier,
	}
}

// Approve marks an organization approved and schedules the on-chain proof
func (u *ApprovalUsecase) Approve(ctx context.Context, orgID uuid.UUID, reviewer string) (*entities.Organization, error) {
	org, err := u.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	org.KYBStatus = entities.StatusApproved
	org.RejectionReason = null.String{}
	org.ReviewedBy = null.StringFrom(reviewer)
	org.ReviewedAt = null.TimeFrom(now)

	if err := u.orgRepo.UpdateDecision(ctx, org); err != nil {
		return nil, err
	}
	metrics.ApprovalDecisions.WithLabelValues("approved").Inc()

	u.mirrorToUser(ctx, org, entities.StatusApproved, reviewer, now)
	u.enqueueProof(ctx, org)

	if user := u.findOwner(ctx, org); user != nil && u.notifier != nil {
		// outcome intentionally ignored, a lost email never fails a decision
		u.notifier.SendKYBApproval(ctx, user.Email, user.Name, org.OrganizationName)
	}

	return org, nil
}

// Reject marks an organization rejected. The reviewer's reason is required
// because it is shown to the applicant.
func (u *ApprovalUsecase) Reject(ctx context.Context, orgID uuid.UUID, reviewer, reason string) (*entities.Organization, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domainerrors.ErrReasonRequired
	}

	org, err := u.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	org.KYBStatus = entities.StatusRejected
	org.RejectionReason = null.StringFrom(reason)
	org.ReviewedBy = null.StringFrom(reviewer)
	org.ReviewedAt = null.TimeFrom(now)

	if err := u.orgRepo.UpdateDecision(ctx, org); err != nil {
		return nil, err
	}
	metrics.ApprovalDecisions.WithLabelValues("rejected").Inc()

	u.mirrorToUser(ctx, org, entities.StatusRejected, reviewer, now)

	if user := u.findOwner(ctx, org); user != nil && u.notifier != nil {
		u.notifier.SendKYBRejection(ctx, user.Email, user.Name, org.OrganizationName, reason)
	}

	return org, nil
}

// Reset returns an organization to pending so the applicant can resubmit
func (u *ApprovalUsecase) Reset(ctx context.Context, orgID uuid.UUID, reviewer string) (*entities.Organization, error) {
	org, err := u.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	org.KYBStatus = entities.StatusPending
	org.RejectionReason = null.String{}
	org.ReviewedBy = null.StringFrom(reviewer)
	org.ReviewedAt = null.TimeFrom(now)

	if err := u.orgRepo.UpdateDecision(ctx, org); err != nil {
		return nil, err
	}
	metrics.ApprovalDecisions.WithLabelValues("reset").Inc()

	u.mirrorToUser(ctx, org, entities.StatusPending, reviewer, now)
	return org, nil
}

// ReviewKYC records an admin decision on a user's identity verification.
// Rejections carry a reason shown to the applicant, same as the
// organization flow.
func (u *ApprovalUsecase) ReviewKYC(ctx context.Context, userID uuid.UUID, approve bool, reviewer, reason string) (*entities.User, error) {
	status := entities.StatusApproved
	if !approve {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			return nil, domainerrors.ErrReasonRequired
		}
		status = entities.StatusRejected
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.KYCStatus = status
	if err := u.userRepo.UpdateVerification(ctx, user); err != nil {
		return nil, err
	}
	metrics.ApprovalDecisions.WithLabelValues("kyc_" + string(status)).Inc()

	logger.Info(ctx, "kyc reviewed",
		zap.String("user_id", user.ID.String()),
		zap.String("status", string(status)),
		zap.String("reviewer", reviewer),
	)

	if u.notifier != nil {
		if approve {
			u.notifier.SendKYCApproval(ctx, user.Email, user.Name)
		} else {
			u.notifier.SendKYCRejection(ctx, user.Email, user.Name, reason)
		}
	}
	return user, nil
}

// mirrorToUser copies the decision to the owning user record, writing the
// canonical status together with both legacy representations so old readers
// stay consistent. Best effort only.
func (u *ApprovalUsecase) mirrorToUser(ctx context.Context, org *entities.Organization, status entities.VerificationStatus, reviewer string, at time.Time) {
	user := u.findOwner(ctx, org)
	if user == nil {
		logger.Warn(ctx, "decision not mirrored, owner not found",
			zap.String("org_id", org.ID.String()),
			zap.String("email", org.Email),
		)
		return
	}

	user.KYBStatus = status
	user.LegacyKYBStatus = null.StringFrom(string(status))
	if user.KYB == nil {
		user.KYB = &entities.KYBDocument{}
	}
	user.KYB.Status = string(status)
	user.KYB.ReviewedAt = &at
	user.KYB.ReviewedBy = reviewer
	if status == entities.StatusApproved {
		user.ProfileCompleted = true
	}

	if err := u.userRepo.UpdateVerification(ctx, user); err != nil {
		logger.Error(ctx, "mirror decision to user failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}
}

func (u *ApprovalUsecase) findOwner(ctx context.Context, org *entities.Organization) *entities.User {
	user, err := u.userRepo.GetByID(ctx, org.UserID)
	if err == nil {
		return user
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil
	}
	user, err = u.userRepo.GetByEmail(ctx, org.Email)
	if err != nil {
		return nil
	}
	return user
}

func (u *ApprovalUsecase) enqueueProof(ctx context.Context, org *entities.Organization) {
	if u.proofRepo == nil {
		return
	}
	task := &entities.ProofTask{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		Operation:      entities.ProofOpStoreDelete,
		Status:         entities.ProofTaskPending,
		MaxAttempts:    defaultProofAttempts,
		RunAfter:       time.Now(),
	}
	if err := u.proofRepo.Create(ctx, task); err != nil {
		logger.Error(ctx, "enqueue proof task failed",
			zap.String("org_id", org.ID.String()),
			zap.Error(err),
		)
	}
}
