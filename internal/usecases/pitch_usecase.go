package usecases

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/domain/repositories"
)

// PitchUsecase handles pitch submission and admin review
type PitchUsecase struct {
	pitchRepo repositories.PitchRepository
	userRepo  repositories.UserRepository
	notifier  Notifier
}

// NewPitchUsecase creates a new pitch usecase
func NewPitchUsecase(pitchRepo repositories.PitchRepository, userRepo repositories.UserRepository, notifier Notifier) *PitchUsecase {
	return &PitchUsecase{
		pitchRepo: pitchRepo,
		userRepo:  userRepo,
		notifier:  notifier,
	}
}

// SubmitPitchInput is the founder's submission payload
type SubmitPitchInput struct {
	ProjectName string `json:"projectName" binding:"required,min=2,max=255"`
	Sector      string `json:"sector,omitempty"`
	FundingGoal string `json:"fundingGoal,omitempty"`
}

// Submit creates a pending pitch for a founder
func (u *PitchUsecase) Submit(ctx context.Context, founderID uuid.UUID, input *SubmitPitchInput) (*entities.Pitch, error) {
	founder, err := u.userRepo.GetByID(ctx, founderID)
	if err != nil {
		return nil, err
	}
	if founder.Role != entities.UserRoleFounder {
		return nil, domainerrors.Forbidden("only founders submit pitches")
	}

	pitch := &entities.Pitch{
		ID:           uuid.New(),
		FounderID:    founder.ID,
		FounderName:  founder.Name,
		FounderEmail: founder.Email,
		ProjectName:  input.ProjectName,
		Sector:       input.Sector,
		FundingGoal:  input.FundingGoal,
		Status:       entities.PitchStatusPending,
	}
	if err := u.pitchRepo.Create(ctx, pitch); err != nil {
		return nil, err
	}
	return pitch, nil
}

// Review applies an admin decision to a pitch. Rejections and revision
// requests carry a reason for the founder.
func (u *PitchUsecase) Review(ctx context.Context, pitchID uuid.UUID, reviewer string, input *entities.UpdatePitchStatusInput) (*entities.Pitch, error) {
	status := entities.PitchStatus(strings.ToLower(strings.TrimSpace(input.Status)))
	if !status.IsValid() {
		return nil, domainerrors.BadRequest("unknown pitch status")
	}

	reason := strings.TrimSpace(input.Reason)
	if status.RequiresReason() && reason == "" {
		return nil, domainerrors.ErrReasonRequired
	}

	pitch, err := u.pitchRepo.GetByID(ctx, pitchID)
	if err != nil {
		return nil, err
	}

	pitch.Status = status
	pitch.ReviewedBy = null.StringFrom(reviewer)
	pitch.ReviewedAt = null.TimeFrom(time.Now())
	if reason != "" {
		pitch.RejectionReason = null.StringFrom(reason)
	} else {
		pitch.RejectionReason = null.String{}
	}
	if input.AIReview != nil {
		raw, err := json.Marshal(input.AIReview)
		if err != nil {
			return nil, domainerrors.BadRequest("invalid review payload")
		}
		pitch.AIReview = null.JSONFrom(raw)
	}

	if err := u.pitchRepo.Update(ctx, pitch); err != nil {
		return nil, err
	}

	if u.notifier != nil && pitch.FounderEmail != "" {
		u.notifier.SendPitchDecision(ctx, pitch.FounderEmail, pitch.FounderName, pitch.ProjectName, string(status), reason)
	}

	return pitch, nil
}

// Get returns one pitch
func (u *PitchUsecase) Get(ctx context.Context, pitchID uuid.UUID) (*entities.Pitch, error) {
	return u.pitchRepo.GetByID(ctx, pitchID)
}

// List returns pitches filtered by status, paged
func (u *PitchUsecase) List(ctx context.Context, status string, limit, offset int) ([]*entities.Pitch, int64, error) {
	if status != "" && !entities.PitchStatus(status).IsValid() {
		return nil, 0, domainerrors.BadRequest("unknown pitch status")
	}
	return u.pitchRepo.List(ctx, status, limit, offset)
}

// ListMine returns the founder's own pitches
func (u *PitchUsecase) ListMine(ctx context.Context, founderID uuid.UUID) ([]*entities.Pitch, error) {
	return u.pitchRepo.ListByFounder(ctx, founderID)
}
