package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/infrastructure/models"
)

// PitchRepository implements pitch data operations
type PitchRepository struct {
	db *gorm.DB
}

// NewPitchRepository creates a new pitch repository
func NewPitchRepository(db *gorm.DB) *PitchRepository {
	return &PitchRepository{db: db}
}

// Create creates a new pitch
func (r *PitchRepository) Create(ctx context.Context, pitch *entities.Pitch) error {
	m := r.toModel(pitch)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	pitch.ID = m.ID
	return nil
}

// GetByID gets a pitch by ID
func (r *PitchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Pitch, error) {
	var m models.Pitch
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Update writes the review outcome columns of a pitch
func (r *PitchRepository) Update(ctx context.Context, pitch *entities.Pitch) error {
	updates := map[string]interface{}{
		"status":           string(pitch.Status),
		"rejection_reason": pitch.RejectionReason.Ptr(),
		"reviewed_by":      pitch.ReviewedBy.Ptr(),
		"reviewed_at":      pitch.ReviewedAt.Ptr(),
		"updated_at":       time.Now(),
	}
	if pitch.AIReview.Valid {
		updates["ai_review"] = string(pitch.AIReview.JSON)
	}

	result := r.db.WithContext(ctx).Model(&models.Pitch{}).Where("id = ?", pitch.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists pitches with an optional status filter
func (r *PitchRepository) List(ctx context.Context, status string, limit, offset int) ([]*entities.Pitch, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Pitch{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var pitchModels []models.Pitch
	if err := query.Find(&pitchModels).Error; err != nil {
		return nil, 0, err
	}

	pitches := make([]*entities.Pitch, 0, len(pitchModels))
	for i := range pitchModels {
		pitches = append(pitches, r.toEntity(&pitchModels[i]))
	}
	return pitches, total, nil
}

// ListByFounder lists pitches submitted by one founder
func (r *PitchRepository) ListByFounder(ctx context.Context, founderID uuid.UUID) ([]*entities.Pitch, error) {
	var pitchModels []models.Pitch
	err := r.db.WithContext(ctx).
		Where("founder_id = ?", founderID).
		Order("created_at DESC").
		Find(&pitchModels).Error
	if err != nil {
		return nil, err
	}

	pitches := make([]*entities.Pitch, 0, len(pitchModels))
	for i := range pitchModels {
		pitches = append(pitches, r.toEntity(&pitchModels[i]))
	}
	return pitches, nil
}

func (r *PitchRepository) toModel(p *entities.Pitch) *models.Pitch {
	m := &models.Pitch{
		ID:              p.ID,
		FounderID:       p.FounderID,
		FounderName:     p.FounderName,
		FounderEmail:    p.FounderEmail,
		ProjectName:     p.ProjectName,
		Sector:          p.Sector,
		FundingGoal:     p.FundingGoal,
		Status:          string(p.Status),
		RejectionReason: p.RejectionReason.Ptr(),
		ReviewedBy:      p.ReviewedBy.Ptr(),
		ReviewedAt:      p.ReviewedAt.Ptr(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.AIReview.Valid {
		review := string(p.AIReview.JSON)
		m.AIReview = &review
	}
	return m
}

func (r *PitchRepository) toEntity(m *models.Pitch) *entities.Pitch {
	p := &entities.Pitch{
		ID:              m.ID,
		FounderID:       m.FounderID,
		FounderName:     m.FounderName,
		FounderEmail:    m.FounderEmail,
		ProjectName:     m.ProjectName,
		Sector:          m.Sector,
		FundingGoal:     m.FundingGoal,
		Status:          entities.PitchStatus(m.Status),
		RejectionReason: null.StringFromPtr(m.RejectionReason),
		ReviewedBy:      null.StringFromPtr(m.ReviewedBy),
		ReviewedAt:      null.TimeFromPtr(m.ReviewedAt),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.AIReview != nil && *m.AIReview != "" {
		p.AIReview = null.JSONFrom([]byte(*m.AIReview))
	}
	return p
}
