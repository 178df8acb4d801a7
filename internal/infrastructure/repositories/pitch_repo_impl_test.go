package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
)

func TestPitchRepository_CreateGetUpdateList(t *testing.T) {
	db := newTestDB(t)
	createPitchTable(t, db)
	repo := NewPitchRepository(db)
	ctx := context.Background()

	founderID := uuid.New()
	p := &entities.Pitch{
		ID:           uuid.New(),
		FounderID:    founderID,
		FounderName:  "Founder",
		FounderEmail: "founder@example.com",
		ProjectName:  "ChainVault",
		Sector:       "defi",
		FundingGoal:  "500000",
		Status:       entities.PitchStatusPending,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "ChainVault", got.ProjectName)
	require.Equal(t, entities.PitchStatusPending, got.Status)

	now := time.Now().UTC().Truncate(time.Second)
	p.Status = entities.PitchStatusNeedsRevision
	p.RejectionReason = null.StringFrom("add tokenomics")
	p.AIReview = null.JSONFrom([]byte(`{"score":61}`))
	p.ReviewedBy = null.StringFrom("admin@example.com")
	p.ReviewedAt = null.TimeFrom(now)
	require.NoError(t, repo.Update(ctx, p))

	reviewed, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, entities.PitchStatusNeedsRevision, reviewed.Status)
	require.Equal(t, "add tokenomics", reviewed.RejectionReason.String)
	require.True(t, reviewed.AIReview.Valid)

	byStatus, total, err := repo.List(ctx, "needs_revision", 0, 0)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.EqualValues(t, 1, total)

	byFounder, err := repo.ListByFounder(ctx, founderID)
	require.NoError(t, err)
	require.Len(t, byFounder, 1)

	none, err := repo.ListByFounder(ctx, uuid.New())
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestPitchRepository_NotFoundBranches(t *testing.T) {
	db := newTestDB(t)
	createPitchTable(t, db)
	repo := NewPitchRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.Update(ctx, &entities.Pitch{ID: uuid.New(), Status: entities.PitchStatusApproved})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
