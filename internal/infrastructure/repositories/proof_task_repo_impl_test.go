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

func newProofTask(orgID uuid.UUID, runAfter time.Time) *entities.ProofTask {
	return &entities.ProofTask{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Operation:      entities.ProofOpStoreDelete,
		Status:         entities.ProofTaskPending,
		MaxAttempts:    3,
		RunAfter:       runAfter,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

func TestProofTaskRepository_ClaimDueSkipsFutureAndClaimed(t *testing.T) {
	db := newTestDB(t)
	createProofTaskTable(t, db)
	repo := NewProofTaskRepository(db)
	ctx := context.Background()

	orgID := uuid.New()
	now := time.Now()

	due := newProofTask(orgID, now.Add(-time.Minute))
	future := newProofTask(orgID, now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, due))
	require.NoError(t, repo.Create(ctx, future))

	claimed, err := repo.ClaimDue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	require.Equal(t, due.ID, claimed[0].ID)
	require.Equal(t, entities.ProofTaskRunning, claimed[0].Status)

	// second pass finds nothing: the due task is running, the other not due
	again, err := repo.ClaimDue(ctx, now, 10)
	require.NoError(t, err)
	require.Empty(t, again)
}

func TestProofTaskRepository_UpdateOutcome(t *testing.T) {
	db := newTestDB(t)
	createProofTaskTable(t, db)
	repo := NewProofTaskRepository(db)
	ctx := context.Background()

	task := newProofTask(uuid.New(), time.Now().Add(-time.Minute))
	require.NoError(t, repo.Create(ctx, task))

	task.Status = entities.ProofTaskCompleted
	task.Attempts = 1
	task.StoreTxHash = null.StringFrom("0xstore")
	task.DeleteTxHash = null.StringFrom("0xdelete")
	require.NoError(t, repo.Update(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ProofTaskCompleted, got.Status)
	require.Equal(t, 1, got.Attempts)
	require.Equal(t, "0xstore", got.StoreTxHash.String)
	require.Equal(t, "0xdelete", got.DeleteTxHash.String)
	require.False(t, got.Exhausted())

	got.Attempts = got.MaxAttempts
	require.True(t, got.Exhausted())
}

func TestProofTaskRepository_ListByOrganization(t *testing.T) {
	db := newTestDB(t)
	createProofTaskTable(t, db)
	repo := NewProofTaskRepository(db)
	ctx := context.Background()

	orgID := uuid.New()
	require.NoError(t, repo.Create(ctx, newProofTask(orgID, time.Now())))
	require.NoError(t, repo.Create(ctx, newProofTask(orgID, time.Now())))
	require.NoError(t, repo.Create(ctx, newProofTask(uuid.New(), time.Now())))

	tasks, err := repo.ListByOrganization(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
}

func TestProofTaskRepository_NotFoundBranches(t *testing.T) {
	db := newTestDB(t)
	createProofTaskTable(t, db)
	repo := NewProofTaskRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.Update(ctx, newProofTask(uuid.New(), time.Now()))
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
