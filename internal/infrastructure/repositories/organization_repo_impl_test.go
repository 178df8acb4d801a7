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

func seedOrganization(t *testing.T, repo *OrganizationRepository, userID uuid.UUID, email string, status entities.VerificationStatus) *entities.Organization {
	t.Helper()
	org := &entities.Organization{
		ID:               uuid.New(),
		UserID:           userID,
		OrganizationName: "Acme Ventures",
		OrganizationType: "vc",
		ContactPerson:    "Alice",
		Email:            email,
		Documents:        null.JSONFrom([]byte(`{"incorporation":"doc.pdf"}`)),
		KYBStatus:        status,
		SubmittedAt:      null.TimeFrom(time.Now().Add(-time.Hour)),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), org))
	return org
}

func TestOrganizationRepository_CreateGetUpdate(t *testing.T) {
	db := newTestDB(t)
	createOrganizationTable(t, db)
	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	org := seedOrganization(t, repo, userID, "acme@example.com", entities.StatusPending)

	byID, err := repo.GetByID(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme Ventures", byID.OrganizationName)
	require.True(t, byID.Documents.Valid)

	byUser, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, org.ID, byUser.ID)

	byEmail, err := repo.GetByEmail(ctx, "acme@example.com")
	require.NoError(t, err)
	require.Equal(t, org.ID, byEmail.ID)

	org.OrganizationName = "Acme Ventures Ltd"
	org.Country = "SG"
	require.NoError(t, repo.Update(ctx, org))

	updated, err := repo.GetByID(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme Ventures Ltd", updated.OrganizationName)
	require.Equal(t, "SG", updated.Country)
}

func TestOrganizationRepository_UpdateDecisionOnly(t *testing.T) {
	db := newTestDB(t)
	createOrganizationTable(t, db)
	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	org := seedOrganization(t, repo, uuid.New(), "x@example.com", entities.StatusPending)

	now := time.Now().UTC().Truncate(time.Second)
	org.KYBStatus = entities.StatusRejected
	org.RejectionReason = null.StringFrom("documents unreadable")
	org.ReviewedBy = null.StringFrom("admin@example.com")
	org.ReviewedAt = null.TimeFrom(now)
	require.NoError(t, repo.UpdateDecision(ctx, org))

	got, err := repo.GetByID(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, entities.StatusRejected, got.KYBStatus)
	require.Equal(t, "documents unreadable", got.RejectionReason.String)
	require.Equal(t, "admin@example.com", got.ReviewedBy.String)
	// display fields untouched
	require.Equal(t, "Acme Ventures", got.OrganizationName)
}

func TestOrganizationRepository_UpdateOnChainColumns(t *testing.T) {
	db := newTestDB(t)
	createOrganizationTable(t, db)
	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	org := seedOrganization(t, repo, uuid.New(), "y@example.com", entities.StatusApproved)

	now := time.Now().UTC().Truncate(time.Second)
	org.OnChainTxHash = null.StringFrom("0xabc")
	org.OnChainStoredAt = null.TimeFrom(now)
	org.OnChainDeleted = true
	org.OnChainDeleteTxHash = null.StringFrom("0xdef")
	org.OnChainDeletedAt = null.TimeFrom(now)
	require.NoError(t, repo.UpdateOnChain(ctx, org))

	got, err := repo.GetByID(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, "0xabc", got.OnChainTxHash.String)
	require.True(t, got.OnChainDeleted)
	require.Equal(t, "0xdef", got.OnChainDeleteTxHash.String)
}

func TestOrganizationRepository_ListAndCounts(t *testing.T) {
	db := newTestDB(t)
	createOrganizationTable(t, db)
	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	seedOrganization(t, repo, uuid.New(), "p1@example.com", entities.StatusPending)
	seedOrganization(t, repo, uuid.New(), "p2@example.com", entities.StatusPending)
	seedOrganization(t, repo, uuid.New(), "a1@example.com", entities.StatusApproved)

	all, total, err := repo.List(ctx, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.EqualValues(t, 3, total)

	pending, total, err := repo.List(ctx, "pending", 0, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.EqualValues(t, 2, total)

	paged, total, err := repo.List(ctx, "", 2, 0)
	require.NoError(t, err)
	require.Len(t, paged, 2)
	require.EqualValues(t, 3, total)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, counts["pending"])
	require.EqualValues(t, 1, counts["approved"])
}

func TestOrganizationRepository_NotFoundBranches(t *testing.T) {
	db := newTestDB(t)
	createOrganizationTable(t, db)
	repo := NewOrganizationRepository(db)
	ctx := context.Background()
	id := uuid.New()

	_, err := repo.GetByID(ctx, id)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByUserID(ctx, id)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.Update(ctx, &entities.Organization{ID: id, OrganizationName: "x", Email: "x@x"})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.UpdateDecision(ctx, &entities.Organization{ID: id, KYBStatus: entities.StatusApproved})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = repo.UpdateOnChain(ctx, &entities.Organization{ID: id})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
