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

// ProofTaskRepository implements the on-chain proof task queue
type ProofTaskRepository struct {
	db *gorm.DB
}

// NewProofTaskRepository creates a new proof task repository
func NewProofTaskRepository(db *gorm.DB) *ProofTaskRepository {
	return &ProofTaskRepository{db: db}
}

// Create enqueues a new proof task
func (r *ProofTaskRepository) Create(ctx context.Context, task *entities.ProofTask) error {
	m := r.toModel(task)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	task.ID = m.ID
	return nil
}

// GetByID gets a proof task by ID
func (r *ProofTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ProofTask, error) {
	var m models.ProofTask
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ClaimDue transitions due pending tasks to running and returns them. The
// claim runs in a transaction so two workers never pick up the same task.
func (r *ProofTaskRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*entities.ProofTask, error) {
	var claimed []*entities.ProofTask

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskModels []models.ProofTask
		query := tx.Where("status = ? AND run_after <= ?", string(entities.ProofTaskPending), now).
			Order("run_after ASC")
		if limit > 0 {
			query = query.Limit(limit)
		}
		if err := query.Find(&taskModels).Error; err != nil {
			return err
		}

		for i := range taskModels {
			m := &taskModels[i]
			res := tx.Model(&models.ProofTask{}).
				Where("id = ? AND status = ?", m.ID, string(entities.ProofTaskPending)).
				Updates(map[string]interface{}{
					"status":     string(entities.ProofTaskRunning),
					"updated_at": now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}
			m.Status = string(entities.ProofTaskRunning)
			claimed = append(claimed, r.toEntity(m))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// Update writes the outcome columns of a task
func (r *ProofTaskRepository) Update(ctx context.Context, task *entities.ProofTask) error {
	updates := map[string]interface{}{
		"status":         string(task.Status),
		"attempts":       task.Attempts,
		"store_tx_hash":  task.StoreTxHash.Ptr(),
		"delete_tx_hash": task.DeleteTxHash.Ptr(),
		"last_error":     task.LastError.Ptr(),
		"run_after":      task.RunAfter,
		"updated_at":     time.Now(),
	}

	result := r.db.WithContext(ctx).Model(&models.ProofTask{}).Where("id = ?", task.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListByOrganization lists proof tasks for one organization, newest first
func (r *ProofTaskRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*entities.ProofTask, error) {
	var taskModels []models.ProofTask
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&taskModels).Error
	if err != nil {
		return nil, err
	}

	tasks := make([]*entities.ProofTask, 0, len(taskModels))
	for i := range taskModels {
		tasks = append(tasks, r.toEntity(&taskModels[i]))
	}
	return tasks, nil
}

func (r *ProofTaskRepository) toModel(t *entities.ProofTask) *models.ProofTask {
	return &models.ProofTask{
		ID:             t.ID,
		OrganizationID: t.OrganizationID,
		Operation:      string(t.Operation),
		Status:         string(t.Status),
		Attempts:       t.Attempts,
		MaxAttempts:    t.MaxAttempts,
		StoreTxHash:    t.StoreTxHash.Ptr(),
		DeleteTxHash:   t.DeleteTxHash.Ptr(),
		LastError:      t.LastError.Ptr(),
		RunAfter:       t.RunAfter,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func (r *ProofTaskRepository) toEntity(m *models.ProofTask) *entities.ProofTask {
	return &entities.ProofTask{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		Operation:      entities.ProofOperation(m.Operation),
		Status:         entities.ProofTaskStatus(m.Status),
		Attempts:       m.Attempts,
		MaxAttempts:    m.MaxAttempts,
		StoreTxHash:    null.StringFromPtr(m.StoreTxHash),
		DeleteTxHash:   null.StringFromPtr(m.DeleteTxHash),
		LastError:      null.StringFromPtr(m.LastError),
		RunAfter:       m.RunAfter,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
