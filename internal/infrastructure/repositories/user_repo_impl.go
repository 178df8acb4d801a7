package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
	domainrepos "cryptorafts.backend/internal/domain/repositories"
	"cryptorafts.backend/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m, err := r.toModel(user)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m)
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m)
}

// Update updates mutable profile fields of a user
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	updates := map[string]interface{}{
		"name":       user.Name,
		"role":       string(user.Role),
		"updated_at": time.Now(),
	}
	if user.CompanyName.Valid {
		updates["company_name"] = user.CompanyName.String
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateVerification writes the canonical and legacy verification columns
// together so the record stays consistent under any reader.
func (r *UserRepository) UpdateVerification(ctx context.Context, user *entities.User) error {
	updates := map[string]interface{}{
		"kyc_status":        string(user.KYCStatus),
		"kyb_status":        string(user.KYBStatus),
		"profile_completed": user.ProfileCompleted,
		"updated_at":        time.Now(),
	}
	if user.LegacyKYBStatus.Valid {
		updates["kyb_status_legacy"] = user.LegacyKYBStatus.String
	}
	if user.KYBSubmittedAt.Valid {
		updates["kyb_submitted_at"] = user.KYBSubmittedAt.Time
	}
	if user.KYB != nil {
		raw, err := json.Marshal(user.KYB)
		if err != nil {
			return err
		}
		updates["kyb_document"] = string(raw)
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkEmailVerified flags a user's email address as confirmed
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_email_verified": true,
		"updated_at":        time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists users with optional search and role/status filters
func (r *UserRepository) List(ctx context.Context, search string, params *domainrepos.ListUsersParams) ([]*entities.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	if search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}
	if params != nil {
		if params.Role != "" {
			query = query.Where("role = ?", params.Role)
		}
		if params.Status != "" {
			query = query.Where("kyb_status = ?", params.Status)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if params != nil && params.Limit > 0 {
		query = query.Limit(params.Limit).Offset(params.Offset)
	}

	var userModels []models.User
	if err := query.Find(&userModels).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*entities.User, 0, len(userModels))
	for i := range userModels {
		u, err := r.toEntity(&userModels[i])
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, nil
}

// CountByRole counts users grouped by role
func (r *UserRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Role  string
		Count int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, count(*) as count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Role] = rw.Count
	}
	return counts, nil
}

// SoftDelete soft deletes a user
func (r *UserRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) toModel(u *entities.User) (*models.User, error) {
	m := &models.User{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		PasswordHash:     u.PasswordHash,
		Role:             string(u.Role),
		CompanyName:      u.CompanyName.Ptr(),
		KYCStatus:        string(u.KYCStatus),
		KYBStatus:        string(u.KYBStatus),
		LegacyKYBStatus:  u.LegacyKYBStatus.Ptr(),
		KYBSubmittedAt:   u.KYBSubmittedAt.Ptr(),
		KYCSubmittedAt:   u.KYCSubmittedAt.Ptr(),
		ProfileCompleted: u.ProfileCompleted,
		IsEmailVerified:  u.IsEmailVerified,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
	if u.KYB != nil {
		raw, err := json.Marshal(u.KYB)
		if err != nil {
			return nil, err
		}
		doc := string(raw)
		m.KYBDocument = &doc
	}
	return m, nil
}

func (r *UserRepository) toEntity(m *models.User) (*entities.User, error) {
	u := &entities.User{
		ID:               m.ID,
		Email:            m.Email,
		Name:             m.Name,
		PasswordHash:     m.PasswordHash,
		Role:             entities.UserRole(m.Role),
		CompanyName:      null.StringFromPtr(m.CompanyName),
		KYCStatus:        entities.VerificationStatus(m.KYCStatus),
		KYBStatus:        entities.VerificationStatus(m.KYBStatus),
		LegacyKYBStatus:  null.StringFromPtr(m.LegacyKYBStatus),
		KYBSubmittedAt:   null.TimeFromPtr(m.KYBSubmittedAt),
		KYCSubmittedAt:   null.TimeFromPtr(m.KYCSubmittedAt),
		ProfileCompleted: m.ProfileCompleted,
		IsEmailVerified:  m.IsEmailVerified,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.KYBDocument != nil && *m.KYBDocument != "" {
		var doc entities.KYBDocument
		if err := json.Unmarshal([]byte(*m.KYBDocument), &doc); err != nil {
			return nil, err
		}
		u.KYB = &doc
	}
	return u, nil
}

// EmailVerificationRepository implements email verification token operations
type EmailVerificationRepository struct {
	db *gorm.DB
}

// NewEmailVerificationRepository creates a new email verification repository
func NewEmailVerificationRepository(db *gorm.DB) *EmailVerificationRepository {
	return &EmailVerificationRepository{db: db}
}

// Create creates a new email verification token valid for 24 hours
func (r *EmailVerificationRepository) Create(ctx context.Context, userID uuid.UUID, token string) error {
	m := &models.EmailVerification{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// GetUserByToken resolves a live verification token to its user
func (r *EmailVerificationRepository) GetUserByToken(ctx context.Context, token string) (*entities.User, error) {
	var m models.EmailVerification
	err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ? AND verified_at IS NULL", token, time.Now()).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	users := NewUserRepository(r.db)
	return users.GetByID(ctx, m.UserID)
}

// MarkVerified consumes a verification token
func (r *EmailVerificationRepository) MarkVerified(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).Model(&models.EmailVerification{}).
		Where("token = ? AND verified_at IS NULL", token).
		Update("verified_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
