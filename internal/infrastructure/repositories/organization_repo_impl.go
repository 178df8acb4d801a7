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

// OrganizationRepository implements organization data operations
type OrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Create creates a new organization
func (r *OrganizationRepository) Create(ctx context.Context, org *entities.Organization) error {
	m := r.toModel(org)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	org.ID = m.ID
	return nil
}

// GetByID gets an organization by ID
func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Organization, error) {
	var m models.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByUserID gets an organization by its owning user
func (r *OrganizationRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Organization, error) {
	var m models.Organization
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByEmail gets an organization by contact email
func (r *OrganizationRepository) GetByEmail(ctx context.Context, email string) (*entities.Organization, error) {
	var m models.Organization
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Update writes the full set of mutable organization columns
func (r *OrganizationRepository) Update(ctx context.Context, org *entities.Organization) error {
	updates := map[string]interface{}{
		"organization_name":    org.OrganizationName,
		"organization_type":    org.OrganizationType,
		"registration_number":  org.RegistrationNumber,
		"tax_id":               org.TaxID,
		"address":              org.Address,
		"country":              org.Country,
		"contact_person":       org.ContactPerson,
		"email":                org.Email,
		"phone":                org.Phone,
		"website":              org.Website,
		"business_description": org.BusinessDescription,
		"kyb_status":           string(org.KYBStatus),
		"updated_at":           time.Now(),
	}
	if org.Documents.Valid {
		updates["documents"] = string(org.Documents.JSON)
	}
	if org.SubmittedAt.Valid {
		updates["submitted_at"] = org.SubmittedAt.Time
	}

	result := r.db.WithContext(ctx).Model(&models.Organization{}).Where("id = ?", org.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateDecision writes only the review outcome columns
func (r *OrganizationRepository) UpdateDecision(ctx context.Context, org *entities.Organization) error {
	updates := map[string]interface{}{
		"kyb_status":       string(org.KYBStatus),
		"rejection_reason": org.RejectionReason.Ptr(),
		"reviewed_by":      org.ReviewedBy.Ptr(),
		"reviewed_at":      org.ReviewedAt.Ptr(),
		"updated_at":       time.Now(),
	}

	result := r.db.WithContext(ctx).Model(&models.Organization{}).Where("id = ?", org.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateOnChain writes only the on-chain proof columns
func (r *OrganizationRepository) UpdateOnChain(ctx context.Context, org *entities.Organization) error {
	updates := map[string]interface{}{
		"on_chain_tx_hash":        org.OnChainTxHash.Ptr(),
		"on_chain_stored_at":      org.OnChainStoredAt.Ptr(),
		"on_chain_deleted":        org.OnChainDeleted,
		"on_chain_delete_tx_hash": org.OnChainDeleteTxHash.Ptr(),
		"on_chain_deleted_at":     org.OnChainDeletedAt.Ptr(),
		"updated_at":              time.Now(),
	}

	result := r.db.WithContext(ctx).Model(&models.Organization{}).Where("id = ?", org.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists organizations with an optional status filter
func (r *OrganizationRepository) List(ctx context.Context, status string, limit, offset int) ([]*entities.Organization, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Organization{})
	if status != "" {
		query = query.Where("kyb_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var orgModels []models.Organization
	if err := query.Find(&orgModels).Error; err != nil {
		return nil, 0, err
	}

	orgs := make([]*entities.Organization, 0, len(orgModels))
	for i := range orgModels {
		orgs = append(orgs, r.toEntity(&orgModels[i]))
	}
	return orgs, total, nil
}

// CountByStatus counts organizations grouped by kyb status
func (r *OrganizationRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		KYBStatus string
		Count     int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Organization{}).
		Select("kyb_status, count(*) as count").
		Group("kyb_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.KYBStatus] = rw.Count
	}
	return counts, nil
}

func (r *OrganizationRepository) toModel(o *entities.Organization) *models.Organization {
	m := &models.Organization{
		ID:                  o.ID,
		UserID:              o.UserID,
		OrganizationName:    o.OrganizationName,
		OrganizationType:    o.OrganizationType,
		RegistrationNumber:  o.RegistrationNumber,
		TaxID:               o.TaxID,
		Address:             o.Address,
		Country:             o.Country,
		ContactPerson:       o.ContactPerson,
		Email:               o.Email,
		Phone:               o.Phone,
		Website:             o.Website,
		BusinessDescription: o.BusinessDescription,
		KYBStatus:           string(o.KYBStatus),
		RejectionReason:     o.RejectionReason.Ptr(),
		ReviewedBy:          o.ReviewedBy.Ptr(),
		ReviewedAt:          o.ReviewedAt.Ptr(),
		SubmittedAt:         o.SubmittedAt.Ptr(),
		OnChainTxHash:       o.OnChainTxHash.Ptr(),
		OnChainStoredAt:     o.OnChainStoredAt.Ptr(),
		OnChainDeleted:      o.OnChainDeleted,
		OnChainDeleteTxHash: o.OnChainDeleteTxHash.Ptr(),
		OnChainDeletedAt:    o.OnChainDeletedAt.Ptr(),
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
	if o.Documents.Valid {
		docs := string(o.Documents.JSON)
		m.Documents = &docs
	}
	return m
}

func (r *OrganizationRepository) toEntity(m *models.Organization) *entities.Organization {
	o := &entities.Organization{
		ID:                  m.ID,
		UserID:              m.UserID,
		OrganizationName:    m.OrganizationName,
		OrganizationType:    m.OrganizationType,
		RegistrationNumber:  m.RegistrationNumber,
		TaxID:               m.TaxID,
		Address:             m.Address,
		Country:             m.Country,
		ContactPerson:       m.ContactPerson,
		Email:               m.Email,
		Phone:               m.Phone,
		Website:             m.Website,
		BusinessDescription: m.BusinessDescription,
		KYBStatus:           entities.VerificationStatus(m.KYBStatus),
		RejectionReason:     null.StringFromPtr(m.RejectionReason),
		ReviewedBy:          null.StringFromPtr(m.ReviewedBy),
		ReviewedAt:          null.TimeFromPtr(m.ReviewedAt),
		SubmittedAt:         null.TimeFromPtr(m.SubmittedAt),
		OnChainTxHash:       null.StringFromPtr(m.OnChainTxHash),
		OnChainStoredAt:     null.TimeFromPtr(m.OnChainStoredAt),
		OnChainDeleted:      m.OnChainDeleted,
		OnChainDeleteTxHash: null.StringFromPtr(m.OnChainDeleteTxHash),
		OnChainDeletedAt:    null.TimeFromPtr(m.OnChainDeletedAt),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
	if m.Documents != nil && *m.Documents != "" {
		o.Documents = null.JSONFrom([]byte(*m.Documents))
	}
	return o
}
