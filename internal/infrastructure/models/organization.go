package models

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;index"`
	OrganizationName    string    `gorm:"type:varchar(255);not null"`
	OrganizationType    string    `gorm:"type:varchar(100)"`
	RegistrationNumber  string    `gorm:"type:varchar(100)"`
	TaxID               string    `gorm:"type:varchar(100)"`
	Address             string    `gorm:"type:text"`
	Country             string    `gorm:"type:varchar(100)"`
	ContactPerson       string    `gorm:"type:varchar(255)"`
	Email               string    `gorm:"type:varchar(255);not null;index"`
	Phone               string    `gorm:"type:varchar(50)"`
	Website             string    `gorm:"type:varchar(255)"`
	BusinessDescription string    `gorm:"type:text"`
	Documents           *string   `gorm:"type:jsonb"`
	KYBStatus           string    `gorm:"type:varchar(50);not null;default:'pending';index"`
	RejectionReason     *string   `gorm:"type:text"`
	ReviewedBy          *string   `gorm:"type:varchar(255)"`
	ReviewedAt          *time.Time
	SubmittedAt         *time.Time
	OnChainTxHash       *string `gorm:"type:varchar(66)"`
	OnChainStoredAt     *time.Time
	OnChainDeleted      bool    `gorm:"default:false"`
	OnChainDeleteTxHash *string `gorm:"type:varchar(66)"`
	OnChainDeletedAt    *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
