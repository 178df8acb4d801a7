package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name             string    `gorm:"type:varchar(100);not null"`
	PasswordHash     string    `gorm:"type:varchar(255);not null"`
	Role             string    `gorm:"type:varchar(50);not null;default:'founder'"`
	CompanyName      *string   `gorm:"type:varchar(255)"`
	KYCStatus        string    `gorm:"type:varchar(50);default:'pending'"`
	KYBStatus        string    `gorm:"type:varchar(50);default:'pending'"`
	LegacyKYBStatus  *string   `gorm:"column:kyb_status_legacy;type:varchar(50)"`
	KYBDocument      *string   `gorm:"column:kyb_document;type:jsonb"`
	KYBSubmittedAt   *time.Time
	KYCSubmittedAt   *time.Time
	ProfileCompleted bool `gorm:"default:false"`
	IsEmailVerified  bool `gorm:"default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}
