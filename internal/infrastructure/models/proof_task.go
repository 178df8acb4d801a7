package models

import (
	"time"

	"github.com/google/uuid"
)

type ProofTask struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	Operation      string    `gorm:"type:varchar(50);not null"`
	Status         string    `gorm:"type:varchar(50);not null;default:'pending';index"`
	Attempts       int       `gorm:"default:0"`
	MaxAttempts    int       `gorm:"default:3"`
	StoreTxHash    *string   `gorm:"type:varchar(66)"`
	DeleteTxHash   *string   `gorm:"type:varchar(66)"`
	LastError      *string   `gorm:"type:text"`
	RunAfter       time.Time `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
