package models

import (
	"time"

	"github.com/google/uuid"
)

type Pitch struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	FounderID       uuid.UUID `gorm:"type:uuid;not null;index"`
	FounderName     string    `gorm:"type:varchar(255)"`
	FounderEmail    string    `gorm:"type:varchar(255)"`
	ProjectName     string    `gorm:"type:varchar(255);not null"`
	Sector          string    `gorm:"type:varchar(100)"`
	FundingGoal     string    `gorm:"type:varchar(100)"`
	Status          string    `gorm:"type:varchar(50);not null;default:'pending';index"`
	RejectionReason *string   `gorm:"type:text"`
	AIReview        *string   `gorm:"column:ai_review;type:jsonb"`
	ReviewedBy      *string   `gorm:"type:varchar(255)"`
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Pitch) TableName() string {
	return "pitches"
}
