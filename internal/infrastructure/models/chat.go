package models

import (
	"time"

	"github.com/google/uuid"
)

type ChatRoom struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name           string    `gorm:"type:varchar(100);not null"`
	Participants   string    `gorm:"type:jsonb;not null;default:'[]'"`
	PinnedMessages string    `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ChatMessage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	RoomID     uuid.UUID `gorm:"type:uuid;not null;index"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null"`
	SenderName string    `gorm:"type:varchar(255)"`
	Text       string    `gorm:"type:text"`
	FileURL    *string   `gorm:"type:varchar(512)"`
	VoiceURL   *string   `gorm:"type:varchar(512)"`
	Reactions  string    `gorm:"type:jsonb;not null;default:'{}'"`
	ReadBy     string    `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt  time.Time
}
