package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ChatRoom is a conversation between platform members (deal rooms, team
// chats). Rooms are never deleted in normal flow.
type ChatRoom struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Participants   []string  `json:"participants"`
	PinnedMessages []string  `json:"pinnedMessages"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ChatMessage is a single message in a room. Exactly one of Text, FileURL
// or VoiceURL is expected to be set; Reactions maps an emoji to the set of
// user ids that reacted with it.
type ChatMessage struct {
	ID         uuid.UUID           `json:"id"`
	RoomID     uuid.UUID           `json:"roomId"`
	SenderID   uuid.UUID           `json:"senderId"`
	SenderName string              `json:"senderName"`
	Text       string              `json:"text,omitempty"`
	FileURL    null.String         `json:"fileUrl,omitempty"`
	VoiceURL   null.String         `json:"voiceUrl,omitempty"`
	Reactions  map[string][]string `json:"reactions,omitempty"`
	ReadBy     []string            `json:"readBy"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// HasReaction reports whether userID already reacted with emoji.
func (m *ChatMessage) HasReaction(emoji, userID string) bool {
	for _, id := range m.Reactions[emoji] {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateRoomInput creates a chat room.
type CreateRoomInput struct {
	Name         string   `json:"name" binding:"required,min=1,max=100"`
	Participants []string `json:"participants" binding:"required,min=1"`
}

// SendMessageInput posts a message to a room.
type SendMessageInput struct {
	Text     string `json:"text,omitempty"`
	FileURL  string `json:"fileUrl,omitempty"`
	VoiceURL string `json:"voiceUrl,omitempty"`
}

// ReactionInput toggles a reaction on a message.
type ReactionInput struct {
	Emoji string `json:"emoji" binding:"required"`
}

// PinInput pins or unpins a message on a room.
type PinInput struct {
	MessageID string `json:"messageId" binding:"required"`
	Pinned    bool   `json:"pinned"`
}
