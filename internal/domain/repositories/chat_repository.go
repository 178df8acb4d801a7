package repositories

import (
	"context"

	"github.com/google/uuid"
	"cryptorafts.backend/internal/domain/entities"
)

// ChatRepository defines chat room and message data operations
type ChatRepository interface {
	CreateRoom(ctx context.Context, room *entities.ChatRoom) error
	GetRoom(ctx context.Context, id uuid.UUID) (*entities.ChatRoom, error)
	ListRoomsByParticipant(ctx context.Context, userID string) ([]*entities.ChatRoom, error)
	UpdateRoom(ctx context.Context, room *entities.ChatRoom) error

	CreateMessage(ctx context.Context, msg *entities.ChatMessage) error
	GetMessage(ctx context.Context, id uuid.UUID) (*entities.ChatMessage, error)
	ListMessages(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*entities.ChatMessage, int64, error)
	UpdateMessage(ctx context.Context, msg *entities.ChatMessage) error
}
