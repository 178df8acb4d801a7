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
	"cryptorafts.backend/internal/infrastructure/models"
)

// ChatRepository implements chat room and message data operations.
// List-valued fields (participants, reactions, read receipts) are stored
// as jsonb columns and marshalled at the boundary.
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// CreateRoom creates a new chat room
func (r *ChatRepository) CreateRoom(ctx context.Context, room *entities.ChatRoom) error {
	m, err := r.roomToModel(room)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	room.ID = m.ID
	return nil
}

// GetRoom gets a chat room by ID
func (r *ChatRepository) GetRoom(ctx context.Context, id uuid.UUID) (*entities.ChatRoom, error) {
	var m models.ChatRoom
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.roomToEntity(&m)
}

// ListRoomsByParticipant lists rooms whose participant list contains userID.
// The jsonb array is matched with LIKE on the serialized id, which is exact
// for uuid strings.
func (r *ChatRepository) ListRoomsByParticipant(ctx context.Context, userID string) ([]*entities.ChatRoom, error) {
	var roomModels []models.ChatRoom
	err := r.db.WithContext(ctx).
		Where("participants LIKE ?", "%\""+userID+"\"%").
		Order("updated_at DESC").
		Find(&roomModels).Error
	if err != nil {
		return nil, err
	}

	rooms := make([]*entities.ChatRoom, 0, len(roomModels))
	for i := range roomModels {
		room, err := r.roomToEntity(&roomModels[i])
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// UpdateRoom writes the mutable columns of a room
func (r *ChatRepository) UpdateRoom(ctx context.Context, room *entities.ChatRoom) error {
	participants, err := json.Marshal(room.Participants)
	if err != nil {
		return err
	}
	pinned, err := json.Marshal(room.PinnedMessages)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"name":            room.Name,
		"participants":    string(participants),
		"pinned_messages": string(pinned),
		"updated_at":      time.Now(),
	}

	result := r.db.WithContext(ctx).Model(&models.ChatRoom{}).Where("id = ?", room.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// CreateMessage creates a new chat message
func (r *ChatRepository) CreateMessage(ctx context.Context, msg *entities.ChatMessage) error {
	m, err := r.messageToModel(msg)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	msg.ID = m.ID
	return nil
}

// GetMessage gets a chat message by ID
func (r *ChatRepository) GetMessage(ctx context.Context, id uuid.UUID) (*entities.ChatMessage, error) {
	var m models.ChatMessage
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.messageToEntity(&m)
}

// ListMessages lists a room's messages oldest first
func (r *ChatRepository) ListMessages(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*entities.ChatMessage, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ChatMessage{}).Where("room_id = ?", roomID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var msgModels []models.ChatMessage
	if err := query.Find(&msgModels).Error; err != nil {
		return nil, 0, err
	}

	msgs := make([]*entities.ChatMessage, 0, len(msgModels))
	for i := range msgModels {
		msg, err := r.messageToEntity(&msgModels[i])
		if err != nil {
			return nil, 0, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, total, nil
}

// UpdateMessage writes reactions and read receipts of a message
func (r *ChatRepository) UpdateMessage(ctx context.Context, msg *entities.ChatMessage) error {
	reactions, err := json.Marshal(msg.Reactions)
	if err != nil {
		return err
	}
	readBy, err := json.Marshal(msg.ReadBy)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"reactions": string(reactions),
		"read_by":   string(readBy),
	}

	result := r.db.WithContext(ctx).Model(&models.ChatMessage{}).Where("id = ?", msg.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *ChatRepository) roomToModel(room *entities.ChatRoom) (*models.ChatRoom, error) {
	participants, err := json.Marshal(room.Participants)
	if err != nil {
		return nil, err
	}
	pinned, err := json.Marshal(room.PinnedMessages)
	if err != nil {
		return nil, err
	}
	return &models.ChatRoom{
		ID:             room.ID,
		Name:           room.Name,
		Participants:   string(participants),
		PinnedMessages: string(pinned),
		CreatedAt:      room.CreatedAt,
		UpdatedAt:      room.UpdatedAt,
	}, nil
}

func (r *ChatRepository) roomToEntity(m *models.ChatRoom) (*entities.ChatRoom, error) {
	room := &entities.ChatRoom{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Participants != "" {
		if err := json.Unmarshal([]byte(m.Participants), &room.Participants); err != nil {
			return nil, err
		}
	}
	if m.PinnedMessages != "" {
		if err := json.Unmarshal([]byte(m.PinnedMessages), &room.PinnedMessages); err != nil {
			return nil, err
		}
	}
	return room, nil
}

func (r *ChatRepository) messageToModel(msg *entities.ChatMessage) (*models.ChatMessage, error) {
	reactions := msg.Reactions
	if reactions == nil {
		reactions = map[string][]string{}
	}
	rawReactions, err := json.Marshal(reactions)
	if err != nil {
		return nil, err
	}
	readBy := msg.ReadBy
	if readBy == nil {
		readBy = []string{}
	}
	rawReadBy, err := json.Marshal(readBy)
	if err != nil {
		return nil, err
	}
	return &models.ChatMessage{
		ID:         msg.ID,
		RoomID:     msg.RoomID,
		SenderID:   msg.SenderID,
		SenderName: msg.SenderName,
		Text:       msg.Text,
		FileURL:    msg.FileURL.Ptr(),
		VoiceURL:   msg.VoiceURL.Ptr(),
		Reactions:  string(rawReactions),
		ReadBy:     string(rawReadBy),
		CreatedAt:  msg.CreatedAt,
	}, nil
}

func (r *ChatRepository) messageToEntity(m *models.ChatMessage) (*entities.ChatMessage, error) {
	msg := &entities.ChatMessage{
		ID:         m.ID,
		RoomID:     m.RoomID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Text:       m.Text,
		FileURL:    null.StringFromPtr(m.FileURL),
		VoiceURL:   null.StringFromPtr(m.VoiceURL),
		CreatedAt:  m.CreatedAt,
	}
	if m.Reactions != "" {
		if err := json.Unmarshal([]byte(m.Reactions), &msg.Reactions); err != nil {
			return nil, err
		}
	}
	if m.ReadBy != "" {
		if err := json.Unmarshal([]byte(m.ReadBy), &msg.ReadBy); err != nil {
			return nil, err
		}
	}
	return msg, nil
}
