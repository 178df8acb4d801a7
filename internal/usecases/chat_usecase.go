package usecases

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"cryptorafts.backend/internal/domain/entities"
	domainerrors "cryptorafts.backend/internal/domain/errors"
	"cryptorafts.backend/internal/domain/repositories"
)

// ChatUsecase handles deal room conversations. Every operation checks the
// caller is a participant of the room it touches.
type ChatUsecase struct {
	chatRepo repositories.ChatRepository
	userRepo repositories.UserRepository
}

// NewChatUsecase creates a new chat usecase
func NewChatUsecase(chatRepo repositories.ChatRepository, userRepo repositories.UserRepository) *ChatUsecase {
	return &ChatUsecase{
		chatRepo: chatRepo,
		userRepo: userRepo,
	}
}

// CreateRoom creates a room. The creator is always a participant.
func (u *ChatUsecase) CreateRoom(ctx context.Context, creatorID uuid.UUID, input *entities.CreateRoomInput) (*entities.ChatRoom, error) {
	participants := input.Participants
	creator := creatorID.String()
	if !contains(participants, creator) {
		participants = append(participants, creator)
	}

	room := &entities.ChatRoom{
		ID:           uuid.New(),
		Name:         input.Name,
		Participants: participants,
	}
	if err := u.chatRepo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// ListRooms returns the caller's rooms
func (u *ChatUsecase) ListRooms(ctx context.Context, userID uuid.UUID) ([]*entities.ChatRoom, error) {
	return u.chatRepo.ListRoomsByParticipant(ctx, userID.String())
}

// SendMessage posts a message to a room the sender participates in. A
// message needs at least one of text, file or voice content.
func (u *ChatUsecase) SendMessage(ctx context.Context, roomID, senderID uuid.UUID, input *entities.SendMessageInput) (*entities.ChatMessage, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" && input.FileURL == "" && input.VoiceURL == "" {
		return nil, domainerrors.BadRequest("message is empty")
	}

	room, err := u.memberRoom(ctx, roomID, senderID)
	if err != nil {
		return nil, err
	}

	sender, err := u.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := &entities.ChatMessage{
		ID:         uuid.New(),
		RoomID:     room.ID,
		SenderID:   sender.ID,
		SenderName: sender.Name,
		Text:       text,
		ReadBy:     []string{sender.ID.String()},
	}
	if input.FileURL != "" {
		msg.FileURL = null.StringFrom(input.FileURL)
	}
	if input.VoiceURL != "" {
		msg.VoiceURL = null.StringFrom(input.VoiceURL)
	}

	if err := u.chatRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	// bump the room so it sorts to the top of the inbox
	if err := u.chatRepo.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns a room's messages for a participant
func (u *ChatUsecase) ListMessages(ctx context.Context, roomID, userID uuid.UUID, limit, offset int) ([]*entities.ChatMessage, int64, error) {
	if _, err := u.memberRoom(ctx, roomID, userID); err != nil {
		return nil, 0, err
	}
	return u.chatRepo.ListMessages(ctx, roomID, limit, offset)
}

// ToggleReaction adds the caller's reaction, or removes it when already set
func (u *ChatUsecase) ToggleReaction(ctx context.Context, messageID, userID uuid.UUID, emoji string) (*entities.ChatMessage, error) {
	if strings.TrimSpace(emoji) == "" {
		return nil, domainerrors.BadRequest("emoji is required")
	}

	msg, err := u.chatRepo.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if _, err := u.memberRoom(ctx, msg.RoomID, userID); err != nil {
		return nil, err
	}

	uid := userID.String()
	if msg.Reactions == nil {
		msg.Reactions = map[string][]string{}
	}
	if msg.HasReaction(emoji, uid) {
		msg.Reactions[emoji] = remove(msg.Reactions[emoji], uid)
		if len(msg.Reactions[emoji]) == 0 {
			delete(msg.Reactions, emoji)
		}
	} else {
		msg.Reactions[emoji] = append(msg.Reactions[emoji], uid)
	}

	if err := u.chatRepo.UpdateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// MarkRead records that the caller has seen a message
func (u *ChatUsecase) MarkRead(ctx context.Context, messageID, userID uuid.UUID) error {
	msg, err := u.chatRepo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if _, err := u.memberRoom(ctx, msg.RoomID, userID); err != nil {
		return err
	}

	uid := userID.String()
	if contains(msg.ReadBy, uid) {
		return nil
	}
	msg.ReadBy = append(msg.ReadBy, uid)
	return u.chatRepo.UpdateMessage(ctx, msg)
}

// MarkRoomRead records that the caller has seen every message in the room
func (u *ChatUsecase) MarkRoomRead(ctx context.Context, roomID, userID uuid.UUID) (int, error) {
	if _, err := u.memberRoom(ctx, roomID, userID); err != nil {
		return 0, err
	}

	msgs, _, err := u.chatRepo.ListMessages(ctx, roomID, 0, 0)
	if err != nil {
		return 0, err
	}

	uid := userID.String()
	marked := 0
	for _, msg := range msgs {
		if contains(msg.ReadBy, uid) {
			continue
		}
		msg.ReadBy = append(msg.ReadBy, uid)
		if err := u.chatRepo.UpdateMessage(ctx, msg); err != nil {
			return marked, err
		}
		marked++
	}
	return marked, nil
}

// SetPinned pins or unpins a message on its room
func (u *ChatUsecase) SetPinned(ctx context.Context, roomID, userID uuid.UUID, input *entities.PinInput) (*entities.ChatRoom, error) {
	room, err := u.memberRoom(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}

	msgID, err := uuid.Parse(input.MessageID)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid message id")
	}
	msg, err := u.chatRepo.GetMessage(ctx, msgID)
	if err != nil {
		return nil, err
	}
	if msg.RoomID != room.ID {
		return nil, domainerrors.BadRequest("message belongs to another room")
	}

	pinned := contains(room.PinnedMessages, input.MessageID)
	if input.Pinned && !pinned {
		room.PinnedMessages = append(room.PinnedMessages, input.MessageID)
	} else if !input.Pinned && pinned {
		room.PinnedMessages = remove(room.PinnedMessages, input.MessageID)
	} else {
		return room, nil
	}

	if err := u.chatRepo.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (u *ChatUsecase) memberRoom(ctx context.Context, roomID, userID uuid.UUID) (*entities.ChatRoom, error) {
	room, err := u.chatRepo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !contains(room.Participants, userID.String()) {
		return nil, domainerrors.Forbidden("not a participant of this room")
	}
	return room, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
