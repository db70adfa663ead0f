package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/domain/user"
	"github.com/konekt/konekt-api/internal/pkg/capability"
)

// Service handles chat business logic
type Service struct {
	repo     Repository
	userRepo user.Repository
	hub      *Hub
}

// NewService creates chat service
func NewService(repo Repository, userRepo user.Repository, hub *Hub) *Service {
	return &Service{repo: repo, userRepo: userRepo, hub: hub}
}

// StartChat creates a direct room with the named user or returns the
// existing one.
func (s *Service) StartChat(ctx context.Context, userID uuid.UUID, recipientUsername string) (*Room, error) {
	recipient, err := s.userRepo.GetByUsername(ctx, recipientUsername)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if recipient.ID == userID {
		return nil, ErrCannotChatSelf
	}

	existing, err := s.repo.GetRoomByUsers(ctx, userID, recipient.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	room := &Room{
		ID:             uuid.New(),
		Participant1ID: userID,
		Participant2ID: recipient.ID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// GetRoom returns room by ID with access check
func (s *Service) GetRoom(ctx context.Context, userID, roomID uuid.UUID) (*Room, error) {
	room, err := s.repo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	if d := capability.Check(userID, "", room, capability.ActionRead); !d.Allowed {
		return nil, ErrNotRoomMember
	}
	return room, nil
}

// RoomWithUnread is a room annotated with its unread message count
type RoomWithUnread struct {
	*Room
	UnreadCount int `json:"unread_count"`
}

// ListRooms returns all rooms for user with unread counts
func (s *Service) ListRooms(ctx context.Context, userID uuid.UUID) ([]*RoomWithUnread, error) {
	rooms, err := s.repo.ListRoomsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*RoomWithUnread, len(rooms))
	for i, room := range rooms {
		unread, err := s.repo.CountUnreadByRoom(ctx, room.ID, userID)
		if err != nil {
			// The room list is still useful without the badge.
			log.Warn().Err(err).Str("room_id", room.ID.String()).Msg("failed to count unread messages")
			unread = 0
		}
		result[i] = &RoomWithUnread{Room: room, UnreadCount: unread}
	}
	return result, nil
}

// SendMessage sends a message in a room and broadcasts it
func (s *Service) SendMessage(ctx context.Context, userID, roomID uuid.UUID, content string, msgType MessageType) (*Message, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if msgType == "" {
		msgType = MessageTypeText
	}

	room, err := s.GetRoom(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}

	msg := &Message{
		ID:          uuid.New(),
		RoomID:      roomID,
		SenderID:    userID,
		Content:     content,
		MessageType: msgType,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	// Best-effort; a failed preview update never fails the send.
	_ = s.repo.UpdateRoomLastMessage(ctx, roomID, content)

	if s.hub != nil {
		s.hub.BroadcastToRoom(room.ID, &WSEvent{
			Type:     EventNewMessage,
			RoomID:   room.ID,
			SenderID: userID,
			Message:  msg,
		})
	}

	return msg, nil
}

// GetMessages returns paginated messages, newest first
func (s *Service) GetMessages(ctx context.Context, userID, roomID uuid.UUID, limit, offset int) ([]*Message, error) {
	if _, err := s.GetRoom(ctx, userID, roomID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListMessagesByRoom(ctx, roomID, limit, offset)
}

// MarkAsRead marks all messages from the other participant as read
func (s *Service) MarkAsRead(ctx context.Context, userID, roomID uuid.UUID) error {
	room, err := s.GetRoom(ctx, userID, roomID)
	if err != nil {
		return err
	}

	if err := s.repo.MarkMessagesAsRead(ctx, roomID, userID); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(room.ID, &WSEvent{
			Type:     EventRead,
			RoomID:   room.ID,
			SenderID: userID,
		})
	}
	return nil
}

// UnreadCount returns total unread messages for the user
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnreadByUser(ctx, userID)
}
