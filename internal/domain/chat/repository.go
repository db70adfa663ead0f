package chat

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines chat data access interface
type Repository interface {
	// Room operations
	CreateRoom(ctx context.Context, room *Room) error
	GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error)
	GetRoomByUsers(ctx context.Context, user1, user2 uuid.UUID) (*Room, error)
	ListRoomsByUser(ctx context.Context, userID uuid.UUID) ([]*Room, error)
	UpdateRoomLastMessage(ctx context.Context, roomID uuid.UUID, preview string) error

	// Message operations
	CreateMessage(ctx context.Context, msg *Message) error
	ListMessagesByRoom(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*Message, error)
	MarkMessagesAsRead(ctx context.Context, roomID, userID uuid.UUID) error
	CountUnreadByRoom(ctx context.Context, roomID, userID uuid.UUID) (int, error)
	CountUnreadByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new chat repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRoom(ctx context.Context, room *Room) error {
	query := `
		INSERT INTO chat_rooms (id, participant1_id, participant2_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		room.ID,
		room.Participant1ID,
		room.Participant2ID,
		room.CreatedAt,
	)
	return err
}

func (r *repository) GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	var room Room
	err := r.db.GetContext(ctx, &room, `SELECT * FROM chat_rooms WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *repository) GetRoomByUsers(ctx context.Context, user1, user2 uuid.UUID) (*Room, error) {
	query := `
		SELECT * FROM chat_rooms
		WHERE (participant1_id = $1 AND participant2_id = $2)
		   OR (participant1_id = $2 AND participant2_id = $1)
	`
	var room Room
	err := r.db.GetContext(ctx, &room, query, user1, user2)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (r *repository) ListRoomsByUser(ctx context.Context, userID uuid.UUID) ([]*Room, error) {
	query := `
		SELECT * FROM chat_rooms
		WHERE participant1_id = $1 OR participant2_id = $1
		ORDER BY last_message_at DESC NULLS LAST, created_at DESC
	`
	var rooms []*Room
	err := r.db.SelectContext(ctx, &rooms, query, userID)
	return rooms, err
}

func (r *repository) UpdateRoomLastMessage(ctx context.Context, roomID uuid.UUID, preview string) error {
	if len(preview) > 97 {
		preview = preview[:97] + "..."
	}

	query := `
		UPDATE chat_rooms
		SET last_message_at = now(), last_message_preview = $1
		WHERE id = $2
	`
	_, err := r.db.ExecContext(ctx, query, preview, roomID)
	return err
}

func (r *repository) CreateMessage(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO chat_messages (id, room_id, sender_id, content, message_type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		msg.ID,
		msg.RoomID,
		msg.SenderID,
		msg.Content,
		msg.MessageType,
		msg.IsRead,
		msg.CreatedAt,
	)
	return err
}

func (r *repository) ListMessagesByRoom(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*Message, error) {
	query := `
		SELECT * FROM chat_messages
		WHERE room_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var messages []*Message
	err := r.db.SelectContext(ctx, &messages, query, roomID, limit, offset)
	return messages, err
}

func (r *repository) MarkMessagesAsRead(ctx context.Context, roomID, userID uuid.UUID) error {
	query := `
		UPDATE chat_messages
		SET is_read = true, read_at = now()
		WHERE room_id = $1 AND sender_id <> $2 AND is_read = false
	`
	_, err := r.db.ExecContext(ctx, query, roomID, userID)
	return err
}

// CountUnreadByRoom recomputes the unread count from the messages table,
// the source of truth, rather than tracking a separate counter.
func (r *repository) CountUnreadByRoom(ctx context.Context, roomID, userID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT count(*) FROM chat_messages
		WHERE room_id = $1 AND sender_id <> $2 AND is_read = false
	`
	err := r.db.GetContext(ctx, &count, query, roomID, userID)
	return count, err
}

func (r *repository) CountUnreadByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT count(*) FROM chat_messages m
		JOIN chat_rooms r ON r.id = m.room_id
		WHERE (r.participant1_id = $1 OR r.participant2_id = $1)
		  AND m.sender_id <> $1 AND m.is_read = false
	`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}
