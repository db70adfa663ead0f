package call

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// SessionType is the media type of a call
type SessionType string

const (
	TypeAudio SessionType = "audio"
	TypeVideo SessionType = "video"
)

// SessionStatus is a call session lifecycle state
type SessionStatus string

const (
	StatusPending  SessionStatus = "pending"
	StatusAccepted SessionStatus = "accepted"
	StatusDeclined SessionStatus = "declined"
	StatusEnded    SessionStatus = "ended"
	StatusMissed   SessionStatus = "missed"
)

// Session represents a two-party call. Sessions are never deleted,
// terminal ones are retained as call history.
type Session struct {
	ID        uuid.UUID     `db:"id" json:"callId"`
	RoomID    uuid.UUID     `db:"room_id" json:"room_id"`
	CallerID  uuid.UUID     `db:"caller_id" json:"caller_id"`
	CalleeID  uuid.UUID     `db:"callee_id" json:"callee_id"`
	Type      SessionType   `db:"call_type" json:"call_type"`
	Status    SessionStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	StartedAt sql.NullTime  `db:"started_at" json:"started_at,omitempty"`
	EndedAt   sql.NullTime  `db:"ended_at" json:"ended_at,omitempty"`
	Duration  int64         `db:"duration" json:"duration"` // seconds
}

// IsTerminal reports whether the session can no longer transition
func (s *Session) IsTerminal() bool {
	switch s.Status {
	case StatusDeclined, StatusEnded, StatusMissed:
		return true
	}
	return false
}

// HasParticipant reports whether userID is caller or callee
func (s *Session) HasParticipant(userID uuid.UUID) bool {
	return s.CallerID == userID || s.CalleeID == userID
}

// OtherParticipant returns the peer of userID in the session
func (s *Session) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if s.CallerID == userID {
		return s.CalleeID
	}
	return s.CallerID
}

// OwnerIDs implements capability.Resource
func (s *Session) OwnerIDs() []uuid.UUID {
	return []uuid.UUID{s.CallerID, s.CalleeID}
}
