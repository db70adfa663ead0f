package call

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository persists call sessions. A partial unique index on the
// unordered participant pair (active statuses only) closes the race
// where two initiations between the same pair both pass the conflict
// check before either commits.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const sessionColumns = `id, room_id, caller_id, callee_id, call_type, status, created_at, started_at, ended_at, duration`

// Create inserts a new pending session. The unique pair index maps a
// concurrent duplicate to ErrAlreadyInCall.
func (r *Repository) Create(ctx context.Context, s *Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO call_sessions (id, room_id, caller_id, callee_id, call_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.RoomID, s.CallerID, s.CalleeID, s.Type, s.Status, s.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrAlreadyInCall
	}
	if err != nil {
		return fmt.Errorf("create call session: %w", err)
	}
	return nil
}

// GetByID returns a session or ErrSessionNotFound
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	var s Session
	err := r.db.GetContext(ctx, &s, `
		SELECT `+sessionColumns+` FROM call_sessions WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get call session: %w", err)
	}
	return &s, nil
}

// SweepStale transitions pending sessions involving either user that are
// older than cutoff to missed, and returns the affected sessions.
func (r *Repository) SweepStale(ctx context.Context, userA, userB uuid.UUID, cutoff time.Time) ([]*Session, error) {
	var swept []*Session
	err := r.db.SelectContext(ctx, &swept, `
		UPDATE call_sessions
		SET status = 'missed', ended_at = now()
		WHERE status = 'pending'
		  AND created_at < $3
		  AND (caller_id IN ($1, $2) OR callee_id IN ($1, $2))
		RETURNING `+sessionColumns+`
	`, userA, userB, cutoff)
	if err != nil {
		return nil, fmt.Errorf("sweep stale sessions: %w", err)
	}
	return swept, nil
}

// HasActive reports whether the user has a pending or accepted session
func (r *Repository) HasActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM call_sessions
			WHERE (caller_id = $1 OR callee_id = $1)
			  AND status IN ('pending', 'accepted')
		)
	`, userID)
	if err != nil {
		return false, fmt.Errorf("check active session: %w", err)
	}
	return exists, nil
}

// Accept transitions a pending session to accepted, callee only. The
// conditional WHERE makes the transition atomic; a zero-row update means
// the session was missing, already transitioned, or the user is not the
// callee, which the caller disambiguates via GetByID.
func (r *Repository) Accept(ctx context.Context, sessionID, calleeID uuid.UUID) (*Session, error) {
	var s Session
	err := r.db.GetContext(ctx, &s, `
		UPDATE call_sessions
		SET status = 'accepted', started_at = now()
		WHERE id = $1 AND callee_id = $2 AND status = 'pending'
		RETURNING `+sessionColumns+`
	`, sessionID, calleeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.classifyFailedTransition(ctx, sessionID, calleeID, true)
	}
	if err != nil {
		return nil, fmt.Errorf("accept call session: %w", err)
	}
	return &s, nil
}

// Decline transitions a pending session to declined, callee only
func (r *Repository) Decline(ctx context.Context, sessionID, calleeID uuid.UUID) (*Session, error) {
	var s Session
	err := r.db.GetContext(ctx, &s, `
		UPDATE call_sessions
		SET status = 'declined', ended_at = now()
		WHERE id = $1 AND callee_id = $2 AND status = 'pending'
		RETURNING `+sessionColumns+`
	`, sessionID, calleeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.classifyFailedTransition(ctx, sessionID, calleeID, true)
	}
	if err != nil {
		return nil, fmt.Errorf("decline call session: %w", err)
	}
	return &s, nil
}

// End transitions a non-terminal session to ended. Duration is computed
// from started_at when the call was answered, zero otherwise.
func (r *Repository) End(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	var s Session
	err := r.db.GetContext(ctx, &s, `
		UPDATE call_sessions
		SET status = 'ended',
		    ended_at = now(),
		    duration = CASE
		        WHEN started_at IS NOT NULL THEN EXTRACT(EPOCH FROM (now() - started_at))::bigint
		        ELSE 0
		    END
		WHERE id = $1 AND status IN ('pending', 'accepted')
		RETURNING `+sessionColumns+`
	`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, fmt.Errorf("end call session: %w", err)
	}
	return &s, nil
}

// CleanupByUser force-ends every active session involving the user and
// returns them. Used to recover from a client that crashed mid-call.
func (r *Repository) CleanupByUser(ctx context.Context, userID uuid.UUID) ([]*Session, error) {
	var ended []*Session
	err := r.db.SelectContext(ctx, &ended, `
		UPDATE call_sessions
		SET status = 'ended',
		    ended_at = now(),
		    duration = CASE
		        WHEN started_at IS NOT NULL THEN EXTRACT(EPOCH FROM (now() - started_at))::bigint
		        ELSE 0
		    END
		WHERE (caller_id = $1 OR callee_id = $1)
		  AND status IN ('pending', 'accepted')
		RETURNING `+sessionColumns+`
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("cleanup call sessions: %w", err)
	}
	return ended, nil
}

// ListByUser returns the user's call history, newest first
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Session, error) {
	var sessions []*Session
	err := r.db.SelectContext(ctx, &sessions, `
		SELECT `+sessionColumns+` FROM call_sessions
		WHERE caller_id = $1 OR callee_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list call sessions: %w", err)
	}
	return sessions, nil
}

// classifyFailedTransition maps a zero-row conditional update to the
// precise domain error.
func (r *Repository) classifyFailedTransition(ctx context.Context, sessionID, userID uuid.UUID, calleeOnly bool) error {
	s, err := r.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if !s.HasParticipant(userID) {
		return ErrNotParticipant
	}
	if calleeOnly && s.CalleeID != userID {
		return ErrNotCallee
	}
	return ErrInvalidTransition
}
