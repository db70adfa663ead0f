package call

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/domain/chat"
	"github.com/konekt/konekt-api/internal/pkg/capability"
)

// DefaultStaleThreshold is how long a call may ring before the next
// initiation between either party sweeps it to missed.
const DefaultStaleThreshold = 5 * time.Minute

// Real-time event names pushed to participants
const (
	EventIncomingCall = "incomingCall"
	EventCallAccepted = "callAccepted"
	EventCallDeclined = "callDeclined"
	EventCallEnded    = "callEnded"
	EventCallMissed   = "callMissed"
)

// Notifier pushes call events to connected clients. Delivery is
// best-effort and never fails the operation.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event string, payload interface{}) error
}

// Service manages the call session lifecycle
type Service struct {
	repo           *Repository
	chatRepo       chat.Repository
	notifier       Notifier
	staleThreshold time.Duration
}

// NewService creates call service. A zero staleThreshold falls back to
// the default; notifier may be nil.
func NewService(repo *Repository, chatRepo chat.Repository, notifier Notifier, staleThreshold time.Duration) *Service {
	if staleThreshold <= 0 {
		staleThreshold = DefaultStaleThreshold
	}
	return &Service{repo: repo, chatRepo: chatRepo, notifier: notifier, staleThreshold: staleThreshold}
}

// Initiate starts a call in the given chat room. The other room
// participant becomes the callee. Stale pending calls involving either
// party are swept to missed first, then an active session on either
// side rejects the new call.
func (s *Service) Initiate(ctx context.Context, callerID, roomID uuid.UUID, callType SessionType) (*Session, error) {
	room, err := s.chatRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrChatNotFound
	}
	if !room.HasParticipant(callerID) {
		return nil, ErrNotParticipant
	}

	calleeID := room.GetOtherParticipant(callerID)
	if calleeID == callerID {
		return nil, ErrSelfCall
	}

	cutoff := time.Now().Add(-s.staleThreshold)
	swept, err := s.repo.SweepStale(ctx, callerID, calleeID, cutoff)
	if err != nil {
		return nil, err
	}
	for _, stale := range swept {
		log.Info().
			Str("call_id", stale.ID.String()).
			Str("caller_id", stale.CallerID.String()).
			Msg("stale pending call marked missed")
		s.notify(ctx, stale.CallerID, EventCallMissed, stale)
	}

	for _, id := range []uuid.UUID{callerID, calleeID} {
		active, err := s.repo.HasActive(ctx, id)
		if err != nil {
			return nil, err
		}
		if active {
			return nil, ErrAlreadyInCall
		}
	}

	session := &Session{
		ID:        uuid.New(),
		RoomID:    roomID,
		CallerID:  callerID,
		CalleeID:  calleeID,
		Type:      callType,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	log.Info().
		Str("call_id", session.ID.String()).
		Str("caller_id", callerID.String()).
		Str("callee_id", calleeID.String()).
		Str("type", string(callType)).
		Msg("call initiated")

	s.notify(ctx, calleeID, EventIncomingCall, session)
	return session, nil
}

// Accept answers a pending call. Callee only.
func (s *Service) Accept(ctx context.Context, sessionID, userID uuid.UUID) (*Session, error) {
	session, err := s.repo.Accept(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("call_id", session.ID.String()).Msg("call accepted")

	s.notify(ctx, session.CallerID, EventCallAccepted, session)
	s.notify(ctx, session.CalleeID, EventCallAccepted, session)
	return session, nil
}

// Decline rejects a pending call. Callee only.
func (s *Service) Decline(ctx context.Context, sessionID, userID uuid.UUID) (*Session, error) {
	session, err := s.repo.Decline(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	log.Info().Str("call_id", session.ID.String()).Msg("call declined")

	s.notify(ctx, session.CallerID, EventCallDeclined, session)
	return session, nil
}

// End terminates a call from any non-terminal state. Either participant
// may end; ending an already-terminal session is an idempotent success.
func (s *Service) End(ctx context.Context, sessionID, userID uuid.UUID) (*Session, error) {
	current, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !current.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	if current.IsTerminal() {
		return current, nil
	}

	session, err := s.repo.End(ctx, sessionID)
	if err != nil {
		// Lost a race with another terminal transition, fetch the result.
		if errors.Is(err, ErrInvalidTransition) {
			return s.repo.GetByID(ctx, sessionID)
		}
		return nil, err
	}

	log.Info().
		Str("call_id", session.ID.String()).
		Int64("duration", session.Duration).
		Msg("call ended")

	s.notify(ctx, session.CallerID, EventCallEnded, session)
	s.notify(ctx, session.CalleeID, EventCallEnded, session)
	return session, nil
}

// Cleanup force-ends every active session involving the user and
// returns them. Recovers from a client that crashed mid-call.
func (s *Service) Cleanup(ctx context.Context, userID uuid.UUID) ([]*Session, error) {
	ended, err := s.repo.CleanupByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, session := range ended {
		log.Info().
			Str("call_id", session.ID.String()).
			Str("user_id", userID.String()).
			Msg("call force-ended by cleanup")
		s.notify(ctx, session.OtherParticipant(userID), EventCallEnded, session)
	}
	return ended, nil
}

// Get returns a session visible only to its participants
func (s *Service) Get(ctx context.Context, sessionID, userID uuid.UUID) (*Session, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d := capability.Check(userID, "", session, capability.ActionRead); !d.Allowed {
		return nil, ErrNotParticipant
	}
	return session, nil
}

// History returns the user's call history, newest first
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Session, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, event string, session *Session) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, event, session); err != nil {
		log.Warn().Err(err).
			Str("user_id", userID.String()).
			Str("event", event).
			Msg("call notification delivery failed")
	}
}
