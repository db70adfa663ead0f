package call

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/middleware"
	"github.com/konekt/konekt-api/internal/pkg/response"
	"github.com/konekt/konekt-api/internal/pkg/validator"
)

// Handler handles call HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates call handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type initiateRequest struct {
	RoomID   uuid.UUID   `json:"room_id" validate:"required"`
	CallType SessionType `json:"call_type" validate:"required,call_type"`
}

// Initiate handles POST /calls
func (h *Handler) Initiate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	session, err := h.service.Initiate(r.Context(), userID, req.RoomID, req.CallType)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, session)
}

// Accept handles POST /calls/{id}/accept
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Accept)
}

// Decline handles POST /calls/{id}/decline
func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Decline)
}

// End handles POST /calls/{id}/end
func (h *Handler) End(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.End)
}

// Get handles GET /calls/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Get)
}

// Cleanup handles POST /calls/cleanup
func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ended, err := h.service.Cleanup(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]interface{}{
		"ended_count": len(ended),
		"sessions":    ended,
	})
}

// History handles GET /calls
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	sessions, err := h.service.History(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, sessions)
}

// transition runs a session mutation identified by the path id
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, sessionID, userID uuid.UUID) (*Session, error)) {
	userID := middleware.GetUserID(r.Context())

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid call ID")
		return
	}

	session, err := fn(r.Context(), sessionID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, session)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrChatNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotParticipant), errors.Is(err, ErrNotCallee):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrSelfCall):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrAlreadyInCall), errors.Is(err, ErrInvalidTransition):
		response.Conflict(w, err.Error())
	default:
		log.Error().Err(err).Msg("call handler error")
		response.InternalError(w)
	}
}
