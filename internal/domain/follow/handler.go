package follow

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/middleware"
	"github.com/konekt/konekt-api/internal/pkg/response"
)

// Handler handles follow HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates follow handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Follow handles POST /follows/{username}
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	username := chi.URLParam(r, "username")

	if err := h.service.Follow(r.Context(), userID, username); err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, map[string]string{"status": "following"})
}

// Unfollow handles DELETE /follows/{username}
func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	username := chi.URLParam(r, "username")

	if err := h.service.Unfollow(r.Context(), userID, username); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

// Status handles GET /follows/{username}/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	username := chi.URLParam(r, "username")

	following, err := h.service.IsFollowing(r.Context(), userID, username)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]bool{"following": following})
}

// Followers handles GET /follows/followers
func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.Followers)
}

// Following handles GET /follows/following
func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.Following)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*FollowerView, error)) {
	userID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	views, err := fn(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, views)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrNotFollowing):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrSelfFollow):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrAlreadyFollowing):
		response.Conflict(w, err.Error())
	default:
		log.Error().Err(err).Msg("follow handler error")
		response.InternalError(w)
	}
}
