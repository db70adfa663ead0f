package post

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

// Handler handles post HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates post handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createPostRequest struct {
	Content      string `json:"content" validate:"max=2000"`
	ImageURL     string `json:"image_url" validate:"omitempty,url"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
}

// Create handles POST /posts
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.service.Create(r.Context(), userID, req.Content, req.ImageURL, req.ThumbnailURL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, p)
}

// Get handles GET /posts/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid post ID")
		return
	}

	p, err := h.service.Get(r.Context(), postID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, p)
}

// Delete handles DELETE /posts/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	role := middleware.GetRole(r.Context())

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid post ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, role, postID); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

// Like handles POST /posts/{id}/like
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.Like, map[string]string{"status": "liked"})
}

// Unlike handles DELETE /posts/{id}/like
func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.Unlike, map[string]string{"status": "unliked"})
}

// Unrepost handles DELETE /posts/{id}/repost
func (h *Handler) Unrepost(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.service.Unrepost, map[string]string{"status": "unreposted"})
}

// Repost handles POST /posts/{id}/repost
func (h *Handler) Repost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid post ID")
		return
	}

	rp, err := h.service.Repost(r.Context(), userID, postID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, rp)
}

// Feed handles GET /posts/feed
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, err := h.service.Feed(r.Context(), userID, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, items)
}

// ListByAuthor handles GET /posts/user/{userId}
func (h *Handler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetUserID(r.Context())

	authorID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, err := h.service.ListByAuthor(r.Context(), viewerID, authorID, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, items)
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID, postID uuid.UUID) error, body map[string]string) {
	userID := middleware.GetUserID(r.Context())

	postID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid post ID")
		return
	}

	if err := fn(r.Context(), userID, postID); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, body)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPostNotFound), errors.Is(err, ErrNotLiked), errors.Is(err, ErrNotReposted):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrEmptyContent), errors.Is(err, ErrContentTooLong):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrAccessDenied):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrAlreadyLiked), errors.Is(err, ErrAlreadyReposted):
		response.Conflict(w, err.Error())
	default:
		log.Error().Err(err).Msg("post handler error")
		response.InternalError(w)
	}
}
