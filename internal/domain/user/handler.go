package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/domain/media"
	"github.com/konekt/konekt-api/internal/middleware"
	"github.com/konekt/konekt-api/internal/pkg/response"
	"github.com/konekt/konekt-api/internal/pkg/storage"
	"github.com/konekt/konekt-api/internal/pkg/validator"
)

const maxAvatarSize = 5 * 1024 * 1024

// Handler handles user HTTP requests
type Handler struct {
	service *Service
	media   *media.Service
}

// NewHandler creates user handler. media may be nil when object storage
// is not configured; avatar upload then returns 503.
func NewHandler(service *Service, mediaService *media.Service) *Handler {
	return &Handler{service: service, media: mediaService}
}

// GetProfile handles GET /users/{username}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	viewerID := middleware.GetUserID(r.Context())

	profile, err := h.service.GetProfile(r.Context(), viewerID, username)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, profile)
}

// UpdateProfile handles PUT /users/me
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, profile)
}

// UploadAvatar handles POST /users/me/avatar
// Multipart form with a single "file" field.
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		response.Error(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Avatar storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		response.BadRequest(w, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file provided")
		return
	}
	defer file.Close()

	data, contentType, err := storage.ValidateFile(file, "avatar", maxAvatarSize)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			response.BadRequest(w, "File exceeds maximum size")
		case errors.Is(err, storage.ErrInvalidMimeType):
			response.BadRequest(w, "File type not allowed")
		case errors.Is(err, storage.ErrEmptyFile):
			response.BadRequest(w, "File is empty")
		default:
			response.InternalError(w)
		}
		return
	}

	userID := middleware.GetUserID(r.Context())
	upload, err := h.media.UploadImage(r.Context(), userID, "avatar", header.Filename, data, contentType)
	if err != nil {
		response.InternalError(w)
		return
	}

	profile, previousURL, err := h.service.SetAvatar(r.Context(), userID, upload.ThumbnailURL)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if previousURL != "" && previousURL != upload.ThumbnailURL {
		if err := h.media.Delete(r.Context(), previousURL); err != nil {
			log.Warn().Err(err).Str("url", previousURL).Msg("failed to delete replaced avatar")
		}
	}

	response.OK(w, profile)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(w, "User not found")
	default:
		response.InternalError(w)
	}
}
