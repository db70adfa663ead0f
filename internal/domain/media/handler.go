package media

import (
	"net/http"

	"github.com/konekt/konekt-api/internal/middleware"
	"github.com/konekt/konekt-api/internal/pkg/response"
	"github.com/konekt/konekt-api/internal/pkg/storage"
)

const maxUploadSize = 10 * 1024 * 1024

// Handler handles media HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates media handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload handles POST /media
// Multipart form: file + optional category (image|avatar, default image)
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, "File too large or invalid form")
		return
	}

	category := r.FormValue("category")
	if category == "" {
		category = "image"
	}
	if _, ok := storage.AllowedMimeTypes[category]; !ok {
		response.BadRequest(w, "Invalid category. Must be: image or avatar")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file provided")
		return
	}
	defer file.Close()

	maxSize := storage.MaxFileSizes[category]
	data, contentType, err := storage.ValidateFile(file, category, maxSize)
	if err != nil {
		switch err {
		case storage.ErrFileTooLarge:
			response.BadRequest(w, "File exceeds maximum size")
		case storage.ErrInvalidMimeType:
			response.BadRequest(w, "File type not allowed")
		case storage.ErrEmptyFile:
			response.BadRequest(w, "File is empty")
		default:
			response.InternalError(w)
		}
		return
	}

	userID := middleware.GetUserID(r.Context())
	upload, err := h.service.UploadImage(r.Context(), userID, category, sanitizeFileName(header.Filename), data, contentType)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.Created(w, upload)
}
