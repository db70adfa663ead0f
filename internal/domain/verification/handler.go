package verification

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/konekt/konekt-api/internal/middleware"
	"github.com/konekt/konekt-api/internal/pkg/response"
	"github.com/konekt/konekt-api/internal/pkg/validator"
)

// Handler handles phone verification HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates verification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type issueRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type verifyRequest struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// Issue handles POST /verification/issue
func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.Issue(r.Context(), userID, req.Phone); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]string{"status": "code_sent"})
}

// Verify handles POST /verification/verify
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.Verify(r.Context(), userID, req.Phone, req.Code); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]string{"status": "verified"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidContact):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrInvalidCode):
		response.Error(w, http.StatusUnprocessableEntity, "INVALID_CODE", err.Error())
	case errors.Is(err, ErrUserNotFound):
		response.NotFound(w, err.Error())
	default:
		log.Error().Err(err).Msg("verification handler error")
		response.InternalError(w)
	}
}
