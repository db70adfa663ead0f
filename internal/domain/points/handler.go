package points

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/konekt/konekt-api/internal/middleware"
	"github.com/konekt/konekt-api/internal/pkg/response"
	"github.com/konekt/konekt-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type transferRequest struct {
	RecipientUsername string `json:"recipient_username" validate:"required,username"`
	Amount            int64  `json:"amount" validate:"required,gt=0"`
	Description       string `json:"description" validate:"max=500"`
}

type grantRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" validate:"required"`
	Amount      int64     `json:"amount" validate:"required,gt=0"`
	Type        string    `json:"type" validate:"required,tx_type"`
	Description string    `json:"description" validate:"max=500"`
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req transferRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(&req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	entry, err := h.svc.Transfer(r.Context(), userID, req.RecipientUsername, req.Amount, req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, entry)
}

func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(&req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	entry, err := h.svc.Grant(r.Context(), req.RecipientID, req.Amount, TransactionType(req.Type), req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, entry)
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	balance, err := h.svc.GetBalance(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{"balance": balance})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	entries, total, err := h.svc.ListTransactions(r.Context(), userID, page, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.WithMeta(w, entries, response.NewMeta(total, page, limit))
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}
	role := middleware.GetRole(r.Context())
	code := chi.URLParam(r, "code")

	entry, err := h.svc.GetTransaction(r.Context(), userID, role, code)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, entry)
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	entries, err := h.svc.Leaderboard(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, entries)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		response.BadRequest(w, "amount must be a positive integer")
	case errors.Is(err, ErrAmountAboveCeiling):
		response.BadRequest(w, "amount exceeds the per-transfer limit")
	case errors.Is(err, ErrRecipientNotFound):
		response.NotFound(w, "recipient not found")
	case errors.Is(err, ErrAccountNotFound):
		response.NotFound(w, "account not found")
	case errors.Is(err, ErrTxNotFound):
		response.NotFound(w, "transaction not found")
	case errors.Is(err, ErrSelfTransfer):
		response.Conflict(w, "cannot transfer points to yourself")
	case errors.Is(err, ErrInsufficientFunds):
		response.Conflict(w, "insufficient points balance")
	case errors.Is(err, ErrDuplicateCode):
		response.Conflict(w, "transaction code conflict, retry the transfer")
	default:
		response.InternalError(w)
	}
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
