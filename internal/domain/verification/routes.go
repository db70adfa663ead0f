package verification

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns verification router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// All routes require authentication
	r.Use(authMiddleware)

	r.Post("/issue", h.Issue)
	r.Post("/verify", h.Verify)

	return r
}
