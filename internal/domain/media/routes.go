package media

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns media routes. All routes require authentication.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/", h.Upload)
	return r
}
