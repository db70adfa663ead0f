package call

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns call router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// All routes require authentication
	r.Use(authMiddleware)

	r.Post("/", h.Initiate)
	r.Get("/", h.History)
	r.Post("/cleanup", h.Cleanup)

	r.Get("/{id}", h.Get)
	r.Post("/{id}/accept", h.Accept)
	r.Post("/{id}/decline", h.Decline)
	r.Post("/{id}/end", h.End)

	return r
}
