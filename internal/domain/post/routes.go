package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns post router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// All routes require authentication
	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/feed", h.Feed)
	r.Get("/user/{userId}", h.ListByAuthor)

	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)

	r.Post("/{id}/like", h.Like)
	r.Delete("/{id}/like", h.Unlike)
	r.Post("/{id}/repost", h.Repost)
	r.Delete("/{id}/repost", h.Unrepost)

	return r
}
