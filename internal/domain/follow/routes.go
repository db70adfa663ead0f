package follow

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns follow router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// All routes require authentication
	r.Use(authMiddleware)

	r.Get("/followers", h.Followers)
	r.Get("/following", h.Following)

	r.Post("/{username}", h.Follow)
	r.Delete("/{username}", h.Unfollow)
	r.Get("/{username}/status", h.Status)

	return r
}
