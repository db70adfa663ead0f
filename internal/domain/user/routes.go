package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns user routes. All routes require authentication.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Put("/me", h.UpdateProfile)
	r.Post("/me/avatar", h.UploadAvatar)
	r.Get("/{username}", h.GetProfile)

	return r
}
