package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns chat router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// All routes require authentication
	r.Use(authMiddleware)

	r.Post("/rooms", h.StartChat)
	r.Get("/rooms", h.ListRooms)

	r.Get("/rooms/{id}/messages", h.GetMessages)
	r.Post("/rooms/{id}/messages", h.SendMessage)
	r.Post("/rooms/{id}/read", h.MarkAsRead)

	r.Get("/unread", h.GetUnreadCount)

	return r
}

// WSRoute returns WebSocket route handler
func (h *Handler) WSRoute(authMiddleware func(http.Handler) http.Handler) http.Handler {
	return authMiddleware(http.HandlerFunc(h.WebSocket))
}
