package points

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/konekt/konekt-api/internal/middleware"
)

// Routes returns points router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/transfer", h.Transfer)
	r.Get("/balance", h.Balance)
	r.Get("/transactions", h.ListTransactions)
	r.Get("/transactions/{code}", h.GetTransaction)
	r.Get("/leaderboard", h.Leaderboard)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		r.Post("/grant", h.Grant)
	})

	return r
}
