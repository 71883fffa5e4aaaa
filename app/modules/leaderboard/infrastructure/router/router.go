package leaderboardrouter

import (
	leaderboardhandlers "github.com/catalytics/catalytics-cron/app/modules/leaderboard/infrastructure/handlers"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the leaderboard read endpoints under /api/leaderboard.
func RegisterRoutes(r chi.Router, h *leaderboardhandlers.Handlers) {
	r.Route("/api/leaderboard", func(r chi.Router) {
		r.Get("/", h.GetUserLeaderboard)
		r.Get("/list", h.GetLeaderboardList)
	})
}
