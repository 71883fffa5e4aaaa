package app

import (
	"net/http"

	leaderboardrouter "github.com/catalytics/catalytics-cron/app/modules/leaderboard/infrastructure/router"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the HTTP surface: leaderboard reads, health and metrics.
func (app *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", app.handleHealth)
	if app.Observability.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(app.Observability.Registry, promhttp.HandlerOpts{}))
	}

	leaderboardrouter.RegisterRoutes(r, app.LeaderboardHandlers)
	return r
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := app.db.GetDB().PingContext(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	if app.Queue != nil {
		if err := app.Queue.HealthCheck(r.Context()); err != nil {
			http.Error(w, "queue unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
