package leaderboardhandlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	leaderboardservice "github.com/catalytics/catalytics-cron/app/modules/leaderboard/application"
)

// Handlers serves the read-only leaderboard endpoints.
type Handlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
}

// NewHandlers creates leaderboard HTTP handlers.
func NewHandlers(service leaderboardservice.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{service: service, logger: logger}
}

// GetLeaderboardList returns one page of the leaderboard.
// Query: page, limit, publicKey (all optional). Without page the caller's page is shown.
func (h *Handlers) GetLeaderboardList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var page *int
	if raw := q.Get("page"); raw != "" {
		n, err := optionalInt(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid page: %v", err), http.StatusBadRequest)
			return
		}
		page = &n
	}
	limit, err := optionalInt(q.Get("limit"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid limit: %v", err), http.StatusBadRequest)
		return
	}

	result, err := h.service.GetLeaderboard(r.Context(), leaderboardservice.ListRequest{
		Page:      page,
		Limit:     limit,
		PublicKey: q.Get("publicKey"),
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to fetch leaderboard", "error", err)
		http.Error(w, "Failed to fetch leaderboard", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, r, result)
}

// GetUserLeaderboard returns the standing of the applicant named by ?publicKey=.
func (h *Handlers) GetUserLeaderboard(w http.ResponseWriter, r *http.Request) {
	publicKey := r.URL.Query().Get("publicKey")
	if publicKey == "" {
		http.Error(w, "publicKey is required", http.StatusBadRequest)
		return
	}

	entry, err := h.service.GetUserEntry(r.Context(), publicKey)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to fetch user entry", "public_key", publicKey, "error", err)
		http.Error(w, "Failed to fetch user entry", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, r, entry)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to encode response", "error", err)
	}
}

func optionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}
