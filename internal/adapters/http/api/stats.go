// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// StatsProvider supplies the engine counters served at /stats: tracked
// matches per phase, settled completions, window and leaderboard sizes.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the engine's operational counters.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a stats handler backed by statsProvider.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests with a JSON counter snapshot.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	stats := h.statsProvider.GetStats()
	_ = json.NewEncoder(w).Encode(stats)
}
