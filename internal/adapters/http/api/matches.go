// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/matchday/internal/domain/types"
)

// MatchDependencies defines the interface for match read operations.
type MatchDependencies interface {
	Matches(ctx context.Context) []types.MatchView
	UpcomingMatches(ctx context.Context) []types.MatchView
	LiveMatches(ctx context.Context) []types.MatchView
	CompletedMatches(ctx context.Context) []types.MatchView
}

// MatchesHandler handles match listing requests.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleGetMatches handles GET /matches?phase=upcoming|live|completed
// requests. Without a phase filter every tracked match is returned.
func (h *MatchesHandler) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	var views []types.MatchView
	switch r.URL.Query().Get("phase") {
	case "":
		views = h.deps.Matches(r.Context())
	case "upcoming":
		views = h.deps.UpcomingMatches(r.Context())
	case "live":
		views = h.deps.LiveMatches(r.Context())
	case "completed":
		views = h.deps.CompletedMatches(r.Context())
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, views)
}
