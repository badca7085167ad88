// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/matchday/internal/adapters/repository"
	"github.com/okian/matchday/internal/domain/registry"
	"github.com/okian/matchday/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations over the match registry.
	Matches(ctx context.Context) []types.MatchView
	UpcomingMatches(ctx context.Context) []types.MatchView
	LiveMatches(ctx context.Context) []types.MatchView
	CompletedMatches(ctx context.Context) []types.MatchView

	// Leaderboard reads.
	Leaderboard(ctx context.Context, limit int) []types.LeaderboardEntry
	UserDetail(ctx context.Context, userID string) (types.UserDetail, error)

	// Writes.
	SubmitPrediction(ctx context.Context, userID, matchID string, guess int) error
	UpsertUserProfile(ctx context.Context, userID, displayName, profileURL, avatarURL string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	matchesHandler     *MatchesHandler
	leaderboardHandler *LeaderboardHandler
	predictionsHandler *PredictionsHandler
	usersHandler       *UsersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		matchesHandler:     NewMatchesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		predictionsHandler: NewPredictionsHandler(deps),
		usersHandler:       NewUsersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleGetMatches, "matches"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/predictions", MetricsMiddleware(s.predictionsHandler.HandlePostPrediction, "predictions"))
	mux.HandleFunc("/users/", MetricsMiddleware(s.usersHandler.HandleUser, "users"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps domain sentinels to status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, registry.ErrUnknownMatch):
		writeError(w, http.StatusNotFound, "unknown_match", err)
	case errors.Is(err, registry.ErrMatchStarted):
		writeError(w, http.StatusConflict, "match_started", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
