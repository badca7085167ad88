// Package provider defines the contract for the external match-data source.
//
// The provider is a black box that returns tournament rosters, the global
// schedule of upcoming and live matches, and per-tournament results. All
// identifiers are opaque stable strings.
package provider

import (
	"context"
	"time"
)

// Team is one roster entry for a tournament.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ScheduledMatch is one entry from the schedule feed. Team IDs may be empty
// while an opponent is still to be determined; names may be absent and are
// resolved against the roster by the consumer.
type ScheduledMatch struct {
	ID           string    `json:"id"`
	TournamentID string    `json:"tournament_id"`
	TeamOneID    string    `json:"team_one_id"`
	TeamTwoID    string    `json:"team_two_id"`
	TeamOneName  string    `json:"team_one_name"`
	TeamTwoName  string    `json:"team_two_name"`
	StartTime    time.Time `json:"start_time"`
	Live         bool      `json:"live"`
}

// MatchResult is one entry from the results feed. Results reference teams by
// display name; IDs are resolved against the roster by the consumer.
type MatchResult struct {
	ID           string    `json:"id"`
	TeamOneName  string    `json:"team_one_name"`
	TeamTwoName  string    `json:"team_two_name"`
	TeamOneScore int       `json:"team_one_score"`
	TeamTwoScore int       `json:"team_two_score"`
	EndedAt      time.Time `json:"ended_at"`
}

// Client fetches match data from the external provider.
type Client interface {
	// Roster returns the tournament's participating teams.
	Roster(ctx context.Context, tournamentID string) ([]Team, error)

	// Schedule returns every scheduled and live match the provider
	// currently tracks, across all tournaments.
	Schedule(ctx context.Context) ([]ScheduledMatch, error)

	// Results returns completed matches for the tournament.
	Results(ctx context.Context, tournamentID string) ([]MatchResult, error)
}
