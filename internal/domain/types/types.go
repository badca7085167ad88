// Package types contains read-side view types shared between the service
// and the HTTP API.
package types

import "time"

// MatchView is the immutable per-match snapshot served to readers.
type MatchView struct {
	ID           string    `json:"id"`
	TeamOneID    string    `json:"team_one_id"`
	TeamTwoID    string    `json:"team_two_id"`
	TeamOneName  string    `json:"team_one_name"`
	TeamTwoName  string    `json:"team_two_name"`
	Phase        string    `json:"phase"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time,omitzero"`
	TeamOneScore int       `json:"team_one_score"`
	TeamTwoScore int       `json:"team_two_score"`

	// AverageGuess is the community average probability of team two
	// winning; nil when nobody has predicted yet.
	AverageGuess *int `json:"average_guess,omitempty"`

	// UserGuess is populated on per-user views only.
	UserGuess *int `json:"user_guess,omitempty"`
}

// LeaderboardEntry is one row of the ranked leaderboard snapshot.
type LeaderboardEntry struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	ProfileURL  string `json:"profile_url,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`

	Score        float64 `json:"score"`
	Correct      int     `json:"correct"`
	TotalGuesses int     `json:"total_guesses"`

	// PrevDayDelta is the score contributed by matches completed within
	// the recency window.
	PrevDayDelta float64 `json:"prev_day_delta"`

	// Rank is 0-based; tied entries share the lower ordinal.
	Rank int `json:"rank"`

	// RankDelta is positive when the user moved up since the window
	// contribution was earned.
	RankDelta int `json:"rank_delta"`
}

// UserDetail is the per-user profile view, combining the leaderboard row
// with the user's matches.
type UserDetail struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	ProfileURL  string `json:"profile_url,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`

	Score        float64 `json:"score"`
	Correct      int     `json:"correct"`
	TotalGuesses int     `json:"total_guesses"`
	PrevDayDelta float64 `json:"prev_day_delta"`
	Rank         int     `json:"rank"`
	RankDelta    int     `json:"rank_delta"`

	Matches []MatchView `json:"matches"`
}
