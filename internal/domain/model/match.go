// Package model contains domain models passed between layers.
package model

import "time"

// Phase is the lifecycle state of a tracked match.
type Phase int

const (
	// PhaseUpcoming means the match has not started yet.
	PhaseUpcoming Phase = iota
	// PhaseLive means the provider currently reports the match in play.
	PhaseLive
	// PhaseCompleted means a final result has been recorded. Terminal.
	PhaseCompleted
)

// String returns the lowercase name used in API payloads and logs.
func (p Phase) String() string {
	switch p {
	case PhaseUpcoming:
		return "upcoming"
	case PhaseLive:
		return "live"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Match is one tracked match in the registry. Mutated in place by
// reconciliation; never deleted for the lifetime of the process.
type Match struct {
	ID          string
	TeamOneID   string
	TeamTwoID   string
	TeamOneName string
	TeamTwoName string

	StartTime time.Time
	// EndTime is the zero value until the match completes, and is never
	// overwritten once set.
	EndTime time.Time

	Phase Phase

	// Final scores, meaningful only once Phase == PhaseCompleted.
	TeamOneScore int
	TeamTwoScore int

	// Running aggregates over submitted guesses, kept so the community
	// average can be served without re-reading every user record.
	PredictionSum   int
	PredictionCount int
}

// TeamOneWon reports whether team one took the match. Only meaningful for
// completed matches; the game has no draws.
func (m *Match) TeamOneWon() bool {
	return m.TeamOneScore > m.TeamTwoScore
}

// AverageGuess returns the community average probability (of team two
// winning) and whether any guesses exist.
func (m *Match) AverageGuess() (int, bool) {
	if m.PredictionCount == 0 {
		return 0, false
	}
	avg := float64(m.PredictionSum) / float64(m.PredictionCount)
	return int(avg + 0.5), true
}
