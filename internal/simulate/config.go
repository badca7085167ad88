// Package simulate drives a running matchday instance with synthetic users
// and predictions, then verifies the leaderboard it gets back.
package simulate

import "time"

// Config controls a simulation run.
type Config struct {
	// BaseURL of the running service.
	BaseURL string

	// NumUsers is how many synthetic users to create.
	NumUsers int

	// Workers is the number of concurrent submitters.
	Workers int

	// TopN is how many leaderboard rows to fetch for verification.
	TopN int

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Verbose enables per-request logging.
	Verbose bool
}

// Stats accumulates counters over one run.
type Stats struct {
	UsersCreated         int
	PredictionsSubmitted int
	PredictionsAccepted  int
	PredictionsRejected  int
	PredictionsFailed    int
	MatchesOpen          int
}
