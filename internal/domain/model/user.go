package model

// UserRecord is the persistent per-user document. Identity metadata is
// written by the external identity layer; score and counters are written by
// completion settlement; Guesses maps match IDs to the probability (0-100)
// the user assigned to team two winning that match.
type UserRecord struct {
	ID          string
	DisplayName string
	ProfileURL  string
	AvatarURL   string

	Score     float64
	Correct   int
	Incorrect int

	Guesses map[string]int
}

// Guess returns the user's stored guess for a match, if any.
func (u *UserRecord) Guess(matchID string) (int, bool) {
	g, ok := u.Guesses[matchID]
	return g, ok
}

// TotalGuesses is the number of settled guesses that produced a verdict.
func (u *UserRecord) TotalGuesses() int {
	return u.Correct + u.Incorrect
}
