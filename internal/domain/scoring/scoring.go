// Package scoring implements the quadratic scoring rule applied to settled
// predictions.
//
// A guess is the probability (0-100) a user assigned to team two winning a
// match. When the match settles, the guess is converted into the probability
// assigned to the actual winner and scored with a strictly proper rule:
// confident correct predictions earn up to 25 points, a 50/50 guess earns
// nothing, and confident wrong predictions lose quadratically.
package scoring

import "math"

// Bounds for submitted probabilities.
const (
	MinProbability = 0
	MaxProbability = 100

	evenOdds = 50
)

// Verdict classifies a settled guess.
type Verdict int

const (
	// VerdictNone means the guess was exactly 50/50: no counter moves.
	VerdictNone Verdict = iota
	// VerdictCorrect means the user put more than 50 on the winner.
	VerdictCorrect
	// VerdictIncorrect means the user put less than 50 on the winner.
	VerdictIncorrect
)

// Score returns the points earned for assigning probability p (0-100) to the
// team that won: round1(25 - (p-100)^2/100). Score(100) = 25, Score(50) = 0,
// Score(0) = -75.
func Score(p int) float64 {
	return Round1(25 - math.Pow(float64(p-100), 2)/100)
}

// Classify returns the verdict for winner-probability p.
func Classify(p int) Verdict {
	switch {
	case p > evenOdds:
		return VerdictCorrect
	case p < evenOdds:
		return VerdictIncorrect
	default:
		return VerdictNone
	}
}

// WinnerProbability derives the probability the user assigned to the winner
// from their raw guess, which is always expressed as the probability of team
// two winning.
func WinnerProbability(guess int, teamOneWon bool) int {
	if teamOneWon {
		return MaxProbability - guess
	}
	return guess
}

// ValidProbability reports whether p is a legal guess value.
func ValidProbability(p int) bool {
	return p >= MinProbability && p <= MaxProbability
}

// Round1 rounds to one decimal place. Cumulative scores are kept at this
// precision so repeated settlement never accumulates float drift beyond it.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
