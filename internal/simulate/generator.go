package simulate

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// Guess distribution buckets. Most synthetic users hedge around the middle;
// a minority goes all-in one way or the other, mirroring real crowds.
const (
	guessBucketCount = 5

	caseHedger      = 0
	caseLeanTeamOne = 1
	caseLeanTeamTwo = 2
	caseAllInOne    = 3
	caseAllInTwo    = 4
)

// User is one synthetic participant.
type User struct {
	ID          string
	DisplayName string
}

// generateUsers creates count users with unique IDs.
func generateUsers(count int) []User {
	users := make([]User, count)
	for i := range users {
		id := uuid.New().String()
		users[i] = User{
			ID:          id,
			DisplayName: fmt.Sprintf("sim-%s", id[:8]),
		}
	}
	return users
}

// randomInt returns a uniform random int in [0, n) using crypto/rand.
func randomInt(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// generateGuess returns a probability (0-100) of team two winning, drawn from
// a varied distribution.
func generateGuess() int {
	switch randomInt(guessBucketCount) {
	case caseHedger:
		// Around even odds (40-60)
		return int(40 + randomInt(21))
	case caseLeanTeamOne:
		// Leaning team one (10-40)
		return int(10 + randomInt(31))
	case caseLeanTeamTwo:
		// Leaning team two (60-90)
		return int(60 + randomInt(31))
	case caseAllInOne:
		// Certain of team one (0-10)
		return int(randomInt(11))
	default:
		// Certain of team two (90-100)
		return int(90 + randomInt(11))
	}
}
