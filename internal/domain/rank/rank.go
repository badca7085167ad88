// Package rank builds the ranked leaderboard snapshot.
//
// Ranking runs in two passes over the same rows: an "old" view with each
// user's recency-window contribution subtracted, and the current view. Both
// views are ordered by (score desc, correct desc, user ID asc); the explicit
// user-ID key keeps tie order deterministic across recomputes, which the
// rank-delta depends on. Tied entries (equal score and correct count) share
// the lower ordinal and the next distinct entry jumps to its true position.
package rank

import (
	"sort"

	"github.com/okian/matchday/internal/domain/scoring"
	"github.com/okian/matchday/internal/domain/types"
)

// Row is the per-user input to a leaderboard build.
type Row struct {
	UserID      string
	DisplayName string
	ProfileURL  string
	AvatarURL   string

	Score        float64
	Correct      int
	TotalGuesses int

	// PrevDayDelta is the score earned from matches still inside the
	// recency window.
	PrevDayDelta float64
}

// keyed is the minimal sortable view of a row.
type keyed struct {
	userID  string
	score   float64
	correct int
}

func order(rows []keyed) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].score != rows[j].score {
			return rows[i].score > rows[j].score
		}
		if rows[i].correct != rows[j].correct {
			return rows[i].correct > rows[j].correct
		}
		return rows[i].userID < rows[j].userID
	})
}

// assignRanks maps user ID to shared 0-based rank for an ordered view.
func assignRanks(rows []keyed) map[string]int {
	ranks := make(map[string]int, len(rows))
	for i, r := range rows {
		if i > 0 && r.score == rows[i-1].score && r.correct == rows[i-1].correct {
			ranks[r.userID] = ranks[rows[i-1].userID]
			continue
		}
		ranks[r.userID] = i
	}
	return ranks
}

// Build produces a fresh leaderboard from rows. The result is a complete
// replacement for any previous snapshot; nothing is patched incrementally.
func Build(rows []Row) []types.LeaderboardEntry {
	oldView := make([]keyed, len(rows))
	newView := make([]keyed, len(rows))
	byID := make(map[string]Row, len(rows))
	for i, r := range rows {
		oldView[i] = keyed{
			userID:  r.UserID,
			score:   scoring.Round1(r.Score - r.PrevDayDelta),
			correct: r.Correct,
		}
		newView[i] = keyed{userID: r.UserID, score: r.Score, correct: r.Correct}
		byID[r.UserID] = r
	}

	order(oldView)
	order(newView)

	oldRanks := assignRanks(oldView)
	newRanks := assignRanks(newView)

	entries := make([]types.LeaderboardEntry, len(newView))
	for i, k := range newView {
		r := byID[k.userID]
		place := newRanks[k.userID]
		entries[i] = types.LeaderboardEntry{
			UserID:       r.UserID,
			DisplayName:  r.DisplayName,
			ProfileURL:   r.ProfileURL,
			AvatarURL:    r.AvatarURL,
			Score:        r.Score,
			Correct:      r.Correct,
			TotalGuesses: r.TotalGuesses,
			PrevDayDelta: r.PrevDayDelta,
			Rank:         place,
			RankDelta:    oldRanks[k.userID] - place,
		}
	}
	return entries
}
