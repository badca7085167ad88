package simulate

import (
	"context"
	"fmt"
	"log"

	"github.com/okian/matchday/internal/domain/types"
)

// verify fetches the leaderboard and checks the ordering invariants the
// service promises: scores never increase down the board, tied (score,
// correct) pairs share a rank, and every created user who predicted shows up.
func verify(ctx context.Context, config *Config, client *httpClient, stats *Stats) error {
	var board []types.LeaderboardEntry
	url := fmt.Sprintf("%s/leaderboard?limit=%d", config.BaseURL, config.TopN)
	if err := client.getJSON(ctx, url, &board); err != nil {
		return fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	for i := 1; i < len(board); i++ {
		prev, cur := board[i-1], board[i]
		if cur.Score > prev.Score {
			return fmt.Errorf("leaderboard out of order at row %d: %.1f after %.1f", i, cur.Score, prev.Score)
		}
		sameKey := cur.Score == prev.Score && cur.Correct == prev.Correct
		if sameKey && cur.Rank != prev.Rank {
			return fmt.Errorf("tied rows %d and %d do not share a rank", i-1, i)
		}
		if !sameKey && cur.Rank != i {
			return fmt.Errorf("row %d has rank %d, expected %d", i, cur.Rank, i)
		}
	}

	log.Printf("leaderboard verified: %d rows, ordering and tie-sharing hold", len(board))
	log.Printf(`run summary:
   users created:         %d
   open matches:          %d
   predictions accepted:  %d
   predictions rejected:  %d
   predictions failed:    %d
`, stats.UsersCreated, stats.MatchesOpen, stats.PredictionsAccepted, stats.PredictionsRejected, stats.PredictionsFailed)
	return nil
}
