package simulate

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/okian/matchday/internal/domain/types"
)

// Run executes one simulation: create users, predict on every open match,
// then fetch and verify the leaderboard.
func Run(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	stats := &Stats{}

	var open []types.MatchView
	if err := client.getJSON(ctx, config.BaseURL+"/matches?phase=upcoming", &open); err != nil {
		return fmt.Errorf("failed to fetch upcoming matches: %w", err)
	}
	stats.MatchesOpen = len(open)
	if len(open) == 0 {
		return fmt.Errorf("no upcoming matches to predict on; start the service against a live schedule first")
	}
	log.Printf("found %d open matches", len(open))

	users := generateUsers(config.NumUsers)
	stats.UsersCreated = len(users)
	log.Printf("generated %d users", len(users))

	if err := submitAll(ctx, config, client, users, open, stats); err != nil {
		return err
	}

	log.Printf("submission done: %d accepted, %d rejected, %d failed",
		stats.PredictionsAccepted, stats.PredictionsRejected, stats.PredictionsFailed)

	return verify(ctx, config, client, stats)
}

// submitAll creates every user profile and submits one guess per open match,
// fanned out over the configured worker count.
func submitAll(ctx context.Context, config *Config, client *httpClient, users []User, open []types.MatchView, stats *Stats) error {
	var (
		accepted int64
		rejected int64
		failed   int64
	)

	userChan := make(chan User, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range userChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				profileURL := config.BaseURL + "/users/" + u.ID
				status, err := client.sendJSON(ctx, http.MethodPut, profileURL, map[string]string{
					"display_name": u.DisplayName,
				})
				if err != nil || status != http.StatusOK {
					atomic.AddInt64(&failed, 1)
					continue
				}

				for _, m := range open {
					guess := generateGuess()
					status, err := client.sendJSON(ctx, http.MethodPost, config.BaseURL+"/predictions", map[string]any{
						"user_id":  u.ID,
						"match_id": m.ID,
						"guess":    guess,
					})
					switch {
					case err != nil:
						atomic.AddInt64(&failed, 1)
					case status == http.StatusAccepted:
						atomic.AddInt64(&accepted, 1)
					default:
						// Conflicts are expected when a match goes live
						// mid-run.
						atomic.AddInt64(&rejected, 1)
						if config.Verbose {
							log.Printf("prediction rejected: user=%s match=%s status=%d", u.ID, m.ID, status)
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(userChan)
		for _, u := range users {
			select {
			case <-ctx.Done():
				return
			case userChan <- u:
			}
		}
	}()

	wg.Wait()

	stats.PredictionsAccepted = int(atomic.LoadInt64(&accepted))
	stats.PredictionsRejected = int(atomic.LoadInt64(&rejected))
	stats.PredictionsFailed = int(atomic.LoadInt64(&failed))
	stats.PredictionsSubmitted = stats.PredictionsAccepted + stats.PredictionsRejected + stats.PredictionsFailed
	return nil
}
