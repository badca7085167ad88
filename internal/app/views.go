package service

import (
	"context"
	"errors"

	"github.com/okian/matchday/internal/adapters/repository"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/registry"
	"github.com/okian/matchday/internal/domain/scoring"
	"github.com/okian/matchday/internal/domain/types"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// Matches returns every tracked match: upcoming first, then live, then
// completed by most recent end.
func (s *Service) Matches(_ context.Context) []types.MatchView {
	return matchViews(s.matches.All(), nil)
}

// UpcomingMatches returns matches not yet started, soonest first.
func (s *Service) UpcomingMatches(_ context.Context) []types.MatchView {
	return matchViews(s.matches.Upcoming(), nil)
}

// LiveMatches returns in-play matches, earliest start first.
func (s *Service) LiveMatches(_ context.Context) []types.MatchView {
	return matchViews(s.matches.Live(), nil)
}

// CompletedMatches returns finished matches, most recent first.
func (s *Service) CompletedMatches(_ context.Context) []types.MatchView {
	return matchViews(s.matches.Completed(), nil)
}

// Leaderboard returns up to limit rows of the current snapshot.
func (s *Service) Leaderboard(_ context.Context, limit int) []types.LeaderboardEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.board)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]types.LeaderboardEntry, n)
	copy(out, s.board[:n])
	return out
}

// UserDetail returns the user's leaderboard row together with every match
// they predicted on, annotated with their guess. Returns
// repository.ErrNotFound for unknown users.
func (s *Service) UserDetail(ctx context.Context, userID string) (types.UserDetail, error) {
	u, err := s.store.FindUser(ctx, userID)
	if err != nil {
		return types.UserDetail{}, err
	}

	detail := types.UserDetail{
		UserID:       u.ID,
		DisplayName:  u.DisplayName,
		ProfileURL:   u.ProfileURL,
		AvatarURL:    u.AvatarURL,
		Score:        u.Score,
		Correct:      u.Correct,
		TotalGuesses: u.TotalGuesses(),
	}

	// A user written after the last rebuild has no row yet; their counters
	// still come straight from the record.
	s.mu.RLock()
	if i, ok := s.boardIndex[userID]; ok {
		row := s.board[i]
		detail.PrevDayDelta = row.PrevDayDelta
		detail.Rank = row.Rank
		detail.RankDelta = row.RankDelta
	}
	s.mu.RUnlock()

	var predicted []model.Match
	for _, m := range s.matches.All() {
		if _, ok := u.Guess(m.ID); ok {
			predicted = append(predicted, m)
		}
	}
	detail.Matches = matchViews(predicted, &u)

	return detail, nil
}

// SubmitPrediction validates and records one guess: the probability (0-100)
// the user assigns to team two winning the match. Guesses are accepted only
// while the match is still upcoming; resubmitting replaces the previous
// guess.
func (s *Service) SubmitPrediction(ctx context.Context, userID, matchID string, guess int) error {
	if !scoring.ValidProbability(guess) {
		metrics.RecordPredictionRejected("invalid_probability")
		return ErrInvalidGuess
	}

	var prev *int
	u, err := s.store.FindUser(ctx, userID)
	switch {
	case err == nil:
		if g, ok := u.Guess(matchID); ok {
			prev = &g
		}
	case errors.Is(err, repository.ErrNotFound):
		// First interaction; the upsert below creates the record.
	default:
		return err
	}

	if err := s.matches.SubmitGuess(matchID, prev, guess); err != nil {
		metrics.RecordPredictionRejected(rejectionReason(err))
		return err
	}

	patch := repository.UserPatch{Guesses: map[string]int{matchID: guess}}
	if err := s.store.UpsertUser(ctx, userID, patch); err != nil {
		// The aggregate must not count a guess the store never saw.
		s.matches.RetractGuess(matchID, prev, guess)
		s.logger.Error(ctx, "guess persist failed",
			logger.String("user_id", userID),
			logger.String("match_id", matchID),
			logger.Error(err),
		)
		return err
	}

	metrics.RecordPredictionAccepted()
	return nil
}

// UpsertUserProfile writes identity metadata for a user, creating the record
// when absent, and rebuilds the leaderboard so new users appear promptly.
func (s *Service) UpsertUserProfile(ctx context.Context, userID, displayName, profileURL, avatarURL string) error {
	patch := repository.UserPatch{}
	if displayName != "" {
		patch.DisplayName = repository.StringPtr(displayName)
	}
	if profileURL != "" {
		patch.ProfileURL = repository.StringPtr(profileURL)
	}
	if avatarURL != "" {
		patch.AvatarURL = repository.StringPtr(avatarURL)
	}

	if err := s.store.UpsertUser(ctx, userID, patch); err != nil {
		return err
	}
	if err := s.rebuildLeaderboard(ctx); err != nil {
		s.logger.Error(ctx, "leaderboard rebuild after profile write failed", logger.Error(err))
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	upcoming, live, completed := s.matches.Counts()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":         s.started,
		"tournament":      s.tournamentName,
		"upcoming":        upcoming,
		"live":            live,
		"completed":       completed,
		"settled":         len(s.settled),
		"windowSize":      s.window.Len(),
		"leaderboardSize": len(s.board),
	}
}

// matchViews converts registry snapshots into the read shape. When u is
// non-nil the user's own guess is attached to each view.
func matchViews(ms []model.Match, u *model.UserRecord) []types.MatchView {
	out := make([]types.MatchView, len(ms))
	for i := range ms {
		m := &ms[i]
		v := types.MatchView{
			ID:           m.ID,
			TeamOneID:    m.TeamOneID,
			TeamTwoID:    m.TeamTwoID,
			TeamOneName:  m.TeamOneName,
			TeamTwoName:  m.TeamTwoName,
			Phase:        m.Phase.String(),
			StartTime:    m.StartTime,
			EndTime:      m.EndTime,
			TeamOneScore: m.TeamOneScore,
			TeamTwoScore: m.TeamTwoScore,
		}
		if avg, ok := m.AverageGuess(); ok {
			v.AverageGuess = &avg
		}
		if u != nil {
			if g, ok := u.Guess(m.ID); ok {
				v.UserGuess = &g
			}
		}
		out[i] = v
	}
	return out
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, registry.ErrUnknownMatch):
		return "unknown_match"
	case errors.Is(err, registry.ErrMatchStarted):
		return "match_started"
	default:
		return "other"
	}
}
