// Package service provides the core sync-and-scoring service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/matchday/internal/adapters/provider"
	"github.com/okian/matchday/internal/adapters/repository"
	"github.com/okian/matchday/internal/domain/model"
	"github.com/okian/matchday/internal/domain/rank"
	"github.com/okian/matchday/internal/domain/recency"
	"github.com/okian/matchday/internal/domain/registry"
	"github.com/okian/matchday/internal/domain/scoring"
	"github.com/okian/matchday/internal/domain/types"
	"github.com/okian/matchday/internal/scheduler"
	"github.com/okian/matchday/pkg/logger"
	"github.com/okian/matchday/pkg/metrics"
)

// Service owns the match registry, the recency window, the leaderboard
// snapshot, and the reconciliation loop that keeps them current.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	provider provider.Client
	matches  *registry.Registry
	window   *recency.Tracker
	sched    *scheduler.Scheduler

	// Configuration
	tournamentID   string
	tournamentName string
	pollInterval   time.Duration
	retryDelay     time.Duration
	settleDelay    time.Duration
	windowSpan     time.Duration

	// Roster lookup, filled during initial load.
	teamIDByName map[string]string

	// Settled match IDs, mirroring the durable completion ledger.
	settled map[string]struct{}
	ledger  []string

	// Current leaderboard snapshot; replaced wholesale on rebuild.
	board      []types.LeaderboardEntry
	boardIndex map[string]int

	// State
	started bool

	// Logging
	logger logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistent store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithProvider sets the match data provider client.
func WithProvider(client provider.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.provider = client
		}
	}
}

// WithTournament selects the tournament to track and its display name.
func WithTournament(id, name string) Option {
	return func(s *Service) {
		s.tournamentID = id
		s.tournamentName = name
	}
}

// WithPollInterval sets the reconciliation tick period.
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithStartupRetryDelay sets the fixed delay between initial load retries.
func WithStartupRetryDelay(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.retryDelay = d
		}
	}
}

// WithSettleDelay sets the pause between a detected completion and scoring.
func WithSettleDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.settleDelay = d
		}
	}
}

// WithRecencyWindow sets the rolling window for rank movement.
func WithRecencyWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.windowSpan = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		matches:      registry.New(),
		pollInterval: scheduler.DefaultInterval,
		retryDelay:   5 * time.Second,
		settleDelay:  time.Second,
		windowSpan:   recency.DefaultWindow,
		teamIDByName: make(map[string]string),
		settled:      make(map[string]struct{}),
		boardIndex:   make(map[string]int),
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads initial state from the provider and the store, settles any
// completions that happened while the process was down, and launches the
// reconciliation loop. The initial load retries on a fixed delay until it
// succeeds or ctx is canceled.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.provider == nil {
		return ErrNoProvider
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory store")
	}
	s.window = recency.New(recency.WithWindow(s.windowSpan))

	for {
		err := s.loadInitialState(ctx)
		if err == nil {
			break
		}
		s.logger.Warn(ctx, "initial state load failed, retrying",
			logger.Error(err),
			logger.Duration("retry_in", s.retryDelay),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}

	// Settle matches that completed while we were not watching. These were
	// inserted straight into Completed and never produced a completion
	// event, so the ledger is the only thing standing between them and a
	// double score.
	s.settleBacklog(ctx)

	if err := s.rebuildLeaderboard(ctx); err != nil {
		s.logger.Error(ctx, "initial leaderboard build failed", logger.Error(err))
	}

	s.sched = scheduler.New(s.Reconcile,
		scheduler.WithInterval(s.pollInterval),
		scheduler.WithLogger(s.logger.Named("scheduler")),
	)
	s.sched.Start(ctx)

	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	upcoming, live, completed := s.matches.Counts()
	s.logger.Info(ctx, "matchday service started",
		logger.String("tournament", s.tournamentName),
		logger.Int("upcoming", upcoming),
		logger.Int("live", live),
		logger.Int("completed", completed),
		logger.Duration("poll_interval", s.pollInterval),
	)
	return nil
}

// Stop gracefully shuts down the service. The scheduler handshake waits for
// any pass already in flight, and that pass needs the service lock to settle
// and rebuild, so the lock is released before the handshake.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	sched := s.sched
	s.mu.Unlock()

	if sched != nil {
		sched.Stop()
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.logger.Info(context.Background(), "matchday service stopped")
}

// loadInitialState fetches the roster, schedule, results, ledger, and user
// records, then folds them into the in-memory state. All fetches complete
// before any state is mutated, so a failed attempt can be retried without
// double-counting aggregates.
func (s *Service) loadInitialState(ctx context.Context) error {
	teams, err := s.provider.Roster(ctx, s.tournamentID)
	if err != nil {
		return err
	}
	schedule, err := s.provider.Schedule(ctx)
	if err != nil {
		return err
	}
	results, err := s.provider.Results(ctx, s.tournamentID)
	if err != nil {
		return err
	}
	ledger, err := s.store.CompletionLedger(ctx)
	if err != nil {
		return err
	}
	users, err := s.store.FindAllUsers(ctx)
	if err != nil {
		return err
	}

	now := s.now()

	for _, t := range teams {
		s.teamIDByName[t.Name] = t.ID
	}

	for _, sm := range schedule {
		if u, ok := s.toScheduleUpdate(sm); ok {
			s.matches.MergeSchedule(u, now)
		}
	}

	// Results seen at startup insert straight into Completed; no completion
	// events fire here. The backlog sweep settles whatever the ledger says
	// is still owed.
	for _, res := range results {
		s.matches.MergeResult(s.toResultUpdate(res), now)
		if m, ok := s.matches.Match(res.ID); ok {
			s.window.Add(m.ID, m.EndTime, now)
		}
	}

	s.mu.Lock()
	s.ledger = append([]string(nil), ledger...)
	s.settled = make(map[string]struct{}, len(ledger))
	for _, id := range ledger {
		s.settled[id] = struct{}{}
	}
	s.mu.Unlock()

	for _, u := range users {
		for matchID, guess := range u.Guesses {
			s.matches.SeedAggregate(matchID, guess)
		}
	}

	return nil
}

// settleBacklog scores every completed match the ledger has not seen yet.
func (s *Service) settleBacklog(ctx context.Context) {
	for _, m := range s.matches.Completed() {
		if s.isSettled(m.ID) {
			continue
		}
		s.settleMatch(ctx, registry.Completion{
			MatchID:    m.ID,
			EndTime:    m.EndTime,
			TeamOneWon: m.TeamOneWon(),
		})
	}
}

// Reconcile runs one reconciliation pass: fetch both feeds, fold them into
// the registry, settle fresh completions, and age the recency window. A
// provider failure skips the whole pass; the registry is only ever updated
// from a complete snapshot. Normally driven by the scheduler.
func (s *Service) Reconcile(ctx context.Context) {
	start := s.now()
	metrics.RecordPoll()

	schedule, err := s.provider.Schedule(ctx)
	if err != nil {
		s.logger.Warn(ctx, "schedule fetch failed, skipping pass", logger.Error(err))
		metrics.RecordPollError()
		return
	}
	results, err := s.provider.Results(ctx, s.tournamentID)
	if err != nil {
		s.logger.Warn(ctx, "results fetch failed, skipping pass", logger.Error(err))
		metrics.RecordPollError()
		return
	}

	now := s.now()

	for _, sm := range schedule {
		if u, ok := s.toScheduleUpdate(sm); ok {
			s.matches.MergeSchedule(u, now)
		}
	}

	var due []registry.Completion
	for _, res := range results {
		if c, ok := s.matches.MergeResult(s.toResultUpdate(res), now); ok {
			due = append(due, c)
		}
	}

	for _, c := range due {
		if s.isSettled(c.MatchID) {
			continue
		}
		// Give the provider's result data a moment to settle before
		// reading final scores.
		if s.settleDelay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.settleDelay):
			}
		}
		s.settleMatch(ctx, c)
	}

	before := s.window.Len()
	if s.window.Expire(s.now()) {
		metrics.RecordRecencyExpiry(before - s.window.Len())
		if err := s.rebuildLeaderboard(ctx); err != nil {
			s.logger.Error(ctx, "leaderboard rebuild after window expiry failed", logger.Error(err))
		}
	}

	upcoming, live, completed := s.matches.Counts()
	metrics.UpdateMatchCounts(upcoming, live, completed)
	metrics.UpdateRecencyWindowSize(s.window.Len())
	metrics.RecordPollDuration(float64(s.now().Sub(start).Milliseconds()))
}

// settleMatch scores every user who guessed on the match, appends the match
// to the completion ledger, admits it to the recency window, and rebuilds the
// leaderboard. A single user's write failure is logged and skipped; the rest
// of the users still settle.
func (s *Service) settleMatch(ctx context.Context, c registry.Completion) {
	start := s.now()

	m, ok := s.matches.Match(c.MatchID)
	if !ok {
		return
	}

	users, err := s.store.FindAllUsers(ctx)
	if err != nil {
		// Leave the match off the ledger; the backlog sweep settles it on
		// the next restart.
		s.logger.Error(ctx, "user load failed, settlement postponed",
			logger.String("match_id", c.MatchID),
			logger.Error(err),
		)
		return
	}

	teamOneWon := m.TeamOneWon()
	for i := range users {
		u := &users[i]
		guess, ok := u.Guess(c.MatchID)
		if !ok {
			continue
		}

		winnerProb := scoring.WinnerProbability(guess, teamOneWon)
		delta := scoring.Score(winnerProb)

		patch := repository.UserPatch{
			Score: repository.Float64Ptr(scoring.Round1(u.Score + delta)),
		}
		switch scoring.Classify(winnerProb) {
		case scoring.VerdictCorrect:
			patch.Correct = repository.IntPtr(u.Correct + 1)
		case scoring.VerdictIncorrect:
			patch.Incorrect = repository.IntPtr(u.Incorrect + 1)
		case scoring.VerdictNone:
		}

		if err := s.store.UpsertUser(ctx, u.ID, patch); err != nil {
			s.logger.Error(ctx, "user settlement failed, skipping",
				logger.String("user_id", u.ID),
				logger.String("match_id", c.MatchID),
				logger.Error(err),
			)
			metrics.RecordScoringError()
			continue
		}
		metrics.RecordUserScored()
	}

	s.appendLedger(ctx, c.MatchID)
	s.window.Add(c.MatchID, c.EndTime, s.now())

	metrics.RecordCompletionSettled()
	metrics.RecordSettleDuration(float64(s.now().Sub(start).Milliseconds()))

	s.logger.Info(ctx, "match settled",
		logger.String("match_id", c.MatchID),
		logger.String("winner", winnerName(&m)),
	)

	if err := s.rebuildLeaderboard(ctx); err != nil {
		s.logger.Error(ctx, "leaderboard rebuild after settlement failed", logger.Error(err))
	}
}

// appendLedger records the match as settled, in memory first so this process
// can never score it twice even if the durable write fails.
func (s *Service) appendLedger(ctx context.Context, matchID string) {
	s.mu.Lock()
	s.settled[matchID] = struct{}{}
	s.ledger = append(s.ledger, matchID)
	snapshot := append([]string(nil), s.ledger...)
	s.mu.Unlock()

	if err := s.store.SetCompletionLedger(ctx, snapshot); err != nil {
		s.logger.Error(ctx, "ledger write failed",
			logger.String("match_id", matchID),
			logger.Error(err),
		)
	}
}

func (s *Service) isSettled(matchID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.settled[matchID]
	return ok
}

// rebuildLeaderboard recomputes the full snapshot from the store and the
// recency window and swaps it in atomically.
func (s *Service) rebuildLeaderboard(ctx context.Context) error {
	start := s.now()

	users, err := s.store.FindAllUsers(ctx)
	if err != nil {
		metrics.RecordLeaderboardError()
		return err
	}

	// Outcomes for matches still inside the window; each user's window
	// contribution is recomputed from their stored guesses.
	windowWins := make(map[string]bool)
	for _, id := range s.window.IDs() {
		m, ok := s.matches.Match(id)
		if !ok || m.Phase != model.PhaseCompleted {
			continue
		}
		windowWins[id] = m.TeamOneWon()
	}

	rows := make([]rank.Row, 0, len(users))
	for i := range users {
		u := &users[i]
		prevDelta := 0.0
		for matchID, teamOneWon := range windowWins {
			guess, ok := u.Guess(matchID)
			if !ok {
				continue
			}
			prevDelta += scoring.Score(scoring.WinnerProbability(guess, teamOneWon))
		}
		rows = append(rows, rank.Row{
			UserID:       u.ID,
			DisplayName:  u.DisplayName,
			ProfileURL:   u.ProfileURL,
			AvatarURL:    u.AvatarURL,
			Score:        u.Score,
			Correct:      u.Correct,
			TotalGuesses: u.TotalGuesses(),
			PrevDayDelta: scoring.Round1(prevDelta),
		})
	}

	entries := rank.Build(rows)
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.UserID] = i
	}

	s.mu.Lock()
	s.board = entries
	s.boardIndex = index
	s.mu.Unlock()

	metrics.RecordLeaderboardRebuild()
	metrics.UpdateLeaderboardSize(len(entries))
	metrics.RecordLeaderboardRebuildDuration(float64(s.now().Sub(start).Milliseconds()))
	return nil
}

// toScheduleUpdate normalizes one schedule entry, resolving team names
// against the roster. Matches from other tournaments are dropped when a
// tournament filter is configured.
func (s *Service) toScheduleUpdate(sm provider.ScheduledMatch) (registry.ScheduleUpdate, bool) {
	if s.tournamentID != "" && sm.TournamentID != s.tournamentID {
		return registry.ScheduleUpdate{}, false
	}
	return registry.ScheduleUpdate{
		MatchID:     sm.ID,
		TeamOneID:   sm.TeamOneID,
		TeamTwoID:   sm.TeamTwoID,
		TeamOneName: sm.TeamOneName,
		TeamTwoName: sm.TeamTwoName,
		StartTime:   sm.StartTime,
		Live:        sm.Live,
	}, true
}

// toResultUpdate normalizes one results entry. Results reference teams by
// name only; IDs come from the roster when known.
func (s *Service) toResultUpdate(res provider.MatchResult) registry.ResultUpdate {
	return registry.ResultUpdate{
		MatchID:      res.ID,
		TeamOneID:    s.teamIDByName[res.TeamOneName],
		TeamTwoID:    s.teamIDByName[res.TeamTwoName],
		TeamOneName:  res.TeamOneName,
		TeamTwoName:  res.TeamTwoName,
		TeamOneScore: res.TeamOneScore,
		TeamTwoScore: res.TeamTwoScore,
		EndedAt:      res.EndedAt,
	}
}

func winnerName(m *model.Match) string {
	if m.TeamOneWon() {
		return m.TeamOneName
	}
	return m.TeamTwoName
}
