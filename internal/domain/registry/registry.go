// Package registry holds the in-memory authoritative map of tracked matches.
//
// The registry is mutated only by reconciliation merges and guess
// submissions; matches are never deleted for the lifetime of the process.
// Merges are idempotent: applying the same provider snapshot twice leaves
// the registry in an identical state. Lifecycle only moves forward:
// Upcoming to Live to Completed, or straight to Completed for matches first
// seen in the results feed.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/okian/matchday/internal/domain/model"
)

// ScheduleUpdate is a normalized schedule-feed entry for one match.
type ScheduleUpdate struct {
	MatchID     string
	TeamOneID   string
	TeamTwoID   string
	TeamOneName string
	TeamTwoName string
	StartTime   time.Time
	Live        bool
}

// ResultUpdate is a normalized results-feed entry for one match.
type ResultUpdate struct {
	MatchID      string
	TeamOneID    string
	TeamTwoID    string
	TeamOneName  string
	TeamTwoName  string
	TeamOneScore int
	TeamTwoScore int
	EndedAt      time.Time
}

// Completion describes a match that just transitioned to Completed and now
// needs settlement.
type Completion struct {
	MatchID    string
	EndTime    time.Time
	TeamOneWon bool
}

// Registry is the single-writer match state map. Readers take copies.
type Registry struct {
	mu      sync.RWMutex
	matches map[string]*model.Match
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{matches: make(map[string]*model.Match)}
}

// MergeSchedule folds one schedule entry into the registry. Entries with a
// to-be-determined opponent are skipped until both team IDs resolve.
// Completed matches are never moved backward. Reports whether a new match
// was inserted.
func (r *Registry) MergeSchedule(u ScheduleUpdate, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, seen := r.matches[u.MatchID]
	if !seen {
		if u.TeamOneID == "" || u.TeamTwoID == "" {
			return false
		}
		nm := &model.Match{
			ID:          u.MatchID,
			TeamOneID:   u.TeamOneID,
			TeamTwoID:   u.TeamTwoID,
			TeamOneName: u.TeamOneName,
			TeamTwoName: u.TeamTwoName,
			StartTime:   u.StartTime,
			Phase:       model.PhaseUpcoming,
		}
		if u.Live {
			nm.Phase = model.PhaseLive
			nm.StartTime = now
		}
		r.matches[u.MatchID] = nm
		return true
	}

	if m.Phase == model.PhaseCompleted {
		return false
	}

	if u.Live {
		m.Phase = model.PhaseLive
		// Pin start to the earlier of recorded and current time; going
		// live never pushes the start later.
		if now.Before(m.StartTime) {
			m.StartTime = now
		}
		return false
	}

	// Not reported live: the provider's scheduled time is authoritative
	// until the match actually starts. A transient live flag flips back.
	if !u.StartTime.IsZero() {
		m.StartTime = u.StartTime
	}
	if m.Phase == model.PhaseLive {
		m.Phase = model.PhaseUpcoming
	}
	return false
}

// MergeResult folds one results entry into the registry. A match first seen
// here is inserted directly as Completed without triggering settlement (the
// startup sweep covers backlog); a known, not-yet-completed match transitions
// and the returned Completion signals settlement is due. End times are
// clamped to now so provider clock skew can never date a completion in the
// future, and once set an end time is never overwritten.
func (r *Registry) MergeResult(u ResultUpdate, now time.Time) (Completion, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	end := u.EndedAt
	if end.IsZero() || end.After(now) {
		end = now
	}

	m, seen := r.matches[u.MatchID]
	if !seen {
		r.matches[u.MatchID] = &model.Match{
			ID:           u.MatchID,
			TeamOneID:    u.TeamOneID,
			TeamTwoID:    u.TeamTwoID,
			TeamOneName:  u.TeamOneName,
			TeamTwoName:  u.TeamTwoName,
			StartTime:    end,
			EndTime:      end,
			Phase:        model.PhaseCompleted,
			TeamOneScore: u.TeamOneScore,
			TeamTwoScore: u.TeamTwoScore,
		}
		return Completion{}, false
	}

	if m.Phase == model.PhaseCompleted {
		return Completion{}, false
	}

	m.Phase = model.PhaseCompleted
	if m.EndTime.IsZero() {
		m.EndTime = end
	}
	m.TeamOneScore = u.TeamOneScore
	m.TeamTwoScore = u.TeamTwoScore

	return Completion{
		MatchID:    m.ID,
		EndTime:    m.EndTime,
		TeamOneWon: m.TeamOneWon(),
	}, true
}

// SubmitGuess validates and applies a guess against the match's running
// aggregates. prev carries the user's previous guess for this match, if any;
// replacement adjusts the sum without growing the count.
func (r *Registry) SubmitGuess(matchID string, prev *int, guess int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.matches[matchID]
	if !ok {
		return ErrUnknownMatch
	}
	if m.Phase != model.PhaseUpcoming {
		return ErrMatchStarted
	}

	if prev != nil {
		m.PredictionSum += guess - *prev
		return nil
	}
	m.PredictionSum += guess
	m.PredictionCount++
	return nil
}

// RetractGuess reverses a guess previously applied through SubmitGuess, for
// when the durable write behind it fails. prev mirrors the value passed to
// SubmitGuess.
func (r *Registry) RetractGuess(matchID string, prev *int, guess int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.matches[matchID]
	if !ok {
		return
	}
	if prev != nil {
		m.PredictionSum += *prev - guess
		return
	}
	m.PredictionSum -= guess
	m.PredictionCount--
}

// SeedAggregate folds one stored guess into a match's aggregates during
// startup reload. Guesses referencing unknown matches are dropped.
func (r *Registry) SeedAggregate(matchID string, guess int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.matches[matchID]
	if !ok {
		return
	}
	m.PredictionSum += guess
	m.PredictionCount++
}

// Match returns a copy of one match.
func (r *Registry) Match(matchID string) (model.Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.matches[matchID]
	if !ok {
		return model.Match{}, false
	}
	return *m, true
}

// Upcoming returns matches not yet started, soonest first.
func (r *Registry) Upcoming() []model.Match {
	out := r.collect(func(m *model.Match) bool { return m.Phase == model.PhaseUpcoming })
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// Live returns in-play matches, earliest start first.
func (r *Registry) Live() []model.Match {
	out := r.collect(func(m *model.Match) bool { return m.Phase == model.PhaseLive })
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// Completed returns finished matches, most recent first.
func (r *Registry) Completed() []model.Match {
	out := r.collect(func(m *model.Match) bool { return m.Phase == model.PhaseCompleted })
	sort.Slice(out, func(i, j int) bool { return out[i].EndTime.After(out[j].EndTime) })
	return out
}

// Started returns live and completed matches: live first by start time, then
// completed by most recent end.
func (r *Registry) Started() []model.Match {
	out := r.collect(func(m *model.Match) bool { return m.Phase != model.PhaseUpcoming })
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		aLive := a.Phase == model.PhaseLive
		bLive := b.Phase == model.PhaseLive
		switch {
		case aLive && bLive:
			return a.StartTime.Before(b.StartTime)
		case aLive:
			return true
		case bLive:
			return false
		default:
			return a.EndTime.After(b.EndTime)
		}
	})
	return out
}

// All returns every tracked match: upcoming first by start time, then
// started matches.
func (r *Registry) All() []model.Match {
	upcoming := r.Upcoming()
	return append(upcoming, r.Started()...)
}

// Counts returns the number of matches per phase, for gauges.
func (r *Registry) Counts() (upcoming, live, completed int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.matches {
		switch m.Phase {
		case model.PhaseUpcoming:
			upcoming++
		case model.PhaseLive:
			live++
		case model.PhaseCompleted:
			completed++
		}
	}
	return upcoming, live, completed
}

func (r *Registry) collect(keep func(*model.Match) bool) []model.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Match, 0, len(r.matches))
	for _, m := range r.matches {
		if keep(m) {
			out = append(out, *m)
		}
	}
	return out
}
