// Package recency tracks which completed matches still count toward the
// leaderboard's "movement since yesterday" figure.
package recency

import (
	"sync"
	"time"
)

// DefaultWindow is how long a completed match contributes to rank movement.
const DefaultWindow = 24 * time.Hour

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithWindow overrides the rolling window length.
func WithWindow(window time.Duration) Option {
	return func(t *Tracker) {
		if window > 0 {
			t.window = window
		}
	}
}

// Tracker is a rolling set of match IDs completed within the window. It is a
// pure in-memory view: it is rebuilt from the registry on startup and never
// persisted.
type Tracker struct {
	mu     sync.RWMutex
	window time.Duration
	endAt  map[string]time.Time
}

// New creates a Tracker with the default 24h window.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		window: DefaultWindow,
		endAt:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Add records a completed match. Matches whose end time already falls
// outside the window relative to now are not admitted.
func (t *Tracker) Add(matchID string, endTime, now time.Time) {
	if endTime.Add(t.window).Before(now) {
		return
	}
	t.mu.Lock()
	t.endAt[matchID] = endTime
	t.mu.Unlock()
}

// Expire drops matches older than the window and reports whether anything
// was removed, so the caller knows a leaderboard rebuild is due.
func (t *Tracker) Expire(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := false
	for id, end := range t.endAt {
		if end.Add(t.window).Before(now) {
			delete(t.endAt, id)
			removed = true
		}
	}
	return removed
}

// Contains reports membership.
func (t *Tracker) Contains(matchID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.endAt[matchID]
	return ok
}

// IDs returns the current member match IDs in no particular order.
func (t *Tracker) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.endAt))
	for id := range t.endAt {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the current membership count.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.endAt)
}
