// Package scheduler runs the single cooperative timer loop driving
// reconciliation and window maintenance.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/matchday/pkg/logger"
)

// DefaultInterval is the tick period between reconciliation passes.
const DefaultInterval = 60 * time.Second

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithInterval sets the tick period.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// Scheduler invokes a task on a fixed interval. An in-flight guard ensures a
// slow pass is never overlapped by the next tick; an overlapping tick is
// skipped, not queued.
type Scheduler struct {
	interval time.Duration
	task     func(context.Context)
	log      logger.Logger

	inFlight atomic.Bool
	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a scheduler for task.
func New(task func(context.Context), opts ...Option) *Scheduler {
	s := &Scheduler{
		interval: DefaultInterval,
		task:     task,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the timer loop. It returns immediately; the loop runs until
// Stop is called or ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	if s.log == nil {
		s.log = logger.Get().Named("scheduler")
	}

	go func() {
		defer close(s.doneCh)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				s.Tick(ctx)
			}
		}
	}()
}

// Tick runs one pass immediately, honoring the overlap guard. Returns false
// when a pass was already in flight and this one was skipped.
func (s *Scheduler) Tick(ctx context.Context) bool {
	if !s.inFlight.CompareAndSwap(false, true) {
		if s.log != nil {
			s.log.Debug(ctx, "previous pass still running, skipping tick")
		}
		return false
	}
	defer s.inFlight.Store(false)

	s.task(ctx)
	return true
}

// Stop terminates the loop. Safe to call more than once; a pass already in
// flight finishes on its own.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	if s.started.Load() {
		<-s.doneCh
	}
}
