// Package scheduler provides the repeating update scheduler for the gas price bot.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPeriod is the compile-time placeholder the scheduler is armed with
// before the configured interval is known.
const DefaultPeriod = 6 * time.Hour

// Result records the outcome of the most recent update cycle.
type Result string

const (
	ResultUnset Result = "unset"
	ResultOK    Result = "ok"
	ResultError Result = "error"
)

// TickFunc runs one fetch→format→send cycle. A non-nil error marks the cycle
// failed; it never disarms the timer.
type TickFunc func(ctx context.Context) error

// Scheduler owns the repeating-timer lifecycle for scheduled price updates.
// No cycle runs before the readiness gate opens, the period can be retargeted
// at runtime, and per-cycle failures are contained at the tick boundary.
type Scheduler struct {
	tick   TickFunc
	ready  <-chan struct{}
	logger zerolog.Logger

	mu         sync.RWMutex
	period     time.Duration
	nextRunAt  time.Time
	running    bool
	lastRunAt  *time.Time
	lastResult Result

	periodCh chan time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a Scheduler. ready is the gateway readiness gate; the run loop
// waits on it before anything else.
func New(tick TickFunc, ready <-chan struct{}, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		tick:       tick,
		ready:      ready,
		logger:     logger.With().Str("component", "scheduler").Logger(),
		lastResult: ResultUnset,
	}
}

// Start arms the scheduler with the given period and returns immediately.
// Calling Start while already running is a no-op; the timer is never
// double-armed. The initial period is a placeholder until SetPeriod retargets
// it once the configured value is known.
func (s *Scheduler) Start(initialPeriod time.Duration) {
	if initialPeriod <= 0 {
		initialPeriod = DefaultPeriod
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Msg("start called while already running")
		return
	}
	s.running = true
	s.period = initialPeriod
	s.periodCh = make(chan time.Duration, 1)
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	periodCh, stopCh, doneCh := s.periodCh, s.stopCh, s.doneCh
	s.mu.Unlock()

	s.logger.Info().Dur("period", initialPeriod).Msg("scheduler armed")

	go s.run(periodCh, stopCh, doneCh)
}

// SetPeriod replaces the active period for all subsequent fires. A cycle
// already dispatched is unaffected; the pending fire is retargeted relative
// to the last cycle. Safe to call whether or not the loop has passed the
// readiness gate yet.
func (s *Scheduler) SetPeriod(d time.Duration) {
	if d <= 0 {
		s.logger.Warn().Dur("period", d).Msg("ignoring non-positive period")
		return
	}

	s.mu.Lock()
	s.period = d
	periodCh := s.periodCh
	running := s.running
	s.mu.Unlock()

	s.logger.Info().Dur("period", d).Msg("update period set")

	if !running {
		return
	}

	// Nudge the loop to retarget the armed timer. The channel is buffered; if
	// a retarget is already pending the stored period wins anyway.
	select {
	case periodCh <- d:
	default:
	}
}

// Stop disarms the timer and waits for the run loop to exit. An in-flight
// cycle is allowed to complete. Calling Stop when not running is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stopCh, doneCh := s.stopCh, s.doneCh
	s.mu.Unlock()

	close(stopCh)
	<-doneCh

	s.mu.Lock()
	s.nextRunAt = time.Time{}
	s.mu.Unlock()

	s.logger.Info().Msg("scheduler stopped")
}

// run is the scheduler loop: gate, immediate first cycle, then fire per period.
func (s *Scheduler) run(periodCh chan time.Duration, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	// Nothing fires before the delivery transport is connected.
	select {
	case <-s.ready:
	case <-stopCh:
		return
	}

	s.logger.Info().Dur("period", s.Period()).Msg("readiness gate open, starting update loop")

	// First cycle fires as soon as the gate opens.
	s.runCycle()

	timer := time.NewTimer(s.rearm(time.Now()))
	defer timer.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-periodCh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			base := time.Now()
			s.mu.RLock()
			if s.lastRunAt != nil {
				base = *s.lastRunAt
			}
			s.mu.RUnlock()
			timer.Reset(s.rearm(base))
		case <-timer.C:
			s.runCycle()
			timer.Reset(s.rearm(time.Now()))
		}
	}
}

// runCycle executes one tick with the failure containment contract: any error
// is logged and recorded, never propagated, so the timer stays armed.
func (s *Scheduler) runCycle() {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	err := s.tick(context.Background())

	s.mu.Lock()
	if err != nil {
		s.lastResult = ResultError
	} else {
		s.lastResult = ResultOK
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled update cycle failed")
	} else {
		s.logger.Info().Msg("scheduled update cycle completed")
	}
}

// rearm computes the wait until the next fire measured from base, records the
// fire time, and returns the wait.
func (s *Scheduler) rearm(base time.Time) time.Duration {
	s.mu.Lock()
	next := base.Add(s.period)
	s.nextRunAt = next
	s.mu.Unlock()

	d := time.Until(next)
	if d < 0 {
		d = 0
	}

	s.logger.Debug().Time("nextRun", next).Msg("next update scheduled")
	return d
}

// Period returns the currently active period.
func (s *Scheduler) Period() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.period
}

// IsRunning returns whether a repeating timer is currently armed.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// NextRunAt returns the time of the next scheduled cycle. Only meaningful
// while running.
func (s *Scheduler) NextRunAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextRunAt
}

// LastRunAt returns the time of the last cycle, or nil if none ran yet.
func (s *Scheduler) LastRunAt() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRunAt
}

// LastResult returns the outcome of the most recent cycle.
func (s *Scheduler) LastResult() Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResult
}
