// Package throttle provides a keyed rate limiter that coalesces bursts of
// calls into at most one execution per minimum interval.
//
// A call arriving after the interval has elapsed since the key's last
// execution runs synchronously. A call arriving earlier arms (or rearms) a
// trailing timer; when the timer fires it runs the most recent callback only.
// Earlier callbacks in the window are dropped, not queued.
//
// # Usage
//
//	throttle.Throttle(plotID+"-hover", 50*time.Millisecond, func() {
//	    plot.HoverSync(evt)
//	})
//
//	// during teardown
//	<-throttle.Done(plotID + "-hover")
//	throttle.Clear(plotID + "-hover")
//
// The package-level functions operate on [Default]. Tests construct their own
// [Scheduler] around a [ManualClock].
package throttle

import (
	"context"
	"sync"
	"time"
)

// IdleTTL is how long an entry may go unused before it is swept. Sweeps run
// whenever a new key is created.
const IdleTTL = 60 * time.Second

// Scheduler is a keyed throttle. The zero value is not usable; create one
// with [New].
type Scheduler struct {
	clock   Clock
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	ts      time.Time // last execution
	timer   Timer
	gen     uint64
	waiters []chan struct{}
}

// New creates a scheduler on the given clock. A nil clock selects
// [SystemClock].
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock
	}
	return &Scheduler{clock: clock, entries: make(map[string]*entry)}
}

// Default is the process-wide scheduler used by the package functions.
var Default = New(SystemClock)

// Throttle runs fn on Default. See [Scheduler.Throttle].
func Throttle(key string, minInterval time.Duration, fn func()) {
	Default.Throttle(key, minInterval, fn)
}

// Clear cancels a pending call on Default. See [Scheduler.Clear].
func Clear(key string) { Default.Clear(key) }

// ClearAll cancels every pending call on Default.
func ClearAll() { Default.ClearAll() }

// Done reports when Default has no pending call for key.
func Done(key string) <-chan struct{} { return Default.Done(key) }

// Throttle runs fn now if more than minInterval has passed since key last
// executed. Otherwise it replaces any pending call for key with fn, armed to
// fire minInterval from now.
//
// fn runs without the scheduler lock held, so it may call back into the
// scheduler.
func (s *Scheduler) Throttle(key string, minInterval time.Duration, fn func()) {
	s.mu.Lock()
	now := s.clock.Now()
	e, ok := s.entries[key]
	if !ok {
		s.sweep(now)
		e = &entry{}
		s.entries[key] = e
	}
	s.stopTimer(e)

	if e.ts.IsZero() || now.Sub(e.ts) > minInterval {
		s.mu.Unlock()
		s.exec(e, fn)
		return
	}

	gen := e.gen
	e.timer = s.clock.AfterFunc(minInterval, func() {
		s.mu.Lock()
		cur, ok := s.entries[key]
		if !ok || cur != e || cur.gen != gen {
			s.mu.Unlock()
			return
		}
		cur.timer = nil
		s.mu.Unlock()
		s.exec(e, fn)
	})
	s.mu.Unlock()
}

// exec runs fn, stamps the entry and releases anyone waiting on Done.
func (s *Scheduler) exec(e *entry, fn func()) {
	fn()

	s.mu.Lock()
	defer s.mu.Unlock()
	e.ts = s.clock.Now()
	if e.timer != nil {
		// fn re-armed the key; waiters stay until that call settles.
		return
	}
	releaseWaiters(e)
}

// Clear stops any pending call for key without running it and forgets the
// key. Callers blocked on Done(key) are released.
func (s *Scheduler) Clear(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return
	}
	s.stopTimer(e)
	releaseWaiters(e)
	delete(s.entries, key)
}

// ClearAll clears every key.
func (s *Scheduler) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		s.stopTimer(e)
		releaseWaiters(e)
		delete(s.entries, key)
	}
}

// Done returns a channel that is closed once key has no pending call. The
// channel is already closed when nothing is pending.
func (s *Scheduler) Done(key string) <-chan struct{} {
	ch := make(chan struct{})
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || e.timer == nil {
		close(ch)
		return ch
	}
	e.waiters = append(e.waiters, ch)
	return ch
}

// Wait blocks until key has no pending call or ctx is done.
func (s *Scheduler) Wait(ctx context.Context, key string) error {
	select {
	case <-s.Done(key):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports whether key has an armed trailing call.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return ok && e.timer != nil
}

// Len reports how many keys the scheduler is tracking.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweep drops entries that have been idle for longer than IdleTTL and have
// nothing pending. Callers hold s.mu.
func (s *Scheduler) sweep(now time.Time) {
	for key, e := range s.entries {
		if e.timer == nil && now.Sub(e.ts) > IdleTTL {
			delete(s.entries, key)
		}
	}
}

// stopTimer disarms e's trailing call. Callers hold s.mu.
func (s *Scheduler) stopTimer(e *entry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
}

func releaseWaiters(e *entry) {
	for _, ch := range e.waiters {
		close(ch)
	}
	e.waiters = nil
}
