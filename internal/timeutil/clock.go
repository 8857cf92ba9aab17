// Package timeutil provides a testable abstraction over the clock used
// for mount timing.
package timeutil

import (
	"sync"
	"time"
)

// Clock provides the current time. Sessions read every timestamp
// through a Clock so tests can drive elapsed times deterministically.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Since returns the duration since t.
	Since(t time.Time) time.Duration
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed since t.
func (RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// MockClock is a manually controlled clock for testing.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a new MockClock set to the given time.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now returns the mocked current time.
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set sets the mock clock to a specific time.
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the mock clock forward by d.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Since returns the duration since t.
func (c *MockClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// Stopwatch measures one interval against a Clock. The zero value is
// stopped and reports zero elapsed time.
type Stopwatch struct {
	clock   Clock
	started time.Time
	stopped time.Time
	running bool
}

// NewStopwatch returns a stopped stopwatch bound to clock.
func NewStopwatch(clock Clock) *Stopwatch {
	return &Stopwatch{clock: clock}
}

// Start (re)starts the interval at the clock's current time.
func (s *Stopwatch) Start() {
	s.started = s.clock.Now()
	s.stopped = time.Time{}
	s.running = true
}

// Stop ends the interval and returns its length. Stopping a stopped
// stopwatch returns the last measured length.
func (s *Stopwatch) Stop() time.Duration {
	if s.running {
		s.stopped = s.clock.Now()
		s.running = false
	}
	return s.Elapsed()
}

// Running reports whether the interval is open.
func (s *Stopwatch) Running() bool { return s.running }

// StartedAt returns the start of the current or last interval.
func (s *Stopwatch) StartedAt() time.Time { return s.started }

// Elapsed returns the interval length so far.
func (s *Stopwatch) Elapsed() time.Duration {
	switch {
	case s.running:
		return s.clock.Since(s.started)
	case s.started.IsZero():
		return 0
	default:
		return s.stopped.Sub(s.started)
	}
}
