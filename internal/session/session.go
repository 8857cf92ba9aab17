// Package session carries the per-run context that would otherwise be
// global: the session id, the clock every timer reads, and the log sink.
package session

import (
	"time"

	"github.com/banshee-data/propmount/internal/monitoring"
	"github.com/banshee-data/propmount/internal/sessionlog"
	"github.com/banshee-data/propmount/internal/timeutil"
	"github.com/google/uuid"
)

// Context is one mounting session. It is passed explicitly to the
// workflow; nothing in it is shared between sessions.
type Context struct {
	ID      string
	Clock   timeutil.Clock
	Started time.Time

	sink      sessionlog.Sink
	overall   *timeutil.Stopwatch
	slot      *timeutil.Stopwatch
	durations []time.Duration
	total     time.Duration
	failures  int
}

// New starts a session. A nil clock uses the real clock; a nil sink
// discards records.
func New(clock timeutil.Clock, sink sessionlog.Sink) *Context {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	if sink == nil {
		sink = sessionlog.Discard
	}
	return &Context{
		ID:      uuid.New().String(),
		Clock:   clock,
		Started: clock.Now(),
		sink:    sink,
		overall: timeutil.NewStopwatch(clock),
		slot:    timeutil.NewStopwatch(clock),
	}
}

// Log records a timestamped event. Sink errors are counted and logged,
// never returned.
func (c *Context) Log(event string) {
	err := c.sink.Record(sessionlog.Record{SessionID: c.ID, At: c.Clock.Now(), Event: event})
	if err != nil {
		c.failures++
		monitoring.Logf("[session %s] log %q: %v", c.ID, event, err)
	}
}

// StartOverall starts the overall timer.
func (c *Context) StartOverall() { c.overall.Start() }

// StartSlot starts the per-slot timer.
func (c *Context) StartSlot() { c.slot.Start() }

// FinishSlot stops the per-slot timer and records its duration.
func (c *Context) FinishSlot() time.Duration {
	d := c.slot.Stop()
	c.durations = append(c.durations, d)
	return d
}

// Finish stops the overall timer and writes the summary.
func (c *Context) Finish() sessionlog.Summary {
	c.total = c.overall.Stop()
	sum := sessionlog.Summary{
		SessionID: c.ID,
		Started:   c.overall.StartedAt(),
		Total:     c.total,
		Slots:     c.Durations(),
	}
	if err := c.sink.Summary(sum); err != nil {
		c.failures++
		monitoring.Logf("[session %s] summary: %v", c.ID, err)
	}
	return sum
}

// Durations returns a copy of the per-slot mount times so far.
func (c *Context) Durations() []time.Duration {
	out := make([]time.Duration, len(c.durations))
	copy(out, c.durations)
	return out
}

// Total returns the overall time; zero until Finish.
func (c *Context) Total() time.Duration { return c.total }

// LogFailures returns how many sink calls failed.
func (c *Context) LogFailures() int { return c.failures }
