package session

import (
	"testing"
	"time"

	"github.com/banshee-data/propmount/internal/errors"
	"github.com/banshee-data/propmount/internal/monitoring"
	"github.com/banshee-data/propmount/internal/sessionlog"
	"github.com/banshee-data/propmount/internal/timeutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	monitoring.SetLogger(nil)
}

type captureSink struct {
	records   []sessionlog.Record
	summaries []sessionlog.Summary
	err       error
}

func (c *captureSink) Record(r sessionlog.Record) error {
	c.records = append(c.records, r)
	return c.err
}

func (c *captureSink) Summary(s sessionlog.Summary) error {
	c.summaries = append(c.summaries, s)
	return c.err
}

func (c *captureSink) Close() error { return nil }

var start = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	clock := timeutil.NewMockClock(start)
	s := New(clock, nil)

	_, err := uuid.Parse(s.ID)
	assert.NoError(t, err)
	assert.Equal(t, start, s.Started)
	assert.NotEqual(t, s.ID, New(clock, nil).ID)
}

func TestLog(t *testing.T) {
	clock := timeutil.NewMockClock(start)
	sink := &captureSink{}
	s := New(clock, sink)

	clock.Advance(1500 * time.Millisecond)
	s.Log("StartPressed")

	require.Len(t, sink.records, 1)
	assert.Equal(t, sessionlog.Record{SessionID: s.ID, At: start.Add(1500 * time.Millisecond), Event: "StartPressed"}, sink.records[0])
}

func TestLog_FailuresAreCounted(t *testing.T) {
	sink := &captureSink{err: errors.New("storage unavailable")}
	s := New(timeutil.NewMockClock(start), sink)

	s.Log("a")
	s.Log("b")
	s.Finish()
	assert.Equal(t, 3, s.LogFailures())
}

func TestTimers(t *testing.T) {
	clock := timeutil.NewMockClock(start)
	sink := &captureSink{}
	s := New(clock, sink)

	s.StartOverall()
	clock.Advance(10 * time.Second)

	s.StartSlot()
	clock.Advance(20 * time.Second)
	assert.Equal(t, 20*time.Second, s.FinishSlot())

	s.StartSlot()
	clock.Advance(25 * time.Second)
	s.FinishSlot()

	assert.Equal(t, time.Duration(0), s.Total())
	sum := s.Finish()

	assert.Equal(t, 55*time.Second, s.Total())
	assert.Equal(t, []time.Duration{20 * time.Second, 25 * time.Second}, s.Durations())
	assert.Equal(t, sessionlog.Summary{
		SessionID: s.ID,
		Started:   start,
		Total:     55 * time.Second,
		Slots:     []time.Duration{20 * time.Second, 25 * time.Second},
	}, sum)
	require.Len(t, sink.summaries, 1)
}

func TestDurationsIsCopy(t *testing.T) {
	clock := timeutil.NewMockClock(start)
	s := New(clock, nil)
	s.StartSlot()
	clock.Advance(time.Second)
	s.FinishSlot()

	d := s.Durations()
	d[0] = 0
	assert.Equal(t, time.Second, s.Durations()[0])
}
