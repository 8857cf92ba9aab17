// Package sessionlog persists the mounting session's event trail and
// timing summary. Sinks are plain collaborators; the Recorder wraps them
// so the workflow never waits on, or fails because of, storage.
package sessionlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/banshee-data/propmount/internal/errors"
)

// Timestamp layouts for the text log.
const (
	RecordTimeLayout = "2006-01-02 15:04:05.000"
	FileTimeLayout   = "20060102_150405"
)

// Record is one timestamped workflow event.
type Record struct {
	SessionID string
	At        time.Time
	Event     string
}

// Summary is written once when the last slot is mounted.
type Summary struct {
	SessionID string
	Started   time.Time
	Total     time.Duration
	Slots     []time.Duration
}

// Sink receives session records. Implementations are called from a
// single goroutine.
type Sink interface {
	Record(Record) error
	Summary(Summary) error
	Close() error
}

// FormatRecord renders a record as one text log line (without newline).
func FormatRecord(r Record) string {
	return fmt.Sprintf("%s - %s", r.At.UTC().Format(RecordTimeLayout), r.Event)
}

// FormatSummary renders the summary lines, overall time first.
func FormatSummary(s Summary) []string {
	lines := make([]string, 0, len(s.Slots)+1)
	lines = append(lines, fmt.Sprintf("Overall Time: %s", seconds(s.Total)))
	for i, d := range s.Slots {
		lines = append(lines, fmt.Sprintf("Slot %d Mount Time: %s", i+1, seconds(d)))
	}
	return lines
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// FileName is the text log name for a session started at t.
func FileName(t time.Time) string {
	return "mount_times_" + t.UTC().Format(FileTimeLayout) + ".txt"
}

// MultiSink fans every call out to each sink. All sinks are called even
// when one fails; the errors are combined.
type MultiSink []Sink

// Record implements Sink.
func (m MultiSink) Record(r Record) error {
	return m.each(func(s Sink) error { return s.Record(r) })
}

// Summary implements Sink.
func (m MultiSink) Summary(s Summary) error {
	return m.each(func(k Sink) error { return k.Summary(s) })
}

// Close implements Sink.
func (m MultiSink) Close() error {
	return m.each(func(s Sink) error { return s.Close() })
}

func (m MultiSink) each(fn func(Sink) error) error {
	var msgs []string
	var first error
	for _, s := range m {
		if err := fn(s); err != nil {
			if first == nil {
				first = err
			}
			msgs = append(msgs, err.Error())
		}
	}
	if first == nil {
		return nil
	}
	if len(msgs) == 1 {
		return first
	}
	return errors.Wrapf(first, "%d sinks failed: %s", len(msgs), strings.Join(msgs, "; "))
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(Record) error   { return nil }
func (discard) Summary(Summary) error { return nil }
func (discard) Close() error          { return nil }
