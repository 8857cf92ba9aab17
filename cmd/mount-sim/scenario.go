package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/banshee-data/propmount/internal/tracking"
	"github.com/banshee-data/propmount/internal/workflow"
)

const defaultTickMillis = 100

// Scenario is a recorded mounting session: tracker frames interleaved
// with the operator's UI events.
type Scenario struct {
	// Start is the simulated wall-clock time of the first tick.
	Start      time.Time    `json:"start,omitempty"`
	TickMillis int          `json:"tick_ms,omitempty"`
	MarkerIDs  []int        `json:"marker_ids,omitempty"`
	Ticks      []TickRecord `json:"ticks"`
}

// TickRecord is one tracker frame, held for Repeat ticks. Events are
// applied before the first of those ticks.
type TickRecord struct {
	tracking.FrameRecord
	Events []workflow.EventRecord `json:"events,omitempty"`
	Repeat int                    `json:"repeat,omitempty"`
}

// TickInterval returns the simulated time between ticks.
func (s *Scenario) TickInterval() time.Duration {
	if s.TickMillis <= 0 {
		return defaultTickMillis * time.Millisecond
	}
	return time.Duration(s.TickMillis) * time.Millisecond
}

// Expand flattens the ticks into one frame per tick, with the parsed
// events to apply before each frame.
func (s *Scenario) Expand() ([]tracking.FrameRecord, [][]workflow.Event, error) {
	var frames []tracking.FrameRecord
	var events [][]workflow.Event
	for i, rec := range s.Ticks {
		parsed := make([]workflow.Event, 0, len(rec.Events))
		for _, er := range rec.Events {
			e, err := er.Event()
			if err != nil {
				return nil, nil, fmt.Errorf("tick record %d: %w", i, err)
			}
			parsed = append(parsed, e)
		}
		n := rec.Repeat
		if n < 1 {
			n = 1
		}
		for j := 0; j < n; j++ {
			frames = append(frames, rec.FrameRecord)
			if j == 0 {
				events = append(events, parsed)
			} else {
				events = append(events, nil)
			}
		}
	}
	return frames, events, nil
}

// LoadScenario reads a scenario JSON file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	if len(s.Ticks) == 0 {
		return nil, fmt.Errorf("scenario %s has no ticks", path)
	}
	return &s, nil
}
