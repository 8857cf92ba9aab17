package workflow

import (
	"fmt"

	"github.com/banshee-data/propmount/internal/errors"
)

// EventKind names an operator action from the UI.
type EventKind string

const (
	ChooseSymmetric     EventKind = "ChooseSymmetric"
	ChooseAsymmetric    EventKind = "ChooseAsymmetric"
	SelectCount         EventKind = "SelectCount"
	StartPressed        EventKind = "StartPressed"
	FreezeToggled       EventKind = "FreezeToggled"
	AdjustmentConfirmed EventKind = "AdjustmentConfirmed"
	GrabConfirmed       EventKind = "GrabConfirmed"
	SlideConfirmed      EventKind = "SlideConfirmed"
	CableConfirmed      EventKind = "CableConfirmed"
)

var eventKinds = []EventKind{
	ChooseSymmetric, ChooseAsymmetric, SelectCount, StartPressed, FreezeToggled,
	AdjustmentConfirmed, GrabConfirmed, SlideConfirmed, CableConfirmed,
}

// ParseEventKind maps an event name to its kind.
func ParseEventKind(name string) (EventKind, error) {
	for _, k := range eventKinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", errors.InvalidInputf("unknown event %q", name)
}

// Event is one UI action. Value carries the count for SelectCount.
type Event struct {
	Kind  EventKind
	Value int
}

// String is the name written to the session log.
func (e Event) String() string {
	if e.Kind == SelectCount {
		return fmt.Sprintf("%s: %d", e.Kind, e.Value)
	}
	return string(e.Kind)
}

// EventRecord is the JSON form of an event in a scenario file.
type EventRecord struct {
	Name  string `json:"event"`
	Value int    `json:"value,omitempty"`
}

// Event parses the record.
func (r EventRecord) Event() (Event, error) {
	kind, err := ParseEventKind(r.Name)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: kind, Value: r.Value}, nil
}
