// Package slots tracks which component slot is being worked on and the
// lifecycle of every slot:
//
//	Inactive → AwaitingGrab → Displaying → Mounted
//
// The only backward edge is HideCurrent (Displaying → Inactive), which
// leaves the current index untouched. At most one slot is Displaying at
// a time, always the one at CurrentIndex()-1.
package slots

import (
	"fmt"

	"github.com/banshee-data/propmount/internal/errors"
	"github.com/banshee-data/propmount/internal/layout"
	"github.com/banshee-data/propmount/internal/monitoring"
)

// State is a slot's lifecycle state.
type State string

const (
	Inactive     State = "inactive"
	AwaitingGrab State = "awaiting_grab"
	Displaying   State = "displaying"
	Mounted      State = "mounted"
)

// ErrAllActivated is returned when every slot has already been activated.
var ErrAllActivated = errors.New("all slots already activated")

// Slot is one position on the base. Its world pose is derived every
// tick from the anchor and the layout and is never stored here.
type Slot struct {
	Index int
	State State
}

// Snapshot is a copy of the machine state handed to observers.
type Snapshot struct {
	Key          layout.Key
	Count        int
	CurrentIndex int
	Mounting     bool
	Displaying   bool
	Slots        []Slot
}

// ActiveIndex returns the Displaying slot, if any.
func (s Snapshot) ActiveIndex() (int, bool) {
	if s.CurrentIndex == 0 || s.CurrentIndex > len(s.Slots) {
		return 0, false
	}
	i := s.CurrentIndex - 1
	return i, s.Slots[i].State == Displaying
}

// Observer is notified directly after every state change.
type Observer interface {
	SlotsChanged(Snapshot)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Snapshot)

// SlotsChanged calls f(s).
func (f ObserverFunc) SlotsChanged(s Snapshot) { f(s) }

// Machine is the slot state machine. It is the only writer of slot
// states and the current index.
type Machine struct {
	entry        layout.Entry
	slots        []Slot
	currentIndex int
	mounting     bool
	displaying   bool

	observers []Observer
}

// NewMachine returns an unconfigured machine with no slots.
func NewMachine() *Machine {
	return &Machine{}
}

// Register adds an observer. Registering the same observer twice is a no-op.
func (m *Machine) Register(o Observer) {
	for _, existing := range m.observers {
		if sameObserver(existing, o) {
			return
		}
	}
	m.observers = append(m.observers, o)
}

// Unregister removes an observer.
func (m *Machine) Unregister(o Observer) {
	for i, existing := range m.observers {
		if sameObserver(existing, o) {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}

// sameObserver compares observers by identity. Func adapters are not
// comparable and are never treated as duplicates.
func sameObserver(a, b Observer) bool {
	if _, ok := a.(ObserverFunc); ok {
		return false
	}
	if _, ok := b.(ObserverFunc); ok {
		return false
	}
	return a == b
}

func (m *Machine) notify() {
	snap := m.Snapshot()
	for _, o := range m.observers {
		o.SlotsChanged(snap)
	}
}

// Configure resets the machine for a new assembly. Counts outside the
// supported set are rejected with layout.ErrUnsupportedCount.
func (m *Machine) Configure(symmetric bool, count int) error {
	entry, err := layout.Lookup(layout.Key{Symmetric: symmetric, Count: count})
	if err != nil {
		return err
	}
	m.entry = entry
	m.slots = make([]Slot, entry.Len())
	for i := range m.slots {
		m.slots[i] = Slot{Index: i, State: Inactive}
	}
	m.currentIndex = 0
	m.mounting = false
	m.displaying = false
	m.notify()
	return nil
}

// Prepare marks the next slot AwaitingGrab and returns its index.
func (m *Machine) Prepare() (int, error) {
	if m.currentIndex >= len(m.slots) {
		monitoring.Logf("[slots] prepare: %v (%d/%d)", ErrAllActivated, m.currentIndex, len(m.slots))
		return m.currentIndex, ErrAllActivated
	}
	i := m.currentIndex
	if m.slots[i].State == Inactive {
		m.slots[i].State = AwaitingGrab
		m.notify()
	}
	return i, nil
}

// ActivateNext displays the next slot and advances the index. It
// returns the index of the slot it activated. When every slot is
// already active it logs, changes nothing and returns -1 with
// ErrAllActivated.
func (m *Machine) ActivateNext() (int, error) {
	if m.currentIndex >= len(m.slots) {
		monitoring.Logf("[slots] activate: %v (%d/%d)", ErrAllActivated, m.currentIndex, len(m.slots))
		return -1, ErrAllActivated
	}
	activated := m.currentIndex
	// A slot left Displaying without a finished mounting step is taken down
	// so only one slot is ever Displaying.
	if prev := m.currentIndex - 1; prev >= 0 && m.slots[prev].State == Displaying {
		monitoring.Logf("[slots] slot %d still displaying at activation; hiding it", prev)
		m.slots[prev].State = Inactive
	}
	m.slots[m.currentIndex].State = Displaying
	m.mounting = true
	m.displaying = true
	m.currentIndex++
	m.notify()
	return activated, nil
}

// HideCurrent takes the current slot's guide down (Displaying →
// Inactive). The index and mounting bookkeeping are unchanged.
func (m *Machine) HideCurrent() {
	if m.currentIndex == 0 {
		return
	}
	changed := m.displaying
	if i := m.currentIndex - 1; m.slots[i].State == Displaying {
		m.slots[i].State = Inactive
		changed = true
	}
	m.displaying = false
	if changed {
		m.notify()
	}
}

// ShowCurrent undoes HideCurrent: guides are shown again, and the
// current slot goes back to Displaying if its mounting step is still
// open. Returns whether anything changed.
func (m *Machine) ShowCurrent() bool {
	if m.currentIndex == 0 {
		return false
	}
	changed := !m.displaying
	if i := m.currentIndex - 1; m.mounting && m.slots[i].State == Inactive {
		m.slots[i].State = Displaying
		changed = true
	}
	m.displaying = true
	if changed {
		m.notify()
	}
	return changed
}

// FinishMountingStep closes the current mounting step and marks the
// slot Mounted. Calling it again is a no-op that returns false.
func (m *Machine) FinishMountingStep() bool {
	if !m.mounting {
		return false
	}
	m.mounting = false
	if m.currentIndex > 0 {
		m.slots[m.currentIndex-1].State = Mounted
	}
	m.notify()
	return true
}

// CurrentIndex is the number of slots activated so far.
func (m *Machine) CurrentIndex() int { return m.currentIndex }

// Count is the configured number of slots.
func (m *Machine) Count() int { return len(m.slots) }

// Mounting reports whether a mounting step is open.
func (m *Machine) Mounting() bool { return m.mounting }

// Displaying reports whether guides are shown.
func (m *Machine) Displaying() bool { return m.displaying }

// ActiveIndex returns the Displaying slot, if any.
func (m *Machine) ActiveIndex() (int, bool) {
	if m.currentIndex == 0 {
		return 0, false
	}
	i := m.currentIndex - 1
	return i, m.slots[i].State == Displaying
}

// State returns slot i's state.
func (m *Machine) State(i int) (State, error) {
	if i < 0 || i >= len(m.slots) {
		return "", errors.InvalidInputf("slot %d out of range [0,%d)", i, len(m.slots))
	}
	return m.slots[i].State, nil
}

// Visible reports whether slot i's guide is drawn: guides are shown
// and the slot has been reached.
func (m *Machine) Visible(i int) bool {
	return m.displaying && i >= 0 && i < len(m.slots) && i <= m.currentIndex-1
}

// Layout returns the resolved layout.
func (m *Machine) Layout() layout.Entry { return m.entry }

// Snapshot copies the current state.
func (m *Machine) Snapshot() Snapshot {
	slots := make([]Slot, len(m.slots))
	copy(slots, m.slots)
	return Snapshot{
		Key:          m.entry.Key,
		Count:        len(m.slots),
		CurrentIndex: m.currentIndex,
		Mounting:     m.mounting,
		Displaying:   m.displaying,
		Slots:        slots,
	}
}

// String renders the machine for logs.
func (m *Machine) String() string {
	return fmt.Sprintf("slots{index=%d/%d mounting=%t displaying=%t}",
		m.currentIndex, len(m.slots), m.mounting, m.displaying)
}
