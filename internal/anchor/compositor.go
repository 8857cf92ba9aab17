// Package anchor owns the primary marker's working pose: the live or
// frozen pose every guide placement is composed against.
package anchor

import (
	"github.com/banshee-data/propmount/internal/geom"
	"github.com/banshee-data/propmount/internal/monitoring"
	"github.com/banshee-data/propmount/internal/tracking"
)

// FreezeListener is called once per false→true freeze transition with
// the captured working pose.
type FreezeListener func(captured geom.Pose)

// Compositor holds the anchor state. It is the only writer of the
// working pose, the frozen flag and the has-pose flag.
type Compositor struct {
	working geom.Pose
	hasPose bool
	frozen  bool

	// pendingFreeze is set when freezing happened before any pose was
	// observed; the first usable observation is captured instead.
	pendingFreeze bool

	listeners []FreezeListener
}

// NewCompositor returns an unfrozen compositor with no pose.
func NewCompositor() *Compositor {
	return &Compositor{}
}

// ComposeSlotPose places a relative offset in the world: working ∘ offset.
func ComposeSlotPose(working, offset geom.Pose) geom.Pose {
	return geom.Compose(working, offset)
}

// OnFreeze registers a listener for freeze transitions.
func (c *Compositor) OnFreeze(fn FreezeListener) {
	c.listeners = append(c.listeners, fn)
}

// Update feeds one tracker observation. While unfrozen a usable
// observation replaces the working pose; a lost marker leaves the
// previous pose in place. While frozen input is ignored. Returns
// whether the working pose changed.
func (c *Compositor) Update(obs tracking.Observation) bool {
	if !obs.Usable() {
		return false
	}
	if c.frozen && !c.pendingFreeze {
		return false
	}
	changed := !c.hasPose || c.working != obs.Pose
	c.working = obs.Pose
	c.hasPose = true
	if c.pendingFreeze {
		c.pendingFreeze = false
		c.notify()
	}
	return changed
}

// SetFrozen pins or releases the working pose.
func (c *Compositor) SetFrozen(frozen bool) {
	if frozen == c.frozen {
		return
	}
	c.frozen = frozen
	if !frozen {
		c.pendingFreeze = false
		return
	}
	if !c.hasPose {
		monitoring.Logf("[anchor] frozen before any pose was observed; capturing the first one")
		c.pendingFreeze = true
		return
	}
	c.notify()
}

// ToggleFrozen flips the frozen flag and returns the new value.
func (c *Compositor) ToggleFrozen() bool {
	c.SetFrozen(!c.frozen)
	return c.frozen
}

func (c *Compositor) notify() {
	for _, fn := range c.listeners {
		fn(c.working)
	}
}

// WorkingPose returns the pose placements use; ok is false until a
// pose has been observed.
func (c *Compositor) WorkingPose() (geom.Pose, bool) {
	return c.working, c.hasPose
}

// Frozen reports whether the working pose is pinned.
func (c *Compositor) Frozen() bool { return c.frozen }

// HasPose reports whether any pose has been observed.
func (c *Compositor) HasPose() bool { return c.hasPose }
