package ai

import (
	"fmt"
	"time"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
)

// OverrideFlags select which control axes an external override replaces.
type OverrideFlags uint16

const (
	OverridePitch OverrideFlags = 1 << iota
	OverrideHeading
	OverrideBank
	OverrideForward
	OverrideSide
	OverrideVert
	OverrideLateralNeverExpire
	OverrideRotationalNeverExpire

	OverrideRotational = OverridePitch | OverrideHeading | OverrideBank
	OverrideLateral    = OverrideForward | OverrideSide | OverrideVert
)

// overrideChannel holds control input imposed from outside the AI, for example by a
// scripted sequence. Rotational and lateral axes expire independently.
type overrideChannel struct {
	flags     OverrideFlags
	ci        model.ControlInfo
	latExpire timestamp.Stamp
	rotExpire timestamp.Stamp
}

func (o *overrideChannel) reset() {
	o.flags = 0
	o.ci.Reset()
	o.latExpire = timestamp.Invalid
	o.rotExpire = timestamp.Invalid
}

func (o *overrideChannel) rotationalActive(clock *timestamp.Clock) bool {
	if o.flags&OverrideRotational == 0 {
		return false
	}
	return o.flags&OverrideRotationalNeverExpire != 0 || clock.Pending(o.rotExpire)
}

func (o *overrideChannel) lateralActive(clock *timestamp.Clock) bool {
	if o.flags&OverrideLateral == 0 {
		return false
	}
	return o.flags&OverrideLateralNeverExpire != 0 || clock.Pending(o.latExpire)
}

// apply replaces the overridden axes of ci while their expiry stamps are pending.
func (o *overrideChannel) apply(ci *model.ControlInfo, clock *timestamp.Clock) {
	if o.flags == 0 {
		return
	}
	rot, lat := o.rotationalActive(clock), o.lateralActive(clock)
	if !rot && !lat {
		o.reset()
		return
	}
	if rot {
		if o.flags&OverridePitch != 0 {
			ci.Pitch = o.ci.Pitch
		}
		if o.flags&OverrideHeading != 0 {
			ci.Heading = o.ci.Heading
		}
		if o.flags&OverrideBank != 0 {
			ci.Bank = o.ci.Bank
		}
	}
	if lat {
		if o.flags&OverrideForward != 0 {
			ci.ForwardThrust = o.ci.ForwardThrust
		}
		if o.flags&OverrideSide != 0 {
			ci.SideThrust = o.ci.SideThrust
		}
		if o.flags&OverrideVert != 0 {
			ci.VertThrust = o.ci.VertThrust
		}
	}
}

// SetOverride imposes control input on a ship. The rotational axes hold for rot and
// the lateral axes for lat, unless the matching never-expire flag is set.
func (m *Manager) SetOverride(h model.Handle, ci model.ControlInfo, flags OverrideFlags, lat, rot time.Duration) error {
	a, ok := m.State(h)
	if !ok {
		return fmt.Errorf("overriding controls of %s: %w", h, ErrNotRegistered)
	}
	a.override.flags = flags
	a.override.ci = ci
	a.override.latExpire = m.clock.In(lat.Milliseconds())
	a.override.rotExpire = m.clock.In(rot.Milliseconds())
	return nil
}

// ClearOverride removes any control override from a ship.
func (m *Manager) ClearOverride(h model.Handle) {
	if a, ok := m.State(h); ok {
		a.override.reset()
	}
}
