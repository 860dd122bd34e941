package ai

import (
	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
	"github.com/jg18/fs2open.github.com/internal/world"
)

// tick is the per-ship context of one frame. It lives on the stack of the driver loop
// and is handed to the mode variant.
type tick struct {
	m    *Manager
	a    *AIState
	self *model.Object
	now  timestamp.Stamp
	dt   float64
	ci   model.ControlInfo
}

func (m *Manager) newTick(a *AIState, self *model.Object) *tick {
	return &tick{
		m:    m,
		a:    a,
		self: self,
		now:  m.clock.Now(),
		dt:   m.clock.Frametime(),
	}
}

func (t *tick) clock() *timestamp.Clock { return t.m.clock }

func (t *tick) world() *world.World { return t.m.world }

// obj resolves a handle, treating dead objects as gone.
func (t *tick) obj(h model.Handle) (*model.Object, bool) {
	if h.IsNone() {
		return nil, false
	}
	obj, ok := t.m.world.Get(h)
	if !ok || obj.IsDead() {
		t.debug("stale reference", "handle", h)
		return nil, false
	}
	return obj, true
}

// target resolves the current target, clearing it when stale.
func (t *tick) target() (*model.Object, bool) {
	obj, ok := t.obj(t.a.target)
	if !ok && !t.a.target.IsNone() {
		t.a.target = model.NoHandle
		t.a.targetSubsys = model.NoSubsys
	}
	return obj, ok
}

// setMode replaces the mode variant at the current mission time.
func (t *tick) setMode(next modeState) {
	if t.a.mode != nil && t.tracing() {
		t.debug("mode change", "to", next.Submode().String())
	}
	t.a.setMode(t.now, next)
}

// submodeChanged must be called by a mode variant right before it changes its submode.
func (t *tick) submodeChanged() {
	t.a.recordSubmode(t.now)
}

// inSubmode returns seconds spent in the current submode.
func (t *tick) inSubmode() float64 {
	return t.clock().Since(t.a.submodeStart)
}

// inMode returns seconds spent in the current mode.
func (t *tick) inMode() float64 {
	return t.clock().Since(t.a.modeStart)
}

func (t *tick) steer() *Steerer {
	return NewSteerer(t.self, &t.ci, t.a.Tuning.TurnTimeScale, t.dt)
}

// chance rolls a probability in [0, 1].
func (t *tick) chance(p float64) bool {
	return t.m.rng.Float64() < p
}

// percent rolls a probability given in percent.
func (t *tick) percent(p float64) bool {
	return t.m.rng.Float64()*100 < p
}

func (t *tick) randRange(lo, hi float64) float64 {
	return lo + t.m.rng.Float64()*(hi-lo)
}

// randomUnit returns a random unit vector.
func (t *tick) randomUnit() vecmath.Vec3 {
	for range 8 {
		v := vecmath.Vec3{X: t.randRange(-1, 1), Y: t.randRange(-1, 1), Z: t.randRange(-1, 1)}
		if m := vecmath.MagSq(v); m > 1e-4 && m <= 1 {
			return vecmath.Normalize(v)
		}
	}
	return t.self.Orient.R
}

func (t *tick) maxSpeed() float64 {
	if t.self.Class == nil {
		return 0
	}
	return t.self.Class.MaxVel.Z
}
