package ai

import (
	"errors"
	"math"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// ErrModeNotConstructible is returned when a mode cannot be entered without parameters.
var ErrModeNotConstructible = errors.New("ai: mode needs parameters")

const (
	evadeSafeDist      = 3000.0
	evadeWeaponSecs    = 3.0
	avoidMillis        = 2000
	avoidCheckMillis   = 500
	avoidLookAheadSecs = 2.0
)

// evadeState runs from a.target, weaving, until it is far enough away.
type evadeState struct{}

func (*evadeState) Mode() Mode       { return ModeEvade }
func (*evadeState) Submode() Submode { return Submode{Mode: ModeEvade} }

func (*evadeState) frame(t *tick) {
	target, ok := t.target()
	if !ok || vecmath.Dist(t.self.Pos, target.Pos) > evadeSafeDist {
		if t.a.activeGoalType() == GoalEvadeShip {
			t.m.goalDone(t, true)
		}
		t.setMode(&noneState{})
		return
	}
	self := t.self
	st := t.steer()
	away := vecmath.Normalize(vecmath.Sub(self.Pos, target.Pos))
	phase := t.now.Seconds()
	weave := vecmath.Scale(vecmath.Perpendicular(away), math.Sin(phase*1.5)*0.4)
	st.TurnTowardsPoint(vecmath.ScaleAdd(self.Pos, vecmath.Add(away, weave), 1000), vecmath.Vec3{}, 0, 0)
	st.Accelerate(1)
	t.maybeFireAfterburner()
}

// avoidState steers clear of an object on a collision course and then resumes the
// interrupted mode.
type avoidState struct {
	obj   model.Handle
	prev  modeState
	until timestamp.Stamp
}

func (*avoidState) Mode() Mode       { return ModeAvoid }
func (*avoidState) Submode() Submode { return Submode{Mode: ModeAvoid} }

func (s *avoidState) frame(t *tick) {
	obj, ok := t.obj(s.obj)
	if !ok || t.clock().Elapsed(s.until) {
		s.resume(t)
		return
	}
	self := t.self
	st := t.steer()
	rel := vecmath.Sub(self.Pos, obj.Pos)
	clearDist := self.Radius + obj.Radius*1.5
	if vecmath.Mag(rel) > clearDist && vecmath.Dot(self.Vel, rel) > 0 {
		s.resume(t)
		return
	}
	// Break along the velocity component that is not heading into the obstacle.
	escape := vecmath.Reject(self.Orient.F, vecmath.Normalize(rel))
	if vecmath.IsZero(escape) {
		escape = vecmath.Perpendicular(rel)
	}
	escape = vecmath.Add(vecmath.Normalize(escape), vecmath.Normalize(rel))
	st.TurnTowardsPoint(vecmath.ScaleAdd(self.Pos, escape, 1000), vecmath.Vec3{}, 0, 0)
	st.Accelerate(1)
}

func (s *avoidState) resume(t *tick) {
	t.a.Flags &^= AIFAvoidingBigShip | AIFAvoidingSmallShip
	prev := s.prev
	if prev == nil {
		prev = &noneState{}
	}
	t.setMode(prev)
}

// evadeWeaponState dodges an incoming weapon and then resumes the interrupted mode.
type evadeWeaponState struct {
	prev modeState
}

func (*evadeWeaponState) Mode() Mode       { return ModeEvadeWeapon }
func (*evadeWeaponState) Submode() Submode { return Submode{Mode: ModeEvadeWeapon} }

func (s *evadeWeaponState) frame(t *tick) {
	if _, ok := t.obj(t.a.dangerWeapon); !ok || t.inMode() > evadeWeaponSecs {
		t.a.dangerWeapon = model.NoHandle
		prev := s.prev
		if prev == nil {
			prev = &noneState{}
		}
		t.setMode(prev)
		return
	}
	evadeWeaponManoeuvre(t, t.steer())
}

// interruptible reports whether a mode may be suspended for avoidance or weapon
// evasion.
func interruptible(m modeState) bool {
	switch m.(type) {
	case *dockState, *bayEmergeState, *bayDepartState, *warpState, *avoidState,
		*evadeWeaponState, *playDeadState, *beRearmedState, *scriptedState, *sentryState:
		return false
	}
	return true
}

// checkAvoid looks ahead along the velocity for a big ship in the way.
func (t *tick) checkAvoid() {
	a := t.a
	if !interruptible(a.mode) || t.self.Speed() < 1 {
		return
	}
	if a.avoidCheck != timestamp.Invalid && !t.clock().Elapsed(a.avoidCheck) {
		return
	}
	a.avoidCheck = t.clock().In(avoidCheckMillis)

	ahead := vecmath.ScaleAdd(t.self.Pos, t.self.Vel, avoidLookAheadSecs)
	h, blocked := t.world().Obstructed(t.self.Pos, ahead, t.self.Handle(), a.target, a.guardObj)
	if !blocked {
		return
	}
	obj, ok := t.obj(h)
	if !ok || obj.Class == nil || !obj.Class.IsBigOrHuge() {
		return
	}
	a.Flags |= AIFAvoidingBigShip
	t.setMode(&avoidState{obj: h, prev: a.mode, until: t.clock().In(avoidMillis)})
}
