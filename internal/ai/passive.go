package ai

import (
	"math"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

const (
	formationSpacing = 60.0
	flyToArriveDist  = 100.0
	stayNearDefault  = 300.0
	sentryRange      = 1500.0
)

// noneState idles, or flies formation on the wing leader.
type noneState struct{}

func (*noneState) Mode() Mode       { return ModeNone }
func (*noneState) Submode() Submode { return Submode{Mode: ModeNone} }

func (s *noneState) frame(t *tick) {
	if t.a.Flags.Has(AIFFormation) {
		flyFormation(t)
		return
	}
	t.steer().Accelerate(0)
}

// flyFormation holds a slot behind and beside the wing leader. Slot offsets alternate
// left and right by position in the wing.
func flyFormation(t *tick) {
	wing := t.self.Wing
	if t.a.guardWing >= 0 {
		wing = t.a.guardWing
	}
	members := t.world().WingMembers(wing)
	if len(members) == 0 || members[0] == t.self.Handle() {
		t.a.Flags &^= AIFFormation
		t.steer().Accelerate(0)
		return
	}
	leader, ok := t.obj(members[0])
	if !ok {
		return
	}
	pos := 0
	for i, h := range members {
		if h == t.self.Handle() {
			pos = i
			break
		}
	}
	side := 1.0
	if pos%2 == 0 {
		side = -1
	}
	rank := float64((pos + 1) / 2)
	offset := vecmath.Vec3{X: side * rank * formationSpacing, Z: -rank * formationSpacing}
	slot := leader.Orient.Transform(leader.Pos, offset)

	s := t.steer()
	dist := vecmath.Dist(t.self.Pos, slot)
	if dist < formationSpacing/2 {
		s.TurnTowardsPoint(vecmath.ScaleAdd(t.self.Pos, leader.Orient.F, 1000), vecmath.Vec3{}, 0, 0)
		s.SetSpeed(leader.Speed())
		return
	}
	s.TurnTowardsPoint(slot, vecmath.Vec3{}, 0, 0)
	s.SetSpeed(leader.Speed() + min(dist, t.maxSpeed()))
}

// stillState stops and holds position.
type stillState struct {
	pos  vecmath.Vec3
	hold bool
}

func (*stillState) Mode() Mode       { return ModeStill }
func (*stillState) Submode() Submode { return Submode{Mode: ModeStill} }

func (s *stillState) frame(t *tick) {
	st := t.steer()
	if !s.hold {
		s.pos, s.hold = t.self.Pos, true
	}
	st.Accelerate(0)
	if t.self.Speed() > 1 {
		st.Slide(vecmath.Scale(t.self.Vel, -1))
	}
}

// playDeadState cuts every input.
type playDeadState struct{}

func (*playDeadState) Mode() Mode       { return ModePlayDead }
func (*playDeadState) Submode() Submode { return Submode{Mode: ModePlayDead} }

func (*playDeadState) frame(t *tick) {
	t.stopAfterburner()
	t.steer().Stop()
}

// stayNearState keeps within dist of the goal object.
type stayNearState struct {
	dist float64
}

func (*stayNearState) Mode() Mode       { return ModeStayNear }
func (*stayNearState) Submode() Submode { return Submode{Mode: ModeStayNear} }

func (s *stayNearState) frame(t *tick) {
	other, ok := t.obj(t.a.goalObj)
	if !ok {
		t.m.goalDone(t, false)
		t.setMode(&noneState{})
		return
	}
	dist := s.dist
	if dist <= 0 {
		dist = stayNearDefault
	}
	st := t.steer()
	d := vecmath.Dist(t.self.Pos, other.Pos)
	if d > dist {
		st.TurnTowardsPoint(other.Pos, vecmath.Vec3{}, 0, 0)
		st.Accelerate(1)
		if d > dist*3 {
			t.maybeFireAfterburner()
		}
		return
	}
	st.TurnTowardsPoint(vecmath.ScaleAdd(t.self.Pos, other.Orient.F, 1000), vecmath.Vec3{}, 0, 0)
	st.SetSpeed(other.Speed())
}

// flyToShipState flies to the goal object and completes on arrival.
type flyToShipState struct{}

func (*flyToShipState) Mode() Mode       { return ModeFlyToShip }
func (*flyToShipState) Submode() Submode { return Submode{Mode: ModeFlyToShip} }

func (*flyToShipState) frame(t *tick) {
	other, ok := t.obj(t.a.goalObj)
	if !ok {
		t.m.goalDone(t, false)
		t.setMode(&noneState{})
		return
	}
	arrive := flyToArriveDist + other.Radius + t.self.Radius
	if vecmath.Dist(t.self.Pos, other.Pos) <= arrive {
		t.m.goalDone(t, true)
		t.setMode(&noneState{})
		return
	}
	st := t.steer()
	st.TurnTowardsPoint(other.Pos, vecmath.Vec3{}, 0, 0)
	st.Accelerate(1)
}

// sentryState is a fixed gun: it tracks the nearest enemy in range and fires.
type sentryState struct{}

func (*sentryState) Mode() Mode       { return ModeSentryGun }
func (*sentryState) Submode() Submode { return Submode{Mode: ModeSentryGun} }

func (*sentryState) frame(t *tick) {
	st := t.steer()
	st.Accelerate(0)

	target, ok := t.target()
	if !ok || vecmath.Dist(t.self.Pos, target.Pos) > sentryRange {
		h := t.m.FindEnemy(t.a, TargetQuery{Range: sentryRange})
		t.m.SetTarget(t.a, h)
		if target, ok = t.obj(h); !ok {
			return
		}
	}
	speed := 0.0
	if t.self.Class != nil {
		speed = t.self.Class.PrimarySpeed
	}
	aim := t.predictEnemyPos(target, speed)
	dot := st.TurnTowardsPoint(aim, vecmath.Vec3{}, 0, TurnIgnoreBank)
	dist := vecmath.Dist(t.self.Pos, target.Pos)
	t.updateTargetTracking(target, dot, dist)
	t.maybeFirePrimary(target, dot, dist)
}

// isStationary reports objects that are effectively not moving.
func isStationary(obj *model.Object) bool {
	return obj.Speed() < 1 && math.Abs(vecmath.Mag(obj.RotVel)) < 0.01
}
