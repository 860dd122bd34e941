package ai

import (
	"math"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

const (
	guardStandoff     = 200.0
	guardThreatRange  = 1500.0
	guardLeashMult    = 1.5
	guardScanMillis   = 1000
	guardOrbitRate    = 0.3 // radians per second
	guardStaticSlack  = 1.2
	guardAttackPortal = 0.9
)

// guardState escorts a.guardObj and engages anything that threatens it.
type guardState struct {
	sub   GuardSubmode
	orbit float64
}

func (*guardState) Mode() Mode { return ModeGuard }

func (s *guardState) Submode() Submode {
	return Submode{Mode: ModeGuard, Code: int(s.sub), Name: s.sub.String()}
}

func (s *guardState) setSub(t *tick, sub GuardSubmode) {
	if s.sub == sub {
		return
	}
	t.submodeChanged()
	s.sub = sub
}

// guarded resolves the protected ship. Wing guards fall back to the current leader.
func (t *tick) guarded() (*model.Object, bool) {
	a := t.a
	if obj, ok := t.obj(a.guardObj); ok {
		return obj, true
	}
	if a.guardWing < 0 {
		return nil, false
	}
	leader, ok := t.world().WingLeader(a.guardWing)
	if !ok {
		return nil, false
	}
	a.guardObj = leader
	return t.obj(leader)
}

func (t *tick) guardDist(guarded *model.Object) float64 {
	return guarded.Radius + t.self.Radius + guardStandoff
}

// guardThreat returns the nearest enemy close to the guarded ship, preferring
// whoever last hit the guarded ship.
func (t *tick) guardThreat(guarded *model.Object) model.Handle {
	if ga, ok := t.m.State(guarded.Handle()); ok {
		if hitter, ok := t.obj(ga.hitter); ok && t.world().Hostile(t.self.Team, hitter.Team) &&
			vecmath.Dist(hitter.Pos, guarded.Pos) < guardThreatRange {
			return hitter.Handle()
		}
	}
	h := model.NoHandle
	bestDist := math.Inf(1)
	mask := t.world().EnemyMask(t.self.Team)
	t.world().ForEachInRange(guarded.Pos, guardThreatRange+guarded.Radius, func(obj *model.Object) bool {
		if !t.m.eligibleTarget(t.a, t.self, obj, mask) {
			return true
		}
		if d := vecmath.DistSq(obj.Pos, guarded.Pos); d < bestDist || (d == bestDist && obj.Handle().Index < h.Index) {
			h, bestDist = obj.Handle(), d
		}
		return true
	})
	return h
}

func (s *guardState) frame(t *tick) {
	guarded, ok := t.guarded()
	if !ok {
		if t.a.activeGoalType() == GoalGuard || t.a.activeGoalType() == GoalGuardWing {
			t.m.goalDone(t, false)
		}
		t.setMode(&noneState{})
		return
	}
	a := t.a
	self := t.self
	st := t.steer()
	gd := t.guardDist(guarded)
	distToGuarded := vecmath.Dist(self.Pos, guarded.Pos)

	if s.sub != GuardAttack && (a.scanForEnemy == timestamp.Invalid || t.clock().Elapsed(a.scanForEnemy)) {
		a.scanForEnemy = t.clock().In(guardScanMillis)
		if h := t.guardThreat(guarded); !h.IsNone() {
			t.m.SetTarget(a, h)
			s.setSub(t, GuardAttack)
		}
	}

	switch s.sub {
	case GuardPatrol:
		if isStationary(guarded) && distToGuarded < gd*guardStaticSlack {
			s.setSub(t, GuardStatic)
			return
		}
		s.orbit += guardOrbitRate * t.dt
		offset := vecmath.Vec3{X: math.Cos(s.orbit) * gd, Z: math.Sin(s.orbit) * gd}
		point := guarded.Orient.Transform(guarded.Pos, offset)
		st.TurnTowardsPoint(point, vecmath.Vec3{}, 0, 0)
		st.SetSpeed(guarded.Speed() + min(vecmath.Dist(self.Pos, point)*0.5, t.maxSpeed()))

	case GuardStatic:
		if !isStationary(guarded) {
			s.setSub(t, GuardPatrol)
			return
		}
		st.TurnTowardsPoint(vecmath.ScaleAdd(self.Pos, vecmath.Sub(self.Pos, guarded.Pos), 1), vecmath.Vec3{}, 0, TurnIgnoreBank)
		if distToGuarded > gd {
			st.Slide(vecmath.Sub(guarded.Pos, self.Pos))
		}
		st.Accelerate(0)

	case GuardAttack:
		target, ok := t.target()
		if !ok || vecmath.Dist(target.Pos, guarded.Pos) > guardThreatRange*guardLeashMult {
			s.setSub(t, Guard2)
			return
		}
		dir, dist := vecmath.NormalizedDir(target.Pos, self.Pos)
		t.updateTargetTracking(target, vecmath.Dot(self.Orient.F, dir), dist)
		speed := 0.0
		if self.Class != nil {
			speed = self.Class.PrimarySpeed
		}
		dot := st.TurnTowardsPoint(t.predictEnemyPos(target, speed), vecmath.Vec3{}, 0, 0)
		if dist > chaseCloseDist {
			st.Accelerate(1)
		} else {
			st.SetSpeed(target.Speed())
		}
		if dot > guardAttackPortal {
			t.maybeFirePrimary(target, dot, dist)
			t.maybeFireSecondary(target, dist)
		}

	case Guard2:
		if distToGuarded < gd*guardLeashMult {
			s.setSub(t, GuardPatrol)
			return
		}
		st.TurnTowardsPoint(guarded.Pos, vecmath.Vec3{}, 0, 0)
		st.Accelerate(1)
		if distToGuarded > gd*4 {
			t.maybeFireAfterburner()
		}
	}
}
