package ai

import (
	"github.com/jg18/fs2open.github.com/internal/timestamp"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

const (
	strafeAvoidDist     = 100.0 // distance above the hull that triggers a break-off
	strafeRetreatDist   = 1000.0
	strafeRetreatSecs   = 6.0
	strafeAvoidSecs     = 1.5
	strafeRealignDot    = 0.7
	strafeAttackDot     = 0.9
	bigAttackPointMilli = 5000
)

// strafeState is a small ship making attack runs on a big one.
type strafeState struct {
	sub   StrafeSubmode
	glide bool
	point vecmath.Vec3
}

func (*strafeState) Mode() Mode { return ModeStrafe }

func (s *strafeState) Submode() Submode {
	return Submode{Mode: ModeStrafe, Code: int(s.sub), Name: s.sub.String()}
}

func (s *strafeState) setSub(t *tick, sub StrafeSubmode) {
	if s.sub == sub {
		return
	}
	t.submodeChanged()
	s.sub = sub
}

// bigAttackPoint returns a point on the target hull to run at. It is re-picked every
// few seconds so consecutive runs come from different angles.
func (t *tick) bigAttackPoint(targetPos vecmath.Vec3, radius float64) vecmath.Vec3 {
	a := t.a
	if a.pickBigAttackPt == timestamp.Invalid || t.clock().Elapsed(a.pickBigAttackPt) {
		a.bigAttackPoint = vecmath.Scale(t.randomUnit(), radius*0.7)
		a.pickBigAttackPt = t.clock().In(bigAttackPointMilli)
	}
	return vecmath.Add(targetPos, a.bigAttackPoint)
}

func (s *strafeState) frame(t *tick) {
	target, ok := t.target()
	if !ok {
		targetLost(t)
		return
	}
	if target.Class == nil || !target.Class.IsBigOrHuge() {
		t.setMode(&chaseState{sub: ChaseAttack})
		return
	}
	self := t.self
	st := t.steer()

	aim := t.aimPoint(target)
	if t.a.targetSubsys.IsNone() {
		aim = t.bigAttackPoint(target.Pos, target.Radius)
	}
	dir, dist := vecmath.NormalizedDir(aim, self.Pos)
	hullDist := vecmath.Dist(self.Pos, target.Pos) - target.Radius
	dot := vecmath.Dot(self.Orient.F, dir)
	t.updateTargetTracking(target, dot, dist)

	switch s.sub {
	case StrafeAttack, StrafeGlideAttack:
		if hullDist < strafeAvoidDist+self.Radius {
			s.setSub(t, StrafeAvoid)
			return
		}
		dot = st.TurnTowardsPoint(aim, vecmath.Vec3{}, 0, 0)
		if s.sub == StrafeGlideAttack {
			st.Accelerate(0)
			if !vecmath.IsZero(self.Vel) {
				st.Slide(self.Vel)
			}
		} else {
			st.Accelerate(1)
		}
		t.maybeFirePrimary(target, dot, dist)
		t.maybeFireSecondary(target, dist)

	case StrafeAvoid:
		if t.inSubmode() > strafeAvoidSecs || hullDist > strafeAvoidDist*3+self.Radius {
			s.setSub(t, StrafeRetreat1)
			return
		}
		away := vecmath.Sub(self.Pos, target.Pos)
		st.TurnTowardsPoint(vecmath.ScaleAdd(self.Pos, vecmath.Normalize(away), 1000), vecmath.Vec3{}, 0, 0)
		st.Accelerate(1)

	case StrafeRetreat1:
		if hullDist > strafeRetreatDist || t.inSubmode() > strafeRetreatSecs {
			s.setSub(t, StrafeRetreat2)
			return
		}
		st.TurnAwayFromPoint(target.Pos, 0, 0)
		st.Accelerate(1)
		t.maybeFireAfterburner()

	case StrafeRetreat2:
		toward, _ := vecmath.NormalizedDir(target.Pos, self.Pos)
		if vecmath.Dot(self.Orient.F, toward) > strafeRealignDot {
			s.point = t.bigAttackPoint(target.Pos, target.Radius)
			s.setSub(t, StrafePosition)
			return
		}
		st.TurnTowardsPoint(target.Pos, vecmath.Vec3{}, 0, 0)
		st.Accelerate(0.5)

	case StrafePosition:
		d := st.TurnTowardsPoint(s.point, vecmath.Vec3{}, 0, 0)
		st.Accelerate(0.75)
		if d > strafeAttackDot {
			if t.percent(t.a.Tuning.GlideStrafePercent) {
				s.setSub(t, StrafeGlideAttack)
			} else {
				s.setSub(t, StrafeAttack)
			}
		}
	}
}

// onHit breaks off the run when the ship takes fire while attacking.
func (s *strafeState) onHit(t *tick) {
	if s.sub != StrafeAttack && s.sub != StrafeGlideAttack {
		return
	}
	if t.percent(t.a.Tuning.Evasion / 2) {
		s.setSub(t, StrafeRetreat1)
	}
}
