package ai

import (
	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

const (
	safetyDefaultDist = 2000.0
	safetyScanRange   = 3000.0
	safetyArriveDist  = 100.0
)

// safetyState retreats to a spot away from the fighting and waits there.
type safetyState struct {
	sub  SafetySubmode
	dist float64
	spot vecmath.Vec3
}

func (*safetyState) Mode() Mode { return ModeSafety }

func (s *safetyState) Submode() Submode {
	return Submode{Mode: ModeSafety, Code: int(s.sub), Name: s.sub.String()}
}

func (s *safetyState) setSub(t *tick, sub SafetySubmode) {
	if s.sub == sub {
		return
	}
	t.submodeChanged()
	s.sub = sub
}

func (s *safetyState) safeDist() float64 {
	if s.dist > 0 {
		return s.dist
	}
	return safetyDefaultDist
}

// battleCenter returns the centroid of hostile ships around pos.
func (t *tick) battleCenter(pos vecmath.Vec3) (vecmath.Vec3, bool) {
	var sum vecmath.Vec3
	n := 0
	mask := t.world().EnemyMask(t.self.Team)
	t.world().ForEachInRange(pos, safetyScanRange, func(obj *model.Object) bool {
		if obj.IsShip() && !obj.IsDead() && mask.Has(obj.Team) {
			sum = vecmath.Add(sum, obj.Pos)
			n++
		}
		return true
	})
	if n == 0 {
		return pos, false
	}
	return vecmath.Scale(sum, 1/float64(n)), true
}

func (s *safetyState) frame(t *tick) {
	self := t.self
	st := t.steer()
	dist := s.safeDist()

	switch s.sub {
	case SafetyPickSpot:
		center, found := t.battleCenter(self.Pos)
		dir := t.randomUnit()
		if found {
			if away, d := vecmath.NormalizedDir(self.Pos, center); d > 1 {
				dir = away
			}
		}
		s.spot = vecmath.ScaleAdd(center, dir, dist)
		s.setSub(t, SafetyFlyToSpot)

	case SafetyFlyToSpot:
		d := vecmath.Dist(self.Pos, s.spot)
		if d < safetyArriveDist {
			s.setSub(t, SafetyNearSpot)
			return
		}
		st.TurnTowardsPoint(s.spot, vecmath.Vec3{}, 0, 0)
		st.Accelerate(1)
		if d > dist/2 {
			t.maybeFireAfterburner()
		}

	case SafetyNearSpot:
		if center, found := t.battleCenter(self.Pos); found && vecmath.Dist(self.Pos, center) < dist/2 {
			s.setSub(t, SafetyPickSpot)
			return
		}
		st.Accelerate(0)
		if self.Speed() > 1 {
			st.Slide(vecmath.Scale(self.Vel, -1))
		}
	}
}
