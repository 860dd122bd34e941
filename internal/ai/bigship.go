package ai

import (
	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

const (
	bigEngageDist   = 800.0
	bigParallelDist = 400.0
)

// bigShipState is a big ship closing on and engaging its target with broadsides.
type bigShipState struct {
	sub      BigSubmode
	orbitDir float64
}

func (*bigShipState) Mode() Mode { return ModeBigShip }

func (s *bigShipState) Submode() Submode {
	return Submode{Mode: ModeBigShip, Code: int(s.sub), Name: s.sub.String()}
}

func (s *bigShipState) setSub(t *tick, sub BigSubmode) {
	if s.sub == sub {
		return
	}
	t.submodeChanged()
	s.sub = sub
	if sub == BigCircle && s.orbitDir == 0 {
		s.orbitDir = 1
		if t.chance(0.5) {
			s.orbitDir = -1
		}
	}
}

func (t *tick) bigEngageRange(target *model.Object) float64 {
	return t.self.Radius + target.Radius + bigEngageDist
}

func (s *bigShipState) frame(t *tick) {
	target, ok := t.target()
	if !ok {
		targetLost(t)
		return
	}
	self := t.self
	st := t.steer()
	dir, dist := vecmath.NormalizedDir(target.Pos, self.Pos)
	dot := vecmath.Dot(self.Orient.F, dir)
	t.updateTargetTracking(target, dot, dist)
	engage := t.bigEngageRange(target)

	switch s.sub {
	case BigApproach:
		if dist < engage {
			if target.Speed() > t.maxSpeed()*0.5 {
				s.setSub(t, BigParallel)
			} else {
				s.setSub(t, BigCircle)
			}
			return
		}
		dot = st.TurnTowardsPoint(target.Pos, vecmath.Vec3{}, 0, TurnSlowBankAccel)
		st.Accelerate(1)

	case BigCircle:
		if dist > engage*1.5 {
			s.setSub(t, BigApproach)
			return
		}
		// Hold the orbit radius by blending the tangent with a radial correction.
		tangent := vecmath.Scale(vecmath.Cross(self.Orient.U, dir), s.orbitDir)
		radial := vecmath.Scale(dir, (dist-engage*0.75)/engage)
		point := vecmath.ScaleAdd(self.Pos, vecmath.Add(tangent, radial), 1000)
		st.TurnTowardsPoint(point, vecmath.Vec3{}, 0, TurnSlowBankAccel)
		st.Accelerate(0.6)

	case BigParallel:
		if dist > engage*1.5 {
			s.setSub(t, BigApproach)
			return
		}
		side := vecmath.Perpendicular(target.Orient.F)
		if vecmath.Dot(side, vecmath.Sub(self.Pos, target.Pos)) < 0 {
			side = vecmath.Scale(side, -1)
		}
		station := vecmath.ScaleAdd(target.Pos, side, target.Radius+self.Radius+bigParallelDist)
		ahead := vecmath.ScaleAdd(station, target.Orient.F, 1000)
		st.TurnTowardsPoint(ahead, vecmath.Vec3{}, 0, TurnSlowBankAccel)
		st.SetSpeed(target.Speed() + vecmath.Dot(vecmath.Sub(station, self.Pos), target.Orient.F)*0.1)
		st.Slide(vecmath.Sub(station, self.Pos))
	}
	t.maybeFirePrimary(target, dot, dist)
	t.maybeFireSecondary(target, dist)
}
