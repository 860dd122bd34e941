package ai

import (
	"math"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// maxPredictTime caps how far ahead a target position is extrapolated.
const maxPredictTime = 3.0

// Intercept solves for the time a projectile fired at speed from the origin meets a
// target at relPos moving with relVel. It returns false when the projectile can never
// catch up.
//
//	|relPos + relVel*t| = speed*t
//	(v·v - s²)t² + 2(p·v)t + p·p = 0
func Intercept(relPos, relVel vecmath.Vec3, speed float64) (float64, bool) {
	if speed <= 0 {
		return 0, false
	}
	a := vecmath.MagSq(relVel) - speed*speed
	b := 2 * vecmath.Dot(relPos, relVel)
	c := vecmath.MagSq(relPos)

	if math.Abs(a) < 1e-9 {
		if b >= 0 {
			return 0, false
		}
		return -c / b, true
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	switch {
	case t1 > 0:
		return t1, true
	case t2 > 0:
		return t2, true
	}
	return 0, false
}

// predictEnemyPos returns where to aim at enemy with weapons of the given speed. The
// lead is recomputed only every PredictPositionDelay seconds and reused in between.
// Accuracy scales how much of the lead is applied.
func (t *tick) predictEnemyPos(enemy *model.Object, weaponSpeed float64) vecmath.Vec3 {
	a := t.a
	if a.nextPredict != timestamp.Invalid && !t.clock().Elapsed(a.nextPredict) {
		return a.lastPredicted
	}
	a.nextPredict = t.clock().InSeconds(a.Tuning.PredictPositionDelay)

	aim := enemy.Pos
	if weaponSpeed > 0 {
		relPos := vecmath.Sub(enemy.Pos, t.self.Pos)
		relVel := vecmath.Sub(enemy.Vel, t.self.Vel)
		if tt, ok := Intercept(relPos, relVel, weaponSpeed); ok {
			tt = min(tt, maxPredictTime)
			lead := vecmath.Scale(enemy.Vel, tt*vecmath.Clamp(a.Tuning.Accuracy, 0, 1))
			aim = vecmath.Add(enemy.Pos, lead)
		}
	}
	a.lastPredicted = aim
	return aim
}
