package ai

import (
	"math"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// TurnFlags modify how a turn is computed.
type TurnFlags uint8

const (
	TurnFast           TurnFlags = 1 << iota // ignore the skill turn-time scale
	TurnViaScript                            // scripted turn: full class rate, no spin-up limit
	TurnIgnoreBank                           // no coordinated bank
	TurnSlowBankAccel                        // halve the bank response
	TurnForceDeltaBank                       // bank at the given override rate
)

const (
	turnHorizon     = 0.25 // seconds to close the heading error at full rate
	rotAccelTime    = 0.5  // seconds to reach max angular velocity from rest
	bankPerHeading  = 0.6
	slideDeadband   = 1e-3
	reverseSpeedCut = 0.25
)

// Steerer turns desired directions and speeds into one ship's control input.
// Output rates are fractions of the class maximum rotation velocity.
type Steerer struct {
	Obj       *model.Object
	CI        *model.ControlInfo
	TurnScale float64 // multiplier on rotation time, 1 = class default
	Frametime float64
}

// NewSteerer creates a steerer writing into ci.
func NewSteerer(obj *model.Object, ci *model.ControlInfo, turnScale, frametime float64) *Steerer {
	if turnScale <= 0 {
		turnScale = 1
	}
	return &Steerer{Obj: obj, CI: ci, TurnScale: turnScale, Frametime: frametime}
}

// TurnTowardsVector turns so that the ship point relPos (local offset, zero for the
// center) faces world point dest. A non-zero slide vector is flown with lateral
// thrusters. It returns the dot product between the forward vector and the direction
// to dest.
func (s *Steerer) TurnTowardsVector(dest, slide, relPos vecmath.Vec3, bankOverride float64, flags TurnFlags) float64 {
	obj := s.Obj
	if obj.Class == nil {
		return 0
	}
	origin := obj.Pos
	if !vecmath.IsZero(relPos) {
		origin = obj.Orient.Transform(obj.Pos, relPos)
	}
	dir, dist := vecmath.NormalizedDir(dest, origin)
	if dist == 0 {
		s.CI.Pitch, s.CI.Heading = 0, 0
		s.applyBank(flags, bankOverride)
		return 1
	}

	d := obj.Orient.Unrotate(dir)
	heading := math.Atan2(d.X, d.Z)
	pitch := -math.Atan2(d.Y, math.Hypot(d.X, d.Z))

	scale := s.TurnScale
	if flags&(TurnFast|TurnViaScript) != 0 || scale <= 0 {
		scale = 1
	}
	ramp := flags&TurnViaScript == 0
	classMax := obj.Class.MaxRotVel()
	s.CI.Pitch = s.rate(pitch, obj.RotVel.X, classMax.X, scale, ramp)
	s.CI.Heading = s.rate(heading, obj.RotVel.Y, classMax.Y, scale, ramp)
	s.applyBank(flags, bankOverride)

	if !vecmath.IsZero(slide) {
		s.Slide(slide)
	}
	return vecmath.Dot(obj.Orient.F, dir)
}

// TurnTowardsPoint turns the ship center toward point.
func (s *Steerer) TurnTowardsPoint(point, slide vecmath.Vec3, bankOverride float64, flags TurnFlags) float64 {
	return s.TurnTowardsVector(point, slide, vecmath.Vec3{}, bankOverride, flags)
}

// TurnAwayFromPoint turns the nose directly away from point.
func (s *Steerer) TurnAwayFromPoint(point vecmath.Vec3, bankOverride float64, flags TurnFlags) float64 {
	away := vecmath.Sub(s.Obj.Pos, point)
	if vecmath.IsZero(away) {
		away = s.Obj.Orient.F
	}
	return s.TurnTowardsPoint(vecmath.Add(s.Obj.Pos, away), vecmath.Vec3{}, bankOverride, flags)
}

// rate converts an angle error into a commanded rotation fraction. The rate closes the
// error over turnHorizon and is capped at the scaled maximum. With ramp set it may change
// from the current rate by no more than the angular acceleration allows this frame.
func (s *Steerer) rate(angle, current, classMax, scale float64, ramp bool) float64 {
	if classMax <= 0 {
		return 0
	}
	effMax := classMax / scale
	want := vecmath.Clamp(angle/turnHorizon, -effMax, effMax)

	if ramp && s.Frametime > 0 {
		maxDelta := effMax / rotAccelTime * s.Frametime
		want = vecmath.Clamp(want, current-maxDelta, current+maxDelta)
	}
	return vecmath.Clamp(want/classMax, -1, 1)
}

func (s *Steerer) applyBank(flags TurnFlags, bankOverride float64) {
	switch {
	case flags&TurnForceDeltaBank != 0:
		s.CI.Bank = vecmath.Clamp(bankOverride, -1, 1)
	case flags&TurnIgnoreBank != 0:
		s.CI.Bank = 0
	default:
		bank := -s.CI.Heading * bankPerHeading
		if flags&TurnSlowBankAccel != 0 {
			bank /= 2
		}
		s.CI.Bank = vecmath.Clamp(bank, -1, 1)
	}
}

// Accelerate sets forward throttle in [-1, 1]. Reverse thrust is limited.
func (s *Steerer) Accelerate(accel float64) {
	if accel < 0 {
		accel = max(accel, -reverseSpeedCut)
	}
	s.CI.ForwardThrust = vecmath.Clamp(accel, -1, 1)
}

// SetSpeed sets the throttle that holds the given forward speed in m/s.
func (s *Steerer) SetSpeed(speed float64) {
	if s.Obj.Class == nil || s.Obj.Class.MaxVel.Z <= 0 {
		s.CI.ForwardThrust = 0
		return
	}
	if speed < 0 {
		rear := s.Obj.Class.MaxRearVel
		if rear <= 0 {
			s.CI.ForwardThrust = 0
			return
		}
		s.CI.ForwardThrust = vecmath.Clamp(speed/rear, -1, 0)
		return
	}
	s.CI.ForwardThrust = vecmath.Clamp(speed/s.Obj.Class.MaxVel.Z, 0, 1)
}

// Slide converts a world-space slide vector into lateral and vertical thrust.
func (s *Steerer) Slide(v vecmath.Vec3) {
	local := s.Obj.Orient.Unrotate(vecmath.Normalize(v))
	side, vert := local.X, local.Y
	if math.Abs(side) < slideDeadband {
		side = 0
	}
	if math.Abs(vert) < slideDeadband {
		vert = 0
	}
	s.CI.SideThrust = vecmath.Clamp(side, -1, 1)
	s.CI.VertThrust = vecmath.Clamp(vert, -1, 1)
}

// Stop zeroes every rotation and thrust input.
func (s *Steerer) Stop() {
	s.CI.Reset()
}
