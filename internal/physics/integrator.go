// Package physics moves ships according to the control input produced by the AI.
package physics

import (
	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// DefaultRotAccelTime is the time a ship needs to spin up to its maximum turn rate.
const DefaultRotAccelTime = 0.5

// Integrator is a simple Newtonian flight model. Each axis approaches its commanded
// velocity under a per-class acceleration limit; there is no drag beyond that.
type Integrator struct {
	RotAccelTime float64
}

// NewIntegrator returns an integrator with the default spin-up time.
func NewIntegrator() *Integrator {
	return &Integrator{RotAccelTime: DefaultRotAccelTime}
}

// Apply advances obj by dt seconds under control input ci.
func (p *Integrator) Apply(obj *model.Object, ci model.ControlInfo, dt float64) {
	if dt <= 0 || obj.IsDead() || obj.Flags.Has(model.FlagDockedBay) {
		return
	}
	class := obj.Class
	if class == nil {
		obj.Pos = vecmath.ScaleAdd(obj.Pos, obj.Vel, dt)
		return
	}

	p.rotate(obj, class, ci, dt)
	burning := p.afterburner(obj, class, ci.Afterburner, dt)

	local := obj.Orient.Unrotate(obj.Vel)
	want := vecmath.Vec3{
		X: vecmath.Clamp(ci.SideThrust, -1, 1) * class.MaxVel.X,
		Y: vecmath.Clamp(ci.VertThrust, -1, 1) * class.MaxVel.Y,
	}
	switch thrust := vecmath.Clamp(ci.ForwardThrust, -1, 1); {
	case burning:
		want.Z = class.AfterburnerMaxVel
	case thrust >= 0:
		want.Z = thrust * class.MaxVel.Z
	default:
		want.Z = thrust * class.MaxRearVel
	}

	local.X = approach(local.X, want.X, rate(class.MaxVel.X, class.SlideAccelTime)*dt)
	local.Y = approach(local.Y, want.Y, rate(class.MaxVel.Y, class.SlideAccelTime)*dt)

	top := class.MaxVel.Z
	if burning {
		top = class.AfterburnerMaxVel
	}
	accel := rate(top, class.ForwardAccelTime)
	if abs(want.Z) < abs(local.Z) {
		accel = rate(top, class.ForwardDecelTime)
	}
	local.Z = approach(local.Z, want.Z, accel*dt)

	obj.Vel = obj.Orient.Rotate(local)
	obj.Pos = vecmath.ScaleAdd(obj.Pos, obj.Vel, dt)
}

func (p *Integrator) rotate(obj *model.Object, class *model.ShipClass, ci model.ControlInfo, dt float64) {
	maxRot := class.MaxRotVel()
	spin := p.RotAccelTime
	if spin <= 0 {
		spin = DefaultRotAccelTime
	}
	want := vecmath.Vec3{
		X: vecmath.Clamp(ci.Pitch, -1, 1) * maxRot.X,
		Y: vecmath.Clamp(ci.Heading, -1, 1) * maxRot.Y,
		Z: vecmath.Clamp(ci.Bank, -1, 1) * maxRot.Z,
	}
	obj.RotVel = vecmath.Vec3{
		X: approach(obj.RotVel.X, want.X, maxRot.X/spin*dt),
		Y: approach(obj.RotVel.Y, want.Y, maxRot.Y/spin*dt),
		Z: approach(obj.RotVel.Z, want.Z, maxRot.Z/spin*dt),
	}
	if vecmath.IsZero(obj.RotVel) {
		return
	}
	obj.Orient = obj.Orient.RotateLocal(obj.RotVel.X*dt, obj.RotVel.Y*dt, obj.RotVel.Z*dt)
}

// afterburner burns or recharges fuel and reports whether the burner is lit this frame.
func (p *Integrator) afterburner(obj *model.Object, class *model.ShipClass, want bool, dt float64) bool {
	if want && class.CanAfterburn() && obj.AfterburnerFuel > 0 {
		obj.AfterburnerFuel = max(0, obj.AfterburnerFuel-class.AfterburnerBurnRate*dt)
		obj.Afterburner = obj.AfterburnerFuel > 0
		return obj.Afterburner
	}
	obj.Afterburner = false
	obj.AfterburnerFuel = min(1, obj.AfterburnerFuel+class.AfterburnerRecharge*dt)
	return false
}

// rate returns the acceleration reaching top speed in t seconds; t <= 0 is instant.
func rate(top, t float64) float64 {
	if t <= 0 {
		return top * 1e6
	}
	return top / t
}

func approach(cur, want, step float64) float64 {
	switch {
	case cur < want:
		return min(cur+step, want)
	case cur > want:
		return max(cur-step, want)
	}
	return cur
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
