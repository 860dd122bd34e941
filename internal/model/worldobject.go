package model

import (
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// ObjectType classifies world objects.
type ObjectType uint8

const (
	ObjectNone ObjectType = iota
	ObjectShip
	ObjectWeapon
	ObjectWaypoint
	ObjectDebris
	ObjectAsteroid
)

// String returns human-readable object type
func (t ObjectType) String() string {
	switch t {
	case ObjectShip:
		return "SHIP"
	case ObjectWeapon:
		return "WEAPON"
	case ObjectWaypoint:
		return "WAYPOINT"
	case ObjectDebris:
		return "DEBRIS"
	case ObjectAsteroid:
		return "ASTEROID"
	default:
		return "NONE"
	}
}

// ObjectFlags holds per-object state bits.
type ObjectFlags uint32

const (
	FlagDead ObjectFlags = 1 << iota
	FlagStealth
	FlagDisabled
	FlagDeparting
	FlagPlayer
	FlagProtected
	FlagInvulnerable
	FlagDisrupted
	FlagNoShields
	FlagArriving
	FlagDockedBay // sitting inside a fighter bay
)

// Has reports whether all bits in f are set.
func (o ObjectFlags) Has(f ObjectFlags) bool {
	return o&f == f
}

// Object is a simulated entity in the world.
// All fields are owned by the single tick goroutine.
type Object struct {
	handle Handle

	Type  ObjectType
	Name  string
	Team  Team
	Wing  int // -1 if not in a wing
	Class *ShipClass

	Pos    vecmath.Vec3
	Orient vecmath.Matrix
	Vel    vecmath.Vec3
	RotVel vecmath.Vec3 // local rad/s: X pitch, Y heading, Z bank

	Radius  float64
	Hull    float64
	MaxHull float64
	Shields float64

	// Weapon energy and afterburner fuel as fractions in [0, 1].
	Energy          float64
	AfterburnerFuel float64
	Afterburner     bool

	Subsystems []Subsystem
	Flags      ObjectFlags

	// Weapon objects only.
	Parent       Handle
	HomingTarget Handle
	Lifetime     float64
}

// NewObject creates an unplaced object. The world assigns its handle.
func NewObject(typ ObjectType, name string, team Team) *Object {
	return &Object{
		Type:            typ,
		Name:            name,
		Team:            team,
		Wing:            -1,
		Orient:          vecmath.Identity,
		Energy:          1,
		AfterburnerFuel: 1,
		Parent:          NoHandle,
		HomingTarget:    NoHandle,
	}
}

// NewShip creates a ship object from its class with full hull and subsystems.
func NewShip(name string, team Team, class *ShipClass) *Object {
	o := NewObject(ObjectShip, name, team)
	o.Class = class
	if class != nil {
		o.Radius = class.Radius
		o.MaxHull = class.MaxHull
		o.Hull = class.MaxHull
		o.Subsystems = make([]Subsystem, len(class.Subsystems))
		for i, st := range class.Subsystems {
			o.Subsystems[i] = Subsystem{
				Template: st,
				Hits:     st.MaxHits,
			}
		}
	}
	return o
}

// Handle returns the object's current handle (NoHandle until placed in a world).
func (o *Object) Handle() Handle {
	return o.handle
}

// SetHandle is called by the world on placement.
func (o *Object) SetHandle(h Handle) {
	o.handle = h
}

// IsDead reports whether the object has been destroyed.
func (o *Object) IsDead() bool {
	return o.Flags.Has(FlagDead)
}

// IsShip reports whether the object is a ship.
func (o *Object) IsShip() bool {
	return o.Type == ObjectShip && o.Class != nil
}

// HullFraction returns hull integrity in [0, 1].
func (o *Object) HullFraction() float64 {
	if o.MaxHull <= 0 {
		return 1
	}
	return o.Hull / o.MaxHull
}

// Speed returns the magnitude of velocity.
func (o *Object) Speed() float64 {
	return vecmath.Mag(o.Vel)
}

// EnginesDestroyed reports whether every engine subsystem is gone.
// Ships without engine subsystems are never considered crippled.
func (o *Object) EnginesDestroyed() bool {
	engines := 0
	for i := range o.Subsystems {
		if o.Subsystems[i].Template.Type != SubsysEngine {
			continue
		}
		engines++
		if o.Subsystems[i].Hits > 0 {
			return false
		}
	}
	return engines > 0
}

// Subsystem returns the subsystem at idx, or nil.
func (o *Object) Subsystem(idx int) *Subsystem {
	if idx < 0 || idx >= len(o.Subsystems) {
		return nil
	}
	return &o.Subsystems[idx]
}

// SubsystemWorldPos returns the world position of a subsystem.
func (o *Object) SubsystemWorldPos(idx int) (vecmath.Vec3, bool) {
	ss := o.Subsystem(idx)
	if ss == nil {
		return vecmath.Vec3{}, false
	}
	return o.Orient.Transform(o.Pos, ss.Template.Pos), true
}

// Subsystem is a damageable part of a ship.
type Subsystem struct {
	Template SubsystemTemplate
	Hits     float64
}

// Destroyed reports whether the subsystem has no hits left.
func (s *Subsystem) Destroyed() bool {
	return s.Hits <= 0
}
