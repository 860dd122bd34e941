package model

import (
	"strings"

	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// ClassFlags describe what a ship class is.
type ClassFlags uint32

const (
	ClassFighter ClassFlags = 1 << iota
	ClassBomber
	ClassSupport
	ClassCruiser
	ClassFreighter
	ClassCapital
	ClassSentryGun
	ClassStealth
	ClassNoAfterburner
)

// ClassFlagNames maps table names to flags.
var ClassFlagNames = map[string]ClassFlags{
	"fighter":        ClassFighter,
	"bomber":         ClassBomber,
	"support":        ClassSupport,
	"cruiser":        ClassCruiser,
	"freighter":      ClassFreighter,
	"capital":        ClassCapital,
	"sentrygun":      ClassSentryGun,
	"stealth":        ClassStealth,
	"no_afterburner": ClassNoAfterburner,
}

// ParseClassFlags converts table flag names; unknown names are returned separately.
func ParseClassFlags(names []string) (ClassFlags, []string) {
	var flags ClassFlags
	var unknown []string
	for _, n := range names {
		f, ok := ClassFlagNames[strings.ToLower(n)]
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		flags |= f
	}
	return flags, unknown
}

// SubsystemType classifies subsystems.
type SubsystemType uint8

const (
	SubsysUnknown SubsystemType = iota
	SubsysEngine
	SubsysTurret
	SubsysWeapons
	SubsysSensors
	SubsysNavigation
	SubsysCommunication
	SubsysFighterBay
)

// SubsystemTypeNames maps table names to types.
var SubsystemTypeNames = map[string]SubsystemType{
	"engine":        SubsysEngine,
	"turret":        SubsysTurret,
	"weapons":       SubsysWeapons,
	"sensors":       SubsysSensors,
	"navigation":    SubsysNavigation,
	"communication": SubsysCommunication,
	"fighterbay":    SubsysFighterBay,
}

// SubsystemTemplate is the class-level description of a subsystem.
type SubsystemTemplate struct {
	Name    string
	Type    SubsystemType
	Pos     vecmath.Vec3 // model space
	Radius  float64
	MaxHits float64
	Path    int // index into ShipClass.Paths leading to this subsystem, -1 if none
}

// PathVert is one point of a model path.
type PathVert struct {
	Pos     vecmath.Vec3 // model space
	Radius  float64
	Turrets []int // subsystem indices that can see this point
}

// ModelPath is a precomputed path stored with a ship model.
type ModelPath struct {
	Name         string
	ParentSubsys int // -1 if the path is not tied to a subsystem
	Verts        []PathVert
}

// DockType is what a dock point may be used for.
type DockType uint8

const (
	DockGeneric DockType = iota
	DockRearm
	DockCargo
)

// DockPoint describes a docking port on a model.
type DockPoint struct {
	Name string
	Type DockType
	Pos  vecmath.Vec3 // model space
	Norm vecmath.Vec3 // outward normal, model space
	Path int          // approach path index, -1 if none
}

// ShipClass is the static description of a ship type.
type ShipClass struct {
	Name  string
	Flags ClassFlags

	// MaxVel components: X lateral, Y vertical, Z forward (m/s).
	MaxVel            vecmath.Vec3
	MaxRearVel        float64
	AfterburnerMaxVel float64

	// RotTime is seconds for a full rotation about each local axis.
	RotTime vecmath.Vec3

	ForwardAccelTime float64 // seconds to reach max forward speed
	ForwardDecelTime float64
	SlideAccelTime   float64

	Radius  float64
	MaxHull float64

	AfterburnerBurnRate float64 // fuel fraction per second
	AfterburnerRecharge float64

	PrimarySpeed   float64
	PrimaryRange   float64
	SecondarySpeed float64
	SecondaryRange float64

	Subsystems []SubsystemTemplate
	Paths      []ModelPath
	DockPoints []DockPoint
	BayPaths   []int // emerge/depart paths inside a fighter bay
}

// IsSmall reports fighter-sized classes.
func (c *ShipClass) IsSmall() bool {
	return c.Flags&(ClassFighter|ClassBomber|ClassSupport|ClassSentryGun) != 0
}

// IsBig reports cruiser/freighter sized classes.
func (c *ShipClass) IsBig() bool {
	return c.Flags&(ClassCruiser|ClassFreighter) != 0
}

// IsHuge reports capital ships.
func (c *ShipClass) IsHuge() bool {
	return c.Flags&ClassCapital != 0
}

// IsBigOrHuge reports anything larger than a fighter.
func (c *ShipClass) IsBigOrHuge() bool {
	return c.IsBig() || c.IsHuge()
}

// IsSupport reports rearm/repair ships.
func (c *ShipClass) IsSupport() bool {
	return c.Flags&ClassSupport != 0
}

// CanAfterburn reports whether the class has an afterburner.
func (c *ShipClass) CanAfterburn() bool {
	return c.Flags&ClassNoAfterburner == 0 && c.AfterburnerMaxVel > c.MaxVel.Z
}

// MaxRotVel returns maximum angular velocities (rad/s) per local axis.
func (c *ShipClass) MaxRotVel() vecmath.Vec3 {
	const twoPi = 6.283185307179586
	rv := func(t float64) float64 {
		if t <= 0 {
			return twoPi
		}
		return twoPi / t
	}
	return vecmath.Vec3{X: rv(c.RotTime.X), Y: rv(c.RotTime.Y), Z: rv(c.RotTime.Z)}
}

// FindSubsystem returns the index of a subsystem by name (case-insensitive) or -1.
func (c *ShipClass) FindSubsystem(name string) int {
	for i, s := range c.Subsystems {
		if strings.EqualFold(s.Name, name) {
			return i
		}
	}
	return -1
}

// FindPath returns the index of a model path by name or -1.
func (c *ShipClass) FindPath(name string) int {
	for i, p := range c.Paths {
		if strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}
