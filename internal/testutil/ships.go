package testutil

import (
	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// FighterClass returns a nimble armed fighter with one engine and one dock point.
func FighterClass() *model.ShipClass {
	return &model.ShipClass{
		Name:                "GTF Test Fighter",
		Flags:               model.ClassFighter,
		MaxVel:              vecmath.Vec3{X: 30, Y: 30, Z: 80},
		MaxRearVel:          20,
		AfterburnerMaxVel:   140,
		RotTime:             vecmath.Vec3{X: 2, Y: 2, Z: 3},
		ForwardAccelTime:    2,
		ForwardDecelTime:    1.5,
		SlideAccelTime:      1,
		Radius:              10,
		MaxHull:             200,
		AfterburnerBurnRate: 0.2,
		AfterburnerRecharge: 0.05,
		PrimarySpeed:        600,
		PrimaryRange:        800,
		SecondarySpeed:      300,
		SecondaryRange:      1500,
		Subsystems: []model.SubsystemTemplate{
			{Name: "engine", Type: model.SubsysEngine, Pos: vecmath.Vec3{Z: -8}, Radius: 3, MaxHits: 50, Path: -1},
		},
		DockPoints: []model.DockPoint{
			{Name: "rearm", Type: model.DockRearm, Pos: vecmath.Vec3{Y: 5}, Norm: vecmath.Vec3{Y: 1}, Path: -1},
		},
	}
}

// SupportClass returns an unarmed support ship.
func SupportClass() *model.ShipClass {
	c := FighterClass()
	c.Name = "GAS Test Support"
	c.Flags = model.ClassSupport
	c.PrimaryRange = 0
	c.SecondaryRange = 0
	c.DockPoints = []model.DockPoint{
		{Name: "nose", Type: model.DockGeneric, Pos: vecmath.Vec3{Z: 10}, Norm: vecmath.Vec3{Z: 1}, Path: -1},
	}
	return c
}

// CruiserClass returns a big ship with a turret, an approach path, a dock point and a
// fighter bay path.
func CruiserClass() *model.ShipClass {
	return &model.ShipClass{
		Name:             "GTC Test Cruiser",
		Flags:            model.ClassCruiser,
		MaxVel:           vecmath.Vec3{X: 5, Y: 5, Z: 20},
		MaxRearVel:       5,
		RotTime:          vecmath.Vec3{X: 30, Y: 30, Z: 40},
		ForwardAccelTime: 10,
		ForwardDecelTime: 10,
		SlideAccelTime:   10,
		Radius:           200,
		MaxHull:          5000,
		PrimarySpeed:     400,
		PrimaryRange:     1200,
		Subsystems: []model.SubsystemTemplate{
			{Name: "turret01", Type: model.SubsysTurret, Pos: vecmath.Vec3{Y: 60}, Radius: 10, MaxHits: 300, Path: 1},
			{Name: "engine", Type: model.SubsysEngine, Pos: vecmath.Vec3{Z: -180}, Radius: 20, MaxHits: 800, Path: -1},
		},
		Paths: []model.ModelPath{
			{Name: "dock-approach", ParentSubsys: -1, Verts: []model.PathVert{
				{Pos: vecmath.Vec3{Z: 600}}, {Pos: vecmath.Vec3{Z: 400}}, {Pos: vecmath.Vec3{Z: 260}},
			}},
			{Name: "turret01-path", ParentSubsys: 0, Verts: []model.PathVert{
				{Pos: vecmath.Vec3{Y: 400, Z: 200}}, {Pos: vecmath.Vec3{Y: 300}},
			}},
			{Name: "bay01", ParentSubsys: -1, Verts: []model.PathVert{
				{Pos: vecmath.Vec3{Y: -50}}, {Pos: vecmath.Vec3{Y: -150}}, {Pos: vecmath.Vec3{Y: -400}},
			}},
		},
		DockPoints: []model.DockPoint{
			{Name: "bow", Type: model.DockGeneric, Pos: vecmath.Vec3{Z: 200}, Norm: vecmath.Vec3{Z: 1}, Path: 0},
		},
		BayPaths: []int{2},
	}
}

// PlaceShip creates a ship of class at pos facing +Z.
func PlaceShip(name string, team model.Team, class *model.ShipClass, pos vecmath.Vec3) *model.Object {
	o := model.NewShip(name, team, class)
	o.Pos = pos
	return o
}
