package data

import (
	"fmt"
	"strings"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// vec3Def is a [x, y, z] triple in table files.
type vec3Def [3]float64

func (v vec3Def) vec() vecmath.Vec3 {
	return vecmath.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

type subsystemDef struct {
	Name    string  `yaml:"name"`
	Type    string  `yaml:"type"`
	Pos     vec3Def `yaml:"pos"`
	Radius  float64 `yaml:"radius"`
	MaxHits float64 `yaml:"max_hits"`
	Path    string  `yaml:"path"`
}

type pathVertDef struct {
	Pos     vec3Def  `yaml:"pos"`
	Radius  float64  `yaml:"radius"`
	Turrets []string `yaml:"turrets"`
}

type pathDef struct {
	Name      string        `yaml:"name"`
	Subsystem string        `yaml:"subsystem"`
	Verts     []pathVertDef `yaml:"verts"`
}

type dockPointDef struct {
	Name string  `yaml:"name"`
	Type string  `yaml:"type"`
	Pos  vec3Def `yaml:"pos"`
	Norm vec3Def `yaml:"norm"`
	Path string  `yaml:"path"`
}

type shipClassDef struct {
	Name  string   `yaml:"name"`
	Flags []string `yaml:"flags"`

	MaxVel            vec3Def `yaml:"max_vel"`
	MaxRearVel        float64 `yaml:"max_rear_vel"`
	AfterburnerMaxVel float64 `yaml:"afterburner_max_vel"`
	RotTime           vec3Def `yaml:"rot_time"`

	ForwardAccelTime float64 `yaml:"forward_accel_time"`
	ForwardDecelTime float64 `yaml:"forward_decel_time"`
	SlideAccelTime   float64 `yaml:"slide_accel_time"`

	Radius  float64 `yaml:"radius"`
	MaxHull float64 `yaml:"max_hull"`

	AfterburnerBurnRate float64 `yaml:"afterburner_burn_rate"`
	AfterburnerRecharge float64 `yaml:"afterburner_recharge"`

	PrimarySpeed   float64 `yaml:"primary_speed"`
	PrimaryRange   float64 `yaml:"primary_range"`
	SecondarySpeed float64 `yaml:"secondary_speed"`
	SecondaryRange float64 `yaml:"secondary_range"`

	Subsystems []subsystemDef `yaml:"subsystems"`
	Paths      []pathDef      `yaml:"paths"`
	DockPoints []dockPointDef `yaml:"dock_points"`
	BayPaths   []string       `yaml:"bay_paths"`
}

var dockTypeNames = map[string]model.DockType{
	"":        model.DockGeneric,
	"generic": model.DockGeneric,
	"rearm":   model.DockRearm,
	"cargo":   model.DockCargo,
}

// convertShipClass resolves names inside a table entry into indices.
func convertShipClass(def *shipClassDef) (*model.ShipClass, error) {
	flags, unknown := model.ParseClassFlags(def.Flags)
	if len(unknown) > 0 {
		return nil, fmt.Errorf("ship class %q: unknown flags %v", def.Name, unknown)
	}

	sc := &model.ShipClass{
		Name:                def.Name,
		Flags:               flags,
		MaxVel:              def.MaxVel.vec(),
		MaxRearVel:          def.MaxRearVel,
		AfterburnerMaxVel:   def.AfterburnerMaxVel,
		RotTime:             def.RotTime.vec(),
		ForwardAccelTime:    def.ForwardAccelTime,
		ForwardDecelTime:    def.ForwardDecelTime,
		SlideAccelTime:      def.SlideAccelTime,
		Radius:              def.Radius,
		MaxHull:             def.MaxHull,
		AfterburnerBurnRate: def.AfterburnerBurnRate,
		AfterburnerRecharge: def.AfterburnerRecharge,
		PrimarySpeed:        def.PrimarySpeed,
		PrimaryRange:        def.PrimaryRange,
		SecondarySpeed:      def.SecondarySpeed,
		SecondaryRange:      def.SecondaryRange,
	}

	// Paths first so subsystems and dock points can refer to them by name.
	sc.Paths = make([]model.ModelPath, len(def.Paths))
	for i, p := range def.Paths {
		sc.Paths[i] = model.ModelPath{Name: p.Name, ParentSubsys: -1}
	}

	sc.Subsystems = make([]model.SubsystemTemplate, len(def.Subsystems))
	for i, s := range def.Subsystems {
		typ, ok := model.SubsystemTypeNames[strings.ToLower(s.Type)]
		if !ok {
			typ = model.SubsysUnknown
		}
		path := -1
		if s.Path != "" {
			if path = sc.FindPath(s.Path); path < 0 {
				return nil, fmt.Errorf("ship class %q subsystem %q: unknown path %q", def.Name, s.Name, s.Path)
			}
			sc.Paths[path].ParentSubsys = i
		}
		sc.Subsystems[i] = model.SubsystemTemplate{
			Name:    s.Name,
			Type:    typ,
			Pos:     s.Pos.vec(),
			Radius:  s.Radius,
			MaxHits: s.MaxHits,
			Path:    path,
		}
	}

	for i, p := range def.Paths {
		verts := make([]model.PathVert, len(p.Verts))
		for j, v := range p.Verts {
			turrets := make([]int, 0, len(v.Turrets))
			for _, name := range v.Turrets {
				idx := sc.FindSubsystem(name)
				if idx < 0 {
					return nil, fmt.Errorf("ship class %q path %q: unknown turret %q", def.Name, p.Name, name)
				}
				turrets = append(turrets, idx)
			}
			verts[j] = model.PathVert{Pos: v.Pos.vec(), Radius: v.Radius, Turrets: turrets}
		}
		sc.Paths[i].Verts = verts
		if p.Subsystem != "" {
			sc.Paths[i].ParentSubsys = sc.FindSubsystem(p.Subsystem)
		}
	}

	sc.DockPoints = make([]model.DockPoint, len(def.DockPoints))
	for i, d := range def.DockPoints {
		typ, ok := dockTypeNames[strings.ToLower(d.Type)]
		if !ok {
			return nil, fmt.Errorf("ship class %q dock point %q: unknown type %q", def.Name, d.Name, d.Type)
		}
		path := -1
		if d.Path != "" {
			if path = sc.FindPath(d.Path); path < 0 {
				return nil, fmt.Errorf("ship class %q dock point %q: unknown path %q", def.Name, d.Name, d.Path)
			}
		}
		sc.DockPoints[i] = model.DockPoint{
			Name: d.Name,
			Type: typ,
			Pos:  d.Pos.vec(),
			Norm: vecmath.Normalize(d.Norm.vec()),
			Path: path,
		}
	}

	for _, name := range def.BayPaths {
		idx := sc.FindPath(name)
		if idx < 0 {
			return nil, fmt.Errorf("ship class %q: unknown bay path %q", def.Name, name)
		}
		sc.BayPaths = append(sc.BayPaths, idx)
	}

	if sc.Radius <= 0 {
		return nil, fmt.Errorf("ship class %q: radius must be positive", def.Name)
	}

	return sc, nil
}
