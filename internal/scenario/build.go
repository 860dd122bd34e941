package scenario

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jg18/fs2open.github.com/internal/ai"
	"github.com/jg18/fs2open.github.com/internal/data"
	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
	"github.com/jg18/fs2open.github.com/internal/world"
)

// DefaultAIClass is used for ships that do not name an AI class.
const DefaultAIClass = "Captain"

// BuildOptions are the mission-wide settings applied while building.
type BuildOptions struct {
	Profile        string // AI profile name
	Skill          int    // 0..4
	DefaultAIClass string
}

// Built is the result of placing a mission into a world.
type Built struct {
	Ships map[string]model.Handle
	Wings map[string]int
}

// Build places every wing, waypoint list and ship of m into w and registers AI ships
// with mgr, resolving each ship's tuning from tables.
func Build(m *Mission, w *world.World, mgr *ai.Manager, tables *data.Tables, opts BuildOptions) (*Built, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	profile, err := tables.Profile(opts.Profile)
	if err != nil {
		return nil, fmt.Errorf("building %q: %w", m.Name, err)
	}
	defaultClass := opts.DefaultAIClass
	if defaultClass == "" {
		defaultClass = DefaultAIClass
	}

	w.SetAllTeamsAttack(m.AllTeamsAttack)
	out := &Built{
		Ships: make(map[string]model.Handle, len(m.Ships)),
		Wings: make(map[string]int, len(m.Wings)),
	}

	for _, wd := range m.Wings {
		team, _ := model.ParseTeam(wd.Team)
		out.Wings[strings.ToLower(wd.Name)] = w.AddWing(wd.Name, team)
	}
	for _, wp := range m.Waypoints {
		pts := make([]vecmath.Vec3, len(wp.Points))
		for i, p := range wp.Points {
			pts[i] = p.Vec3()
		}
		if _, err := w.AddWaypointList(wp.Name, pts); err != nil {
			return nil, fmt.Errorf("building %q: waypoint list %q: %w", m.Name, wp.Name, err)
		}
	}

	for _, sd := range m.Ships {
		h, err := placeShip(sd, w, tables, out.Wings)
		if err != nil {
			return nil, fmt.Errorf("building %q: %w", m.Name, err)
		}
		out.Ships[sd.Name] = h
		if sd.NoAI {
			continue
		}

		className := sd.AIClass
		if className == "" {
			className = defaultClass
		}
		class, err := tables.AIClass(className)
		if err != nil {
			return nil, fmt.Errorf("building %q: ship %q: %w", m.Name, sd.Name, err)
		}
		tuning := ai.ResolveTuning(class, profile, opts.Skill, tables.AIClassCount())
		if _, err := mgr.Register(h, tuning); err != nil {
			return nil, fmt.Errorf("building %q: %w", m.Name, err)
		}
		if err := addGoals(mgr, h, sd); err != nil {
			return nil, fmt.Errorf("building %q: %w", m.Name, err)
		}
	}

	slog.Info("mission built",
		"mission", m.Name,
		"ships", len(out.Ships),
		"wings", len(out.Wings),
		"waypoint_lists", len(m.Waypoints))
	return out, nil
}

func placeShip(sd ShipDef, w *world.World, tables *data.Tables, wings map[string]int) (model.Handle, error) {
	class, err := tables.ShipClass(sd.Class)
	if err != nil {
		return model.NoHandle, fmt.Errorf("ship %q: %w", sd.Name, err)
	}
	team, _ := model.ParseTeam(sd.Team)

	obj := model.NewShip(sd.Name, team, class)
	obj.Pos = sd.Pos.Vec3()
	if sd.Facing != nil {
		obj.Orient = vecmath.FromForward(sd.Facing.Vec3(), vecmath.Vec3{Y: 1})
	}
	obj.Vel = vecmath.Scale(obj.Orient.F, sd.Speed)
	if sd.Hull > 0 {
		obj.Hull = obj.MaxHull * sd.Hull
	}
	if sd.Wing != "" {
		obj.Wing = wings[strings.ToLower(sd.Wing)]
	}
	if sd.Player {
		obj.Flags |= model.FlagPlayer
	}
	for _, f := range sd.Flags {
		obj.Flags |= shipFlagNames[strings.ToLower(f)]
	}

	h, err := w.Add(obj)
	if err != nil {
		return model.NoHandle, fmt.Errorf("ship %q: %w", sd.Name, err)
	}
	return h, nil
}

func addGoals(mgr *ai.Manager, h model.Handle, sd ShipDef) error {
	if len(sd.Goals) == 0 {
		return nil
	}
	a, ok := mgr.State(h)
	if !ok {
		return fmt.Errorf("ship %q: %w", sd.Name, ai.ErrNotRegistered)
	}
	for i, gd := range sd.Goals {
		g, err := gd.Goal()
		if err != nil {
			return fmt.Errorf("ship %q goal %d: %w", sd.Name, i, err)
		}
		if _, err := a.AddGoal(g); err != nil {
			return fmt.Errorf("ship %q goal %d: %w", sd.Name, i, err)
		}
	}
	return nil
}
