// Package scenario describes missions: the ships, wings, waypoint lists and authored
// goal lists that make up one engagement.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jg18/fs2open.github.com/internal/ai"
	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

var (
	// ErrInvalidMission is returned when a mission fails validation.
	ErrInvalidMission = errors.New("scenario: invalid mission")
	// ErrDuplicateShip is returned when two ships share a name.
	ErrDuplicateShip = errors.New("scenario: duplicate ship name")
)

// Vec is an [x, y, z] triple in mission files.
type Vec [3]float64

// Vec3 converts to the engine vector type.
func (v Vec) Vec3() vecmath.Vec3 {
	return vecmath.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// Mission is a complete engagement definition.
type Mission struct {
	Name           string        `yaml:"name"`
	Description    string        `yaml:"description"`
	AllTeamsAttack bool          `yaml:"all_teams_attack"`
	Wings          []WingDef     `yaml:"wings"`
	Waypoints      []WaypointDef `yaml:"waypoints"`
	Ships          []ShipDef     `yaml:"ships"`
}

// WingDef declares a wing; ships join it by name.
type WingDef struct {
	Name string `yaml:"name"`
	Team string `yaml:"team"`
}

// WaypointDef is a named list of points for waypoint goals.
type WaypointDef struct {
	Name   string `yaml:"name"`
	Points []Vec  `yaml:"points"`
}

// ShipDef places one ship.
type ShipDef struct {
	Name    string    `yaml:"name"`
	Class   string    `yaml:"class"`
	Team    string    `yaml:"team"`
	Wing    string    `yaml:"wing,omitempty"`
	AIClass string    `yaml:"ai_class,omitempty"`
	Pos     Vec       `yaml:"pos"`
	Facing  *Vec      `yaml:"facing,omitempty"` // forward vector, +Z when unset
	Speed   float64   `yaml:"speed,omitempty"`  // initial forward speed
	Hull    float64   `yaml:"hull,omitempty"`   // fraction of max hull, 1 when unset
	Player  bool      `yaml:"player,omitempty"`
	NoAI    bool      `yaml:"no_ai,omitempty"`
	Flags   []string  `yaml:"flags,omitempty"`
	Goals   []GoalDef `yaml:"goals,omitempty"`
}

// GoalDef is one authored order. Target names a ship, a wing or a waypoint list
// depending on the goal type.
type GoalDef struct {
	Type        string  `yaml:"type"`
	Target      string  `yaml:"target,omitempty"`
	Priority    int     `yaml:"priority"`
	Subsystem   string  `yaml:"subsystem,omitempty"`
	Distance    float64 `yaml:"distance,omitempty"`
	Script      string  `yaml:"script,omitempty"`
	Backtrack   bool    `yaml:"backtrack,omitempty"`
	DockerPoint *int    `yaml:"docker_point,omitempty"`
	DockeePoint *int    `yaml:"dockee_point,omitempty"`
}

var shipFlagNames = map[string]model.ObjectFlags{
	"stealth":      model.FlagStealth,
	"protected":    model.FlagProtected,
	"invulnerable": model.FlagInvulnerable,
	"no_shields":   model.FlagNoShields,
}

// Load reads and validates a mission file.
func Load(path string) (*Mission, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mission %s: %w", path, err)
	}
	m, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("mission %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates a mission document.
func Parse(raw []byte) (*Mission, error) {
	var m Mission
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing mission: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Marshal encodes the mission as YAML.
func (m *Mission) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding mission %q: %w", m.Name, err)
	}
	return out, nil
}

// Validate checks references and names. Class names are checked later, against the
// tables in use, by Build.
func (m *Mission) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidMission)
	}
	if len(m.Ships) == 0 {
		return fmt.Errorf("%w: %q has no ships", ErrInvalidMission, m.Name)
	}

	wings := make(map[string]bool, len(m.Wings))
	for _, w := range m.Wings {
		if _, err := model.ParseTeam(w.Team); err != nil {
			return fmt.Errorf("%w: wing %q: %w", ErrInvalidMission, w.Name, err)
		}
		wings[strings.ToLower(w.Name)] = true
	}
	for _, wp := range m.Waypoints {
		if len(wp.Points) == 0 {
			return fmt.Errorf("%w: waypoint list %q is empty", ErrInvalidMission, wp.Name)
		}
	}

	names := make(map[string]bool, len(m.Ships))
	for _, s := range m.Ships {
		if s.Name == "" {
			return fmt.Errorf("%w: ship without a name", ErrInvalidMission)
		}
		key := strings.ToLower(s.Name)
		if names[key] {
			return fmt.Errorf("%w: %q", ErrDuplicateShip, s.Name)
		}
		names[key] = true

		if _, err := model.ParseTeam(s.Team); err != nil {
			return fmt.Errorf("%w: ship %q: %w", ErrInvalidMission, s.Name, err)
		}
		if s.Wing != "" && !wings[strings.ToLower(s.Wing)] {
			return fmt.Errorf("%w: ship %q names unknown wing %q", ErrInvalidMission, s.Name, s.Wing)
		}
		if s.Hull < 0 || s.Hull > 1 {
			return fmt.Errorf("%w: ship %q hull fraction %v out of range", ErrInvalidMission, s.Name, s.Hull)
		}
		for _, f := range s.Flags {
			if _, ok := shipFlagNames[strings.ToLower(f)]; !ok {
				return fmt.Errorf("%w: ship %q has unknown flag %q", ErrInvalidMission, s.Name, f)
			}
		}
		for i, g := range s.Goals {
			if _, err := ai.ParseGoalType(g.Type); err != nil {
				return fmt.Errorf("%w: ship %q goal %d: %w", ErrInvalidMission, s.Name, i, err)
			}
		}
	}
	return nil
}

// Goal converts an authored goal into an engine goal. Targets stay as names and are
// resolved by the arbiter, so goals may name ships that arrive later.
func (g GoalDef) Goal() (ai.Goal, error) {
	typ, err := ai.ParseGoalType(g.Type)
	if err != nil {
		return ai.Goal{}, err
	}
	goal := ai.NewGoal(typ, g.Priority)
	goal.TargetName = g.Target
	goal.Subsystem = g.Subsystem
	goal.Distance = g.Distance
	goal.Script = g.Script
	if g.Backtrack {
		goal.Waypoint |= ai.WPFBacktrack
	}
	if g.DockerPoint != nil {
		goal.DockerPoint = *g.DockerPoint
	}
	if g.DockeePoint != nil {
		goal.DockeePoint = *g.DockeePoint
	}
	return goal, nil
}
