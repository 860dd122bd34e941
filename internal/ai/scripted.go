package ai

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
	"github.com/jg18/fs2open.github.com/internal/world"
)

var (
	// ErrDuplicateScriptedMode is returned when a scripted mode name is registered twice.
	ErrDuplicateScriptedMode = errors.New("ai: scripted mode already registered")
	// ErrUnknownScriptedMode is returned for a goal naming an unregistered scripted mode.
	ErrUnknownScriptedMode = errors.New("ai: unknown scripted mode")
)

// ScriptedMode is a behaviour supplied by the host application and run as a mode.
type ScriptedMode interface {
	// Enter is called once when the mode starts.
	Enter(ctx *ScriptContext)
	// Frame runs every tick and returns true when the behaviour is finished.
	Frame(ctx *ScriptContext) bool
	// Achievable is consulted during goal validation.
	Achievable(ctx *ScriptContext) Achievability
	// TargetRestrict filters candidates in target searches made while the mode runs.
	TargetRestrict(ctx *ScriptContext, candidate *model.Object) bool
}

// ScriptContext is what a scripted mode sees of its ship and the world.
type ScriptContext struct {
	Ship      *model.Object
	State     *AIState
	World     *world.World
	Clock     *timestamp.Clock
	Steer     *Steerer
	Frametime float64

	m *Manager
}

// SetTarget changes the ship's target.
func (c *ScriptContext) SetTarget(h model.Handle) {
	c.m.SetTarget(c.State, h)
}

// TurnTowards points the ship at point at the full class turn rate.
func (c *ScriptContext) TurnTowards(point vecmath.Vec3) float64 {
	return c.Steer.TurnTowardsPoint(point, vecmath.Vec3{}, 0, TurnViaScript)
}

// FindEnemy runs a target search for the ship.
func (c *ScriptContext) FindEnemy(q TargetQuery) model.Handle {
	return c.m.FindEnemy(c.State, q)
}

// scriptedState runs a registered ScriptedMode.
type scriptedState struct {
	name string
	impl ScriptedMode
}

func (*scriptedState) Mode() Mode       { return ModeScripted }
func (*scriptedState) Submode() Submode { return Submode{Mode: ModeScripted} }

func (s *scriptedState) frame(t *tick) {
	if !s.impl.Frame(t.m.scriptContext(t)) {
		return
	}
	if t.a.activeGoalType() == GoalScripted {
		t.m.goalDone(t, true)
	}
	t.a.scriptedName = ""
	t.setMode(&noneState{})
}

func (m *Manager) scriptContext(t *tick) *ScriptContext {
	return &ScriptContext{
		Ship:      t.self,
		State:     t.a,
		World:     m.world,
		Clock:     m.clock,
		Steer:     t.steer(),
		Frametime: t.dt,
		m:         m,
	}
}

// enterScripted switches to the named scripted mode, failing the active goal when the
// name is unknown.
func (m *Manager) enterScripted(t *tick, name string) {
	impl, ok := m.scripted[name]
	if !ok {
		slog.Warn("entering scripted mode", "ship", t.self.Name, "error", fmt.Errorf("%q: %w", name, ErrUnknownScriptedMode))
		m.goalDone(t, false)
		t.setMode(&noneState{})
		return
	}
	t.a.scriptedName = name
	t.setMode(&scriptedState{name: name, impl: impl})
	impl.Enter(m.scriptContext(t))
}

// RegisterScriptedMode makes a behaviour available to scripted goals under name.
func (m *Manager) RegisterScriptedMode(name string, sm ScriptedMode) error {
	if _, ok := m.scripted[name]; ok {
		return fmt.Errorf("registering %q: %w", name, ErrDuplicateScriptedMode)
	}
	m.scripted[name] = sm
	return nil
}
