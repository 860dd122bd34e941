package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

type loiterMode struct {
	entered     int
	frames      int
	finishAfter int
	achievable  Achievability
	only        string
	face        *vecmath.Vec3
}

func (l *loiterMode) Enter(ctx *ScriptContext) {
	l.entered++
	ctx.Steer.Accelerate(0.25)
}

func (l *loiterMode) Frame(ctx *ScriptContext) bool {
	l.frames++
	ctx.Steer.Accelerate(0.25)
	if l.face != nil {
		ctx.TurnTowards(*l.face)
	}
	return l.finishAfter > 0 && l.frames >= l.finishAfter
}

func (l *loiterMode) Achievable(*ScriptContext) Achievability { return l.achievable }

func (l *loiterMode) TargetRestrict(_ *ScriptContext, candidate *model.Object) bool {
	return l.only == "" || candidate.Name == l.only
}

func scriptedGoal(name string) Goal {
	g := NewGoal(GoalScripted, 50)
	g.Script = name
	return g
}

func TestRegisterScriptedMode_Duplicate(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.RegisterScriptedMode("loiter", &loiterMode{}))
	assert.ErrorIs(t, f.m.RegisterScriptedMode("loiter", &loiterMode{}), ErrDuplicateScriptedMode)
}

func TestScriptedGoal_RunsUntilFinished(t *testing.T) {
	f := newFixture(t)
	sm := &loiterMode{finishAfter: 3, achievable: Achievable}
	require.NoError(t, f.m.RegisterScriptedMode("loiter", sm))
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	idx, err := a.AddGoal(scriptedGoal("loiter"))
	require.NoError(t, err)

	f.m.Process(frame)
	assert.Equal(t, ModeScripted, a.Mode())
	assert.Equal(t, 1, sm.entered)
	assert.Equal(t, 1, sm.frames)
	assert.InDelta(t, 0.25, a.LastControl().ForwardThrust, 1e-9)

	f.m.Process(frame)
	f.m.Process(frame)
	assert.Equal(t, 1, sm.entered)
	assert.Equal(t, 3, sm.frames)
	assert.Equal(t, ModeNone, a.Mode())
	assert.False(t, a.Goals()[idx].IsSet())
}

func TestScriptedGoal_Achievability(t *testing.T) {
	tests := []struct {
		name     string
		verdict  Achievability
		wantKept bool
	}{
		{"not yet", NotYetAchievable, true},
		{"never", Unachievable, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			sm := &loiterMode{achievable: tt.verdict}
			require.NoError(t, f.m.RegisterScriptedMode("loiter", sm))
			h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
			a := f.state(h)

			idx, err := a.AddGoal(scriptedGoal("loiter"))
			require.NoError(t, err)
			f.m.ProcessGoals(a)

			assert.Equal(t, tt.wantKept, a.Goals()[idx].IsSet())
			assert.NotEqual(t, ModeScripted, a.Mode())
			assert.Zero(t, sm.entered)
		})
	}
}

func TestScriptedGoal_UnknownName(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	idx, err := a.AddGoal(scriptedGoal("missing"))
	require.NoError(t, err)
	f.m.ProcessGoals(a)
	assert.False(t, a.Goals()[idx].IsSet())
	assert.Equal(t, ModeNone, a.Mode())
}

func TestScriptedMode_TargetRestrict(t *testing.T) {
	f := newFixture(t)
	sm := &loiterMode{achievable: Achievable, only: "hostile 1"}
	require.NoError(t, f.m.RegisterScriptedMode("picky", sm))
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	f.add("hostile 0", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 300}, false)
	far := f.add("hostile 1", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 900}, false)
	a := f.state(h)

	_, err := a.AddGoal(scriptedGoal("picky"))
	require.NoError(t, err)
	f.m.Process(frame)
	require.Equal(t, ModeScripted, a.Mode())

	assert.Equal(t, far, f.m.FindEnemy(a, TargetQuery{}))
}

func TestScriptedMode_TurnsAtFullClassRate(t *testing.T) {
	f := newFixture(t)
	sm := &loiterMode{achievable: Achievable, face: &vecmath.Vec3{X: 1000}}
	require.NoError(t, f.m.RegisterScriptedMode("loiter", sm))
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)
	_, err := a.AddGoal(scriptedGoal("loiter"))
	require.NoError(t, err)

	f.m.Process(frame)
	require.Equal(t, ModeScripted, a.Mode())
	assert.InDelta(t, 1, a.LastControl().Heading, 1e-9, "no spin-up from rest")
}
