package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

func stayStill(name string, priority int) Goal {
	g := NewGoal(GoalStayStill, priority)
	g.TargetName = name
	return g
}

func TestAddGoal_EvictsLowestPriorityOldestFirst(t *testing.T) {
	a := newAIState(model.Handle{Index: 0, Sig: 1}, SlotID{}, DefaultTuning(), 0)

	for i, p := range []int{10, 20, 10, 30, 40} {
		idx, err := a.AddGoal(stayStill(fighterName("g", i), p))
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	a.activeGoal = 0

	// Slot 0 is active, so the other priority-10 goal goes first.
	idx, err := a.AddGoal(stayStill("new 1", 50))
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	idx, err = a.AddGoal(stayStill("new 2", 5))
	require.NoError(t, err)
	assert.Equal(t, 1, idx, "priority 20 is now the lowest non-active goal")

	goals := a.Goals()
	assert.Equal(t, "g 0", goals[0].TargetName, "the active goal is never evicted")
	assert.Equal(t, 0, a.ActiveGoal())
}

func TestAddGoal_EvictsOldestOnEqualPriority(t *testing.T) {
	a := newAIState(model.Handle{Index: 0, Sig: 1}, SlotID{}, DefaultTuning(), 0)
	for i := range MaxGoals {
		_, err := a.AddGoal(stayStill(fighterName("g", i), 10))
		require.NoError(t, err)
	}

	idx, err := a.AddGoal(stayStill("late", 10))
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = a.AddGoal(stayStill("later", 10))
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

func TestAddGoal_SameOrderUpdatesPriority(t *testing.T) {
	a := newAIState(model.Handle{Index: 0, Sig: 1}, SlotID{}, DefaultTuning(), 0)

	first, err := a.AddGoal(stayStill("beacon", 10))
	require.NoError(t, err)
	again, err := a.AddGoal(stayStill("beacon", 80))
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.Equal(t, 80, a.Goals()[first].Priority)
	assert.Equal(t, GoalNone, FindGoalIndex(a.goals[:], GoalPlayDead, AnyPriority))
	assert.Equal(t, first, FindGoalIndex(a.goals[:], GoalStayStill, AnyPriority))
	assert.Equal(t, first, FindGoalIndex(a.goals[:], GoalStayStill, 80))
	assert.Equal(t, GoalNone, FindGoalIndex(a.goals[:], GoalStayStill, 10))
}

func TestAddGoal_RejectsUnsetGoal(t *testing.T) {
	a := newAIState(model.Handle{Index: 0, Sig: 1}, SlotID{}, DefaultTuning(), 0)
	_, err := a.AddGoal(Goal{})
	assert.Error(t, err)
}

func TestPickGoal_NewestWinsAmongEqualPriority(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	_, err := a.AddGoal(stayStill("", 50))
	require.NoError(t, err)
	dead, err := a.AddGoal(NewGoal(GoalPlayDead, 50))
	require.NoError(t, err)

	f.m.ProcessGoals(a)
	assert.Equal(t, dead, a.ActiveGoal())
	assert.Equal(t, ModePlayDead, a.Mode())
}

func TestPickGoal_ActiveKeptUntilStrictlyBetter(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	dead, err := a.AddGoal(NewGoal(GoalPlayDead, 50))
	require.NoError(t, err)
	f.m.ProcessGoals(a)
	require.Equal(t, dead, a.ActiveGoal())

	_, err = a.AddGoal(stayStill("equal", 50))
	require.NoError(t, err)
	f.m.ProcessGoals(a)
	assert.Equal(t, dead, a.ActiveGoal(), "an equal-priority newcomer does not preempt")

	better, err := a.AddGoal(stayStill("better", 60))
	require.NoError(t, err)
	f.m.ProcessGoals(a)
	assert.Equal(t, better, a.ActiveGoal())
	assert.Equal(t, ModeStill, a.Mode())
}

func TestPickGoal_DynamicWinsTies(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	_, err := a.AddGoal(NewGoal(GoalPlayDead, 50))
	require.NoError(t, err)
	f.m.ProcessGoals(a)
	require.Equal(t, ModePlayDead, a.Mode())

	f.m.SetDynamicGoal(a, stayStill("", 50))
	f.m.ProcessGoals(a)
	assert.Equal(t, GoalDynamic, a.ActiveGoal())
	assert.Equal(t, ModeStill, a.Mode())

	dyn, ok := a.DynamicGoal()
	require.True(t, ok)
	assert.Equal(t, f.m.Clock().Now(), dyn.Created)
}

func TestProcessGoals_DropsGoalWhenTargetDestroyed(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	enemy := f.add("hostile 0", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 500}, false)
	a := f.state(h)

	g := NewGoal(GoalAttackShip, 90)
	g.TargetName = "hostile 0"
	idx, err := a.AddGoal(g)
	require.NoError(t, err)

	f.m.ProcessGoals(a)
	require.Equal(t, idx, a.ActiveGoal())
	require.Equal(t, ModeChase, a.Mode())
	assert.Equal(t, enemy, a.Target())

	f.w.Destroy(enemy)
	f.m.ProcessGoals(a)

	assert.Equal(t, GoalNone, a.ActiveGoal())
	assert.False(t, a.Goals()[idx].IsSet())
	assert.Equal(t, ModeNone, a.Mode())
}

func TestProcessGoals_UnresolvedNameWaits(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	g := NewGoal(GoalGuard, 40)
	g.TargetName = "not yet arrived"
	idx, err := a.AddGoal(g)
	require.NoError(t, err)

	f.m.ProcessGoals(a)
	assert.True(t, a.Goals()[idx].IsSet(), "a ship that has not arrived keeps the goal pending")
	assert.Equal(t, GoalNone, a.ActiveGoal())

	f.add("not yet arrived", model.TeamFriendly, f.cruiser, vecmath.Vec3{X: 2000}, false)
	f.m.ProcessGoals(a)
	assert.Equal(t, idx, a.ActiveGoal())
	assert.Equal(t, ModeGuard, a.Mode())
}

func TestProcessGoals_OwnShipIsUnachievable(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	g := NewGoal(GoalAttackShip, 90)
	g.Target = h
	idx, err := a.AddGoal(g)
	require.NoError(t, err)

	f.m.ProcessGoals(a)
	assert.False(t, a.Goals()[idx].IsSet())
}

func TestProcessGoals_GatedByCheckInterval(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	f.m.Process(frame)
	require.Equal(t, ModeNone, a.Mode())

	_, err := a.AddGoal(NewGoal(GoalPlayDead, 10))
	require.NoError(t, err)

	f.m.Process(frame)
	assert.Equal(t, ModeNone, a.Mode(), "goal list is not re-examined before the interval")

	f.m.Process(0.5)
	assert.Equal(t, ModePlayDead, a.Mode())
}

func TestGoalDone_ClearsActiveAndDelaysNextPick(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	idx, err := a.AddGoal(NewGoal(GoalPlayDead, 10))
	require.NoError(t, err)
	f.m.ProcessGoals(a)
	require.Equal(t, idx, a.ActiveGoal())

	tk := f.tick(h)
	f.m.goalDone(tk, true)

	assert.Equal(t, GoalNone, a.ActiveGoal())
	assert.False(t, a.Goals()[idx].IsSet())
	assert.True(t, f.m.Clock().Pending(a.goalCheck))
}

func TestParseGoalType(t *testing.T) {
	g, err := ParseGoalType("keep-safe-distance")
	require.NoError(t, err)
	assert.Equal(t, GoalKeepSafeDistance, g)

	_, err = ParseGoalType("unset")
	assert.Error(t, err)
	_, err = ParseGoalType("dance")
	assert.Error(t, err)
}
