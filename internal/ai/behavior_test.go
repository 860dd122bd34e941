package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/testutil"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

func TestEvadeGoal(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	near := f.add("hostile 0", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 500}, false)
	a := f.state(h)

	g := NewGoal(GoalEvadeShip, 70)
	g.Target = near
	idx, err := a.AddGoal(g)
	require.NoError(t, err)

	f.m.Process(frame)
	require.Equal(t, ModeEvade, a.Mode())
	assert.Equal(t, near, a.Target())
	assert.Equal(t, 1.0, a.LastControl().ForwardThrust)

	f.obj(near).Pos = vecmath.Vec3{Z: evadeSafeDist + 500}
	f.m.Process(frame)
	assert.Equal(t, ModeNone, a.Mode())
	assert.False(t, a.Goals()[idx].IsSet(), "evading ends once out of range")
}

func TestStayNearGoal(t *testing.T) {
	f := newFixture(t)
	cruiser := f.add("cruiser", model.TeamFriendly, f.cruiser, vecmath.Vec3{Z: 2000}, false)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	g := NewGoal(GoalStayNear, 40)
	g.Target = cruiser
	g.Distance = 300
	idx, err := a.AddGoal(g)
	require.NoError(t, err)

	f.m.Process(frame)
	require.Equal(t, ModeStayNear, a.Mode())
	assert.Equal(t, 1.0, a.LastControl().ForwardThrust, "closes the distance")

	f.obj(h).Pos = vecmath.Vec3{Z: 1800}
	f.m.Process(frame)
	assert.Zero(t, a.LastControl().ForwardThrust, "matches the stationary ship's speed")

	f.w.Destroy(cruiser)
	f.m.Process(frame)
	assert.Equal(t, ModeNone, a.Mode())
	assert.False(t, a.Goals()[idx].IsSet())
}

func TestFlyToShipGoal(t *testing.T) {
	tests := []struct {
		name     string
		start    vecmath.Vec3
		wantMode Mode
		wantGoal bool
	}{
		{"far away keeps flying", vecmath.Vec3{Z: 2000}, ModeFlyToShip, true},
		{"inside arrival distance completes", vecmath.Vec3{Z: 300}, ModeNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			cruiser := f.add("cruiser", model.TeamFriendly, f.cruiser, vecmath.Vec3{}, false)
			h := f.ship("alpha 1", model.TeamFriendly, tt.start)
			a := f.state(h)

			g := NewGoal(GoalFlyToShip, 40)
			g.Target = cruiser
			idx, err := a.AddGoal(g)
			require.NoError(t, err)

			f.m.Process(frame)
			assert.Equal(t, tt.wantMode, a.Mode())
			assert.Equal(t, tt.wantGoal, a.Goals()[idx].IsSet())
		})
	}
}

func TestSentryGun_TracksAndFires(t *testing.T) {
	f := newFixture(t)
	sentry := testutil.FighterClass()
	sentry.Name = "sentry"
	sentry.Flags = model.ClassSentryGun
	h := f.add("sentry 1", model.TeamFriendly, sentry, vecmath.Vec3{}, true)
	enemy := f.add("hostile 0", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 500}, false)
	f.add("hostile far", model.TeamHostile, f.fighter, vecmath.Vec3{Z: sentryRange + 500}, false)
	a := f.state(h)

	var shots []string
	f.m.SetFireFunc(func(shooter, target *model.Object, secondary bool) {
		assert.False(t, secondary)
		shots = append(shots, shooter.Name+">"+target.Name)
	})

	for range 3 {
		f.m.Process(frame)
	}
	assert.Equal(t, ModeSentryGun, a.Mode())
	assert.Equal(t, enemy, a.Target())
	assert.Zero(t, a.LastControl().ForwardThrust, "sentries never move")
	require.NotEmpty(t, shots)
	assert.Equal(t, "sentry 1>hostile 0", shots[0])
	assert.Len(t, shots, 1, "fire delay spaces out shots")
}

func TestNotifyDangerWeapon_EvadesThenResumes(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)
	a.Tuning.Evasion = 100
	require.NoError(t, f.m.ForceMode(h, ModeStill))

	missile, err := f.w.Add(model.NewObject(model.ObjectWeapon, "missile", model.TeamHostile))
	require.NoError(t, err)

	f.m.NotifyDangerWeapon(h, missile)
	require.Equal(t, ModeEvadeWeapon, a.Mode())
	f.m.Process(frame)
	assert.Equal(t, ModeEvadeWeapon, a.Mode())

	f.w.Destroy(missile)
	f.m.Process(frame)
	assert.Equal(t, ModeStill, a.Mode(), "the interrupted mode resumes")
}

func TestNotifyDangerWeapon_NotDuringDocking(t *testing.T) {
	f := newFixture(t)
	cruiser := f.add("cruiser", model.TeamFriendly, f.cruiser, vecmath.Vec3{}, false)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{Z: 900})
	a := f.state(h)
	a.Tuning.Evasion = 100
	f.tick(h).setMode(&dockState{stage: Dock0, dockee: cruiser, dockerPt: -1, dockeePt: 0})

	missile, err := f.w.Add(model.NewObject(model.ObjectWeapon, "missile", model.TeamHostile))
	require.NoError(t, err)
	f.m.NotifyDangerWeapon(h, missile)
	assert.Equal(t, ModeDock, a.Mode())
}

func TestCheckAvoid_BigShipAhead(t *testing.T) {
	f := newFixture(t)
	f.add("cruiser", model.TeamFriendly, f.cruiser, vecmath.Vec3{Z: 300}, false)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	self := f.obj(h)
	self.Vel = vecmath.Vec3{Z: 100}
	a := f.state(h)

	f.m.Process(frame)
	require.Equal(t, ModeAvoid, a.Mode())
	assert.True(t, a.Flags.Has(AIFAvoidingBigShip))
	assert.Equal(t, 1.0, a.LastControl().ForwardThrust)

	self.Pos = vecmath.Vec3{Z: -1000}
	self.Vel = vecmath.Vec3{Z: -100}
	f.m.Process(frame)
	assert.Equal(t, ModeNone, a.Mode())
	assert.False(t, a.Flags.Has(AIFAvoidingBigShip))
}

func TestCheckAvoid_IgnoresSmallShips(t *testing.T) {
	f := newFixture(t)
	f.add("escort", model.TeamFriendly, f.fighter, vecmath.Vec3{Z: 100}, false)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	f.obj(h).Vel = vecmath.Vec3{Z: 100}

	f.m.Process(frame)
	assert.NotEqual(t, ModeAvoid, f.state(h).Mode())
}
