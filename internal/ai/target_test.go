package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

func TestFindEnemy_Nearest(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	f.add("hostile far", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 1500}, false)
	near := f.add("hostile near", model.TeamHostile, f.fighter, vecmath.Vec3{X: 600}, false)
	f.add("friend", model.TeamFriendly, f.fighter, vecmath.Vec3{X: 10}, false)
	f.w.RebuildIndex()

	got := f.m.FindEnemy(f.state(h), TargetQuery{Range: MaxEnemyDistance})
	assert.Equal(t, near, got)

	got = f.m.FindEnemy(f.state(h), TargetQuery{Range: 500})
	assert.True(t, got.IsNone(), "nothing hostile within 500")
}

func TestFindEnemy_TieGoesToLowerIndex(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	first := f.add("hostile 0", model.TeamHostile, f.fighter, vecmath.Vec3{X: 500}, false)
	f.add("hostile 1", model.TeamHostile, f.fighter, vecmath.Vec3{X: -500}, false)
	f.w.RebuildIndex()

	assert.Equal(t, first, f.m.FindEnemy(f.state(h), TargetQuery{}))
}

func TestFindEnemy_AttackerCap(t *testing.T) {
	f := newFixture(t)
	busy := f.add("hostile busy", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 400}, false)
	spare := f.add("hostile spare", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 900}, false)

	for i := range 2 {
		h := f.ship(fighterName("wing", i), model.TeamFriendly, vecmath.Vec3{X: float64(i+1) * 50})
		f.m.SetTarget(f.state(h), busy)
		f.tick(h).setMode(&chaseState{sub: ChaseAttack})
	}
	me := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	f.w.RebuildIndex()

	assert.Equal(t, 2, f.m.NumAttacking(busy))
	assert.Equal(t, spare, f.m.FindEnemy(f.state(me), TargetQuery{MaxAttackers: 2}))
	assert.Equal(t, busy, f.m.FindEnemy(f.state(me), TargetQuery{MaxAttackers: 3}))
	assert.Equal(t, busy, f.m.FindEnemy(f.state(me), TargetQuery{}))
}

func TestFindEnemy_Filters(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	wing := f.w.AddWing("kappa", model.TeamHostile)

	arriving := f.add("arriving", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 100}, false)
	f.obj(arriving).Flags |= model.FlagArriving
	protected := f.add("protected", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 150}, false)
	f.obj(protected).Flags |= model.FlagProtected
	cruiser := f.add("cruiser", model.TeamHostile, f.cruiser, vecmath.Vec3{Z: 1200}, false)
	winged := f.add("kappa 1", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 800}, false)
	f.obj(winged).Wing = wing
	f.w.RebuildIndex()

	a := f.state(h)
	assert.Equal(t, winged, f.m.FindEnemy(a, TargetQuery{}))
	assert.Equal(t, winged, f.m.FindEnemy(a, TargetQuery{Wing: wing, FilterWing: true}))
	assert.Equal(t, cruiser, f.m.FindEnemy(a, TargetQuery{ShipClass: f.cruiser.Name}))
	assert.True(t, f.m.FindEnemy(a, TargetQuery{TeamMask: model.TeamNeutral.Mask()}).IsNone())
}

func TestFindEnemy_Stealth(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	ghost := f.add("ghost", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 600}, false)
	f.obj(ghost).Flags |= model.FlagStealth
	f.w.RebuildIndex()
	a := f.state(h)

	assert.True(t, f.m.FindEnemy(a, TargetQuery{}).IsNone(), "stealth ship out of visual range")

	f.obj(ghost).Pos = vecmath.Vec3{Z: 300}
	f.w.RebuildIndex()
	assert.Equal(t, ghost, f.m.FindEnemy(a, TargetQuery{}))

	f.add("wall", model.TeamNeutral, f.cruiser, vecmath.Vec3{Z: 150}, false)
	f.obj(ghost).Pos = vecmath.Vec3{Z: 390}
	f.w.RebuildIndex()
	assert.True(t, f.m.FindEnemy(a, TargetQuery{}).IsNone(), "no line of sight")

	a.Tuning.HuntStealth = true
	assert.Equal(t, ghost, f.m.FindEnemy(a, TargetQuery{}))
}

func TestGetNearestObject(t *testing.T) {
	f := newFixture(t)
	self := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	friend := f.add("alpha 2", model.TeamFriendly, f.fighter, vecmath.Vec3{X: 80}, false)
	f.add("hostile", model.TeamHostile, f.fighter, vecmath.Vec3{X: 50}, false)
	f.w.RebuildIndex()

	got := f.m.GetNearestObject(vecmath.Vec3{}, model.TeamFriendly.Mask(), 0, self)
	assert.Equal(t, friend, got)
	got = f.m.GetNearestObject(vecmath.Vec3{}, model.TeamFriendly.Mask(), 60, self)
	assert.True(t, got.IsNone())
}

func TestSetTarget_ResetsTracking(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	e1 := f.add("hostile 0", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 400}, false)
	e2 := f.add("hostile 1", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 800}, false)
	a := f.state(h)

	f.m.SetTarget(a, e1)
	a.aspectLock = 2
	f.m.SetTargetSubsystem(a, 0)
	require.Equal(t, 0, a.TargetSubsystem().Index)

	f.m.SetTarget(a, e1)
	assert.Equal(t, 2.0, a.AspectLock(), "retargeting the same ship keeps tracking")

	f.m.SetTarget(a, e2)
	assert.Zero(t, a.AspectLock())
	assert.Equal(t, model.NoSubsys, a.TargetSubsystem())
	assert.Equal(t, e2, a.Target())
}

func TestFindEnemy_PileUpCapOfFive(t *testing.T) {
	tests := []struct {
		name      string
		withSpare bool
	}{
		{"sixth seeker takes the other target", true},
		{"sixth seeker finds nothing", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			busy := f.add("hostile busy", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 400}, false)
			spare := model.NoHandle
			if tt.withSpare {
				spare = f.add("hostile spare", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 1500}, false)
			}
			for i := range 5 {
				h := f.ship(fighterName("wing", i), model.TeamFriendly, vecmath.Vec3{X: float64(i+1) * 50})
				f.m.SetTarget(f.state(h), busy)
				f.tick(h).setMode(&chaseState{sub: ChaseAttack})
			}
			seeker := f.ship("alpha 6", model.TeamFriendly, vecmath.Vec3{})
			a := f.state(seeker)
			a.Tuning.MaxAttackers = 5
			f.w.RebuildIndex()

			assert.Equal(t, 5, f.m.NumAttacking(busy))
			assert.Equal(t, spare, f.m.FindEnemy(a, TargetQuery{MaxAttackers: 5}))

			f.m.Process(frame)
			assert.Equal(t, 5, f.m.NumAttacking(busy), "the cap holds after a tick")
			assert.Equal(t, spare, a.Target())
			if tt.withSpare {
				assert.Equal(t, ModeChase, a.Mode())
			} else {
				assert.Equal(t, ModeNone, a.Mode())
			}
		})
	}
}
