package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/testutil"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
	"github.com/jg18/fs2open.github.com/internal/world"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	h := f.add("alpha 1", model.TeamFriendly, f.fighter, vecmath.Vec3{}, false)

	id, err := f.m.Register(h, DefaultTuning())
	require.NoError(t, err)
	again, err := f.m.Register(h, DefaultTuning())
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, f.m.Count())

	_, err = f.m.Register(model.Handle{Index: 40, Sig: 999}, DefaultTuning())
	assert.ErrorIs(t, err, ErrUnknownShip)
}

func TestRegister_NoFreeSlot(t *testing.T) {
	w := world.New(8)
	cfg := DefaultConfig()
	cfg.MaxSlots = 1
	m := NewManager(w, cfg)

	h1, err := w.Add(testutil.PlaceShip("alpha 1", model.TeamFriendly, testutil.FighterClass(), vecmath.Vec3{}))
	require.NoError(t, err)
	h2, err := w.Add(testutil.PlaceShip("alpha 2", model.TeamFriendly, testutil.FighterClass(), vecmath.Vec3{X: 50}))
	require.NoError(t, err)

	_, err = m.Register(h1, DefaultTuning())
	require.NoError(t, err)
	_, err = m.Register(h2, DefaultTuning())
	assert.ErrorIs(t, err, ErrNoFreeSlot)
}

func TestRelease_StaleHandlesStopResolving(t *testing.T) {
	f := newFixture(t)
	old := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	oldID := f.state(old).slot

	f.w.Destroy(old)
	_, ok := f.m.State(old)
	assert.False(t, ok, "destroying the ship releases its slot")
	_, ok = f.m.StateBySlot(oldID)
	assert.False(t, ok)

	fresh := f.ship("alpha 2", model.TeamFriendly, vecmath.Vec3{})
	assert.Equal(t, old.Index, fresh.Index, "world slot is reused")
	assert.NotEqual(t, old.Sig, fresh.Sig)
	assert.False(t, f.w.Valid(old))

	freshID := f.state(fresh).slot
	assert.Equal(t, oldID.Index, freshID.Index)
	assert.Greater(t, freshID.Gen, oldID.Gen)
	_, ok = f.m.StateBySlot(oldID)
	assert.False(t, ok)
	_, ok = f.m.State(old)
	assert.False(t, ok)
}

func TestTickTarget_ClearsStaleTarget(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	enemy := f.add("hostile 0", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 400}, false)
	a := f.state(h)
	f.m.SetTarget(a, enemy)
	f.m.SetTargetSubsystem(a, 0)

	_, ok := f.tick(h).target()
	require.True(t, ok)

	f.w.Destroy(enemy)
	_, ok = f.tick(h).target()
	assert.False(t, ok)
	assert.True(t, a.Target().IsNone())
	assert.Equal(t, model.NoSubsys, a.TargetSubsystem())
}

func TestProcess_CallsIntegratorForLiveShips(t *testing.T) {
	f := newFixture(t)
	rec := newRecordingIntegrator()
	f.m.SetIntegrator(rec)

	a := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	b := f.ship("alpha 2", model.TeamFriendly, vecmath.Vec3{X: 100})

	for range 3 {
		f.m.Process(frame)
	}
	assert.Equal(t, 3, rec.calls[a])
	assert.Equal(t, 3, rec.calls[b])

	f.w.Destroy(b)
	f.m.Process(frame)
	assert.Equal(t, 4, rec.calls[a])
	assert.Equal(t, 3, rec.calls[b])
	assert.Equal(t, 1, f.m.Count())
}

func TestProcess_ClockIsMonotonic(t *testing.T) {
	f := newFixture(t)
	f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	f.ship("hostile 0", model.TeamHostile, vecmath.Vec3{Z: 700})

	frames := []float64{frame, 0, -1, 10, frame, 0.25, frame}
	prev := f.m.Clock().Now()
	for _, ft := range frames {
		f.m.Process(ft)
		now := f.m.Clock().Now()
		assert.GreaterOrEqual(t, now, prev, "frame %v", ft)
		prev = now
	}
}

func TestProcess_NegativeFrametimeDoesNotAdvance(t *testing.T) {
	f := newFixture(t)
	f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	f.m.Process(frame)
	before := f.m.Clock().Now()

	f.m.Process(-0.5)
	assert.Equal(t, before, f.m.Clock().Now())
	assert.Zero(t, f.m.Clock().Frametime())
}

func TestProcess_PublishesSnapshot(t *testing.T) {
	f := newFixture(t)
	f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	f.ship("alpha 2", model.TeamFriendly, vecmath.Vec3{X: 100})

	assert.Empty(t, f.m.Snapshot())
	f.m.Process(frame)
	snap := f.m.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "alpha 1", snap[0].Ship)
}

func TestRun_StopsOnStopAndCancel(t *testing.T) {
	f := newFixture(t)
	f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})

	done := make(chan error, 1)
	go func() { done <- f.m.Run(context.Background()) }()
	time.Sleep(50 * time.Millisecond)
	f.m.Stop()
	f.m.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	assert.Positive(t, f.m.Clock().Now())

	f2 := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { done <- f2.m.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNotifyHit_IdleShipFightsBack(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	friend := f.ship("alpha 2", model.TeamFriendly, vecmath.Vec3{X: 100})
	enemy := f.add("hostile 0", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 600}, false)
	a := f.state(h)

	f.m.NotifyHit(h, friend)
	assert.Equal(t, ModeNone, a.Mode(), "friendly fire does not start a fight")

	f.m.NotifyHit(h, enemy)
	assert.Equal(t, ModeChase, a.Mode())
	assert.Equal(t, enemy, a.Target())
	assert.Equal(t, enemy, a.hitter)
}

func TestNotifyHit_SmartShieldsMoveEnergy(t *testing.T) {
	f := newFixture(t)
	h := f.add("alpha 1", model.TeamFriendly, f.fighter, vecmath.Vec3{}, false)
	tuning := DefaultTuning()
	tuning.SmartShields = true
	_, err := f.m.Register(h, tuning)
	require.NoError(t, err)
	enemy := f.add("hostile 0", model.TeamHostile, f.fighter, vecmath.Vec3{Z: 600}, false)

	obj := f.obj(h)
	f.m.NotifyHit(h, enemy)
	assert.Less(t, obj.Energy, 1.0)
	assert.Positive(t, obj.Shields)

	energy := obj.Energy
	f.m.NotifyHit(h, enemy)
	assert.Equal(t, energy, obj.Energy, "shield management waits for its delay")
}

func TestNotifyDisabled_SelfDestructWithoutSupport(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	f.m.NotifyDisabled(h)
	obj := f.obj(h)
	assert.True(t, obj.Flags.Has(model.FlagDisabled))
	require.True(t, f.m.Clock().Pending(a.selfDestruct))
	secs := f.m.Clock().Until(a.selfDestruct)
	assert.GreaterOrEqual(t, secs, selfDestructMinSecs-0.001)
	assert.LessOrEqual(t, secs, selfDestructMaxSecs)

	for range 31 {
		f.m.Process(1)
	}
	assert.False(t, f.w.Valid(h))
	_, ok := f.m.State(h)
	assert.False(t, ok)
}

func TestNotifyDisabled_PlayerNeverSelfDestructs(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	f.obj(h).Flags |= model.FlagPlayer

	f.m.NotifyDisabled(h)
	assert.False(t, f.m.Clock().Pending(f.state(h).selfDestruct))
}

func TestDisabledShip_SkipsModeFrame(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	f.ship("hostile 0", model.TeamHostile, vecmath.Vec3{Z: 500})
	a := f.state(h)
	f.obj(h).Flags |= model.FlagDisabled

	for range 30 {
		f.m.Process(frame)
	}
	assert.Equal(t, ModeNone, a.Mode(), "a disabled ship does not pick fights")
	assert.Zero(t, a.LastControl().ForwardThrust)
}

func TestProcess_SelfDestructFiresOnceAcrossFrameSpikes(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)
	clock := f.m.Clock()

	destroyed := 0
	f.w.OnDestroy(func(d model.Handle, _ *model.Object) {
		if d == h {
			destroyed++
		}
	})

	f.m.NotifyDisabled(h)
	due := a.selfDestruct
	require.True(t, clock.Pending(due))

	frames := []float64{0, frame, 7, 0, -1, frame, 7, 0, 7, frame}
	for range 10 {
		for _, ft := range frames {
			f.m.Process(ft)
			if !clock.Elapsed(due) {
				require.Zero(t, destroyed, "fired early at %v, due %v", clock.Now(), due)
			} else {
				require.Equal(t, 1, destroyed, "at %v, due %v", clock.Now(), due)
			}
		}
	}
	assert.Equal(t, 1, destroyed)
	assert.False(t, f.w.Valid(h))
}
