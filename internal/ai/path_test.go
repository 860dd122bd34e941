package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

func TestPathArena_AllocFree(t *testing.T) {
	p := NewPathArena(10)
	assert.Equal(t, 10, p.Cap())

	a, err := p.Alloc(4)
	require.NoError(t, err)
	b, err := p.Alloc(3)
	require.NoError(t, err)
	c, err := p.Alloc(3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 7}, []int{a, b, c})
	assert.Zero(t, p.Available())

	_, err = p.Alloc(1)
	assert.ErrorIs(t, err, ErrArenaFull)

	p.Free(a, 4)
	p.Free(c, 3)
	assert.Equal(t, 7, p.Available())
	_, err = p.Alloc(5)
	assert.ErrorIs(t, err, ErrArenaFull, "free space is split in two runs")

	p.Free(b, 3)
	got, err := p.Alloc(10)
	require.NoError(t, err, "freeing the middle run coalesces the arena")
	assert.Zero(t, got)

	_, err = p.Alloc(0)
	assert.Error(t, err)
}

func TestPathArena_FreeClearsPoints(t *testing.T) {
	p := NewPathArena(4)
	start, err := p.Alloc(2)
	require.NoError(t, err)
	p.Set(start+1, PathPoint{Pos: vecmath.Vec3{X: 5}, Path: 2, Vert: 1})
	assert.Equal(t, 5.0, p.Point(start+1).Pos.X)

	p.Free(start, 2)
	assert.Equal(t, PathPoint{}, p.Point(start+1))
}

func addWaypoints(t *testing.T, f *fixture, n int) int {
	t.Helper()
	pts := make([]vecmath.Vec3, n)
	for i := range pts {
		pts[i] = vecmath.Vec3{Z: float64(i+1) * 1000}
	}
	list, err := f.w.AddWaypointList("nav", pts)
	require.NoError(t, err)
	return list
}

func TestStepPath_Once(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)
	require.NoError(t, f.m.FollowWaypoints(a, addWaypoints(t, f, 4), 0))

	for i := range 3 {
		reached, st := a.StepPath()
		assert.Equal(t, i, reached)
		assert.Equal(t, PathContinue, st)
	}
	reached, st := a.StepPath()
	assert.Equal(t, 3, reached)
	assert.Equal(t, PathComplete, st)
}

func TestStepPath_Repeat(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)
	require.NoError(t, f.m.FollowWaypoints(a, addWaypoints(t, f, 3), WPFRepeat))

	for range 3 {
		_, st := a.StepPath()
		require.Equal(t, PathContinue, st)
	}
	assert.Zero(t, a.PathCursor(), "wrapped to the first point")
}

func TestStepPath_Backtrack(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)
	require.NoError(t, f.m.FollowWaypoints(a, addWaypoints(t, f, 3), WPFBacktrack))

	var visited []int
	for {
		reached, st := a.StepPath()
		visited = append(visited, reached)
		if st == PathComplete {
			break
		}
		require.Less(t, len(visited), 10)
	}
	assert.Equal(t, []int{0, 1, 2, 1, 0}, visited)
}

func TestStepPath_EmptyPath(t *testing.T) {
	a := newAIState(model.Handle{Index: 0, Sig: 1}, SlotID{}, DefaultTuning(), 0)
	reached, st := a.StepPath()
	assert.Equal(t, -1, reached)
	assert.Equal(t, PathNone, st)
}

func TestFindPath_DepartRunsBackward(t *testing.T) {
	f := newFixture(t)
	carrier := f.add("carrier", model.TeamFriendly, f.cruiser, vecmath.Vec3{X: 5000}, false)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	require.NoError(t, f.m.FindPath(a, carrier, 2, PathDepart))
	assert.Equal(t, 3, a.PathLen())
	assert.Equal(t, PathBackward, a.PathDirection())
	assert.Equal(t, 2, a.PathCursor())

	pt, ok := f.m.pathPoint(a)
	require.True(t, ok)
	assert.InDelta(t, -400, pt.Y, 1e-9)
	end, _ := f.m.pathTerminal(a)
	assert.InDelta(t, -50, end.Y, 1e-9)
	assert.InDelta(t, 5000, end.X, 1e-9)
}

func TestFindPath_SubsystemAddsStandoff(t *testing.T) {
	f := newFixture(t)
	cruiser := f.add("cruiser", model.TeamHostile, f.cruiser, vecmath.Vec3{}, false)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{Z: 2000})
	a := f.state(h)

	require.NoError(t, f.m.FindPath(a, cruiser, 1, PathSubsystem))
	require.Equal(t, 3, a.PathLen())

	end, _ := f.m.pathTerminal(a)
	ss, _ := f.obj(cruiser).SubsystemWorldPos(0)
	assert.InDelta(t, SubsysPathDist, vecmath.Dist(end, ss), 1e-6)
	assert.Greater(t, end.Y, ss.Y, "standoff lies beyond the last path vertex")
}

func TestFindPath_NoPathData(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	other := f.ship("alpha 2", model.TeamFriendly, vecmath.Vec3{X: 100})
	a := f.state(h)

	assert.ErrorIs(t, f.m.FindPath(a, other, 0, PathGeneric), ErrNoPathData)
	assert.ErrorIs(t, f.m.FindPath(a, model.Handle{Index: 50, Sig: 77}, 0, PathGeneric), ErrNoPathData)
	assert.ErrorIs(t, f.m.FollowWaypoints(a, 12, 0), ErrNoPathData)
	assert.Zero(t, a.PathLen())
}

func TestFindPath_ReplacesPreviousRun(t *testing.T) {
	f := newFixture(t)
	cruiser := f.add("cruiser", model.TeamFriendly, f.cruiser, vecmath.Vec3{}, false)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{Z: 2000})
	a := f.state(h)
	total := f.m.arena.Available()

	require.NoError(t, f.m.FindPath(a, cruiser, 0, PathGeneric))
	assert.Equal(t, total-3, f.m.arena.Available())
	require.NoError(t, f.m.FindPath(a, cruiser, 2, PathGeneric))
	assert.Equal(t, total-3, f.m.arena.Available(), "the old run is freed first")

	f.m.Release(h)
	assert.Equal(t, total, f.m.arena.Available())
}

func TestMaybeReplanPath_OwnerMoved(t *testing.T) {
	f := newFixture(t)
	cruiser := f.add("cruiser", model.TeamFriendly, f.cruiser, vecmath.Vec3{}, false)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{Z: 2000})
	a := f.state(h)
	require.NoError(t, f.m.FindPath(a, cruiser, 0, PathGeneric))

	f.m.Clock().Advance(0.5)
	assert.False(t, f.m.maybeReplanPath(f.tick(h)), "owner has not moved")

	f.obj(cruiser).Pos = vecmath.Vec3{X: 300}
	f.m.Clock().Advance(0.5)
	require.True(t, f.m.maybeReplanPath(f.tick(h)))

	pt, _ := f.m.pathPoint(a)
	assert.InDelta(t, 300, pt.X, 1e-9)
	assert.Equal(t, 0, a.PathCursor(), "nearest point to the ship is the outermost vertex")
}
