package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

func TestSetOverride_AxesExpireIndependently(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	ci := model.ControlInfo{Pitch: 0.3, Heading: -0.2, ForwardThrust: 0.7}
	require.NoError(t, f.m.SetOverride(h, ci, OverridePitch|OverrideForward, time.Second, 500*time.Millisecond))

	f.m.Process(0.25)
	got := a.LastControl()
	assert.Equal(t, 0.3, got.Pitch)
	assert.Equal(t, 0.7, got.ForwardThrust)
	assert.Zero(t, got.Heading, "axes outside the flags are left to the AI")

	f.m.Process(0.25)
	got = a.LastControl()
	assert.Zero(t, got.Pitch, "rotational override expired")
	assert.Equal(t, 0.7, got.ForwardThrust)

	f.m.Process(0.5)
	assert.Zero(t, a.LastControl().ForwardThrust)
	assert.Zero(t, a.override.flags, "channel resets once both sides expire")
}

func TestSetOverride_NeverExpire(t *testing.T) {
	f := newFixture(t)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	a := f.state(h)

	ci := model.ControlInfo{Bank: 0.5, SideThrust: -1}
	flags := OverrideBank | OverrideSide | OverrideLateralNeverExpire | OverrideRotationalNeverExpire
	require.NoError(t, f.m.SetOverride(h, ci, flags, 0, 0))

	for range 10 {
		f.m.Process(1)
	}
	assert.Equal(t, 0.5, a.LastControl().Bank)
	assert.Equal(t, -1.0, a.LastControl().SideThrust)

	f.m.ClearOverride(h)
	f.m.Process(frame)
	assert.Zero(t, a.LastControl().Bank)
	assert.Zero(t, a.LastControl().SideThrust)
}

func TestSetOverride_ReachesIntegrator(t *testing.T) {
	f := newFixture(t)
	rec := newRecordingIntegrator()
	f.m.SetIntegrator(rec)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})

	require.NoError(t, f.m.SetOverride(h, model.ControlInfo{VertThrust: 1}, OverrideVert, time.Second, 0))
	f.m.Process(frame)
	assert.Equal(t, 1.0, rec.last[h].VertThrust)
}

func TestSetOverride_UnknownShip(t *testing.T) {
	f := newFixture(t)
	err := f.m.SetOverride(model.Handle{Index: 7, Sig: 9}, model.ControlInfo{}, OverridePitch, 0, time.Second)
	assert.ErrorIs(t, err, ErrNotRegistered)
	f.m.ClearOverride(model.Handle{Index: 7, Sig: 9})
}
