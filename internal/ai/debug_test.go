package ai

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// captureDebug routes slog into a buffer at debug level and restores the previous
// logger and tracing state when the test ends.
func captureDebug(t *testing.T, enabled bool, ship string) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	EnableDebugLogging(enabled)
	TraceShip(ship)
	t.Cleanup(func() {
		slog.SetDefault(prev)
		EnableDebugLogging(false)
		TraceShip("")
	})
	return &buf
}

func TestDebugLogging_ModeChange(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		want    bool
	}{
		{"enabled", true, true},
		{"disabled", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
			buf := captureDebug(t, tt.enabled, "")

			require.NoError(t, f.m.ForceMode(h, ModeStill))
			out := buf.String()
			assert.Equal(t, tt.want, IsDebugEnabled())
			assert.Equal(t, tt.want, bytes.Contains([]byte(out), []byte("mode change")), out)
			if tt.want {
				assert.Contains(t, out, `ship="alpha 1"`)
				assert.Contains(t, out, "submode=none")
				assert.Contains(t, out, "to=still")
			}
		})
	}
}

func TestDebugLogging_TraceShipFilters(t *testing.T) {
	f := newFixture(t)
	alpha := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{})
	beta := f.ship("beta 1", model.TeamFriendly, vecmath.Vec3{X: 100})
	buf := captureDebug(t, true, "beta 1")

	require.NoError(t, f.m.ForceMode(alpha, ModeStill))
	assert.NotContains(t, buf.String(), "alpha 1")

	require.NoError(t, f.m.ForceMode(beta, ModePlayDead))
	assert.Contains(t, buf.String(), `ship="beta 1"`)

	TraceShip("")
	require.NoError(t, f.m.ForceMode(alpha, ModePlayDead))
	assert.Contains(t, buf.String(), `ship="alpha 1"`)
}

func TestDebugLogging_DockStages(t *testing.T) {
	f := newFixture(t)
	cruiser := f.add("cruiser", model.TeamFriendly, f.cruiser, vecmath.Vec3{}, false)
	h := f.ship("alpha 1", model.TeamFriendly, vecmath.Vec3{Z: 900})
	buf := captureDebug(t, true, "alpha 1")

	g := NewGoal(GoalDock, 80)
	g.Target = cruiser
	g.DockeePoint = 0
	_, err := f.state(h).AddGoal(g)
	require.NoError(t, err)
	f.m.Process(frame)

	out := buf.String()
	assert.Contains(t, out, "goal enacted")
	assert.Contains(t, out, "dock stage")
}
