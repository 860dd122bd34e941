package ai

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/testutil"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
	"github.com/jg18/fs2open.github.com/internal/world"
)

const frame = 1.0 / 30

type fixture struct {
	tb testing.TB
	w  *world.World
	m  *Manager

	fighter *model.ShipClass
	cruiser *model.ShipClass
	support *model.ShipClass
}

func newFixture(tb testing.TB) *fixture {
	tb.Helper()
	w := world.New(256)
	cfg := DefaultConfig()
	cfg.MaxSlots = 128
	cfg.Seed = 42
	return &fixture{
		tb:      tb,
		w:       w,
		m:       NewManager(w, cfg),
		fighter: testutil.FighterClass(),
		cruiser: testutil.CruiserClass(),
		support: testutil.SupportClass(),
	}
}

// ship adds and registers a fighter.
func (f *fixture) ship(name string, team model.Team, pos vecmath.Vec3) model.Handle {
	f.tb.Helper()
	return f.add(name, team, f.fighter, pos, true)
}

func (f *fixture) add(name string, team model.Team, class *model.ShipClass, pos vecmath.Vec3, register bool) model.Handle {
	f.tb.Helper()
	h, err := f.w.Add(testutil.PlaceShip(name, team, class, pos))
	require.NoError(f.tb, err)
	if register {
		_, err = f.m.Register(h, DefaultTuning())
		require.NoError(f.tb, err)
	}
	return h
}

func (f *fixture) state(h model.Handle) *AIState {
	f.tb.Helper()
	a, ok := f.m.State(h)
	require.True(f.tb, ok, "no AI state for %s", h)
	return a
}

func (f *fixture) obj(h model.Handle) *model.Object {
	f.tb.Helper()
	o, ok := f.w.Get(h)
	require.True(f.tb, ok, "no object for %s", h)
	return o
}

// tick builds a frame context for direct calls into mode code.
func (f *fixture) tick(h model.Handle) *tick {
	f.tb.Helper()
	return f.m.newTick(f.state(h), f.obj(h))
}

func fighterName(team string, i int) string {
	return fmt.Sprintf("%s %d", team, i)
}

// recordingIntegrator counts Apply calls and leaves poses alone.
type recordingIntegrator struct {
	calls map[model.Handle]int
	last  map[model.Handle]model.ControlInfo
}

func newRecordingIntegrator() *recordingIntegrator {
	return &recordingIntegrator{
		calls: make(map[model.Handle]int),
		last:  make(map[model.Handle]model.ControlInfo),
	}
}

func (r *recordingIntegrator) Apply(obj *model.Object, ci model.ControlInfo, _ float64) {
	r.calls[obj.Handle()]++
	r.last[obj.Handle()] = ci
}

// teleportIntegrator jumps each ship onto its current path point, so path traversal
// can be tested without a flight model.
type teleportIntegrator struct {
	m *Manager
}

func (p teleportIntegrator) Apply(obj *model.Object, _ model.ControlInfo, _ float64) {
	a, ok := p.m.State(obj.Handle())
	if !ok {
		return
	}
	if pt, ok := p.m.pathPoint(a); ok {
		obj.Pos = pt
	}
}
