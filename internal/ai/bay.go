package ai

import (
	"fmt"
	"log/slog"

	"github.com/jg18/fs2open.github.com/internal/model"
)

// bayEmergeState flies a freshly launched ship out of its mothership's bay.
type bayEmergeState struct{}

func (*bayEmergeState) Mode() Mode       { return ModeBayEmerge }
func (*bayEmergeState) Submode() Submode { return Submode{Mode: ModeBayEmerge} }

func (*bayEmergeState) frame(t *tick) {
	if _, ok := t.obj(t.a.pathOwner); !ok || t.m.followPath(t, 1) != PathContinue {
		t.m.freePath(t.a)
		t.self.Flags &^= model.FlagArriving
		t.debug("bay emerge complete")
		t.setMode(&noneState{})
	}
}

// bayDepartState flies a departure path into the mothership's bay.
type bayDepartState struct {
	mothership model.Handle
	planned    bool
}

func (*bayDepartState) Mode() Mode       { return ModeBayDepart }
func (*bayDepartState) Submode() Submode { return Submode{Mode: ModeBayDepart} }

func (s *bayDepartState) frame(t *tick) {
	mother, ok := t.obj(s.mothership)
	if !ok || mother.Class == nil || len(mother.Class.BayPaths) == 0 {
		t.m.freePath(t.a)
		t.setMode(&warpState{sub: Warp1, bay: model.NoHandle})
		return
	}
	if !s.planned {
		s.planned = true
		if err := t.m.FindPath(t.a, s.mothership, mother.Class.BayPaths[0], PathDepart); err != nil {
			slog.Warn("planning bay departure", "ship", t.self.Name, "error", err)
			t.setMode(&warpState{sub: Warp1, bay: model.NoHandle})
			return
		}
	}
	switch t.m.followPath(t, 0.75) {
	case PathComplete:
		t.m.freePath(t.a)
		t.m.finishDepart(t, s.mothership)
	case PathNone:
		t.setMode(&warpState{sub: Warp1, bay: model.NoHandle})
	}
}

// LaunchFromBay places h at the inner end of a bay path of mothership and flies it out.
func (m *Manager) LaunchFromBay(h, mothership model.Handle, bayPath int) error {
	a, ok := m.State(h)
	if !ok {
		return fmt.Errorf("launching %s: %w", h, ErrNotRegistered)
	}
	self, ok := m.world.Get(h)
	if !ok {
		return fmt.Errorf("launching %s: %w", h, ErrNotRegistered)
	}
	mother, ok := m.world.Get(mothership)
	if !ok || mother.Class == nil || bayPath < 0 || bayPath >= len(mother.Class.BayPaths) {
		return fmt.Errorf("launching %s from %s bay %d: %w", self.Name, mothership, bayPath, ErrNoPathData)
	}
	if err := m.FindPath(a, mothership, mother.Class.BayPaths[bayPath], PathEmerge); err != nil {
		return fmt.Errorf("launching %s: %w", self.Name, err)
	}
	if first, ok := m.pathPoint(a); ok {
		self.Pos = first
	}
	self.Vel = mother.Vel
	self.Orient = mother.Orient
	self.Flags = self.Flags&^model.FlagDockedBay | model.FlagArriving
	m.newTick(a, self).setMode(&bayEmergeState{})
	slog.Info("launching from bay", "ship", self.Name, "mothership", mother.Name)
	return nil
}
