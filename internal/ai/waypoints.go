package ai

import (
	"fmt"
	"log/slog"

	"github.com/jg18/fs2open.github.com/internal/model"
)

// waypointsState flies the waypoint list planned by FollowWaypoints.
type waypointsState struct{}

func (*waypointsState) Mode() Mode       { return ModeWaypoints }
func (*waypointsState) Submode() Submode { return Submode{Mode: ModeWaypoints} }

func (*waypointsState) frame(t *tick) {
	switch t.m.followPath(t, 1) {
	case PathComplete:
		t.m.freePath(t.a)
		t.m.goalDone(t, true)
		t.setMode(&noneState{})
	case PathNone:
		t.m.goalDone(t, false)
		t.setMode(&noneState{})
	}
}

// pathState flies a model path on another ship, for example to reach a subsystem.
type pathState struct {
	owner   model.Handle
	pathIdx int
	kind    PathKind
	speed   float64
	planned bool
}

func (*pathState) Mode() Mode       { return ModePath }
func (*pathState) Submode() Submode { return Submode{Mode: ModePath} }

func (s *pathState) frame(t *tick) {
	if !s.planned {
		s.planned = true
		if err := t.m.FindPath(t.a, s.owner, s.pathIdx, s.kind); err != nil {
			slog.Warn("planning model path", "ship", t.self.Name, "error", err)
			t.setMode(&noneState{})
			return
		}
	}
	speed := s.speed
	if speed <= 0 {
		speed = 1
	}
	if t.m.followPath(t, speed) != PathContinue {
		t.m.freePath(t.a)
		t.setMode(&noneState{})
	}
}

// FlyModelPath sends h along model path pathIdx of owner. The ship returns to mode none
// at the end of the path.
func (m *Manager) FlyModelPath(h, owner model.Handle, pathIdx int, kind PathKind) error {
	a, ok := m.State(h)
	if !ok {
		return fmt.Errorf("flying path for %s: %w", h, ErrNotRegistered)
	}
	self, ok := m.world.Get(h)
	if !ok {
		return fmt.Errorf("flying path for %s: %w", h, ErrNotRegistered)
	}
	ownerObj, ok := m.world.Get(owner)
	if !ok {
		return fmt.Errorf("flying path on %s: %w", owner, ErrNoPathData)
	}
	if _, err := modelPathPoints(ownerObj, pathIdx, kind); err != nil {
		return err
	}
	m.newTick(a, self).setMode(&pathState{owner: owner, pathIdx: pathIdx, kind: kind})
	return nil
}
