package ai

import (
	"log/slog"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

const (
	warpClearDist     = 500.0
	warpAlignDot      = 0.99
	warpClearSecs     = 10.0
	warpAccelSecs     = 5.0
	warpCommitMillis  = 2000
	warpForceMillis   = 15000
	bayApproachRadius = 3.0 // multiples of the mothership radius
)

// DepartFunc is called when a ship leaves the battle. via is the mothership for a
// bay departure and NoHandle for a warp-out.
type DepartFunc func(ship *model.Object, via model.Handle)

// warpState takes a ship out of the battle, by warp or through a fighter bay.
// Every entry into the mode gets its own force deadline.
type warpState struct {
	sub     WarpSubmode
	bay     model.Handle
	dir     vecmath.Vec3
	done    bool
	armed   bool
	forceAt timestamp.Stamp
}

func (*warpState) Mode() Mode { return ModeWarpOut }

func (s *warpState) Submode() Submode {
	return Submode{Mode: ModeWarpOut, Code: int(s.sub), Name: s.sub.String()}
}

func (s *warpState) setSub(t *tick, sub WarpSubmode) {
	if s.sub == sub {
		return
	}
	t.submodeChanged()
	s.sub = sub
	t.debug("warp stage", "stage", sub.String())
}

func (s *warpState) frame(t *tick) {
	a := t.a
	self := t.self
	st := t.steer()
	if !s.armed {
		s.forceAt = t.clock().In(warpForceMillis)
		s.armed = true
	}
	forced := t.clock().Elapsed(s.forceAt)

	switch s.sub {
	case DepartToBay:
		bay, ok := t.obj(s.bay)
		if !ok || bay.Class == nil || len(bay.Class.BayPaths) == 0 {
			s.setSub(t, Warp1)
			return
		}
		if vecmath.Dist(self.Pos, bay.Pos) < bay.Radius*bayApproachRadius {
			t.setMode(&bayDepartState{mothership: bay.Handle()})
			return
		}
		st.TurnTowardsPoint(bay.Pos, vecmath.Vec3{}, 0, 0)
		st.Accelerate(1)

	case Warp1:
		ahead := vecmath.ScaleAdd(self.Pos, self.Orient.F, self.Radius*10+warpClearDist)
		blocker, blocked := t.world().Obstructed(self.Pos, ahead, self.Handle())
		if !blocked || forced || t.inSubmode() > warpClearSecs {
			s.dir = self.Orient.F
			s.setSub(t, Warp2)
			return
		}
		if obj, ok := t.obj(blocker); ok {
			s.dir = vecmath.Normalize(vecmath.Sub(self.Pos, obj.Pos))
			st.TurnTowardsPoint(vecmath.ScaleAdd(self.Pos, s.dir, 1000), vecmath.Vec3{}, 0, 0)
		}
		st.Accelerate(0.5)

	case Warp2:
		dot := st.TurnTowardsPoint(vecmath.ScaleAdd(self.Pos, s.dir, 1000), vecmath.Vec3{}, 0, 0)
		if dot > warpAlignDot || forced {
			s.setSub(t, Warp3)
			return
		}
		st.Accelerate(0.5)

	case Warp3:
		st.TurnTowardsPoint(vecmath.ScaleAdd(self.Pos, s.dir, 1000), vecmath.Vec3{}, 0, 0)
		st.Accelerate(1)
		if self.Speed() >= t.maxSpeed()*0.9 || t.inSubmode() > warpAccelSecs || forced {
			a.warpOut = t.clock().In(warpCommitMillis)
			s.setSub(t, Warp4)
		}

	case Warp4:
		st.TurnTowardsPoint(vecmath.ScaleAdd(self.Pos, s.dir, 1000), vecmath.Vec3{}, 0, TurnIgnoreBank)
		st.Accelerate(1)
		if t.clock().Elapsed(a.warpOut) {
			s.setSub(t, Warp5)
		}

	case Warp5:
		st.Accelerate(1)
		if !s.done {
			s.done = true
			t.m.finishDepart(t, model.NoHandle)
		}
	}
}

// finishDepart removes a ship from the battle at the end of this frame.
func (m *Manager) finishDepart(t *tick, via model.Handle) {
	self := t.self
	self.Flags |= model.FlagDeparting
	m.departed[self.Name] = true
	if t.a.activeGoalType() == GoalWarp {
		m.goalDone(t, true)
	}
	if m.depart != nil {
		m.depart(self, via)
	}
	m.pendingRemoval = append(m.pendingRemoval, self.Handle())
	slog.Info("ship departed", "ship", self.Name, "via", via)
}

// Departed reports whether a ship with the given name has left the battle.
func (m *Manager) Departed(name string) bool {
	return m.departed[name]
}
