package ai

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// ErrNoSupportShip is returned by RequestRearm when no support ship is available.
var ErrNoSupportShip = errors.New("ai: no support ship available")

const (
	dockAlignDot        = 0.97
	dockFinalSpeed      = 20.0
	dockRepairRate      = 0.05 // hull fraction per second
	dockRechargeRate    = 0.2  // fuel and energy fraction per second
	undockBackoffSecs   = 5.0
	undockClearSecs     = 8.0
	rearmRequestMillis  = 5000
	rearmAbortMillis    = 60000
	rearmGoalPriority   = 200
)

// dockState runs a dock or undock sequence. Every frame evaluates only the exit
// condition of the current stage, so at most one stage is advanced per tick.
type dockState struct {
	stage      DockStage
	dockee     model.Handle
	dockerPt   int
	dockeePt   int
	rearm      bool
	undockDir  vecmath.Vec3
	undockFrom vecmath.Vec3
}

func (*dockState) Mode() Mode { return ModeDock }

func (s *dockState) Submode() Submode {
	return Submode{Mode: ModeDock, Code: int(s.stage), Name: s.stage.String()}
}

func (s *dockState) setStage(t *tick, stage DockStage) {
	t.submodeChanged()
	s.stage = stage
	t.debug("dock stage", "stage", stage.String())
}

// geometry returns the dock point position and outward normal in world space, and the
// docker reference point (its own dock point, or its center).
func (s *dockState) geometry(t *tick, dockee *model.Object) (pos, norm, ref vecmath.Vec3, ok bool) {
	if dockee.Class == nil || len(dockee.Class.DockPoints) == 0 {
		return pos, norm, ref, false
	}
	idx := max(s.dockeePt, 0)
	if idx >= len(dockee.Class.DockPoints) {
		return pos, norm, ref, false
	}
	dp := dockee.Class.DockPoints[idx]
	pos = dockee.Orient.Transform(dockee.Pos, dp.Pos)
	norm = vecmath.Normalize(dockee.Orient.Rotate(dp.Norm))
	if vecmath.IsZero(norm) {
		norm = dockee.Orient.F
	}

	ref = t.self.Pos
	if c := t.self.Class; c != nil && s.dockerPt >= 0 && s.dockerPt < len(c.DockPoints) {
		ref = t.self.Orient.Transform(t.self.Pos, c.DockPoints[s.dockerPt].Pos)
	}
	return pos, norm, ref, true
}

func (t *tick) dockApproachDist() float64 {
	return 2*t.self.Radius + 20
}

func (s *dockState) frame(t *tick) {
	if s.stage >= Undock0 {
		s.undockFrame(t)
		return
	}

	dockee, ok := t.obj(s.dockee)
	if !ok {
		s.fail(t, "dockee gone")
		return
	}
	dockPos, norm, ref, ok := s.geometry(t, dockee)
	if !ok {
		s.fail(t, "dockee has no dock point")
		return
	}
	st := t.steer()
	approachDist := t.dockApproachDist()
	approach := vecmath.ScaleAdd(dockPos, norm, approachDist)
	inApproach := vecmath.Dist(ref, dockPos) <= approachDist*1.1+1
	facing := vecmath.ScaleAdd(t.self.Pos, norm, -1000)

	switch s.stage {
	case Dock0:
		if occ, taken := t.world().DockPointOccupant(dockee.Handle(), max(s.dockeePt, 0)); taken && occ != t.self.Handle() {
			st.Accelerate(0)
			return
		}
		if pathIdx := dockee.Class.DockPoints[max(s.dockeePt, 0)].Path; pathIdx >= 0 {
			if err := t.m.FindPath(t.a, dockee.Handle(), pathIdx, PathGeneric); err != nil {
				t.debug("dock path unavailable, flying direct", "error", err)
			}
		}
		s.setStage(t, Dock1)

	case Dock1:
		if t.a.pathLen > 0 && !inApproach {
			if t.m.followPath(t, 1) != PathComplete {
				return
			}
			t.m.freePath(t.a)
			s.setStage(t, Dock2)
			return
		}
		if inApproach || vecmath.Dist(t.self.Pos, approach) < t.self.Radius {
			t.m.freePath(t.a)
			s.setStage(t, Dock2)
			return
		}
		st.TurnTowardsPoint(approach, vecmath.Vec3{}, 0, 0)
		st.SetSpeed(min(vecmath.Dist(t.self.Pos, approach)*0.5, t.maxSpeed()))

	case Dock2:
		dot := st.TurnTowardsPoint(facing, vecmath.Vec3{}, 0, TurnIgnoreBank)
		if dot > dockAlignDot && inApproach {
			s.setStage(t, Dock3)
			return
		}
		st.Accelerate(0)
		if !inApproach {
			st.Slide(vecmath.Sub(approach, t.self.Pos))
		}

	case Dock3:
		dist := vecmath.Dist(ref, dockPos)
		if dist < max(t.self.Radius*0.1, 2) {
			s.attach(t, dockee)
			return
		}
		st.TurnTowardsPoint(facing, vecmath.Vec3{}, 0, TurnIgnoreBank)
		st.SetSpeed(min(dist, dockFinalSpeed))
		lateral := vecmath.Reject(vecmath.Sub(dockPos, ref), vecmath.Scale(norm, -1))
		if vecmath.Mag(lateral) > 1 {
			st.Slide(lateral)
		}

	case Dock4:
		s.holdDocked(t, dockee, dockPos, ref)
		s.service(t)

	case Dock4A:
		s.holdDocked(t, dockee, dockPos, ref)
	}
}

// attach registers the dock in the world and moves on to the docked stage.
func (s *dockState) attach(t *tick, dockee *model.Object) {
	if err := t.world().Dock(t.self.Handle(), s.dockerPt, dockee.Handle(), max(s.dockeePt, 0)); err != nil {
		slog.Warn("docking", "ship", t.self.Name, "dockee", dockee.Name, "error", err)
		s.setStage(t, Dock0)
		return
	}
	t.self.Vel = dockee.Vel
	if s.rearm {
		s.setStage(t, Dock4)
		return
	}
	s.setStage(t, Dock4A)
	if t.a.activeGoalType() == GoalDock {
		t.m.goalDone(t, true)
	}
}

// holdDocked keeps the docker rigidly attached to the dockee.
func (s *dockState) holdDocked(t *tick, dockee *model.Object, dockPos, ref vecmath.Vec3) {
	t.stopAfterburner()
	t.steer().Stop()
	t.self.Vel = dockee.Vel
	t.self.RotVel = vecmath.Vec3{}
	t.self.Pos = vecmath.Add(t.self.Pos, vecmath.Sub(dockPos, ref))
}

// service repairs and refuels the serviced ship; when it is topped up the support
// ship undocks.
func (s *dockState) service(t *tick) {
	other, ok := t.obj(s.dockee)
	if !ok {
		s.setStage(t, Undock0)
		return
	}
	if oa, ok := t.m.State(other.Handle()); ok {
		oa.Flags |= AIFBeingRepaired
	}
	other.Hull = min(other.MaxHull, other.Hull+other.MaxHull*dockRepairRate*t.dt)
	other.AfterburnerFuel = min(1, other.AfterburnerFuel+dockRechargeRate*t.dt)
	other.Energy = min(1, other.Energy+dockRechargeRate*t.dt)
	for i := range other.Subsystems {
		ss := &other.Subsystems[i]
		ss.Hits = min(ss.Template.MaxHits, ss.Hits+ss.Template.MaxHits*dockRepairRate*t.dt)
	}
	if other.HullFraction() < 1 || other.AfterburnerFuel < 1 || other.Energy < 1 {
		return
	}
	t.m.finishRearm(other.Handle())
	if t.a.activeGoalType() == GoalRearmRepair {
		t.m.goalDone(t, true)
	}
	s.setStage(t, Undock0)
}

func (s *dockState) fail(t *tick, reason string) {
	slog.Info("dock aborted", "ship", t.self.Name, "reason", reason)
	t.a.Flags &^= AIFRepairing
	t.m.freePath(t.a)
	if g := t.a.activeGoalType(); g == GoalDock || g == GoalRearmRepair {
		t.m.goalDone(t, false)
	}
	t.setMode(&noneState{})
}

func (s *dockState) undockFrame(t *tick) {
	st := t.steer()
	switch s.stage {
	case Undock0:
		s.undockDir = vecmath.Scale(t.self.Orient.F, -1)
		if dockee, ok := t.obj(s.dockee); ok {
			if _, norm, _, ok := s.geometry(t, dockee); ok {
				s.undockDir = norm
			}
		}
		if _, docked := t.world().DockedWith(t.self.Handle()); docked {
			if err := t.world().Undock(t.self.Handle()); err != nil {
				slog.Warn("undocking", "ship", t.self.Name, "error", err)
			}
		}
		s.undockFrom = t.self.Pos
		s.setStage(t, Undock1)

	case Undock1:
		if vecmath.Dist(t.self.Pos, s.undockFrom) > t.self.Radius*2 || t.inSubmode() > undockBackoffSecs {
			s.setStage(t, Undock2)
			return
		}
		st.Accelerate(0)
		st.Slide(s.undockDir)

	case Undock2:
		clearDist := t.self.Radius * 3
		if dockee, ok := t.obj(s.dockee); ok {
			clearDist += dockee.Radius
			if vecmath.Dist(t.self.Pos, dockee.Pos) > clearDist || t.inSubmode() > undockClearSecs {
				s.setStage(t, Undock3)
				return
			}
		} else {
			s.setStage(t, Undock3)
			return
		}
		st.TurnTowardsPoint(vecmath.ScaleAdd(t.self.Pos, s.undockDir, 1000), vecmath.Vec3{}, 0, 0)
		st.Accelerate(0.5)

	case Undock3:
		if t.inSubmode() > 1 {
			s.setStage(t, Undock4)
			return
		}
		st.TurnTowardsPoint(vecmath.ScaleAdd(t.self.Pos, s.undockDir, 1000), vecmath.Vec3{}, 0, 0)
		st.Accelerate(1)

	case Undock4:
		t.a.Flags &^= AIFRepairing
		if t.a.activeGoalType() == GoalUndock {
			t.m.goalDone(t, true)
		}
		t.setMode(&noneState{})
	}
}

// beRearmedState waits for a support ship to dock and service the ship.
type beRearmedState struct{}

func (*beRearmedState) Mode() Mode       { return ModeBeRearmed }
func (*beRearmedState) Submode() Submode { return Submode{Mode: ModeBeRearmed} }

func (*beRearmedState) frame(t *tick) {
	a := t.a
	support, ok := t.obj(a.supportShip)
	if !ok || (t.clock().Elapsed(a.abortRearm) && !a.Flags.Has(AIFBeingRepaired)) {
		t.m.abortRearm(t)
		return
	}
	st := t.steer()
	if link, docked := t.world().DockedWith(support.Handle()); docked && link.Dockee == t.self.Handle() {
		t.stopAfterburner()
		st.Stop()
		t.self.Vel = vecmath.Vec3{}
		return
	}
	st.Accelerate(0)
	if t.self.Speed() > 1 {
		st.Slide(vecmath.Scale(t.self.Vel, -1))
	}
}

// RequestRearm asks the nearest idle friendly support ship to come and service h.
func (m *Manager) RequestRearm(h model.Handle) error {
	a, ok := m.State(h)
	if !ok {
		return fmt.Errorf("rearm request from %s: %w", h, ErrNotRegistered)
	}
	self, ok := m.world.Get(h)
	if !ok {
		return fmt.Errorf("rearm request from %s: %w", h, ErrNotRegistered)
	}
	if m.clock.Pending(a.nextRearmRequest) {
		return nil
	}
	a.nextRearmRequest = m.clock.In(rearmRequestMillis)

	support := m.findSupportShip(self)
	sa, ok := m.State(support)
	if !ok {
		return fmt.Errorf("rearm request from %s: %w", self.Name, ErrNoSupportShip)
	}

	g := NewGoal(GoalRearmRepair, rearmGoalPriority)
	g.Target = h
	g.TargetName = self.Name
	if _, err := sa.AddGoal(g); err != nil {
		return fmt.Errorf("rearm request from %s: %w", self.Name, err)
	}
	sa.goalCheck = m.clock.Now()

	a.supportShip = support
	a.Flags |= AIFAwaitingRepair
	a.abortRearm = m.clock.In(rearmAbortMillis)
	t := m.newTick(a, self)
	t.setMode(&beRearmedState{})
	slog.Info("rearm requested", "ship", self.Name, "support", support)
	return nil
}

// findSupportShip returns the nearest friendly support ship that is not already busy.
func (m *Manager) findSupportShip(self *model.Object) model.Handle {
	best := model.NoHandle
	bestDist := -1.0
	m.world.ForEachShip(func(obj *model.Object) bool {
		if obj.Class == nil || !obj.Class.IsSupport() || obj.Team != self.Team || obj.IsDead() {
			return true
		}
		sa, ok := m.State(obj.Handle())
		if !ok || sa.Flags.Has(AIFRepairing) || FindGoalIndex(sa.goals[:], GoalRearmRepair, AnyPriority) != GoalNone {
			return true
		}
		d := vecmath.DistSq(self.Pos, obj.Pos)
		if bestDist < 0 || d < bestDist {
			best, bestDist = obj.Handle(), d
		}
		return true
	})
	return best
}

// AbortRearm cancels a pending or running rearm of h.
func (m *Manager) AbortRearm(h model.Handle) {
	a, ok := m.State(h)
	if !ok {
		return
	}
	self, ok := m.world.Get(h)
	if !ok {
		return
	}
	m.abortRearm(m.newTick(a, self))
}

func (m *Manager) abortRearm(t *tick) {
	a := t.a
	if sa, ok := m.State(a.supportShip); ok {
		for i := range sa.goals {
			if sa.goals[i].Type == GoalRearmRepair && sa.goals[i].Target == t.self.Handle() {
				sa.RemoveGoal(i)
			}
		}
		if d, ok := sa.mode.(*dockState); ok && d.dockee == t.self.Handle() && d.stage < Undock0 {
			if support, ok := m.world.Get(a.supportShip); ok {
				st := m.newTick(sa, support)
				if d.stage == Dock4 {
					d.setStage(st, Undock0)
				} else {
					st.setMode(&noneState{})
				}
			}
		}
	}
	slog.Info("rearm aborted", "ship", t.self.Name)
	m.clearRearm(a)
	if a.Mode() == ModeBeRearmed {
		t.setMode(&noneState{})
	}
}

// finishRearm releases a serviced ship back to its goals.
func (m *Manager) finishRearm(h model.Handle) {
	a, ok := m.State(h)
	if !ok {
		return
	}
	self, ok := m.world.Get(h)
	if !ok {
		return
	}
	m.clearRearm(a)
	if a.Mode() == ModeBeRearmed {
		m.newTick(a, self).setMode(&noneState{})
	}
	slog.Info("rearm complete", "ship", self.Name)
}

func (m *Manager) clearRearm(a *AIState) {
	a.Flags &^= AIFAwaitingRepair | AIFBeingRepaired
	a.supportShip = model.NoHandle
	a.abortRearm = timestamp.Invalid
}
