package ai

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// ErrNoPathData is returned when the model or path needed for planning is missing.
// Callers fly directly to their goal instead.
var ErrNoPathData = errors.New("ai: no path data")

// PathKind selects how a model path is copied into the arena.
type PathKind uint8

const (
	PathGeneric   PathKind = iota
	PathEmerge             // bay launch, traversed forward
	PathDepart             // bay departure, traversed backward
	PathSubsystem          // approach to a subsystem, with a standoff point appended
	PathWaypoints          // copied from a mission waypoint list
)

// PathStatus is the result of one traversal step.
type PathStatus uint8

const (
	PathNone PathStatus = iota
	PathContinue
	PathComplete
)

// Traversal directions.
const (
	PathForward  = 1
	PathBackward = -1
)

// WaypointFlags control how a path is traversed past its ends.
type WaypointFlags uint8

const (
	WPFRepeat    WaypointFlags = 1 << iota // wrap around to the first point
	WPFBacktrack                           // reverse at the end
)

const (
	// SubsysPathDist is how far from a subsystem the standoff point is placed.
	SubsysPathDist = 500.0

	PathReplanDist   = 100.0 // path owner moved this far since planning
	PathReplanDot    = 0.98  // or rotated below this forward-vector alignment
	PathGoalMoveDist = 50.0  // terminal point moved this far at a periodic check

	pathCheckMillis  = 1000
	pathCreateMillis = 500
)

// PathLen returns the number of points in the ship's current path.
func (a *AIState) PathLen() int { return a.pathLen }

// PathCursor returns the index of the point the ship is flying to, relative to the run.
func (a *AIState) PathCursor() int { return a.pathCur }

// PathDirection returns PathForward or PathBackward.
func (a *AIState) PathDirection() int { return a.pathDir }

// StepPath marks the current point as reached and moves the cursor in the traversal
// direction. It returns the index that was reached and whether the path continues.
func (a *AIState) StepPath() (int, PathStatus) {
	if a.pathLen <= 0 {
		return -1, PathNone
	}
	reached := a.pathCur
	next := reached + a.pathDir
	if next >= 0 && next < a.pathLen {
		a.pathCur = next
		return reached, PathContinue
	}

	if a.pathFlags&WPFBacktrack != 0 && (a.pathDir == PathForward || a.pathFlags&WPFRepeat != 0) {
		a.pathDir = -a.pathDir
		if a.pathLen > 1 {
			a.pathCur = reached + a.pathDir
		}
		return reached, PathContinue
	}
	if a.pathFlags&WPFRepeat != 0 {
		if a.pathDir == PathForward {
			a.pathCur = 0
		} else {
			a.pathCur = a.pathLen - 1
		}
		return reached, PathContinue
	}
	return reached, PathComplete
}

// freePath returns the ship's run to the arena.
func (m *Manager) freePath(a *AIState) {
	if a.pathStart >= 0 && a.pathLen > 0 {
		m.arena.Free(a.pathStart, a.pathLen)
	}
	a.pathStart = -1
	a.pathLen = 0
	a.pathCur = 0
	a.pathDir = PathForward
	a.pathFlags = 0
	a.pathOwner = model.NoHandle
	a.pathModel = -1
	a.pathWaypointList = -1
	a.pathBlocked = false
}

// pathPoint returns the world position of the current path point.
func (m *Manager) pathPoint(a *AIState) (vecmath.Vec3, bool) {
	if a.pathLen <= 0 || a.pathStart < 0 {
		return vecmath.Vec3{}, false
	}
	return m.arena.Point(a.pathStart + a.pathCur).Pos, true
}

// pathTerminal returns the last point in traversal direction.
func (m *Manager) pathTerminal(a *AIState) (vecmath.Vec3, bool) {
	if a.pathLen <= 0 || a.pathStart < 0 {
		return vecmath.Vec3{}, false
	}
	end := a.pathLen - 1
	if a.pathDir == PathBackward {
		end = 0
	}
	return m.arena.Point(a.pathStart + end).Pos, true
}

// modelPathPoints computes the world points of a model path on owner.
func modelPathPoints(owner *model.Object, pathIdx int, kind PathKind) ([]PathPoint, error) {
	if owner.Class == nil || pathIdx < 0 || pathIdx >= len(owner.Class.Paths) {
		return nil, fmt.Errorf("path %d on %s: %w", pathIdx, owner.Name, ErrNoPathData)
	}
	mp := owner.Class.Paths[pathIdx]
	if len(mp.Verts) == 0 {
		return nil, fmt.Errorf("path %q on %s is empty: %w", mp.Name, owner.Name, ErrNoPathData)
	}

	pts := make([]PathPoint, 0, len(mp.Verts)+1)
	for i, v := range mp.Verts {
		pts = append(pts, PathPoint{
			Pos:  owner.Orient.Transform(owner.Pos, v.Pos),
			Path: pathIdx,
			Vert: i,
		})
	}

	if kind == PathSubsystem {
		ssPos, ok := owner.SubsystemWorldPos(mp.ParentSubsys)
		if !ok {
			return nil, fmt.Errorf("path %q on %s has no subsystem: %w", mp.Name, owner.Name, ErrNoPathData)
		}
		last := pts[len(pts)-1].Pos
		dir, _ := vecmath.NormalizedDir(last, ssPos)
		if vecmath.IsZero(dir) {
			dir = owner.Orient.F
		}
		pts = append(pts, PathPoint{
			Pos:  vecmath.ScaleAdd(ssPos, dir, SubsysPathDist),
			Path: pathIdx,
			Vert: -1,
		})
	}
	return pts, nil
}

// FindPath plans a path along model path pathIdx of ship owner. Depart paths are
// traversed from their last point to their first.
func (m *Manager) FindPath(a *AIState, owner model.Handle, pathIdx int, kind PathKind) error {
	ownerObj, ok := m.world.Get(owner)
	if !ok {
		return fmt.Errorf("planning path on %s: %w", owner, ErrNoPathData)
	}
	pts, err := modelPathPoints(ownerObj, pathIdx, kind)
	if err != nil {
		return err
	}
	if err := m.storePath(a, pts); err != nil {
		return err
	}

	a.pathOwner = owner
	a.pathModel = pathIdx
	a.pathKind = kind
	a.pathCreatePos = ownerObj.Pos
	a.pathCreateOrient = ownerObj.Orient
	if kind == PathDepart {
		a.pathDir = PathBackward
		a.pathCur = a.pathLen - 1
	}
	a.pathGoalPoint, _ = m.pathTerminal(a)
	return nil
}

// FollowWaypoints copies a mission waypoint list into the arena.
func (m *Manager) FollowWaypoints(a *AIState, list int, flags WaypointFlags) error {
	wl, ok := m.world.WaypointList(list)
	if !ok || len(wl.Points) == 0 {
		return fmt.Errorf("waypoint list %d: %w", list, ErrNoPathData)
	}
	pts := make([]PathPoint, len(wl.Points))
	for i, p := range wl.Points {
		pts[i] = PathPoint{Pos: p, Path: -1, Vert: i}
	}
	if err := m.storePath(a, pts); err != nil {
		return err
	}
	a.pathKind = PathWaypoints
	a.pathWaypointList = list
	a.pathFlags = flags
	a.pathGoalPoint, _ = m.pathTerminal(a)
	return nil
}

func (m *Manager) storePath(a *AIState, pts []PathPoint) error {
	m.freePath(a)
	start, err := m.arena.Alloc(len(pts))
	if err != nil {
		return err
	}
	for i, p := range pts {
		m.arena.Set(start+i, p)
	}
	a.pathStart = start
	a.pathLen = len(pts)
	a.pathCur = 0
	a.pathDir = PathForward

	self, ok := m.world.Get(a.owner)
	radius := 10.0
	if ok {
		radius = self.Radius
	}
	a.pathGoalDist = max(radius*1.5, 20)
	a.pathNextCheck = m.clock.In(pathCheckMillis)
	a.pathNextCreate = m.clock.In(pathCreateMillis)
	return nil
}

// maybeReplanPath re-plans a model path when its owner moved or rotated since planning,
// when the terminal point drifted at a periodic check, or when the terminal point
// became obstructed.
func (m *Manager) maybeReplanPath(t *tick) bool {
	a := t.a
	if a.pathLen == 0 || a.pathKind == PathWaypoints || !t.clock().Elapsed(a.pathNextCreate) {
		return false
	}
	owner, ok := t.obj(a.pathOwner)
	if !ok {
		m.freePath(a)
		return false
	}

	reason := ""
	switch {
	case vecmath.Dist(owner.Pos, a.pathCreatePos) > PathReplanDist:
		reason = "owner moved"
	case vecmath.Dot(owner.Orient.F, a.pathCreateOrient.F) < PathReplanDot:
		reason = "owner rotated"
	case t.clock().Elapsed(a.pathNextCheck):
		a.pathNextCheck = t.clock().In(pathCheckMillis)
		pts, err := modelPathPoints(owner, a.pathModel, a.pathKind)
		if err != nil {
			return false
		}
		terminal := pts[len(pts)-1].Pos
		if a.pathKind == PathDepart {
			terminal = pts[0].Pos
		}
		_, blocked := m.world.Obstructed(t.self.Pos, terminal, t.self.Handle(), owner.Handle())
		switch {
		case vecmath.Dist(terminal, a.pathGoalPoint) > PathGoalMoveDist:
			reason = "goal moved"
		case blocked && !a.pathBlocked:
			reason = "goal obstructed"
		}
		a.pathBlocked = blocked
	}
	if reason == "" {
		return false
	}

	dir, flags, kind, pathIdx, blocked := a.pathDir, a.pathFlags, a.pathKind, a.pathModel, a.pathBlocked
	if err := m.FindPath(a, owner.Handle(), pathIdx, kind); err != nil {
		slog.Warn("re-planning path", "ship", t.self.Name, "reason", reason, "error", err)
		return false
	}
	a.pathFlags = flags
	a.pathBlocked = blocked
	a.pathDir = dir
	a.pathCur = m.nearestPathPoint(a, t.self.Pos)

	t.debug("path re-planned", "reason", reason, "points", a.pathLen)
	return true
}

// nearestPathPoint returns the relative index of the run point closest to pos.
func (m *Manager) nearestPathPoint(a *AIState, pos vecmath.Vec3) int {
	best, bestDist := 0, -1.0
	for i := range a.pathLen {
		d := vecmath.DistSq(pos, m.arena.Point(a.pathStart+i).Pos)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// followPath steers toward the current path point at the given speed fraction and
// steps the cursor when the point is reached. Speed drops on the final approach.
func (m *Manager) followPath(t *tick, speed float64) PathStatus {
	a := t.a
	if a.pathLen == 0 {
		return PathNone
	}
	m.maybeReplanPath(t)

	pt, ok := m.pathPoint(a)
	if !ok {
		return PathNone
	}
	if vecmath.Dist(t.self.Pos, pt) < a.pathGoalDist {
		if _, st := a.StepPath(); st == PathComplete {
			return PathComplete
		}
		pt, _ = m.pathPoint(a)
	}

	s := t.steer()
	s.TurnTowardsPoint(pt, vecmath.Vec3{}, 0, 0)

	last := a.pathFlags&(WPFRepeat|WPFBacktrack) == 0 &&
		((a.pathDir == PathForward && a.pathCur == a.pathLen-1) || (a.pathDir == PathBackward && a.pathCur == 0))
	if last && t.self.Class != nil && t.self.Class.MaxVel.Z > 0 {
		dist := vecmath.Dist(t.self.Pos, pt)
		speed = min(speed, max(dist/(t.self.Class.MaxVel.Z*2), 0.2))
	}
	s.Accelerate(speed)
	return PathContinue
}
