package ai

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
)

// ErrGoalQueueFull is returned by AddGoal when no slot can be reused.
var ErrGoalQueueFull = errors.New("ai: goal queue full")

// FindGoalIndex returns the index of the first goal of the given type and priority, or
// GoalNone. AnyPriority matches every priority.
func FindGoalIndex(goals []Goal, typ GoalType, priority int) int {
	for i, g := range goals {
		if g.Type != typ {
			continue
		}
		if priority == AnyPriority || g.Priority == priority {
			return i
		}
	}
	return GoalNone
}

// AddGoal stores a goal. An identical order already in the list only has its priority
// updated. When every slot is taken the lowest-priority goal that is not active is
// evicted, the oldest one on ties.
func (a *AIState) AddGoal(g Goal) (int, error) {
	if !g.IsSet() {
		return GoalNone, fmt.Errorf("adding goal: %w", errors.New("goal type not set"))
	}

	for i := range a.goals {
		if a.goals[i].IsSet() && a.goals[i].sameOrder(g) {
			a.goals[i].Priority = g.Priority
			return i, nil
		}
	}

	slot := GoalNone
	for i := range a.goals {
		if !a.goals[i].IsSet() {
			slot = i
			break
		}
	}
	if slot == GoalNone {
		slot = a.evictionCandidate()
	}
	if slot == GoalNone {
		return GoalNone, fmt.Errorf("adding %s: %w", g, ErrGoalQueueFull)
	}

	a.goalSeq++
	g.seq = a.goalSeq
	a.goals[slot] = g
	return slot, nil
}

func (a *AIState) evictionCandidate() int {
	victim := GoalNone
	for i := range a.goals {
		if i == a.activeGoal {
			continue
		}
		if victim == GoalNone {
			victim = i
			continue
		}
		g, v := a.goals[i], a.goals[victim]
		if g.Priority < v.Priority || (g.Priority == v.Priority && g.seq < v.seq) {
			victim = i
		}
	}
	return victim
}

// RemoveGoal clears a goal slot. Removing the active goal leaves the current mode running
// until the arbiter next runs.
func (a *AIState) RemoveGoal(idx int) {
	if idx == GoalDynamic {
		a.dynamicGoal = Goal{}
		a.hasDynamic = false
		if a.activeGoal == GoalDynamic {
			a.activeGoal = GoalNone
		}
		return
	}
	if idx < 0 || idx >= MaxGoals {
		return
	}
	a.goals[idx] = Goal{}
	if a.activeGoal == idx {
		a.activeGoal = GoalNone
	}
}

// ClearGoals drops every goal, including the dynamic one.
func (a *AIState) ClearGoals() {
	a.goals = [MaxGoals]Goal{}
	a.dynamicGoal = Goal{}
	a.hasDynamic = false
	a.activeGoal = GoalNone
}

// goal returns the goal stored at idx (a slot or GoalDynamic).
func (a *AIState) goal(idx int) (*Goal, bool) {
	switch {
	case idx == GoalDynamic && a.hasDynamic:
		return &a.dynamicGoal, true
	case idx >= 0 && idx < MaxGoals && a.goals[idx].IsSet():
		return &a.goals[idx], true
	}
	return nil, false
}

// activeGoalType returns the type of the active goal, GoalUnset when there is none.
func (a *AIState) activeGoalType() GoalType {
	if g, ok := a.goal(a.activeGoal); ok {
		return g.Type
	}
	return GoalUnset
}

// SetDynamicGoal installs an ad hoc order that competes with the mission goals. It wins
// ties with a mission goal of equal priority and is considered on the next tick.
func (m *Manager) SetDynamicGoal(a *AIState, g Goal) {
	if !g.IsSet() {
		return
	}
	g.Created = m.clock.Now()
	a.goalSeq++
	g.seq = a.goalSeq
	a.dynamicGoal = g
	a.hasDynamic = true
	if a.activeGoal == GoalDynamic {
		a.activeGoal = GoalNone
	}
	a.goalCheck = m.clock.Now()
}

// ProcessGoals runs the arbiter for one ship immediately, regardless of its check timer.
func (m *Manager) ProcessGoals(a *AIState) {
	self, ok := m.world.Get(a.owner)
	if !ok {
		return
	}
	a.goalCheck = m.clock.Now()
	t := m.newTick(a, self)
	m.processGoals(t)
	a.lastControl = t.ci
}

// processGoals validates the goal list and enacts the best achievable goal. It runs at
// most once per goal-check interval.
func (m *Manager) processGoals(t *tick) {
	a := t.a
	if !t.clock().Elapsed(a.goalCheck) {
		return
	}
	a.goalCheck = t.clock().In(m.goalCheckMillis())

	activeDropped := false
	for i := range a.goals {
		g := &a.goals[i]
		if !g.IsSet() || m.goalAchievable(t, g) != Unachievable {
			continue
		}
		m.logDroppedGoal(t, *g)
		if i == a.activeGoal {
			activeDropped = true
		}
		a.RemoveGoal(i)
	}
	if a.hasDynamic && m.goalAchievable(t, &a.dynamicGoal) == Unachievable {
		m.logDroppedGoal(t, a.dynamicGoal)
		if a.activeGoal == GoalDynamic {
			activeDropped = true
		}
		a.RemoveGoal(GoalDynamic)
	}
	if activeDropped {
		t.setMode(&noneState{})
		return
	}

	best := m.pickGoal(t)
	if best == GoalNone {
		if a.activeGoal == GoalNone && a.Mode() == ModeNone {
			m.defaultBehavior(t)
		}
		return
	}
	if best == a.activeGoal {
		return
	}
	m.enactGoal(t, best)
}

func (m *Manager) logDroppedGoal(t *tick, g Goal) {
	if g.Type.destroysTarget() {
		slog.Info("goal satisfied, target gone", "ship", t.self.Name, "goal", g.String())
		return
	}
	slog.Info("goal unachievable, removed", "ship", t.self.Name, "goal", g.String())
}

// pickGoal returns the highest-priority achievable goal. Among mission goals of equal
// priority the newest wins; the dynamic goal wins ties with any mission goal. The active
// goal is kept while nothing strictly better is available.
func (m *Manager) pickGoal(t *tick) int {
	a := t.a
	best, bestPri := GoalNone, math.MinInt
	var bestSeq uint64
	for i := range a.goals {
		g := &a.goals[i]
		if !g.IsSet() || m.goalAchievable(t, g) != Achievable {
			continue
		}
		if g.Priority > bestPri || (g.Priority == bestPri && g.seq > bestSeq) {
			best, bestPri, bestSeq = i, g.Priority, g.seq
		}
	}
	if a.hasDynamic && a.dynamicGoal.Priority >= bestPri && m.goalAchievable(t, &a.dynamicGoal) == Achievable {
		best, bestPri = GoalDynamic, a.dynamicGoal.Priority
	}

	if cur, ok := a.goal(a.activeGoal); ok && a.activeGoal != best && best != GoalDynamic {
		if cur.Priority >= bestPri && m.goalAchievable(t, cur) == Achievable {
			return a.activeGoal
		}
	}
	return best
}

// resolveGoalShip resolves the ship a goal refers to and caches its handle.
func (m *Manager) resolveGoalShip(g *Goal) (*model.Object, Achievability) {
	if !g.Target.IsNone() {
		if obj, ok := m.world.Get(g.Target); ok && !obj.IsDead() {
			return obj, Achievable
		}
		if g.TargetName == "" {
			return nil, Unachievable
		}
	}
	if g.TargetName == "" {
		return nil, Unachievable
	}
	h, ok := m.world.FindByName(g.TargetName)
	if !ok {
		if m.departed[g.TargetName] {
			return nil, Unachievable
		}
		if g.Target.IsNone() {
			return nil, NotYetAchievable
		}
		// Resolved once before, now gone: destroyed.
		return nil, Unachievable
	}
	g.Target = h
	obj, _ := m.world.Get(h)
	return obj, Achievable
}

func (m *Manager) resolveGoalWing(g *Goal) Achievability {
	if g.Wing < 0 {
		if g.TargetName == "" {
			return Unachievable
		}
		idx, err := m.world.FindWing(g.TargetName)
		if err != nil {
			return Unachievable
		}
		g.Wing = idx
	}
	if len(m.world.WingMembers(g.Wing)) == 0 {
		return Unachievable
	}
	return Achievable
}

// goalAchievable classifies a goal against the current world state.
func (m *Manager) goalAchievable(t *tick, g *Goal) Achievability {
	switch {
	case g.Type.needsShip():
		obj, v := m.resolveGoalShip(g)
		if v != Achievable {
			return v
		}
		if obj.Handle() == t.self.Handle() {
			return Unachievable
		}
		if obj.Flags&(model.FlagArriving|model.FlagDockedBay|model.FlagDeparting) != 0 {
			return NotYetAchievable
		}
		if g.Type == GoalDock {
			return m.dockAchievable(t, g, obj)
		}
		return Achievable

	case g.Type.needsWing():
		if g.Type == GoalFormOnWing && g.Wing < 0 && g.TargetName == "" {
			g.Wing = t.self.Wing
		}
		return m.resolveGoalWing(g)
	}

	switch g.Type {
	case GoalUndock:
		if _, docked := m.world.DockedWith(t.self.Handle()); docked {
			return Achievable
		}
		if d, ok := t.a.mode.(*dockState); ok && d.stage >= Undock0 {
			return Achievable
		}
		return Unachievable

	case GoalWaypoints, GoalWaypointsOnce:
		if g.WaypointList < 0 {
			idx, err := m.world.FindWaypointList(g.TargetName)
			if err != nil {
				return Unachievable
			}
			g.WaypointList = idx
		}
		if _, ok := m.world.WaypointList(g.WaypointList); !ok {
			return Unachievable
		}
		return Achievable

	case GoalWarp:
		if g.TargetName == "" && g.Target.IsNone() {
			return Achievable
		}
		_, v := m.resolveGoalShip(g)
		return v

	case GoalScripted:
		sm, ok := m.scripted[g.Script]
		if !ok {
			return Unachievable
		}
		return sm.Achievable(m.scriptContext(t))
	}
	return Achievable
}

func (m *Manager) dockAchievable(t *tick, g *Goal, dockee *model.Object) Achievability {
	if dockee.Class == nil || len(dockee.Class.DockPoints) == 0 {
		return Unachievable
	}
	if link, docked := m.world.DockedWith(t.self.Handle()); docked {
		if link.Dockee == dockee.Handle() {
			return Achievable
		}
		return NotYetAchievable
	}
	point := g.DockeePoint
	if point < 0 {
		point = 0
	}
	if point >= len(dockee.Class.DockPoints) {
		return Unachievable
	}
	if occ, ok := m.world.DockPointOccupant(dockee.Handle(), point); ok && occ != t.self.Handle() {
		return NotYetAchievable
	}
	return Achievable
}

// enactGoal makes idx the active goal and switches into the mode that carries it out.
func (m *Manager) enactGoal(t *tick, idx int) {
	a := t.a
	g, ok := a.goal(idx)
	if !ok {
		return
	}
	a.activeGoal = idx
	a.Flags &^= AIFFormation

	if t.tracing() {
		t.debug("goal enacted", "goal", g.String(), "slot", idx)
	}

	if _, docked := m.world.DockedWith(t.self.Handle()); docked && g.Type != GoalUndock && g.Type != GoalDock {
		if err := m.world.Undock(t.self.Handle()); err != nil {
			slog.Warn("undocking for new goal", "ship", t.self.Name, "error", err)
		}
	}

	switch g.Type {
	case GoalAttackShip, GoalAttackSubsystem, GoalDisableShip, GoalDisarmShip:
		target, _ := m.world.Get(g.Target)
		m.SetTarget(a, g.Target)
		if sub := m.goalSubsystem(g, target); sub >= 0 {
			a.targetSubsys = model.SubsysRef{Parent: g.Target, Index: sub}
		}
		t.setMode(attackModeFor(t.self, target))

	case GoalAttackWing:
		a.enemyWing = g.Wing
		m.startAttackAny(t, TargetQuery{Wing: g.Wing, FilterWing: true})

	case GoalAttackAny:
		a.enemyWing = -1
		m.startAttackAny(t, TargetQuery{})

	case GoalDock:
		a.goalObj = g.Target
		t.setMode(&dockState{stage: Dock0, dockee: g.Target, dockerPt: g.DockerPoint, dockeePt: g.DockeePoint})

	case GoalUndock:
		if d, ok := a.mode.(*dockState); ok && d.stage >= Undock0 {
			return
		}
		link, _ := m.world.DockedWith(t.self.Handle())
		t.setMode(&dockState{stage: Undock0, dockee: link.Dockee, dockerPt: link.DockerPoint, dockeePt: link.DockeePoint})

	case GoalWaypoints, GoalWaypointsOnce:
		flags := g.Waypoint
		if g.Type == GoalWaypoints {
			flags |= WPFRepeat
		}
		if err := m.FollowWaypoints(a, g.WaypointList, flags); err != nil {
			slog.Warn("following waypoints", "ship", t.self.Name, "error", err)
			m.goalDone(t, false)
			return
		}
		t.setMode(&waypointsState{})

	case GoalWarp:
		if !g.Target.IsNone() {
			t.setMode(&warpState{sub: DepartToBay, bay: g.Target})
			return
		}
		t.setMode(&warpState{sub: Warp1, bay: model.NoHandle})

	case GoalGuard:
		a.guardObj = g.Target
		a.guardWing = -1
		t.setMode(&guardState{sub: GuardPatrol})

	case GoalGuardWing:
		a.guardWing = g.Wing
		a.guardObj, _ = m.world.WingLeader(g.Wing)
		t.setMode(&guardState{sub: GuardPatrol})

	case GoalEvadeShip:
		m.SetTarget(a, g.Target)
		t.setMode(&evadeState{})

	case GoalStayNear:
		a.goalObj = g.Target
		t.setMode(&stayNearState{dist: g.Distance})

	case GoalStayStill:
		t.setMode(&stillState{pos: t.self.Pos, hold: true})

	case GoalPlayDead:
		t.setMode(&playDeadState{})

	case GoalRearmRepair:
		a.goalObj = g.Target
		a.Flags |= AIFRepairing
		point := m.rearmDockPoint(g.Target)
		t.setMode(&dockState{stage: Dock0, dockee: g.Target, dockerPt: -1, dockeePt: point, rearm: true})

	case GoalIgnore:
		a.IgnoreObject(g.Target, timestamp.Never)
		m.goalDone(t, true)

	case GoalFormOnWing:
		a.Flags |= AIFFormation
		a.guardWing = g.Wing
		t.setMode(&noneState{})

	case GoalFlyToShip:
		a.goalObj = g.Target
		t.setMode(&flyToShipState{})

	case GoalKeepSafeDistance:
		t.setMode(&safetyState{sub: SafetyPickSpot, dist: g.Distance})

	case GoalScripted:
		m.enterScripted(t, g.Script)

	default:
		t.setMode(&noneState{})
	}
}

// goalSubsystem picks the subsystem an attack goal aims at, -1 for the hull.
func (m *Manager) goalSubsystem(g *Goal, target *model.Object) int {
	if target == nil || target.Class == nil {
		return -1
	}
	if g.Subsystem != "" {
		return target.Class.FindSubsystem(g.Subsystem)
	}
	var want model.SubsystemType
	switch g.Type {
	case GoalDisableShip:
		want = model.SubsysEngine
	case GoalDisarmShip:
		want = model.SubsysTurret
	default:
		return -1
	}
	for i := range target.Subsystems {
		if target.Subsystems[i].Template.Type == want && !target.Subsystems[i].Destroyed() {
			return i
		}
	}
	return -1
}

// startAttackAny picks the nearest eligible enemy and starts attacking it.
func (m *Manager) startAttackAny(t *tick, q TargetQuery) {
	if q.Range == 0 {
		q.Range = MaxEnemyDistance
	}
	if q.MaxAttackers == 0 {
		q.MaxAttackers = t.a.Tuning.MaxAttackers
	}
	h := m.FindEnemy(t.a, q)
	if h.IsNone() {
		t.setMode(&noneState{})
		return
	}
	m.SetTarget(t.a, h)
	target, _ := m.world.Get(h)
	t.setMode(attackModeFor(t.self, target))
}

// goalDone ends the active goal. The next goal is picked no earlier than the next
// goal-check interval; the caller decides which mode to fall into meanwhile.
func (m *Manager) goalDone(t *tick, success bool) {
	a := t.a
	idx := a.activeGoal
	if g, ok := a.goal(idx); ok {
		if success {
			slog.Info("goal complete", "ship", t.self.Name, "goal", g.String())
		} else {
			slog.Info("goal failed", "ship", t.self.Name, "goal", g.String())
		}
		a.RemoveGoal(idx)
	}
	a.activeGoal = GoalNone
	a.goalCheck = t.clock().In(m.goalCheckMillis())
}

// defaultBehavior runs when the goal list is empty: armed ships look for a fight.
func (m *Manager) defaultBehavior(t *tick) {
	self := t.self
	if self.Flags.Has(model.FlagPlayer) || self.Class == nil {
		return
	}
	if _, docked := m.world.DockedWith(self.Handle()); docked {
		return
	}
	if self.Class.Flags&model.ClassSentryGun != 0 {
		t.setMode(&sentryState{})
		return
	}
	if self.Class.IsSupport() || self.Class.PrimaryRange <= 0 || t.a.Flags.Has(AIFFormation) {
		return
	}
	h := m.FindEnemy(t.a, TargetQuery{Range: MaxEnemyDistance, MaxAttackers: t.a.Tuning.MaxAttackers})
	if h.IsNone() {
		return
	}
	m.SetTarget(t.a, h)
	target, _ := m.world.Get(h)
	t.setMode(attackModeFor(self, target))
}

// attackModeFor chooses the engagement mode from the sizes of attacker and target.
func attackModeFor(self, target *model.Object) modeState {
	switch {
	case self.Class != nil && self.Class.IsBigOrHuge():
		return &bigShipState{sub: BigApproach}
	case target != nil && target.Class != nil && target.Class.IsBigOrHuge():
		return &strafeState{sub: StrafeAttack}
	}
	return &chaseState{sub: ChaseAttack}
}

// rearmDockPoint returns the first rearm dock point of the ship to be serviced.
func (m *Manager) rearmDockPoint(h model.Handle) int {
	obj, ok := m.world.Get(h)
	if !ok || obj.Class == nil {
		return -1
	}
	for i, dp := range obj.Class.DockPoints {
		if dp.Type == model.DockRearm {
			return i
		}
	}
	return -1
}
