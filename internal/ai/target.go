package ai

import (
	"math"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

const (
	// MaxEnemyDistance is the default search radius for a new target.
	MaxEnemyDistance = 2500.0
	// MinTrackableAspectDot is the forward alignment needed to build aspect lock.
	MinTrackableAspectDot = 0.992
	// stealthVisibleDist is how close a stealth ship must be to show up without sensors.
	stealthVisibleDist = 400.0
)

// TargetQuery restricts FindEnemy.
type TargetQuery struct {
	Range        float64        // 0 means unlimited
	TeamMask     model.TeamMask // 0 means the searcher's enemies
	Wing         int            // used only with FilterWing
	FilterWing   bool
	MaxAttackers int    // 0 means no cap
	ShipClass    string // empty means any class
}

// FindEnemy returns the nearest ship the AI may attack, or NoHandle. A ship is eligible
// when it is hostile, in range, not ignored, not already attacked by MaxAttackers other
// AI ships, and passes the class, wing and scripted restrictions. Ties go to the lower
// object index.
func (m *Manager) FindEnemy(a *AIState, q TargetQuery) model.Handle {
	self, ok := m.world.Get(a.owner)
	if !ok {
		return model.NoHandle
	}
	mask := q.TeamMask
	if mask == 0 {
		mask = m.world.EnemyMask(self.Team)
	}

	var attackers map[model.Handle]int
	if q.MaxAttackers > 0 {
		attackers = m.attackerCounts(a)
	}
	var restrict ScriptedMode
	var sctx *ScriptContext
	if s, ok := a.mode.(*scriptedState); ok {
		restrict = s.impl
		sctx = m.scriptContext(m.newTick(a, self))
	}

	best := model.NoHandle
	bestDist := math.Inf(1)
	visit := func(obj *model.Object) bool {
		if !m.eligibleTarget(a, self, obj, mask) {
			return true
		}
		if q.FilterWing && obj.Wing != q.Wing {
			return true
		}
		if q.ShipClass != "" && (obj.Class == nil || obj.Class.Name != q.ShipClass) {
			return true
		}
		if attackers != nil && attackers[obj.Handle()] >= q.MaxAttackers {
			return true
		}
		if restrict != nil && !restrict.TargetRestrict(sctx, obj) {
			return true
		}
		d := vecmath.DistSq(self.Pos, obj.Pos)
		if d < bestDist || (d == bestDist && obj.Handle().Index < best.Index) {
			best, bestDist = obj.Handle(), d
		}
		return true
	}

	if q.Range > 0 {
		m.world.ForEachInRange(self.Pos, q.Range, visit)
	} else {
		m.world.ForEachShip(visit)
	}
	return best
}

// eligibleTarget applies the checks shared by every target search.
func (m *Manager) eligibleTarget(a *AIState, self, obj *model.Object, mask model.TeamMask) bool {
	if !obj.IsShip() || obj.IsDead() || obj.Handle() == self.Handle() {
		return false
	}
	if !mask.Has(obj.Team) {
		return false
	}
	if obj.Flags&(model.FlagArriving|model.FlagDockedBay|model.FlagDeparting|model.FlagProtected) != 0 {
		return false
	}
	if a.isIgnored(obj, m.clock) {
		return false
	}
	if obj.Flags.Has(model.FlagStealth) && !m.stealthVisible(a, self, obj) {
		return false
	}
	return true
}

// stealthVisible reports whether a stealth ship can be seen from self.
func (m *Manager) stealthVisible(a *AIState, self, obj *model.Object) bool {
	if vecmath.Dist(self.Pos, obj.Pos) > stealthVisibleDist {
		return false
	}
	return a.Tuning.HuntStealth || m.world.LineOfSight(self.Pos, obj.Pos, self.Handle(), obj.Handle())
}

// GetNearestObject returns the nearest ship of any team in mask within rangeLimit of
// pos, skipping exclude. A rangeLimit of 0 searches everything.
func (m *Manager) GetNearestObject(pos vecmath.Vec3, mask model.TeamMask, rangeLimit float64, exclude model.Handle) model.Handle {
	best := model.NoHandle
	bestDist := math.Inf(1)
	visit := func(obj *model.Object) bool {
		if !obj.IsShip() || obj.IsDead() || obj.Handle() == exclude || !mask.Has(obj.Team) {
			return true
		}
		d := vecmath.DistSq(pos, obj.Pos)
		if d < bestDist || (d == bestDist && obj.Handle().Index < best.Index) {
			best, bestDist = obj.Handle(), d
		}
		return true
	}
	if rangeLimit > 0 {
		m.world.ForEachInRange(pos, rangeLimit, visit)
	} else {
		m.world.ForEachShip(visit)
	}
	return best
}

// isAttacking reports whether a is currently engaging its target.
func (a *AIState) isAttacking() bool {
	if a.target.IsNone() {
		return false
	}
	switch s := a.mode.(type) {
	case *chaseState, *strafeState, *bigShipState:
		return true
	case *guardState:
		return s.sub == GuardAttack
	}
	return false
}

// attackerCounts counts AI ships attacking each target, not counting skip.
func (m *Manager) attackerCounts(skip *AIState) map[model.Handle]int {
	counts := make(map[model.Handle]int)
	for _, st := range m.slots.states {
		if st == nil || st == skip || !st.isAttacking() {
			continue
		}
		counts[st.target]++
	}
	return counts
}

// NumAttacking returns how many AI ships are attacking h.
func (m *Manager) NumAttacking(h model.Handle) int {
	n := 0
	for _, st := range m.slots.states {
		if st != nil && st.target == h && st.isAttacking() {
			n++
		}
	}
	return n
}

// SetTarget commits a new target and resets everything tracked about the old one.
func (m *Manager) SetTarget(a *AIState, h model.Handle) {
	if a.target == h {
		return
	}
	a.target = h
	a.targetSubsys = model.NoSubsys
	a.aspectLock = 0
	a.timeOnTarget = 0
	a.timeEnemyInRange = 0
	a.nextPredict = timestamp.Invalid
	a.stealthLastSeen = timestamp.Invalid
	a.pickBigAttackPt = timestamp.Invalid
	a.bestDotToEnemy = -1
	a.bestDotFromEnemy = -1
	a.okToTarget = m.clock.In(500)
	if obj, ok := m.world.Get(h); ok {
		a.stealthLastPos = obj.Pos
		a.stealthLastVel = obj.Vel
		a.stealthLastSeen = m.clock.Now()
	}
}

// SetTargetSubsystem aims at one subsystem of the current target, -1 for the hull.
func (m *Manager) SetTargetSubsystem(a *AIState, idx int) {
	if idx < 0 || a.target.IsNone() {
		a.targetSubsys = model.NoSubsys
		return
	}
	a.targetSubsys = model.SubsysRef{Parent: a.target, Index: idx}
}

// aimPoint returns the world point to shoot at: the targeted subsystem when it
// resolves, otherwise the target center.
func (t *tick) aimPoint(target *model.Object) vecmath.Vec3 {
	ref := t.a.targetSubsys
	if !ref.IsNone() && ref.Parent == target.Handle() {
		if ss := target.Subsystem(ref.Index); ss != nil && !ss.Destroyed() {
			if p, ok := target.SubsystemWorldPos(ref.Index); ok {
				return p
			}
		}
		t.a.targetSubsys = model.NoSubsys
	}
	return target.Pos
}

// updateTargetTracking advances aspect lock, time on target and time in range, and
// records the last seen position used for stealth pursuit.
func (t *tick) updateTargetTracking(target *model.Object, dot, dist float64) {
	a := t.a
	a.timeOnTarget += t.dt
	if dot >= MinTrackableAspectDot {
		a.aspectLock += t.dt
	} else {
		a.aspectLock = 0
	}
	if t.self.Class != nil && dist <= t.self.Class.PrimaryRange {
		a.timeEnemyInRange += t.dt
	} else {
		a.timeEnemyInRange = 0
	}
	if dot > a.bestDotToEnemy {
		a.bestDotToEnemy = dot
		a.bestDotToTime = t.now
	}
	fromDir, _ := vecmath.NormalizedDir(t.self.Pos, target.Pos)
	if d := vecmath.Dot(target.Orient.F, fromDir); d > a.bestDotFromEnemy {
		a.bestDotFromEnemy = d
		a.bestDotFromTime = t.now
	}
	if !target.Flags.Has(model.FlagStealth) || t.m.stealthVisible(a, t.self, target) {
		a.stealthLastPos = target.Pos
		a.stealthLastVel = target.Vel
		a.stealthLastSeen = t.now
	}
}
