package ai

import (
	"math"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

const (
	chaseDecisionMillis = 750
	chaseCloseDist      = 150.0
	chaseFarDist        = 1000.0
	getBehindDist       = 200.0
	getAwayDist         = 800.0
	circleStrafeDist    = 250.0
	stealthSweepRadius  = 300.0
	stealthFindDist     = 200.0
	stealthGiveUpSecs   = 10.0
	sidethrustMillis    = 1000
)

// chaseState is a dogfight against a.target.
type chaseState struct {
	sub          ChaseSubmode
	subEnd       timestamp.Stamp // zero when the submode has no timer
	nextDecision timestamp.Stamp
	turnDir      float64
	circleDir    float64
	evadeVec     vecmath.Vec3
	sweepIdx     int
}

func (*chaseState) Mode() Mode { return ModeChase }

func (s *chaseState) Submode() Submode {
	return Submode{Mode: ModeChase, Code: int(s.sub), Name: s.sub.String()}
}

// setSub switches the chase submode. secs > 0 puts a timer on it.
func (s *chaseState) setSub(t *tick, sub ChaseSubmode, secs float64) {
	if s.sub == sub {
		return
	}
	t.submodeChanged()
	s.sub = sub
	s.subEnd = 0
	if secs > 0 {
		s.subEnd = t.clock().InSeconds(secs)
	}
	switch sub {
	case ChaseEvade:
		s.evadeVec = t.randomUnit()
	case ChaseContinuousTurn, ChaseCircleStrafe:
		s.turnDir = 1
		if t.chance(0.5) {
			s.turnDir = -1
		}
		s.circleDir = s.turnDir
	case ChaseStealthSweep:
		s.sweepIdx = 0
	}
}

func (s *chaseState) subExpired(t *tick) bool {
	return s.subEnd > 0 && t.clock().Elapsed(s.subEnd)
}

func (s *chaseState) attacking() bool {
	switch s.sub {
	case ChaseAttack, ChaseSuperAttack, ChaseGlideAttack, ChaseCircleStrafe, ChaseAttackForever:
		return true
	}
	return false
}

func (s *chaseState) frame(t *tick) {
	target, ok := t.target()
	if !ok {
		targetLost(t)
		return
	}
	self := t.self

	if !t.a.Flags.Has(AIFKamikaze) && self.Class != nil && self.Class.IsSmall() &&
		target.Class != nil && target.Class.IsBigOrHuge() {
		t.setMode(&strafeState{sub: StrafeAttack})
		return
	}

	visible := !target.Flags.Has(model.FlagStealth) || t.m.stealthVisible(t.a, self, target)
	if !visible {
		t.a.Flags |= AIFStealthPursuit
		if s.sub != ChaseStealthFind && s.sub != ChaseStealthSweep {
			s.setSub(t, ChaseStealthFind, 0)
		}
	} else if s.sub == ChaseStealthFind || s.sub == ChaseStealthSweep {
		t.a.Flags &^= AIFStealthPursuit
		s.setSub(t, ChaseAttack, 0)
	}

	dir, dist := vecmath.NormalizedDir(target.Pos, self.Pos)
	dot := vecmath.Dot(self.Orient.F, dir)
	if visible {
		t.updateTargetTracking(target, dot, dist)
	}

	s.transition(t, target, dist, dot)
	s.manoeuvre(t, target, dist)
}

// targetLost ends an attack on a vanished target. Attack-ship goals are complete;
// wing and free attacks look for the next enemy.
func targetLost(t *tick) {
	a := t.a
	a.Flags &^= AIFStealthPursuit
	switch a.activeGoalType() {
	case GoalAttackShip, GoalAttackSubsystem, GoalDisableShip, GoalDisarmShip:
		t.m.goalDone(t, true)
		t.setMode(&noneState{})
		return
	}
	q := TargetQuery{Range: MaxEnemyDistance, MaxAttackers: a.Tuning.MaxAttackers}
	if a.enemyWing >= 0 {
		q.Wing, q.FilterWing = a.enemyWing, true
		q.Range = 0
	}
	h := t.m.FindEnemy(a, q)
	next, ok := t.obj(h)
	if !ok {
		if a.activeGoalType() == GoalAttackWing || a.activeGoalType() == GoalAttackAny {
			t.m.goalDone(t, true)
		}
		t.setMode(&noneState{})
		return
	}
	t.m.SetTarget(a, h)
	t.setMode(attackModeFor(t.self, next))
}

// transition evaluates the exit condition of the current submode.
func (s *chaseState) transition(t *tick, target *model.Object, dist, dot float64) {
	a := t.a
	self := t.self
	fromDir, _ := vecmath.NormalizedDir(self.Pos, target.Pos)
	dotFrom := vecmath.Dot(target.Orient.F, fromDir) // > 0: target is facing us

	switch s.sub {
	case ChaseAttack, ChaseSuperAttack, ChaseGlideAttack, ChaseCircleStrafe:
		if a.Flags.Has(AIFKamikaze) {
			s.setSub(t, ChaseAttackForever, 0)
			return
		}
		if s.sub != ChaseAttack && s.subExpired(t) {
			s.setSub(t, ChaseAttack, 0)
			return
		}
		t.trackStalemate(dist, dot)
		if s.nextDecision > 0 && !t.clock().Elapsed(s.nextDecision) {
			return
		}
		s.nextDecision = t.clock().In(chaseDecisionMillis)
		s.decide(t, target, dist, dot, dotFrom)

	case ChaseEvadeSquiggle, ChaseEvadeBrake, ChaseEvade, ChaseContinuousTurn, ChaseFlyAway:
		if s.subExpired(t) {
			s.setSub(t, ChaseAttack, 0)
		}

	case ChaseGetBehind:
		if dotFrom < -0.5 || t.inSubmode() > 6 {
			s.setSub(t, ChaseAttack, 0)
		}

	case ChaseAvoid:
		if s.subExpired(t) || dist > (self.Radius+target.Radius)*4 {
			s.setSub(t, ChaseAttack, 0)
		}

	case ChaseGetAway:
		if s.subExpired(t) || dist > getAwayDist {
			s.setSub(t, ChaseAttack, 0)
		}

	case ChaseEvadeWeapon:
		if _, ok := t.obj(a.dangerWeapon); !ok || s.subExpired(t) {
			a.dangerWeapon = model.NoHandle
			s.setSub(t, ChaseAttack, 0)
		}

	case ChaseStealthFind:
		last := t.stealthGuess()
		if vecmath.Dist(self.Pos, last) < stealthFindDist {
			s.setSub(t, ChaseStealthSweep, 0)
		}

	case ChaseStealthSweep:
		if t.inSubmode() > stealthGiveUpSecs {
			a.Flags &^= AIFStealthPursuit
			a.IgnoreObject(a.target, t.clock().InSeconds(stealthGiveUpSecs))
			a.target = model.NoHandle
			targetLost(t)
		}
	}
}

// decide picks the next attack variant. It runs every chaseDecisionMillis.
func (s *chaseState) decide(t *tick, target *model.Object, dist, dot, dotFrom float64) {
	a := t.a
	self := t.self
	tun := &a.Tuning

	switch {
	case dist < (self.Radius+target.Radius)*2 && dot > 0.7:
		a.Flags |= AIFTargetCollision
		s.setSub(t, ChaseAvoid, 1.5)
		return
	case dotFrom > 0.9 && dot < -0.2 && dist < 500:
		if t.percent(tun.Evasion) {
			s.setSub(t, ChaseEvade, 2)
		} else {
			s.setSub(t, ChaseGetBehind, 0)
		}
		return
	case a.stalemateStart != timestamp.Invalid && t.clock().Since(a.stalemateStart) > tun.StalemateTimeThresh:
		a.stalemateStart = timestamp.Invalid
		if t.chance(tun.GetAwayChance) {
			s.setSub(t, ChaseGetAway, 3)
		} else {
			s.setSub(t, ChaseContinuousTurn, 1.5)
		}
		return
	}
	a.Flags &^= AIFTargetCollision

	if s.sub != ChaseAttack {
		return
	}
	switch {
	case dist > chaseFarDist && t.willingToAfterburn():
		s.setSub(t, ChaseSuperAttack, 3)
	case dist < circleStrafeDist*2 && t.percent(tun.CircleStrafePercent):
		s.setSub(t, ChaseCircleStrafe, 4)
	case t.percent(tun.GlideAttackPercent):
		s.setSub(t, ChaseGlideAttack, 3)
	}
	t.maybeSidethrust()
}

// trackStalemate starts the stalemate clock while the ship circles close to its target
// without getting its nose on it.
func (t *tick) trackStalemate(dist, dot float64) {
	a := t.a
	if dist < a.Tuning.StalemateDistThresh && dot < 0.9 {
		if a.stalemateStart == timestamp.Invalid {
			a.stalemateStart = t.now
		}
		return
	}
	a.stalemateStart = timestamp.Invalid
}

// maybeSidethrust starts a short random lateral drift.
func (t *tick) maybeSidethrust() {
	a := t.a
	if t.clock().Pending(a.sidethrustExpire) || !t.percent(a.Tuning.RandomSidethrustPercent) {
		return
	}
	v := t.randomUnit()
	a.sidethrust = vecmath.Reject(v, t.self.Orient.F)
	a.sidethrustExpire = t.clock().In(sidethrustMillis)
}

func (t *tick) applySidethrust(st *Steerer) {
	if t.clock().Pending(t.a.sidethrustExpire) && !vecmath.IsZero(t.a.sidethrust) {
		st.Slide(t.a.sidethrust)
	}
}

// stealthGuess extrapolates the last known position of a hidden target.
func (t *tick) stealthGuess() vecmath.Vec3 {
	a := t.a
	since := min(t.clock().Since(a.stealthLastSeen), 5)
	return vecmath.ScaleAdd(a.stealthLastPos, a.stealthLastVel, since)
}

// manoeuvre flies the current submode.
func (s *chaseState) manoeuvre(t *tick, target *model.Object, dist float64) {
	a := t.a
	self := t.self
	st := t.steer()
	weaponSpeed := 0.0
	if self.Class != nil {
		weaponSpeed = self.Class.PrimarySpeed
	}

	switch s.sub {
	case ChaseAttack, ChaseSuperAttack, ChaseAttackForever:
		aim := t.aimPoint(target)
		if a.targetSubsys.IsNone() {
			aim = t.predictEnemyPos(target, weaponSpeed)
		}
		dot := st.TurnTowardsPoint(aim, vecmath.Vec3{}, 0, 0)
		switch {
		case s.sub == ChaseAttackForever:
			st.Accelerate(1)
			t.afterburnHard()
		case s.sub == ChaseSuperAttack:
			st.Accelerate(1)
			t.maybeFireAfterburner()
		case dist > chaseFarDist:
			st.Accelerate(1)
		default:
			st.SetSpeed(target.Speed() + (dist-chaseCloseDist)*0.5)
		}
		t.applySidethrust(st)
		t.maybeFirePrimary(target, dot, dist)
		t.maybeFireSecondary(target, dist)

	case ChaseGlideAttack:
		// Nose on the target, velocity carried sideways.
		aim := t.predictEnemyPos(target, weaponSpeed)
		dot := st.TurnTowardsPoint(aim, vecmath.Vec3{}, 0, 0)
		st.Accelerate(0)
		if !vecmath.IsZero(self.Vel) {
			st.Slide(self.Vel)
		}
		t.maybeFirePrimary(target, dot, dist)

	case ChaseCircleStrafe:
		dir, _ := vecmath.NormalizedDir(target.Pos, self.Pos)
		side := vecmath.Scale(vecmath.Cross(self.Orient.U, dir), s.circleDir)
		dot := st.TurnTowardsPoint(target.Pos, vecmath.Vec3{}, 0, TurnIgnoreBank)
		st.Slide(side)
		st.SetSpeed((dist - circleStrafeDist) * 0.5)
		t.maybeFirePrimary(target, dot, dist)

	case ChaseEvadeSquiggle:
		phase := t.now.Seconds()
		wiggle := vecmath.Add(
			vecmath.Scale(self.Orient.R, math.Sin(phase*3)*400),
			vecmath.Scale(self.Orient.U, math.Cos(phase*2)*250),
		)
		st.TurnTowardsPoint(vecmath.Add(vecmath.ScaleAdd(self.Pos, self.Orient.F, 1000), wiggle), vecmath.Vec3{}, 0, 0)
		st.Accelerate(1)

	case ChaseEvadeBrake:
		st.TurnAwayFromPoint(target.Pos, 0, 0)
		st.Accelerate(0)

	case ChaseEvade:
		away := vecmath.Sub(self.Pos, target.Pos)
		point := vecmath.Add(self.Pos, vecmath.Add(vecmath.Normalize(away), s.evadeVec))
		st.TurnTowardsPoint(vecmath.ScaleAdd(self.Pos, vecmath.Sub(point, self.Pos), 1000), vecmath.Vec3{}, 0, 0)
		st.Accelerate(1)
		t.maybeFireAfterburner()

	case ChaseAvoid:
		away := vecmath.Sub(self.Pos, target.Pos)
		perp := vecmath.Perpendicular(away)
		st.TurnTowardsPoint(vecmath.Add(self.Pos, vecmath.Add(vecmath.Scale(vecmath.Normalize(away), 500), vecmath.Scale(perp, 500))), vecmath.Vec3{}, 0, 0)
		st.Accelerate(1)

	case ChaseGetBehind:
		behind := vecmath.ScaleAdd(target.Pos, target.Orient.F, -(target.Radius + getBehindDist))
		st.TurnTowardsPoint(behind, vecmath.Vec3{}, 0, 0)
		st.Accelerate(1)
		if vecmath.Dist(self.Pos, behind) > chaseFarDist {
			t.maybeFireAfterburner()
		}

	case ChaseGetAway:
		st.TurnAwayFromPoint(target.Pos, 0, 0)
		st.Accelerate(1)
		t.maybeFireAfterburner()

	case ChaseFlyAway:
		st.TurnAwayFromPoint(target.Pos, 0, 0)
		st.Accelerate(1)

	case ChaseEvadeWeapon:
		evadeWeaponManoeuvre(t, st)

	case ChaseContinuousTurn:
		st.CI.Heading = s.turnDir
		st.CI.Pitch = 0
		st.CI.Bank = -s.turnDir * bankPerHeading
		st.Accelerate(1)

	case ChaseStealthFind:
		st.TurnTowardsPoint(t.stealthGuess(), vecmath.Vec3{}, 0, 0)
		st.Accelerate(1)

	case ChaseStealthSweep:
		center := t.stealthGuess()
		offsets := [...]vecmath.Vec3{
			{X: stealthSweepRadius}, {Y: stealthSweepRadius}, {X: -stealthSweepRadius}, {Y: -stealthSweepRadius},
		}
		point := vecmath.Add(center, offsets[s.sweepIdx%len(offsets)])
		if vecmath.Dist(self.Pos, point) < stealthFindDist {
			s.sweepIdx++
		}
		st.TurnTowardsPoint(point, vecmath.Vec3{}, 0, 0)
		st.Accelerate(0.75)
	}
}

// evadeWeaponManoeuvre breaks perpendicular to the incoming weapon's path.
func evadeWeaponManoeuvre(t *tick, st *Steerer) {
	weapon, ok := t.obj(t.a.dangerWeapon)
	if !ok {
		st.Accelerate(1)
		return
	}
	course := weapon.Vel
	if vecmath.IsZero(course) {
		course = vecmath.Sub(t.self.Pos, weapon.Pos)
	}
	perp := vecmath.Reject(vecmath.Sub(t.self.Pos, weapon.Pos), vecmath.Normalize(course))
	if vecmath.IsZero(perp) {
		perp = vecmath.Perpendicular(course)
	}
	st.TurnTowardsPoint(vecmath.ScaleAdd(t.self.Pos, vecmath.Normalize(perp), 1000), vecmath.Vec3{}, 0, 0)
	st.Accelerate(1)
	t.afterburnHard()
}

// onHit reacts to being shot while dogfighting.
func (s *chaseState) onHit(t *tick) {
	if !s.attacking() || s.sub == ChaseAttackForever {
		return
	}
	if !t.percent(t.a.Tuning.Evasion) {
		return
	}
	if t.chance(0.5) {
		s.setSub(t, ChaseEvadeSquiggle, t.randRange(1.5, 3))
	} else {
		s.setSub(t, ChaseEvadeBrake, t.randRange(1, 2))
	}
}
