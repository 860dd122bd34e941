package ai

import (
	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// AIFlags are per-ship behaviour bits.
type AIFlags uint32

const (
	AIFFormation AIFlags = 1 << iota
	AIFNoDynamic
	AIFKamikaze
	AIFStealthPursuit
	AIFAwaitingRepair
	AIFBeingRepaired
	AIFRepairing
	AIFTemporaryIgnore
	AIFSeekLock
	AIFAvoidingSmallShip
	AIFAvoidingBigShip
	AIFFreeAfterburnerUse
	AIFTargetCollision
	AIFUnloadSecondaries
)

// Has reports whether all bits in f are set.
func (f AIFlags) Has(bits AIFlags) bool {
	return f&bits == bits
}

// AIState is the decision state of one AI-controlled ship. It is owned by its slot
// and mutated only from the tick goroutine.
type AIState struct {
	owner model.Handle
	slot  SlotID

	// Mode
	mode            modeState
	previousMode    Mode
	previousSubmode Submode
	modeStart       timestamp.Stamp
	modeExpire      timestamp.Stamp
	submodeStart    timestamp.Stamp

	// Targeting
	target           model.Handle
	targetSubsys     model.SubsysRef
	aspectLock       float64 // seconds of continuous near-boresight tracking
	timeOnTarget     float64
	timeEnemyInRange float64
	ignoreObj        model.Handle
	ignoreWing       int
	ignoreRing       [MaxIgnoreNew]ignoreEntry
	ignoreNext       int
	enemyWing        int
	hitter           model.Handle
	lastHit          timestamp.Stamp
	dangerWeapon     model.Handle
	guardObj         model.Handle
	guardWing        int
	goalObj          model.Handle
	supportShip      model.Handle

	// Goals
	goals        [MaxGoals]Goal
	activeGoal   int
	goalCheck    timestamp.Stamp
	goalSeq      uint64
	dynamicGoal  Goal
	hasDynamic   bool
	resumeGoal   timestamp.Stamp
	scriptedName string

	// Path following
	pathOwner        model.Handle
	pathModel        int
	pathKind         PathKind
	pathStart        int
	pathLen          int
	pathCur          int
	pathDir          int
	pathFlags        WaypointFlags
	pathWaypointList int
	pathNextCreate   timestamp.Stamp
	pathNextCheck    timestamp.Stamp
	pathCreatePos    vecmath.Vec3
	pathCreateOrient vecmath.Matrix
	pathGoalPoint    vecmath.Vec3
	pathGoalDist     float64
	pathBlocked      bool

	Tuning Tuning
	Flags  AIFlags

	// Scratch
	bestDotToEnemy    float64
	bestDotFromEnemy  float64
	bestDotToTime     timestamp.Stamp
	bestDotFromTime   timestamp.Stamp
	prevAccel         float64
	prevDotToGoal     float64
	goalPoint         vecmath.Vec3
	prevGoalPoint     vecmath.Vec3
	lastPredicted     vecmath.Vec3
	nextPredict       timestamp.Stamp
	bigAttackPoint    vecmath.Vec3
	stealthLastPos    vecmath.Vec3
	stealthLastVel    vecmath.Vec3
	stealthLastSeen   timestamp.Stamp
	afterburning      bool
	sidethrust        vecmath.Vec3
	sidethrustExpire  timestamp.Stamp
	stalemateStart    timestamp.Stamp
	nextPrimaryFire   timestamp.Stamp
	nextSecondaryFire timestamp.Stamp

	// Cooldowns
	afterburnerStop  timestamp.Stamp
	nextRearmRequest timestamp.Stamp
	abortRearm       timestamp.Stamp
	shieldManage     timestamp.Stamp
	selfDestruct     timestamp.Stamp
	scanForEnemy     timestamp.Stamp
	chooseEnemy      timestamp.Stamp
	okToTarget       timestamp.Stamp
	warpOut          timestamp.Stamp
	ignoreExpire     timestamp.Stamp
	pickBigAttackPt  timestamp.Stamp
	avoidCheck       timestamp.Stamp
	primarySelect    timestamp.Stamp
	secondarySelect  timestamp.Stamp

	override overrideChannel
	hud      hudTrend

	lastControl model.ControlInfo
}

func newAIState(owner model.Handle, slot SlotID, tuning Tuning, now timestamp.Stamp) *AIState {
	a := &AIState{
		owner:            owner,
		slot:             slot,
		mode:             &noneState{},
		previousMode:     ModeNone,
		previousSubmode:  Submode{Mode: ModeNone},
		modeStart:        now,
		modeExpire:       timestamp.Invalid,
		submodeStart:     now,
		target:           model.NoHandle,
		targetSubsys:     model.NoSubsys,
		ignoreObj:        model.NoHandle,
		ignoreWing:       -1,
		enemyWing:        -1,
		hitter:           model.NoHandle,
		lastHit:          timestamp.Invalid,
		dangerWeapon:     model.NoHandle,
		guardObj:         model.NoHandle,
		guardWing:        -1,
		goalObj:          model.NoHandle,
		supportShip:      model.NoHandle,
		activeGoal:       GoalNone,
		goalCheck:        now,
		resumeGoal:       timestamp.Invalid,
		pathOwner:        model.NoHandle,
		pathModel:        -1,
		pathStart:        -1,
		pathDir:          PathForward,
		pathWaypointList: -1,
		pathNextCreate:   timestamp.Invalid,
		pathNextCheck:    timestamp.Invalid,
		Tuning:           tuning,
		nextPredict:      timestamp.Invalid,
		stealthLastSeen:  timestamp.Invalid,
		afterburnerStop:  timestamp.Invalid,
		sidethrustExpire: timestamp.Invalid,
		stalemateStart:   timestamp.Invalid,
		nextRearmRequest: timestamp.Invalid,
		abortRearm:       timestamp.Invalid,
		shieldManage:     timestamp.Invalid,
		selfDestruct:     timestamp.Invalid,
		scanForEnemy:     timestamp.Invalid,
		chooseEnemy:      timestamp.Invalid,
		okToTarget:       timestamp.Invalid,
		warpOut:          timestamp.Invalid,
		ignoreExpire:     timestamp.Invalid,
		pickBigAttackPt:  timestamp.Invalid,
		avoidCheck:       timestamp.Invalid,
		primarySelect:    timestamp.Invalid,
		secondarySelect:  timestamp.Invalid,
	}
	a.override.reset()
	return a
}

// Owner returns the ship this state controls.
func (a *AIState) Owner() model.Handle { return a.owner }

// Mode returns the current mode.
func (a *AIState) Mode() Mode { return a.mode.Mode() }

// Submode returns the current submode.
func (a *AIState) Submode() Submode { return a.mode.Submode() }

// PreviousMode returns the mode before the last transition.
func (a *AIState) PreviousMode() Mode { return a.previousMode }

// PreviousSubmode returns the submode before the last submode or mode change.
func (a *AIState) PreviousSubmode() Submode { return a.previousSubmode }

// ModeStart returns the stamp at which the current mode was entered.
func (a *AIState) ModeStart() timestamp.Stamp { return a.modeStart }

// SubmodeStart returns the stamp at which the current submode was entered.
func (a *AIState) SubmodeStart() timestamp.Stamp { return a.submodeStart }

// Target returns the current target handle (may be stale; resolve through the world).
func (a *AIState) Target() model.Handle { return a.target }

// TargetSubsystem returns the targeted subsystem.
func (a *AIState) TargetSubsystem() model.SubsysRef { return a.targetSubsys }

// AspectLock returns seconds of aspect lock progress on the current target.
func (a *AIState) AspectLock() float64 { return a.aspectLock }

// ActiveGoal returns the active goal index, GoalNone or GoalDynamic.
func (a *AIState) ActiveGoal() int { return a.activeGoal }

// Goals returns a copy of the goal slots.
func (a *AIState) Goals() [MaxGoals]Goal { return a.goals }

// DynamicGoal returns the dynamic goal, if one is set.
func (a *AIState) DynamicGoal() (Goal, bool) { return a.dynamicGoal, a.hasDynamic }

// LastControl returns the control input computed on the last tick.
func (a *AIState) LastControl() model.ControlInfo { return a.lastControl }

// setMode replaces the mode variant. The submode comes with the new variant, so the
// previous submode is recorded and the submode clock restarts together with the mode clock.
func (a *AIState) setMode(now timestamp.Stamp, next modeState) {
	if next == nil {
		next = &noneState{}
	}
	if a.mode != nil {
		a.previousMode = a.mode.Mode()
		a.previousSubmode = a.mode.Submode()
	}
	a.mode = next
	a.modeStart = now
	a.modeExpire = timestamp.Invalid
	a.submodeStart = now
}

// recordSubmode is called by a mode variant just before it changes its own submode.
func (a *AIState) recordSubmode(now timestamp.Stamp) {
	a.previousSubmode = a.mode.Submode()
	a.submodeStart = now
}
