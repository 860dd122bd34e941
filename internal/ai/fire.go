package ai

import (
	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
)

const (
	primaryFireDelay   = 0.25 // seconds between primary bursts before scaling
	secondaryFireDelay = 2.0
	missileLockSecs    = 1.0
	primaryFireDot     = 0.95
)

// FireFunc is called when an AI ship fires at a target. The callback owns weapon
// creation and ammunition; the AI only decides when.
type FireFunc func(shooter, target *model.Object, secondary bool)

func (t *tick) friendlyFire(target *model.Object) bool {
	return !t.world().Hostile(t.self.Team, target.Team)
}

// maybeFirePrimary fires primaries when the target is in range and the nose is on it.
func (t *tick) maybeFirePrimary(target *model.Object, dot, dist float64) bool {
	a := t.a
	if t.m.fire == nil || t.self.Class == nil || t.self.Class.PrimaryRange <= 0 {
		return false
	}
	if dot < primaryFireDot || dist > t.self.Class.PrimaryRange {
		return false
	}
	if a.nextPrimaryFire != timestamp.Invalid && !t.clock().Elapsed(a.nextPrimaryFire) {
		return false
	}
	if t.self.Energy <= 0.05 {
		return false
	}

	scale := a.Tuning.FireDelayScaleHostile
	if t.friendlyFire(target) {
		scale = a.Tuning.FireDelayScaleFriendly
	}
	a.nextPrimaryFire = t.clock().InSeconds(primaryFireDelay * max(scale, 0.1))
	t.m.fire(t.self, target, false)
	return true
}

// maybeFireSecondary launches a missile once aspect lock has built up.
func (t *tick) maybeFireSecondary(target *model.Object, dist float64) bool {
	a := t.a
	if t.m.fire == nil || t.self.Class == nil || t.self.Class.SecondaryRange <= 0 {
		return false
	}
	if a.aspectLock < missileLockSecs || dist > t.self.Class.SecondaryRange*a.Tuning.SecondaryRangeMult {
		return false
	}
	if a.nextSecondaryFire != timestamp.Invalid && !t.clock().Elapsed(a.nextSecondaryFire) {
		return false
	}

	scale := a.Tuning.SecondaryDelayScaleHostile
	if t.friendlyFire(target) {
		scale = a.Tuning.SecondaryDelayScaleFriendly
	}
	a.nextSecondaryFire = t.clock().InSeconds(secondaryFireDelay * max(scale, 0.1))
	if target.Flags.Has(model.FlagPlayer) && !t.percent(a.Tuning.MissileOnPlayerChance) {
		return false
	}
	t.m.fire(t.self, target, true)
	return true
}
