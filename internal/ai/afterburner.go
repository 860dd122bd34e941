package ai

import (
	"github.com/jg18/fs2open.github.com/internal/model"
)

const (
	afterburnerMinFuel    = 0.3
	afterburnerMinEnergy  = 0.2
	afterburnerMinMillis  = 1500
	afterburnerHardMillis = 3000
)

// willingToAfterburn decides whether the ship may light its afterburner now. Ships in
// danger or flagged for free use always may; others roll against the tier use factor.
func (t *tick) willingToAfterburn() bool {
	self := t.self
	if self.Class == nil || !self.Class.CanAfterburn() {
		return false
	}
	if !t.a.afterburning && t.clock().Pending(t.a.afterburnerStop) {
		return false
	}
	if self.AfterburnerFuel < afterburnerMinFuel && !t.a.afterburning {
		return false
	}
	if self.Energy < afterburnerMinEnergy {
		return false
	}
	if t.a.Flags.Has(AIFFreeAfterburnerUse) || t.a.Tuning.FreeAfterburnerUse {
		return true
	}
	if !t.a.dangerWeapon.IsNone() {
		return true
	}
	return t.m.rng.IntN(max(t.a.Tuning.AfterburnerUseFactor, 1)) == 0
}

// maybeFireAfterburner lights the afterburner if willing; once lit it stays on for at
// least afterburnerMinMillis. updateAfterburner runs before every mode frame and is
// the only place that keeps or ends a burn.
func (t *tick) maybeFireAfterburner() {
	if t.a.afterburning {
		return
	}
	if !t.willingToAfterburn() {
		return
	}
	t.startAfterburner(afterburnerMinMillis)
}

// afterburnHard lights the afterburner unconditionally when the class has one.
func (t *tick) afterburnHard() {
	if t.self.Class == nil || !t.self.Class.CanAfterburn() || t.self.AfterburnerFuel <= 0 {
		return
	}
	if !t.a.afterburning {
		t.startAfterburner(afterburnerHardMillis)
	}
	t.ci.Afterburner = true
}

func (t *tick) startAfterburner(ms int64) {
	t.a.afterburning = true
	t.a.afterburnerStop = t.clock().In(ms)
	t.ci.Afterburner = true
}

// updateAfterburner carries the afterburner state into this frame's control input and
// shuts it off when its stop stamp elapses or fuel runs out.
func (t *tick) updateAfterburner() {
	a := t.a
	if !a.afterburning {
		return
	}
	if t.clock().Elapsed(a.afterburnerStop) || t.self.AfterburnerFuel <= 0 || t.self.Flags.Has(model.FlagDisabled) {
		a.afterburning = false
		a.afterburnerStop = t.clock().In(afterburnerMinMillis)
		t.ci.Afterburner = false
		return
	}
	t.ci.Afterburner = true
}

// stopAfterburner forces the afterburner off.
func (t *tick) stopAfterburner() {
	t.a.afterburning = false
	t.ci.Afterburner = false
}
