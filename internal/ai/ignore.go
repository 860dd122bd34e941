package ai

import (
	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
)

// MaxIgnoreNew is the capacity of the temporary ignore ring.
const MaxIgnoreNew = 7

type ignoreEntry struct {
	h      model.Handle
	expire timestamp.Stamp
}

// IgnoreObject stops the ship from picking h as a target. With expire set to
// timestamp.Never the ignore is permanent and replaces any previous permanent ignore;
// otherwise h goes into the ring and becomes eligible again once expire elapses.
// A full ring overwrites its oldest entry. An Invalid expire stamp ignores nothing.
func (a *AIState) IgnoreObject(h model.Handle, expire timestamp.Stamp) {
	if h.IsNone() || expire == timestamp.Invalid {
		return
	}
	if expire == timestamp.Never {
		a.ignoreObj = h
		a.ignoreWing = -1
		return
	}
	for i := range a.ignoreRing {
		if a.ignoreRing[i].h == h {
			a.ignoreRing[i].expire = expire
			return
		}
	}
	a.ignoreRing[a.ignoreNext] = ignoreEntry{h: h, expire: expire}
	a.ignoreNext = (a.ignoreNext + 1) % MaxIgnoreNew
	a.Flags |= AIFTemporaryIgnore
	if expire > a.ignoreExpire {
		a.ignoreExpire = expire
	}
}

// IgnoreWing permanently ignores every member of a wing.
func (a *AIState) IgnoreWing(wing int) {
	a.ignoreObj = model.NoHandle
	a.ignoreWing = wing
}

// ClearIgnore drops the permanent ignore and empties the ring.
func (a *AIState) ClearIgnore() {
	a.ignoreObj = model.NoHandle
	a.ignoreWing = -1
	a.ignoreRing = [MaxIgnoreNew]ignoreEntry{}
	a.ignoreNext = 0
	a.ignoreExpire = timestamp.Invalid
	a.Flags &^= AIFTemporaryIgnore
}

// isIgnored reports whether obj must be skipped as a target right now.
// Ring entries stop applying at their expiry stamp.
func (a *AIState) isIgnored(obj *model.Object, clock *timestamp.Clock) bool {
	h := obj.Handle()
	if !a.ignoreObj.IsNone() && a.ignoreObj == h {
		return true
	}
	if a.ignoreWing >= 0 && obj.Wing == a.ignoreWing {
		return true
	}
	if !a.Flags.Has(AIFTemporaryIgnore) {
		return false
	}
	for _, e := range a.ignoreRing {
		if e.h == h && !e.h.IsNone() && !clock.Elapsed(e.expire) {
			return true
		}
	}
	return false
}

// expireIgnores clears the temporary-ignore flag once every ring entry has elapsed.
func (a *AIState) expireIgnores(clock *timestamp.Clock) {
	if a.Flags.Has(AIFTemporaryIgnore) && clock.Elapsed(a.ignoreExpire) {
		a.ignoreRing = [MaxIgnoreNew]ignoreEntry{}
		a.ignoreNext = 0
		a.ignoreExpire = timestamp.Invalid
		a.Flags &^= AIFTemporaryIgnore
	}
}
