package model

import "fmt"

// Handle is a weak reference to an object slot.
// Slots are reused; Sig changes on every reuse, so a stale Handle stops resolving
// instead of silently pointing at the new occupant.
type Handle struct {
	Index int32
	Sig   uint32
}

// NoHandle references nothing.
var NoHandle = Handle{Index: -1}

// IsNone reports whether the handle is the "no object" sentinel.
func (h Handle) IsNone() bool {
	return h.Index < 0
}

func (h Handle) String() string {
	if h.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%d#%d", h.Index, h.Sig)
}

// SubsysRef is a weak reference to a subsystem of a parent object.
// It resolves to nothing once the parent handle goes stale.
type SubsysRef struct {
	Parent Handle
	Index  int
}

// NoSubsys references no subsystem.
var NoSubsys = SubsysRef{Parent: NoHandle, Index: -1}

// IsNone reports whether the reference is empty.
func (r SubsysRef) IsNone() bool {
	return r.Parent.IsNone() || r.Index < 0
}
