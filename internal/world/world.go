package world

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// DefaultMaxObjects is the object arena capacity when none is configured.
const DefaultMaxObjects = 2000

// ErrWorldFull is returned when every object slot is occupied.
var ErrWorldFull = errors.New("world: no free object slots")

// DestroyListener is notified after an object is removed from the world.
// The handle no longer resolves when the listener runs.
type DestroyListener func(h model.Handle, obj *model.Object)

// World holds every simulated object in a fixed-capacity arena.
// Not safe for concurrent use; the tick goroutine owns it.
type World struct {
	objects []*model.Object
	slots   slotTable
	sigGen  signatureGenerator
	sectors *sectorIndex

	iff            *model.IFF
	allTeamsAttack bool

	wings     []Wing
	waypoints []WaypointList
	docks     dockRegistry

	listeners []DestroyListener
}

// New creates an empty world with the given object capacity.
func New(maxObjects int) *World {
	if maxObjects <= 0 {
		maxObjects = DefaultMaxObjects
	}
	return &World{
		objects: make([]*model.Object, maxObjects),
		slots:   newSlotTable(maxObjects),
		sectors: newSectorIndex(),
		iff:     model.DefaultIFF(),
		docks:   newDockRegistry(),
	}
}

// IFF returns the team relation table.
func (w *World) IFF() *model.IFF {
	return w.iff
}

// SetIFF replaces the team relation table.
func (w *World) SetIFF(iff *model.IFF) {
	if iff != nil {
		w.iff = iff
	}
}

// SetAllTeamsAttack toggles the mission flag that makes every team hostile to every other.
func (w *World) SetAllTeamsAttack(on bool) {
	w.allTeamsAttack = on
}

// AllTeamsAttack reports the all-teams-hostile mission flag.
func (w *World) AllTeamsAttack() bool {
	return w.allTeamsAttack
}

// EnemyMask returns the teams t should attack under current mission rules.
func (w *World) EnemyMask(t model.Team) model.TeamMask {
	if w.allTeamsAttack {
		return model.AllTeams &^ t.Mask()
	}
	return w.iff.EnemyMask(t)
}

// Hostile reports whether team a attacks team b.
func (w *World) Hostile(a, b model.Team) bool {
	return w.EnemyMask(a).Has(b)
}

// Add places an object into the world and returns its handle.
func (w *World) Add(obj *model.Object) (model.Handle, error) {
	sig := w.sigGen.nextSignature()
	idx, ok := w.slots.alloc(sig)
	if !ok {
		return model.NoHandle, fmt.Errorf("adding %s %q: %w", obj.Type, obj.Name, ErrWorldFull)
	}

	h := model.Handle{Index: idx, Sig: sig}
	obj.SetHandle(h)
	obj.Flags &^= model.FlagDead
	w.objects[idx] = obj
	w.sectors.add(idx, obj.Pos)
	return h, nil
}

// Get resolves a handle. It returns false when the handle is stale, empty, or the object died.
func (w *World) Get(h model.Handle) (*model.Object, bool) {
	if !w.slots.valid(h.Index, h.Sig) {
		return nil, false
	}
	obj := w.objects[h.Index]
	if obj == nil || obj.IsDead() {
		return nil, false
	}
	return obj, true
}

// Valid reports whether the handle resolves to a live object.
func (w *World) Valid(h model.Handle) bool {
	_, ok := w.Get(h)
	return ok
}

// OnDestroy registers a listener for object removal.
func (w *World) OnDestroy(fn DestroyListener) {
	w.listeners = append(w.listeners, fn)
}

// Destroy removes the object and releases its slot. Listeners run afterwards so that
// weak references elsewhere can be cleared.
func (w *World) Destroy(h model.Handle) {
	obj, ok := w.Get(h)
	if !ok {
		return
	}

	obj.Flags |= model.FlagDead
	w.docks.releaseAll(h)
	w.sectors.remove(h.Index, obj.Pos)
	w.objects[h.Index] = nil
	w.slots.release(h.Index)

	slog.Debug("object destroyed", "name", obj.Name, "handle", h)

	for _, fn := range w.listeners {
		fn(h, obj)
	}
}

// Count returns the number of live objects.
func (w *World) Count() int {
	return w.slots.used
}

// Capacity returns the arena size.
func (w *World) Capacity() int {
	return len(w.objects)
}

// ForEach calls fn for every live object in slot order until fn returns false.
func (w *World) ForEach(fn func(*model.Object) bool) {
	for _, obj := range w.objects {
		if obj == nil || obj.IsDead() {
			continue
		}
		if !fn(obj) {
			return
		}
	}
}

// ForEachShip calls fn for every live ship.
func (w *World) ForEachShip(fn func(*model.Object) bool) {
	w.ForEach(func(o *model.Object) bool {
		if !o.IsShip() {
			return true
		}
		return fn(o)
	})
}

// ForEachInRange calls fn for live objects whose centre is within radius of pos.
func (w *World) ForEachInRange(pos vecmath.Vec3, radius float64, fn func(*model.Object) bool) {
	rSq := radius * radius
	visit := func(o *model.Object) bool {
		if o == nil || o.IsDead() {
			return true
		}
		if vecmath.DistSq(o.Pos, pos) > rSq {
			return true
		}
		return fn(o)
	}

	indexed := w.sectors.visit(pos, radius, func(slot int32) bool {
		return visit(w.objects[slot])
	})
	if !indexed {
		w.ForEach(visit)
	}
}

// RebuildIndex re-buckets every object by its current position. Called once per tick
// after physics has moved everything.
func (w *World) RebuildIndex() {
	w.sectors.reset()
	for i, obj := range w.objects {
		if obj == nil || obj.IsDead() {
			continue
		}
		w.sectors.add(int32(i), obj.Pos)
	}
}

// FindByName returns the first live object with the given name.
func (w *World) FindByName(name string) (model.Handle, bool) {
	found := model.NoHandle
	w.ForEach(func(o *model.Object) bool {
		if o.Name == name {
			found = o.Handle()
			return false
		}
		return true
	})
	return found, !found.IsNone()
}

// Reset clears every object, wing, waypoint list and dock.
func (w *World) Reset() {
	capacity := len(w.objects)
	w.objects = make([]*model.Object, capacity)
	w.slots = newSlotTable(capacity)
	w.sectors = newSectorIndex()
	w.wings = nil
	w.waypoints = nil
	w.docks = newDockRegistry()
	w.allTeamsAttack = false
}
