package ai

import (
	"errors"
	"fmt"

	"github.com/jg18/fs2open.github.com/internal/model"
)

// ErrNoFreeSlot is returned by Register when every AI slot is taken.
var ErrNoFreeSlot = errors.New("ai: no free slot")

// SlotID names an AI slot together with the generation of its current occupant.
type SlotID struct {
	Index int32
	Gen   uint32
}

func (s SlotID) String() string {
	return fmt.Sprintf("slot %d/%d", s.Index, s.Gen)
}

// slotTable is the arena of AIState records. Generations start at 1 and grow on every
// reuse, so a SlotID kept past Release stops resolving.
type slotTable struct {
	states  []*AIState
	gens    []uint32
	free    []int32 // LIFO
	byOwner map[model.Handle]SlotID
}

func newSlotTable(capacity int) slotTable {
	t := slotTable{
		states:  make([]*AIState, capacity),
		gens:    make([]uint32, capacity),
		free:    make([]int32, 0, capacity),
		byOwner: make(map[model.Handle]SlotID, capacity),
	}
	for i := capacity - 1; i >= 0; i-- {
		t.free = append(t.free, int32(i))
	}
	return t
}

func (t *slotTable) alloc() (SlotID, bool) {
	if len(t.free) == 0 {
		return SlotID{Index: -1}, false
	}
	idx := t.free[len(t.free)-1]
	t.free = t.free[:len(t.free)-1]
	t.gens[idx]++
	if t.gens[idx] == 0 {
		t.gens[idx] = 1
	}
	return SlotID{Index: idx, Gen: t.gens[idx]}, true
}

func (t *slotTable) get(id SlotID) (*AIState, bool) {
	if id.Index < 0 || int(id.Index) >= len(t.states) || t.gens[id.Index] != id.Gen {
		return nil, false
	}
	st := t.states[id.Index]
	return st, st != nil
}

func (t *slotTable) release(id SlotID) (*AIState, bool) {
	st, ok := t.get(id)
	if !ok {
		return nil, false
	}
	t.states[id.Index] = nil
	delete(t.byOwner, st.owner)
	t.free = append(t.free, id.Index)
	return st, true
}

func (t *slotTable) used() int {
	return len(t.states) - len(t.free)
}
