package world

// signatureGenerator hands out object signatures.
// Signatures are never reused within a mission, so a Handle whose signature does not
// match its slot is guaranteed stale.
//
// Signature ranges (convention):
//
//	0:             reserved (never valid)
//	1 - 0xFFFFFFFF: objects, in creation order, wrapping skips 0
type signatureGenerator struct {
	next uint32
}

func (g *signatureGenerator) nextSignature() uint32 {
	g.next++
	if g.next == 0 {
		g.next = 1
	}
	return g.next
}

// slotTable is a fixed-capacity arena with a free list.
type slotTable struct {
	sigs []uint32 // signature of the current occupant, 0 if free
	free []int32  // LIFO free list
	used int
}

func newSlotTable(capacity int) slotTable {
	t := slotTable{
		sigs: make([]uint32, capacity),
		free: make([]int32, 0, capacity),
	}
	// Hand out low indices first.
	for i := capacity - 1; i >= 0; i-- {
		t.free = append(t.free, int32(i))
	}
	return t
}

func (t *slotTable) alloc(sig uint32) (int32, bool) {
	if len(t.free) == 0 {
		return -1, false
	}
	idx := t.free[len(t.free)-1]
	t.free = t.free[:len(t.free)-1]
	t.sigs[idx] = sig
	t.used++
	return idx, true
}

func (t *slotTable) release(idx int32) {
	if idx < 0 || int(idx) >= len(t.sigs) || t.sigs[idx] == 0 {
		return
	}
	t.sigs[idx] = 0
	t.free = append(t.free, idx)
	t.used--
}

func (t *slotTable) valid(idx int32, sig uint32) bool {
	return idx >= 0 && int(idx) < len(t.sigs) && sig != 0 && t.sigs[idx] == sig
}
