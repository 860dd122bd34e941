package world

import (
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// maxSectorScan bounds the number of sectors visited by one range query; larger
// queries fall back to a linear scan over all objects.
const maxSectorScan = 343 // 7×7×7

// sectorIndex buckets object slots by sector for range queries.
// It is rebuilt once per tick from object positions.
type sectorIndex struct {
	buckets map[SectorKey][]int32
}

func newSectorIndex() *sectorIndex {
	return &sectorIndex{buckets: make(map[SectorKey][]int32)}
}

func (s *sectorIndex) reset() {
	for k, v := range s.buckets {
		s.buckets[k] = v[:0]
	}
}

func (s *sectorIndex) add(slot int32, pos vecmath.Vec3) {
	k := CoordToSector(pos)
	s.buckets[k] = append(s.buckets[k], slot)
}

func (s *sectorIndex) remove(slot int32, pos vecmath.Vec3) {
	k := CoordToSector(pos)
	b := s.buckets[k]
	for i, v := range b {
		if v == slot {
			b[i] = b[len(b)-1]
			s.buckets[k] = b[:len(b)-1]
			return
		}
	}
}

// visit calls fn for every slot in sectors overlapping the sphere. Returns false if the
// query is too large for the index and the caller must scan linearly.
func (s *sectorIndex) visit(center vecmath.Vec3, radius float64, fn func(slot int32) bool) bool {
	span := SectorSpan(radius)
	side := 2*span + 1
	if side*side*side > maxSectorScan {
		return false
	}

	c := CoordToSector(center)
	for x := c.X - span; x <= c.X+span; x++ {
		for y := c.Y - span; y <= c.Y+span; y++ {
			for z := c.Z - span; z <= c.Z+span; z++ {
				for _, slot := range s.buckets[SectorKey{x, y, z}] {
					if !fn(slot) {
						return true
					}
				}
			}
		}
	}
	return true
}
