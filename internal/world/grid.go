package world

import (
	"math"

	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// Sector grid constants. Space is unbounded, so sectors are hashed rather than
// stored in a fixed array.
const (
	// ShiftBy - shift by N bits for 2^N meters per sector (2^10 = 1024)
	ShiftBy = 10

	// SectorSize in meters
	SectorSize = 1 << ShiftBy

	// coordLimit keeps float→int conversion in range for absurd positions.
	coordLimit = 1 << 40
)

// SectorKey identifies one cubic sector.
type SectorKey struct {
	X, Y, Z int64
}

// CoordToSector converts a world position to its sector key.
// Formula: floor(coord) >> ShiftBy
func CoordToSector(p vecmath.Vec3) SectorKey {
	return SectorKey{
		X: axisToSector(p.X),
		Y: axisToSector(p.Y),
		Z: axisToSector(p.Z),
	}
}

func axisToSector(c float64) int64 {
	if math.IsNaN(c) {
		return 0
	}
	c = vecmath.Clamp(c, -coordLimit, coordLimit)
	return int64(math.Floor(c)) >> ShiftBy
}

// SectorSpan returns how many sectors a radius covers on each side of the center sector.
func SectorSpan(radius float64) int64 {
	if radius <= 0 {
		return 0
	}
	if radius > coordLimit {
		radius = coordLimit
	}
	return int64(math.Ceil(radius / SectorSize))
}
