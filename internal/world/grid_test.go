package world

import (
	"testing"

	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

func TestCoordToSector(t *testing.T) {
	tests := []struct {
		name string
		pos  vecmath.Vec3
		want SectorKey
	}{
		{
			name: "origin",
			pos:  vecmath.Vec3{},
			want: SectorKey{0, 0, 0},
		},
		{
			name: "just inside first sector",
			pos:  vecmath.Vec3{X: SectorSize - 1, Y: 1, Z: 1},
			want: SectorKey{0, 0, 0},
		},
		{
			name: "negative coordinates floor downwards",
			pos:  vecmath.Vec3{X: -1, Y: -SectorSize, Z: -SectorSize - 1},
			want: SectorKey{-1, -1, -2},
		},
		{
			name: "far away",
			pos:  vecmath.Vec3{X: 10 * SectorSize, Y: 3 * SectorSize, Z: 0},
			want: SectorKey{10, 3, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoordToSector(tt.pos); got != tt.want {
				t.Errorf("CoordToSector(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestSectorSpan(t *testing.T) {
	if got := SectorSpan(0); got != 0 {
		t.Errorf("SectorSpan(0) = %d, want 0", got)
	}
	if got := SectorSpan(SectorSize); got != 1 {
		t.Errorf("SectorSpan(SectorSize) = %d, want 1", got)
	}
	if got := SectorSpan(SectorSize + 1); got != 2 {
		t.Errorf("SectorSpan(SectorSize+1) = %d, want 2", got)
	}
}
