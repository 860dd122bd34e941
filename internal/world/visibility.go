package world

import (
	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// SegmentHitsSphere reports whether the segment from→to passes within radius of center,
// and the distance along the segment to the closest approach.
func SegmentHitsSphere(from, to, center vecmath.Vec3, radius float64) (bool, float64) {
	seg := vecmath.Sub(to, from)
	segLen := vecmath.Mag(seg)
	if segLen < 1e-9 {
		return vecmath.DistSq(from, center) <= radius*radius, 0
	}
	dir := vecmath.Scale(seg, 1/segLen)
	t := vecmath.Clamp(vecmath.Dot(vecmath.Sub(center, from), dir), 0, segLen)
	closest := vecmath.ScaleAdd(from, dir, t)
	return vecmath.DistSq(closest, center) <= radius*radius, t
}

// Obstructed returns the nearest ship whose bounding sphere blocks the segment from→to.
// Objects in ignore are skipped.
func (w *World) Obstructed(from, to vecmath.Vec3, ignore ...model.Handle) (model.Handle, bool) {
	best := model.NoHandle
	bestT := 0.0

	mid := vecmath.Lerp(from, to, 0.5)
	reach := vecmath.Dist(from, to)/2 + maxShipRadius(w)

	w.ForEachInRange(mid, reach, func(o *model.Object) bool {
		if !o.IsShip() || o.Radius <= 0 {
			return true
		}
		h := o.Handle()
		for _, ig := range ignore {
			if ig == h {
				return true
			}
		}
		hit, t := SegmentHitsSphere(from, to, o.Pos, o.Radius)
		if hit && (best.IsNone() || t < bestT) {
			best, bestT = h, t
		}
		return true
	})

	return best, !best.IsNone()
}

// LineOfSight reports whether nothing blocks the segment.
func (w *World) LineOfSight(from, to vecmath.Vec3, ignore ...model.Handle) bool {
	_, blocked := w.Obstructed(from, to, ignore...)
	return !blocked
}

func maxShipRadius(w *World) float64 {
	r := 0.0
	w.ForEachShip(func(o *model.Object) bool {
		if o.Radius > r {
			r = o.Radius
		}
		return true
	})
	return r
}
