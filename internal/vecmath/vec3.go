package vecmath

import "math"

// Vec3 is a float64 world-space vector.
type Vec3 struct {
	X, Y, Z float64
}

// Zero is the origin.
var Zero = Vec3{}

// Add returns a+b.
func Add(a, b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns a-b.
func Sub(a, b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns v*s.
func Scale(v Vec3, s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// ScaleAdd returns a + b*s.
func ScaleAdd(a, b Vec3, s float64) Vec3 {
	return Vec3{a.X + b.X*s, a.Y + b.Y*s, a.Z + b.Z*s}
}

func Dot(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func MagSq(v Vec3) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func Mag(v Vec3) float64 {
	return math.Sqrt(MagSq(v))
}

// Normalize returns v scaled to unit length, or the zero vector when v has no length.
func Normalize(v Vec3) Vec3 {
	mag := Mag(v)
	if mag < 1e-9 {
		return Vec3{}
	}
	inv := 1.0 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// NormalizedDir returns the unit vector from `from` to `to` and the distance between them.
func NormalizedDir(to, from Vec3) (Vec3, float64) {
	d := Sub(to, from)
	dist := Mag(d)
	if dist < 1e-9 {
		return Vec3{}, 0
	}
	return Scale(d, 1/dist), dist
}

func Dist(a, b Vec3) float64 {
	return Mag(Sub(a, b))
}

func DistSq(a, b Vec3) float64 {
	return MagSq(Sub(a, b))
}

// Lerp interpolates between a and b.
func Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Project returns the component of v along unit vector n.
func Project(v, n Vec3) Vec3 {
	return Scale(n, Dot(v, n))
}

// Reject returns the component of v perpendicular to unit vector n.
func Reject(v, n Vec3) Vec3 {
	return Sub(v, Project(v, n))
}

// IsZero reports whether v is (numerically) the zero vector.
func IsZero(v Vec3) bool {
	return MagSq(v) < 1e-18
}

// Clamp limits x into [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Perpendicular returns an arbitrary unit vector orthogonal to v.
func Perpendicular(v Vec3) Vec3 {
	n := Normalize(v)
	axis := Vec3{X: 1}
	if math.Abs(n.X) > 0.9 {
		axis = Vec3{Y: 1}
	}
	return Normalize(Cross(n, axis))
}
