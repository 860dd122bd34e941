package vecmath

import "math"

// Matrix is an orthonormal orientation. Rows are the object's right, up and forward
// axes expressed in world space.
type Matrix struct {
	R, U, F Vec3
}

// Identity is the world-aligned orientation (forward = +Z, up = +Y, right = +X).
var Identity = Matrix{
	R: Vec3{X: 1},
	U: Vec3{Y: 1},
	F: Vec3{Z: 1},
}

// FromForward builds an orientation looking along fvec. upHint is used to resolve roll
// and may be the zero vector.
func FromForward(fvec, upHint Vec3) Matrix {
	f := Normalize(fvec)
	if IsZero(f) {
		return Identity
	}
	up := upHint
	if IsZero(up) || math.Abs(Dot(Normalize(up), f)) > 0.999 {
		up = Vec3{Y: 1}
		if math.Abs(f.Y) > 0.999 {
			up = Vec3{Z: 1}
		}
	}
	r := Normalize(Cross(up, f))
	u := Cross(f, r)
	return Matrix{R: r, U: u, F: f}
}

// Rotate transforms a local-space vector into world space.
func (m Matrix) Rotate(local Vec3) Vec3 {
	return Vec3{
		m.R.X*local.X + m.U.X*local.Y + m.F.X*local.Z,
		m.R.Y*local.X + m.U.Y*local.Y + m.F.Y*local.Z,
		m.R.Z*local.X + m.U.Z*local.Y + m.F.Z*local.Z,
	}
}

// Unrotate transforms a world-space vector into the local frame.
func (m Matrix) Unrotate(world Vec3) Vec3 {
	return Vec3{Dot(world, m.R), Dot(world, m.U), Dot(world, m.F)}
}

// Transform maps a local point of an object at pos with this orientation to world space.
func (m Matrix) Transform(pos, local Vec3) Vec3 {
	return Add(pos, m.Rotate(local))
}

// RotateLocal applies small local rotations (radians) about the right (pitch), up (heading)
// and forward (bank) axes and re-orthonormalizes.
func (m Matrix) RotateLocal(pitch, heading, bank float64) Matrix {
	f := m.F
	u := m.U
	r := m.R

	if heading != 0 {
		c, s := math.Cos(heading), math.Sin(heading)
		f, r = Add(Scale(f, c), Scale(r, s)), Sub(Scale(r, c), Scale(f, s))
	}
	if pitch != 0 {
		c, s := math.Cos(pitch), math.Sin(pitch)
		f, u = Sub(Scale(f, c), Scale(u, s)), Add(Scale(u, c), Scale(f, s))
	}
	if bank != 0 {
		c, s := math.Cos(bank), math.Sin(bank)
		u, r = Sub(Scale(u, c), Scale(r, s)), Add(Scale(r, c), Scale(u, s))
	}
	return FromForward(f, u)
}

// Dot3 returns the summed row alignment of two orientations, 3.0 when identical.
func Dot3(a, b Matrix) float64 {
	return Dot(a.R, b.R) + Dot(a.U, b.U) + Dot(a.F, b.F)
}

// AngleBetween returns the angle in radians between two unit vectors.
func AngleBetween(a, b Vec3) float64 {
	return math.Acos(Clamp(Dot(a, b), -1, 1))
}
