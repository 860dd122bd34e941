package vecmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeZero(t *testing.T) {
	assert.Equal(t, Vec3{}, Normalize(Vec3{}))
}

func TestNormalizedDir(t *testing.T) {
	dir, dist := NormalizedDir(Vec3{X: 3, Y: 4}, Vec3{})
	assert.InDelta(t, 5.0, dist, 1e-9)
	assert.InDelta(t, 0.6, dir.X, 1e-9)
	assert.InDelta(t, 0.8, dir.Y, 1e-9)
}

func TestFromForwardIsOrthonormal(t *testing.T) {
	m := FromForward(Vec3{X: 1, Y: 1, Z: 1}, Vec3{})

	assert.InDelta(t, 1.0, Mag(m.F), 1e-9)
	assert.InDelta(t, 1.0, Mag(m.R), 1e-9)
	assert.InDelta(t, 1.0, Mag(m.U), 1e-9)
	assert.InDelta(t, 0.0, Dot(m.F, m.R), 1e-9)
	assert.InDelta(t, 0.0, Dot(m.F, m.U), 1e-9)
	assert.InDelta(t, 0.0, Dot(m.R, m.U), 1e-9)
}

func TestRotateUnrotateRoundTrip(t *testing.T) {
	m := FromForward(Vec3{X: 1, Z: 1}, Vec3{Y: 1})
	local := Vec3{X: 1, Y: 2, Z: 3}

	back := m.Unrotate(m.Rotate(local))
	assert.InDelta(t, local.X, back.X, 1e-9)
	assert.InDelta(t, local.Y, back.Y, 1e-9)
	assert.InDelta(t, local.Z, back.Z, 1e-9)
}

func TestRotateLocalHeading(t *testing.T) {
	m := Identity.RotateLocal(0, math.Pi/2, 0)

	// Positive heading swings the nose towards the right axis.
	assert.InDelta(t, 1.0, m.F.X, 1e-9)
	assert.InDelta(t, 0.0, m.F.Z, 1e-9)
}

func TestDot3(t *testing.T) {
	assert.InDelta(t, 3.0, Dot3(Identity, Identity), 1e-9)
	flipped := FromForward(Vec3{Z: -1}, Vec3{Y: 1})
	assert.Less(t, Dot3(Identity, flipped), 3.0)
}
