package model

// ControlInfo is the per-tick control input handed to the physics integrator.
// Rotation fields are desired rates as a fraction of the class maximum, in [-1, 1].
type ControlInfo struct {
	Pitch   float64
	Heading float64
	Bank    float64

	ForwardThrust float64 // [-1, 1], negative is reverse
	SideThrust    float64
	VertThrust    float64

	Afterburner bool
}

// Reset zeroes all inputs.
func (c *ControlInfo) Reset() {
	*c = ControlInfo{}
}
