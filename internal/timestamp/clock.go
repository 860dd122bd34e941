package timestamp

import "math"

// Stamp is an absolute mission time in milliseconds.
// All cooldowns in the engine are expressed as stamps, never as countdowns,
// so a frame of any length can only move them from "pending" to "elapsed" once.
type Stamp int64

const (
	// Invalid marks a timer that was never set. Elapsed reports false for it.
	Invalid Stamp = -1
	// Never is a timer that will not elapse.
	Never Stamp = math.MaxInt64
)

// maxFrameMillis caps a single Advance so a stalled frame cannot overflow the clock.
const maxFrameMillis = int64(1) << 40

// Clock is the monotonic mission clock.
// It is not safe for concurrent use; the tick loop owns it.
type Clock struct {
	now       Stamp
	remainder float64 // sub-millisecond carry between frames
	frametime float64 // seconds, last frame
}

// NewClock creates a clock at mission time zero.
func NewClock() *Clock {
	return &Clock{}
}

// Advance moves mission time forward by frametime seconds.
// Negative and NaN frame times count as zero.
func (c *Clock) Advance(frametime float64) {
	if frametime < 0 || math.IsNaN(frametime) {
		frametime = 0
	}
	c.frametime = frametime

	ms := frametime*1000 + c.remainder
	if math.IsInf(ms, 0) || math.IsNaN(ms) || ms >= float64(maxFrameMillis) {
		ms = float64(maxFrameMillis)
	}
	whole := math.Floor(ms)
	c.remainder = ms - whole
	step := int64(whole)
	if c.now > Never-Stamp(step) {
		c.now = Never - 1
		return
	}
	c.now += Stamp(step)
}

// Now returns current mission time.
func (c *Clock) Now() Stamp {
	return c.now
}

// Frametime returns the last frame duration in seconds.
func (c *Clock) Frametime() float64 {
	return c.frametime
}

// In returns a stamp ms milliseconds from now.
func (c *Clock) In(ms int64) Stamp {
	if ms < 0 {
		ms = 0
	}
	if c.now > Never-Stamp(ms) {
		return Never
	}
	return c.now + Stamp(ms)
}

// InSeconds returns a stamp s seconds from now.
func (c *Clock) InSeconds(s float64) Stamp {
	return c.In(int64(s * 1000))
}

// Elapsed reports whether the stamp has been reached. Invalid stamps never elapse.
func (c *Clock) Elapsed(s Stamp) bool {
	if s == Invalid || s == Never {
		return false
	}
	return c.now >= s
}

// Pending reports whether the stamp is set and still in the future.
func (c *Clock) Pending(s Stamp) bool {
	if s == Invalid {
		return false
	}
	return c.now < s
}

// Since returns seconds elapsed since s (0 for invalid stamps or stamps in the future).
func (c *Clock) Since(s Stamp) float64 {
	if s == Invalid || s > c.now {
		return 0
	}
	return float64(c.now-s) / 1000
}

// Until returns seconds remaining until s (0 if already elapsed or invalid).
func (c *Clock) Until(s Stamp) float64 {
	if s == Invalid || s <= c.now {
		return 0
	}
	if s == Never {
		return math.Inf(1)
	}
	return float64(s-c.now) / 1000
}

// Seconds converts a stamp to seconds of mission time.
func (s Stamp) Seconds() float64 {
	return float64(s) / 1000
}
