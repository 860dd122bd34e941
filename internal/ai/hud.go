package ai

import (
	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// Trend is the direction a HUD readout is moving.
type Trend int8

const (
	TrendSteady Trend = iota
	TrendIncreasing
	TrendDecreasing
)

func (t Trend) String() string {
	switch t {
	case TrendIncreasing:
		return "increasing"
	case TrendDecreasing:
		return "decreasing"
	default:
		return "steady"
	}
}

const (
	hudTrendMillis   = 250
	hudDistDeadband  = 1.0
	hudSpeedDeadband = 0.5
)

type hudTrend struct {
	lastDist  float64
	lastSpeed float64
	dist      Trend
	speed     Trend
	next      timestamp.Stamp
	valid     bool
}

// HUDView is a read-only snapshot of one AI ship for display.
type HUDView struct {
	Ship       string       `json:"ship"`
	Handle     model.Handle `json:"-"`
	Team       string       `json:"team"`
	Class      string       `json:"class"`
	Mode       string       `json:"mode"`
	Submode    string       `json:"submode"`
	Debug      string       `json:"debug"`
	Goal       string       `json:"goal,omitempty"`
	Target     string       `json:"target,omitempty"`
	TargetDist float64      `json:"targetDist"`
	DistTrend  string       `json:"distTrend"`
	SpeedTrend string       `json:"speedTrend"`
	Speed      float64      `json:"speed"`
	Hull       float64      `json:"hull"`
	AspectLock float64      `json:"aspectLock"`
	Pos        vecmath.Vec3 `json:"pos"`
}

func trendOf(cur, last, deadband float64) Trend {
	switch {
	case cur > last+deadband:
		return TrendIncreasing
	case cur < last-deadband:
		return TrendDecreasing
	}
	return TrendSteady
}

// updateHUDTrend samples distance to target and own speed at a fixed rate.
func (t *tick) updateHUDTrend() {
	h := &t.a.hud
	if h.valid && !t.clock().Elapsed(h.next) {
		return
	}
	h.next = t.clock().In(hudTrendMillis)

	speed := t.self.Speed()
	dist := -1.0
	if target, ok := t.obj(t.a.target); ok {
		dist = vecmath.Dist(t.self.Pos, target.Pos)
	}

	if h.valid {
		h.speed = trendOf(speed, h.lastSpeed, hudSpeedDeadband)
		if dist >= 0 && h.lastDist >= 0 {
			h.dist = trendOf(dist, h.lastDist, hudDistDeadband)
		} else {
			h.dist = TrendSteady
		}
	}
	h.lastDist = dist
	h.lastSpeed = speed
	h.valid = true
}

// hudView builds the display record of one ship.
func (m *Manager) hudView(a *AIState, self *model.Object) HUDView {
	sub := a.Submode()
	v := HUDView{
		Ship:       self.Name,
		Handle:     self.Handle(),
		Team:       self.Team.String(),
		Mode:       a.Mode().String(),
		Submode:    sub.Name,
		Debug:      "AI: " + sub.String(),
		DistTrend:  a.hud.dist.String(),
		SpeedTrend: a.hud.speed.String(),
		Speed:      self.Speed(),
		Hull:       self.HullFraction(),
		AspectLock: a.aspectLock,
		Pos:        self.Pos,
	}
	if self.Class != nil {
		v.Class = self.Class.Name
	}
	if g, ok := a.goal(a.activeGoal); ok {
		v.Goal = g.String()
	}
	if target, ok := m.world.Get(a.target); ok {
		v.Target = target.Name
		v.TargetDist = vecmath.Dist(self.Pos, target.Pos)
	}
	return v
}

// HUD returns the live view of one ship. It must be called from the tick goroutine;
// other goroutines use Snapshot.
func (m *Manager) HUD(h model.Handle) (HUDView, bool) {
	a, ok := m.State(h)
	if !ok {
		return HUDView{}, false
	}
	self, ok := m.world.Get(h)
	if !ok {
		return HUDView{}, false
	}
	return m.hudView(a, self), true
}

// Snapshot returns the views published after the last tick. Safe for concurrent use.
func (m *Manager) Snapshot() []HUDView {
	p := m.snapshot.Load()
	if p == nil {
		return nil
	}
	return *p
}

func (m *Manager) publishSnapshot() {
	views := make([]HUDView, 0, m.slots.used())
	for _, a := range m.slots.states {
		if a == nil {
			continue
		}
		self, ok := m.world.Get(a.owner)
		if !ok {
			continue
		}
		views = append(views, m.hudView(a, self))
	}
	m.snapshot.Store(&views)
}
