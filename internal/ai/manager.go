package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
	"github.com/jg18/fs2open.github.com/internal/world"
)

var (
	// ErrNotRegistered is returned for ships that have no AI slot.
	ErrNotRegistered = errors.New("ai: ship not registered")
	// ErrUnknownShip is returned when registering a handle that does not resolve.
	ErrUnknownShip = errors.New("ai: ship not in world")
)

const (
	selfDestructMinSecs = 10.0
	selfDestructMaxSecs = 30.0
	shieldTransferRate  = 0.1 // energy fraction moved into shields per management tick
)

// Integrator advances an object's pose from the control input of one tick.
type Integrator interface {
	Apply(obj *model.Object, ci model.ControlInfo, dt float64)
}

// Config sizes the manager.
type Config struct {
	MaxSlots          int
	PathArenaSize     int
	GoalCheckInterval time.Duration
	TickRate          int // ticks per second for Run
	Seed              uint64
}

// DefaultConfig returns the sizes used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxSlots:          500,
		PathArenaSize:     DefaultPathArenaSize,
		GoalCheckInterval: 500 * time.Millisecond,
		TickRate:          30,
		Seed:              1,
	}
}

// Manager owns every AIState and runs them once per tick.
// Process and every command method must be called from one goroutine; Snapshot may be
// called from any goroutine.
type Manager struct {
	cfg        Config
	world      *world.World
	clock      *timestamp.Clock
	rng        *rand.Rand
	slots      slotTable
	arena      *PathArena
	integrator Integrator
	fire       FireFunc
	depart     DepartFunc
	scripted   map[string]ScriptedMode

	departed       map[string]bool
	pendingRemoval []model.Handle

	snapshot atomic.Pointer[[]HUDView]
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewManager creates a manager for w. Ships destroyed in w lose their slot.
func NewManager(w *world.World, cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.MaxSlots <= 0 {
		cfg.MaxSlots = def.MaxSlots
	}
	if cfg.PathArenaSize <= 0 {
		cfg.PathArenaSize = def.PathArenaSize
	}
	if cfg.GoalCheckInterval <= 0 {
		cfg.GoalCheckInterval = def.GoalCheckInterval
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = def.TickRate
	}
	m := &Manager{
		cfg:      cfg,
		world:    w,
		clock:    timestamp.NewClock(),
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		slots:    newSlotTable(cfg.MaxSlots),
		arena:    NewPathArena(cfg.PathArenaSize),
		scripted: make(map[string]ScriptedMode),
		departed: make(map[string]bool),
		stopCh:   make(chan struct{}),
	}
	w.OnDestroy(func(h model.Handle, _ *model.Object) {
		m.Release(h)
	})
	return m
}

func (m *Manager) goalCheckMillis() int64 {
	return max(m.cfg.GoalCheckInterval.Milliseconds(), 1)
}

// Clock returns the mission clock.
func (m *Manager) Clock() *timestamp.Clock { return m.clock }

// World returns the world the manager drives.
func (m *Manager) World() *world.World { return m.world }

// SetIntegrator sets the physics step applied after each ship's AI frame.
func (m *Manager) SetIntegrator(i Integrator) { m.integrator = i }

// SetFireFunc sets the weapon callback.
func (m *Manager) SetFireFunc(fn FireFunc) { m.fire = fn }

// SetDepartFunc sets the departure callback.
func (m *Manager) SetDepartFunc(fn DepartFunc) { m.depart = fn }

// Register gives ship h an AI slot with the resolved tuning. Registering a ship twice
// returns its existing slot.
func (m *Manager) Register(h model.Handle, tuning Tuning) (SlotID, error) {
	self, ok := m.world.Get(h)
	if !ok {
		return SlotID{Index: -1}, fmt.Errorf("registering %s: %w", h, ErrUnknownShip)
	}
	if id, ok := m.slots.byOwner[h]; ok {
		return id, nil
	}
	id, ok := m.slots.alloc()
	if !ok {
		return id, fmt.Errorf("registering %s: %w", self.Name, ErrNoFreeSlot)
	}
	m.slots.states[id.Index] = newAIState(h, id, tuning, m.clock.Now())
	m.slots.byOwner[h] = id

	if traced(self) {
		slog.Debug("AI registered", "ship", self.Name, "slot", id)
	}
	return id, nil
}

// Release frees the slot of h and its path run. Unknown handles are ignored.
func (m *Manager) Release(h model.Handle) {
	id, ok := m.slots.byOwner[h]
	if !ok {
		return
	}
	a, ok := m.slots.release(id)
	if !ok {
		return
	}
	m.freePath(a)
	if IsDebugEnabled() {
		slog.Debug("AI released", "handle", h, "slot", id)
	}
}

// State returns the AI state of ship h.
func (m *Manager) State(h model.Handle) (*AIState, bool) {
	id, ok := m.slots.byOwner[h]
	if !ok {
		return nil, false
	}
	return m.slots.get(id)
}

// StateBySlot resolves a slot ID; IDs from released slots no longer resolve.
func (m *Manager) StateBySlot(id SlotID) (*AIState, bool) {
	return m.slots.get(id)
}

// Count returns the number of occupied slots.
func (m *Manager) Count() int {
	return m.slots.used()
}

// Process runs one tick: the clock advances by frametime, then every registered ship
// runs its AI frame in slot order.
func (m *Manager) Process(frametime float64) {
	m.clock.Advance(frametime)
	m.world.RebuildIndex()

	for _, a := range m.slots.states {
		if a == nil {
			continue
		}
		self, ok := m.world.Get(a.owner)
		if !ok || self.IsDead() {
			m.Release(a.owner)
			continue
		}
		m.processShip(a, self)
	}

	for _, h := range m.pendingRemoval {
		m.world.Destroy(h)
	}
	m.pendingRemoval = m.pendingRemoval[:0]
	m.publishSnapshot()
}

func (m *Manager) processShip(a *AIState, self *model.Object) {
	t := m.newTick(a, self)
	a.expireIgnores(m.clock)

	if !m.disabledFrame(t) {
		m.processGoals(t)
		t.updateHUDTrend()
		t.checkAvoid()
		t.updateAfterburner()
		a.mode.frame(t)
		sub := a.Submode()
		t.invariant(validSubmode(sub), "mode %s carries submode %d", sub.Mode, sub.Code)
	}

	a.override.apply(&t.ci, m.clock)
	a.lastControl = t.ci
	if m.integrator != nil && m.world.Valid(self.Handle()) {
		m.integrator.Apply(self, t.ci, t.dt)
	}
}

// disabledFrame handles ships that cannot fly. It reports whether the normal frame
// should be skipped.
func (m *Manager) disabledFrame(t *tick) bool {
	self := t.self
	if !self.Flags.Has(model.FlagDisabled) && !self.EnginesDestroyed() {
		return false
	}
	t.stopAfterburner()
	t.steer().Stop()
	a := t.a
	if _, ok := a.mode.(*beRearmedState); ok {
		a.mode.frame(t)
	}
	if a.selfDestruct != timestamp.Invalid && t.clock().Elapsed(a.selfDestruct) {
		slog.Info("ship self-destructed", "ship", self.Name)
		a.selfDestruct = timestamp.Invalid
		m.pendingRemoval = append(m.pendingRemoval, self.Handle())
	}
	return true
}

// Run calls Process at the configured tick rate until ctx is canceled or Stop is called.
func (m *Manager) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(m.cfg.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("AI manager started", "interval", interval, "ships", m.Count())

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("AI manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("AI manager stopped")
			return nil

		case now := <-ticker.C:
			m.Process(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// ForceMode puts ship h into mode md with that mode's entry submode.
func (m *Manager) ForceMode(h model.Handle, md Mode) error {
	a, self, err := m.resolve(h)
	if err != nil {
		return err
	}
	next, err := newModeState(md)
	if err != nil {
		return err
	}
	m.newTick(a, self).setMode(next)
	return nil
}

// NotifyHit tells ship h it was hit by attacker.
func (m *Manager) NotifyHit(h, attacker model.Handle) {
	a, self, err := m.resolve(h)
	if err != nil {
		return
	}
	a.hitter = attacker
	a.lastHit = m.clock.Now()
	t := m.newTick(a, self)
	m.manageShields(t)

	switch s := a.mode.(type) {
	case *chaseState:
		s.onHit(t)
	case *strafeState:
		s.onHit(t)
	case *noneState:
		if a.activeGoal != GoalNone || a.Flags.Has(AIFFormation) || self.Class == nil || self.Class.PrimaryRange <= 0 {
			return
		}
		enemy, ok := t.obj(attacker)
		if !ok || !m.world.Hostile(self.Team, enemy.Team) {
			return
		}
		m.SetTarget(a, attacker)
		t.setMode(attackModeFor(self, enemy))
	}
}

// NotifyDangerWeapon tells ship h that weapon is homing on it.
func (m *Manager) NotifyDangerWeapon(h, weapon model.Handle) {
	a, self, err := m.resolve(h)
	if err != nil {
		return
	}
	a.dangerWeapon = weapon
	t := m.newTick(a, self)
	if s, ok := a.mode.(*chaseState); ok {
		s.setSub(t, ChaseEvadeWeapon, evadeWeaponSecs)
		return
	}
	if interruptible(a.mode) && t.percent(a.Tuning.Evasion) {
		t.setMode(&evadeWeaponState{prev: a.mode})
	}
}

// NotifyDisabled tells ship h it lost its engines. It calls for a support ship and,
// when none is available, arms the self-destruct timer of non-player ships.
func (m *Manager) NotifyDisabled(h model.Handle) {
	a, self, err := m.resolve(h)
	if err != nil {
		return
	}
	self.Flags |= model.FlagDisabled
	err = m.RequestRearm(h)
	if err == nil || self.Flags.Has(model.FlagPlayer) {
		return
	}
	if errors.Is(err, ErrNoSupportShip) && a.selfDestruct == timestamp.Invalid {
		t := m.newTick(a, self)
		a.selfDestruct = m.clock.InSeconds(t.randRange(selfDestructMinSecs, selfDestructMaxSecs))
		slog.Info("self-destruct armed", "ship", self.Name, "in", m.clock.Until(a.selfDestruct))
	}
}

// manageShields moves weapon energy into shields on ships with smart shields.
func (m *Manager) manageShields(t *tick) {
	a := t.a
	if !a.Tuning.SmartShields || t.self.Flags.Has(model.FlagNoShields) {
		return
	}
	if a.shieldManage != timestamp.Invalid && !t.clock().Elapsed(a.shieldManage) {
		return
	}
	a.shieldManage = t.clock().InSeconds(max(a.Tuning.ShieldManageDelay, 0.1))
	transfer := min(shieldTransferRate, t.self.Energy)
	t.self.Energy -= transfer
	t.self.Shields += transfer * t.self.MaxHull
}

func (m *Manager) resolve(h model.Handle) (*AIState, *model.Object, error) {
	a, ok := m.State(h)
	if !ok {
		return nil, nil, fmt.Errorf("resolving %s: %w", h, ErrNotRegistered)
	}
	self, ok := m.world.Get(h)
	if !ok {
		return nil, nil, fmt.Errorf("resolving %s: %w", h, ErrUnknownShip)
	}
	return a, self, nil
}
