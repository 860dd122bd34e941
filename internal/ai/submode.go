package ai

// Submode identifies the current step inside a mode. Code values are stable and
// shown on the HUD debug line.
type Submode struct {
	Mode Mode
	Code int
	Name string
}

// String returns "mode / submode", or just the mode when it has no submodes.
func (s Submode) String() string {
	if s.Name == "" {
		return s.Mode.String()
	}
	return s.Mode.String() + " / " + s.Name
}

// ChaseSubmode is the attack manoeuvre in chase mode.
type ChaseSubmode uint8

const (
	ChaseContinuousTurn ChaseSubmode = 1
	ChaseAttack         ChaseSubmode = 2
	ChaseEvadeSquiggle  ChaseSubmode = 3
	ChaseEvadeBrake     ChaseSubmode = 4
	ChaseEvade          ChaseSubmode = 5
	ChaseSuperAttack    ChaseSubmode = 6
	ChaseAvoid          ChaseSubmode = 7
	ChaseGetBehind      ChaseSubmode = 8
	ChaseGetAway        ChaseSubmode = 9
	ChaseEvadeWeapon    ChaseSubmode = 10
	ChaseFlyAway        ChaseSubmode = 11
	ChaseAttackForever  ChaseSubmode = 12
	ChaseStealthFind    ChaseSubmode = 13
	ChaseStealthSweep   ChaseSubmode = 14
	ChaseGlideAttack    ChaseSubmode = 18
	ChaseCircleStrafe   ChaseSubmode = 19
)

var chaseSubmodeNames = map[ChaseSubmode]string{
	ChaseContinuousTurn: "continuous-turn",
	ChaseAttack:         "attack",
	ChaseEvadeSquiggle:  "evade-squiggle",
	ChaseEvadeBrake:     "evade-brake",
	ChaseEvade:          "evade",
	ChaseSuperAttack:    "super-attack",
	ChaseAvoid:          "avoid",
	ChaseGetBehind:      "get-behind",
	ChaseGetAway:        "get-away",
	ChaseEvadeWeapon:    "evade-weapon",
	ChaseFlyAway:        "fly-away",
	ChaseAttackForever:  "attack-forever",
	ChaseStealthFind:    "stealth-find",
	ChaseStealthSweep:   "stealth-sweep",
	ChaseGlideAttack:    "glide-attack",
	ChaseCircleStrafe:   "circle-strafe",
}

func (s ChaseSubmode) String() string { return chaseSubmodeNames[s] }

// BigSubmode is the manoeuvre of a big ship engaging another big ship.
type BigSubmode uint8

const (
	BigApproach BigSubmode = 15
	BigCircle   BigSubmode = 16
	BigParallel BigSubmode = 17
)

var bigSubmodeNames = map[BigSubmode]string{
	BigApproach: "approach",
	BigCircle:   "circle",
	BigParallel: "parallel",
}

func (s BigSubmode) String() string { return bigSubmodeNames[s] }

// DockStage is one step of a dock or undock sequence.
type DockStage uint8

const (
	Dock0   DockStage = 20 // plan approach path
	Dock1   DockStage = 21 // follow approach path
	Dock2   DockStage = 22 // align with dock point
	Dock3   DockStage = 23 // final approach
	Dock4   DockStage = 24 // docked, rearming or repairing
	Dock4A  DockStage = 25 // docked, holding
	Undock0 DockStage = 30
	Undock1 DockStage = 31
	Undock2 DockStage = 32
	Undock3 DockStage = 33
	Undock4 DockStage = 34
)

var dockStageNames = map[DockStage]string{
	Dock0:   "dock0",
	Dock1:   "dock1",
	Dock2:   "dock2",
	Dock3:   "dock3",
	Dock4:   "dock4",
	Dock4A:  "dock4a",
	Undock0: "undock0",
	Undock1: "undock1",
	Undock2: "undock2",
	Undock3: "undock3",
	Undock4: "undock4",
}

func (s DockStage) String() string { return dockStageNames[s] }

// SafetySubmode is a step of seeking safety at the edge of the battle.
type SafetySubmode uint8

const (
	SafetyPickSpot  SafetySubmode = 41
	SafetyFlyToSpot SafetySubmode = 42
	SafetyNearSpot  SafetySubmode = 43
)

var safetySubmodeNames = map[SafetySubmode]string{
	SafetyPickSpot:  "pick-spot",
	SafetyFlyToSpot: "fly-to-spot",
	SafetyNearSpot:  "near-spot",
}

func (s SafetySubmode) String() string { return safetySubmodeNames[s] }

// GuardSubmode is a step of guarding an object.
type GuardSubmode uint8

const (
	GuardPatrol GuardSubmode = 101
	GuardAttack GuardSubmode = 102
	Guard2      GuardSubmode = 103
	GuardStatic GuardSubmode = 104
)

var guardSubmodeNames = map[GuardSubmode]string{
	GuardPatrol: "patrol",
	GuardAttack: "attack",
	Guard2:      "guard2",
	GuardStatic: "static",
}

func (s GuardSubmode) String() string { return guardSubmodeNames[s] }

// StrafeSubmode is a step of a small ship strafing a big one.
type StrafeSubmode uint8

const (
	StrafeAttack      StrafeSubmode = 201
	StrafeAvoid       StrafeSubmode = 202
	StrafeRetreat1    StrafeSubmode = 203
	StrafeRetreat2    StrafeSubmode = 204
	StrafePosition    StrafeSubmode = 205
	StrafeGlideAttack StrafeSubmode = 206
)

var strafeSubmodeNames = map[StrafeSubmode]string{
	StrafeAttack:      "attack",
	StrafeAvoid:       "avoid",
	StrafeRetreat1:    "retreat1",
	StrafeRetreat2:    "retreat2",
	StrafePosition:    "position",
	StrafeGlideAttack: "glide-attack",
}

func (s StrafeSubmode) String() string { return strafeSubmodeNames[s] }

// WarpSubmode is a step of the warp-out sequence.
type WarpSubmode uint16

const (
	Warp1       WarpSubmode = 300 // clear obstruction
	Warp2       WarpSubmode = 301 // point in a legal direction
	Warp3       WarpSubmode = 302 // accelerate
	Warp4       WarpSubmode = 303 // commit
	Warp5       WarpSubmode = 304 // in warp
	DepartToBay WarpSubmode = 305
)

var warpSubmodeNames = map[WarpSubmode]string{
	Warp1:       "warp1",
	Warp2:       "warp2",
	Warp3:       "warp3",
	Warp4:       "warp4",
	Warp5:       "warp5",
	DepartToBay: "depart-to-bay",
}

func (s WarpSubmode) String() string { return warpSubmodeNames[s] }

// ValidSubmodes lists the submodes a mode may carry. Modes without submodes return nil.
func ValidSubmodes(m Mode) []Submode {
	var out []Submode
	switch m {
	case ModeChase, ModeGetBehind:
		for _, s := range []ChaseSubmode{
			ChaseContinuousTurn, ChaseAttack, ChaseEvadeSquiggle, ChaseEvadeBrake, ChaseEvade,
			ChaseSuperAttack, ChaseAvoid, ChaseGetBehind, ChaseGetAway, ChaseEvadeWeapon,
			ChaseFlyAway, ChaseAttackForever, ChaseStealthFind, ChaseStealthSweep,
			ChaseGlideAttack, ChaseCircleStrafe,
		} {
			out = append(out, Submode{ModeChase, int(s), s.String()})
		}
	case ModeBigShip:
		for _, s := range []BigSubmode{BigApproach, BigCircle, BigParallel} {
			out = append(out, Submode{m, int(s), s.String()})
		}
	case ModeDock:
		for _, s := range []DockStage{Dock0, Dock1, Dock2, Dock3, Dock4, Dock4A, Undock0, Undock1, Undock2, Undock3, Undock4} {
			out = append(out, Submode{m, int(s), s.String()})
		}
	case ModeSafety:
		for _, s := range []SafetySubmode{SafetyPickSpot, SafetyFlyToSpot, SafetyNearSpot} {
			out = append(out, Submode{m, int(s), s.String()})
		}
	case ModeGuard:
		for _, s := range []GuardSubmode{GuardPatrol, GuardAttack, Guard2, GuardStatic} {
			out = append(out, Submode{m, int(s), s.String()})
		}
	case ModeStrafe:
		for _, s := range []StrafeSubmode{StrafeAttack, StrafeAvoid, StrafeRetreat1, StrafeRetreat2, StrafePosition, StrafeGlideAttack} {
			out = append(out, Submode{m, int(s), s.String()})
		}
	case ModeWarpOut:
		for _, s := range []WarpSubmode{Warp1, Warp2, Warp3, Warp4, Warp5, DepartToBay} {
			out = append(out, Submode{m, int(s), s.String()})
		}
	}
	return out
}

// validSubmode reports whether s is legal for its mode.
func validSubmode(s Submode) bool {
	valid := ValidSubmodes(s.Mode)
	if len(valid) == 0 {
		return s.Code == 0
	}
	for _, v := range valid {
		if v.Code == s.Code {
			return true
		}
	}
	return false
}
