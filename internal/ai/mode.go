package ai

import "fmt"

// Mode is the top-level behaviour an AI ship is executing.
type Mode uint8

const (
	ModeChase Mode = iota
	ModeEvade
	ModeGetBehind // normalized to chase with the get-behind submode on entry
	ModeStayNear
	ModeStill
	ModeGuard
	ModeAvoid
	ModeWaypoints
	ModeDock
	ModeNone
	ModeBigShip
	ModePath
	ModeBeRearmed
	ModeSafety
	ModeEvadeWeapon
	ModeStrafe
	ModePlayDead
	ModeBayEmerge
	ModeBayDepart
	ModeSentryGun
	ModeWarpOut
	ModeFlyToShip
	ModeScripted
	NumModes
)

var modeNames = [NumModes]string{
	ModeChase:       "chase",
	ModeEvade:       "evade",
	ModeGetBehind:   "get-behind",
	ModeStayNear:    "stay-near",
	ModeStill:       "still",
	ModeGuard:       "guard",
	ModeAvoid:       "avoid",
	ModeWaypoints:   "waypoints",
	ModeDock:        "dock",
	ModeNone:        "none",
	ModeBigShip:     "big-ship",
	ModePath:        "path",
	ModeBeRearmed:   "be-rearmed",
	ModeSafety:      "safety",
	ModeEvadeWeapon: "evade-weapon",
	ModeStrafe:      "strafe",
	ModePlayDead:    "play-dead",
	ModeBayEmerge:   "bay-emerge",
	ModeBayDepart:   "bay-depart",
	ModeSentryGun:   "sentry-gun",
	ModeWarpOut:     "warp-out",
	ModeFlyToShip:   "fly-to-ship",
	ModeScripted:    "scripted",
}

// String returns human-readable mode name
func (m Mode) String() string {
	if m < NumModes {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// modeState is one variant of the mode tagged union. Each implementation owns its
// submode, so replacing the variant is the only way to change mode and no submode
// can outlive the mode it belongs to.
type modeState interface {
	Mode() Mode
	Submode() Submode
	frame(t *tick)
}

// newModeState builds the entry variant for a mode. Modes that need parameters
// (scripted, path) are not constructible here.
func newModeState(m Mode) (modeState, error) {
	switch m {
	case ModeChase:
		return &chaseState{sub: ChaseAttack}, nil
	case ModeGetBehind:
		return &chaseState{sub: ChaseGetBehind}, nil
	case ModeEvade:
		return &evadeState{}, nil
	case ModeStayNear:
		return &stayNearState{}, nil
	case ModeStill:
		return &stillState{}, nil
	case ModeGuard:
		return &guardState{sub: GuardPatrol}, nil
	case ModeAvoid:
		return &avoidState{}, nil
	case ModeWaypoints:
		return &waypointsState{}, nil
	case ModeDock:
		return &dockState{stage: Dock0}, nil
	case ModeNone:
		return &noneState{}, nil
	case ModeBigShip:
		return &bigShipState{sub: BigApproach}, nil
	case ModeBeRearmed:
		return &beRearmedState{}, nil
	case ModeSafety:
		return &safetyState{sub: SafetyPickSpot}, nil
	case ModeEvadeWeapon:
		return &evadeWeaponState{}, nil
	case ModeStrafe:
		return &strafeState{sub: StrafeAttack}, nil
	case ModePlayDead:
		return &playDeadState{}, nil
	case ModeBayEmerge:
		return &bayEmergeState{}, nil
	case ModeBayDepart:
		return &bayDepartState{}, nil
	case ModeSentryGun:
		return &sentryState{}, nil
	case ModeWarpOut:
		return &warpState{sub: Warp1}, nil
	case ModeFlyToShip:
		return &flyToShipState{}, nil
	}
	return nil, fmt.Errorf("mode %s needs parameters: %w", m, ErrModeNotConstructible)
}
