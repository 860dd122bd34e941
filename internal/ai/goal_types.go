package ai

import (
	"fmt"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/timestamp"
)

const (
	// MaxGoals is the number of goal slots per ship.
	MaxGoals = 5
	// GoalNone means no goal is active.
	GoalNone = -1
	// GoalDynamic is the active-goal index of the dynamic goal.
	GoalDynamic = 999
	// AnyPriority matches every priority in FindGoalIndex.
	AnyPriority = -1
)

// GoalType is what a goal asks the ship to do.
type GoalType uint8

const (
	GoalUnset GoalType = iota
	GoalAttackShip
	GoalAttackWing
	GoalAttackAny
	GoalAttackSubsystem
	GoalDisableShip
	GoalDisarmShip
	GoalDock
	GoalUndock
	GoalWaypoints
	GoalWaypointsOnce
	GoalWarp
	GoalGuard
	GoalGuardWing
	GoalEvadeShip
	GoalStayNear
	GoalStayStill
	GoalPlayDead
	GoalRearmRepair
	GoalIgnore
	GoalFormOnWing
	GoalFlyToShip
	GoalKeepSafeDistance
	GoalScripted
	numGoalTypes
)

var goalTypeNames = [numGoalTypes]string{
	GoalUnset:            "unset",
	GoalAttackShip:       "attack-ship",
	GoalAttackWing:       "attack-wing",
	GoalAttackAny:        "attack-any",
	GoalAttackSubsystem:  "attack-subsystem",
	GoalDisableShip:      "disable-ship",
	GoalDisarmShip:       "disarm-ship",
	GoalDock:             "dock",
	GoalUndock:           "undock",
	GoalWaypoints:        "waypoints",
	GoalWaypointsOnce:    "waypoints-once",
	GoalWarp:             "warp",
	GoalGuard:            "guard",
	GoalGuardWing:        "guard-wing",
	GoalEvadeShip:        "evade-ship",
	GoalStayNear:         "stay-near",
	GoalStayStill:        "stay-still",
	GoalPlayDead:         "play-dead",
	GoalRearmRepair:      "rearm-repair",
	GoalIgnore:           "ignore",
	GoalFormOnWing:       "form-on-wing",
	GoalFlyToShip:        "fly-to-ship",
	GoalKeepSafeDistance: "keep-safe-distance",
	GoalScripted:         "scripted",
}

func (g GoalType) String() string {
	if g < numGoalTypes {
		return goalTypeNames[g]
	}
	return fmt.Sprintf("goal(%d)", uint8(g))
}

// ParseGoalType converts a mission file name into a GoalType.
func ParseGoalType(s string) (GoalType, error) {
	for g := GoalAttackShip; g < numGoalTypes; g++ {
		if goalTypeNames[g] == s {
			return g, nil
		}
	}
	return GoalUnset, fmt.Errorf("unknown goal type %q", s)
}

// needsShip reports goal types whose target must be a live ship.
func (g GoalType) needsShip() bool {
	switch g {
	case GoalAttackShip, GoalAttackSubsystem, GoalDisableShip, GoalDisarmShip,
		GoalDock, GoalGuard, GoalEvadeShip, GoalStayNear, GoalRearmRepair,
		GoalIgnore, GoalFlyToShip:
		return true
	}
	return false
}

// needsWing reports goal types that target a wing.
func (g GoalType) needsWing() bool {
	return g == GoalAttackWing || g == GoalGuardWing || g == GoalFormOnWing
}

// destroysTarget reports goals that are satisfied once their target is gone.
func (g GoalType) destroysTarget() bool {
	switch g {
	case GoalAttackShip, GoalAttackSubsystem, GoalDisableShip, GoalDisarmShip, GoalAttackWing, GoalEvadeShip:
		return true
	}
	return false
}

// Achievability is the arbiter's verdict on a goal.
type Achievability uint8

const (
	Achievable Achievability = iota
	NotYetAchievable
	Unachievable
)

func (v Achievability) String() string {
	switch v {
	case Achievable:
		return "achievable"
	case NotYetAchievable:
		return "not-yet-achievable"
	default:
		return "unachievable"
	}
}

// Goal is one order in a ship's goal list. Targets are given by name, the way mission
// files author them, and resolved against the world each time the arbiter runs; a
// resolved handle may also be set directly for goals created at runtime.
type Goal struct {
	Type     GoalType
	Priority int

	TargetName string
	Target     model.Handle
	Wing       int // -1 when unused
	Subsystem  string

	WaypointList int // -1 when unused
	Waypoint     WaypointFlags

	DockerPoint int // -1 picks the first suitable point
	DockeePoint int

	Distance float64 // stay-near and keep-safe-distance radius
	Script   string  // registered scripted mode name

	Created timestamp.Stamp

	seq uint64
}

// NewGoal returns a goal with every optional reference unset.
func NewGoal(typ GoalType, priority int) Goal {
	return Goal{
		Type:         typ,
		Priority:     priority,
		Target:       model.NoHandle,
		Wing:         -1,
		WaypointList: -1,
		DockerPoint:  -1,
		DockeePoint:  -1,
		Created:      timestamp.Invalid,
	}
}

// IsSet reports whether the slot holds a goal.
func (g Goal) IsSet() bool {
	return g.Type != GoalUnset
}

func (g Goal) String() string {
	switch {
	case g.TargetName != "":
		return fmt.Sprintf("%s %s (%d)", g.Type, g.TargetName, g.Priority)
	case g.Script != "":
		return fmt.Sprintf("%s %s (%d)", g.Type, g.Script, g.Priority)
	default:
		return fmt.Sprintf("%s (%d)", g.Type, g.Priority)
	}
}

// sameOrder reports whether two goals give the same order, ignoring priority.
func (g Goal) sameOrder(o Goal) bool {
	return g.Type == o.Type &&
		g.TargetName == o.TargetName &&
		g.Target == o.Target &&
		g.Wing == o.Wing &&
		g.Subsystem == o.Subsystem &&
		g.WaypointList == o.WaypointList &&
		g.Script == o.Script
}
