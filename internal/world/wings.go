package world

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jg18/fs2open.github.com/internal/model"
	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// MaxWaypointsPerList bounds the size of a waypoint list.
const MaxWaypointsPerList = 20

var (
	// ErrUnknownWing is returned for wing lookups that fail.
	ErrUnknownWing = errors.New("world: unknown wing")
	// ErrUnknownWaypointList is returned for waypoint list lookups that fail.
	ErrUnknownWaypointList = errors.New("world: unknown waypoint list")
)

// Wing is a named group of ships.
type Wing struct {
	Name string
	Team model.Team
}

// AddWing registers a wing and returns its index.
func (w *World) AddWing(name string, team model.Team) int {
	w.wings = append(w.wings, Wing{Name: name, Team: team})
	return len(w.wings) - 1
}

// Wing returns wing info by index.
func (w *World) Wing(idx int) (Wing, bool) {
	if idx < 0 || idx >= len(w.wings) {
		return Wing{}, false
	}
	return w.wings[idx], true
}

// FindWing returns the index of a wing by name.
func (w *World) FindWing(name string) (int, error) {
	for i, wing := range w.wings {
		if strings.EqualFold(wing.Name, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownWing, name)
}

// WingMembers returns live ship handles of the wing, in slot order.
// The first member is the wing leader.
func (w *World) WingMembers(idx int) []model.Handle {
	var out []model.Handle
	w.ForEachShip(func(o *model.Object) bool {
		if o.Wing == idx {
			out = append(out, o.Handle())
		}
		return true
	})
	return out
}

// WingLeader returns the first live member of a wing.
func (w *World) WingLeader(idx int) (model.Handle, bool) {
	members := w.WingMembers(idx)
	if len(members) == 0 {
		return model.NoHandle, false
	}
	return members[0], true
}

// WaypointList is a named sequence of world points.
type WaypointList struct {
	Name   string
	Points []vecmath.Vec3
}

// AddWaypointList registers a waypoint list and returns its index.
func (w *World) AddWaypointList(name string, points []vecmath.Vec3) (int, error) {
	if len(points) == 0 {
		return -1, fmt.Errorf("waypoint list %q: no points", name)
	}
	if len(points) > MaxWaypointsPerList {
		return -1, fmt.Errorf("waypoint list %q: %d points exceeds limit %d", name, len(points), MaxWaypointsPerList)
	}
	pts := make([]vecmath.Vec3, len(points))
	copy(pts, points)
	w.waypoints = append(w.waypoints, WaypointList{Name: name, Points: pts})
	return len(w.waypoints) - 1, nil
}

// WaypointList returns a waypoint list by index.
func (w *World) WaypointList(idx int) (WaypointList, bool) {
	if idx < 0 || idx >= len(w.waypoints) {
		return WaypointList{}, false
	}
	return w.waypoints[idx], true
}

// FindWaypointList returns the index of a waypoint list by name.
func (w *World) FindWaypointList(name string) (int, error) {
	for i, wl := range w.waypoints {
		if strings.EqualFold(wl.Name, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownWaypointList, name)
}
