package world

import (
	"errors"
	"fmt"

	"github.com/jg18/fs2open.github.com/internal/model"
)

var (
	// ErrDockOccupied is returned when a dock point already has a ship attached.
	ErrDockOccupied = errors.New("world: dock point occupied")
	// ErrNotDocked is returned when undocking a ship that is not docked.
	ErrNotDocked = errors.New("world: not docked")
	// ErrAlreadyDocked is returned when a docker attached elsewhere tries to dock again.
	ErrAlreadyDocked = errors.New("world: already docked")
)

type dockKey struct {
	dockee model.Handle
	point  int
}

// DockLink describes one docked pair.
type DockLink struct {
	Docker      model.Handle
	DockerPoint int
	Dockee      model.Handle
	DockeePoint int
}

type dockRegistry struct {
	byPoint  map[dockKey]DockLink
	byDocker map[model.Handle]DockLink
}

func newDockRegistry() dockRegistry {
	return dockRegistry{
		byPoint:  make(map[dockKey]DockLink),
		byDocker: make(map[model.Handle]DockLink),
	}
}

// releaseAll drops every link that involves h.
func (r *dockRegistry) releaseAll(h model.Handle) {
	if link, ok := r.byDocker[h]; ok {
		delete(r.byPoint, dockKey{link.Dockee, link.DockeePoint})
		delete(r.byDocker, h)
	}
	for k, link := range r.byPoint {
		if k.dockee == h {
			delete(r.byPoint, k)
			delete(r.byDocker, link.Docker)
		}
	}
}

// Dock attaches docker to dockee's dock point. Repeating an existing link is a no-op;
// a docker attached anywhere else must undock first.
func (w *World) Dock(docker model.Handle, dockerPoint int, dockee model.Handle, dockeePoint int) error {
	if !w.Valid(docker) || !w.Valid(dockee) {
		return fmt.Errorf("docking %s with %s: stale handle", docker, dockee)
	}
	link := DockLink{Docker: docker, DockerPoint: dockerPoint, Dockee: dockee, DockeePoint: dockeePoint}
	if current, ok := w.docks.byDocker[docker]; ok {
		if current == link {
			return nil
		}
		return fmt.Errorf("docking %s with %s point %d: %w", docker, dockee, dockeePoint, ErrAlreadyDocked)
	}
	key := dockKey{dockee, dockeePoint}
	if existing, ok := w.docks.byPoint[key]; ok && existing.Docker != docker {
		return fmt.Errorf("docking %s with %s point %d: %w", docker, dockee, dockeePoint, ErrDockOccupied)
	}
	w.docks.byPoint[key] = link
	w.docks.byDocker[docker] = link
	return nil
}

// Undock detaches docker from whatever it is docked to.
func (w *World) Undock(docker model.Handle) error {
	link, ok := w.docks.byDocker[docker]
	if !ok {
		return fmt.Errorf("undocking %s: %w", docker, ErrNotDocked)
	}
	delete(w.docks.byDocker, docker)
	delete(w.docks.byPoint, dockKey{link.Dockee, link.DockeePoint})
	return nil
}

// DockedWith returns the link for a docker.
func (w *World) DockedWith(docker model.Handle) (DockLink, bool) {
	link, ok := w.docks.byDocker[docker]
	return link, ok
}

// DockPointOccupant returns the ship docked at a dockee's point.
func (w *World) DockPointOccupant(dockee model.Handle, point int) (model.Handle, bool) {
	link, ok := w.docks.byPoint[dockKey{dockee, point}]
	if !ok {
		return model.NoHandle, false
	}
	return link.Docker, true
}
