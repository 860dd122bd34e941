package ai

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jg18/fs2open.github.com/internal/vecmath"
)

// DefaultPathArenaSize is the default shared path point capacity.
const DefaultPathArenaSize = 1000

// ErrArenaFull is returned when no contiguous run of the requested length is free.
var ErrArenaFull = errors.New("ai: path arena full")

// PathPoint is one point of a planned path in world space, with a back-reference to the
// model path vertex it came from (-1 for waypoints and synthesized points).
type PathPoint struct {
	Pos  vecmath.Vec3
	Path int
	Vert int
}

type freeRun struct {
	start, n int
}

// PathArena is a fixed pool of path points shared by every AI ship. Each ship owns
// at most one contiguous run; runs never overlap.
type PathArena struct {
	points []PathPoint
	free   []freeRun // sorted by start, never adjacent
}

// NewPathArena creates an arena with the given capacity.
func NewPathArena(capacity int) *PathArena {
	if capacity <= 0 {
		capacity = DefaultPathArenaSize
	}
	return &PathArena{
		points: make([]PathPoint, capacity),
		free:   []freeRun{{start: 0, n: capacity}},
	}
}

// Cap returns the arena capacity.
func (p *PathArena) Cap() int {
	return len(p.points)
}

// Available returns the number of free points, not necessarily contiguous.
func (p *PathArena) Available() int {
	total := 0
	for _, r := range p.free {
		total += r.n
	}
	return total
}

// Alloc reserves n contiguous points, first fit.
func (p *PathArena) Alloc(n int) (int, error) {
	if n <= 0 {
		return -1, fmt.Errorf("allocating %d path points: invalid length", n)
	}
	for i, r := range p.free {
		if r.n < n {
			continue
		}
		start := r.start
		if r.n == n {
			p.free = append(p.free[:i], p.free[i+1:]...)
		} else {
			p.free[i] = freeRun{start: r.start + n, n: r.n - n}
		}
		return start, nil
	}
	return -1, fmt.Errorf("allocating %d path points (%d free): %w", n, p.Available(), ErrArenaFull)
}

// Free returns a run to the arena and merges it with free neighbours.
func (p *PathArena) Free(start, n int) {
	if n <= 0 || start < 0 || start+n > len(p.points) {
		return
	}
	for i := start; i < start+n; i++ {
		p.points[i] = PathPoint{}
	}

	i := sort.Search(len(p.free), func(i int) bool { return p.free[i].start >= start })
	p.free = append(p.free, freeRun{})
	copy(p.free[i+1:], p.free[i:])
	p.free[i] = freeRun{start: start, n: n}

	// Merge with the next run, then with the previous one.
	if i+1 < len(p.free) && p.free[i].start+p.free[i].n == p.free[i+1].start {
		p.free[i].n += p.free[i+1].n
		p.free = append(p.free[:i+1], p.free[i+2:]...)
	}
	if i > 0 && p.free[i-1].start+p.free[i-1].n == p.free[i].start {
		p.free[i-1].n += p.free[i].n
		p.free = append(p.free[:i], p.free[i+1:]...)
	}
}

// Point returns the point at absolute index i.
func (p *PathArena) Point(i int) PathPoint {
	return p.points[i]
}

// Set stores a point at absolute index i.
func (p *PathArena) Set(i int, pt PathPoint) {
	p.points[i] = pt
}
