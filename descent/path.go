package descent

import (
	"fmt"
	"math"

	"github.com/katalvlaran/apf/workspace"
)

// Tag records which planner labelled a waypoint. It is metadata only; the
// follower never reads it and renderers may colour by it.
type Tag int

const (
	// TagNone marks an unlabelled waypoint.
	TagNone Tag = iota
	// TagPotentialField marks waypoints produced by gradient descent.
	TagPotentialField
	// TagDijkstra marks waypoints produced by a Dijkstra search.
	TagDijkstra
	// TagAStar marks waypoints produced by an A* search.
	TagAStar
	// TagGreedyBFS marks waypoints produced by a greedy best-first search.
	TagGreedyBFS
)

func (t Tag) String() string {
	switch t {
	case TagPotentialField:
		return "PotentialField"
	case TagDijkstra:
		return "Dijkstra"
	case TagAStar:
		return "AStar"
	case TagGreedyBFS:
		return "GreedyBFS"
	default:
		return "None"
	}
}

// Waypoint is one cell of a path, linked to its predecessor.
type Waypoint struct {
	X, Y   int
	Seq    int       // index in the path, start = 0
	Parent *Waypoint // nil for the start waypoint
	Tag    Tag
}

// Pose returns the waypoint's cell as a workspace pose.
func (w *Waypoint) Pose() workspace.Pose {
	return workspace.Pose{X: w.X, Y: w.Y}
}

// Path is the ordered waypoint chain from start to goal (or abort point).
type Path []*Waypoint

// Len returns the number of waypoints.
func (p Path) Len() int { return len(p) }

// Last returns the final waypoint, or nil for an empty path.
func (p Path) Last() *Waypoint {
	if len(p) == 0 {
		return nil
	}

	return p[len(p)-1]
}

// Coords returns the waypoint cells in order.
func (p Path) Coords() []workspace.Pose {
	out := make([]workspace.Pose, len(p))
	for i, w := range p {
		out[i] = w.Pose()
	}

	return out
}

// Clone returns a shallow copy of the slice; waypoints are shared and must be
// treated as read-only.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)

	return out
}

// Validate checks the chain invariants: the first waypoint has no parent and
// Seq 0, and each later waypoint's parent is its predecessor with Seq
// increasing by one.
func (p Path) Validate() error {
	for i, w := range p {
		if w.Seq != i {
			return fmt.Errorf("%w: waypoint %d has seq %d", ErrBrokenPath, i, w.Seq)
		}
		if i == 0 {
			if w.Parent != nil {
				return fmt.Errorf("%w: start waypoint has a parent", ErrBrokenPath)
			}
			continue
		}
		if w.Parent != p[i-1] {
			return fmt.Errorf("%w: waypoint %d is not linked to %d", ErrBrokenPath, i, i-1)
		}
	}

	return nil
}

// MinDistance returns the smallest Euclidean distance from any waypoint to
// (cx, cy). An empty path yields +Inf.
func (p Path) MinDistance(cx, cy float64) float64 {
	best := math.Inf(1)
	for _, w := range p {
		best = math.Min(best, math.Hypot(float64(w.X)-cx, float64(w.Y)-cy))
	}

	return best
}

// Collisions returns the waypoints lying inside any of the obstacles.
func (p Path) Collisions(obstacles workspace.Obstacles) []*Waypoint {
	var hits []*Waypoint
	for _, w := range p {
		if _, hit := obstacles.Hit(float64(w.X), float64(w.Y)); hit {
			hits = append(hits, w)
		}
	}

	return hits
}
