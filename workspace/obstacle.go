package workspace

import (
	"fmt"
	"math"
	"sort"
)

// Obstacle is an axis-aligned rectangle with top-left corner (X, Y) and size
// W×H. It is immutable for the lifetime of a field snapshot.
type Obstacle struct {
	ID   int
	X, Y float64
	W, H float64
}

// Center returns the rectangle centre: position plus half its size.
func (o Obstacle) Center() (float64, float64) {
	return o.X + o.W/2, o.Y + o.H/2
}

// Width returns the characteristic size used for the repulsion falloff.
func (o Obstacle) Width() float64 {
	return o.W
}

// Contains reports whether the point lies inside the rectangle.
// The right and bottom edges are exclusive.
func (o Obstacle) Contains(px, py float64) bool {
	return px >= o.X && px < o.X+o.W && py >= o.Y && py < o.Y+o.H
}

// Validate returns ErrBadObstacle for non-positive or non-finite geometry.
func (o Obstacle) Validate() error {
	for _, v := range []float64{o.X, o.Y, o.W, o.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: obstacle %d", ErrBadObstacle, o.ID)
		}
	}
	if o.W <= 0 || o.H <= 0 {
		return fmt.Errorf("%w: obstacle %d is %gx%g", ErrBadObstacle, o.ID, o.W, o.H)
	}

	return nil
}

// Obstacles is an ordered obstacle collection.
type Obstacles []Obstacle

// Validate checks every obstacle and rejects duplicate IDs.
func (obs Obstacles) Validate() error {
	seen := make(map[int]struct{}, len(obs))
	for _, o := range obs {
		if err := o.Validate(); err != nil {
			return err
		}
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateObstacle, o.ID)
		}
		seen[o.ID] = struct{}{}
	}

	return nil
}

// IDs returns the obstacle IDs in ascending order.
func (obs Obstacles) IDs() []int {
	ids := make([]int, 0, len(obs))
	for _, o := range obs {
		ids = append(ids, o.ID)
	}
	sort.Ints(ids)

	return ids
}

// ByID returns the obstacle with the given ID.
func (obs Obstacles) ByID(id int) (Obstacle, bool) {
	for _, o := range obs {
		if o.ID == id {
			return o, true
		}
	}

	return Obstacle{}, false
}

// Hit returns the first obstacle containing the point, if any.
func (obs Obstacles) Hit(px, py float64) (Obstacle, bool) {
	for _, o := range obs {
		if o.Contains(px, py) {
			return o, true
		}
	}

	return Obstacle{}, false
}
