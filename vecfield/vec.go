package vecfield

import "math"

// Vec is a 2D real-valued vector.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }

// Scale returns v * k.
func (v Vec) Scale(k float64) Vec { return Vec{X: v.X * k, Y: v.Y * k} }

// Len returns the Euclidean norm of v.
func (v Vec) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Unit returns v divided by max(|v|, eps). A zero vector stays zero.
func (v Vec) Unit(eps float64) Vec {
	mag := math.Max(v.Len(), eps)
	return Vec{X: v.X / mag, Y: v.Y / mag}
}

// IsZero reports whether both components are exactly zero.
func (v Vec) IsZero() bool { return v.X == 0 && v.Y == 0 }

// finite reports whether both components are finite numbers.
func (v Vec) finite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
