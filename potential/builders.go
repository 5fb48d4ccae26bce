// SPDX-License-Identifier: MIT

package potential

import (
	"fmt"
	"math"

	"github.com/katalvlaran/apf/vecfield"
	"github.com/katalvlaran/apf/workspace"
)

// Attractive builds the goal field for ws.
//
// Per cell (x, y) with (dx, dy) = goal − (x, y):
//
//	m   = max(sqrt(2·(dx²+dy²)), SourceEpsilon)
//	dir = (dx, dy) / m
//	m'  = ConvertRange(m, 0, radius, MaxVel, MinVel)  if m <= radius
//	m'  = FarMagnitude                                otherwise
//	v   = dir · m'
//
// Both masks are evaluated on the magnitude before remapping.
// Complexity: O(W·H) time, O(W·H) memory.
func Attractive(ws workspace.Workspace, goal workspace.Pose, radius float64, opts ...Option) (*vecfield.Field, error) {
	cfg := gather(opts)
	if err := ws.Validate(); err != nil {
		return nil, fmt.Errorf("potential: Attractive: %w", err)
	}
	if err := goal.Validate(ws); err != nil {
		return nil, fmt.Errorf("potential: Attractive: goal: %w", err)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("potential: Attractive: %w", ErrBadRadius)
	}

	gx, gy := float64(goal.X), float64(goal.Y)
	source := func(x, y int) (float64, float64, float64) {
		dx, dy := gx-float64(x), gy-float64(y)
		return dx, dy, math.Max(math.Sqrt(2*(dx*dx+dy*dy)), cfg.SourceEpsilon)
	}

	// dir has length |d|/m = 1/√2 off the goal cell.
	return shape(ws, source, cfg.SourceEpsilon, 1/math.Sqrt2, radius, cfg.MaxVel, cfg.MinVel, cfg.FarMagnitude)
}

// Repulsive builds the field pushing cells away from the centre of o.
//
// Per cell (x, y) with (dx, dy) = (x, y) − centre:
//
//	m   = max(sqrt(dx²+dy²), SourceEpsilon)
//	r   = FalloffFactor · o.Width()
//	m'  = ConvertRange(m, 0, r, MaxVel, MinVel)  if m <= r
//	m'  = 0                                      otherwise
//
// The centre may lie outside ws; cells are still computed against it.
// Complexity: O(W·H) time, O(W·H) memory.
func Repulsive(ws workspace.Workspace, o workspace.Obstacle, opts ...Option) (*vecfield.Field, error) {
	cfg := gather(opts)
	if err := ws.Validate(); err != nil {
		return nil, fmt.Errorf("potential: Repulsive: %w", err)
	}
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("potential: Repulsive: obstacle %d: %w", o.ID, err)
	}

	cx, cy := o.Center()
	source := func(x, y int) (float64, float64, float64) {
		dx, dy := float64(x)-cx, float64(y)-cy
		return dx, dy, math.Max(math.Sqrt(dx*dx+dy*dy), cfg.SourceEpsilon)
	}

	return shape(ws, source, cfg.SourceEpsilon, 1, cfg.FalloffFactor*o.Width(), cfg.MaxVel, cfg.MinVel, 0)
}

// shape evaluates source over ws and rescales the unit direction of every raw
// vector: magnitudes within radius are remapped from [0, radius] onto
// [nearMax, nearMin], the rest are replaced by far. Every final magnitude is
// multiplied by dirLen.
func shape(
	ws workspace.Workspace,
	source func(x, y int) (dx, dy, mag float64),
	eps, dirLen, radius, nearMax, nearMin, far float64,
) (*vecfield.Field, error) {
	n := ws.Cells()
	mags := make([]float64, n)
	near := make([]bool, n)

	raw, err := vecfield.Generate(ws.Width, ws.Height, func(x, y int) vecfield.Vec {
		dx, dy, m := source(x, y)
		i := ws.Index(x, y)
		mags[i] = m
		near[i] = m <= radius
		return vecfield.Vec{X: dx, Y: dy}
	})
	if err != nil {
		return nil, err
	}

	if err = vecfield.RemapMasked(mags, near, 0, radius, nearMax, nearMin); err != nil {
		return nil, err
	}
	for i, in := range near {
		if !in {
			mags[i] = far
		}
		mags[i] *= dirLen
	}

	dirs := raw.Directions(eps)
	if err = dirs.Compose(dirs, mags); err != nil {
		return nil, err
	}

	return dirs, nil
}
