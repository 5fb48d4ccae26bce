// Package workspace holds the geometric collaborators of the potential-field
// planner: the fixed W×H cell grid, integer poses on it and axis-aligned
// rectangular obstacles.
//
// The planner only reads obstacle geometry through Center and Width; the
// rectangle representation itself is a convenience for loaders and renderers.
// Obstacles carry a stable integer ID so that per-obstacle caches can be keyed
// by identity without relying on pointer equality.
package workspace
