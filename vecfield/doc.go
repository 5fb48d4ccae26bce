// SPDX-License-Identifier: MIT

// Package vecfield provides a dense 2D grid of 2D vectors together with the
// elementwise kernels a potential-field planner needs.
//
// What is a Field?
//
//	A Field covers a W×H workspace. Every cell (x, y) stores one Vec{X, Y}.
//	Storage is a single flat []float64 shaped exactly like a (W, H, 2) array:
//
//		idx(x, y) = (x*H + y) * 2      // X component
//		idx(x, y) + 1                  // Y component
//
// Operations:
//
//   - New / Generate       zero-initialised or elementwise construction.
//   - At / Set / AddAt     bounds-checked cell access (ErrOutOfRange, ErrNaNInf).
//   - Add / Sum            elementwise addition (ErrDimensionMismatch).
//   - Magnitudes           per-cell sqrt(vx²+vy²).
//   - Directions           per-cell unit vectors; magnitude clamped to ≥ eps first,
//     so a zero vector yields a zero direction instead of NaN.
//   - ConvertRange / RemapMasked: linear range conversion on masked magnitudes.
//   - Compose              direction × magnitude.
//   - Clamp / ClampAt      bound the magnitude to [eps, max] preserving direction.
//
// Determinism:
//
//	All loops run in fixed cell order (x outer, y inner). Running the same
//	sequence of operations on the same inputs yields bit-identical fields.
//
// Complexity:
//
//	Every whole-field kernel is O(W·H) time; Clone/Sum/Directions allocate O(W·H).
package vecfield
