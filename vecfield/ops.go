// SPDX-License-Identifier: MIT
// Package: vecfield
//
// Purpose:
//   - Elementwise kernels over the flat (W, H, 2) buffer: addition, magnitude,
//     direction, range remapping and magnitude clamping.
//
// Determinism & Performance:
//   - Fixed flat loop order 0..n-1; no allocations beyond the returned value.

package vecfield

import "math"

// Add adds o into f elementwise (f += o).
// Returns ErrNilField or ErrDimensionMismatch; f is unchanged on error.
// Complexity: O(W·H).
func (f *Field) Add(o *Field) error {
	if o == nil {
		return fieldErrorf("Add", ErrNilField)
	}
	if f.w != o.w || f.h != o.h {
		return fieldErrorf("Add", ErrDimensionMismatch)
	}
	for i := range f.data {
		f.data[i] += o.data[i]
	}

	return nil
}

// Sum returns a new field holding the elementwise sum of all inputs.
// At least one field is required; all must share the same shape.
func Sum(fields ...*Field) (*Field, error) {
	if len(fields) == 0 || fields[0] == nil {
		return nil, fieldErrorf("Sum", ErrNilField)
	}
	out := fields[0].Clone()
	for _, f := range fields[1:] {
		if err := out.Add(f); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Magnitudes returns sqrt(vx²+vy²) for every cell in x-major order.
// Complexity: O(W·H) time, one []float64 of length W·H.
func (f *Field) Magnitudes() []float64 {
	mags := make([]float64, f.w*f.h)
	for i := range mags {
		vx, vy := f.data[2*i], f.data[2*i+1]
		mags[i] = math.Sqrt(vx*vx + vy*vy)
	}

	return mags
}

// MaxMagnitude returns the largest per-cell magnitude of f.
func (f *Field) MaxMagnitude() float64 {
	var best float64
	for _, m := range f.Magnitudes() {
		if m > best {
			best = m
		}
	}

	return best
}

// Directions returns a new field of unit vectors. Each magnitude is clamped to
// at least eps before division, so zero cells map to zero instead of NaN.
func (f *Field) Directions(eps float64) *Field {
	out := &Field{w: f.w, h: f.h, data: make([]float64, len(f.data))}
	for i := 0; i < len(f.data); i += 2 {
		vx, vy := f.data[i], f.data[i+1]
		mag := math.Max(math.Sqrt(vx*vx+vy*vy), eps)
		out.data[i] = vx / mag
		out.data[i+1] = vy / mag
	}

	return out
}

// ConvertRange maps x linearly from [inMin, inMax] onto [outMin, outMax]:
//
//	(x−inMin)/(inMax−inMin)·(outMax−outMin)+outMin
//
// Reversed output ranges are allowed (outMin > outMax inverts the slope).
// The caller guarantees inMax != inMin.
func ConvertRange(x, inMin, inMax, outMin, outMax float64) float64 {
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

// RemapMasked applies ConvertRange to values[i] wherever mask[i] is true and
// leaves every other element untouched.
// Returns ErrDimensionMismatch if the slices differ in length.
func RemapMasked(values []float64, mask []bool, inMin, inMax, outMin, outMax float64) error {
	if len(values) != len(mask) {
		return ErrDimensionMismatch
	}
	for i, m := range mask {
		if m {
			values[i] = ConvertRange(values[i], inMin, inMax, outMin, outMax)
		}
	}

	return nil
}

// Compose overwrites f with dirs scaled per cell by mags (f = dirs × mags).
// dirs must share f's shape and mags must hold one entry per cell.
func (f *Field) Compose(dirs *Field, mags []float64) error {
	if dirs == nil {
		return fieldErrorf("Compose", ErrNilField)
	}
	if dirs.w != f.w || dirs.h != f.h || len(mags) != f.w*f.h {
		return fieldErrorf("Compose", ErrDimensionMismatch)
	}
	for i, m := range mags {
		f.data[2*i] = dirs.data[2*i] * m
		f.data[2*i+1] = dirs.data[2*i+1] * m
	}

	return nil
}

// Clamp bounds every vector's magnitude to [eps, maxMag] while preserving its
// direction. The direction is computed against max(|v|, eps), so a zero vector
// stays zero; vectors already inside the bound are rebuilt as dir × |v|.
// Complexity: O(W·H), no allocations.
func (f *Field) Clamp(maxMag, eps float64) {
	for i := 0; i < len(f.data); i += 2 {
		f.data[i], f.data[i+1] = clampVec(f.data[i], f.data[i+1], maxMag, eps)
	}
}

// ClampAt applies the Clamp rule to a single cell.
func (f *Field) ClampAt(x, y int, maxMag, eps float64) error {
	if !f.InBounds(x, y) {
		return cellErrorf("ClampAt", x, y, ErrOutOfRange)
	}
	i := f.offset(x, y)
	f.data[i], f.data[i+1] = clampVec(f.data[i], f.data[i+1], maxMag, eps)

	return nil
}

// clampVec is the scalar kernel shared by Clamp and ClampAt.
func clampVec(vx, vy, maxMag, eps float64) (float64, float64) {
	mag := math.Max(math.Sqrt(vx*vx+vy*vy), eps)
	nx, ny := vx/mag, vy/mag
	mag = math.Min(mag, maxMag)

	return nx * mag, ny * mag
}
