// SPDX-License-Identifier: MIT

package vecfield

import (
	"fmt"
	"math"
	"strings"
)

// Field is a dense W×H grid of Vec stored as a flat (W, H, 2) array.
// The zero value is not usable; construct with New or Generate.
type Field struct {
	w, h int       // workspace width and height in cells
	data []float64 // flat backing storage, len == w*h*2
}

// New creates a W×H field with every vector set to zero.
// Returns ErrBadShape if w ≤ 0 or h ≤ 0.
// Complexity: O(W·H) time and memory.
func New(w, h int) (*Field, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("vecfield.New(%d,%d): %w", w, h, ErrBadShape)
	}

	return &Field{w: w, h: h, data: make([]float64, w*h*2)}, nil
}

// Generate creates a W×H field and fills every cell with fn(x, y).
// Cells are visited x-major, y-minor.
func Generate(w, h int, fn func(x, y int) Vec) (*Field, error) {
	f, err := New(w, h)
	if err != nil {
		return nil, err
	}
	var x, y, i int
	for x = 0; x < w; x++ {
		for y = 0; y < h; y++ {
			v := fn(x, y)
			f.data[i], f.data[i+1] = v.X, v.Y
			i += 2
		}
	}

	return f, nil
}

// Width returns the number of cells along X.
func (f *Field) Width() int { return f.w }

// Height returns the number of cells along Y.
func (f *Field) Height() int { return f.h }

// Len returns the number of cells (W·H).
func (f *Field) Len() int { return f.w * f.h }


// InBounds reports whether (x, y) addresses a cell of f.
func (f *Field) InBounds(x, y int) bool {
	return x >= 0 && x < f.w && y >= 0 && y < f.h
}

// offset returns the flat index of the X component of (x, y).
// Callers must validate bounds first.
func (f *Field) offset(x, y int) int {
	return (x*f.h + y) * 2
}

// At returns the vector stored at (x, y).
// Returns ErrOutOfRange for coordinates outside the grid.
func (f *Field) At(x, y int) (Vec, error) {
	if !f.InBounds(x, y) {
		return Vec{}, cellErrorf("At", x, y, ErrOutOfRange)
	}
	i := f.offset(x, y)

	return Vec{X: f.data[i], Y: f.data[i+1]}, nil
}

// Get returns the vector at (x, y) without bounds checking.
// It panics on out-of-range coordinates; use At for untrusted input.
func (f *Field) Get(x, y int) Vec {
	i := f.offset(x, y)
	return Vec{X: f.data[i], Y: f.data[i+1]}
}

// Set stores v at (x, y).
// Returns ErrOutOfRange or ErrNaNInf; the field is unchanged on error.
func (f *Field) Set(x, y int, v Vec) error {
	if !f.InBounds(x, y) {
		return cellErrorf("Set", x, y, ErrOutOfRange)
	}
	if !v.finite() {
		return cellErrorf("Set", x, y, ErrNaNInf)
	}
	i := f.offset(x, y)
	f.data[i], f.data[i+1] = v.X, v.Y

	return nil
}

// AddAt adds v to the vector stored at (x, y).
func (f *Field) AddAt(x, y int, v Vec) error {
	if !f.InBounds(x, y) {
		return cellErrorf("AddAt", x, y, ErrOutOfRange)
	}
	if !v.finite() {
		return cellErrorf("AddAt", x, y, ErrNaNInf)
	}
	i := f.offset(x, y)
	f.data[i] += v.X
	f.data[i+1] += v.Y

	return nil
}

// Clone returns a deep copy of f.
func (f *Field) Clone() *Field {
	data := make([]float64, len(f.data))
	copy(data, f.data)

	return &Field{w: f.w, h: f.h, data: data}
}

// Equal reports whether f and o have the same shape and bit-identical contents.
// NaN never compares equal; fields built through this package contain none.
func (f *Field) Equal(o *Field) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.w != o.w || f.h != o.h {
		return false
	}
	for i := range f.data {
		if math.Float64bits(f.data[i]) != math.Float64bits(o.data[i]) {
			return false
		}
	}

	return true
}

// Each calls fn for every cell in x-major order.
func (f *Field) Each(fn func(x, y int, v Vec)) {
	var x, y, i int
	for x = 0; x < f.w; x++ {
		for y = 0; y < f.h; y++ {
			fn(x, y, Vec{X: f.data[i], Y: f.data[i+1]})
			i += 2
		}
	}
}

// String renders the field one row of cells (fixed y) per line, for debugging
// small grids only.
func (f *Field) String() string {
	var sb strings.Builder
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			if x > 0 {
				sb.WriteString(" ")
			}
			v := f.Get(x, y)
			fmt.Fprintf(&sb, "(%g,%g)", v.X, v.Y)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
