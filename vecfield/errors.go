// SPDX-License-Identifier: MIT
// Package vecfield: sentinel error set.
// All exported operations return these sentinels (optionally wrapped with
// method context); tests match them via errors.Is.

package vecfield

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when requested dimensions are non-positive.
	ErrBadShape = errors.New("vecfield: invalid shape")

	// ErrOutOfRange indicates that a cell coordinate lies outside [0,W)×[0,H).
	ErrOutOfRange = errors.New("vecfield: cell out of range")

	// ErrDimensionMismatch indicates that two fields (or a field and a slice)
	// do not share the same shape.
	ErrDimensionMismatch = errors.New("vecfield: dimension mismatch")

	// ErrNaNInf signals a NaN or ±Inf component where finite values are required.
	ErrNaNInf = errors.New("vecfield: NaN or Inf encountered")

	// ErrNilField indicates that a nil *Field was passed as receiver or argument.
	ErrNilField = errors.New("vecfield: nil field")
)

// cellErrorf wraps err with the method name and the offending cell.
func cellErrorf(method string, x, y int, err error) error {
	return fmt.Errorf("Field.%s(%d,%d): %w", method, x, y, err)
}

// fieldErrorf wraps err with the method name only.
func fieldErrorf(method string, err error) error {
	return fmt.Errorf("Field.%s: %w", method, err)
}
