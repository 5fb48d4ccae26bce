package potential

import "errors"

// Sentinel errors returned by builders and the planner.
var (
	// ErrBadRadius indicates a goal radius that is not a positive finite number.
	ErrBadRadius = errors.New("potential: goal radius must be > 0")
	// ErrNilField indicates a nil attractive field passed to Combine.
	ErrNilField = errors.New("potential: nil field")
	// ErrNotPrepared indicates that the combined field was requested before Prepare.
	ErrNotPrepared = errors.New("potential: field has not been built")
)
