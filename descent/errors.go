package descent

import "errors"

// Sentinel errors returned by New.
var (
	// ErrNilField indicates that no combined field was supplied.
	ErrNilField = errors.New("descent: field is nil")
	// ErrBadRadius indicates a goal radius that is not a positive finite number.
	ErrBadRadius = errors.New("descent: goal radius must be > 0")
	// ErrBrokenPath indicates a path whose links or sequence indices are inconsistent.
	ErrBrokenPath = errors.New("descent: broken waypoint chain")
)
