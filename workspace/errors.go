package workspace

import "errors"

// Sentinel errors for workspace validation.
var (
	// ErrBadDimensions indicates a workspace with non-positive width or height.
	ErrBadDimensions = errors.New("workspace: dimensions must be > 0")
	// ErrPoseOutOfBounds indicates a pose outside [0,W)×[0,H).
	ErrPoseOutOfBounds = errors.New("workspace: pose out of bounds")
	// ErrBadObstacle indicates an obstacle with non-positive or non-finite size.
	ErrBadObstacle = errors.New("workspace: obstacle size must be positive and finite")
	// ErrDuplicateObstacle indicates two obstacles sharing one ID.
	ErrDuplicateObstacle = errors.New("workspace: duplicate obstacle id")
)
