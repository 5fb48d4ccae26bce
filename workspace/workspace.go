package workspace

import "fmt"

// Workspace is a fixed Width×Height grid of cells.
type Workspace struct {
	Width, Height int
}

// New returns a validated workspace.
func New(width, height int) (Workspace, error) {
	ws := Workspace{Width: width, Height: height}
	if err := ws.Validate(); err != nil {
		return Workspace{}, err
	}

	return ws, nil
}

// Validate returns ErrBadDimensions unless both dimensions are positive.
func (ws Workspace) Validate() error {
	if ws.Width <= 0 || ws.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadDimensions, ws.Width, ws.Height)
	}

	return nil
}

// InBounds reports whether (x, y) lies within the grid.
// Complexity: O(1).
func (ws Workspace) InBounds(x, y int) bool {
	return x >= 0 && x < ws.Width && y >= 0 && y < ws.Height
}

// Clamp moves (x, y) onto the nearest cell inside the grid.
func (ws Workspace) Clamp(x, y int) (int, int) {
	return min(max(x, 0), ws.Width-1), min(max(y, 0), ws.Height-1)
}

// Cells returns Width·Height.
func (ws Workspace) Cells() int {
	return ws.Width * ws.Height
}

// Index maps (x, y) to its position in field cell order: x*Height + y.
func (ws Workspace) Index(x, y int) int {
	return x*ws.Height + y
}

// Pose is an integer cell coordinate (start or goal position).
type Pose struct {
	X, Y int
}

// Validate returns ErrPoseOutOfBounds if p is not a cell of ws.
func (p Pose) Validate(ws Workspace) error {
	if !ws.InBounds(p.X, p.Y) {
		return fmt.Errorf("%w: (%d,%d) not in %dx%d", ErrPoseOutOfBounds, p.X, p.Y, ws.Width, ws.Height)
	}

	return nil
}

// DistSq returns the squared Euclidean distance between p and o.
func (p Pose) DistSq(o Pose) int {
	dx, dy := p.X-o.X, p.Y-o.Y
	return dx*dx + dy*dy
}

func (p Pose) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
