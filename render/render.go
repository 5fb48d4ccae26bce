// Package render draws fields, obstacles and paths on a terminal screen.
// One workspace cell maps to one terminal cell; anything outside the screen
// is clipped.
package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/katalvlaran/apf/descent"
	"github.com/katalvlaran/apf/vecfield"
	"github.com/katalvlaran/apf/workspace"
)

// Screen is the part of tcell.Screen the renderer needs.
type Screen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Glyphs used by the renderer.
const (
	GlyphObstacle = '█'
	GlyphStart    = 'S'
	GlyphGoal     = 'G'
	GlyphRing     = '∘'
	GlyphStill    = '·'
)

// arrows is indexed by octant, counter-clockwise from +x with y pointing down.
var arrows = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// Glyph returns the arrow closest to v's direction, or GlyphStill for a zero vector.
func Glyph(v vecfield.Vec) rune {
	if v.IsZero() {
		return GlyphStill
	}
	theta := math.Atan2(v.Y, v.X)
	octant := int(math.Round(theta/(math.Pi/4))) & 7

	return arrows[octant]
}

// Frame is everything drawn by Draw.
type Frame struct {
	Field      *vecfield.Field
	Stride     int
	Obstacles  workspace.Obstacles
	Path       descent.Path
	Start      workspace.Pose
	Goal       workspace.Pose
	GoalRadius float64
}

// Draw paints f in layers: field, obstacles, goal ring, path, markers.
func Draw(s Screen, f Frame) {
	if f.Field != nil {
		DrawField(s, f.Field, f.Stride, tcell.StyleDefault.Foreground(tcell.ColorGray))
	}
	DrawObstacles(s, f.Obstacles, tcell.StyleDefault.Foreground(tcell.ColorRed))
	DrawRing(s, f.Goal, f.GoalRadius, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	DrawPath(s, f.Path)
	put(s, f.Start.X, f.Start.Y, GlyphStart, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
	put(s, f.Goal.X, f.Goal.Y, GlyphGoal, tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
}

// DrawField draws a direction glyph on every stride-th cell along both axes.
// stride < 1 is treated as 1.
func DrawField(s Screen, f *vecfield.Field, stride int, style tcell.Style) {
	stride = max(stride, 1)
	sw, sh := s.Size()
	w, h := min(f.Width(), sw), min(f.Height(), sh)
	for x := 0; x < w; x += stride {
		for y := 0; y < h; y += stride {
			s.SetContent(x, y, Glyph(f.Get(x, y)), nil, style)
		}
	}
}

// DrawObstacles fills every visible cell covered by an obstacle.
func DrawObstacles(s Screen, obstacles workspace.Obstacles, style tcell.Style) {
	sw, sh := s.Size()
	for _, o := range obstacles {
		x0, y0 := max(int(math.Floor(o.X)), 0), max(int(math.Floor(o.Y)), 0)
		x1, y1 := min(int(math.Ceil(o.X+o.W)), sw), min(int(math.Ceil(o.Y+o.H)), sh)
		for x := x0; x < x1; x++ {
			for y := y0; y < y1; y++ {
				if o.Contains(float64(x), float64(y)) {
					s.SetContent(x, y, GlyphObstacle, nil, style)
				}
			}
		}
	}
}

// DrawRing outlines the cells at distance ≈ radius from center.
func DrawRing(s Screen, center workspace.Pose, radius float64, style tcell.Style) {
	if radius <= 0 {
		return
	}
	r := int(math.Ceil(radius))
	for x := center.X - r; x <= center.X+r; x++ {
		for y := center.Y - r; y <= center.Y+r; y++ {
			d := math.Hypot(float64(x-center.X), float64(y-center.Y))
			if math.Abs(d-radius) < 0.5 {
				put(s, x, y, GlyphRing, style)
			}
		}
	}
}

// DrawPath draws each waypoint with an arrow toward its successor, styled by
// the waypoint's tag.
func DrawPath(s Screen, p descent.Path) {
	for i, wp := range p {
		glyph := GlyphStill
		if i+1 < len(p) {
			next := p[i+1]
			glyph = Glyph(vecfield.Vec{X: float64(next.X - wp.X), Y: float64(next.Y - wp.Y)})
		}
		put(s, wp.X, wp.Y, glyph, TagStyle(wp.Tag))
	}
}

// TagStyle maps a waypoint's provenance to a colour.
func TagStyle(t descent.Tag) tcell.Style {
	switch t {
	case descent.TagPotentialField:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case descent.TagDijkstra:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case descent.TagAStar:
		return tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	case descent.TagGreedyBFS:
		return tcell.StyleDefault.Foreground(tcell.ColorPurple)
	default:
		return tcell.StyleDefault
	}
}

// put draws a single cell if it is on screen.
func put(s Screen, x, y int, r rune, style tcell.Style) {
	sw, sh := s.Size()
	if x < 0 || y < 0 || x >= sw || y >= sh {
		return
	}
	s.SetContent(x, y, r, nil, style)
}
