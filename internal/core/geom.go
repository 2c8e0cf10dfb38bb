// Package core provides the platform primitives shared by games and the
// terminal front end: runtime configuration, input frames, pointer drags
// and a colored character screen. It has no Bubble Tea dependency.
package core

// Point is a cell coordinate on the screen.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned area of the screen.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a rectangle with the given position and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

