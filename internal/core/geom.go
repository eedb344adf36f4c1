// Package core provides fundamental types and utilities shared by the
// simulation and its front ends. It contains no external dependencies so the
// simulation logic stays pure and testable.
package core

// Vector is an integer 2D vector. It is used both as a grid position and as a
// unit heading. Vectors are comparable and can be used as map keys.
type Vector struct {
	X, Y int
}

// Cardinal unit headings. Y grows downwards, so Up is (0, -1).
var (
	Up    = Vector{X: 0, Y: -1}
	Down  = Vector{X: 0, Y: 1}
	Left  = Vector{X: -1, Y: 0}
	Right = Vector{X: 1, Y: 0}
)

// Vec is shorthand for Vector{X: x, Y: y}.
func Vec(x, y int) Vector {
	return Vector{X: x, Y: y}
}

// Add returns the component-wise sum v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the component-wise difference v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// IsZero reports whether v is the zero vector.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// RotateLeft turns d by 90 degrees counter-clockwise on screen: (d.Y, -d.X).
// On the four cardinal unit vectors the result is exact.
func RotateLeft(d Vector) Vector {
	return Vector{X: d.Y, Y: -d.X}
}

// RotateRight turns d by 90 degrees clockwise on screen: (-d.Y, d.X).
func RotateRight(d Vector) Vector {
	return Vector{X: -d.Y, Y: d.X}
}

// Rect represents an axis-aligned rectangle on the screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
