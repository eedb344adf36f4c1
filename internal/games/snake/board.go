package snake

import (
	"fmt"

	"github.com/vovakirdan/snakesim/internal/core"
)

// Board is a fixed rectangular grid. Cells are addressed [0,Width)x[0,Height).
type Board struct {
	Width  int
	Height int
}

// NewBoard validates the dimensions and returns a board.
func NewBoard(width, height int) (Board, error) {
	if width <= 0 || height <= 0 {
		return Board{}, fmt.Errorf("%w: board %dx%d must have positive dimensions",
			ErrInvalidConfiguration, width, height)
	}
	return Board{Width: width, Height: height}, nil
}

// Contains reports whether p lies on the board.
func (b Board) Contains(p core.Vector) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// IsWall reports whether p lies outside the board.
func (b Board) IsWall(p core.Vector) bool {
	return !b.Contains(p)
}

// Area returns the number of cells on the board.
func (b Board) Area() int {
	return b.Width * b.Height
}

// Cells returns every cell in column-major order (x outer, y inner). Apple
// draws index into this order, so it is part of seeded reproducibility.
func (b Board) Cells() []core.Vector {
	cells := make([]core.Vector, 0, b.Area())
	for x := 0; x < b.Width; x++ {
		for y := 0; y < b.Height; y++ {
			cells = append(cells, core.Vec(x, y))
		}
	}
	return cells
}
