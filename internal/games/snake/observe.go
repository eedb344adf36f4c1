package snake

import (
	"fmt"
	"math"

	"github.com/vovakirdan/snakesim/internal/core"
)

// ObservationSize is the number of features produced by Encode.
const ObservationSize = 11

// Feature indices within an Observation.
const (
	FeatWallForward = iota
	FeatWallLeft
	FeatWallRight
	FeatBodyForward
	FeatBodyLeft
	FeatBodyRight
	FeatBodyForwardLeft
	FeatBodyBackLeft
	FeatBodyBackRight
	FeatBodyForwardRight
	FeatAppleBearing
)

// Observation is the feature vector a policy sees each tick. The first ten
// values lie in (0,1] and grow as the obstacle gets closer; the last is the
// apple bearing in [-1,1].
type Observation [ObservationSize]float64

// Slice returns the observation as a slice.
func (o Observation) Slice() []float64 {
	return o[:]
}

// Observation encodes the current state of a started game.
func (g *Game) Observation() (Observation, error) {
	if g.snake == nil {
		return Observation{}, fmt.Errorf("%w: observation before start", ErrInvalidState)
	}
	return Encode(g.board, g.snake.Body, g.snake.Heading, g.apple), nil
}

// Encode builds the observation for a body (head first) moving along heading.
// It is pure: the same inputs always give the same vector.
func Encode(board Board, body []core.Vector, heading, apple core.Vector) Observation {
	head := body[0]
	forward := heading
	left := core.RotateLeft(heading)
	right := core.RotateRight(heading)

	rays := [...]core.Vector{
		forward,
		left,
		right,
		forward.Add(left),
		left.Sub(forward),
		right.Sub(forward),
		forward.Add(right),
	}

	var obs Observation
	obs[FeatWallForward] = wallDistance(board, head, forward)
	obs[FeatWallLeft] = wallDistance(board, head, left)
	obs[FeatWallRight] = wallDistance(board, head, right)
	for i, ray := range rays {
		obs[FeatBodyForward+i] = bodyDistance(board, body, ray)
	}
	obs[FeatAppleBearing] = appleBearing(head, heading, apple)
	return obs
}

// wallDistance returns 1/(1+n) where n counts the cells from the head to the
// first wall cell along the cardinal direction d.
func wallDistance(board Board, head, d core.Vector) float64 {
	var dst int
	switch {
	case d.X > 0:
		dst = board.Width - head.X
	case d.X < 0:
		dst = head.X + 1
	case d.Y > 0:
		dst = board.Height - head.Y
	case d.Y < 0:
		dst = head.Y + 1
	}
	return 1 / (1 + float64(dst))
}

// bodyDistance returns 1/(1+dist) to the nearest non-head body cell lying on
// the ray from the head along d, which may be cardinal or diagonal. With no
// cell on the ray the distance is the board diagonal.
func bodyDistance(board Board, body []core.Vector, d core.Vector) float64 {
	best := board.Width*board.Width + board.Height*board.Height
	head := body[0]
	for _, seg := range body[1:] {
		off := seg.Sub(head)
		if !onRay(off, d) {
			continue
		}
		if sq := off.X*off.X + off.Y*off.Y; sq < best {
			best = sq
		}
	}
	return 1 / (1 + math.Sqrt(float64(best)))
}

// onRay reports whether off equals k*d for some k > 0. d has components in
// {-1, 0, 1}, so this is the same-column, same-row or same-diagonal test
// restricted to the far side of the head.
func onRay(off, d core.Vector) bool {
	if off.IsZero() {
		return false
	}
	switch {
	case d.X == 0:
		return off.X == 0 && core.Sign(off.Y) == d.Y
	case d.Y == 0:
		return off.Y == 0 && core.Sign(off.X) == d.X
	default:
		return core.Abs(off.X) == core.Abs(off.Y) &&
			core.Sign(off.X) == d.X && core.Sign(off.Y) == d.Y
	}
}

// appleBearing is the signed angle between heading and the head-to-apple
// vector, scaled to [-1, 1]. Positive values are to the left of the heading.
func appleBearing(head, heading, apple core.Vector) float64 {
	if apple == head {
		return 0
	}
	h2a := apple.Sub(head)
	cross := h2a.X*heading.Y - h2a.Y*heading.X
	dot := h2a.X*heading.X + h2a.Y*heading.Y
	return math.Atan2(float64(cross), float64(dot)) / math.Pi
}
