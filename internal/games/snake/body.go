package snake

import "github.com/vovakirdan/snakesim/internal/core"

// StarveLimit is the number of moves a freshly started snake may make
// without eating.
const StarveLimit = 100

// Snake is the ordered body of a snake plus its heading and counters.
// Body[0] is the head. Snake itself never checks bounds or collisions;
// the Game interprets the result of a move.
type Snake struct {
	Body          []core.Vector
	Heading       core.Vector
	Age           int
	StarveCounter int
}

// NewSnake returns a one-cell snake at pos facing heading.
func NewSnake(pos, heading core.Vector) *Snake {
	return &Snake{
		Body:          []core.Vector{pos},
		Heading:       heading,
		StarveCounter: StarveLimit,
	}
}

// Head returns the head cell.
func (s *Snake) Head() core.Vector {
	return s.Body[0]
}

// Tail returns the last body cell.
func (s *Snake) Tail() core.Vector {
	return s.Body[len(s.Body)-1]
}

// Len returns the number of body cells.
func (s *Snake) Len() int {
	return len(s.Body)
}

// Move shifts the body one cell along the heading without growing.
func (s *Snake) Move() {
	newHead := s.Head().Add(s.Heading)
	copy(s.Body[1:], s.Body[:len(s.Body)-1])
	s.Body[0] = newHead
	s.Age++
	s.StarveCounter--
}

// Grow appends tail to the body and resets the starve counter to zero.
// Callers pass the tail position captured before the move that ate.
func (s *Snake) Grow(tail core.Vector) {
	s.Body = append(s.Body, tail)
	s.StarveCounter = 0
}

// Occupies reports whether any body cell, head included, is at p.
func (s *Snake) Occupies(p core.Vector) bool {
	for _, seg := range s.Body {
		if seg == p {
			return true
		}
	}
	return false
}

// HitsBody reports whether p is on a body cell other than the head.
func (s *Snake) HitsBody(p core.Vector) bool {
	for _, seg := range s.Body[1:] {
		if seg == p {
			return true
		}
	}
	return false
}
