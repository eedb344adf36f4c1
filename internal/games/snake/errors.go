package snake

import "errors"

var (
	// ErrInvalidConfiguration is returned when a board cannot be built or
	// cannot host a starting snake.
	ErrInvalidConfiguration = errors.New("snake: invalid configuration")

	// ErrInvalidState is returned when the game is driven out of order, such
	// as stepping before Start or after the game has terminated.
	ErrInvalidState = errors.New("snake: invalid state")

	// ErrInvariantViolation is returned when apple placement finds no free
	// cell. Collision handling should make this unreachable.
	ErrInvariantViolation = errors.New("snake: invariant violation")
)
