// Package snake implements the grid simulation: board, snake body, the tick
// transition with its reward signal, and the observation encoder consumed by
// policies.
package snake

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/vovakirdan/snakesim/internal/core"
)

// Rewards returned by Step.
const (
	RewardApple = 10
	RewardDeath = -10
)

// startMargin keeps a new snake at least this many cells from every wall.
const startMargin = 2

// Rand is the source of uniform randomness used for start positions and
// apple placement. *rand.Rand from golang.org/x/exp/rand and math/rand both
// satisfy it.
type Rand interface {
	Intn(n int) int
}

// State is the lifecycle state of a Game.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// DeathReason records why a game terminated.
type DeathReason int

const (
	DeathNone    DeathReason = iota
	DeathWall                // head left the board
	DeathSelf                // head ran into the body
	DeathStarved             // starve counter reached zero
)

func (d DeathReason) String() string {
	switch d {
	case DeathNone:
		return "none"
	case DeathWall:
		return "wall"
	case DeathSelf:
		return "self"
	case DeathStarved:
		return "starved"
	default:
		return "unknown"
	}
}

// Turn is a steering decision relative to the current heading.
type Turn int

const (
	TurnStraight Turn = iota
	TurnLeft
	TurnRight
)

// Turns lists every turn in action-index order.
var Turns = []Turn{TurnStraight, TurnLeft, TurnRight}

func (t Turn) String() string {
	switch t {
	case TurnStraight:
		return "straight"
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseTurn converts a name produced by Turn.String back to a Turn.
func ParseTurn(s string) (Turn, error) {
	for _, t := range Turns {
		if t.String() == s {
			return t, nil
		}
	}
	return TurnStraight, fmt.Errorf("snake: unknown turn %q", s)
}

// Heading is an absolute direction used by human control.
type Heading int

const (
	HeadingUp Heading = iota
	HeadingDown
	HeadingLeft
	HeadingRight
)

// Vector returns the unit vector for the heading.
func (h Heading) Vector() core.Vector {
	switch h {
	case HeadingUp:
		return core.Up
	case HeadingDown:
		return core.Down
	case HeadingLeft:
		return core.Left
	default:
		return core.Right
	}
}

func (h Heading) String() string {
	switch h {
	case HeadingUp:
		return "up"
	case HeadingDown:
		return "down"
	case HeadingLeft:
		return "left"
	case HeadingRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseHeading converts a name produced by Heading.String back to a Heading.
func ParseHeading(s string) (Heading, error) {
	for _, h := range []Heading{HeadingUp, HeadingDown, HeadingLeft, HeadingRight} {
		if h.String() == s {
			return h, nil
		}
	}
	return HeadingUp, fmt.Errorf("snake: unknown heading %q", s)
}

// StepResult is the outcome of one tick.
type StepResult struct {
	Reward   int  `json:"reward"`
	Terminal bool `json:"terminal"`
	Score    int  `json:"score"`
}

// Game owns one board, one snake and one apple. It is the only mutator of
// the snake and the apple. A Game is not safe for concurrent use.
type Game struct {
	board Board
	rng   Rand
	snake *Snake
	apple core.Vector
	state State
	death DeathReason
}

// New creates a game on a width x height board drawing randomness from rng.
// The game must be started with Start before it can step.
func New(width, height int, rng Rand) (*Game, error) {
	board, err := NewBoard(width, height)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidConfiguration)
	}
	return &Game{board: board, rng: rng}, nil
}

// NewSeeded creates a game with its own PCG random source seeded with seed.
func NewSeeded(width, height int, seed uint64) (*Game, error) {
	return New(width, height, rand.New(rand.NewSource(seed)))
}

// Start places a fresh one-cell snake away from the walls and drops the
// first apple. It can be called again at any time to restart.
func (g *Game) Start() error {
	spanX := g.board.Width - 2*startMargin
	spanY := g.board.Height - 2*startMargin
	if spanX <= 0 || spanY <= 0 {
		return fmt.Errorf("%w: board %dx%d leaves no room for a %d-cell start margin",
			ErrInvalidConfiguration, g.board.Width, g.board.Height, startMargin)
	}

	start := core.Vec(startMargin+g.rng.Intn(spanX), startMargin+g.rng.Intn(spanY))
	heading := core.Right
	// x > W/2 with real division
	if 2*start.X > g.board.Width {
		heading = core.Left
	}

	g.snake = NewSnake(start, heading)
	g.death = DeathNone
	if err := g.placeApple(); err != nil {
		g.state = StateTerminated
		return err
	}
	g.state = StateRunning
	return nil
}

// SetRelativeTurn rotates the heading left or right; TurnStraight is a no-op.
func (g *Game) SetRelativeTurn(t Turn) {
	if g.snake == nil {
		return
	}
	switch t {
	case TurnLeft:
		g.snake.Heading = core.RotateLeft(g.snake.Heading)
	case TurnRight:
		g.snake.Heading = core.RotateRight(g.snake.Heading)
	}
}

// SetAbsoluteHeading overwrites the heading. Reversing into the body is not
// prevented; it ends the game on the next step like any other collision.
func (g *Game) SetAbsoluteHeading(h Heading) {
	if g.snake == nil {
		return
	}
	g.snake.Heading = h.Vector()
}

// Step advances the game by one tick.
//
// Collision is evaluated before consumption, in the order wall, self,
// starvation, so an apple on a fatal cell is never eaten.
func (g *Game) Step() (StepResult, error) {
	if g.state != StateRunning {
		return StepResult{}, fmt.Errorf("%w: step while %s", ErrInvalidState, g.state)
	}

	tail := g.snake.Tail()
	g.snake.Move()
	head := g.snake.Head()

	switch {
	case g.board.IsWall(head):
		return g.terminate(DeathWall), nil
	case g.snake.HitsBody(head):
		return g.terminate(DeathSelf), nil
	case g.snake.StarveCounter == 0:
		return g.terminate(DeathStarved), nil
	}

	// The new apple is drawn before growth, so the vacated tail cell is a
	// candidate even though the body reclaims it below.
	if head == g.apple {
		if err := g.placeApple(); err != nil {
			g.state = StateTerminated
			return StepResult{}, err
		}
		g.snake.Grow(tail)
		return StepResult{Reward: RewardApple, Score: g.Score()}, nil
	}

	return StepResult{Score: g.Score()}, nil
}

func (g *Game) terminate(reason DeathReason) StepResult {
	g.state = StateTerminated
	g.death = reason
	return StepResult{Reward: RewardDeath, Terminal: true, Score: g.Score()}
}

// placeApple draws the apple uniformly from the cells not covered by the body.
func (g *Game) placeApple() error {
	free := make([]core.Vector, 0, g.board.Area())
	for _, c := range g.board.Cells() {
		if !g.snake.Occupies(c) {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		return fmt.Errorf("%w: no free cell for the apple (snake length %d on %dx%d)",
			ErrInvariantViolation, g.snake.Len(), g.board.Width, g.board.Height)
	}
	g.apple = free[g.rng.Intn(len(free))]
	return nil
}

// Score returns the body length, which equals apples eaten plus one.
func (g *Game) Score() int {
	if g.snake == nil {
		return 0
	}
	return g.snake.Len()
}

// Board returns the board dimensions.
func (g *Game) Board() Board {
	return g.board
}

// Body returns a copy of the body cells, head first.
func (g *Game) Body() []core.Vector {
	if g.snake == nil {
		return nil
	}
	return append([]core.Vector(nil), g.snake.Body...)
}

// Head returns the head cell, or the zero vector before Start.
func (g *Game) Head() core.Vector {
	if g.snake == nil {
		return core.Vector{}
	}
	return g.snake.Head()
}

// Heading returns the current heading, or the zero vector before Start.
func (g *Game) Heading() core.Vector {
	if g.snake == nil {
		return core.Vector{}
	}
	return g.snake.Heading
}

// Apple returns the apple cell.
func (g *Game) Apple() core.Vector {
	return g.apple
}

// Age returns the number of moves made since Start.
func (g *Game) Age() int {
	if g.snake == nil {
		return 0
	}
	return g.snake.Age
}

// StarveCounter returns the current starve counter.
func (g *Game) StarveCounter() int {
	if g.snake == nil {
		return 0
	}
	return g.snake.StarveCounter
}

// State returns the lifecycle state.
func (g *Game) State() State {
	return g.state
}

// Death returns why the last game terminated, or DeathNone.
func (g *Game) Death() DeathReason {
	return g.death
}
