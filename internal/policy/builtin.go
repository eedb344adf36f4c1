package policy

import (
	"golang.org/x/exp/rand"

	"github.com/vovakirdan/snakesim/internal/agent"
	"github.com/vovakirdan/snakesim/internal/games/snake"
)

func init() {
	Register(Info{ID: "random", Title: "Random", Description: "uniform over straight, left and right"},
		func(opts Options) (Policy, error) { return NewRandom(opts.Seed), nil })
	Register(Info{ID: "greedy", Title: "Greedy", Description: "steers toward the apple, avoiding adjacent obstacles"},
		func(Options) (Policy, error) { return Greedy{}, nil })
	Register(Info{ID: "qnet", Title: "Q-Network", Description: "argmax of a trained Q-network (--model)"},
		func(opts Options) (Policy, error) { return LoadQNet(opts.ModelPath) })
}

// Random picks every turn with equal probability.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random policy with its own seeded source.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (*Random) ID() string    { return "random" }
func (*Random) Title() string { return "Random" }

func (r *Random) Decide(snake.Observation) snake.Turn {
	return snake.Turns[r.rng.Intn(len(snake.Turns))]
}

// adjacent is the feature value of an obstacle one cell away.
const adjacent = 0.5

// Greedy turns toward the apple unless the cell in that direction is
// blocked, falling back to the other directions in order.
type Greedy struct{}

func (Greedy) ID() string    { return "greedy" }
func (Greedy) Title() string { return "Greedy" }

func (Greedy) Decide(obs snake.Observation) snake.Turn {
	var order []snake.Turn
	bearing := obs[snake.FeatAppleBearing]
	switch {
	case bearing > 0:
		order = []snake.Turn{snake.TurnLeft, snake.TurnStraight, snake.TurnRight}
	case bearing < 0:
		order = []snake.Turn{snake.TurnRight, snake.TurnStraight, snake.TurnLeft}
	default:
		// dead ahead or on the head; an apple behind has bearing 1 and goes left
		order = []snake.Turn{snake.TurnStraight, snake.TurnLeft, snake.TurnRight}
	}
	for _, t := range order {
		if !blocked(obs, t) {
			return t
		}
	}
	return order[0]
}

func blocked(obs snake.Observation, t snake.Turn) bool {
	wall, body := snake.FeatWallForward, snake.FeatBodyForward
	switch t {
	case snake.TurnLeft:
		wall, body = snake.FeatWallLeft, snake.FeatBodyLeft
	case snake.TurnRight:
		wall, body = snake.FeatWallRight, snake.FeatBodyRight
	}
	return obs[wall] >= adjacent || obs[body] >= adjacent
}

// QNet follows the argmax of a trained network. It reuses the network's
// buffers, so each session needs its own instance.
type QNet struct {
	net *agent.QNet
}

// NewQNet wraps an in-memory network.
func NewQNet(net *agent.QNet) *QNet {
	return &QNet{net: net}
}

// LoadQNet reads a network saved by the trainer.
func LoadQNet(path string) (*QNet, error) {
	net, err := agent.LoadQNet(path)
	if err != nil {
		return nil, err
	}
	return NewQNet(net), nil
}

func (*QNet) ID() string    { return "qnet" }
func (*QNet) Title() string { return "Q-Network" }

func (q *QNet) Decide(obs snake.Observation) snake.Turn {
	return snake.Turns[q.net.Best(obs.Slice())]
}
