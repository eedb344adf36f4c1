package agent

import (
	"golang.org/x/exp/rand"

	"github.com/vovakirdan/snakesim/internal/games/snake"
)

// Config holds the learning hyperparameters.
type Config struct {
	Hidden       int
	LearningRate float64
	Gamma        float64
	EpsilonStart float64
	EpsilonDecay float64 // subtracted after every episode
	EpsilonMin   float64
	BatchSize    int
	MemorySize   int
}

// DefaultConfig returns the standard hyperparameters.
func DefaultConfig() Config {
	return Config{
		Hidden:       256,
		LearningRate: 0.001,
		Gamma:        0.9,
		EpsilonStart: 1,
		EpsilonDecay: 1e-3,
		EpsilonMin:   1e-2,
		BatchSize:    1000,
		MemorySize:   100_000,
	}
}

// Agent picks turns epsilon-greedily from a QNet and learns from its own
// experience. An Agent is not safe for concurrent use.
type Agent struct {
	cfg      Config
	net      *QNet
	mem      *Memory
	rng      *rand.Rand
	epsilon  float64
	episodes int
}

// New creates an agent with a freshly initialized network.
func New(cfg Config, seed uint64) *Agent {
	rng := rand.New(rand.NewSource(seed))
	net := NewQNet(snake.ObservationSize, cfg.Hidden, len(snake.Turns), rng)
	return newAgent(cfg, net, rng)
}

// NewWithNet creates an agent that continues training net.
func NewWithNet(cfg Config, net *QNet, seed uint64) *Agent {
	return newAgent(cfg, net, rand.New(rand.NewSource(seed)))
}

func newAgent(cfg Config, net *QNet, rng *rand.Rand) *Agent {
	return &Agent{
		cfg:     cfg,
		net:     net,
		mem:     NewMemory(cfg.MemorySize),
		rng:     rng,
		epsilon: cfg.EpsilonStart,
	}
}

// Act returns a random turn with probability epsilon, the greedy turn
// otherwise.
func (a *Agent) Act(obs snake.Observation) snake.Turn {
	if a.rng.Float64() <= a.epsilon {
		return snake.Turns[a.rng.Intn(len(snake.Turns))]
	}
	return a.Greedy(obs)
}

// Greedy returns the turn with the highest predicted Q-value.
func (a *Agent) Greedy(obs snake.Observation) snake.Turn {
	return snake.Turns[a.net.Best(obs.Slice())]
}

// Remember stores a transition for later batch training.
func (a *Agent) Remember(e Experience) {
	a.mem.Push(e)
}

// TrainShort learns from a single transition and returns the loss.
func (a *Agent) TrainShort(e Experience) float64 {
	return a.net.Train([]Sample{a.sample(e)}, a.cfg.LearningRate)
}

// TrainLong learns from a random batch of remembered transitions.
func (a *Agent) TrainLong() float64 {
	batch := a.mem.Sample(a.rng, a.cfg.BatchSize)
	samples := make([]Sample, len(batch))
	for i, e := range batch {
		samples[i] = a.sample(e)
	}
	return a.net.Train(samples, a.cfg.LearningRate)
}

// sample builds the Bellman target: r for a terminal transition, otherwise
// r + gamma * max Q(next).
func (a *Agent) sample(e Experience) Sample {
	target := e.Reward
	if !e.Done {
		next := a.net.Predict(e.Next.Slice())
		target += a.cfg.Gamma * next[argmax(next)]
	}
	return Sample{State: e.State.Slice(), Action: e.Action, Target: target}
}

// EndEpisode decays epsilon towards its floor.
func (a *Agent) EndEpisode() {
	a.episodes++
	if a.epsilon > a.cfg.EpsilonMin {
		a.epsilon -= a.cfg.EpsilonDecay
	} else {
		a.epsilon = a.cfg.EpsilonMin
	}
}

// Epsilon returns the current exploration rate.
func (a *Agent) Epsilon() float64 {
	return a.epsilon
}

// Episodes returns how many episodes have ended.
func (a *Agent) Episodes() int {
	return a.episodes
}

// Net returns the underlying network.
func (a *Agent) Net() *QNet {
	return a.net
}

// Memory returns the replay memory.
func (a *Agent) Memory() *Memory {
	return a.mem
}
