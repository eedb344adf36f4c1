// Package agent implements a deep Q-learning agent for the snake simulation:
// a small perceptron, an experience replay memory, an epsilon-greedy agent and
// a trainer loop that drives a game.
package agent

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/exp/rand"
)

// QNet is a perceptron with one ReLU hidden layer and a linear output per
// action. Weights are stored contiguously, bias first for each neuron, the
// hidden layer before the output layer.
type QNet struct {
	InputSize  int       `json:"input_size"`
	Hidden     int       `json:"hidden"`
	OutputSize int       `json:"output_size"`
	Weights    []float64 `json:"weights"`

	// forward pass buffers
	h   []float64
	out []float64
}

// Sample is one supervised target for the Q-value of a taken action.
type Sample struct {
	State  []float64
	Action int
	Target float64
}

// NewQNet creates a network with weights drawn uniformly from
// [-1/sqrt(fan_in), 1/sqrt(fan_in)].
func NewQNet(inputSize, hidden, outputSize int, rng *rand.Rand) *QNet {
	q := &QNet{
		InputSize:  inputSize,
		Hidden:     hidden,
		OutputSize: outputSize,
	}
	q.Weights = make([]float64, q.size())

	hiddenBound := 1 / math.Sqrt(float64(inputSize))
	outBound := 1 / math.Sqrt(float64(hidden))
	split := q.outputOffset()
	for i := range q.Weights {
		bound := hiddenBound
		if i >= split {
			bound = outBound
		}
		q.Weights[i] = (2*rng.Float64() - 1) * bound
	}
	q.alloc()
	return q
}

func (q *QNet) size() int {
	return (q.InputSize+1)*q.Hidden + (q.Hidden+1)*q.OutputSize
}

func (q *QNet) outputOffset() int {
	return (q.InputSize + 1) * q.Hidden
}

func (q *QNet) alloc() {
	q.h = make([]float64, q.Hidden)
	q.out = make([]float64, q.OutputSize)
}

func (q *QNet) forward(x []float64) {
	offset := 0
	for j := 0; j < q.Hidden; j++ {
		sum := q.Weights[offset] // bias
		offset++
		for i := 0; i < q.InputSize; i++ {
			sum += x[i] * q.Weights[offset]
			offset++
		}
		q.h[j] = relu(sum)
	}
	for j := 0; j < q.OutputSize; j++ {
		sum := q.Weights[offset]
		offset++
		for i := 0; i < q.Hidden; i++ {
			sum += q.h[i] * q.Weights[offset]
			offset++
		}
		q.out[j] = sum
	}
}

// Predict returns the Q-value of every action for state x.
func (q *QNet) Predict(x []float64) []float64 {
	q.forward(x)
	result := make([]float64, q.OutputSize)
	copy(result, q.out)
	return result
}

// Best returns the index of the highest Q-value for state x.
func (q *QNet) Best(x []float64) int {
	q.forward(x)
	return argmax(q.out)
}

// Train performs one gradient descent step on the mean of
// 0.5*(Q(s,a)-target)^2 over the batch and returns that mean loss.
func (q *QNet) Train(batch []Sample, lr float64) float64 {
	if len(batch) == 0 {
		return 0
	}

	grad := make([]float64, len(q.Weights))
	split := q.outputOffset()
	var loss float64

	for _, s := range batch {
		q.forward(s.State)
		diff := q.out[s.Action] - s.Target
		loss += 0.5 * diff * diff

		// output neuron for the taken action
		base := split + s.Action*(q.Hidden+1)
		grad[base] += diff
		for i := 0; i < q.Hidden; i++ {
			grad[base+1+i] += diff * q.h[i]
		}

		// back through the ReLU
		for j := 0; j < q.Hidden; j++ {
			if q.h[j] <= 0 {
				continue
			}
			dh := diff * q.Weights[base+1+j]
			hb := j * (q.InputSize + 1)
			grad[hb] += dh
			for i := 0; i < q.InputSize; i++ {
				grad[hb+1+i] += dh * s.State[i]
			}
		}
	}

	scale := lr / float64(len(batch))
	for i := range q.Weights {
		q.Weights[i] -= scale * grad[i]
	}
	return loss / float64(len(batch))
}

// Save writes the network as JSON, creating parent directories.
func (q *QNet) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("agent: cannot create model directory: %w", err)
	}
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("agent: cannot encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("agent: cannot write model %s: %w", path, err)
	}
	return nil
}

// LoadQNet reads a network written by Save.
func LoadQNet(path string) (*QNet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("agent: cannot read model %s: %w", path, err)
	}
	var q QNet
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("agent: cannot parse model %s: %w", path, err)
	}
	if q.InputSize <= 0 || q.Hidden <= 0 || q.OutputSize <= 0 || len(q.Weights) != q.size() {
		return nil, fmt.Errorf("agent: model %s has %d weights for a %d-%d-%d network",
			path, len(q.Weights), q.InputSize, q.Hidden, q.OutputSize)
	}
	q.alloc()
	return &q, nil
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func argmax(vals []float64) int {
	maxIdx := 0
	maxVal := vals[0]
	for i := 1; i < len(vals); i++ {
		if vals[i] > maxVal {
			maxVal = vals[i]
			maxIdx = i
		}
	}
	return maxIdx
}
