package agent

import (
	"golang.org/x/exp/rand"

	"github.com/vovakirdan/snakesim/internal/games/snake"
)

// Experience is one transition observed while playing.
type Experience struct {
	State  snake.Observation
	Action int
	Reward float64
	Next   snake.Observation
	Done   bool
}

// Memory is a bounded FIFO of experiences. Pushing onto a full memory
// evicts the oldest entry.
type Memory struct {
	buf   []Experience
	start int
	size  int
}

// NewMemory creates a memory holding at most capacity experiences.
func NewMemory(capacity int) *Memory {
	if capacity < 1 {
		capacity = 1
	}
	return &Memory{buf: make([]Experience, capacity)}
}

// Push appends an experience.
func (m *Memory) Push(e Experience) {
	if m.size < len(m.buf) {
		m.buf[(m.start+m.size)%len(m.buf)] = e
		m.size++
		return
	}
	m.buf[m.start] = e
	m.start = (m.start + 1) % len(m.buf)
}

// Len returns the number of stored experiences.
func (m *Memory) Len() int {
	return m.size
}

// Cap returns the capacity.
func (m *Memory) Cap() int {
	return len(m.buf)
}

// At returns the i-th oldest experience.
func (m *Memory) At(i int) Experience {
	return m.buf[(m.start+i)%len(m.buf)]
}

// Sample draws n experiences without replacement. When n >= Len the whole
// memory is returned oldest first.
func (m *Memory) Sample(rng *rand.Rand, n int) []Experience {
	if n >= m.size {
		out := make([]Experience, m.size)
		for i := range out {
			out[i] = m.At(i)
		}
		return out
	}
	idx := rng.Perm(m.size)[:n]
	out := make([]Experience, n)
	for i, k := range idx {
		out[i] = m.At(k)
	}
	return out
}
