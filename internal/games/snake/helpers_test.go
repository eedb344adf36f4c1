package snake

import (
	"testing"

	"github.com/vovakirdan/snakesim/internal/core"
)

// scriptedRand returns queued values in order, then zeros.
type scriptedRand struct {
	values []int
	calls  []int // n passed to each Intn call
}

func (r *scriptedRand) Intn(n int) int {
	r.calls = append(r.calls, n)
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

// newTestGame builds a running game with an explicit body, heading and apple.
func newTestGame(t *testing.T, w, h int, body []core.Vector, heading, apple core.Vector) *Game {
	t.Helper()
	g, err := New(w, h, &scriptedRand{})
	if err != nil {
		t.Fatalf("New(%d, %d) failed: %v", w, h, err)
	}
	g.snake = &Snake{
		Body:          append([]core.Vector(nil), body...),
		Heading:       heading,
		StarveCounter: StarveLimit,
	}
	g.apple = apple
	g.state = StateRunning
	return g
}

func vecs(coords ...int) []core.Vector {
	out := make([]core.Vector, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, core.Vec(coords[i], coords[i+1]))
	}
	return out
}
