package policy

import (
	"path/filepath"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/vovakirdan/snakesim/internal/agent"
	"github.com/vovakirdan/snakesim/internal/core"
	"github.com/vovakirdan/snakesim/internal/games/snake"
)

func TestBuiltinsRegistered(t *testing.T) {
	list := List()
	ids := make([]string, len(list))
	for i, info := range list {
		ids[i] = info.ID
	}

	expected := []string{"greedy", "qnet", "random"}
	if len(ids) != len(expected) {
		t.Fatalf("List() = %v, expected %v", ids, expected)
	}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Errorf("List()[%d] = %q, expected %q", i, ids[i], expected[i])
		}
		if !Exists(expected[i]) {
			t.Errorf("Exists(%q) = false", expected[i])
		}
	}
	if Exists("human") {
		t.Error("human is not a policy")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register() with a duplicate id should panic")
		}
	}()
	Register(Info{ID: "greedy"}, func(Options) (Policy, error) { return Greedy{}, nil })
}

func TestCreate(t *testing.T) {
	if _, err := Create("nope", Options{}); err == nil {
		t.Error("Create() should fail for an unknown id")
	}
	if _, err := Create("qnet", Options{ModelPath: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Error("Create(qnet) should fail without a model")
	}

	p, err := Create("random", Options{Seed: 3})
	if err != nil {
		t.Fatalf("Create(random) failed: %v", err)
	}
	if p.ID() != "random" || p.Title() == "" {
		t.Errorf("Create(random) = %s/%s", p.ID(), p.Title())
	}
}

func TestRandomIsSeeded(t *testing.T) {
	a, b := NewRandom(42), NewRandom(42)
	seen := make(map[snake.Turn]bool)
	for i := 0; i < 100; i++ {
		ta, tb := a.Decide(snake.Observation{}), b.Decide(snake.Observation{})
		if ta != tb {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, ta, tb)
		}
		seen[ta] = true
	}
	if len(seen) != 3 {
		t.Errorf("random policy used %d turns, expected 3", len(seen))
	}
}

func TestGreedyDecide(t *testing.T) {
	tests := []struct {
		name    string
		body    []core.Vector
		heading core.Vector
		apple   core.Vector
		want    snake.Turn
	}{
		{"apple ahead", []core.Vector{core.Vec(2, 5)}, core.Right, core.Vec(7, 5), snake.TurnStraight},
		{"apple left", []core.Vector{core.Vec(5, 5)}, core.Right, core.Vec(5, 1), snake.TurnLeft},
		{"apple right", []core.Vector{core.Vec(5, 5)}, core.Right, core.Vec(6, 8), snake.TurnRight},
		{"apple behind goes left", []core.Vector{core.Vec(5, 5)}, core.Right, core.Vec(1, 5), snake.TurnLeft},
		{"apple on the head goes straight", []core.Vector{core.Vec(5, 5)}, core.Right, core.Vec(5, 5), snake.TurnStraight},
		{"wall on the left", []core.Vector{core.Vec(5, 0)}, core.Right, core.Vec(4, 0), snake.TurnStraight},
		{"apple below near the wall", []core.Vector{core.Vec(9, 5)}, core.Right, core.Vec(9, 9), snake.TurnRight},
		{
			"body blocks the apple side",
			[]core.Vector{core.Vec(5, 5), core.Vec(5, 4), core.Vec(4, 4)},
			core.Right, core.Vec(5, 0), snake.TurnStraight,
		},
	}

	board := snake.Board{Width: 10, Height: 10}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			obs := snake.Encode(board, tc.body, tc.heading, tc.apple)
			if got := (Greedy{}).Decide(obs); got != tc.want {
				t.Errorf("Decide() = %v, expected %v (obs %v)", got, tc.want, obs)
			}
		})
	}
}

func TestGreedyOutlivesRandom(t *testing.T) {
	play := func(p Policy) int {
		g, err := snake.NewSeeded(12, 12, 5)
		if err != nil {
			t.Fatal(err)
		}
		if err := g.Start(); err != nil {
			t.Fatal(err)
		}
		total := 0
		for episodes, steps := 0, 0; episodes < 10 && steps < 200_000; steps++ {
			obs, _ := g.Observation()
			g.SetRelativeTurn(p.Decide(obs))
			res, err := g.Step()
			if err != nil {
				t.Fatal(err)
			}
			if res.Terminal {
				total += res.Score
				episodes++
				if err := g.Start(); err != nil {
					t.Fatal(err)
				}
			}
		}
		return total
	}

	if greedy, random := play(Greedy{}), play(NewRandom(5)); greedy <= random {
		t.Errorf("greedy total %d should beat random total %d", greedy, random)
	}
}

func TestQNetPolicy(t *testing.T) {
	net := agent.NewQNet(snake.ObservationSize, 8, 3, rand.New(rand.NewSource(1)))
	path := filepath.Join(t.TempDir(), "model.json")
	if err := net.Save(path); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	p, err := Create("qnet", Options{ModelPath: path})
	if err != nil {
		t.Fatalf("Create(qnet) failed: %v", err)
	}
	obs := snake.Observation{0.2, 0.3, 0.4, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.5}
	if got, want := p.Decide(obs), snake.Turns[net.Best(obs.Slice())]; got != want {
		t.Errorf("Decide() = %v, expected %v", got, want)
	}
}
