package snake

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/snakesim/internal/core"
)

func TestNewRejectsBadConfiguration(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		rng  Rand
	}{
		{"zero width", 0, 5, &scriptedRand{}},
		{"zero height", 5, 0, &scriptedRand{}},
		{"negative", -1, -1, &scriptedRand{}},
		{"nil rng", 5, 5, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.w, tc.h, tc.rng)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("New() error = %v, expected ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestStartRequiresMargin(t *testing.T) {
	g, err := New(4, 10, &scriptedRand{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := g.Start(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Start() on 4x10 error = %v, expected ErrInvalidConfiguration", err)
	}
}

func TestStartPlacement(t *testing.T) {
	tests := []struct {
		name        string
		w, h        int
		values      []int
		wantHead    core.Vector
		wantHeading core.Vector
		wantApple   core.Vector
	}{
		{
			name:        "left half heads right",
			w:           10,
			h:           10,
			values:      []int{0, 0, 0},
			wantHead:    core.Vec(2, 2),
			wantHeading: core.Right,
			wantApple:   core.Vec(0, 0),
		},
		{
			name:        "exact middle heads right",
			w:           10,
			h:           10,
			values:      []int{3, 1, 1},
			wantHead:    core.Vec(5, 3),
			wantHeading: core.Right,
			wantApple:   core.Vec(0, 1),
		},
		{
			name:        "right half heads left",
			w:           11,
			h:           7,
			values:      []int{4, 2, 5},
			wantHead:    core.Vec(6, 4),
			wantHeading: core.Left,
			wantApple:   core.Vec(0, 5),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rng := &scriptedRand{values: tc.values}
			g, err := New(tc.w, tc.h, rng)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if err := g.Start(); err != nil {
				t.Fatalf("Start failed: %v", err)
			}

			if g.Head() != tc.wantHead {
				t.Errorf("Head() = %v, expected %v", g.Head(), tc.wantHead)
			}
			if g.Heading() != tc.wantHeading {
				t.Errorf("Heading() = %v, expected %v", g.Heading(), tc.wantHeading)
			}
			if g.Apple() != tc.wantApple {
				t.Errorf("Apple() = %v, expected %v", g.Apple(), tc.wantApple)
			}
			if g.Score() != 1 || g.StarveCounter() != StarveLimit || g.Age() != 0 {
				t.Errorf("fresh game: score=%d starve=%d age=%d", g.Score(), g.StarveCounter(), g.Age())
			}
			if g.State() != StateRunning {
				t.Errorf("State() = %v, expected running", g.State())
			}
			// start x and y spans, then free cells for the apple
			expectedCalls := []int{tc.w - 4, tc.h - 4, tc.w*tc.h - 1}
			if !reflect.DeepEqual(rng.calls, expectedCalls) {
				t.Errorf("Intn calls = %v, expected %v", rng.calls, expectedCalls)
			}
		})
	}
}

func TestStartBoundsAcrossSeeds(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		g, err := NewSeeded(9, 7, seed)
		if err != nil {
			t.Fatalf("NewSeeded failed: %v", err)
		}
		if err := g.Start(); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		h := g.Head()
		if h.X < 2 || h.X > 6 || h.Y < 2 || h.Y > 4 {
			t.Fatalf("seed %d: head %v outside start margin", seed, h)
		}
		if g.Apple() == h {
			t.Fatalf("seed %d: apple placed on head", seed)
		}
	}
}

func TestStepScenarios(t *testing.T) {
	tests := []struct {
		name      string
		body      []core.Vector
		heading   core.Vector
		apple     core.Vector
		want      StepResult
		wantBody  []core.Vector
		wantState State
		wantDeath DeathReason
	}{
		{
			name:      "plain move",
			body:      vecs(2, 2),
			heading:   core.Right,
			apple:     core.Vec(4, 2),
			want:      StepResult{Reward: 0, Terminal: false, Score: 1},
			wantBody:  vecs(3, 2),
			wantState: StateRunning,
		},
		{
			name:      "wall collision",
			body:      vecs(4, 2),
			heading:   core.Right,
			apple:     core.Vec(0, 0),
			want:      StepResult{Reward: RewardDeath, Terminal: true, Score: 1},
			wantBody:  vecs(5, 2),
			wantState: StateTerminated,
			wantDeath: DeathWall,
		},
		{
			name:      "eat apple",
			body:      vecs(3, 2),
			heading:   core.Right,
			apple:     core.Vec(4, 2),
			want:      StepResult{Reward: RewardApple, Terminal: false, Score: 2},
			wantBody:  vecs(4, 2, 3, 2),
			wantState: StateRunning,
		},
		{
			name:      "self collision beats apple",
			body:      vecs(2, 2, 2, 3, 3, 3, 3, 2, 3, 1),
			heading:   core.Right,
			apple:     core.Vec(3, 2),
			want:      StepResult{Reward: RewardDeath, Terminal: true, Score: 5},
			wantBody:  vecs(3, 2, 2, 2, 2, 3, 3, 3, 3, 2),
			wantState: StateTerminated,
			wantDeath: DeathSelf,
		},
		{
			name:      "chasing the tail is safe",
			body:      vecs(2, 2, 2, 3, 3, 3, 3, 2),
			heading:   core.Right,
			apple:     core.Vec(0, 0),
			want:      StepResult{Reward: 0, Terminal: false, Score: 4},
			wantBody:  vecs(3, 2, 2, 2, 2, 3, 3, 3),
			wantState: StateRunning,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, 5, 5, tc.body, tc.heading, tc.apple)

			res, err := g.Step()
			if err != nil {
				t.Fatalf("Step failed: %v", err)
			}
			if res != tc.want {
				t.Errorf("Step() = %+v, expected %+v", res, tc.want)
			}
			if !reflect.DeepEqual(g.Body(), tc.wantBody) {
				t.Errorf("Body() = %v, expected %v", g.Body(), tc.wantBody)
			}
			if g.State() != tc.wantState {
				t.Errorf("State() = %v, expected %v", g.State(), tc.wantState)
			}
			if g.Death() != tc.wantDeath {
				t.Errorf("Death() = %v, expected %v", g.Death(), tc.wantDeath)
			}
			if res.Score != g.Score() {
				t.Errorf("result score %d disagrees with Score() %d", res.Score, g.Score())
			}
		})
	}
}

func TestStepWallOnEverySide(t *testing.T) {
	tests := []struct {
		name    string
		head    core.Vector
		heading core.Vector
	}{
		{"top", core.Vec(2, 0), core.Up},
		{"bottom", core.Vec(2, 4), core.Down},
		{"left", core.Vec(0, 2), core.Left},
		{"right", core.Vec(4, 2), core.Right},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, 5, 5, []core.Vector{tc.head}, tc.heading, core.Vec(2, 2))
			res, err := g.Step()
			if err != nil {
				t.Fatalf("Step failed: %v", err)
			}
			if !res.Terminal || res.Reward != RewardDeath || g.Death() != DeathWall {
				t.Errorf("Step() = %+v death=%v, expected wall death", res, g.Death())
			}
		})
	}
}

func TestEatDrawsAppleBeforeGrowth(t *testing.T) {
	// After the move the body is [(1,0)], leaving 8 candidates in column-major
	// order: (0,0) (0,1) (0,2) (1,1) (1,2) (2,0) (2,1) (2,2).
	tests := []struct {
		name      string
		value     int
		wantApple core.Vector
	}{
		{"vacated tail is a candidate", 0, core.Vec(0, 0)},
		{"skips the head column entry", 3, core.Vec(1, 1)},
		{"last candidate", 7, core.Vec(2, 2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rng := &scriptedRand{values: []int{tc.value}}
			g, err := New(3, 3, rng)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			g.snake = &Snake{Body: vecs(0, 0), Heading: core.Right, StarveCounter: StarveLimit}
			g.apple = core.Vec(1, 0)
			g.state = StateRunning

			res, err := g.Step()
			if err != nil {
				t.Fatalf("Step failed: %v", err)
			}
			if res.Reward != RewardApple || res.Score != 2 {
				t.Fatalf("expected apple reward and score 2, got %+v", res)
			}
			if len(rng.calls) != 1 || rng.calls[0] != 8 {
				t.Errorf("Intn calls = %v, expected [8]", rng.calls)
			}
			if g.Apple() != tc.wantApple {
				t.Errorf("Apple() = %v, expected %v", g.Apple(), tc.wantApple)
			}
			if !reflect.DeepEqual(g.Body(), vecs(1, 0, 0, 0)) {
				t.Errorf("Body() = %v, expected [(1,0) (0,0)]", g.Body())
			}
		})
	}
}

func TestStarvation(t *testing.T) {
	g := newTestGame(t, 5, 5, vecs(1, 2), core.Right, core.Vec(0, 0))
	g.snake.StarveCounter = 1

	res, err := g.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if !res.Terminal || res.Reward != RewardDeath {
		t.Errorf("Step() = %+v, expected terminal death", res)
	}
	if g.Death() != DeathStarved {
		t.Errorf("Death() = %v, expected starved", g.Death())
	}
}

func TestStarveCounterAfterGrowth(t *testing.T) {
	g := newTestGame(t, 20, 5, vecs(1, 2), core.Right, core.Vec(2, 2))

	if res, _ := g.Step(); res.Reward != RewardApple {
		t.Fatalf("expected to eat, got %+v", res)
	}
	if g.StarveCounter() != 0 {
		t.Fatalf("StarveCounter() after eating = %d, expected 0", g.StarveCounter())
	}

	// park the apple out of the way and walk past zero without dying
	g.apple = core.Vec(0, 0)
	for i := 1; i <= 5; i++ {
		res, err := g.Step()
		if err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
		if res.Terminal {
			t.Fatalf("step %d terminated with %v", i, g.Death())
		}
		if g.StarveCounter() != -i {
			t.Errorf("StarveCounter() = %d, expected %d", g.StarveCounter(), -i)
		}
	}
}

func TestStepInvalidState(t *testing.T) {
	g, err := NewSeeded(8, 8, 1)
	if err != nil {
		t.Fatalf("NewSeeded failed: %v", err)
	}
	if _, err := g.Step(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Step() before Start error = %v, expected ErrInvalidState", err)
	}
	if _, err := g.Observation(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Observation() before Start error = %v, expected ErrInvalidState", err)
	}

	g = newTestGame(t, 5, 5, vecs(4, 2), core.Right, core.Vec(0, 0))
	if res, _ := g.Step(); !res.Terminal {
		t.Fatalf("expected terminal step")
	}
	if _, err := g.Step(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Step() after terminal error = %v, expected ErrInvalidState", err)
	}
}

func TestRestartAfterTerminal(t *testing.T) {
	g, err := NewSeeded(10, 10, 42)
	if err != nil {
		t.Fatalf("NewSeeded failed: %v", err)
	}
	if err := g.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for g.State() == StateRunning {
		if _, err := g.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}
	if err := g.Start(); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if g.State() != StateRunning || g.Death() != DeathNone || g.Score() != 1 {
		t.Errorf("restart left state=%v death=%v score=%d", g.State(), g.Death(), g.Score())
	}
}

func TestFullBoardIsInvariantViolation(t *testing.T) {
	// The head chases the tail onto an apple that sits on the tail cell, so
	// the moved body covers the whole 2x2 board.
	g := newTestGame(t, 2, 2, vecs(0, 0, 1, 0, 1, 1, 0, 1), core.Down, core.Vec(0, 1))

	_, err := g.Step()
	if !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("Step() error = %v, expected ErrInvariantViolation", err)
	}
	if g.State() != StateTerminated {
		t.Errorf("State() = %v, expected terminated", g.State())
	}
}

func TestSetRelativeTurn(t *testing.T) {
	tests := []struct {
		name    string
		start   core.Vector
		turn    Turn
		heading core.Vector
	}{
		{"straight keeps heading", core.Right, TurnStraight, core.Right},
		{"left from right is up", core.Right, TurnLeft, core.Up},
		{"right from right is down", core.Right, TurnRight, core.Down},
		{"left from up is left", core.Up, TurnLeft, core.Left},
		{"right from up is right", core.Up, TurnRight, core.Right},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, 5, 5, vecs(2, 2), tc.start, core.Vec(0, 0))
			g.SetRelativeTurn(tc.turn)
			if g.Heading() != tc.heading {
				t.Errorf("Heading() = %v, expected %v", g.Heading(), tc.heading)
			}
		})
	}
}

func TestSetAbsoluteHeadingAllowsReversal(t *testing.T) {
	g := newTestGame(t, 5, 5, vecs(2, 2, 1, 2, 0, 2), core.Right, core.Vec(4, 4))
	g.SetAbsoluteHeading(HeadingLeft)

	res, err := g.Step()
	if err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if !res.Terminal || g.Death() != DeathSelf {
		t.Errorf("reversal: result %+v death %v, expected self collision", res, g.Death())
	}
}

func TestParseTurnAndHeading(t *testing.T) {
	for _, turn := range Turns {
		got, err := ParseTurn(turn.String())
		if err != nil || got != turn {
			t.Errorf("ParseTurn(%q) = %v, %v", turn.String(), got, err)
		}
	}
	if _, err := ParseTurn("backwards"); err == nil {
		t.Error("ParseTurn should reject unknown names")
	}

	for _, h := range []Heading{HeadingUp, HeadingDown, HeadingLeft, HeadingRight} {
		got, err := ParseHeading(h.String())
		if err != nil || got != h {
			t.Errorf("ParseHeading(%q) = %v, %v", h.String(), got, err)
		}
	}
	if _, err := ParseHeading("north"); err == nil {
		t.Error("ParseHeading should reject unknown names")
	}
}

func TestDeterminism(t *testing.T) {
	run := func() []Snapshot {
		g, err := NewSeeded(12, 9, 7)
		if err != nil {
			t.Fatalf("NewSeeded failed: %v", err)
		}
		if err := g.Start(); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		script := []Turn{TurnStraight, TurnLeft, TurnStraight, TurnRight, TurnRight, TurnStraight, TurnLeft}
		var out []Snapshot
		for i := 0; i < 60 && g.State() == StateRunning; i++ {
			g.SetRelativeTurn(script[i%len(script)])
			if _, err := g.Step(); err != nil {
				t.Fatalf("Step failed: %v", err)
			}
			out = append(out, g.Snapshot())
		}
		return out
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed and inputs produced different trajectories")
	}
}

func TestInvariantsUnderRandomPlay(t *testing.T) {
	g, err := NewSeeded(8, 8, 99)
	if err != nil {
		t.Fatalf("NewSeeded failed: %v", err)
	}
	driver := &scriptedRand{}
	for i := 0; i < 3000; i++ {
		driver.values = append(driver.values, (i*7+i/3)%3)
	}

	if err := g.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	apples := 0
	for i := 0; i < 3000; i++ {
		if g.State() == StateTerminated {
			if err := g.Start(); err != nil {
				t.Fatalf("restart failed: %v", err)
			}
			apples = 0
		}
		prevStarve := g.StarveCounter()
		g.SetRelativeTurn(Turns[driver.Intn(3)])
		res, err := g.Step()
		if err != nil {
			t.Fatalf("Step failed: %v", err)
		}
		if res.Terminal {
			continue
		}
		if res.Reward == RewardApple {
			apples++
			if g.StarveCounter() != 0 {
				t.Fatalf("starve counter %d after eating", g.StarveCounter())
			}
		} else if g.StarveCounter() != prevStarve-1 {
			t.Fatalf("starve counter %d, expected %d", g.StarveCounter(), prevStarve-1)
		}

		body := g.Body()
		if len(body) != apples+1 {
			t.Fatalf("length %d, expected %d", len(body), apples+1)
		}
		seen := make(map[core.Vector]bool, len(body))
		for _, p := range body {
			if !g.Board().Contains(p) {
				t.Fatalf("body cell %v off board", p)
			}
			if seen[p] {
				t.Fatalf("duplicate body cell %v", p)
			}
			seen[p] = true
		}
		// The apple is drawn before the tail grows back, so only the cells
		// ahead of the new tail must be free of it.
		if res.Reward == RewardApple {
			for _, p := range body[:len(body)-1] {
				if p == g.Apple() {
					t.Fatalf("apple %v drawn on body %v", g.Apple(), body)
				}
			}
		}

		obs, err := g.Observation()
		if err != nil {
			t.Fatalf("Observation failed: %v", err)
		}
		for k := 0; k < FeatAppleBearing; k++ {
			if obs[k] <= 0 || obs[k] > 1 {
				t.Fatalf("feature %d = %v outside (0,1]", k, obs[k])
			}
		}
		if obs[FeatAppleBearing] < -1 || obs[FeatAppleBearing] > 1 {
			t.Fatalf("bearing %v outside [-1,1]", obs[FeatAppleBearing])
		}
	}
}
