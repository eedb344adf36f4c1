package snake

import "github.com/vovakirdan/snakesim/internal/core"

// Snapshot captures the complete observable game state for determinism
// checks, rendering collaborators and the HTTP API.
type Snapshot struct {
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	Body          []core.Vector `json:"body"`
	Heading       core.Vector   `json:"heading"`
	Apple         core.Vector   `json:"apple"`
	Score         int           `json:"score"`
	Age           int           `json:"age"`
	StarveCounter int           `json:"starve_counter"`
	State         string        `json:"state"`
	Death         string        `json:"death"`
}

// Snapshot returns a copy of the current state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Width:         g.board.Width,
		Height:        g.board.Height,
		Body:          g.Body(),
		Heading:       g.Heading(),
		Apple:         g.apple,
		Score:         g.Score(),
		Age:           g.Age(),
		StarveCounter: g.StarveCounter(),
		State:         g.state.String(),
		Death:         g.death.String(),
	}
}
