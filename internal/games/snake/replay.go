package snake

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Input is one steering decision applied before a step. A nil Heading means
// the relative Turn is used.
type Input struct {
	Turn    Turn     `json:"turn"`
	Heading *Heading `json:"heading,omitempty"`
}

// Replay is a deterministic trace of one episode on a seeded game.
type Replay struct {
	Seed   uint64     `json:"seed"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Inputs []Input    `json:"inputs"`
	Final  StepResult `json:"final"`
}

// NewReplay creates an empty replay for a game built with NewSeeded.
func NewReplay(seed uint64, width, height int) *Replay {
	return &Replay{
		Seed:   seed,
		Width:  width,
		Height: height,
		Inputs: make([]Input, 0, 256),
	}
}

// RecordTurn appends a relative turn.
func (r *Replay) RecordTurn(t Turn) {
	r.Inputs = append(r.Inputs, Input{Turn: t})
}

// RecordHeading appends an absolute heading change.
func (r *Replay) RecordHeading(h Heading) {
	r.Inputs = append(r.Inputs, Input{Heading: &h})
}

// SetFinal stores the last step result of the episode.
func (r *Replay) SetFinal(res StepResult) {
	r.Final = res
}

// Save writes the replay as indented JSON, creating parent directories.
func (r *Replay) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("replay: cannot create directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("replay: cannot encode: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadReplay reads a replay written by Save.
func LoadReplay(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot read %s: %w", path, err)
	}
	var r Replay
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("replay: cannot parse %s: %w", path, err)
	}
	return &r, nil
}

// Play re-runs the episode on a fresh seeded game. It stops at the first
// terminal step and returns the game together with the last result.
func (r *Replay) Play() (*Game, StepResult, error) {
	g, err := NewSeeded(r.Width, r.Height, r.Seed)
	if err != nil {
		return nil, StepResult{}, err
	}
	if err := g.Start(); err != nil {
		return nil, StepResult{}, err
	}

	var res StepResult
	for _, in := range r.Inputs {
		if in.Heading != nil {
			g.SetAbsoluteHeading(*in.Heading)
		} else {
			g.SetRelativeTurn(in.Turn)
		}
		res, err = g.Step()
		if err != nil {
			return g, res, err
		}
		if res.Terminal {
			break
		}
	}
	return g, res, nil
}
