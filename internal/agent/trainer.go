package agent

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakesim/internal/games/snake"
	"github.com/vovakirdan/snakesim/internal/storage"
)

// PolicyID is the name trained episodes are recorded under.
const PolicyID = "qnet"

// EpisodeRecorder persists finished episodes. *storage.Store satisfies it.
type EpisodeRecorder interface {
	SaveEpisode(e storage.Episode) (int64, error)
}

// EpisodeResult describes one finished training episode.
type EpisodeResult struct {
	Episode int
	Seed    uint64
	Score   int
	Record  int
	Mean    float64
	Ticks   int
	Reward  int
	Death   snake.DeathReason
	Epsilon float64
	Loss    float64
}

// Summary describes a whole training run.
type Summary struct {
	Episodes int
	Record   int
	Mean     float64
	Elapsed  time.Duration
}

// Trainer plays games with an Agent and learns from every step.
// Episode n (counting from zero) is played on a game seeded with Seed+n, so
// every recorded episode can be replayed from its own seed.
type Trainer struct {
	Agent     *Agent
	Width     int
	Height    int
	Seed      uint64
	ModelPath string          // written whenever a new record is set; empty disables
	Recorder  EpisodeRecorder // optional
	Logger    *log.Logger     // optional
	OnEpisode func(EpisodeResult)
}

// Run trains for the given number of episodes, or until ctx is cancelled
// when episodes is not positive. Cancellation is not an error: the summary
// of the finished episodes is returned.
func (t *Trainer) Run(ctx context.Context, episodes int) (Summary, error) {
	started := time.Now()
	logger := t.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	seed := t.Seed
	g, err := t.newGame(seed)
	if err != nil {
		return Summary{}, err
	}

	var (
		sum    Summary
		total  int
		ticks  int
		reward int
	)
	finish := func() Summary {
		sum.Elapsed = time.Since(started)
		if sum.Episodes > 0 {
			sum.Mean = float64(total) / float64(sum.Episodes)
		}
		return sum
	}

	for episodes <= 0 || sum.Episodes < episodes {
		select {
		case <-ctx.Done():
			logger.Info("training interrupted", "episodes", sum.Episodes, "record", sum.Record)
			return finish(), nil
		default:
		}

		obs, err := g.Observation()
		if err != nil {
			return finish(), err
		}
		turn := t.Agent.Act(obs)
		g.SetRelativeTurn(turn)
		res, err := g.Step()
		if err != nil {
			return finish(), err
		}
		next, err := g.Observation()
		if err != nil {
			return finish(), err
		}

		e := Experience{State: obs, Action: int(turn), Reward: float64(res.Reward), Next: next, Done: res.Terminal}
		t.Agent.TrainShort(e)
		t.Agent.Remember(e)
		ticks++
		reward += res.Reward

		if !res.Terminal {
			continue
		}

		death := g.Death()
		t.Agent.EndEpisode()
		loss := t.Agent.TrainLong()

		sum.Episodes++
		total += res.Score
		if res.Score > sum.Record {
			sum.Record = res.Score
			if t.ModelPath != "" {
				if err := t.Agent.Net().Save(t.ModelPath); err != nil {
					return finish(), fmt.Errorf("save model on new record: %w", err)
				}
				logger.Debug("model saved", "path", t.ModelPath, "record", sum.Record)
			}
		}

		if t.Recorder != nil {
			if _, err := t.Recorder.SaveEpisode(storage.Episode{
				Policy: PolicyID,
				Seed:   seed,
				Score:  res.Score,
				Reward: reward,
				Ticks:  ticks,
				Death:  death.String(),
				Width:  t.Width,
				Height: t.Height,
			}); err != nil {
				logger.Warn("failed to record episode", "err", err)
			}
		}

		result := EpisodeResult{
			Episode: sum.Episodes,
			Seed:    seed,
			Score:   res.Score,
			Record:  sum.Record,
			Mean:    float64(total) / float64(sum.Episodes),
			Ticks:   ticks,
			Reward:  reward,
			Death:   death,
			Epsilon: t.Agent.Epsilon(),
			Loss:    loss,
		}
		logger.Info("episode", "n", result.Episode, "seed", seed, "score", result.Score, "record", result.Record,
			"mean", fmt.Sprintf("%.2f", result.Mean), "death", death, "epsilon", fmt.Sprintf("%.3f", result.Epsilon))
		if t.OnEpisode != nil {
			t.OnEpisode(result)
		}

		ticks, reward = 0, 0
		seed++
		if g, err = t.newGame(seed); err != nil {
			return finish(), err
		}
	}

	return finish(), nil
}

func (t *Trainer) newGame(seed uint64) (*snake.Game, error) {
	g, err := snake.NewSeeded(t.Width, t.Height, seed)
	if err != nil {
		return nil, err
	}
	if err := g.Start(); err != nil {
		return nil, err
	}
	return g, nil
}
