package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakesim/internal/agent"
	"github.com/vovakirdan/snakesim/internal/config"
	"github.com/vovakirdan/snakesim/internal/storage"
)

var (
	flagEpisodes int
	flagResume   bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the Q-network policy",
	Long: `Train the qnet policy by playing episodes with an epsilon-greedy agent.

Every step is learned from immediately and stored in a replay memory that
is sampled after each episode. The model is saved whenever a new record
score is reached. Ctrl+C stops training after the current step.

Examples:
  snakesim train
  snakesim train --episodes 200 --model ./model.json
  snakesim train --resume --seed 7`,
	Args: cobra.NoArgs,
	Run:  runTrain,
}

func init() {
	trainCmd.Flags().IntVar(&flagEpisodes, "episodes", 0, "Episodes to play (default from config; negative trains until interrupted)")
	trainCmd.Flags().StringVar(&flagModelPath, "model", "", "Where to save the Q-network (default from config)")
	trainCmd.Flags().BoolVar(&flagResume, "resume", false, "Continue from the saved model instead of a fresh network")
	trainCmd.Flags().IntVar(&flagWidth, "width", 0, "Training board width in cells (default from config)")
	trainCmd.Flags().IntVar(&flagHeight, "height", 0, "Training board height in cells (default from config)")
}

func agentConfig(tc config.TrainConfig) agent.Config {
	return agent.Config{
		Hidden:       tc.Hidden,
		LearningRate: tc.LearningRate,
		Gamma:        tc.Gamma,
		EpsilonStart: tc.EpsilonStart,
		EpsilonDecay: tc.EpsilonDecay,
		EpsilonMin:   tc.EpsilonMin,
		BatchSize:    tc.BatchSize,
		MemorySize:   tc.MemorySize,
	}
}

func runTrain(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagModelPath != "" {
		cfg.Train.ModelPath = flagModelPath
	}
	if cmd.Flags().Changed("episodes") {
		cfg.Train.Episodes = flagEpisodes
	}
	if flagWidth > 0 {
		cfg.Train.Width = flagWidth
	}
	if flagHeight > 0 {
		cfg.Train.Height = flagHeight
	}
	logger := newLogger(cfg)
	modelPath := config.ExpandHome(cfg.Train.ModelPath)
	seed := seedOrNow()

	var a *agent.Agent
	if flagResume {
		net, err := agent.LoadQNet(modelPath)
		if err != nil {
			exitf("%v", err)
		}
		a = agent.NewWithNet(agentConfig(cfg.Train), net, seed)
	} else {
		a = agent.New(agentConfig(cfg.Train), seed)
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	trainer := &agent.Trainer{
		Agent:     a,
		Width:     cfg.Train.Width,
		Height:    cfg.Train.Height,
		Seed:      seed,
		ModelPath: modelPath,
		Logger:    logger.With("run", runID[:8]),
	}
	if store != nil {
		trainer.Recorder = store
	}

	logger.Info("training started", "run", runID, "episodes", cfg.Train.Episodes,
		"width", cfg.Train.Width, "height", cfg.Train.Height, "seed", seed)
	sum, err := trainer.Run(ctx, cfg.Train.Episodes)
	if err != nil {
		logger.Error("training failed", "err", err)
	}

	logger.Info("training finished", "episodes", sum.Episodes, "record", sum.Record,
		"mean", sum.Mean, "elapsed", sum.Elapsed.Round(time.Millisecond))

	if store != nil && sum.Episodes > 0 {
		if _, saveErr := store.SaveTrainingRun(storage.TrainingRun{
			RunID:     runID,
			Episodes:  sum.Episodes,
			BestScore: sum.Record,
			MeanScore: sum.Mean,
			ModelPath: modelPath,
			Duration:  int(sum.Elapsed.Seconds()),
		}); saveErr != nil {
			logger.Warn("could not record training run", "err", saveErr)
		}
	}

	if err != nil {
		os.Exit(1)
	}
}
