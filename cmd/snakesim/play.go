package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snakesim/internal/config"
	"github.com/vovakirdan/snakesim/internal/core"
	"github.com/vovakirdan/snakesim/internal/platform/tui"
	"github.com/vovakirdan/snakesim/internal/policy"
)

var (
	flagPolicy    string
	flagModelPath string
	flagWidth     int
	flagHeight    int
	flagFPS       int
	flagReplayDir string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play snake in the terminal",
	Long: `Start a game in the terminal, steered by you or by a policy.

Controls:
  Arrows/WASD  - Set heading
  Z/X          - Turn left/right
  P/Space      - Pause
  R            - Restart (after game over)
  Ctrl+S       - Save screenshot
  Esc/Q        - Quit

Examples:
  snakesim play
  snakesim play --policy greedy --fps 30
  snakesim play --policy qnet --model ./model.json
  snakesim play --width 20 --height 15 --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPolicy, "policy", "", "Driver: human or a policy id (default from config)")
	playCmd.Flags().StringVar(&flagModelPath, "model", "", "Q-network file for the qnet policy")
	playCmd.Flags().IntVar(&flagWidth, "width", 0, "Board width in cells")
	playCmd.Flags().IntVar(&flagHeight, "height", 0, "Board height in cells")
	playCmd.Flags().IntVar(&flagFPS, "fps", 0, "Steps per second")
	playCmd.Flags().StringVar(&flagReplayDir, "replay-dir", "", "Directory for episode replays")
}

// applyPlayFlags overrides the loaded config with play flags.
func applyPlayFlags(cfg *config.Config) {
	if flagPolicy != "" {
		cfg.Play.Policy = flagPolicy
	}
	if flagModelPath != "" {
		cfg.Play.ModelPath = flagModelPath
	}
	if flagWidth > 0 {
		cfg.Board.Width = flagWidth
	}
	if flagHeight > 0 {
		cfg.Board.Height = flagHeight
	}
	if flagFPS > 0 {
		cfg.Play.TickRate = flagFPS
	}
	if flagReplayDir != "" {
		cfg.Play.ReplayDir = flagReplayDir
	}
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig(cfg config.Config) core.RuntimeConfig {
	rc := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}
	rc.BoardW = cfg.Board.Width
	rc.BoardH = cfg.Board.Height
	rc.TickRate = cfg.Play.TickRate
	rc.Seed = flagSeed
	return rc
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	applyPlayFlags(&cfg)
	logger, closeLog := newFileLogger(cfg)
	defer closeLog()

	opts := tui.Options{
		Runtime:   runtimeConfig(cfg),
		ReplayDir: config.ExpandHome(cfg.Play.ReplayDir),
		Logger:    logger,
	}

	if cfg.Play.Policy != tui.HumanDriver {
		if !policy.Exists(cfg.Play.Policy) {
			exitf("unknown policy %q (run 'snakesim list')", cfg.Play.Policy)
		}
		p, err := policy.Create(cfg.Play.Policy, policy.Options{
			Seed:      seedOrNow(),
			ModelPath: config.ExpandHome(cfg.Play.ModelPath),
		})
		if err != nil {
			exitf("%v", err)
		}
		opts.Policy = p
	}

	store := openStore(cfg, logger)
	if store != nil {
		opts.Recorder = store
	}

	runErr := tui.Run(opts)

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		exitf("running game: %v", runErr)
	}
}
