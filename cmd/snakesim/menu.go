package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakesim/internal/config"
	"github.com/vovakirdan/snakesim/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a driver picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick who drives the snake.
Esc during a game returns to the menu. Tab opens the scoreboard.

Examples:
  snakesim menu
  snakesim menu --width 20 --height 20 --fps 15`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func init() {
	menuCmd.Flags().IntVar(&flagWidth, "width", 0, "Board width in cells")
	menuCmd.Flags().IntVar(&flagHeight, "height", 0, "Board height in cells")
	menuCmd.Flags().IntVar(&flagFPS, "fps", 0, "Steps per second")
	menuCmd.Flags().StringVar(&flagModelPath, "model", "", "Q-network file for the qnet policy")
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	applyPlayFlags(&cfg)
	logger, closeLog := newFileLogger(cfg)
	defer closeLog()

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	err := tui.RunSession(tui.SessionOptions{
		Runtime:   runtimeConfig(cfg),
		Store:     store,
		ModelPath: config.ExpandHome(cfg.Play.ModelPath),
		ReplayDir: config.ExpandHome(cfg.Play.ReplayDir),
		Logger:    logger,
	})
	if err != nil {
		logger.Error("menu failed", "err", err)
		exitf("%v", err)
	}
}
