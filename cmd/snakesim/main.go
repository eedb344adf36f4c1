// snakesim is a snake grid simulator with a reward signal and an 11-feature
// observation, playable in the terminal, trainable with Q-learning and
// drivable over HTTP.
//
// Usage:
//
//	snakesim list              - List available drivers
//	snakesim play              - Play in the terminal (or watch a policy)
//	snakesim menu              - Pick a driver interactively
//	snakesim train             - Train the Q-network
//	snakesim scores [policy]   - Show recorded episodes
//	snakesim replay <file>     - Re-run a saved replay
//	snakesim serve             - Start SSH server for remote play
//	snakesim gym               - Start the HTTP environment server
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.snakesim/config.yaml, ./configs/snakesim.yaml)
//	--seed <value>      - RNG seed for reproducible runs (0 = time based)
//	--db <path>         - Episode database path
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakesim/internal/config"
	"github.com/vovakirdan/snakesim/internal/storage"
)

var (
	// Global flags
	flagConfigPath string
	flagSeed       uint64
	flagDBPath     string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snakesim",
	Short: "Snake simulator - play, train and serve the snake grid game",
	Long: `snakesim runs the classic snake game on a walled grid. A human can
steer it from the terminal, built-in policies can drive it, a Q-learning
agent can be trained on it, and external programs can drive it over HTTP.

Available commands:
  list     - Show all available drivers
  play     - Play directly in the terminal
  menu     - Interactive driver picker menu
  train    - Train the Q-network policy
  scores   - View recorded episodes
  replay   - Re-run a saved replay
  serve    - Start SSH server for remote play
  gym      - Start HTTP environment server

Examples:
  snakesim list
  snakesim play --policy greedy
  snakesim train --episodes 200
  snakesim serve --ssh :2222
  snakesim scores qnet`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to episode database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(gymCmd)
}

// exitf prints an error and exits with status 1.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the config file and applies the global flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		exitf("%v", err)
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg
}

// newLogger builds the root logger on stderr.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "snakesim",
	})
	setLevel(logger, cfg.Log.Level)
	return logger
}

// newFileLogger builds a logger for full-screen programs, which cannot share
// the terminal with log output. It writes next to the episode database.
func newFileLogger(cfg config.Config) (*log.Logger, func()) {
	path := filepath.Join(filepath.Dir(config.ExpandHome(cfg.Storage.Path)), "snakesim.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.New(os.Stderr), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(os.Stderr), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "snakesim",
	})
	setLevel(logger, cfg.Log.Level)
	return logger, func() { f.Close() }
}

func setLevel(logger *log.Logger, level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
}

// openStore opens the episode database. Failure is reported and play
// continues without persistence.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("could not open episode database", "path", cfg.Storage.Path, "err", err)
		return nil
	}
	return store
}

// seedOrNow returns the --seed value, or a time-based seed when it is zero.
func seedOrNow() uint64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return uint64(time.Now().UnixNano())
}
