package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakesim/internal/gym"
)

var (
	flagGymAddr string
	flagMaxEnvs int
)

var gymCmd = &cobra.Command{
	Use:   "gym",
	Short: "Start the HTTP environment server",
	Long: `Start an HTTP server that lets external training loops create and
step independent snake environments over JSON.

Endpoints:
  POST   /v1/envs              create {width, height, seed}
  POST   /v1/envs/:id/start    start or restart
  POST   /v1/envs/:id/turn     {turn: straight|left|right}
  POST   /v1/envs/:id/heading  {heading: up|down|left|right}
  POST   /v1/envs/:id/step     advance one tick
  GET    /v1/envs/:id          snapshot and observation
  DELETE /v1/envs/:id          discard

Examples:
  snakesim gym
  snakesim gym --addr :9000 --max-envs 256`,
	Args: cobra.NoArgs,
	Run:  runGym,
}

func init() {
	gymCmd.Flags().StringVar(&flagGymAddr, "addr", "", "HTTP listen address (default from config)")
	gymCmd.Flags().IntVar(&flagMaxEnvs, "max-envs", 0, "Maximum concurrent environments (default from config)")
}

func runGym(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagGymAddr != "" {
		cfg.Server.GymAddr = flagGymAddr
	}
	if flagMaxEnvs > 0 {
		cfg.Server.MaxEnvs = flagMaxEnvs
	}
	logger := newLogger(cfg).WithPrefix("snakesim-gym")
	if logger.GetLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := gym.Options{
		MaxEnvs: cfg.Server.MaxEnvs,
		Logger:  logger,
	}
	if flagSeed != 0 {
		// Environments created without a seed get consecutive seeds.
		next := flagSeed
		var mu sync.Mutex
		opts.Seeds = func() uint64 {
			mu.Lock()
			defer mu.Unlock()
			next++
			return next - 1
		}
	}
	server := gym.NewServer(opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx, cfg.Server.GymAddr); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
