package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snakesim/internal/platform/tui"
	"github.com/vovakirdan/snakesim/internal/storage"
)

var (
	flagScoresTUI bool
	flagRuns      bool
	flagClear     bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [policy]",
	Short: "Show recorded episodes",
	Long: `Without arguments, show per-driver statistics. With a driver id, show its
top 10 episodes.

Examples:
  snakesim scores
  snakesim scores human
  snakesim scores qnet --clear
  snakesim scores --runs
  snakesim scores --tui`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores in a full-screen table")
	scoresCmd.Flags().BoolVar(&flagRuns, "runs", false, "List recent training runs")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the episodes of the given driver")
}

func runScores(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		exitf("opening episode database: %v", err)
	}
	defer store.Close()

	switch {
	case flagScoresTUI:
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		if _, err := tui.RunScoreboard(store, width, height); err != nil {
			exitf("%v", err)
		}
	case flagRuns:
		printRuns(store)
	case len(args) == 0:
		printStats(store)
	case flagClear:
		if err := store.ClearEpisodes(args[0]); err != nil {
			exitf("%v", err)
		}
		fmt.Printf("Cleared episodes of %s.\n", args[0])
	default:
		printTop(store, args[0])
	}
}

func printStats(store *storage.Store) {
	stats, err := store.GetAllPolicyStats()
	if err != nil {
		exitf("retrieving statistics: %v", err)
	}
	if len(stats) == 0 {
		fmt.Println("No episodes recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snakesim play' to record the first one!")
		return
	}

	fmt.Printf("  %-10s  %8s  %6s  %8s  %8s  %s\n", "Driver", "Episodes", "Best", "Avg", "AvgTicks", "Last played")
	fmt.Printf("  %-10s  %8s  %6s  %8s  %8s  %s\n", "------", "--------", "----", "---", "--------", "-----------")
	for _, s := range stats {
		fmt.Printf("  %-10s  %8d  %6d  %8.2f  %8.1f  %s\n",
			s.Policy, s.Episodes, s.HighScore, s.AvgScore, s.AvgTicks, s.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
}

func printTop(store *storage.Store, policyID string) {
	episodes, err := store.TopEpisodes(policyID, 10)
	if err != nil {
		exitf("retrieving episodes: %v", err)
	}

	fmt.Printf("High Scores - %s\n", policyID)
	fmt.Println()

	if len(episodes) == 0 {
		fmt.Println("No episodes recorded yet.")
		return
	}

	fmt.Printf("  %-4s  %-6s  %-6s  %-8s  %-20s  %s\n", "Rank", "Score", "Ticks", "Death", "Seed", "Date")
	fmt.Printf("  %-4s  %-6s  %-6s  %-8s  %-20s  %s\n", "----", "-----", "-----", "-----", "----", "----")
	for i, e := range episodes {
		fmt.Printf("  %-4d  %-6d  %-6d  %-8s  %-20d  %s\n",
			i+1, e.Score, e.Ticks, e.Death, e.Seed, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(policyID); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
}

func printRuns(store *storage.Store) {
	runs, err := store.RecentTrainingRuns(10)
	if err != nil {
		exitf("retrieving training runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No training runs recorded yet.")
		return
	}

	fmt.Printf("  %-8s  %8s  %6s  %8s  %8s  %s\n", "Run", "Episodes", "Best", "Mean", "Seconds", "Model")
	for _, r := range runs {
		fmt.Printf("  %-8s  %8d  %6d  %8.2f  %8d  %s\n",
			r.RunID[:min(8, len(r.RunID))], r.Episodes, r.BestScore, r.MeanScore, r.Duration, r.ModelPath)
	}
}
