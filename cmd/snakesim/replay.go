package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakesim/internal/games/snake"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Re-run a saved replay",
	Long: `Re-run the inputs of a replay written by 'snakesim play --replay-dir'
on a fresh game with the same seed, and check that it ends the same way.

Examples:
  snakesim replay ~/.snakesim/replays/human_1700000000.json`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	r, err := snake.LoadReplay(args[0])
	if err != nil {
		exitf("%v", err)
	}

	g, res, err := r.Play()
	if err != nil {
		exitf("%v", err)
	}

	fmt.Printf("Seed:   %d\n", r.Seed)
	fmt.Printf("Board:  %dx%d\n", r.Width, r.Height)
	fmt.Printf("Inputs: %d\n", len(r.Inputs))
	fmt.Printf("Score:  %d\n", res.Score)
	fmt.Printf("Death:  %s after %d ticks\n", g.Death(), g.Age())

	if res != r.Final {
		exitf("replay diverged: recorded %+v, replayed %+v", r.Final, res)
	}
	fmt.Println("Replay matches the recorded result.")
}
