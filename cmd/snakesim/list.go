package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakesim/internal/platform/tui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available drivers",
	Long:  `Shows keyboard control and every registered policy.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	items := tui.MenuItems()

	fmt.Println("Available drivers:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, it := range items {
		if len(it.Driver) > maxIDLen {
			maxIDLen = len(it.Driver)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")

	for _, it := range items {
		fmt.Printf("  %-*s  %s\n", maxIDLen, it.Driver, it.Description)
	}

	fmt.Println()
	fmt.Println("Run 'snakesim play --policy <id>' to watch a policy play.")
}
