package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chroma-arcade/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available games and their controls",
	Long:  `Shows every registered game together with its key bindings.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	for _, g := range games {
		fmt.Printf("%s (%s)\n", g.Title, g.ID)
		fmt.Println()

		// Calculate column widths
		maxKeyLen := 0
		for _, c := range g.Controls {
			maxKeyLen = max(maxKeyLen, len([]rune(c.Keys)))
		}

		for _, c := range g.Controls {
			pad := maxKeyLen - len([]rune(c.Keys))
			fmt.Printf("  %s%*s  %s\n", c.Keys, pad, "", c.Action)
		}
		fmt.Println()
	}

	fmt.Println("Run 'chroma play' to start.")
}
