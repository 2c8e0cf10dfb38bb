package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chroma-arcade/internal/games/chroma"
	"github.com/vovakirdan/chroma-arcade/internal/platform/tui"
	"github.com/vovakirdan/chroma-arcade/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the game with a menu",
	Long: `Start Chroma in interactive menu mode.

Pick Play, Watch the AI or High scores. After a game ends you return
to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - High scores
  Q            - Quit

Examples:
  chroma menu
  chroma menu --fps 60
  chroma menu --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	_, cleanup := setupLogging(true)
	defer cleanup()
	applyGameFlags()

	store := openStore()
	cfg := runtimeConfig()

	for {
		menuResult, err := tui.RunMenu(store, chroma.GameID, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Choice == tui.ChoiceQuit || menuResult.Choice == tui.ChoiceNone {
			break
		}

		if menuResult.Choice == tui.ChoiceScores {
			goBack, sbErr := tui.RunScoreboard(store, chroma.GameID, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		game, err := registry.Create(chroma.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			break
		}

		// Fresh seed for each game unless one was pinned
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, store, cfg, tui.WithAutopilot(menuResult.Choice == tui.ChoiceWatchAI)); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}

	if store != nil {
		store.Close()
	}
}
