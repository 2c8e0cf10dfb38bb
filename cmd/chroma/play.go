package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/chroma-arcade/internal/games/chroma"
	"github.com/vovakirdan/chroma-arcade/internal/platform/tui"
	"github.com/vovakirdan/chroma-arcade/internal/registry"
)

var flagAI bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start playing Chroma.

Controls:
  Left/Right, A/D  - Move
  X/W              - Rotate
  Up               - Instant drop
  Down/S           - Soft drop
  Space            - Hold
  I                - Toggle AI
  Mouse drag       - Swap two settled block colors, or reshape the piece
  P/Esc            - Pause
  R                - Restart (after game over)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Start at normal speed, speed up as lines clear
  normal - Start faster, speed up as lines clear
  hard   - Start much faster, speed up as lines clear
  fixed  - No progression (default)

Examples:
  chroma play
  chroma play --ai
  chroma play --difficulty hard
  chroma play --config ./my-chroma.yaml --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagAI, "ai", false, "Start with the AI playing")
}

func runPlay(cmd *cobra.Command, _ []string) {
	_, cleanup := setupLogging(true)
	defer cleanup()

	applyGameFlags()
	if cmd.Flags().Changed("ai") {
		chroma.SetAI(flagAI)
	}

	game, err := registry.Create(chroma.GameID)
	if err != nil {
		fatalf("creating game: %v", err)
	}

	store := openStore()
	runErr := tui.Run(game, store, runtimeConfig(), tui.WithAutopilot(flagAI))

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fatalf("running game: %v", runErr)
	}
}
