package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/chroma-arcade/internal/config"
	"github.com/vovakirdan/chroma-arcade/internal/games/chroma"
	"github.com/vovakirdan/chroma-arcade/internal/storage"
)

var (
	flagSimGames int
	flagSimLimit time.Duration
	flagSimSave  bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless AI games",
	Long: `Play games with the AI on a virtual clock, without a terminal UI,
and print the score and cleared lines of each one.

Game i uses seed+i, so a run with a fixed --seed is reproducible.
Games that survive past --limit of virtual time are stopped.

Examples:
  chroma sim
  chroma sim --games 50 --seed 42
  chroma sim --difficulty hard --limit 30m
  chroma sim --save --log-level debug --log-file sim.log`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimGames, "games", 10, "Number of games to play")
	simCmd.Flags().DurationVar(&flagSimLimit, "limit", chroma.DefaultSimLimit, "Virtual time limit per game")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record results in the scores database")
}

func runSim(_ *cobra.Command, _ []string) {
	logger, cleanup := setupLogging(false)
	defer cleanup()

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fatalf("%v", err)
	}
	cfg := loadConfig()
	config.ApplyChromaPreset(&cfg, preset)

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var store *storage.Store
	if flagSimSave {
		store, err = storage.Open(dbPath())
		if err != nil {
			fatalf("opening scores database: %v", err)
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := chroma.Simulate(ctx, chroma.SimOptions{
		Games:  flagSimGames,
		Seed:   seed,
		Config: cfg,
		Limit:  flagSimLimit,
		Logger: logger,
	}, func(r chroma.SimResult) {
		if store == nil || r.Score <= 0 {
			return
		}
		_, saveErr := store.SaveScore(storage.Result{
			GameID:    chroma.GameID,
			Score:     r.Score,
			Lines:     r.Lines,
			AI:        true,
			SessionID: r.SessionID,
		})
		if saveErr != nil {
			log.Warn("score not saved", "seed", r.Seed, "err", saveErr)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Stopped after %d games: %v\n", len(results), err)
	}

	printSimResults(results)
}

func printSimResults(results []chroma.SimResult) {
	if len(results) == 0 {
		fmt.Println("No games played.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Seed", "Score", "Lines", "Ticks", "Time", "Stack", "Result")

	var total, lines, best, finished int
	for i, r := range results {
		outcome := "time limit"
		if r.Finished {
			outcome = "game over"
			finished++
		}
		t.Row(
			strconv.Itoa(i+1),
			strconv.FormatInt(r.Seed, 10),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Lines),
			strconv.FormatUint(r.Ticks, 10),
			r.Clock.Round(time.Second).String(),
			strconv.FormatFloat(r.Board, 'f', 0, 64),
			outcome,
		)
		total += r.Score
		lines += r.Lines
		best = max(best, r.Score)
	}

	fmt.Println(t.Render())
	fmt.Println()
	n := len(results)
	fmt.Printf("Games: %d (%d ended)  Best: %d  Avg score: %.1f  Avg lines: %.1f\n",
		n, finished, best, float64(total)/float64(n), float64(lines)/float64(n))
}
