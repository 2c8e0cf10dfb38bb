package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chroma-arcade/internal/games/chroma"
	"github.com/vovakirdan/chroma-arcade/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresAll   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top high scores with lines cleared and whether the AI played.

Examples:
  chroma scores
  chroma scores --limit 25
  chroma scores --all
  chroma scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "Show every recorded score")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded scores")
}

func runScores(_ *cobra.Command, _ []string) {
	_, cleanup := setupLogging(false)
	defer cleanup()

	store, err := storage.Open(dbPath())
	if err != nil {
		fatalf("opening scores database: %v", err)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(chroma.GameID); err != nil {
			fatalf("clearing scores: %v", err)
		}
		fmt.Println("Scores cleared.")
		return
	}

	var scores []storage.ScoreEntry
	if flagScoresAll {
		scores, err = store.AllScores(chroma.GameID)
	} else {
		scores, err = store.TopScores(chroma.GameID, flagScoresLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Println("High Scores - Chroma")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'chroma play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-10s  %-6s  %-3s  %s\n", "Rank", "Score", "Lines", "AI", "Date")
	fmt.Printf("  %-4s  %-10s  %-6s  %-3s  %s\n", "----", "-----", "-----", "--", "----")

	for i, entry := range scores {
		ai := ""
		if entry.AI {
			ai = "yes"
		}
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %-6d  %-3s  %s\n", i+1, entry.Score, entry.Lines, ai, dateStr)
	}

	printStats(store)
}

// printStats shows the summary for chroma and a line for any other game
// sharing the database.
func printStats(store *storage.Store) {
	all, err := store.GetAllGamesStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}

	if stats, ok := all[chroma.GameID]; ok {
		fmt.Println()
		fmt.Printf("Best: %d  Games: %d  Avg: %.0f  Best lines: %d  AI runs: %d\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.BestLines, stats.AIGames)
	}
	for id, stats := range all {
		if id == chroma.GameID {
			continue
		}
		fmt.Printf("Also in this database: %s (%d games, best %d)\n", id, stats.GamesCount, stats.HighScore)
	}
}
