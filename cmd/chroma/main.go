// chroma is a terminal color-matching falling-block game.
//
// Usage:
//
//	chroma play              - Play a game
//	chroma menu              - Start menu with play, watch-AI and scores
//	chroma sim               - Run headless AI games and print results
//	chroma list              - List games and their controls
//	chroma scores            - Show high scores
//	chroma serve             - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Set UI tick rate (default: 30)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.arcade/chroma.db)
//	--config <path>      - Custom chroma.yaml
//	--difficulty <name>  - easy, normal, hard or fixed
//	--log-level <level>  - debug, info, warn, error
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/chroma-arcade/internal/config"
	"github.com/vovakirdan/chroma-arcade/internal/core"
	"github.com/vovakirdan/chroma-arcade/internal/games/chroma"
	"github.com/vovakirdan/chroma-arcade/internal/logging"
	"github.com/vovakirdan/chroma-arcade/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chroma",
	Short: "Chroma - match whole rows in one color",
	Long: `Chroma is a falling-block game for the terminal. Rows clear only when
every cell in them has the same color, so you recolor the stack by
dragging blocks onto each other. An AI can take over at any time.

Available commands:
  play     - Play a game directly
  menu     - Start menu (play, watch the AI, high scores)
  sim      - Run headless AI games and print the results
  list     - Show games and controls
  scores   - View high scores
  serve    - Start SSH server for remote play

Examples:
  chroma play
  chroma play --difficulty hard
  chroma sim --games 20 --seed 42
  chroma serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "UI tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default: config, $CHROMA_DB or ~/.arcade/chroma.db)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom chroma.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// fatalf prints an error and exits.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// setupLogging installs the process logger and returns a cleanup func.
// Interactive commands own the terminal, so without --log-file they
// discard logs entirely.
func setupLogging(interactive bool) (*log.Logger, func()) {
	if interactive && flagLogFile == "" {
		l := logging.Discard()
		log.SetDefault(l)
		chroma.SetLogger(l)
		return l, func() {}
	}

	l, closer, err := logging.New(logging.Options{
		Level:  flagLogLevel,
		File:   flagLogFile,
		Prefix: "chroma",
	})
	if err != nil {
		fatalf("%v", err)
	}
	log.SetDefault(l)
	chroma.SetLogger(l)
	return l, func() { closer.Close() }
}

// applyGameFlags hands the config flags to the chroma game.
func applyGameFlags() {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fatalf("%v", err)
	}
	chroma.SetConfigPath(flagConfig)
	chroma.SetDifficultyPreset(preset)
}

// loadConfig loads chroma.yaml, falling back to defaults with a warning.
func loadConfig() config.ChromaConfig {
	cfg, err := config.LoadChroma(flagConfig)
	if err != nil {
		log.Warn("using default config", "err", err)
		return config.DefaultChromaConfig()
	}
	return cfg
}

// dbPath resolves the scores database: --db, then config and $CHROMA_DB,
// then the default location.
func dbPath() string {
	if flagDBPath != "" {
		return flagDBPath
	}
	if p := loadConfig().Storage.Path; p != "" {
		return p
	}
	return storage.DefaultPath
}

// openStore opens the scores database. Games still run without one.
func openStore() *storage.Store {
	store, err := storage.Open(dbPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// runtimeConfig builds the platform config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
