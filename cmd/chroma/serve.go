package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chroma-arcade/internal/games/chroma"
	"github.com/vovakirdan/chroma-arcade/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Chroma SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the start menu.
Scores are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.arcade/host_key

Examples:
  chroma serve                           # Listen on :23234 with auto-generated key
  chroma serve --ssh :2222               # Listen on port 2222
  chroma serve --host-key ./my_host_key  # Use specific host key
  chroma serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	logger, cleanup := setupLogging(false)
	defer cleanup()
	applyGameFlags()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = dbPath()
	cfg.GameID = chroma.GameID
	cfg.TickRate = flagFPS
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.Logger = logger.WithPrefix("ssh")

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fatalf("creating server: %v", err)
	}

	fmt.Printf("Starting Chroma SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
