// Package logging builds the charmbracelet loggers used across the arcade.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Options configures a logger.
type Options struct {
	Level  string // debug, info, warn, error; empty means info
	File   string // Append to this file instead of stderr
	Prefix string
}

// New creates a logger and returns a closer for its sink.
// The TUI owns the terminal, so interactive commands log to a file
// or discard output below warnings.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: open %s: %w", opts.File, err)
		}
		w, closer = f, f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          opts.Prefix,
		Level:           level,
	})
	return logger, closer, nil
}

// ParseLevel converts a level name to a log.Level.
func ParseLevel(s string) (log.Level, error) {
	if strings.TrimSpace(s) == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
