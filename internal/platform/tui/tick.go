// Package tui provides the Bubble Tea integration for the arcade platform.
// It handles the terminal UI loop, key and mouse mapping, the start menu,
// the scoreboard and SSH sessions.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/chroma-arcade/internal/core"
)

// TickMsg is sent to trigger a game simulation tick. Loop identifies the
// tick chain so a model ignores ticks left over from an earlier game.
type TickMsg struct {
	Loop uint64
	Time time.Time
}

var tickLoops atomic.Uint64

// newTickLoop returns a fresh tick chain identifier.
func newTickLoop() uint64 {
	return tickLoops.Add(1)
}

// tickInterval returns the wall-clock period of one platform tick.
func tickInterval(tickRate int) time.Duration {
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	return time.Second / time.Duration(tickRate)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(loop uint64, tickRate int) tea.Cmd {
	return tea.Tick(tickInterval(tickRate), func(t time.Time) tea.Msg {
		return TickMsg{Loop: loop, Time: t}
	})
}
