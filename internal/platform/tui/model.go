package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chroma-arcade/internal/core"
	"github.com/vovakirdan/chroma-arcade/internal/registry"
	"github.com/vovakirdan/chroma-arcade/internal/storage"
)

// Rows reserved under the game screen for the help bar
const helpHeight = 1

// Model is the Bubble Tea model for running an arcade game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	dragFrom   *core.Point // Left button is down at this cell
	loop       uint64
	autopilot  bool
	embedded   bool // Back key returns to a parent menu
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithAutopilot starts each game with AI play on.
func WithAutopilot(on bool) ModelOption {
	return func(m *Model) { m.autopilot = on }
}

// Embedded lets the back key leave the game for a parent menu
// after game over or while paused.
func Embedded() ModelOption {
	return func(m *Model) { m.embedded = true }
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	h := help.New()
	h.ShowAll = false
	h.Width = cfg.ScreenW

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(1, cfg.ScreenH-helpHeight)),
		store:      store,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       h,
		inputFrame: core.NewInputFrame(),
		loop:       newTickLoop(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.reset()
	// Note: gameState will be set on first tick (value receiver limitation)
	return tickCmd(m.loop, m.config.TickRate)
}

func (m *Model) reset() {
	m.game.Reset(m.config)
	if ap, ok := m.game.(registry.Autopiloted); ok && m.autopilot {
		ap.SetAutopilot(true)
	}
	m.gameState = m.game.State()
	m.scoreSaved = false
	m.dragFrom = nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()
	if key.Matches(msg, keys.Screenshot) {
		if path, err := m.saveScreenshot(); err != nil {
			log.Warn("screenshot failed", "err", err)
		} else {
			log.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		if m.embedded && (m.gameState.GameOver || m.gameState.Paused) {
			m.backToMenu = true
		}
		return m, nil
	case action == core.ActionRestart && !m.gameState.GameOver:
		return m, nil
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleMouse turns a left-button press and release into one drag.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := core.Point{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.dragFrom = &p
		}
	case tea.MouseActionRelease:
		if m.dragFrom != nil {
			m.inputFrame.AddDrag(*m.dragFrom, p)
			m.dragFrom = nil
		}
	}
	return m, nil
}

// handleResize processes window resize events. The board layout does not
// depend on the window size, so the running game is kept.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(1, msg.Height-helpHeight))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		// Reset seed for new game
		m.config.Seed = time.Now().UnixNano()
		m.reset()
		m.inputFrame.Clear()
		return m, tickCmd(m.loop, m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Save score on game over (once)
	if m.gameState.GameOver && !m.scoreSaved {
		m.saveScore()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.loop, m.config.TickRate)
}

func (m Model) saveScore() {
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	_, err := m.store.SaveScore(storage.Result{
		GameID:    m.game.ID(),
		Score:     m.gameState.Score,
		Lines:     m.gameState.Lines,
		AI:        m.gameState.AI,
		SessionID: m.gameState.SessionID,
	})
	if err != nil {
		log.Warn("score not saved", "game", m.game.ID(), "err", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() (string, error) {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keyMapper.Keys()))
}

// State returns the last reported game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) error {
	model := NewModel(game, store, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Press/release events drive block drags
	)

	_, err := p.Run()
	return err
}
