package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chroma-arcade/internal/core"
	"github.com/vovakirdan/chroma-arcade/internal/storage"
)

// MenuChoice is an entry of the start menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceWatchAI
	ChoiceScores
	ChoiceQuit
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	Title  string
	Choice MenuChoice
}

// DefaultMenuItems returns the start menu entries.
func DefaultMenuItems() []MenuItem {
	return []MenuItem{
		{Title: "Play", Choice: ChoicePlay},
		{Title: "Watch the AI", Choice: ChoiceWatchAI},
		{Title: "High scores", Choice: ChoiceScores},
		{Title: "Quit", Choice: ChoiceQuit},
	}
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	menuActive     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
)

// MenuModel is the Bubble Tea model for the start menu.
type MenuModel struct {
	gameID    string
	items     []MenuItem
	cursor    int
	width     int
	height    int
	best      int
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	quitting  bool
	selected  *MenuItem
}

// NewMenuModel creates a new menu model. The best score for gameID is
// loaded from store when one is given.
func NewMenuModel(store *storage.Store, gameID string, cfg core.RuntimeConfig) MenuModel {
	m := MenuModel{
		gameID:    gameID,
		items:     DefaultMenuItems(),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	if store != nil {
		if best, err := store.HighScore(gameID); err == nil {
			m.best = best
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		selected := m.items[m.cursor]
		if selected.Choice == ChoiceQuit {
			m.quitting = true
		} else {
			m.selected = &selected
		}
		return m, tea.Quit

	case MenuActionScoreboard:
		m.selected = &MenuItem{Title: "High scores", Choice: ChoiceScores}
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("C H R O M A"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Match a whole row in one color", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = menuActive.Render("> " + item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.best > 0 {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Best: %d", m.best), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit", m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width, ignoring ANSI styling.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Choice MenuChoice
	Config core.RuntimeConfig
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, gameID string, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(store, gameID, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.IsQuitting() || m.Selected() == nil {
		return MenuResult{Choice: ChoiceQuit, Config: cfg}, nil
	}

	return MenuResult{Choice: m.Selected().Choice, Config: m.Config()}, nil
}
