package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chroma-arcade/internal/registry"
	"github.com/vovakirdan/chroma-arcade/internal/storage"
)

const maxScores = 100

// scoreFilter selects which runs the scoreboard lists.
type scoreFilter int

const (
	filterAll scoreFilter = iota
	filterHuman
	filterAI
)

func (f scoreFilter) String() string {
	switch f {
	case filterHuman:
		return "Human"
	case filterAI:
		return "AI"
	default:
		return "All runs"
	}
}

func (f scoreFilter) keep(e storage.ScoreEntry) bool {
	switch f {
	case filterHuman:
		return !e.AI
	case filterAI:
		return e.AI
	default:
		return true
	}
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Filter key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Filter, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Filter}, {k.Back, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Filter: key.NewBinding(key.WithKeys("tab", "f"), key.WithHelp("tab", "filter")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	boardEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 3)
)

// ScoreboardModel lists the best runs of one game.
type ScoreboardModel struct {
	gameID    string
	title     string
	store     *storage.Store
	entries   []storage.ScoreEntry
	stats     *storage.GameStats
	filter    scoreFilter
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard for gameID.
func NewScoreboardModel(store *storage.Store, gameID string, width, height int) ScoreboardModel {
	title := gameID
	if info, ok := registry.Info(gameID); ok {
		title = info.Title
	}

	h := help.New()
	h.Width = width

	m := ScoreboardModel{
		gameID: gameID,
		title:  title,
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.newTable()
	m.reload()
	return m
}

func (m *ScoreboardModel) newTable() table.Model {
	dateW := 14
	if m.width > 60 {
		dateW = min(20, m.width-46)
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Score", Width: 9},
			{Title: "Lines", Width: 6},
			{Title: "AI", Width: 4},
			{Title: "Date", Width: dateW},
		}),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// reload reads scores and stats from the store and refills the table.
func (m *ScoreboardModel) reload() {
	m.entries, m.stats = nil, nil
	if m.store != nil {
		if entries, err := m.store.TopScores(m.gameID, maxScores); err == nil {
			m.entries = entries
		}
		if stats, err := m.store.GetGameStats(m.gameID); err == nil {
			m.stats = stats
		}
	}
	m.fillRows()
}

func (m *ScoreboardModel) fillRows() {
	var rows []table.Row
	for _, e := range m.entries {
		if !m.filter.keep(e) {
			continue
		}
		ai := ""
		if e.AI {
			ai = "yes"
		}
		rows = append(rows, table.Row{
			"#" + strconv.Itoa(len(rows)+1),
			strconv.Itoa(e.Score),
			strconv.Itoa(e.Lines),
			ai,
			e.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Filter):
			m.filter = (m.filter + 1) % 3
			m.fillRows()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.fillRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(boardTitleStyle.Render("HIGH SCORES - "+m.title), m.width))
	b.WriteString("\n")
	b.WriteString(centerText("Showing: "+m.filter.String(), m.width))
	b.WriteString("\n\n")

	if line := m.statsLine(); line != "" {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n\n")
	}

	body := m.table.View()
	if len(m.table.Rows()) == 0 {
		body = boardEmptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	b.WriteString(centerText(boardFrameStyle.Render(body), m.width))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return ""
	}
	return fmt.Sprintf("Games %d  |  Avg %.0f  |  Best lines %d  |  AI runs %d",
		m.stats.GamesCount, m.stats.AvgScore, m.stats.BestLines, m.stats.AIGames)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard shows the scores of gameID.
// Returns true if the user went back rather than quitting.
func RunScoreboard(store *storage.Store, gameID string, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, gameID, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
