package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chroma-arcade/internal/core"
	"github.com/vovakirdan/chroma-arcade/internal/storage"
)

// stubGame records what the platform feeds it.
type stubGame struct {
	resets    int
	steps     []core.InputFrame
	state     core.GameState
	autopilot bool
}

func (g *stubGame) ID() string    { return "stub" }
func (g *stubGame) Title() string { return "Stub" }

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.state = core.GameState{SessionID: "session"}
	g.autopilot = false
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	cp := core.NewInputFrame()
	for a := range in.Actions {
		cp.Set(a)
	}
	cp.Drags = append(cp.Drags, in.Drags...)
	g.steps = append(g.steps, cp)
	if in.Has(core.ActionPause) {
		g.state.Paused = !g.state.Paused
	}
	return core.StepResult{State: g.state}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.DrawText(0, 0, "STUB")
}

func (g *stubGame) State() core.GameState { return g.state }

func (g *stubGame) SetAutopilot(on bool) {
	g.autopilot = on
	g.state.AI = on
}

func (g *stubGame) lastStep(t *testing.T) core.InputFrame {
	t.Helper()
	require.NotEmpty(t, g.steps)
	return g.steps[len(g.steps)-1]
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 40, ScreenH: 10, TickRate: 30, Seed: 1}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	return update(t, m, TickMsg{Loop: m.loop, Time: time.Now()})
}

func TestModelInitResetsGame(t *testing.T) {
	g := &stubGame{}
	m := NewModel(g, nil, testConfig())

	assert.NotNil(t, m.Init())
	assert.Equal(t, 1, g.resets)
	assert.False(t, g.autopilot)
}

func TestModelAutopilotOption(t *testing.T) {
	g := &stubGame{}
	m := NewModel(g, nil, testConfig(), WithAutopilot(true))
	m.Init()

	assert.True(t, g.autopilot)
}

func TestModelKeysReachNextStep(t *testing.T) {
	g := &stubGame{}
	m := NewModel(g, nil, testConfig())
	m.Init()

	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(t, m, runeKey("x"))
	m = tick(t, m)

	step := g.lastStep(t)
	assert.True(t, step.Has(core.ActionLeft))
	assert.True(t, step.Has(core.ActionRotate))

	m = tick(t, m)
	assert.True(t, g.lastStep(t).Empty(), "frame cleared after each tick")
}

func TestModelIgnoresStaleTicks(t *testing.T) {
	g := &stubGame{}
	m := NewModel(g, nil, testConfig())
	m.Init()

	m = update(t, m, TickMsg{Loop: m.loop + 100})
	assert.Empty(t, g.steps)

	tick(t, m)
	assert.Len(t, g.steps, 1)
}

func TestModelMouseDrag(t *testing.T) {
	g := &stubGame{}
	m := NewModel(g, nil, testConfig())
	m.Init()

	m = update(t, m, tea.MouseMsg{X: 4, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 6, Y: 3, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 6, Y: 3, Action: tea.MouseActionRelease})
	tick(t, m)

	drags := g.lastStep(t).Drags
	require.Len(t, drags, 1)
	assert.Equal(t, core.Drag{From: core.Point{X: 4, Y: 3}, To: core.Point{X: 6, Y: 3}}, drags[0])
}

func TestModelReleaseWithoutPressIgnored(t *testing.T) {
	g := &stubGame{}
	m := NewModel(g, nil, testConfig())
	m.Init()

	m = update(t, m, tea.MouseMsg{X: 6, Y: 3, Action: tea.MouseActionRelease})
	tick(t, m)

	assert.Empty(t, g.lastStep(t).Drags)
}

func TestModelQuit(t *testing.T) {
	m := NewModel(&stubGame{}, nil, testConfig())
	m.Init()

	next, cmd := m.Update(runeKey("q"))
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).IsQuitting())
	assert.Empty(t, next.(Model).View())
}

func TestModelBackOnlyWhenEmbedded(t *testing.T) {
	g := &stubGame{}
	m := NewModel(g, nil, testConfig())
	m.Init()
	g.state.GameOver = true
	m = tick(t, m)

	m = update(t, m, runeKey("b"))
	assert.False(t, m.BackToMenu())

	g2 := &stubGame{}
	e := NewModel(g2, nil, testConfig(), Embedded())
	e.Init()
	e = update(t, e, runeKey("b"))
	assert.False(t, e.BackToMenu(), "still playing")

	g2.state.GameOver = true
	e = tick(t, e)
	e = update(t, e, runeKey("b"))
	assert.True(t, e.BackToMenu())
}

func TestModelRestartAfterGameOver(t *testing.T) {
	g := &stubGame{}
	m := NewModel(g, nil, testConfig())
	m.Init()

	m = update(t, m, runeKey("r"))
	m = tick(t, m)
	assert.Equal(t, 1, g.resets, "restart ignored while playing")

	g.state.GameOver = true
	m = tick(t, m)
	m = update(t, m, runeKey("r"))
	tick(t, m)
	assert.Equal(t, 2, g.resets)
}

func TestModelSavesScoreOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	g := &stubGame{}
	m := NewModel(g, store, testConfig())
	m.Init()
	g.state = core.GameState{Score: 120, Lines: 2, AI: true, SessionID: "abc", GameOver: true}

	m = tick(t, m)
	tick(t, m)

	scores, err := store.TopScores("stub", 10)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 120, scores[0].Score)
	assert.Equal(t, 2, scores[0].Lines)
	assert.True(t, scores[0].AI)
	assert.Equal(t, "abc", scores[0].SessionID)
}

func TestModelSkipsZeroScore(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	g := &stubGame{}
	m := NewModel(g, store, testConfig())
	m.Init()
	g.state.GameOver = true
	tick(t, m)

	scores, err := store.TopScores("stub", 10)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestModelViewIncludesHelp(t *testing.T) {
	m := NewModel(&stubGame{}, nil, testConfig())
	m.Init()

	out := m.View()
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, testConfig().ScreenH)
	assert.Contains(t, lines[0], "STUB")
	assert.Contains(t, lines[len(lines)-1], "rotate")
}

func TestModelResizeKeepsGame(t *testing.T) {
	g := &stubGame{}
	m := NewModel(g, nil, testConfig())
	m.Init()

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Equal(t, 1, g.resets)
	assert.Equal(t, 100, m.screen.Width())
	assert.Equal(t, 30-helpHeight, m.screen.Height())
}
