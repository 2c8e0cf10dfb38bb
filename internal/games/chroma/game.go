// Package chroma adapts the color-matching engine to the arcade platform:
// it maps input frames and pointer drags onto engine calls, advances the
// engine clock once per platform tick and draws the board.
package chroma

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chroma-arcade/internal/config"
	"github.com/vovakirdan/chroma-arcade/internal/core"
	"github.com/vovakirdan/chroma-arcade/internal/games/chroma/ai"
	"github.com/vovakirdan/chroma-arcade/internal/games/chroma/engine"
	"github.com/vovakirdan/chroma-arcade/internal/logging"
	"github.com/vovakirdan/chroma-arcade/internal/registry"
)

// GameID is the registry and score-table identifier.
const GameID = "chroma"

// Settings shared by every instance, set from CLI flags
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	aiOverride       *bool
	logger           = logging.Discard()
)

// SetConfigPath sets a custom YAML config path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset applied on Reset.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// SetAI forces the autopilot on or off at the start of each game.
func SetAI(on bool) {
	aiOverride = &on
}

// SetLogger sets the logger handed to the engine and planner.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Game is the arcade adapter around a Chroma engine.
type Game struct {
	cfg        config.ChromaConfig
	eng        *engine.Engine
	planner    *ai.Planner
	difficulty *config.DifficultyManager
	step       time.Duration

	paused  bool
	aiUsed  bool
	flash   int // Steps left to show the last clear banner
	lastBig int // Rows removed by the last clear
}

// New creates an unstarted game. Call Reset before Step.
func New() *Game {
	return &Game{}
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return GameID }

// Title returns the display name.
func (g *Game) Title() string { return "Chroma" }

// Controls lists the key and mouse bindings.
func (g *Game) Controls() []registry.Control {
	return []registry.Control{
		{Keys: "←/→ a/d", Action: "move"},
		{Keys: "↑", Action: "instant drop"},
		{Keys: "↓ s", Action: "soft drop"},
		{Keys: "x/w", Action: "rotate"},
		{Keys: "space", Action: "hold"},
		{Keys: "i", Action: "toggle AI"},
		{Keys: "drag", Action: "swap block colors / reshape piece"},
		{Keys: "p", Action: "pause"},
	}
}

// Reset loads configuration and starts a new session.
func (g *Game) Reset(rc core.RuntimeConfig) {
	cfg, err := config.LoadChroma(configPath)
	if err != nil {
		logger.Warn("using default config", "err", err)
		cfg = config.DefaultChromaConfig()
	}
	config.ApplyChromaPreset(&cfg, difficultyPreset)
	if aiOverride != nil {
		cfg.AI.Enabled = *aiOverride
	}
	g.cfg = cfg

	tickRate := rc.TickRate
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	g.step = time.Second / time.Duration(tickRate)

	g.eng = engine.New(EngineConfig(cfg, rc.Seed, logger))
	g.planner = ai.New(g.eng, rc.Seed,
		ai.WithCooldown(cfg.AICooldown()),
		ai.WithLogger(logger.WithPrefix("ai")),
	)
	g.eng.SetAutopilot(g.planner)
	g.eng.Subscribe(g.onEvent)
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	g.paused = false
	g.aiUsed = cfg.AI.Enabled
	g.flash = 0
	g.lastBig = 0
	g.eng.Spawn()
}

// EngineConfig converts file configuration into engine parameters.
func EngineConfig(cfg config.ChromaConfig, seed int64, l *log.Logger) engine.Config {
	return engine.Config{
		TickInterval: cfg.TickInterval(),
		AICooldown:   cfg.AICooldown(),
		ClearDelay:   cfg.ClearDelay(),
		Width:        cfg.Board.Width,
		Height:       cfg.Board.Height,
		Palette:      cfg.Board.Palette,
		Seed:         seed,
		Scoring: engine.Scoring{
			RowPoints: cfg.Scoring.RowPoints,
			ComboBase: cfg.Scoring.ComboBase,
		},
		AIEnabled: cfg.AI.Enabled,
		Logger:    l,
	}
}

func (g *Game) onEvent(ev engine.Event) {
	if e, ok := ev.(engine.LinesCleared); ok {
		g.lastBig = e.Count
		g.flash = int(time.Second / g.step)
	}
}

// Step applies one frame of input and advances the engine clock.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.eng == nil {
		return core.StepResult{State: g.State()}
	}
	if g.eng.GameOver() {
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.applyInput(in)
	g.eng.Advance(g.step)

	if g.difficulty.IsEnabled() {
		snap := g.eng.Snapshot()
		g.eng.SetTickInterval(g.difficulty.Interval(g.cfg.TickInterval(), config.Progress{
			Score: snap.Score,
			Lines: snap.LinesCleared,
			Ticks: int(snap.Tick),
		}))
	}
	if g.flash > 0 {
		g.flash--
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) applyInput(in core.InputFrame) {
	if in.Has(core.ActionToggleAI) && g.eng.ToggleAI() {
		g.aiUsed = true
	}
	if in.Has(core.ActionLeft) {
		g.eng.Move(-1, 0)
	}
	if in.Has(core.ActionRight) {
		g.eng.Move(1, 0)
	}
	if in.Has(core.ActionRotate) {
		g.eng.Rotate()
	}
	if in.Has(core.ActionSoftDrop) {
		g.eng.Move(0, 1)
	}
	if in.Has(core.ActionHold) {
		g.eng.HoldSwap()
	}
	if in.Has(core.ActionHardDrop) {
		g.eng.InstantDrop()
	}
	for _, d := range in.Drags {
		g.applyDrag(d)
	}
}

// applyDrag reshapes the falling piece when the drag starts on one of its
// cells, otherwise swaps the colors of the two settled blocks.
func (g *Game) applyDrag(d core.Drag) {
	from, ok := g.cellAt(d.From)
	if !ok {
		return
	}
	to, ok := g.cellAt(d.To)
	if !ok || from == to {
		return
	}
	snap := g.eng.Snapshot()
	if snap.Active != nil && snap.Active.Covers(from) {
		g.eng.ReshapeActive(from, to)
		return
	}
	g.eng.SwapBlockColors(from, to)
}

// State returns the platform view of the session.
func (g *Game) State() core.GameState {
	if g.eng == nil {
		return core.GameState{}
	}
	snap := g.eng.Snapshot()
	return core.GameState{
		Score:     snap.Score,
		Lines:     snap.LinesCleared,
		GameOver:  snap.GameOver,
		Paused:    g.paused,
		AI:        g.aiUsed,
		SessionID: snap.SessionID,
	}
}

// SetAutopilot turns AI play on or off for the running session.
func (g *Game) SetAutopilot(on bool) {
	if g.eng == nil {
		return
	}
	g.eng.SetAIEnabled(on)
	if on {
		g.aiUsed = true
	}
}

// Snapshot returns the engine state for tests and tooling.
func (g *Game) Snapshot() engine.Snapshot {
	return g.eng.Snapshot()
}
