package chroma

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chroma-arcade/internal/config"
	"github.com/vovakirdan/chroma-arcade/internal/games/chroma/ai"
	"github.com/vovakirdan/chroma-arcade/internal/games/chroma/engine"
)

// DefaultSimLimit caps one headless game on the virtual clock.
const DefaultSimLimit = 2 * time.Hour

// SimOptions configures a headless AI run.
type SimOptions struct {
	Games  int
	Seed   int64 // Game i uses Seed+i
	Config config.ChromaConfig
	Limit  time.Duration // Virtual time per game; zero means DefaultSimLimit
	Logger *log.Logger
}

// SimResult is the outcome of one headless game.
type SimResult struct {
	Seed      int64
	SessionID string
	Score     int
	Lines     int
	Ticks     uint64
	Clock     time.Duration
	Finished  bool    // False when the game hit the time limit
	Board     float64 // Heuristic value of the final stack
}

// Simulate plays opts.Games AI-only games on the virtual clock.
// onResult, when set, is called after each game in order.
func Simulate(ctx context.Context, opts SimOptions, onResult func(SimResult)) ([]SimResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSimLimit
	}
	l := opts.Logger
	if l == nil {
		l = logger
	}

	results := make([]SimResult, 0, max(0, opts.Games))
	for i := range max(0, opts.Games) {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r := simulateOne(opts.Config, opts.Seed+int64(i), limit, l)
		l.Debug("sim game finished", "seed", r.Seed, "score", r.Score, "lines", r.Lines, "finished", r.Finished)
		if onResult != nil {
			onResult(r)
		}
		results = append(results, r)
	}
	return results, nil
}

func simulateOne(cfg config.ChromaConfig, seed int64, limit time.Duration, l *log.Logger) SimResult {
	ecfg := EngineConfig(cfg, seed, l)
	ecfg.AIEnabled = true
	eng := engine.New(ecfg)
	eng.SetAutopilot(ai.New(eng, seed,
		ai.WithCooldown(cfg.AICooldown()),
		ai.WithLogger(l.WithPrefix("ai")),
	))
	eng.Spawn()

	step := cfg.TickInterval()
	for !eng.GameOver() && eng.Now() < limit {
		eng.Advance(step)
	}

	snap := eng.Snapshot()
	return SimResult{
		Seed:      seed,
		SessionID: snap.SessionID,
		Score:     snap.Score,
		Lines:     snap.LinesCleared,
		Ticks:     snap.Tick,
		Clock:     snap.Clock,
		Finished:  snap.GameOver,
		Board:     ai.EvaluateSnapshot(snap),
	}
}
