package engine

import "time"

// Snapshot is a read-only copy of the game state.
type Snapshot struct {
	SessionID    string
	Width        int
	Height       int
	Blocks       []Block // Bottom rows first
	Active       *Piece
	Ghost        int // Landing row of the active piece
	Next         ColoredShape
	Held         *ColoredShape
	CanHold      bool
	Score        int
	LinesCleared int
	Combos       int // Cascade steps triggered by a previous step
	GameOver     bool
	Busy         bool
	AIEnabled    bool
	Tick         uint64
	Clock        time.Duration
	TickInterval time.Duration
}

// Grid returns a dense [y][x] view of the settled blocks.
func (s Snapshot) Grid() [][]Color {
	g := make([][]Color, s.Height)
	for y := range g {
		g[y] = make([]Color, s.Width)
	}
	for _, b := range s.Blocks {
		g[b.Y][b.X] = b.Color
	}
	return g
}

// Occupied reports whether a settled block sits at p.
func (s Snapshot) Occupied(p Pos) bool {
	for _, b := range s.Blocks {
		if b.Pos == p {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:    e.sessionID,
		Width:        e.board.Width(),
		Height:       e.board.Height(),
		Blocks:       e.board.Blocks(),
		Next:         e.next.Clone(),
		CanHold:      e.hold.CanHold(),
		Score:        e.score,
		LinesCleared: e.lines,
		Combos:       e.combos,
		GameOver:     e.gameOver,
		Busy:         e.clearer.Busy(),
		AIEnabled:    e.aiEnabled,
		Tick:         e.tick,
		Clock:        e.sched.Now(),
		TickInterval: e.interval,
	}
	if e.active.present() {
		p := e.active.piece.Clone()
		snap.Active = &p
		snap.Ghost = e.active.landingY()
	}
	if held, ok := e.hold.Held(); ok {
		snap.Held = &held
	}
	return snap
}
