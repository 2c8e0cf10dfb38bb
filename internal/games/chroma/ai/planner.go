// Package ai implements the Chroma autopilot: a one-piece lookahead that
// scores every rotation and column placement, plus an opportunistic
// relocation of settled blocks.
package ai

import (
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/chroma-arcade/internal/games/chroma/engine"
)

// Controller is the subset of the engine the planner drives.
type Controller interface {
	Snapshot() engine.Snapshot
	Move(dx, dy int) bool
	Rotate() bool
	InstantDrop() bool
	RelocateBlock(from, to engine.Pos) bool
}

// Candidate is one rotation and column placement.
type Candidate struct {
	Rotation int
	Column   int
	Row      int // Resting row of the matrix origin
	Score    float64
}

// Valid reports whether the candidate has a legal resting position.
func (c Candidate) Valid() bool {
	return !math.IsInf(c.Score, -1)
}

// Decision is the move chosen for the current piece.
type Decision struct {
	Candidate
	Random     bool // No placement scored above zero
	Candidates []Candidate
}

// Planner chooses and executes moves through a Controller.
type Planner struct {
	ctrl     Controller
	rng      *rand.Rand
	weights  Weights
	cooldown time.Duration
	logger   *log.Logger

	acted bool
	last  time.Duration
}

// Option configures a Planner.
type Option func(*Planner)

// WithCooldown sets the minimum virtual time between executed moves.
func WithCooldown(d time.Duration) Option {
	return func(p *Planner) { p.cooldown = d }
}

// WithWeights overrides the heuristic weights.
func WithWeights(w Weights) Option {
	return func(p *Planner) { p.weights = w }
}

// WithLogger sets the decision logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Planner) { p.logger = l }
}

// New creates a planner. The seed drives the random fallback.
func New(ctrl Controller, seed int64, opts ...Option) *Planner {
	p := &Planner{
		ctrl:     ctrl,
		rng:      rand.New(rand.NewSource(seed)),
		weights:  DefaultWeights(),
		cooldown: engine.DefaultAICooldown,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Step plans and executes one move, then tries one block relocation.
// Calls inside the cooldown window are ignored.
func (p *Planner) Step() {
	snap := p.ctrl.Snapshot()
	if snap.GameOver || snap.Busy {
		return
	}
	if p.acted && snap.Clock-p.last < p.cooldown {
		p.logger.Debug("ai cooldown", "since", snap.Clock-p.last)
		return
	}

	if snap.Active != nil {
		d := p.Plan(snap)
		p.execute(snap, d)
		p.acted = true
		p.last = snap.Clock
	}
	// relocations alone never restart the cooldown
	p.relocate(p.ctrl.Snapshot())
}

// Plan evaluates every rotation and column for the active piece.
func (p *Planner) Plan(snap engine.Snapshot) Decision {
	if snap.Active == nil {
		return Decision{}
	}
	board := boardFrom(snap)
	base := snap.Active.Matrix

	best := Candidate{Score: math.Inf(-1)}
	candidates := make([]Candidate, 0, 4*snap.Width)
	for r := range 4 {
		m := base.RotateN(r)
		for x := range snap.Width {
			c := p.score(board, m, r, x)
			candidates = append(candidates, c)
			if c.Score > best.Score {
				best = c
			}
		}
	}

	if best.Score > 0 {
		return Decision{Candidate: best, Candidates: candidates}
	}

	r := p.rng.Intn(4)
	m := base.RotateN(r)
	x := p.rng.Intn(max(1, snap.Width-m.Cols()+1))
	p.logger.Debug("no good move found, choosing random move", "rotation", r, "column", x)
	return Decision{
		Candidate:  Candidate{Rotation: r, Column: x, Score: best.Score},
		Random:     true,
		Candidates: candidates,
	}
}

func (p *Planner) score(board *engine.Board, m engine.Matrix, r, x int) Candidate {
	c := Candidate{Rotation: r, Column: x, Score: math.Inf(-1)}
	y, ok := DropRow(board, m, x)
	if !ok {
		return c
	}
	sim := board.Clone()
	sim.Lock(m, x, y)
	c.Row = y
	c.Score = Analyze(sim.Grid()).Score(p.weights, board.Height())
	return c
}

// DropRow finds the lowest row matrix m can rest on in column x,
// scanning down from the top.
func DropRow(board *engine.Board, m engine.Matrix, x int) (int, bool) {
	if x < 0 || x+m.Cols() > board.Width() || !board.CanPlace(m, x, 0) {
		return 0, false
	}
	y := 0
	for board.CanPlace(m, x, y+1) {
		y++
	}
	return y, true
}

func (p *Planner) execute(snap engine.Snapshot, d Decision) {
	for range d.Rotation {
		p.ctrl.Rotate()
	}
	col := max(0, min(d.Column, snap.Width-1))
	if dx := col - snap.Active.X; dx != 0 {
		p.ctrl.Move(dx, 0)
	}
	if d.Random {
		p.ctrl.InstantDrop()
	}
	p.logger.Debug("ai move", "kind", snap.Active.Kind, "rotation", d.Rotation,
		"column", col, "score", d.Score, "random", d.Random)
}

var neighbors = [...]engine.Pos{
	{X: -1, Y: 0}, // left
	{X: 1, Y: 0},  // right
	{X: 0, Y: -1}, // up
	{X: 0, Y: 1},  // down
}

// relocate moves the first block of a horizontally adjacent same-color
// pair into an empty neighbor cell. At most one block moves.
func (p *Planner) relocate(snap engine.Snapshot) bool {
	if snap.GameOver || snap.Busy {
		return false
	}
	grid := snap.Grid()
	for _, b := range snap.Blocks {
		if b.X+1 >= snap.Width || grid[b.Y][b.X+1] != b.Color {
			continue
		}
		for _, d := range neighbors {
			to := engine.P(b.X+d.X, b.Y+d.Y)
			if to.X < 0 || to.X >= snap.Width || to.Y < 0 || to.Y >= snap.Height {
				continue
			}
			if grid[to.Y][to.X] != engine.ColorEmpty {
				continue
			}
			if snap.Active != nil && snap.Active.Covers(to) {
				continue
			}
			if p.ctrl.RelocateBlock(b.Pos, to) {
				p.logger.Debug("ai relocated block", "from", b.Pos, "to", to)
				return true
			}
		}
	}
	return false
}

func boardFrom(snap engine.Snapshot) *engine.Board {
	b := engine.NewBoard(snap.Width, snap.Height)
	for _, blk := range snap.Blocks {
		b.Set(blk.Pos, blk.Color)
	}
	return b
}
