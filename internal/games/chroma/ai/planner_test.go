package ai

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vovakirdan/chroma-arcade/internal/games/chroma/engine"
)

type fakeController struct {
	snap        engine.Snapshot
	rotations   int
	moves       []engine.Pos
	drops       int
	relocations [][2]engine.Pos
}

func (f *fakeController) Snapshot() engine.Snapshot { return f.snap }

func (f *fakeController) Move(dx, dy int) bool {
	f.moves = append(f.moves, engine.P(dx, dy))
	return true
}

func (f *fakeController) Rotate() bool {
	f.rotations++
	return true
}

func (f *fakeController) InstantDrop() bool {
	f.drops++
	return true
}

func (f *fakeController) RelocateBlock(from, to engine.Pos) bool {
	f.relocations = append(f.relocations, [2]engine.Pos{from, to})
	return true
}

func emptySnapshot() engine.Snapshot {
	return engine.Snapshot{Width: engine.DefaultWidth, Height: engine.DefaultHeight}
}

func mixedLine() *engine.Piece {
	return &engine.Piece{
		Kind:   engine.KindLine,
		Matrix: engine.Matrix{{engine.ColorRed, engine.ColorGreen, engine.ColorBlue, engine.ColorRed}},
		X:      3,
	}
}

func gridOf(snap engine.Snapshot, d Decision) [][]engine.Color {
	b := boardFrom(snap)
	b.Lock(snap.Active.Matrix.RotateN(d.Rotation), d.Column, d.Row)
	return b.Grid()
}

func TestAnalyze(t *testing.T) {
	const (
		e = engine.ColorEmpty
		r = engine.ColorRed
		g = engine.ColorGreen
	)
	grid := [][]engine.Color{
		{e, e, e},
		{r, e, g},
		{e, e, g},
		{r, r, r},
	}

	f := Analyze(grid)

	assert.Equal(t, 1, f.Holes)
	assert.Equal(t, 1, f.Blockades)
	assert.Equal(t, 1, f.UniformRows)
	assert.Equal(t, 1, f.UniformCells)
	assert.Equal(t, 1, f.Top)
	// -50 -25 +1000 +100 +30
	assert.InDelta(t, 1055, f.Score(DefaultWeights(), len(grid)), 1e-9)
}

func TestAnalyzeEmptyGrid(t *testing.T) {
	grid := emptySnapshot().Grid()
	f := Analyze(grid)

	assert.Equal(t, engine.DefaultHeight, f.Top)
	assert.Zero(t, Evaluate(grid))
}

// Scenario E
func TestPlanPrefersFlushVerticalLine(t *testing.T) {
	snap := emptySnapshot()
	snap.Active = mixedLine()
	p := New(&fakeController{}, 1)

	d := p.Plan(snap)

	require.False(t, d.Random)
	assert.Equal(t, 1, d.Rotation)
	assert.Equal(t, 0, d.Column)
	assert.Equal(t, 16, d.Row)
	assert.InDelta(t, 440, d.Score, 1e-9)
	assert.Len(t, d.Candidates, 4*engine.DefaultWidth)
	assert.Zero(t, Analyze(gridOf(snap, d)).Holes)

	for _, c := range d.Candidates {
		if c.Rotation%2 == 0 && c.Valid() {
			assert.Less(t, c.Score, d.Score, "horizontal at column %d", c.Column)
		}
		if c.Rotation%2 == 0 && c.Column > engine.DefaultWidth-4 {
			assert.False(t, c.Valid(), "column %d is out of range", c.Column)
		}
	}
}

func TestPlanAvoidsHoles(t *testing.T) {
	snap := emptySnapshot()
	for x := range 8 {
		c := engine.ColorRed
		if x%2 == 1 {
			c = engine.ColorGreen
		}
		snap.Blocks = append(snap.Blocks, engine.Block{Pos: engine.P(x, 19), Color: c})
	}
	snap.Active = &engine.Piece{
		Kind:   engine.KindSquare,
		Matrix: engine.Colorize(engine.KindSquare, func() engine.Color { return engine.ColorBlue }).Matrix,
		X:      4,
	}
	p := New(&fakeController{}, 1)

	d := p.Plan(snap)

	require.False(t, d.Random)
	assert.Equal(t, 0, d.Column)
	assert.Equal(t, 17, d.Row)
	assert.InDelta(t, 430, d.Score, 1e-9)
	assert.Zero(t, Analyze(gridOf(snap, d)).Holes)

	straddle := d.Candidates[7]
	require.Equal(t, 7, straddle.Column)
	assert.InDelta(t, 355, straddle.Score, 1e-9, "hole under column 8")
}

func TestDropRow(t *testing.T) {
	b := engine.NewBoard(4, 6)
	b.Set(engine.P(1, 4), engine.ColorRed)
	square := engine.Colorize(engine.KindSquare, func() engine.Color { return engine.ColorBlue }).Matrix

	y, ok := DropRow(b, square, 0)
	require.True(t, ok)
	assert.Equal(t, 2, y)

	y, ok = DropRow(b, square, 2)
	require.True(t, ok)
	assert.Equal(t, 4, y)

	_, ok = DropRow(b, square, 3)
	assert.False(t, ok, "out of range column")

	b.Set(engine.P(0, 0), engine.ColorRed)
	_, ok = DropRow(b, square, 0)
	assert.False(t, ok, "blocked at the top")
}

func TestStepExecutesPlan(t *testing.T) {
	ctrl := &fakeController{snap: emptySnapshot()}
	ctrl.snap.Active = mixedLine()
	p := New(ctrl, 1)

	p.Step()

	assert.Equal(t, 1, ctrl.rotations)
	assert.Equal(t, []engine.Pos{engine.P(-3, 0)}, ctrl.moves)
	assert.Zero(t, ctrl.drops)
}

func TestStepRandomFallbackDrops(t *testing.T) {
	ctrl := &fakeController{snap: emptySnapshot()}
	ctrl.snap.Active = mixedLine()
	p := New(ctrl, 1, WithWeights(Weights{Hole: 50, Blockade: 25}))

	d := p.Plan(ctrl.snap)
	require.True(t, d.Random)
	assert.GreaterOrEqual(t, d.Column, 0)
	assert.LessOrEqual(t, d.Column+ctrl.snap.Active.Matrix.RotateN(d.Rotation).Cols(), engine.DefaultWidth)

	p.Step()
	assert.Equal(t, 1, ctrl.drops)
}

func TestPlanWithoutLegalPlacementIsRandom(t *testing.T) {
	snap := emptySnapshot()
	for x := range engine.DefaultWidth {
		snap.Blocks = append(snap.Blocks, engine.Block{Pos: engine.P(x, 0), Color: engine.ColorRed})
	}
	snap.Active = mixedLine()
	p := New(&fakeController{}, 1)

	d := p.Plan(snap)

	assert.True(t, d.Random)
	assert.True(t, math.IsInf(d.Score, -1))
}

func TestStepCooldown(t *testing.T) {
	ctrl := &fakeController{snap: emptySnapshot()}
	ctrl.snap.Active = mixedLine()
	p := New(ctrl, 1)

	p.Step()
	require.Equal(t, 1, ctrl.rotations)

	ctrl.snap.Clock = 400 * time.Millisecond
	p.Step()
	assert.Equal(t, 1, ctrl.rotations, "inside cooldown")

	ctrl.snap.Clock = 500 * time.Millisecond
	p.Step()
	assert.Equal(t, 2, ctrl.rotations)
}

func TestRelocationDoesNotStartCooldown(t *testing.T) {
	ctrl := &fakeController{snap: emptySnapshot()}
	ctrl.snap.Blocks = []engine.Block{
		{Pos: engine.P(2, 19), Color: engine.ColorRed},
		{Pos: engine.P(3, 19), Color: engine.ColorRed},
	}
	p := New(ctrl, 1)

	p.Step()
	require.Len(t, ctrl.relocations, 1)
	require.Zero(t, ctrl.rotations)

	ctrl.snap.Blocks = nil
	ctrl.snap.Active = mixedLine()
	ctrl.snap.Clock = 100 * time.Millisecond
	p.Step()

	assert.Equal(t, 1, ctrl.rotations, "the new piece is placed without waiting")
}

func TestStepSkipsWhileBusy(t *testing.T) {
	ctrl := &fakeController{snap: emptySnapshot()}
	ctrl.snap.Active = mixedLine()
	ctrl.snap.Busy = true
	p := New(ctrl, 1)

	p.Step()

	assert.Zero(t, ctrl.rotations)
	assert.Empty(t, ctrl.moves)
}

func TestRelocateFirstAdjacentPair(t *testing.T) {
	ctrl := &fakeController{snap: emptySnapshot()}
	ctrl.snap.Blocks = []engine.Block{
		{Pos: engine.P(2, 19), Color: engine.ColorRed},
		{Pos: engine.P(3, 19), Color: engine.ColorRed},
		{Pos: engine.P(4, 19), Color: engine.ColorGreen},
	}
	p := New(ctrl, 1)

	p.Step()

	require.Len(t, ctrl.relocations, 1)
	assert.Equal(t, [2]engine.Pos{engine.P(2, 19), engine.P(1, 19)}, ctrl.relocations[0])
}

func TestRelocateSkipsCellsUnderActivePiece(t *testing.T) {
	ctrl := &fakeController{snap: emptySnapshot()}
	ctrl.snap.Blocks = []engine.Block{
		{Pos: engine.P(0, 19), Color: engine.ColorBlue},
		{Pos: engine.P(1, 19), Color: engine.ColorBlue},
	}
	// piece covers (0,18), the only free neighbor of (0,19)
	active := &engine.Piece{Kind: engine.KindSquare, Matrix: engine.Matrix{{engine.ColorRed}}, X: 0, Y: 18}
	p := New(ctrl, 1)

	ctrl.snap.Active = active
	assert.False(t, p.relocate(ctrl.snap))

	ctrl.snap.Active = nil
	require.True(t, p.relocate(ctrl.snap))
	assert.Equal(t, [2]engine.Pos{engine.P(0, 19), engine.P(0, 18)}, ctrl.relocations[0])
}

func TestPlannerDrivesEngine(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.Seed = 5
	cfg.AIEnabled = true
	e := engine.New(cfg)
	e.SetAutopilot(New(e, 5))

	prev := e.Snapshot()
	for range 300 {
		e.Advance(cfg.TickInterval)
		snap := e.Snapshot()
		require.GreaterOrEqual(t, snap.Score, prev.Score)
		prev = snap
		if snap.GameOver {
			break
		}
	}

	assert.Positive(t, prev.Tick)
	assert.True(t, prev.AIEnabled)
}

func TestEvaluateSnapshotEmptyBoard(t *testing.T) {
	snap := engine.Snapshot{Width: 4, Height: 6}

	assert.Zero(t, EvaluateSnapshot(snap))
}
