package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, seed int64) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = seed
	return New(cfg)
}

type eventLog struct {
	events []Event
}

func (l *eventLog) record(ev Event) {
	l.events = append(l.events, ev)
}

func TestNewEngineDefaults(t *testing.T) {
	e := newTestEngine(t, 1)
	snap := e.Snapshot()

	assert.Equal(t, DefaultWidth, snap.Width)
	assert.Equal(t, DefaultHeight, snap.Height)
	assert.Nil(t, snap.Active)
	assert.Nil(t, snap.Held)
	assert.Empty(t, snap.Blocks)
	assert.NotEmpty(t, snap.SessionID)
	assert.Equal(t, 4, snap.Next.Matrix.CellCount())
	assert.Equal(t, DefaultTickInterval, snap.TickInterval)
	assert.False(t, snap.GameOver)
}

// Scenario A
func TestSpawnAndLockSquare(t *testing.T) {
	e := newTestEngine(t, 1)
	square := Colorize(KindSquare, func() Color { return ColorGreen })
	square.Matrix[1][1] = ColorRed

	require.True(t, e.SpawnShape(square))
	snap := e.Snapshot()
	require.NotNil(t, snap.Active)
	assert.Equal(t, 4, snap.Active.X)
	assert.Equal(t, 0, snap.Active.Y)
	assert.True(t, e.board.CanPlace(snap.Active.Matrix, 4, 0))

	require.True(t, e.lock())

	assert.Equal(t, 4, e.board.Len())
	assert.Equal(t, ColorGreen, e.board.Color(4, 0))
	assert.Equal(t, ColorGreen, e.board.Color(5, 0))
	assert.Equal(t, ColorGreen, e.board.Color(4, 1))
	assert.Equal(t, ColorRed, e.board.Color(5, 1))
}

func TestInstantDropRestsOnFloor(t *testing.T) {
	e := newTestEngine(t, 1)
	var log eventLog
	e.Subscribe(log.record)

	require.True(t, e.SpawnShape(uniform(KindSquare, ColorBlue)))
	require.True(t, e.InstantDrop())

	for _, p := range []Pos{P(4, 18), P(5, 18), P(4, 19), P(5, 19)} {
		assert.True(t, e.board.IsOccupied(p.X, p.Y), "block at %v", p)
	}
	snap := e.Snapshot()
	require.NotNil(t, snap.Active, "next piece spawns after lock")
	assert.True(t, snap.CanHold)

	require.GreaterOrEqual(t, len(log.events), 2)
	locked, ok := log.events[1].(PieceLocked)
	require.True(t, ok)
	assert.Len(t, locked.Cells, 4)
	assert.Equal(t, 19, locked.Cells[0].Y)
}

// Scenario B
func TestSingleRowClear(t *testing.T) {
	e := newTestEngine(t, 1)
	var log eventLog
	e.Subscribe(log.record)
	fillRow(e.board, 19, ColorRed)
	e.board.Set(P(0, 18), ColorBlue)

	require.True(t, e.clearer.Detect())
	assert.Equal(t, []int{19}, e.clearer.MarkedRows())
	assert.True(t, e.Busy())
	assert.Equal(t, ColorMarker, e.board.Color(3, 19))

	e.Advance(DefaultClearDelay)

	snap := e.Snapshot()
	assert.Equal(t, 100, snap.Score)
	assert.Equal(t, 1, snap.LinesCleared)
	assert.False(t, snap.Busy)
	assert.Zero(t, e.board.RowCount(18))
	assert.Equal(t, 1, e.board.RowCount(19), "block above drops one row")
	assert.Equal(t, ColorBlue, e.board.Color(0, 19))

	assert.Contains(t, log.events, Event(RowsMarked{Rows: []int{19}}))
	assert.Contains(t, log.events, Event(ScoreChanged{Score: 100}))
	assert.Contains(t, log.events, Event(LinesCleared{Count: 1, Total: 1}))
}

// Scenario C
func TestDoubleRowClearBonus(t *testing.T) {
	e := newTestEngine(t, 1)
	fillRow(e.board, 18, ColorRed)
	fillRow(e.board, 19, ColorBlue)

	require.True(t, e.clearer.Detect())
	assert.Equal(t, []int{18, 19}, e.clearer.MarkedRows())
	e.Advance(DefaultClearDelay)

	assert.Equal(t, 400, e.Snapshot().Score)
	assert.Equal(t, 2, e.Snapshot().LinesCleared)
	assert.Zero(t, e.board.Len())
}

func TestScoringPoints(t *testing.T) {
	s := DefaultScoring()
	tests := []struct {
		rows int
		want int
	}{
		{0, 0},
		{1, 100},
		{2, 400},
		{3, 700},
		{4, 1200},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Points(tt.rows, DefaultWidth), "%d rows", tt.rows)
	}
}

func TestMixedFullRowDoesNotClear(t *testing.T) {
	e := newTestEngine(t, 1)
	fillRow(e.board, 19, ColorRed)
	e.board.Recolor(P(9, 19), ColorGreen)

	assert.False(t, e.clearer.Detect())
	assert.False(t, e.Busy())
	assert.Equal(t, ClearIdle, e.clearer.State())
}

func TestLockDefersSpawnUntilCascadeSettles(t *testing.T) {
	e := newTestEngine(t, 1)
	for _, x := range []int{0, 1, 2, 7, 8, 9} {
		e.board.Set(P(x, 19), ColorRed)
	}

	require.True(t, e.SpawnShape(uniform(KindLine, ColorRed)))
	require.True(t, e.InstantDrop())

	snap := e.Snapshot()
	assert.True(t, snap.Busy)
	assert.Nil(t, snap.Active, "spawn waits for the cascade")
	assert.False(t, e.Spawn())

	e.Advance(DefaultClearDelay)

	snap = e.Snapshot()
	assert.False(t, snap.Busy)
	assert.Equal(t, 100, snap.Score)
	assert.Empty(t, snap.Blocks)
	require.NotNil(t, snap.Active)
	assert.True(t, snap.CanHold)
}

func TestLockDisarmsHoldDuringCascade(t *testing.T) {
	e := newTestEngine(t, 1)
	for _, x := range []int{0, 1, 2, 7, 8, 9} {
		e.board.Set(P(x, 19), ColorRed)
	}
	require.True(t, e.SpawnShape(uniform(KindLine, ColorRed)))
	require.True(t, e.Snapshot().CanHold)

	require.True(t, e.InstantDrop())

	snap := e.Snapshot()
	require.True(t, snap.Busy)
	require.Nil(t, snap.Active)
	assert.False(t, snap.CanHold, "no piece to hold while the cascade runs")

	e.Advance(DefaultClearDelay)
	snap = e.Snapshot()
	require.NotNil(t, snap.Active)
	assert.True(t, snap.CanHold)
}

func TestGameOverDisarmsHold(t *testing.T) {
	e := newTestEngine(t, 1)
	require.True(t, e.Spawn())
	require.True(t, e.Snapshot().CanHold)

	e.endGame()

	snap := e.Snapshot()
	assert.True(t, snap.GameOver)
	assert.False(t, snap.CanHold)
	assert.False(t, e.HoldSwap())
}

func TestBusyGatesMutations(t *testing.T) {
	e := newTestEngine(t, 1)
	require.True(t, e.Spawn())
	e.board.Set(P(0, 17), ColorGreen)
	e.board.Set(P(1, 17), ColorBlue)
	fillRow(e.board, 19, ColorRed)
	require.True(t, e.clearer.Detect())

	assert.False(t, e.HoldSwap())
	assert.False(t, e.InstantDrop())
	assert.False(t, e.SwapBlockColors(P(0, 17), P(1, 17)))
	assert.False(t, e.RelocateBlock(P(0, 17), P(0, 16)))
	assert.False(t, e.lock())
	assert.True(t, e.Move(1, 0), "the falling piece still moves")
}

// Scenario D
func TestHoldSwapOncePerSpawn(t *testing.T) {
	e := newTestEngine(t, 1)
	require.True(t, e.Spawn())
	first := e.Snapshot()
	require.True(t, first.CanHold)
	require.Nil(t, first.Held)

	require.True(t, e.HoldSwap())
	snap := e.Snapshot()
	require.NotNil(t, snap.Held)
	assert.Equal(t, first.Active.Kind, snap.Held.Kind)
	assert.True(t, first.Active.Matrix.Equal(snap.Held.Matrix))
	assert.False(t, snap.CanHold)
	require.NotNil(t, snap.Active)
	assert.Equal(t, first.Next.Kind, snap.Active.Kind)

	assert.False(t, e.HoldSwap(), "second swap before lock")
	assert.Equal(t, snap.Active, e.Snapshot().Active)
}

func TestHoldSwapRestoresHeldShape(t *testing.T) {
	e := newTestEngine(t, 1)
	require.True(t, e.Spawn())
	held := e.Snapshot().Active.Shape()
	require.True(t, e.HoldSwap())
	require.True(t, e.InstantDrop())
	beforeSwap := e.Snapshot()
	require.True(t, beforeSwap.CanHold)

	require.True(t, e.HoldSwap())

	snap := e.Snapshot()
	require.NotNil(t, snap.Active)
	assert.Equal(t, held.Kind, snap.Active.Kind)
	assert.Equal(t, SpawnX(DefaultWidth, held.Matrix.Cols()), snap.Active.X)
	assert.Equal(t, 0, snap.Active.Y)
	assert.Equal(t, beforeSwap.Active.Kind, snap.Held.Kind)
	assert.False(t, snap.CanHold)
}

func TestHoldSwapReportsFailedSpawnFromQueue(t *testing.T) {
	e := newTestEngine(t, 1)
	require.True(t, e.SpawnShape(uniform(KindSquare, ColorRed)))
	e.next = uniform(KindLine, ColorBlue)
	// outside the square at (4,0), inside the line at (3..6,0)
	e.board.Set(P(3, 0), ColorGreen)

	assert.False(t, e.HoldSwap())

	snap := e.Snapshot()
	assert.True(t, snap.GameOver)
	assert.Nil(t, snap.Active)
	assert.False(t, snap.CanHold)
}

func TestHoldSwapReportsFailedRestore(t *testing.T) {
	e := newTestEngine(t, 1)
	require.True(t, e.SpawnShape(uniform(KindLine, ColorRed)))
	e.next = uniform(KindSquare, ColorBlue)
	require.True(t, e.HoldSwap())
	e.next = uniform(KindSquare, ColorGreen)
	require.True(t, e.InstantDrop())
	require.True(t, e.Snapshot().CanHold)
	e.board.Set(P(3, 0), ColorBlue)

	assert.False(t, e.HoldSwap(), "held line collides at the spawn row")

	snap := e.Snapshot()
	assert.True(t, snap.GameOver)
	assert.Nil(t, snap.Active)
}

func TestRotateRejectedLeavesPieceUnchanged(t *testing.T) {
	e := newTestEngine(t, 1)
	require.True(t, e.SpawnShape(uniform(KindLine, ColorRed)))
	for e.Move(0, 1) {
	}
	before := e.Snapshot().Active
	require.Equal(t, 19, before.Y)

	assert.False(t, e.Rotate())
	assert.Equal(t, before, e.Snapshot().Active)

	require.True(t, e.Move(0, -3))
	require.True(t, e.Rotate())
	assert.Equal(t, 4, e.Snapshot().Active.Matrix.Rows())
}

func TestRotateAgainstWallIsRejected(t *testing.T) {
	e := newTestEngine(t, 1)
	require.True(t, e.SpawnShape(uniform(KindLine, ColorRed)))
	require.True(t, e.Rotate())
	for e.Move(1, 0) {
	}
	before := e.Snapshot().Active
	require.Equal(t, 9, before.X)

	assert.False(t, e.Rotate())
	assert.Equal(t, before, e.Snapshot().Active)
}

func TestMoveRejectsCollisions(t *testing.T) {
	e := newTestEngine(t, 1)
	require.True(t, e.SpawnShape(uniform(KindSquare, ColorRed)))
	e.board.Set(P(3, 0), ColorBlue)

	assert.False(t, e.Move(-1, 0))
	assert.False(t, e.Move(0, -1), "no moving above the top")
	assert.True(t, e.Move(1, 0))
	assert.Equal(t, 5, e.Snapshot().Active.X)
}

func TestReshapeActive(t *testing.T) {
	e := newTestEngine(t, 1)
	require.True(t, e.SpawnShape(uniform(KindT, ColorRed)))
	// T at x=4: cells (4,0) (5,0) (6,0) (5,1)

	assert.False(t, e.ReshapeActive(P(4, 0), P(4, 2)), "outside matrix")
	assert.False(t, e.ReshapeActive(P(4, 1), P(6, 1)), "source is empty")
	require.True(t, e.ReshapeActive(P(4, 0), P(4, 1)))

	m := e.Snapshot().Active.Matrix
	assert.Equal(t, ColorEmpty, m[0][0])
	assert.Equal(t, ColorRed, m[1][0])
	assert.Equal(t, 4, m.CellCount())
}

func TestSwapBlockColorsTriggersClear(t *testing.T) {
	e := newTestEngine(t, 1)
	fillRow(e.board, 19, ColorRed)
	e.board.Recolor(P(9, 19), ColorGreen)
	e.board.Set(P(9, 18), ColorRed)

	assert.False(t, e.SwapBlockColors(P(9, 19), P(9, 17)), "missing block")
	require.True(t, e.SwapBlockColors(P(9, 19), P(9, 18)))
	assert.True(t, e.Busy())

	e.Advance(DefaultClearDelay)
	assert.Equal(t, 100, e.Snapshot().Score)
	assert.Equal(t, ColorGreen, e.board.Color(9, 19))
}

func TestRelocateBlockAvoidsActivePiece(t *testing.T) {
	e := newTestEngine(t, 1)
	require.True(t, e.SpawnShape(uniform(KindSquare, ColorRed)))
	e.board.Set(P(4, 3), ColorBlue)

	assert.False(t, e.RelocateBlock(P(4, 3), P(4, 1)))
	require.True(t, e.RelocateBlock(P(4, 3), P(4, 4)))
	assert.True(t, e.board.IsOccupied(4, 4))
}

func TestGravityTick(t *testing.T) {
	e := newTestEngine(t, 1)

	e.Advance(DefaultTickInterval)
	snap := e.Snapshot()
	require.NotNil(t, snap.Active, "first tick spawns")
	assert.Equal(t, 0, snap.Active.Y)
	assert.Equal(t, uint64(1), snap.Tick)

	e.Advance(2 * DefaultTickInterval)
	assert.Equal(t, 2, e.Snapshot().Active.Y)
}

func TestSetTickInterval(t *testing.T) {
	e := newTestEngine(t, 1)
	require.True(t, e.Spawn())

	e.SetTickInterval(250 * time.Millisecond)
	e.Advance(time.Second)

	assert.Equal(t, 4, e.Snapshot().Active.Y)
	assert.Equal(t, 250*time.Millisecond, e.Snapshot().TickInterval)
}

type countingPilot struct {
	steps int
}

func (p *countingPilot) Step() { p.steps++ }

func TestAutopilotRunsOnTicksWhenEnabled(t *testing.T) {
	e := newTestEngine(t, 1)
	pilot := &countingPilot{}
	e.SetAutopilot(pilot)

	e.Advance(2 * time.Second)
	assert.Zero(t, pilot.steps)

	assert.True(t, e.ToggleAI())
	e.Advance(3 * time.Second)
	assert.Equal(t, 3, pilot.steps)
	assert.True(t, e.Snapshot().AIEnabled)
}

func TestGameOverIsTerminal(t *testing.T) {
	e := newTestEngine(t, 1)
	var log eventLog
	e.Subscribe(log.record)
	e.board.Set(P(5, 0), ColorRed)

	assert.False(t, e.Spawn())

	snap := e.Snapshot()
	assert.True(t, snap.GameOver)
	assert.Nil(t, snap.Active)
	assert.Zero(t, e.sched.Pending())
	assert.Contains(t, log.events, Event(GameOver{Score: 0, Lines: 0}))

	e.board.Set(P(0, 19), ColorBlue)
	e.board.Set(P(1, 19), ColorGreen)
	assert.False(t, e.Spawn())
	assert.False(t, e.Move(1, 0))
	assert.False(t, e.Rotate())
	assert.False(t, e.InstantDrop())
	assert.False(t, e.HoldSwap())
	assert.False(t, e.SwapBlockColors(P(0, 19), P(1, 19)))
	assert.Zero(t, e.Advance(10*time.Second))
	assert.Equal(t, ColorBlue, e.board.Color(0, 19))
}

func TestResetStartsFreshSession(t *testing.T) {
	e := newTestEngine(t, 3)
	require.True(t, e.Spawn())
	require.True(t, e.InstantDrop())
	first := e.Snapshot()

	e.Reset()
	snap := e.Snapshot()

	assert.Empty(t, snap.Blocks)
	assert.Nil(t, snap.Active)
	assert.Zero(t, snap.Score)
	assert.Zero(t, snap.Clock)
	assert.Equal(t, first.SessionID, snap.SessionID, "session id follows the seed")
}

func TestEngineDeterministic(t *testing.T) {
	a := newTestEngine(t, 99)
	b := newTestEngine(t, 99)

	for i := range 300 {
		for _, e := range []*Engine{a, b} {
			switch i % 5 {
			case 0:
				e.Move(-1, 0)
			case 1:
				e.Rotate()
			case 2:
				e.Move(1, 0)
			case 3:
				e.InstantDrop()
			}
			e.Advance(300 * time.Millisecond)
		}
		require.Equal(t, a.Snapshot(), b.Snapshot(), "step %d", i)
	}
}

func checkInvariants(t *testing.T, snap Snapshot) {
	t.Helper()
	seen := make(map[Pos]bool, len(snap.Blocks))
	for _, b := range snap.Blocks {
		require.True(t, b.X >= 0 && b.X < snap.Width && b.Y >= 0 && b.Y < snap.Height, "block %v out of bounds", b.Pos)
		require.False(t, seen[b.Pos], "duplicate block %v", b.Pos)
		require.NotEqual(t, ColorEmpty, b.Color)
		seen[b.Pos] = true
	}
	if snap.Active == nil {
		return
	}
	for _, c := range snap.Active.Cells() {
		require.True(t, c.X >= 0 && c.X < snap.Width && c.Y >= 0 && c.Y < snap.Height, "piece cell %v out of bounds", c.Pos)
		require.False(t, seen[c.Pos], "piece overlaps block at %v", c.Pos)
	}
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		e := newTestEngine(t, seed)
		rng := rand.New(rand.NewSource(seed))
		prev := e.Snapshot()
		var over *Snapshot

		for range 2000 {
			switch rng.Intn(7) {
			case 0:
				e.Move(-1, 0)
			case 1:
				e.Move(1, 0)
			case 2:
				e.Rotate()
			case 3:
				e.InstantDrop()
			case 4:
				e.HoldSwap()
			case 5:
				a := P(rng.Intn(DefaultWidth), DefaultHeight-1-rng.Intn(3))
				b := P(rng.Intn(DefaultWidth), DefaultHeight-1-rng.Intn(3))
				e.SwapBlockColors(a, b)
			}
			e.Advance(time.Duration(rng.Intn(600)) * time.Millisecond)

			snap := e.Snapshot()
			checkInvariants(t, snap)
			require.GreaterOrEqual(t, snap.Score, prev.Score)
			require.GreaterOrEqual(t, snap.LinesCleared, prev.LinesCleared)
			if over != nil {
				require.True(t, snap.GameOver)
				require.Equal(t, over.Blocks, snap.Blocks)
				require.Equal(t, over.Score, snap.Score)
			} else if snap.GameOver {
				over = &snap
			}
			prev = snap
		}
	}
}

func TestCascadeTerminates(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for range 50 {
		e := newTestEngine(t, 1)
		cleared := 0
		e.Subscribe(func(ev Event) {
			if _, ok := ev.(LinesCleared); ok {
				cleared++
			}
		})
		for y := range DefaultHeight {
			switch rng.Intn(3) {
			case 0:
				fillRow(e.board, y, Palette(3)[rng.Intn(3)])
			case 1:
				for x := range DefaultWidth {
					e.board.Set(P(x, y), Palette(3)[rng.Intn(3)])
				}
			}
		}

		e.clearer.Detect()
		for i := 0; e.Busy(); i++ {
			require.LessOrEqual(t, i, DefaultHeight)
			e.Advance(DefaultClearDelay)
		}

		assert.LessOrEqual(t, cleared, DefaultHeight)
		assert.Empty(t, MatchingRows(e.board))
	}
}
