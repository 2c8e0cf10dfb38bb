package engine

import "time"

// ClearState is the phase of the match-clear cascade.
type ClearState uint8

const (
	ClearIdle ClearState = iota
	ClearDetecting
	ClearMarking
	ClearCascading
)

// String returns the phase name.
func (s ClearState) String() string {
	switch s {
	case ClearIdle:
		return "idle"
	case ClearDetecting:
		return "detecting"
	case ClearMarking:
		return "marking"
	case ClearCascading:
		return "cascading"
	default:
		return "unknown"
	}
}

// Scoring holds the clear reward parameters.
// A clear of n rows on a board of width W is worth
// n*W*RowPoints plus 2^(n-1)*ComboBase when n > 1.
type Scoring struct {
	RowPoints int
	ComboBase int
}

// DefaultScoring returns the standard reward table.
func DefaultScoring() Scoring {
	return Scoring{RowPoints: 10, ComboBase: 100}
}

// Points returns the reward for clearing n rows at once.
func (s Scoring) Points(n, width int) int {
	if n <= 0 {
		return 0
	}
	base := n * width * s.RowPoints
	bonus := 0
	if n > 1 {
		bonus = (1 << (n - 1)) * s.ComboBase
	}
	return base + bonus
}

// clearHooks are the callbacks the clearer reports through.
type clearHooks struct {
	marked  func(rows []int)
	cleared func(rows []int, points int)
	settled func(cycles int)
}

// Clearer finds rows filled with a single color, highlights them and
// removes them after a delay, repeating until the board is stable.
type Clearer struct {
	board   *Board
	sched   *Scheduler
	delay   time.Duration
	scoring Scoring
	hooks   clearHooks

	state  ClearState
	rows   []int
	task   TaskID
	cycles int
}

func newClearer(b *Board, s *Scheduler, delay time.Duration, scoring Scoring, hooks clearHooks) *Clearer {
	return &Clearer{
		board:   b,
		sched:   s,
		delay:   delay,
		scoring: scoring,
		hooks:   hooks,
	}
}

// State returns the current phase.
func (c *Clearer) State() ClearState {
	return c.state
}

// Busy reports whether a cascade is in flight.
func (c *Clearer) Busy() bool {
	return c.state == ClearMarking || c.state == ClearCascading
}

// MarkedRows returns the rows waiting to be removed.
func (c *Clearer) MarkedRows() []int {
	return append([]int(nil), c.rows...)
}

// MatchingRows scans the board top to bottom for uniform full rows.
func MatchingRows(b *Board) []int {
	var rows []int
	for y := range b.Height() {
		if b.UniformRow(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// Detect starts a cascade if any row matches. It returns true when rows
// were marked and the board is now busy.
func (c *Clearer) Detect() bool {
	if c.Busy() && c.state != ClearCascading {
		return true
	}
	c.state = ClearDetecting
	rows := MatchingRows(c.board)
	if len(rows) == 0 {
		c.state = ClearIdle
		if c.cycles > 0 {
			cycles := c.cycles
			c.cycles = 0
			if c.hooks.settled != nil {
				c.hooks.settled(cycles)
			}
		}
		return false
	}

	c.state = ClearMarking
	c.rows = rows
	for _, y := range rows {
		for x := range c.board.Width() {
			c.board.Recolor(P(x, y), ColorMarker)
		}
	}
	if c.hooks.marked != nil {
		c.hooks.marked(c.MarkedRows())
	}
	c.task = c.sched.After(c.delay, "cascade", c.cascade)
	return true
}

func (c *Clearer) cascade() {
	c.state = ClearCascading
	rows := c.rows
	c.rows = nil
	c.task = 0

	c.board.RemoveRows(rows)
	c.cycles++
	points := c.scoring.Points(len(rows), c.board.Width())
	if c.hooks.cleared != nil {
		c.hooks.cleared(rows, points)
	}
	if c.state != ClearCascading {
		return // cancelled by the hook
	}
	c.Detect()
}

// Cancel aborts a pending cascade and returns to idle. Marked rows stay
// on the board.
func (c *Clearer) Cancel() {
	if c.task != 0 {
		c.sched.Cancel(c.task)
		c.task = 0
	}
	c.state = ClearIdle
	c.rows = nil
	c.cycles = 0
}
