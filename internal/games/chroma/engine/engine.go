package engine

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Default timing values.
const (
	DefaultTickInterval = 1000 * time.Millisecond
	DefaultAICooldown   = 500 * time.Millisecond
	DefaultClearDelay   = 500 * time.Millisecond
	DefaultPalette      = 3
)

// Config holds engine parameters. Zero fields take their defaults.
type Config struct {
	TickInterval time.Duration
	AICooldown   time.Duration
	ClearDelay   time.Duration
	Width        int
	Height       int
	Palette      int
	Seed         int64
	Scoring      Scoring
	AIEnabled    bool
	Logger       *log.Logger
}

// DefaultConfig returns the standard 10x20 three-color setup.
func DefaultConfig() Config {
	return Config{
		TickInterval: DefaultTickInterval,
		AICooldown:   DefaultAICooldown,
		ClearDelay:   DefaultClearDelay,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Palette:      DefaultPalette,
		Scoring:      DefaultScoring(),
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TickInterval <= 0 {
		c.TickInterval = d.TickInterval
	}
	if c.AICooldown < 0 {
		c.AICooldown = d.AICooldown
	}
	if c.ClearDelay < 0 {
		c.ClearDelay = d.ClearDelay
	}
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Palette <= 0 {
		c.Palette = d.Palette
	}
	if c.Scoring == (Scoring{}) {
		c.Scoring = d.Scoring
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard)
	}
	return c
}

// Autopilot is asked to act once per gravity tick while AI play is on.
type Autopilot interface {
	Step()
}

// Engine is the game orchestrator. It owns the board, the falling piece,
// the next queue, the hold slot, the clearer and the tick scheduler.
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg    Config
	logger *log.Logger

	gen     *Generator
	board   *Board
	active  activePiece
	next    ColoredShape
	hold    HoldBuffer
	clearer *Clearer
	sched   *Scheduler

	gravity  TaskID
	interval time.Duration

	autopilot Autopilot
	aiEnabled bool
	subs      []Subscriber

	sessionID    string
	score        int
	lines        int
	combos       int
	tick         uint64
	gameOver     bool
	pendingSpawn bool
}

// New creates an engine and resets it to a fresh game.
// No piece is active until the first Spawn or gravity tick.
func New(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:    cfg,
		logger: cfg.Logger,
		sched:  NewScheduler(),
	}
	e.Reset()
	return e
}

// Reset reinitializes every field for a new session with the configured seed.
func (e *Engine) Reset() {
	e.sched.Reset()
	e.board = NewBoard(e.cfg.Width, e.cfg.Height)
	e.active = activePiece{board: e.board}
	e.gen = NewGenerator(rand.New(rand.NewSource(e.cfg.Seed)), Palette(e.cfg.Palette))
	e.next = e.gen.Generate()
	e.hold.reset()
	e.clearer = newClearer(e.board, e.sched, e.cfg.ClearDelay, e.cfg.Scoring, clearHooks{
		marked:  e.onMarked,
		cleared: e.onCleared,
		settled: e.onSettled,
	})
	e.sessionID = newSessionID(e.cfg.Seed)
	e.score, e.lines, e.combos = 0, 0, 0
	e.tick = 0
	e.gameOver = false
	e.pendingSpawn = false
	e.aiEnabled = e.cfg.AIEnabled
	e.interval = e.cfg.TickInterval
	e.gravity = e.sched.Every(e.interval, "gravity", e.onTick)
	e.logger.Debug("engine reset", "session", e.sessionID, "seed", e.cfg.Seed,
		"width", e.cfg.Width, "height", e.cfg.Height)
}

func newSessionID(seed int64) string {
	id, err := uuid.NewRandomFromReader(rand.New(rand.NewSource(seed)))
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Subscribe registers fn to receive every subsequent event.
func (e *Engine) Subscribe(fn Subscriber) {
	e.subs = append(e.subs, fn)
}

func (e *Engine) emit(ev Event) {
	for _, fn := range e.subs {
		fn(ev)
	}
}

// SetAutopilot attaches the AI driver consulted on each tick.
func (e *Engine) SetAutopilot(a Autopilot) {
	e.autopilot = a
}

// ToggleAI flips AI play and returns the new setting.
func (e *Engine) ToggleAI() bool {
	e.aiEnabled = !e.aiEnabled
	e.logger.Debug("ai toggled", "enabled", e.aiEnabled)
	return e.aiEnabled
}

// SetAIEnabled turns AI play on or off.
func (e *Engine) SetAIEnabled(on bool) {
	e.aiEnabled = on
}

// SetTickInterval changes the gravity period, restarting the gravity timer.
func (e *Engine) SetTickInterval(d time.Duration) {
	if d <= 0 || d == e.interval || e.gameOver {
		return
	}
	e.sched.Cancel(e.gravity)
	e.interval = d
	e.gravity = e.sched.Every(d, "gravity", e.onTick)
}

// Advance moves virtual time forward, running due ticks and cascades.
func (e *Engine) Advance(dt time.Duration) int {
	return e.sched.Advance(dt)
}

// Now returns the virtual clock.
func (e *Engine) Now() time.Duration {
	return e.sched.Now()
}

// GameOver reports whether the session has ended.
func (e *Engine) GameOver() bool {
	return e.gameOver
}

// Busy reports whether a cascade is in flight.
func (e *Engine) Busy() bool {
	return e.clearer.Busy()
}

// Spawn brings the queued shape into play at the top center.
// It refuses while a piece is active, during a cascade, or after game over.
func (e *Engine) Spawn() bool {
	if e.gameOver || e.clearer.Busy() || e.active.present() {
		return false
	}
	return e.spawnFromQueue(true)
}

// SpawnShape brings a specific shape into play, leaving the queue as is.
func (e *Engine) SpawnShape(cs ColoredShape) bool {
	if e.gameOver || e.clearer.Busy() || e.active.present() {
		return false
	}
	return e.spawnShape(cs, true)
}

func (e *Engine) spawnFromQueue(armHold bool) bool {
	cs := e.next
	e.next = e.gen.Generate()
	return e.spawnShape(cs, armHold)
}

func (e *Engine) spawnShape(cs ColoredShape, armHold bool) bool {
	if !e.active.spawn(cs) {
		e.endGame()
		return false
	}
	if armHold {
		e.hold.arm()
	}
	e.logger.Debug("spawn", "kind", cs.Kind, "x", e.active.piece.X)
	e.emit(PieceSpawned{Kind: cs.Kind})
	return true
}

// Move shifts the active piece if the target position is free.
func (e *Engine) Move(dx, dy int) bool {
	if e.gameOver {
		return false
	}
	return e.active.move(dx, dy)
}

// Rotate turns the active piece clockwise. A blocked rotation leaves
// the piece untouched.
func (e *Engine) Rotate() bool {
	if e.gameOver {
		return false
	}
	return e.active.rotate()
}

// InstantDrop moves the active piece down as far as it goes and locks it.
func (e *Engine) InstantDrop() bool {
	if e.gameOver || e.clearer.Busy() || !e.active.present() {
		return false
	}
	for e.active.move(0, 1) {
	}
	return e.lock()
}

// ReshapeActive drags one cell of the falling piece to a neighboring
// empty cell inside its matrix.
func (e *Engine) ReshapeActive(from, to Pos) bool {
	if e.gameOver {
		return false
	}
	return e.active.reshape(from, to)
}

// SwapBlockColors exchanges the colors of two settled blocks and checks
// for new matches.
func (e *Engine) SwapBlockColors(a, b Pos) bool {
	if e.gameOver || e.clearer.Busy() {
		return false
	}
	if !e.board.SwapColors(a, b) {
		return false
	}
	e.logger.Debug("colors swapped", "a", a, "b", b)
	e.clearer.Detect()
	return true
}

// RelocateBlock moves a settled block into an empty cell and checks for
// new matches. Cells under the falling piece are refused.
func (e *Engine) RelocateBlock(from, to Pos) bool {
	if e.gameOver || e.clearer.Busy() {
		return false
	}
	if e.active.present() && e.active.piece.Covers(to) {
		return false
	}
	if !e.board.Relocate(from, to) {
		return false
	}
	e.logger.Debug("block relocated", "from", from, "to", to)
	e.clearer.Detect()
	return true
}

// lock writes the active piece into the board, then either spawns the next
// piece or defers the spawn until the cascade settles.
func (e *Engine) lock() bool {
	if e.clearer.Busy() || !e.active.present() {
		return false
	}
	p := e.active.piece
	cells := e.board.Lock(p.Matrix, p.X, p.Y)
	e.active.piece = nil
	e.hold.disarm()
	e.logger.Debug("lock", "kind", p.Kind, "x", p.X, "y", p.Y)
	e.emit(PieceLocked{Cells: cells})

	if e.clearer.Detect() {
		e.pendingSpawn = true
		return true
	}
	e.spawnFromQueue(true)
	return true
}

func (e *Engine) onTick() {
	if e.gameOver {
		return
	}
	e.tick++
	if e.aiEnabled && e.autopilot != nil {
		e.autopilot.Step()
		if e.gameOver {
			return
		}
	}
	if !e.active.present() {
		if !e.clearer.Busy() && !e.pendingSpawn {
			e.spawnFromQueue(true)
		}
		return
	}
	if !e.active.move(0, 1) {
		e.lock()
	}
}

func (e *Engine) onMarked(rows []int) {
	e.logger.Debug("rows marked", "rows", rows)
	e.emit(RowsMarked{Rows: rows})
}

func (e *Engine) onCleared(rows []int, points int) {
	e.score += points
	e.lines += len(rows)
	e.logger.Debug("rows cleared", "rows", rows, "points", points, "score", e.score)
	e.emit(ScoreChanged{Score: e.score})
	e.emit(LinesCleared{Count: len(rows), Total: e.lines})
	if !e.active.lift() {
		e.endGame()
	}
}

func (e *Engine) onSettled(cycles int) {
	if e.gameOver {
		return
	}
	e.combos += cycles - 1
	if e.pendingSpawn {
		e.pendingSpawn = false
		e.spawnFromQueue(true)
	}
}

func (e *Engine) endGame() {
	if e.gameOver {
		return
	}
	e.gameOver = true
	e.active.piece = nil
	e.hold.disarm()
	e.pendingSpawn = false
	e.clearer.Cancel()
	e.sched.CancelAll()
	e.logger.Debug("game over", "score", e.score, "lines", e.lines)
	e.emit(GameOver{Score: e.score, Lines: e.lines})
}
