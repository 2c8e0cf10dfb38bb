package engine

// Event is emitted by the engine to its subscribers.
type Event interface {
	engineEvent()
}

// ScoreChanged is sent whenever the score increases.
type ScoreChanged struct {
	Score int
}

func (ScoreChanged) engineEvent() {}

// LinesCleared is sent after rows are removed.
type LinesCleared struct {
	Count int // Rows removed by this cascade step
	Total int
}

func (LinesCleared) engineEvent() {}

// GameOver is sent once, when a spawn cannot be placed.
type GameOver struct {
	Score int
	Lines int
}

func (GameOver) engineEvent() {}

// RowsMarked is sent when matching rows are highlighted.
type RowsMarked struct {
	Rows []int
}

func (RowsMarked) engineEvent() {}

// PieceLocked is sent when the active piece becomes blocks.
type PieceLocked struct {
	Cells []Block
}

func (PieceLocked) engineEvent() {}

// PieceHeld is sent after a successful hold swap.
type PieceHeld struct {
	Kind Kind
}

func (PieceHeld) engineEvent() {}

// PieceSpawned is sent when a new active piece appears.
type PieceSpawned struct {
	Kind Kind
}

func (PieceSpawned) engineEvent() {}

// Subscriber receives engine events synchronously.
type Subscriber func(Event)
