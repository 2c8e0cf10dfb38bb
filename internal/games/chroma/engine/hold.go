package engine

// HoldBuffer is the single-slot store for a set-aside piece.
type HoldBuffer struct {
	held    *ColoredShape
	canHold bool
}

// Held returns the stored shape, if any.
func (h *HoldBuffer) Held() (ColoredShape, bool) {
	if h.held == nil {
		return ColoredShape{}, false
	}
	return h.held.Clone(), true
}

// CanHold reports whether a swap is allowed for the current piece.
func (h *HoldBuffer) CanHold() bool {
	return h.canHold
}

func (h *HoldBuffer) exchange(cs ColoredShape) (ColoredShape, bool) {
	prev := h.held
	stored := cs.Clone()
	h.held = &stored
	h.canHold = false
	if prev == nil {
		return ColoredShape{}, false
	}
	return *prev, true
}

func (h *HoldBuffer) arm() {
	h.canHold = true
}

func (h *HoldBuffer) disarm() {
	h.canHold = false
}

func (h *HoldBuffer) reset() {
	h.held = nil
	h.canHold = false
}

// HoldSwap moves the active piece into the hold slot. With an empty slot
// the next queued shape spawns; otherwise the held shape re-enters at the
// spawn origin. Only one swap is allowed per locked piece. It reports
// false when the incoming shape cannot spawn and the game ends.
func (e *Engine) HoldSwap() bool {
	if e.gameOver || e.clearer.Busy() || !e.active.present() || !e.hold.CanHold() {
		return false
	}
	current := e.active.piece.Shape()
	e.active.piece = nil

	prev, had := e.hold.exchange(current)
	e.logger.Debug("hold swap", "stored", current.Kind, "restored", had)
	e.emit(PieceHeld{Kind: current.Kind})

	if !had {
		return e.spawnFromQueue(false)
	}
	if !e.active.spawn(prev) {
		e.endGame()
		return false
	}
	e.emit(PieceSpawned{Kind: prev.Kind})
	return true
}
