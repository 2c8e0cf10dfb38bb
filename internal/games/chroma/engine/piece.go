package engine

// Piece is the falling shape with its board origin.
type Piece struct {
	Kind   Kind
	Matrix Matrix
	X, Y   int
}

// Clone returns a deep copy of the piece.
func (p Piece) Clone() Piece {
	p.Matrix = p.Matrix.Clone()
	return p
}

// Shape returns the piece without its position.
func (p Piece) Shape() ColoredShape {
	return ColoredShape{Kind: p.Kind, Matrix: p.Matrix.Clone()}
}

// Cells returns the absolute positions and colors of the occupied cells.
func (p Piece) Cells() []Block {
	cells := make([]Block, 0, 4)
	for dy, row := range p.Matrix {
		for dx, c := range row {
			if c != ColorEmpty {
				cells = append(cells, Block{Pos: P(p.X+dx, p.Y+dy), Color: c})
			}
		}
	}
	return cells
}

// Covers reports whether the piece occupies the absolute cell.
func (p Piece) Covers(pos Pos) bool {
	dx, dy := pos.X-p.X, pos.Y-p.Y
	if dy < 0 || dy >= p.Matrix.Rows() || dx < 0 || dx >= p.Matrix.Cols() {
		return false
	}
	return p.Matrix[dy][dx] != ColorEmpty
}

// SpawnX returns the top-center origin column for a shape of the given width.
func SpawnX(boardWidth, shapeWidth int) int {
	return boardWidth/2 - shapeWidth/2
}

// activePiece moves and rotates the falling piece against the board.
type activePiece struct {
	board *Board
	piece *Piece
}

func (a *activePiece) present() bool {
	return a.piece != nil
}

// spawn places cs at the spawn origin. It returns false and leaves
// the slot empty if the origin is blocked.
func (a *activePiece) spawn(cs ColoredShape) bool {
	p := &Piece{
		Kind:   cs.Kind,
		Matrix: cs.Matrix.Clone(),
		X:      SpawnX(a.board.Width(), cs.Matrix.Cols()),
		Y:      0,
	}
	if !a.board.CanPlace(p.Matrix, p.X, p.Y) {
		a.piece = nil
		return false
	}
	a.piece = p
	return true
}

func (a *activePiece) move(dx, dy int) bool {
	if a.piece == nil || a.piece.Y+dy < 0 {
		return false
	}
	if !a.board.CanPlace(a.piece.Matrix, a.piece.X+dx, a.piece.Y+dy) {
		return false
	}
	a.piece.X += dx
	a.piece.Y += dy
	return true
}

// rotate turns the piece clockwise in place. No wall kicks are tried.
func (a *activePiece) rotate() bool {
	if a.piece == nil {
		return false
	}
	rotated := a.piece.Matrix.Rotate()
	if !a.board.CanPlace(rotated, a.piece.X, a.piece.Y) {
		return false
	}
	a.piece.Matrix = rotated
	return true
}

// landingY returns the row the piece would rest on if dropped now.
func (a *activePiece) landingY() int {
	if a.piece == nil {
		return 0
	}
	y := a.piece.Y
	for a.board.CanPlace(a.piece.Matrix, a.piece.X, y+1) {
		y++
	}
	return y
}

// reshape drags one occupied matrix cell to an empty matrix cell.
// Coordinates are absolute board positions. The destination must touch
// another occupied cell, including diagonally, and the reshaped matrix
// must still be placeable.
func (a *activePiece) reshape(from, to Pos) bool {
	if a.piece == nil || from == to {
		return false
	}
	if !a.piece.Covers(from) {
		return false
	}
	tx, ty := to.X-a.piece.X, to.Y-a.piece.Y
	m := a.piece.Matrix
	if ty < 0 || ty >= m.Rows() || tx < 0 || tx >= m.Cols() || m[ty][tx] != ColorEmpty {
		return false
	}
	fx, fy := from.X-a.piece.X, from.Y-a.piece.Y

	next := m.Clone()
	next[ty][tx] = next[fy][fx]
	next[fy][fx] = ColorEmpty
	if !touchesOther(next, tx, ty) {
		return false
	}
	if !a.board.CanPlace(next, a.piece.X, a.piece.Y) {
		return false
	}
	a.piece.Matrix = next
	return true
}

func touchesOther(m Matrix, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if ny < 0 || ny >= m.Rows() || nx < 0 || nx >= m.Cols() {
				continue
			}
			if m[ny][nx] != ColorEmpty {
				return true
			}
		}
	}
	return false
}

// lift moves the piece up until it no longer overlaps settled blocks.
// It returns false if no free row at or below the top exists.
func (a *activePiece) lift() bool {
	if a.piece == nil {
		return true
	}
	for !a.board.CanPlace(a.piece.Matrix, a.piece.X, a.piece.Y) {
		if a.piece.Y == 0 {
			return false
		}
		a.piece.Y--
	}
	return true
}
