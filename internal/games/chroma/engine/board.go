package engine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/kamstrup/intmap"
)

// Default board dimensions.
const (
	DefaultWidth  = 10
	DefaultHeight = 20
)

// Pos is a board coordinate. Y grows downward; row 0 is the top.
type Pos struct {
	X, Y int
}

// P is shorthand for constructing a Pos.
func P(x, y int) Pos {
	return Pos{X: x, Y: y}
}

// Block is a single settled cell.
type Block struct {
	Pos
	Color Color
}

// Board holds the settled blocks. Occupancy is indexed by y*W+x.
type Board struct {
	w, h  int
	cells *intmap.Map[int, Color]
}

// NewBoard creates an empty board of the given size.
func NewBoard(w, h int) *Board {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("engine: invalid board size %dx%d", w, h))
	}
	return &Board{
		w:     w,
		h:     h,
		cells: intmap.New[int, Color](w * h),
	}
}

// Width returns the board width.
func (b *Board) Width() int { return b.w }

// Height returns the board height.
func (b *Board) Height() int { return b.h }

// InBounds returns true if the coordinate lies on the board.
func (b *Board) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < b.w && p.Y >= 0 && p.Y < b.h
}

func (b *Board) key(p Pos) int {
	return p.Y*b.w + p.X
}

func (b *Board) pos(k int) Pos {
	return Pos{X: k % b.w, Y: k / b.w}
}

// IsOccupied reports whether a settled block exists at (x, y).
func (b *Board) IsOccupied(x, y int) bool {
	if !b.InBounds(P(x, y)) {
		return false
	}
	_, ok := b.cells.Get(b.key(P(x, y)))
	return ok
}

// Color returns the color at (x, y), or ColorEmpty.
func (b *Board) Color(x, y int) Color {
	if !b.InBounds(P(x, y)) {
		return ColorEmpty
	}
	c, _ := b.cells.Get(b.key(P(x, y)))
	return c
}

// Len returns the number of settled blocks.
func (b *Board) Len() int {
	return b.cells.Len()
}

// CanPlace reports whether matrix m fits with its origin at (ox, oy).
// Cells above the visible top are exempt from the occupancy check.
func (b *Board) CanPlace(m Matrix, ox, oy int) bool {
	for dy, row := range m {
		for dx, c := range row {
			if c == ColorEmpty {
				continue
			}
			x, y := ox+dx, oy+dy
			if x < 0 || x >= b.w || y >= b.h {
				return false
			}
			if y >= 0 && b.IsOccupied(x, y) {
				return false
			}
		}
	}
	return true
}

// Set places a single block. It panics on out-of-range coordinates,
// empty colors or an already occupied cell.
func (b *Board) Set(p Pos, c Color) {
	if !b.InBounds(p) {
		panic(fmt.Sprintf("engine: block %v out of bounds %dx%d", p, b.w, b.h))
	}
	if c == ColorEmpty {
		panic(fmt.Sprintf("engine: empty color for block %v", p))
	}
	k := b.key(p)
	if _, ok := b.cells.Get(k); ok {
		panic(fmt.Sprintf("engine: duplicate block at %v", p))
	}
	b.cells.Put(k, c)
}

// Lock writes one block per occupied matrix cell at absolute coordinates
// and returns the blocks it created. The caller must have checked CanPlace;
// cells above the top row violate the bounds invariant and panic.
func (b *Board) Lock(m Matrix, ox, oy int) []Block {
	var locked []Block
	for dy, row := range m {
		for dx, c := range row {
			if c == ColorEmpty {
				continue
			}
			p := P(ox+dx, oy+dy)
			b.Set(p, c)
			locked = append(locked, Block{Pos: p, Color: c})
		}
	}
	sortBlocks(locked)
	return locked
}

// RemoveRows deletes every block on the given rows, then moves each
// surviving block down by the number of removed rows strictly below it.
// Returns the number of blocks removed.
func (b *Board) RemoveRows(rows []int) int {
	if len(rows) == 0 {
		return 0
	}
	cleared := make(map[int]bool, len(rows))
	for _, y := range rows {
		cleared[y] = true
	}

	survivors := make([]Block, 0, b.cells.Len())
	removed := 0
	b.cells.ForEach(func(k int, c Color) bool {
		p := b.pos(k)
		if cleared[p.Y] {
			removed++
			return true
		}
		survivors = append(survivors, Block{Pos: p, Color: c})
		return true
	})

	b.cells.Clear()
	for _, blk := range survivors {
		below := 0
		for y := range cleared {
			if y > blk.Y {
				below++
			}
		}
		blk.Y += below
		b.Set(blk.Pos, blk.Color)
	}
	return removed
}

// SwapColors exchanges the colors of two settled blocks.
// Returns false if either position is empty.
func (b *Board) SwapColors(a, c Pos) bool {
	if !b.InBounds(a) || !b.InBounds(c) || a == c {
		return false
	}
	ca, okA := b.cells.Get(b.key(a))
	cc, okC := b.cells.Get(b.key(c))
	if !okA || !okC {
		return false
	}
	b.cells.Put(b.key(a), cc)
	b.cells.Put(b.key(c), ca)
	return true
}

// Relocate moves the block at from into the empty cell to.
func (b *Board) Relocate(from, to Pos) bool {
	if !b.InBounds(from) || !b.InBounds(to) || b.IsOccupied(to.X, to.Y) {
		return false
	}
	c, ok := b.cells.Get(b.key(from))
	if !ok {
		return false
	}
	b.cells.Del(b.key(from))
	b.cells.Put(b.key(to), c)
	return true
}

// Recolor changes the color of an existing block.
func (b *Board) Recolor(p Pos, c Color) bool {
	if !b.InBounds(p) || c == ColorEmpty {
		return false
	}
	k := b.key(p)
	if _, ok := b.cells.Get(k); !ok {
		return false
	}
	b.cells.Put(k, c)
	return true
}

// RowCount returns the number of blocks on row y.
func (b *Board) RowCount(y int) int {
	n := 0
	for x := range b.w {
		if b.IsOccupied(x, y) {
			n++
		}
	}
	return n
}

// UniformRow reports whether row y is fully occupied by a single color.
func (b *Board) UniformRow(y int) bool {
	first := b.Color(0, y)
	if first == ColorEmpty {
		return false
	}
	for x := 1; x < b.w; x++ {
		if b.Color(x, y) != first {
			return false
		}
	}
	return true
}

// Blocks returns all settled blocks ordered bottom rows first,
// then left to right.
func (b *Board) Blocks() []Block {
	out := make([]Block, 0, b.cells.Len())
	b.cells.ForEach(func(k int, c Color) bool {
		out = append(out, Block{Pos: b.pos(k), Color: c})
		return true
	})
	sortBlocks(out)
	return out
}

// Grid returns a dense [y][x] copy of the board.
func (b *Board) Grid() [][]Color {
	g := make([][]Color, b.h)
	for y := range g {
		g[y] = make([]Color, b.w)
	}
	b.cells.ForEach(func(k int, c Color) bool {
		p := b.pos(k)
		g[p.Y][p.X] = c
		return true
	})
	return g
}

// Clear removes every block.
func (b *Board) Clear() {
	b.cells.Clear()
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	out := NewBoard(b.w, b.h)
	b.cells.ForEach(func(k int, c Color) bool {
		out.cells.Put(k, c)
		return true
	})
	return out
}

func sortBlocks(blocks []Block) {
	slices.SortFunc(blocks, func(a, c Block) int {
		if a.Y != c.Y {
			return cmp.Compare(c.Y, a.Y)
		}
		return cmp.Compare(a.X, c.X)
	})
}
