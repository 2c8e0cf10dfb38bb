package chroma

import (
	"fmt"

	"github.com/vovakirdan/chroma-arcade/internal/core"
	"github.com/vovakirdan/chroma-arcade/internal/games/chroma/engine"
)

// Each board cell spans two screen columns.
const cellW = 2

// boardOrigin is the top-left corner of the board frame.
var boardOrigin = core.Point{X: 1, Y: 1}

const panelW = 16

const (
	glyphBlock  = '█'
	glyphMarker = '▒'
	glyphGhost  = '░'
	glyphEmpty  = '·'
)

var palette = map[engine.Color]core.Color{
	engine.ColorRed:    core.ColorRed,
	engine.ColorGreen:  core.ColorGreen,
	engine.ColorBlue:   core.ColorBlue,
	engine.ColorYellow: core.ColorYellow,
	engine.ColorPurple: core.ColorMagenta,
	engine.ColorMarker: core.ColorWhite,
}

func screenColor(c engine.Color) core.Color {
	if sc, ok := palette[c]; ok {
		return sc
	}
	return core.ColorDefault
}

// frame returns the board frame rectangle including its border.
func (g *Game) frame() core.Rect {
	return core.NewRect(boardOrigin.X, boardOrigin.Y,
		g.cfg.Board.Width*cellW+2, g.cfg.Board.Height+2)
}

// MinScreen returns the smallest screen the board and side panel fit in.
func (g *Game) MinScreen() (int, int) {
	f := g.frame()
	return f.Right() + 2 + panelW, f.Bottom()
}

// cellAt maps a screen position to a board cell.
func (g *Game) cellAt(p core.Point) (engine.Pos, bool) {
	inner := core.NewRect(boardOrigin.X+1, boardOrigin.Y+1,
		g.cfg.Board.Width*cellW, g.cfg.Board.Height)
	if !inner.Contains(p.X, p.Y) {
		return engine.Pos{}, false
	}
	return engine.P((p.X-inner.X)/cellW, p.Y-inner.Y), true
}

func drawCell(dst *core.Screen, p engine.Pos, r rune, c core.Color) {
	x := boardOrigin.X + 1 + p.X*cellW
	y := boardOrigin.Y + 1 + p.Y
	for i := range cellW {
		dst.SetColor(x+i, y, r, c)
	}
}

// Render draws the board, the falling piece and the side panel.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.eng == nil {
		return
	}

	minW, minH := g.MinScreen()
	if dst.Width() < minW || dst.Height() < minH {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small")
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", minW, minH))
		return
	}

	snap := g.eng.Snapshot()
	g.renderBoard(dst, snap)
	g.renderPanel(dst, snap)
	g.renderOverlay(dst, snap)
}

func (g *Game) renderBoard(dst *core.Screen, snap engine.Snapshot) {
	dst.DrawBox(g.frame(), core.ColorGray)

	for y := range snap.Height {
		for x := range snap.Width {
			drawCell(dst, engine.P(x, y), ' ', core.ColorDefault)
			dst.SetColor(boardOrigin.X+1+x*cellW, boardOrigin.Y+1+y, glyphEmpty, core.ColorDim)
		}
	}

	for _, b := range snap.Blocks {
		r := glyphBlock
		if b.Color == engine.ColorMarker {
			r = glyphMarker
		}
		drawCell(dst, b.Pos, r, screenColor(b.Color))
	}

	if snap.Active == nil {
		return
	}
	if snap.Ghost > snap.Active.Y {
		ghost := *snap.Active
		ghost.Y = snap.Ghost
		for _, c := range ghost.Cells() {
			if c.Y >= 0 {
				drawCell(dst, c.Pos, glyphGhost, core.ColorDim)
			}
		}
	}
	for _, c := range snap.Active.Cells() {
		if c.Y >= 0 {
			drawCell(dst, c.Pos, glyphBlock, screenColor(c.Color))
		}
	}
}

func (g *Game) renderPanel(dst *core.Screen, snap engine.Snapshot) {
	x := g.frame().Right() + 2
	y := boardOrigin.Y

	dst.DrawTextColor(x, y, "CHROMA", core.ColorCyan)
	dst.DrawText(x, y+2, fmt.Sprintf("Score %d", snap.Score))
	dst.DrawText(x, y+3, fmt.Sprintf("Lines %d", snap.LinesCleared))
	dst.DrawText(x, y+4, fmt.Sprintf("Speed %dms", snap.TickInterval.Milliseconds()))

	dst.DrawText(x, y+6, "Next")
	drawShape(dst, x, y+7, snap.Next)

	hold := "Hold"
	if !snap.CanHold {
		hold = "Hold (used)"
	}
	dst.DrawText(x, y+12, hold)
	if snap.Held != nil {
		drawShape(dst, x, y+13, *snap.Held)
	}

	ai := "AI off"
	aiColor := core.ColorDim
	if snap.AIEnabled {
		ai = "AI on"
		aiColor = core.ColorGreen
	}
	dst.DrawTextColor(x, y+18, ai, aiColor)

	if g.flash > 0 && g.lastBig > 0 {
		dst.DrawTextColor(x, y+19, fmt.Sprintf("+%d rows!", g.lastBig), core.ColorYellow)
	}
}

// drawShape draws a preview with its top-left cell at (x, y).
func drawShape(dst *core.Screen, x, y int, cs engine.ColoredShape) {
	for r, row := range cs.Matrix {
		for c, col := range row {
			if col == engine.ColorEmpty {
				continue
			}
			dst.SetColor(x+c*cellW, y+r, glyphBlock, screenColor(col))
			dst.SetColor(x+c*cellW+1, y+r, glyphBlock, screenColor(col))
		}
	}
}

func (g *Game) renderOverlay(dst *core.Screen, snap engine.Snapshot) {
	mid := boardOrigin.Y + 1 + snap.Height/2
	cx := boardOrigin.X + 1 + (snap.Width*cellW)/2
	center := func(y int, text string, c core.Color) {
		dst.DrawTextColor(cx-len([]rune(text))/2, y, text, c)
	}

	switch {
	case snap.GameOver:
		center(mid-1, "GAME OVER", core.ColorRed)
		center(mid+1, fmt.Sprintf("Score %d", snap.Score), core.ColorWhite)
		center(mid+2, "R restart", core.ColorGray)
	case g.paused:
		center(mid, "PAUSED", core.ColorYellow)
	}
}
