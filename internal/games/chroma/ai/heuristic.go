package ai

import "github.com/vovakirdan/chroma-arcade/internal/games/chroma/engine"

// Weights scale the board features into a single score.
type Weights struct {
	Hole        float64 // Penalty per empty cell under a filled one
	Blockade    float64 // Penalty per filled cell directly above an empty one
	UniformRow  float64 // Reward for a full single-color row
	UniformCell float64 // Reward per cell of a partial single-color row
	Height      float64 // Reward per row between the stack top and the floor
}

// DefaultWeights returns the standard heuristic weights.
func DefaultWeights() Weights {
	return Weights{
		Hole:        50,
		Blockade:    25,
		UniformRow:  1000,
		UniformCell: 100,
		Height:      10,
	}
}

// Features are the raw board measurements the heuristic combines.
type Features struct {
	Holes        int
	Blockades    int
	UniformRows  int // Full rows of one color
	UniformCells int // Cells in partial rows of one color
	Top          int // Topmost filled row, or the board height if empty
}

// Analyze measures a dense [y][x] grid.
func Analyze(grid [][]engine.Color) Features {
	h := len(grid)
	if h == 0 {
		return Features{}
	}
	w := len(grid[0])
	f := Features{Top: h}

	for x := range w {
		filled := false
		for y := range h {
			if grid[y][x] != engine.ColorEmpty {
				filled = true
				f.Top = min(f.Top, y)
			} else if filled {
				f.Holes++
			}
		}
	}

	for y := range h {
		count := 0
		uniform := true
		first := engine.ColorEmpty
		for x := range w {
			c := grid[y][x]
			if c == engine.ColorEmpty {
				continue
			}
			if y+1 < h && grid[y+1][x] == engine.ColorEmpty {
				f.Blockades++
			}
			if count == 0 {
				first = c
			} else if c != first {
				uniform = false
			}
			count++
		}
		switch {
		case count == 0 || !uniform:
		case count == w:
			f.UniformRows++
		default:
			f.UniformCells += count
		}
	}
	return f
}

// Score combines the features with the given weights.
func (f Features) Score(w Weights, height int) float64 {
	return -w.Hole*float64(f.Holes) -
		w.Blockade*float64(f.Blockades) +
		w.UniformRow*float64(f.UniformRows) +
		w.UniformCell*float64(f.UniformCells) +
		w.Height*float64(height-f.Top)
}

// Evaluate scores a grid with the default weights.
func Evaluate(grid [][]engine.Color) float64 {
	return Analyze(grid).Score(DefaultWeights(), len(grid))
}

// EvaluateSnapshot scores the settled blocks of a snapshot.
func EvaluateSnapshot(snap engine.Snapshot) float64 {
	return Evaluate(boardFrom(snap).Grid())
}
