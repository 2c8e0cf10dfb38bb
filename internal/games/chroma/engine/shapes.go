package engine

import "math/rand"

// Kind identifies one of the polyomino templates.
type Kind uint8

const (
	KindSquare Kind = iota
	KindLine
	KindT
	KindZ
	KindS
	KindL
	KindJ
	KindCount // Sentinel value for iteration
)

// String returns the template name.
func (k Kind) String() string {
	switch k {
	case KindSquare:
		return "square"
	case KindLine:
		return "line"
	case KindT:
		return "T"
	case KindZ:
		return "Z"
	case KindS:
		return "S"
	case KindL:
		return "L"
	case KindJ:
		return "J"
	default:
		return "unknown"
	}
}

// Template is an immutable occupancy matrix, indexed [row][col].
type Template [][]bool

var catalog = [KindCount]Template{
	KindSquare: {{true, true}, {true, true}},
	KindLine:   {{true, true, true, true}},
	KindT:      {{true, true, true}, {false, true, false}},
	KindZ:      {{true, true, false}, {false, true, true}},
	KindS:      {{false, true, true}, {true, true, false}},
	KindL:      {{true, true, true}, {true, false, false}},
	KindJ:      {{true, true, true}, {false, false, true}},
}

// TemplateFor returns a copy of the template for the given kind.
func TemplateFor(k Kind) Template {
	src := catalog[k%KindCount]
	t := make(Template, len(src))
	for y := range src {
		t[y] = append([]bool(nil), src[y]...)
	}
	return t
}

// Catalog returns copies of every template, indexed by Kind.
func Catalog() []Template {
	out := make([]Template, KindCount)
	for k := range KindCount {
		out[k] = TemplateFor(k)
	}
	return out
}

// Matrix is a colored shape indexed [row][col]; ColorEmpty marks holes.
type Matrix [][]Color

// Rows returns the matrix height.
func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the matrix width.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Clone returns a deep copy of the matrix.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for y := range m {
		out[y] = append([]Color(nil), m[y]...)
	}
	return out
}

// CellCount returns the number of occupied cells.
func (m Matrix) CellCount() int {
	n := 0
	for _, row := range m {
		for _, c := range row {
			if c != ColorEmpty {
				n++
			}
		}
	}
	return n
}

// Rotate returns the 90° clockwise rotation: transpose, then reverse each row.
func (m Matrix) Rotate() Matrix {
	rows, cols := m.Rows(), m.Cols()
	out := make(Matrix, cols)
	for x := range cols {
		out[x] = make([]Color, rows)
		for y := range rows {
			out[x][rows-1-y] = m[y][x]
		}
	}
	return out
}

// RotateN applies Rotate n times (n taken modulo 4).
func (m Matrix) RotateN(n int) Matrix {
	out := m
	for range ((n % 4) + 4) % 4 {
		out = out.Rotate()
	}
	return out
}

// Equal reports whether two matrices have the same dimensions and cells.
func (m Matrix) Equal(o Matrix) bool {
	if m.Rows() != o.Rows() || m.Cols() != o.Cols() {
		return false
	}
	for y := range m {
		for x := range m[y] {
			if m[y][x] != o[y][x] {
				return false
			}
		}
	}
	return true
}

// ColoredShape is a template instance with a color on every occupied cell.
type ColoredShape struct {
	Kind   Kind
	Matrix Matrix
}

// Clone returns a deep copy of the shape.
func (cs ColoredShape) Clone() ColoredShape {
	return ColoredShape{Kind: cs.Kind, Matrix: cs.Matrix.Clone()}
}

// Colorize assigns colors to a template, calling pick once per occupied cell.
func Colorize(k Kind, pick func() Color) ColoredShape {
	t := TemplateFor(k)
	m := make(Matrix, len(t))
	for y := range t {
		m[y] = make([]Color, len(t[y]))
		for x, filled := range t[y] {
			if filled {
				m[y][x] = pick()
			}
		}
	}
	return ColoredShape{Kind: k, Matrix: m}
}

// Generator produces random colored shapes from the catalog.
type Generator struct {
	rng     *rand.Rand
	palette []Color
}

// NewGenerator creates a generator drawing from the given palette.
func NewGenerator(rng *rand.Rand, palette []Color) *Generator {
	if len(palette) == 0 {
		palette = Palette(3)
	}
	return &Generator{rng: rng, palette: palette}
}

// Generate picks a uniformly random template and colors each occupied cell
// independently from the palette.
func (g *Generator) Generate() ColoredShape {
	k := Kind(g.rng.Intn(int(KindCount)))
	return Colorize(k, g.RandomColor)
}

// RandomColor returns a uniformly random palette color.
func (g *Generator) RandomColor() Color {
	return g.palette[g.rng.Intn(len(g.palette))]
}
