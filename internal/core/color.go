package core

// Color is the foreground color of a screen cell.
// The platform maps each value to an ANSI 256-color code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorGray
	ColorDim // Grid dots and ghost outlines
)
