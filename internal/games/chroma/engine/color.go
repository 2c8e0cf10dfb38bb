// Package engine implements the Chroma game-state engine: board, shapes,
// active piece, match clearing, hold buffer and the tick scheduler.
// This package is UI-agnostic and deterministic for a given seed.
package engine

import "strings"

// Color is the color of a single cell. The zero value marks an empty cell.
type Color uint8

const (
	ColorEmpty Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorPurple
	ColorMarker // Highlight for rows waiting to be removed
)

// MaxPalette is the number of playable colors available to a palette.
const MaxPalette = 5

// String returns the string representation of a color.
func (c Color) String() string {
	switch c {
	case ColorEmpty:
		return "empty"
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	case ColorPurple:
		return "purple"
	case ColorMarker:
		return "marker"
	default:
		return "unknown"
	}
}

// Char returns a single character representation for ASCII rendering.
func (c Color) Char() rune {
	switch c {
	case ColorEmpty:
		return '.'
	case ColorRed:
		return 'R'
	case ColorGreen:
		return 'G'
	case ColorBlue:
		return 'B'
	case ColorYellow:
		return 'Y'
	case ColorPurple:
		return 'P'
	case ColorMarker:
		return '*'
	default:
		return '?'
	}
}

// Playable reports whether c can appear on a piece or a settled block.
func (c Color) Playable() bool {
	return c >= ColorRed && c <= ColorPurple
}

// ParseColor converts a string to a playable Color.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(s) {
	case "red", "r":
		return ColorRed, true
	case "green", "g":
		return ColorGreen, true
	case "blue", "b":
		return ColorBlue, true
	case "yellow", "y":
		return ColorYellow, true
	case "purple", "p":
		return ColorPurple, true
	default:
		return ColorEmpty, false
	}
}

// Palette returns the first n playable colors, clamped to [1, MaxPalette].
func Palette(n int) []Color {
	n = max(1, min(n, MaxPalette))
	colors := make([]Color, n)
	for i := range colors {
		colors[i] = ColorRed + Color(i)
	}
	return colors
}
