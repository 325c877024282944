// Package style provides the styling vocabulary of the display
// pipeline: colors, attribute flags, styled runs and chunks, and the
// style sources attached to decoration blocks.
package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a color value. It supports true color (RGB), terminal
// palette indices, and the terminal's default color.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R holds the palette index (0-255) and G and
	// B are ignored.
	Indexed bool
	// Default marks the terminal's default color.
	Default bool
}

// ColorDefault is the terminal's default color.
var ColorDefault = Color{Default: true}

// Common colors.
var (
	ColorBlack   = Color{}
	ColorWhite   = Color{R: 255, G: 255, B: 255}
	ColorRed     = Color{R: 255}
	ColorGreen   = Color{G: 255}
	ColorBlue    = Color{B: 255}
	ColorYellow  = Color{R: 255, G: 255}
	ColorCyan    = Color{G: 255, B: 255}
	ColorMagenta = Color{R: 255, B: 255}
	ColorGray    = Color{R: 128, G: 128, B: 128}
)

// RGB creates a true color from components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Indexed creates a palette color.
func Indexed(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ParseHex creates a color from a "#rgb" or "#rrggbb" hex string.
func ParseHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")

	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return Color{}, fmt.Errorf("invalid hex color length: %q", hex)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// IsDefault returns true for the terminal's default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// String returns a readable representation of the color.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	if c.Indexed {
		return fmt.Sprintf("idx(%d)", c.R)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
