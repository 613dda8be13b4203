package terminal

import (
	"fmt"
	"os"
	"strings"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode16        ColorMode = iota // SGR 30-37/90-97 base palette
	ColorMode256                        // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

// String returns the config name of the mode
func (m ColorMode) String() string {
	switch m {
	case ColorMode16:
		return "16"
	case ColorMode256:
		return "256"
	case ColorModeTrueColor:
		return "truecolor"
	default:
		return "unknown"
	}
}

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// Palette holds the RGB value of each console color (VGA text mode levels)
var Palette = [16]RGB{
	{0x00, 0x00, 0x00}, // Black
	{0x00, 0x00, 0xAA}, // Dark blue
	{0x00, 0xAA, 0x00}, // Dark green
	{0x00, 0xAA, 0xAA}, // Dark cyan
	{0xAA, 0x00, 0x00}, // Dark red
	{0xAA, 0x00, 0xAA}, // Dark magenta
	{0xAA, 0x55, 0x00}, // Dark yellow
	{0xAA, 0xAA, 0xAA}, // Grey
	{0x55, 0x55, 0x55}, // Dark grey
	{0x55, 0x55, 0xFF}, // Blue
	{0x55, 0xFF, 0x55}, // Green
	{0x55, 0xFF, 0xFF}, // Cyan
	{0xFF, 0x55, 0x55}, // Red
	{0xFF, 0x55, 0xFF}, // Magenta
	{0xFF, 0xFF, 0x55}, // Yellow
	{0xFF, 0xFF, 0xFF}, // White
}

// ansiIndex maps console palette order (blue=1, red=4) to ANSI order (red=1, blue=4)
var ansiIndex = [16]uint8{0, 4, 2, 6, 1, 5, 3, 7, 8, 12, 10, 14, 9, 13, 11, 15}

// ANSIIndex returns the ANSI/xterm palette index for a console color
func ANSIIndex(c Color) uint8 {
	return ansiIndex[c&0x0F]
}

// RGBOf returns the palette RGB value for a console color
func RGBOf(c Color) RGB {
	return Palette[c&0x0F]
}

// ParseColorMode resolves a config name, "auto" and "" fall back to detection
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DetectColorMode(), nil
	case "16", "ansi":
		return ColorMode16, nil
	case "256":
		return ColorMode256, nil
	case "truecolor", "true", "24bit":
		return ColorModeTrueColor, nil
	}
	return ColorMode16, fmt.Errorf("unknown color mode %q", s)
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}

	if os.Getenv("KITTY_WINDOW_ID") != "" ||
		os.Getenv("KONSOLE_VERSION") != "" ||
		os.Getenv("ITERM_SESSION_ID") != "" ||
		os.Getenv("ALACRITTY_WINDOW_ID") != "" ||
		os.Getenv("WEZTERM_PANE") != "" {
		return ColorModeTrueColor
	}

	term := strings.ToLower(os.Getenv("TERM"))
	switch {
	case strings.Contains(term, "truecolor"),
		strings.Contains(term, "24bit"),
		strings.Contains(term, "direct"):
		return ColorModeTrueColor
	case strings.Contains(term, "256"):
		return ColorMode256
	}

	// The console palette only needs the base 16 colors
	return ColorMode16
}
