package console

import (
	"github.com/lixenwraith/conpix/terminal"
)

// Color is a 4-bit console palette index
type Color = terminal.Color

const (
	Black Color = iota
	DarkBlue
	DarkGreen
	DarkCyan
	DarkRed
	DarkMagenta
	DarkYellow
	Grey
	DarkGrey
	Blue
	Green
	Cyan
	Red
	Magenta
	Yellow
	White
)

// Attr packs a foreground color in the low nibble and a background color in the high nibble
type Attr = terminal.Attr

// Pack combines foreground and background into an Attr
func Pack(fg, bg Color) Attr {
	return terminal.Pack(fg, bg)
}

// Glyph is the character drawn in a cell
type Glyph = rune

// Shade glyphs, by increasing foreground coverage
const (
	GlyphEmpty         Glyph = 0
	GlyphQuarter       Glyph = '░'
	GlyphHalf          Glyph = '▒'
	GlyphThreeQuarters Glyph = '▓'
	GlyphFull          Glyph = '█'
)

// Pixel is one renderable cell: a glyph and a packed color pair
// It aliases terminal.Cell so the framebuffer is blitted without copying
type Pixel = terminal.Cell

// Solid returns a full block in fg on black
func Solid(fg Color) Pixel {
	return Pixel{Rune: GlyphFull, Attr: Pack(fg, Black)}
}

// Shade returns a pixel with an explicit glyph over a color pair
func Shade(fg, bg Color, g Glyph) Pixel {
	return Pixel{Rune: g, Attr: Pack(fg, bg)}
}

// Char returns a pixel showing r
func Char(fg, bg Color, r rune) Pixel {
	return Pixel{Rune: r, Attr: Pack(fg, bg)}
}

var colorNames = [16]string{
	"Black", "DarkBlue", "DarkGreen", "DarkCyan",
	"DarkRed", "DarkMagenta", "DarkYellow", "Grey",
	"DarkGrey", "Blue", "Green", "Cyan",
	"Red", "Magenta", "Yellow", "White",
}

// ColorName returns the palette name of c
func ColorName(c Color) string {
	return colorNames[c&0x0F]
}

// ColorRGB returns the 24-bit value the palette assigns to c
func ColorRGB(c Color) (r, g, b uint8) {
	rgb := terminal.RGBOf(c)
	return rgb.R, rgb.G, rgb.B
}
