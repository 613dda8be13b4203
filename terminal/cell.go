package terminal

// Color is an index into the 16-entry console palette
type Color uint8

// Attr packs a console color pair: foreground in the low nibble, background in the high nibble
type Attr uint8

// Pack builds an attribute from a foreground/background pair, only the low nibble of each is kept
func Pack(fg, bg Color) Attr {
	return Attr(fg&0x0F) | Attr(bg&0x0F)<<4
}

// Fg returns the foreground palette index
func (a Attr) Fg() Color {
	return Color(a & 0x0F)
}

// Bg returns the background palette index
func (a Attr) Bg() Color {
	return Color(a >> 4)
}

// Cell represents a single terminal cell
// Rune 0 renders as a space in the background color
type Cell struct {
	Rune rune
	Attr Attr
}
