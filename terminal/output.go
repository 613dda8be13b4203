package terminal

import (
	"bufio"
	"io"

	"github.com/mattn/go-runewidth"
)

// fallbackRune replaces glyphs that do not occupy exactly one column
const fallbackRune = '?'

// narrow measures ambiguous-width runes (shade and block glyphs) as one column regardless of locale
var narrow = &runewidth.Condition{EastAsianWidth: false}

// outputBuffer manages double-buffered terminal output with diffing
type outputBuffer struct {
	front     []Cell
	width     int
	height    int
	colorMode ColorMode
	writer    *bufio.Writer

	cursorX     int
	cursorY     int
	cursorValid bool

	// Style state for coalescing
	lastAttr  Attr
	lastValid bool

	// frontValid marks front cells known to mirror the screen
	frontValid []bool
}

// newOutputBuffer creates a new output buffer
func newOutputBuffer(w io.Writer, colorMode ColorMode) *outputBuffer {
	return &outputBuffer{
		writer:    bufio.NewWriterSize(w, 65536),
		colorMode: colorMode,
	}
}

// resize updates buffer dimensions and invalidates the front buffer
func (o *outputBuffer) resize(width, height int) {
	size := width * height
	if cap(o.front) < size {
		o.front = make([]Cell, size)
		o.frontValid = make([]bool, size)
	} else {
		o.front = o.front[:size]
		o.frontValid = o.frontValid[:size]
	}
	o.width = width
	o.height = height
	o.forceFullRedraw()
}

// cellEqual compares a new cell with the front buffer, blank cells only compare background
func cellEqual(a, b Cell) bool {
	if displayRune(a.Rune) != displayRune(b.Rune) {
		return false
	}
	if displayRune(a.Rune) == ' ' {
		return a.Attr.Bg() == b.Attr.Bg()
	}
	return a.Attr == b.Attr
}

// displayRune maps a cell rune to what is written to the terminal
func displayRune(r rune) rune {
	if r == 0 {
		return ' '
	}
	if r < 0x80 {
		if r < 0x20 || r == 0x7f {
			return fallbackRune
		}
		return r
	}
	if narrow.RuneWidth(r) != 1 {
		return fallbackRune
	}
	return r
}

// flush writes a width x height view of cells (row stride in cells) to terminal, diffing against front buffer
func (o *outputBuffer) flush(cells []Cell, stride, width, height int) {
	if width != o.width || height != o.height {
		o.resize(width, height)
	}

	if height > 0 && len(cells) < (height-1)*stride+width {
		return
	}

	w := o.writer

	for y := 0; y < height; y++ {
		rowStart := y * stride
		frontStart := y * width
		x := 0

		for x < width {
			if o.frontValid[frontStart+x] && cellEqual(cells[rowStart+x], o.front[frontStart+x]) {
				x++
				continue
			}

			// Position cursor once for this dirty region
			if !o.cursorValid || x != o.cursorX || y != o.cursorY {
				if o.cursorValid && y == o.cursorY && x > o.cursorX {
					writeCursorForward(w, x-o.cursorX)
				} else {
					writeCursorPos(w, x, y)
				}
				o.cursorX = x
				o.cursorY = y
				o.cursorValid = true
			}

			// Write all contiguous dirty cells, emitting style only when changed
			for x < width {
				c := cells[rowStart+x]
				fidx := frontStart + x
				if o.frontValid[fidx] && cellEqual(c, o.front[fidx]) {
					break
				}

				o.writeStyle(w, c.Attr)

				r := displayRune(c.Rune)
				if r < 0x80 {
					w.WriteByte(byte(r))
				} else {
					w.WriteRune(r)
				}

				o.front[fidx] = c
				o.frontValid[fidx] = true
				o.cursorX++
				x++
			}
		}
	}

	w.Write(csiSGR0)
	o.lastValid = false

	w.Flush()
}

// writeStyle emits a single combined SGR sequence when the attribute changes
func (o *outputBuffer) writeStyle(w *bufio.Writer, attr Attr) {
	if o.lastValid && attr == o.lastAttr {
		return
	}

	fgChanged := !o.lastValid || attr.Fg() != o.lastAttr.Fg()
	bgChanged := !o.lastValid || attr.Bg() != o.lastAttr.Bg()

	w.Write(csi)
	if fgChanged {
		o.writeFg(w, attr.Fg())
	}
	if bgChanged {
		if fgChanged {
			w.WriteByte(';')
		}
		o.writeBg(w, attr.Bg())
	}
	w.WriteByte('m')

	o.lastAttr = attr
	o.lastValid = true
}

// writeFg writes fg color parameters (no CSI prefix, no 'm' suffix)
func (o *outputBuffer) writeFg(w *bufio.Writer, c Color) {
	switch o.colorMode {
	case ColorModeTrueColor:
		rgb := RGBOf(c)
		w.WriteString("38;2;")
		writeRGB(w, rgb)
	case ColorMode256:
		w.WriteString("38;5;")
		writeInt(w, int(ANSIIndex(c)))
	default:
		idx := int(ANSIIndex(c))
		if idx < 8 {
			writeInt(w, 30+idx)
		} else {
			writeInt(w, 90+idx-8)
		}
	}
}

// writeBg writes bg color parameters (no CSI prefix, no 'm' suffix)
func (o *outputBuffer) writeBg(w *bufio.Writer, c Color) {
	switch o.colorMode {
	case ColorModeTrueColor:
		rgb := RGBOf(c)
		w.WriteString("48;2;")
		writeRGB(w, rgb)
	case ColorMode256:
		w.WriteString("48;5;")
		writeInt(w, int(ANSIIndex(c)))
	default:
		idx := int(ANSIIndex(c))
		if idx < 8 {
			writeInt(w, 40+idx)
		} else {
			writeInt(w, 100+idx-8)
		}
	}
}

func writeRGB(w *bufio.Writer, c RGB) {
	writeInt(w, int(c.R))
	w.WriteByte(';')
	writeInt(w, int(c.G))
	w.WriteByte(';')
	writeInt(w, int(c.B))
}

// forceFullRedraw invalidates the front buffer so the next flush rewrites every cell
func (o *outputBuffer) forceFullRedraw() {
	for i := range o.frontValid {
		o.frontValid[i] = false
	}
	o.lastValid = false
	o.cursorValid = false
}

// clear writes a clear screen with specified background
func (o *outputBuffer) clear(bg Color) {
	w := o.writer
	w.Write(csiSGR0)
	w.Write(csi)
	o.writeBg(w, bg)
	w.WriteByte('m')
	w.Write(csiClear)

	o.lastValid = false
	o.cursorValid = false
	w.Flush()

	blank := Cell{Rune: ' ', Attr: Pack(0, bg)}
	for i := range o.front {
		o.front[i] = blank
		o.frontValid[i] = true
	}
}

// writeTitle emits the window title through the buffered writer
func (o *outputBuffer) writeTitle(title string) {
	writeTitle(o.writer, title)
	o.writer.Flush()
}
