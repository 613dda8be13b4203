package terminal

import (
	"bufio"
)

// Pre-allocated ANSI sequence fragments (avoid allocations during render)
var (
	csi      = []byte("\x1b[")
	csiClear = []byte("\x1b[2J\x1b[H")
	csiRIS   = []byte("\x1bc") // Reset to Initial State (emergency)
	csiSGR0  = []byte("\x1b[0m")

	// Cursor control
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	// Screen modes
	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
	// DECAWM: ?7l keeps the cursor at the right edge so the bottom-right cell never scrolls
	csiAutoWrapOn  = []byte("\x1b[?7h")
	csiAutoWrapOff = []byte("\x1b[?7l")

	// Mouse reporting (SGR encoding, 1000 click, 1002 drag, 1003 any motion)
	csiMouseClickOn   = []byte("\x1b[?1000h")
	csiMouseClickOff  = []byte("\x1b[?1000l")
	csiMouseDragOn    = []byte("\x1b[?1002h")
	csiMouseDragOff   = []byte("\x1b[?1002l")
	csiMouseMotionOn  = []byte("\x1b[?1003h")
	csiMouseMotionOff = []byte("\x1b[?1003l")
	csiMouseSGROn     = []byte("\x1b[?1006h")
	csiMouseSGROff    = []byte("\x1b[?1006l")

	// Kitty keyboard protocol: push flags 1|2|8 (disambiguate, event types, all keys as escapes), query, pop
	csiKittyPush  = []byte("\x1b[>11u")
	csiKittyQuery = []byte("\x1b[?u")
	csiKittyPop   = []byte("\x1b[<u")

	// OSC 2 sets the window title, terminated by BEL
	oscTitle    = []byte("\x1b]2;")
	oscTitleEnd = []byte("\x07")
)

// writeInt writes an integer without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	w.Write(buf[i:])
}

// writeCursorPos writes cursor positioning sequence (0-indexed input)
func writeCursorPos(w *bufio.Writer, x, y int) {
	w.Write(csi)
	writeInt(w, y+1)
	w.WriteByte(';')
	writeInt(w, x+1)
	w.WriteByte('H')
}

// writeCursorForward writes cursor forward N positions
func writeCursorForward(w *bufio.Writer, n int) {
	if n <= 0 {
		return
	}
	w.Write(csi)
	if n > 1 {
		writeInt(w, n)
	}
	w.WriteByte('C')
}

// writeTitle writes an OSC title sequence, control bytes in the title are dropped
func writeTitle(w *bufio.Writer, title string) {
	w.Write(oscTitle)
	for _, r := range title {
		if r < 0x20 || r == 0x7f {
			continue
		}
		w.WriteRune(r)
	}
	w.Write(oscTitleEnd)
}
