package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventMouse
	EventError  // Read error
	EventClosed // Input closed
)

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Action    KeyAction // Press unless the terminal speaks the kitty protocol
	Width     int       // For EventResize
	Height    int       // For EventResize
	Err       error     // For EventError

	// Mouse event fields
	MouseX      int
	MouseY      int
	MouseBtn    MouseButton
	MouseAction MouseAction
}

// inputReader handles raw stdin reading and hands bytes to the parser
type inputReader struct {
	backend Backend
	parser  *parser
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool

	// Persistent buffer for stream assembly, keeps partial sequences across reads
	buf []byte
}

// newInputReader creates a new input reader
func newInputReader(backend Backend) *inputReader {
	r := &inputReader{
		backend: backend,
		eventCh: make(chan Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		buf:     make([]byte, 0, 256),
	}
	r.parser = &parser{emit: r.sendEvent}
	return r
}

// start begins reading input in a goroutine
func (r *inputReader) start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.readLoop()
}

// stop signals the reader to stop
func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	// Don't block forever if read is stuck
	select {
	case <-r.doneCh:
	case <-time.After(100 * time.Millisecond):
	}
}

// events returns the event channel
func (r *inputReader) events() <-chan Event {
	return r.eventCh
}

// readLoop is the main input reading goroutine
func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	defer func() {
		if rec := recover(); rec != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mINPUT READER CRASHED: %v\x1b[0m\r\n", rec)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			r.sendEvent(Event{Type: EventError, Err: err})
			return
		}

		if len(data) == 0 {
			// Poll timeout: a lone ESC that waited this long is the Escape key
			if len(r.buf) == 1 && r.buf[0] == 0x1b {
				r.sendEvent(Event{Type: EventKey, Key: KeyEscape})
				r.buf = r.buf[:0]
			}
			select {
			case <-r.stopCh:
				r.sendEvent(Event{Type: EventClosed})
				return
			default:
				continue
			}
		}

		r.buf = append(r.buf, data...)
		consumed := r.parser.feed(r.buf)

		if consumed > 0 {
			if consumed >= len(r.buf) {
				r.buf = r.buf[:0]
			} else {
				copy(r.buf, r.buf[consumed:])
				r.buf = r.buf[:len(r.buf)-consumed]
			}
		}
	}
}

// sendEvent sends an event to the channel, non-blocking
func (r *inputReader) sendEvent(ev Event) {
	select {
	case r.eventCh <- ev:
	default:
		// Channel full, drop event
	}
}

// parser turns raw terminal bytes into events
type parser struct {
	emit func(Event)

	// releases is set once the terminal proves it reports key releases
	releases atomic.Bool
}

// feed parses as much of data as possible and returns bytes consumed (stops on incomplete sequence)
func (p *parser) feed(data []byte) int {
	i := 0
	n := len(data)

	for i < n {
		b := data[i]

		// Fast path: printable ASCII
		if b >= 0x20 && b < 0x7f {
			p.emit(Event{Type: EventKey, Key: KeyRune, Rune: rune(b)})
			i++
			continue
		}

		if b == 0x1b {
			// Need at least 2 bytes to determine sequence type
			if i+1 >= n {
				return i
			}
			consumed, ev, ok := p.parseEscape(data[i:])
			if consumed == 0 {
				return i
			}
			if ok {
				p.emit(ev)
			}
			i += consumed
			continue
		}

		if b < 0x20 {
			p.emit(controlEvent(b))
			i++
			continue
		}

		if b == 0x7f {
			p.emit(Event{Type: EventKey, Key: KeyBackspace})
			i++
			continue
		}

		// UTF-8 multibyte
		if !utf8.FullRune(data[i:]) {
			return i
		}
		rn, size := utf8.DecodeRune(data[i:])
		if rn != utf8.RuneError || size > 1 {
			p.emit(Event{Type: EventKey, Key: KeyRune, Rune: rn})
		}
		i += size
	}
	return i
}

// parseEscape parses a sequence starting with ESC; consumed 0 means incomplete
func (p *parser) parseEscape(data []byte) (int, Event, bool) {
	switch {
	case data[1] == 0x1b:
		return 2, Event{Type: EventKey, Key: KeyEscape, Modifiers: ModAlt}, true
	case data[1] == '[':
		return p.parseCSI(data)
	case data[1] == 'O':
		if len(data) < 3 {
			return 0, Event{}, false
		}
		if key, ok := letterKeys[data[2]]; ok {
			return 3, Event{Type: EventKey, Key: key}, true
		}
		return 3, Event{}, false
	case data[1] < 0x20:
		ev := controlEvent(data[1])
		ev.Modifiers |= ModAlt
		return 2, ev, true
	case data[1] < 0x7f:
		return 2, Event{Type: EventKey, Key: KeyRune, Rune: rune(data[1]), Modifiers: ModAlt}, true
	case data[1] == 0x7f:
		return 2, Event{Type: EventKey, Key: KeyBackspace, Modifiers: ModAlt}, true
	}
	// ESC followed by a non-ASCII byte: Escape key then reparse the rest
	return 1, Event{Type: EventKey, Key: KeyEscape}, true
}

// csiParams holds up to 4 ';'-separated fields with up to 3 ':'-separated subparameters
type csiParams struct {
	v     [4][3]int
	sub   [4]int
	count int
}

// get returns field i subparameter j, or def when absent
func (c *csiParams) get(i, j, def int) int {
	if i >= c.count || j >= c.sub[i] {
		return def
	}
	return c.v[i][j]
}

// parseCSIParams parses "1;2:3" style parameters, ok=false on unexpected bytes
func parseCSIParams(b []byte) (csiParams, bool) {
	var c csiParams
	if len(b) == 0 {
		return c, true
	}
	c.count = 1
	field, sub := 0, 0
	seen := false
	for _, ch := range b {
		switch {
		case ch >= '0' && ch <= '9':
			if field < len(c.v) && sub < len(c.v[field]) {
				v := c.v[field][sub]*10 + int(ch-'0')
				if v > 1<<20 {
					return c, false
				}
				c.v[field][sub] = v
			}
			seen = true
		case ch == ':':
			if field < len(c.sub) && seen {
				c.sub[field] = sub + 1
			}
			sub++
			seen = false
		case ch == ';':
			if field < len(c.sub) && seen {
				c.sub[field] = sub + 1
			}
			field++
			sub = 0
			seen = false
			if field < len(c.v) {
				c.count = field + 1
			}
		default:
			return c, false
		}
	}
	if field < len(c.sub) && seen {
		c.sub[field] = sub + 1
	}
	return c, true
}

// parseCSI parses ESC [ params final
func (p *parser) parseCSI(data []byte) (int, Event, bool) {
	end := 2
	maxScan := len(data)
	if maxScan > 64 {
		maxScan = 64
	}
	for ; end < maxScan; end++ {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x3f {
			// Malformed: drop the introducer and resync on the offending byte
			return end, Event{}, false
		}
	}
	if end >= maxScan {
		if maxScan == 64 {
			return maxScan, Event{}, false
		}
		return 0, Event{}, false
	}

	final := data[end]
	raw := data[2:end]
	consumed := end + 1

	if len(raw) > 0 && raw[0] == '<' && (final == 'M' || final == 'm') {
		ev, ok := parseSGRMouse(raw[1:], final)
		return consumed, ev, ok
	}

	if len(raw) > 0 && raw[0] == '?' {
		// Kitty flags reply: ESC [ ? flags u
		if final == 'u' {
			if c, ok := parseCSIParams(raw[1:]); ok && c.get(0, 0, 0)&2 != 0 {
				p.releases.Store(true)
			}
		}
		return consumed, Event{}, false
	}

	c, ok := parseCSIParams(raw)
	if !ok {
		return consumed, Event{}, false
	}

	ev := Event{
		Type:      EventKey,
		Modifiers: decodeModifiers(c.get(1, 0, 1)),
		Action:    decodeAction(c.get(1, 1, 1)),
	}
	if ev.Action == KeyActionRelease {
		p.releases.Store(true)
	}

	switch final {
	case 'u':
		code := c.get(0, 0, 0)
		if key, ok := kittyKeys[code]; ok {
			ev.Key = key
		} else if code >= 0x20 && utf8.ValidRune(rune(code)) {
			ev.Key = KeyRune
			ev.Rune = rune(code)
		} else {
			return consumed, Event{}, false
		}
	case '~':
		key, ok := tildeKeys[c.get(0, 0, 0)]
		if !ok {
			return consumed, Event{}, false
		}
		ev.Key = key
	default:
		key, ok := letterKeys[final]
		if !ok {
			return consumed, Event{}, false
		}
		ev.Key = key
		if key == KeyBacktab {
			ev.Modifiers |= ModShift
		}
	}
	return consumed, ev, true
}

// controlEvent maps control characters to keys
func controlEvent(b byte) Event {
	switch b {
	case 0x00:
		return Event{Type: EventKey, Key: KeyCtrlSpace}
	case 0x08:
		return Event{Type: EventKey, Key: KeyBackspace}
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab}
	case 0x0a, 0x0d:
		return Event{Type: EventKey, Key: KeyEnter}
	case 0x1b:
		return Event{Type: EventKey, Key: KeyEscape}
	case 0x1c:
		return Event{Type: EventKey, Key: KeyCtrlBackslash}
	case 0x1d:
		return Event{Type: EventKey, Key: KeyCtrlBracketRight}
	case 0x1e:
		return Event{Type: EventKey, Key: KeyCtrlCaret}
	case 0x1f:
		return Event{Type: EventKey, Key: KeyCtrlUnderscore}
	}
	if b >= 0x01 && b <= 0x1a {
		return Event{Type: EventKey, Key: KeyCtrlA + Key(b-0x01), Modifiers: ModCtrl}
	}
	return Event{Type: EventKey, Key: KeyNone}
}

// parseSGRMouse decodes "Btn;X;Y" with final M (press/motion) or m (release)
func parseSGRMouse(raw []byte, final byte) (Event, bool) {
	c, ok := parseCSIParams(raw)
	if !ok || c.count != 3 {
		return Event{}, false
	}
	btn := c.get(0, 0, 0)
	ev := Event{
		Type:   EventMouse,
		MouseX: c.get(1, 0, 1) - 1, // Convert to 0-indexed
		MouseY: c.get(2, 0, 1) - 1,
	}

	// Bits 0-1: button, bit 5: motion, bit 6: wheel, bit 7: extra buttons (8-11)
	buttonID := btn & 0x03
	isMotion := btn&32 != 0

	switch {
	case btn&64 != 0:
		ev.MouseBtn = [4]MouseButton{MouseBtnWheelUp, MouseBtnWheelDown, MouseBtnWheelLeft, MouseBtnWheelRight}[buttonID]
		ev.MouseAction = MouseActionPress
	default:
		if btn&128 != 0 {
			switch buttonID {
			case 0:
				ev.MouseBtn = MouseBtnBack
			case 1:
				ev.MouseBtn = MouseBtnForward
			}
		} else {
			ev.MouseBtn = [4]MouseButton{MouseBtnLeft, MouseBtnMiddle, MouseBtnRight, MouseBtnNone}[buttonID]
		}

		switch {
		case final == 'm':
			ev.MouseAction = MouseActionRelease
		case isMotion && ev.MouseBtn != MouseBtnNone:
			ev.MouseAction = MouseActionDrag
		case isMotion:
			ev.MouseAction = MouseActionMove
		default:
			ev.MouseAction = MouseActionPress
		}
	}

	if btn&4 != 0 {
		ev.Modifiers |= ModShift
	}
	if btn&8 != 0 {
		ev.Modifiers |= ModAlt
	}
	if btn&16 != 0 {
		ev.Modifiers |= ModCtrl
	}
	return ev, true
}
