package terminal

import (
	"io"
	"os"
	"sync"
)

// Terminal provides low-level terminal access
type Terminal interface {
	// Init enters raw mode, alternate screen buffer, hides cursor, enables mouse and key release reports
	Init() error

	// Fini restores terminal state. Safe to call multiple times
	Fini()

	// Size returns current terminal dimensions
	Size() (width, height int)

	// ColorMode returns the color emission mode
	ColorMode() ColorMode

	// Flush writes cell buffer to terminal, clipped to the terminal size
	// Cells are row-major: cells[y*width + x]
	Flush(cells []Cell, width, height int)

	// Clear fills screen with specified background color
	Clear(bg Color)

	// Sync forces full redraw on the next Flush
	Sync()

	// SetTitle sets the window title
	SetTitle(title string)

	// PollEvent blocks until next input event
	PollEvent() Event

	// TryPollEvent returns the next pending event without blocking
	TryPollEvent() (Event, bool)

	// PostEvent injects a synthetic event
	PostEvent(Event)

	// SetMouseMode enables/disables mouse event reporting
	SetMouseMode(mode MouseMode) error

	// ReportsRelease reports whether the terminal has confirmed key release events
	ReportsRelease() bool
}

// termImpl implements Terminal using the Backend interface
type termImpl struct {
	backend Backend

	output      *outputBuffer
	input       *inputReader
	resizeCh    chan Event
	syntheticCh chan Event

	mu          sync.Mutex
	initialized bool
	finalized   bool
	mouseMode   MouseMode
}

// New creates a new Terminal on stdin/stdout, color mode is detected when omitted
func New(colorMode ...ColorMode) Terminal {
	c := DetectColorMode()
	if len(colorMode) > 0 {
		c = colorMode[0]
	}
	return newTerminal(newBackend(), c)
}

func newTerminal(b Backend, c ColorMode) *termImpl {
	return &termImpl{
		backend:     b,
		output:      newOutputBuffer(backendWriter{b}, c),
		syntheticCh: make(chan Event, 16),
		resizeCh:    make(chan Event, 1),
	}
}

// backendWriter adapts Backend.Write to io.Writer for the buffered output
type backendWriter struct {
	b Backend
}

func (w backendWriter) Write(p []byte) (int, error) {
	if err := w.b.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Init enters raw mode and sets up terminal
func (t *termImpl) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	w, h := t.backend.Size()
	t.output.resize(w, h)

	t.input = newInputReader(t.backend)

	t.backend.SetResizeHandler(func(w, h int) {
		offerLatest(t.resizeCh, Event{Type: EventResize, Width: w, Height: h})
	})

	t.writeRaw(csiAltScreenEnter)
	t.writeRaw(csiCursorHide)
	t.writeRaw(csiAutoWrapOff)

	// Ask for release reports; the query reply tells the parser whether they will arrive
	t.writeRaw(csiKittyPush)
	t.writeRaw(csiKittyQuery)

	t.output.clear(0)

	t.input.start()

	t.initialized = true
	return nil
}

// Fini restores terminal state
func (t *termImpl) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	if t.mouseMode != MouseModeNone {
		t.applyMouseMode(MouseModeNone)
	}

	if t.input != nil {
		t.input.stop()
	}

	t.writeRaw(csiKittyPop)
	t.writeRaw(csiCursorShow)
	t.writeRaw(csiAltScreenExit)
	// Re-enable auto-wrap after leaving the alt screen so the main buffer has it
	t.writeRaw(csiAutoWrapOn)
	t.writeRaw(csiSGR0)

	t.backend.Fini()

	t.finalized = true
}

// Size returns current terminal dimensions
func (t *termImpl) Size() (int, int) {
	return t.backend.Size()
}

// ColorMode returns the color emission mode
func (t *termImpl) ColorMode() ColorMode {
	return t.output.colorMode
}

// Flush writes cell buffer to terminal
// Holds lock for entire operation to prevent race with Clear/SetTitle
func (t *termImpl) Flush(cells []Cell, width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	viewW, viewH := t.backend.Size()
	viewW = min(viewW, width)
	viewH = min(viewH, height)
	if viewW <= 0 || viewH <= 0 {
		return
	}

	t.output.flush(cells, width, viewW, viewH)
}

// Clear fills screen with background color
func (t *termImpl) Clear(bg Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.output.clear(bg)
}

// Sync forces full redraw
func (t *termImpl) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	// Diff-based rendering assumes the physical terminal matches the front buffer
	t.output.clear(0)
	t.output.forceFullRedraw()
}

// SetTitle sets the window title through OSC 2
func (t *termImpl) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.output.writeTitle(title)
}

// PollEvent blocks until next input event
func (t *termImpl) PollEvent() Event {
	if ev, ok := t.TryPollEvent(); ok {
		return ev
	}

	select {
	case ev := <-t.syntheticCh:
		return ev
	case ev := <-t.input.events():
		return ev
	case ev := <-t.resizeCh:
		return ev
	}
}

// TryPollEvent returns a pending event without blocking
func (t *termImpl) TryPollEvent() (Event, bool) {
	select {
	case ev := <-t.syntheticCh:
		return ev, true
	default:
	}

	if t.input == nil {
		return Event{}, false
	}

	select {
	case ev := <-t.input.events():
		return ev, true
	case ev := <-t.resizeCh:
		return ev, true
	default:
		return Event{}, false
	}
}

// PostEvent injects a synthetic event
func (t *termImpl) PostEvent(ev Event) {
	select {
	case t.syntheticCh <- ev:
	default:
		// Channel full, drop
	}
}

// ReportsRelease reports whether key release events have been confirmed
func (t *termImpl) ReportsRelease() bool {
	return t.input != nil && t.input.parser.releases.Load()
}

// SetMouseMode enables or disables mouse mode
func (t *termImpl) SetMouseMode(mode MouseMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return nil
	}

	return t.applyMouseMode(mode)
}

// mouseToggles pairs each reporting mode bit with its enable and disable sequences, in enable order
var mouseToggles = []struct {
	bit     MouseMode
	on, off []byte
}{
	{MouseModeClick, csiMouseClickOn, csiMouseClickOff},
	{MouseModeDrag, csiMouseDragOn, csiMouseDragOff},
	{MouseModeMotion, csiMouseMotionOn, csiMouseMotionOff},
}

// applyMouseMode emits only the sequences that differ between the current and the requested mode
// SGR encoding is enabled before the first mode and disabled after the last one
func (t *termImpl) applyMouseMode(mode MouseMode) error {
	prev := t.mouseMode
	t.mouseMode = mode
	w := t.output.writer

	for i := len(mouseToggles) - 1; i >= 0; i-- {
		m := mouseToggles[i]
		if prev&m.bit != 0 && mode&m.bit == 0 {
			w.Write(m.off)
		}
	}
	if prev != MouseModeNone && mode == MouseModeNone {
		w.Write(csiMouseSGROff)
	}
	if prev == MouseModeNone && mode != MouseModeNone {
		w.Write(csiMouseSGROn)
	}
	for _, m := range mouseToggles {
		if prev&m.bit == 0 && mode&m.bit != 0 {
			w.Write(m.on)
		}
	}
	return w.Flush()
}

// offerLatest replaces any undelivered value in a one-slot channel with ev
func offerLatest(ch chan Event, ev Event) {
	for {
		select {
		case ch <- ev:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// writeRaw writes raw bytes to output
func (t *termImpl) writeRaw(data []byte) {
	t.backend.Write(data)
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiMouseMotionOff)
	w.Write(csiMouseDragOff)
	w.Write(csiMouseClickOff)
	w.Write(csiMouseSGROff)
	w.Write(csiKittyPop)

	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
