package terminal

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

// memBackend is an in-memory terminal device
type memBackend struct {
	mu     sync.Mutex
	out    bytes.Buffer
	width  int
	height int
	input  chan []byte
}

func newMemBackend(w, h int) *memBackend {
	return &memBackend{width: w, height: h, input: make(chan []byte, 16)}
}

func (b *memBackend) Init() error      { return nil }
func (b *memBackend) Fini()            {}
func (b *memBackend) Size() (int, int) { return b.width, b.height }

func (b *memBackend) Write(p []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.out.Write(p)
	return nil
}

func (b *memBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case <-stopCh:
		return nil, nil
	case data := <-b.input:
		return data, nil
	}
}

func (b *memBackend) SetResizeHandler(func(width, height int)) {}

func (b *memBackend) take() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.out.String()
	b.out.Reset()
	return s
}

func TestFlushEmitsOnlyChangedCells(t *testing.T) {
	var buf bytes.Buffer
	o := newOutputBuffer(&buf, ColorMode16)

	cells := make([]Cell, 4*2)
	for i := range cells {
		cells[i] = Cell{Rune: 'x', Attr: Pack(15, 0)}
	}
	o.flush(cells, 4, 4, 2)
	first := buf.String()
	if strings.Count(first, "x") != 8 {
		t.Fatalf("Expected 8 cells on first flush, got %q", first)
	}

	buf.Reset()
	o.flush(cells, 4, 4, 2)
	if strings.Contains(buf.String(), "x") {
		t.Errorf("Expected no cell output for unchanged frame, got %q", buf.String())
	}

	buf.Reset()
	cells[5] = Cell{Rune: 'y', Attr: Pack(15, 0)}
	o.flush(cells, 4, 4, 2)
	out := buf.String()
	if !strings.Contains(out, "\x1b[2;2H") {
		t.Errorf("Expected cursor move to row 2 col 2, got %q", out)
	}
	if strings.Count(out, "y") != 1 || strings.Contains(out, "x") {
		t.Errorf("Expected only the changed cell, got %q", out)
	}
}

func TestFlushColorModes(t *testing.T) {
	// Console dark red (4) is ANSI red (1), console blue (9) is ANSI bright blue (12)
	cell := []Cell{{Rune: 'a', Attr: Pack(4, 9)}}

	tests := []struct {
		mode ColorMode
		want string
	}{
		{ColorMode16, "\x1b[31;104m"},
		{ColorMode256, "\x1b[38;5;1;48;5;12m"},
		{ColorModeTrueColor, "\x1b[38;2;170;0;0;48;2;85;85;255m"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			var buf bytes.Buffer
			o := newOutputBuffer(&buf, tt.mode)
			o.flush(cell, 1, 1, 1)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Expected %q in %q", tt.want, buf.String())
			}
		})
	}
}

func TestFlushReplacesWideRunes(t *testing.T) {
	var buf bytes.Buffer
	o := newOutputBuffer(&buf, ColorMode16)
	cells := []Cell{{Rune: '漢', Attr: Pack(7, 0)}, {Rune: 0, Attr: Pack(7, 0)}, {Rune: '█', Attr: Pack(7, 0)}}
	o.flush(cells, 3, 3, 1)
	out := buf.String()
	if strings.ContainsRune(out, '漢') {
		t.Errorf("Expected wide rune to be replaced, got %q", out)
	}
	if !strings.Contains(out, "? █") {
		t.Errorf("Expected fallback, blank and block in order, got %q", out)
	}
}

func TestFlushClipsToView(t *testing.T) {
	var buf bytes.Buffer
	o := newOutputBuffer(&buf, ColorMode16)
	cells := []Cell{
		{Rune: 'a'}, {Rune: 'b'}, {Rune: 'c'},
		{Rune: 'd'}, {Rune: 'e'}, {Rune: 'f'},
	}
	o.flush(cells, 3, 2, 2)
	out := buf.String()
	if strings.ContainsAny(out, "cf") {
		t.Errorf("Expected column 3 to be clipped, got %q", out)
	}
	if !strings.Contains(out, "ab") || !strings.Contains(out, "de") {
		t.Errorf("Expected visible cells, got %q", out)
	}
}

func TestTerminalTitleAndFlush(t *testing.T) {
	b := newMemBackend(10, 5)
	term := newTerminal(b, ColorMode16)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()

	init := b.take()
	for _, seq := range []string{"\x1b[?1049h", "\x1b[?25l", "\x1b[>11u", "\x1b[?u"} {
		if !strings.Contains(init, seq) {
			t.Errorf("Expected %q during init", seq)
		}
	}

	term.SetTitle("demo\x07 - 60 fps")
	if got := b.take(); got != "\x1b]2;demo - 60 fps\x07" {
		t.Errorf("Unexpected title sequence %q", got)
	}

	// Larger than the terminal: clipped rather than dropped
	cells := make([]Cell, 20*8)
	for i := range cells {
		cells[i] = Cell{Rune: 'z', Attr: Pack(2, 0)}
	}
	term.Flush(cells, 20, 8)
	if got := strings.Count(b.take(), "z"); got != 50 {
		t.Errorf("Expected 50 visible cells, got %d", got)
	}
}

func TestTerminalEventsAndReleaseDetection(t *testing.T) {
	b := newMemBackend(10, 5)
	term := newTerminal(b, ColorMode16)
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer term.Fini()

	if term.ReportsRelease() {
		t.Error("Expected no release support before the terminal replies")
	}

	b.input <- []byte("\x1b[?11uq")
	ev := term.PollEvent()
	if ev.Key != KeyRune || ev.Rune != 'q' {
		t.Errorf("Expected 'q', got %+v", ev)
	}
	if !term.ReportsRelease() {
		t.Error("Expected release support after flags reply")
	}

	if _, ok := term.TryPollEvent(); ok {
		t.Error("Expected no pending events")
	}

	term.PostEvent(Event{Type: EventClosed})
	if ev, ok := term.TryPollEvent(); !ok || ev.Type != EventClosed {
		t.Errorf("Expected posted event, got %+v %v", ev, ok)
	}
}
