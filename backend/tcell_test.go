package backend

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/conpix/console"
	"github.com/lixenwraith/conpix/input"
)

func newTestTcell(t *testing.T) (*Tcell, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	b, err := NewTcell(screen, TcellOptions{HoldTimeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewTcell failed: %v", err)
	}
	screen.SetSize(10, 4)
	t.Cleanup(func() { b.Close() })
	return b, screen
}

func TestTcellPresentClipsToScreen(t *testing.T) {
	b, screen := newTestTcell(t)

	const w, h = 12, 5
	cells := make([]console.Pixel, w*h)
	for i := range cells {
		cells[i] = console.Solid(console.Red)
	}
	cells[1] = console.Char(console.White, console.Blue, 'x')

	if err := b.Present(cells, w, h); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	contents, sw, _ := screen.GetContents()
	if sw != 10 {
		t.Fatalf("Expected screen width 10, got %d", sw)
	}
	if r := contents[0].Runes; len(r) == 0 || r[0] != console.GlyphFull {
		t.Errorf("Expected full block at 0,0, got %q", r)
	}
	if r := contents[1].Runes; len(r) == 0 || r[0] != 'x' {
		t.Errorf("Expected 'x' at 1,0, got %q", r)
	}
}

func TestTcellPresentRejectsShortFrame(t *testing.T) {
	b, _ := newTestTcell(t)
	if err := b.Present(make([]console.Pixel, 3), 2, 2); err == nil {
		t.Error("Expected error for short frame")
	}
}

func TestTcellKeys(t *testing.T) {
	b, _ := newTestTcell(t)
	clock := time.Unix(0, 0)
	b.hold.SetClock(func() time.Time { return clock })

	b.handle(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))
	b.handle(tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl))
	b.handle(tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModNone))
	b.handle(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone))

	got := b.Drain(nil)
	assertEvents(t, got, []input.Event{
		input.Press(input.KeyA),
		input.Press(input.KeyControl),
		input.Press(input.KeyS),
		input.Press(input.KeyF3),
	})

	clock = clock.Add(time.Second)
	got = b.Drain(nil)
	assertEvents(t, got, []input.Event{
		input.Release(input.KeyControl),
		input.Release(input.KeyA),
		input.Release(input.KeyS),
		input.Release(input.KeyF3),
	})
}

func TestTcellMouse(t *testing.T) {
	b, _ := newTestTcell(t)

	b.handle(tcell.NewEventMouse(2, 3, tcell.ButtonNone, tcell.ModNone))
	b.handle(tcell.NewEventMouse(2, 3, tcell.Button1, tcell.ModNone))
	b.handle(tcell.NewEventMouse(4, 3, tcell.Button1|tcell.Button4, tcell.ModNone))
	b.handle(tcell.NewEventMouse(4, 3, tcell.WheelUp, tcell.ModNone))

	got := b.Drain(nil)
	assertEvents(t, got, []input.Event{
		{Kind: input.EventMouseMove, X: 2, Y: 3},
		{Kind: input.EventMouseButton, Key: input.KeyMouseLeft, Down: true},
		{Kind: input.EventMouseMove, X: 4, Y: 3},
		{Kind: input.EventMouseButton, Key: input.KeyMouseBackward, Down: true},
		{Kind: input.EventWheel, Delta: 1},
		{Kind: input.EventMouseButton, Key: input.KeyMouseLeft},
		{Kind: input.EventMouseButton, Key: input.KeyMouseBackward},
	})
}

func TestTcellClose(t *testing.T) {
	b, _ := newTestTcell(t)
	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Expected second Close to succeed, got %v", err)
	}
	if err := b.SetTitle("x"); err != console.ErrClosed {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}
