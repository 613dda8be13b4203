package backend

import (
	"fmt"
	"log"
	"time"

	"github.com/lixenwraith/conpix/console"
	"github.com/lixenwraith/conpix/input"
	"github.com/lixenwraith/conpix/terminal"
)

// ANSI presents frames and reads input through a raw terminal
type ANSI struct {
	term   terminal.Terminal
	hold   *input.HoldReleaser
	raw    input.SourceFunc
	closed bool

	mouseX, mouseY int
	err            error
}

// NewANSI initializes term and enables mouse reporting
// holdTimeout applies while the terminal has not confirmed key release reports
func NewANSI(term terminal.Terminal, holdTimeout time.Duration) (*ANSI, error) {
	if err := term.Init(); err != nil {
		return nil, fmt.Errorf("ansi backend: %w", err)
	}
	if err := term.SetMouseMode(terminal.MouseModeAll); err != nil {
		term.Fini()
		return nil, fmt.Errorf("ansi backend: mouse: %w", err)
	}

	b := &ANSI{term: term, mouseX: -1, mouseY: -1}
	b.raw = b.drainTerminal
	b.hold = input.NewHoldReleaser(b.raw, holdTimeout)
	return b, nil
}

// Size returns the terminal size
func (b *ANSI) Size() (int, int) {
	return b.term.Size()
}

// Present flushes the frame, clipped to the terminal
func (b *ANSI) Present(cells []console.Pixel, width, height int) error {
	if b.closed {
		return console.ErrClosed
	}
	b.term.Flush(cells, width, height)
	return nil
}

// SetTitle sets the window title
func (b *ANSI) SetTitle(title string) error {
	if b.closed {
		return console.ErrClosed
	}
	b.term.SetTitle(title)
	return nil
}

// Close restores the terminal
func (b *ANSI) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.term.Fini()
	return nil
}

// Err returns the input failure that ended the event stream, if any
func (b *ANSI) Err() error {
	return b.err
}

// Drain translates pending terminal events
func (b *ANSI) Drain(buf []input.Event) []input.Event {
	if b.term.ReportsRelease() {
		return b.raw(buf)
	}
	return b.hold.Drain(buf)
}

func (b *ANSI) drainTerminal(buf []input.Event) []input.Event {
	releases := b.term.ReportsRelease()
	for {
		ev, ok := b.term.TryPollEvent()
		if !ok {
			return buf
		}
		switch ev.Type {
		case terminal.EventKey:
			buf = b.appendKey(buf, ev, releases)
		case terminal.EventMouse:
			buf = b.appendMouse(buf, ev)
		case terminal.EventResize:
			log.Printf("ansi backend: terminal resized to %dx%d", ev.Width, ev.Height)
		case terminal.EventError, terminal.EventClosed:
			if ev.Err != nil && b.err == nil {
				b.err = ev.Err
				log.Printf("ansi backend: input ended: %v", ev.Err)
			}
		}
	}
}

func (b *ANSI) appendKey(buf []input.Event, ev terminal.Event, releases bool) []input.Event {
	down := ev.Action != terminal.KeyActionRelease

	if pair, ok := modifierKeys[ev.Key]; ok {
		return append(buf,
			input.Event{Kind: input.EventKey, Key: pair[0], Down: down},
			input.Event{Kind: input.EventKey, Key: pair[1], Down: down},
		)
	}

	k, shifted, ok := translateTerminalKey(ev)
	if !ok {
		return buf
	}

	// Modifier keys are reported on their own when releases are
	if !releases && down {
		mods := ev.Modifiers
		if ev.Key >= terminal.KeyCtrlSpace && ev.Key <= terminal.KeyCtrlUnderscore {
			mods |= terminal.ModCtrl
		}
		buf = appendModifiers(buf, mods, shifted)
	}
	return append(buf, input.Event{Kind: input.EventKey, Key: k, Down: down})
}

func (b *ANSI) appendMouse(buf []input.Event, ev terminal.Event) []input.Event {
	if ev.MouseX != b.mouseX || ev.MouseY != b.mouseY {
		b.mouseX, b.mouseY = ev.MouseX, ev.MouseY
		buf = append(buf, input.Event{Kind: input.EventMouseMove, X: ev.MouseX, Y: ev.MouseY})
	}

	switch ev.MouseAction {
	case terminal.MouseActionPress, terminal.MouseActionRelease:
	default:
		return buf
	}

	switch ev.MouseBtn {
	case terminal.MouseBtnWheelUp:
		if ev.MouseAction == terminal.MouseActionPress {
			buf = append(buf, input.Event{Kind: input.EventWheel, Delta: 1})
		}
		return buf
	case terminal.MouseBtnWheelDown:
		if ev.MouseAction == terminal.MouseActionPress {
			buf = append(buf, input.Event{Kind: input.EventWheel, Delta: -1})
		}
		return buf
	}

	if k, ok := mouseButtons[ev.MouseBtn]; ok {
		buf = append(buf, input.Event{
			Kind: input.EventMouseButton,
			Key:  k,
			Down: ev.MouseAction == terminal.MouseActionPress,
		})
	}
	return buf
}
