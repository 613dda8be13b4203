package backend

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/conpix/console"
	"github.com/lixenwraith/conpix/input"
	"github.com/lixenwraith/conpix/terminal"
)

// tcellKeys maps tcell special keys to virtual keys
// Control letters sharing codes with Tab, Enter, Backspace and Escape resolve to those keys
var tcellKeys = map[tcell.Key]input.Key{
	tcell.KeyEscape:     input.KeyEscape,
	tcell.KeyEnter:      input.KeyEnter,
	tcell.KeyTab:        input.KeyTab,
	tcell.KeyBacktab:    input.KeyTab,
	tcell.KeyBackspace:  input.KeyBackspace,
	tcell.KeyBackspace2: input.KeyBackspace,
	tcell.KeyDelete:     input.KeyDelete,
	tcell.KeyInsert:     input.KeyInsert,
	tcell.KeyUp:         input.KeyUp,
	tcell.KeyDown:       input.KeyDown,
	tcell.KeyLeft:       input.KeyLeft,
	tcell.KeyRight:      input.KeyRight,
	tcell.KeyHome:       input.KeyHome,
	tcell.KeyEnd:        input.KeyEnd,
	tcell.KeyPgUp:       input.KeyPageUp,
	tcell.KeyPgDn:       input.KeyPageDown,
	tcell.KeyPause:      input.KeyPause,
	tcell.KeyPrint:      input.KeyPrintScreen,
	tcell.KeyCtrlSpace:  input.KeySpace,
}

// tcellButtons lists the mouse buttons diffed between events
var tcellButtons = []struct {
	mask tcell.ButtonMask
	key  input.Key
}{
	{tcell.Button1, input.KeyMouseLeft},
	{tcell.Button2, input.KeyMouseRight},
	{tcell.Button3, input.KeyMouseMiddle},
	{tcell.Button4, input.KeyMouseBackward},
	{tcell.Button5, input.KeyMouseForward},
}

// TcellOptions configures the tcell backend
type TcellOptions struct {
	HoldTimeout time.Duration
	// TrueColor emits palette RGB values instead of the terminal's own 16 colors
	TrueColor bool
}

// Tcell presents frames through a tcell screen
type Tcell struct {
	screen    tcell.Screen
	trueColor bool
	hold      *input.HoldReleaser

	mu      sync.Mutex
	queue   []input.Event
	buttons tcell.ButtonMask
	mouseX  int
	mouseY  int

	done   chan struct{}
	closed bool
}

// NewTcell initializes screen and starts collecting its events
func NewTcell(screen tcell.Screen, opts TcellOptions) (*Tcell, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("tcell backend: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()

	b := &Tcell{
		screen:    screen,
		trueColor: opts.TrueColor,
		mouseX:    -1,
		mouseY:    -1,
		done:      make(chan struct{}),
	}
	b.hold = input.NewHoldReleaser(input.SourceFunc(b.drainQueue), opts.HoldTimeout)

	go b.pollLoop()
	return b, nil
}

// pollLoop runs until Fini makes PollEvent return nil
func (b *Tcell) pollLoop() {
	defer close(b.done)
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		b.handle(ev)
	}
}

// handle queues the input events for one tcell event
func (b *Tcell) handle(ev tcell.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		b.queue = appendTcellKey(b.queue, ev)
	case *tcell.EventMouse:
		b.queue = b.appendMouse(b.queue, ev)
	case *tcell.EventResize:
		b.screen.Sync()
	}
}

func appendTcellKey(buf []input.Event, ev *tcell.EventKey) []input.Event {
	var (
		k       input.Key
		shifted bool
		ok      bool
	)
	mods := ev.Modifiers()

	switch key := ev.Key(); {
	case key == tcell.KeyRune:
		k, shifted, ok = input.KeyForRune(ev.Rune())
	case key >= tcell.KeyF1 && key <= tcell.KeyF12:
		k, ok = input.KeyF1+input.Key(key-tcell.KeyF1), true
	default:
		k, ok = tcellKeys[key]
		if !ok && key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
			k, ok = input.KeyA+input.Key(key-tcell.KeyCtrlA), true
			mods |= tcell.ModCtrl
		}
		if key == tcell.KeyBacktab {
			shifted = true
		}
	}
	if !ok {
		return buf
	}

	if mods&tcell.ModShift != 0 || shifted {
		buf = append(buf, input.Press(input.KeyShift))
	}
	if mods&tcell.ModCtrl != 0 {
		buf = append(buf, input.Press(input.KeyControl))
	}
	if mods&tcell.ModAlt != 0 {
		buf = append(buf, input.Press(input.KeyAlt))
	}
	return append(buf, input.Press(k))
}

func (b *Tcell) appendMouse(buf []input.Event, ev *tcell.EventMouse) []input.Event {
	x, y := ev.Position()
	if x != b.mouseX || y != b.mouseY {
		b.mouseX, b.mouseY = x, y
		buf = append(buf, input.Event{Kind: input.EventMouseMove, X: x, Y: y})
	}

	btns := ev.Buttons()
	if btns&tcell.WheelUp != 0 {
		buf = append(buf, input.Event{Kind: input.EventWheel, Delta: 1})
	}
	if btns&tcell.WheelDown != 0 {
		buf = append(buf, input.Event{Kind: input.EventWheel, Delta: -1})
	}

	for _, bt := range tcellButtons {
		was, is := b.buttons&bt.mask != 0, btns&bt.mask != 0
		if was != is {
			buf = append(buf, input.Event{Kind: input.EventMouseButton, Key: bt.key, Down: is})
		}
	}
	b.buttons = btns & tcell.ButtonMask(0xFF)
	return buf
}

func (b *Tcell) drainQueue(buf []input.Event) []input.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	buf = append(buf, b.queue...)
	b.queue = b.queue[:0]
	return buf
}

// Drain returns queued input, key releases are synthesized
func (b *Tcell) Drain(buf []input.Event) []input.Event {
	return b.hold.Drain(buf)
}

// Size returns the screen size
func (b *Tcell) Size() (int, int) {
	return b.screen.Size()
}

// style converts a packed attribute to a tcell style
func (b *Tcell) style(a console.Attr) tcell.Style {
	return tcell.StyleDefault.Foreground(b.color(a.Fg())).Background(b.color(a.Bg()))
}

func (b *Tcell) color(c console.Color) tcell.Color {
	if b.trueColor {
		rgb := terminal.RGBOf(c)
		return tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B))
	}
	return tcell.PaletteColor(int(terminal.ANSIIndex(c)))
}

// Present copies the frame to the screen, clipped to its size
func (b *Tcell) Present(cells []console.Pixel, width, height int) error {
	if b.closed {
		return console.ErrClosed
	}
	if len(cells) < width*height {
		return fmt.Errorf("tcell backend: %d cells for %dx%d frame", len(cells), width, height)
	}

	sw, sh := b.screen.Size()
	for y := 0; y < min(height, sh); y++ {
		row := cells[y*width : y*width+width]
		for x := 0; x < min(width, sw); x++ {
			c := row[x]
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			b.screen.SetContent(x, y, r, nil, b.style(c.Attr))
		}
	}
	b.screen.Show()
	return nil
}

// SetTitle sets the window title
func (b *Tcell) SetTitle(title string) error {
	if b.closed {
		return console.ErrClosed
	}
	b.screen.SetTitle(title)
	return nil
}

// Close finalizes the screen and waits for the event loop to end
func (b *Tcell) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.screen.Fini()
	select {
	case <-b.done:
	case <-time.After(100 * time.Millisecond):
	}
	return nil
}
