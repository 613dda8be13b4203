package console

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/conpix/input"
	"github.com/lixenwraith/conpix/status"
)

// Display presents frames
type Display interface {
	// Size returns the visible area in cells
	Size() (width, height int)
	// Present shows a full frame, cells are row-major with the given width
	Present(cells []Pixel, width, height int) error
	SetTitle(title string) error
	Close() error
}

// Backend is a display that also delivers input
type Backend interface {
	Display
	input.Source
}

// Beeper plays a tone
type Beeper interface {
	Beep(freq float64, d time.Duration)
}

// Override makes a state query authoritative for some keys
type Override struct {
	Query input.StateQuery
	Keys  []input.Key
}

// Options configures a Console
type Options struct {
	// Width and Height in cells; zero takes the display size
	Width, Height int
	Title         string

	Overrides []Override
	Beeper    Beeper

	// Signal defaults to a new CloseSignal
	Signal *CloseSignal
	// Reporter defaults to stdout/stdin reporting bound to Signal
	Reporter *Reporter

	// Now is the clock used for frame timing
	Now func() time.Time

	// Status receives frame counters; nil creates a private registry
	Status *status.Registry
}

// Console owns the framebuffer and input state for one display
type Console struct {
	backend  Backend
	fb       *Framebuffer
	tracker  *input.Tracker
	signal   *CloseSignal
	reporter *Reporter
	beeper   Beeper
	now      func() time.Time

	status   *status.Registry
	frames   *atomic.Int64
	failures *atomic.Int64
	fpsGauge *status.Gauge
	pending  *atomic.Int64

	title    string
	lastBlit time.Time
	delta    time.Duration
	closed   bool
}

// New creates a console over backend; dimensions stay fixed for its lifetime
func New(backend Backend, opts Options) (*Console, error) {
	if backend == nil {
		return nil, errors.New("console: nil backend")
	}

	w, h := opts.Width, opts.Height
	if w == 0 && h == 0 {
		w, h = backend.Size()
	}
	fb, err := NewFramebuffer(w, h)
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}

	c := &Console{
		backend:  backend,
		fb:       fb,
		tracker:  input.NewTracker(),
		signal:   opts.Signal,
		reporter: opts.Reporter,
		beeper:   opts.Beeper,
		now:      opts.Now,
		title:    opts.Title,
		status:   opts.Status,
	}
	if c.status == nil {
		c.status = status.NewRegistry()
	}
	c.frames = c.status.Counter("console.frames")
	c.failures = c.status.Counter("console.failures")
	c.fpsGauge = c.status.Gauge("console.fps")
	c.pending = c.status.Counter("input.pending")
	if c.signal == nil {
		c.signal = NewCloseSignal(DefaultCloseTimeout)
	}
	if c.reporter == nil {
		c.reporter = NewReporter(c.signal)
	}
	if c.now == nil {
		c.now = time.Now
	}
	for _, o := range opts.Overrides {
		c.tracker.AddOverride(o.Query, o.Keys...)
	}

	c.lastBlit = c.now()
	log.Printf("console: %dx%d %q", w, h, c.title)
	return c, nil
}

// Width returns the column count
func (c *Console) Width() int { return c.fb.Width() }

// Height returns the row count
func (c *Console) Height() int { return c.fb.Height() }

// Framebuffer returns the draw target
func (c *Console) Framebuffer() *Framebuffer { return c.fb }

// Input returns the per-frame input state
func (c *Console) Input() *input.Tracker { return c.tracker }

// Signal returns the close signal
func (c *Console) Signal() *CloseSignal { return c.signal }

// Status returns the registry holding frame counters
func (c *Console) Status() *status.Registry { return c.status }

// PollInputs folds input received since the previous call into the key state
func (c *Console) PollInputs() {
	if c.closed {
		return
	}
	c.tracker.Poll(c.backend)
	c.pending.Store(int64(c.tracker.Pending()))
}

// Clear sets every cell to p
func (c *Console) Clear(p Pixel) { c.fb.Clear(p) }

// Draw writes p at (x, y)
func (c *Console) Draw(x, y int, p Pixel) { c.fb.Draw(x, y, p) }

// DrawString writes text from (x, y)
func (c *Console) DrawString(x, y int, fg, bg Color, text string) {
	c.fb.DrawString(x, y, fg, bg, text)
}

// DrawLine rasterizes a segment
func (c *Console) DrawLine(x1, y1, x2, y2 int, p Pixel) { c.fb.DrawLine(x1, y1, x2, y2, p) }

// Fill sets a rectangle to p
func (c *Console) Fill(x, y, w, h int, p Pixel) { c.fb.Fill(x, y, w, h, p) }

// SetTitle changes the base window title
func (c *Console) SetTitle(title string) { c.title = title }

// Title returns the base window title
func (c *Console) Title() string { return c.title }

// DeltaTime returns the time between the last two blits
func (c *Console) DeltaTime() time.Duration { return c.delta }

// Blit presents the framebuffer and shows the frame rate in the title
// A display failure is reported and closes the console
func (c *Console) Blit() error {
	if c.closed {
		return ErrClosed
	}

	now := c.now()
	c.delta = now.Sub(c.lastBlit)
	c.lastBlit = now

	if err := c.backend.SetTitle(c.title + " - " + strconv.Itoa(fps(c.delta)) + " fps"); err != nil {
		return c.halt(fmt.Errorf("set title: %w", err))
	}
	if err := c.backend.Present(c.fb.Cells(), c.fb.Width(), c.fb.Height()); err != nil {
		return c.halt(fmt.Errorf("present: %w", err))
	}
	c.frames.Add(1)
	if c.delta > 0 {
		c.fpsGauge.Set(float64(time.Second) / float64(c.delta))
	}
	return nil
}

func fps(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(time.Second / d)
}

// halt restores the display before reporting so the message is readable
func (c *Console) halt(err error) error {
	c.failures.Add(1)
	c.Close()
	c.reporter.Report(err)
	return err
}

// Report sends a setup or platform failure through the report-and-halt path
func (c *Console) Report(err error) {
	c.halt(err)
}

// ShouldClose reports whether close was requested
func (c *Console) ShouldClose() bool { return c.signal.ShouldClose() }

// RequestClose asks the frame loop to stop
func (c *Console) RequestClose() { c.signal.Request() }

// Beep plays a tone when a beeper is configured
func (c *Console) Beep(freq float64, d time.Duration) {
	if c.beeper != nil {
		c.beeper.Beep(freq, d)
	}
}

// Close releases the display and unblocks a waiting signal handler
func (c *Console) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.backend.Close()
	c.signal.Release()
	c.signal.Stop()
	if err != nil {
		return fmt.Errorf("console: close: %w", err)
	}
	return nil
}
