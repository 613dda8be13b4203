package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/conpix/input"
	"github.com/lixenwraith/conpix/status"
)

type fakeBackend struct {
	input.Queue

	width, height int
	frames        [][]Pixel
	titles        []string
	presentErr    error
	closed        int
}

func (b *fakeBackend) Size() (int, int) { return b.width, b.height }

func (b *fakeBackend) Present(cells []Pixel, w, h int) error {
	if b.presentErr != nil {
		return b.presentErr
	}
	b.frames = append(b.frames, append([]Pixel(nil), cells[:w*h]...))
	return nil
}

func (b *fakeBackend) SetTitle(title string) error {
	b.titles = append(b.titles, title)
	return nil
}

func (b *fakeBackend) Close() error {
	b.closed++
	return nil
}

type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

type recordBeeper struct {
	freqs []float64
}

func (r *recordBeeper) Beep(freq float64, d time.Duration) { r.freqs = append(r.freqs, freq) }

func newTestConsole(t *testing.T, b *fakeBackend, opts Options) (*Console, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	if opts.Signal == nil {
		opts.Signal = NewCloseSignal(0)
	}
	opts.Reporter = NewReporterTo(&out, nil, false, opts.Signal)
	c, err := New(b, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, &out
}

func TestNewSizes(t *testing.T) {
	b := &fakeBackend{width: 30, height: 12}
	c, _ := newTestConsole(t, b, Options{})
	if c.Width() != 30 || c.Height() != 12 {
		t.Errorf("Expected display size 30x12, got %dx%d", c.Width(), c.Height())
	}

	c, _ = newTestConsole(t, b, Options{Width: 8, Height: 4})
	if c.Width() != 8 || c.Height() != 4 {
		t.Errorf("Expected 8x4, got %dx%d", c.Width(), c.Height())
	}

	if _, err := New(b, Options{Width: 10}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
	if _, err := New(nil, Options{}); err == nil {
		t.Error("Expected error for nil backend")
	}
}

func TestBlitPresentsFrameAndTitle(t *testing.T) {
	b := &fakeBackend{width: 4, height: 2}
	clock := &stepClock{t: time.Unix(0, 0), step: 20 * time.Millisecond}
	c, _ := newTestConsole(t, b, Options{Title: "demo", Now: clock.now})

	c.Clear(Pixel{})
	c.Draw(1, 1, Solid(Magenta))
	c.DrawString(0, 0, White, Black, "hi")
	if err := c.Blit(); err != nil {
		t.Fatalf("Blit failed: %v", err)
	}

	if len(b.frames) != 1 {
		t.Fatalf("Expected 1 frame, got %d", len(b.frames))
	}
	frame := b.frames[0]
	if frame[0].Rune != 'h' || frame[1].Rune != 'i' || frame[5] != Solid(Magenta) {
		t.Errorf("Unexpected frame %+v", frame)
	}
	if c.DeltaTime() != 20*time.Millisecond {
		t.Errorf("Expected 20ms delta, got %v", c.DeltaTime())
	}
	if b.titles[0] != "demo - 50 fps" {
		t.Errorf("Unexpected title %q", b.titles[0])
	}

	c.SetTitle("other")
	clock.step = 100 * time.Millisecond
	c.Blit()
	if b.titles[1] != "other - 10 fps" {
		t.Errorf("Unexpected title %q", b.titles[1])
	}
}

func TestBlitFailureReportsAndCloses(t *testing.T) {
	b := &fakeBackend{width: 2, height: 2, presentErr: errors.New("display gone")}
	c, out := newTestConsole(t, b, Options{})

	err := c.Blit()
	if err == nil || !strings.Contains(err.Error(), "display gone") {
		t.Fatalf("Expected present error, got %v", err)
	}
	if !strings.Contains(out.String(), "[Error] (conpix): present: display gone") {
		t.Errorf("Unexpected report %q", out.String())
	}
	if !c.ShouldClose() || b.closed != 1 {
		t.Errorf("Expected close requested and backend closed, closed=%d", b.closed)
	}
	if err := c.Blit(); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestPollInputsTracksEdges(t *testing.T) {
	b := &fakeBackend{width: 2, height: 2}
	c, _ := newTestConsole(t, b, Options{})

	b.Push(input.Press(input.KeyEscape), input.Event{Kind: input.EventWheel, Delta: 1})
	c.PollInputs()
	if !c.Input().WasJustPressed(input.KeyEscape) || c.Input().ScrollDelta() != 1 {
		t.Error("Expected Escape pressed and wheel moved")
	}

	b.Push(input.Release(input.KeyEscape))
	c.PollInputs()
	if !c.Input().WasJustReleased(input.KeyEscape) || c.Input().ScrollDelta() != 0 {
		t.Error("Expected Escape released and wheel reset")
	}
}

func TestOverridesFromOptions(t *testing.T) {
	b := &fakeBackend{width: 2, height: 2}
	held := input.StateQueryFunc(func(k input.Key) (bool, bool) { return true, true })
	c, _ := newTestConsole(t, b, Options{
		Overrides: []Override{{Query: held, Keys: []input.Key{input.KeyMouseBackward}}},
	})
	c.PollInputs()
	if !c.Input().WasJustPressed(input.KeyMouseBackward) {
		t.Error("Expected override to press MouseBackward")
	}
}

func TestCloseReleasesWaiter(t *testing.T) {
	b := &fakeBackend{width: 2, height: 2}
	sig := NewCloseSignal(0)
	c, _ := newTestConsole(t, b, Options{Signal: sig})

	done := make(chan bool, 1)
	go func() { done <- sig.RequestAndWait(2 * time.Second) }()

	<-sig.Done()
	if !c.ShouldClose() {
		t.Fatal("Expected console to observe close request")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	c.Close()

	if ok := <-done; !ok {
		t.Error("Expected waiter released by Close")
	}
	if b.closed != 1 {
		t.Errorf("Expected backend closed once, got %d", b.closed)
	}
}

func TestBeep(t *testing.T) {
	b := &fakeBackend{width: 2, height: 2}
	c, _ := newTestConsole(t, b, Options{})
	c.Beep(440, time.Millisecond)

	rec := &recordBeeper{}
	c, _ = newTestConsole(t, b, Options{Beeper: rec})
	c.Beep(880, time.Millisecond)
	if len(rec.freqs) != 1 || rec.freqs[0] != 880 {
		t.Errorf("Expected one 880Hz beep, got %v", rec.freqs)
	}
}

func TestStatusCounters(t *testing.T) {
	b := &fakeBackend{width: 2, height: 2}
	reg := status.NewRegistry()
	clock := &stepClock{t: time.Unix(0, 0), step: 25 * time.Millisecond}
	c, _ := newTestConsole(t, b, Options{Status: reg, Now: clock.now})

	c.Blit()
	c.Blit()
	if got := reg.Counter("console.frames").Load(); got != 2 {
		t.Errorf("Expected 2 frames, got %d", got)
	}
	if got := reg.Gauge("console.fps").Get(); got != 40 {
		t.Errorf("Expected 40 fps, got %v", got)
	}

	b.presentErr = errors.New("gone")
	c.Blit()
	if got := c.Status().Counter("console.failures").Load(); got != 1 {
		t.Errorf("Expected 1 failure, got %d", got)
	}
}
