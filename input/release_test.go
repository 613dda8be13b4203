package input

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestHoldReleaserSynthesizesRelease(t *testing.T) {
	q := &Queue{}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	h := NewHoldReleaser(q, 100*time.Millisecond)
	h.SetClock(clock.now)

	q.Push(Press(KeyA))
	got := h.Drain(nil)
	if len(got) != 1 || got[0] != Press(KeyA) {
		t.Fatalf("Expected press forwarded, got %+v", got)
	}

	// Auto-repeat keeps the key held and is not forwarded
	clock.advance(80 * time.Millisecond)
	q.Push(Press(KeyA))
	if got := h.Drain(nil); len(got) != 0 {
		t.Errorf("Expected repeat folded, got %+v", got)
	}

	clock.advance(80 * time.Millisecond)
	if got := h.Drain(nil); len(got) != 0 {
		t.Errorf("Expected key still held, got %+v", got)
	}

	clock.advance(30 * time.Millisecond)
	got = h.Drain(nil)
	if len(got) != 1 || got[0] != Release(KeyA) {
		t.Errorf("Expected synthetic release, got %+v", got)
	}
	if h.Held() != 0 {
		t.Errorf("Expected nothing held, got %d", h.Held())
	}
}

func TestHoldReleaserPassesThrough(t *testing.T) {
	q := &Queue{}
	clock := &fakeClock{t: time.Unix(0, 0)}
	h := NewHoldReleaser(q, 0)
	h.SetClock(clock.now)

	move := Event{Kind: EventMouseMove, X: 3, Y: 4}
	q.Push(Press(KeyB), move, Release(KeyB))
	got := h.Drain(nil)
	if len(got) != 3 || got[1] != move || got[2] != Release(KeyB) {
		t.Errorf("Expected events forwarded in order, got %+v", got)
	}
	if h.Held() != 0 {
		t.Errorf("Expected real release to clear hold, got %d", h.Held())
	}
}

func TestHoldReleaserSortedReleases(t *testing.T) {
	q := &Queue{}
	clock := &fakeClock{t: time.Unix(0, 0)}
	h := NewHoldReleaser(q, DefaultHoldTimeout)
	h.SetClock(clock.now)

	q.Push(Press(KeyZ), Press(KeyC), Press(KeyM))
	h.Drain(nil)
	clock.advance(DefaultHoldTimeout)
	got := h.Drain(nil)
	want := []Event{Release(KeyC), Release(KeyM), Release(KeyZ)}
	if len(got) != len(want) {
		t.Fatalf("Expected %d releases, got %+v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Release %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestHoldReleaserFeedsTracker(t *testing.T) {
	q := &Queue{}
	clock := &fakeClock{t: time.Unix(0, 0)}
	h := NewHoldReleaser(q, 50*time.Millisecond)
	h.SetClock(clock.now)
	tr := NewTracker()

	q.Push(Press(KeyD))
	tr.Poll(h)
	if !tr.WasJustPressed(KeyD) {
		t.Error("Expected press")
	}
	clock.advance(60 * time.Millisecond)
	tr.Poll(h)
	if !tr.WasJustReleased(KeyD) {
		t.Error("Expected synthesized release")
	}
}
