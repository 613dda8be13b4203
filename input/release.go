package input

import (
	"slices"
	"time"
)

// DefaultHoldTimeout exceeds the typical initial auto-repeat delay of terminals
const DefaultHoldTimeout = 400 * time.Millisecond

// HoldReleaser synthesizes key releases for sources that only report presses
// A key stays down while presses (auto-repeat) keep arriving and is released
// once none was seen for the hold timeout
type HoldReleaser struct {
	src     Source
	timeout time.Duration
	now     func() time.Time

	held  map[Key]time.Time
	batch []Event
	due   []Key
}

// NewHoldReleaser wraps src, a non-positive timeout selects DefaultHoldTimeout
func NewHoldReleaser(src Source, timeout time.Duration) *HoldReleaser {
	if timeout <= 0 {
		timeout = DefaultHoldTimeout
	}
	return &HoldReleaser{
		src:     src,
		timeout: timeout,
		now:     time.Now,
		held:    make(map[Key]time.Time),
	}
}

// SetClock replaces the time source
func (h *HoldReleaser) SetClock(now func() time.Time) {
	h.now = now
}

// Held returns the number of keys currently considered down
func (h *HoldReleaser) Held() int {
	return len(h.held)
}

// Drain forwards source events, folds repeats and appends expired releases
func (h *HoldReleaser) Drain(buf []Event) []Event {
	h.batch = h.src.Drain(h.batch[:0])
	now := h.now()

	for _, ev := range h.batch {
		if ev.Kind != EventKey {
			buf = append(buf, ev)
			continue
		}
		if !ev.Down {
			delete(h.held, ev.Key)
			buf = append(buf, ev)
			continue
		}
		_, wasHeld := h.held[ev.Key]
		h.held[ev.Key] = now
		if !wasHeld {
			buf = append(buf, ev)
		}
	}

	h.due = h.due[:0]
	for k, last := range h.held {
		if now.Sub(last) >= h.timeout {
			h.due = append(h.due, k)
		}
	}
	slices.Sort(h.due)
	for _, k := range h.due {
		delete(h.held, k)
		buf = append(buf, Release(k))
	}
	return buf
}
