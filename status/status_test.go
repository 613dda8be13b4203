package status

import (
	"strings"
	"sync"
	"testing"
)

func TestRegistryReturnsStablePointers(t *testing.T) {
	r := NewRegistry()
	c := r.Counter("frames")
	c.Add(2)
	if r.Counter("frames") != c {
		t.Error("Expected the same counter pointer")
	}
	if got := r.Counter("frames").Load(); got != 2 {
		t.Errorf("Expected 2, got %d", got)
	}
}

func TestRegistryConcurrentCounters(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				r.Counter("events").Add(1)
			}
		}()
	}
	wg.Wait()
	if got := r.Counter("events").Load(); got != 8000 {
		t.Errorf("Expected 8000, got %d", got)
	}
}

func TestSnapshotSortedAndFormatted(t *testing.T) {
	r := NewRegistry()
	r.Gauge("console.fps").Set(59.94)
	r.Counter("archive.rewrites").Add(3)
	r.Label("backend").Set("ansi")

	got := r.Snapshot()
	want := []Entry{
		{"archive.rewrites", "3"},
		{"backend", "ansi"},
		{"console.fps", "59.9"},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entry %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestLabelTruncates(t *testing.T) {
	var l Label
	if l.Get() != "" {
		t.Error("Expected empty zero label")
	}
	l.Set(strings.Repeat("x", MaxLabelLen+10))
	if len(l.Get()) != MaxLabelLen {
		t.Errorf("Expected %d bytes, got %d", MaxLabelLen, len(l.Get()))
	}
}
