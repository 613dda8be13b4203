// Package status holds named runtime counters, gauges and labels shared
// between the frame loop and diagnostic overlays.
package status

import (
	"math"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
)

// MaxLabelLen truncates label values
const MaxLabelLen = 32

// Gauge is an atomic float64, the zero value reads 0
type Gauge struct {
	bits atomic.Uint64
}

// Set stores v
func (g *Gauge) Set(v float64) { g.bits.Store(math.Float64bits(v)) }

// Get loads the value
func (g *Gauge) Get() float64 { return math.Float64frombits(g.bits.Load()) }

// Label is an atomic short string
type Label struct {
	ptr atomic.Pointer[string]
}

// Set stores s, truncated to MaxLabelLen bytes
func (l *Label) Set(s string) {
	if len(s) > MaxLabelLen {
		s = s[:MaxLabelLen]
	}
	l.ptr.Store(&s)
}

// Get returns the stored string
func (l *Label) Get() string {
	if p := l.ptr.Load(); p != nil {
		return *p
	}
	return ""
}

// set maps names to lazily allocated values; returned pointers stay valid
type set[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

func (s *set[T]) get(name string) *T {
	s.mu.RLock()
	p, ok := s.items[name]
	s.mu.RUnlock()
	if ok {
		return p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.items[name]; ok {
		return p
	}
	if s.items == nil {
		s.items = make(map[string]*T)
	}
	p = new(T)
	s.items[name] = p
	return p
}

func (s *set[T]) each(fn func(name string, p *T)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, p := range s.items {
		fn(name, p)
	}
}

// Registry groups the values of one process
// Callers cache the returned pointers and update them without locking
type Registry struct {
	counters set[atomic.Int64]
	gauges   set[Gauge]
	labels   set[Label]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Counter returns the counter called name, creating it on first use
func (r *Registry) Counter(name string) *atomic.Int64 { return r.counters.get(name) }

// Gauge returns the gauge called name, creating it on first use
func (r *Registry) Gauge(name string) *Gauge { return r.gauges.get(name) }

// Label returns the label called name, creating it on first use
func (r *Registry) Label(name string) *Label { return r.labels.get(name) }

// Entry is one formatted value
type Entry struct {
	Name  string
	Value string
}

// Snapshot formats every value, sorted by name
func (r *Registry) Snapshot() []Entry {
	var out []Entry
	r.counters.each(func(name string, p *atomic.Int64) {
		out = append(out, Entry{name, strconv.FormatInt(p.Load(), 10)})
	})
	r.gauges.each(func(name string, p *Gauge) {
		out = append(out, Entry{name, strconv.FormatFloat(p.Get(), 'f', 1, 64)})
	})
	r.labels.each(func(name string, p *Label) {
		out = append(out, Entry{name, p.Get()})
	})
	slices.SortFunc(out, func(a, b Entry) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}
