package console

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// DefaultCloseTimeout bounds how long a signal handler waits for the frame loop to shut down
const DefaultCloseTimeout = 5 * time.Second

// CloseSignal carries a close request from any goroutine to the frame loop
// and lets the requester wait until the loop has released its resources
type CloseSignal struct {
	requested atomic.Bool
	timeout   time.Duration

	done     chan struct{}
	released chan struct{}
	reqOnce  sync.Once
	relOnce  sync.Once

	mu     sync.Mutex
	sigCh  chan os.Signal
	stopCh chan struct{}
	exitCh chan struct{}
}

// NewCloseSignal creates a signal; timeout applies to waits started by NotifySignals
func NewCloseSignal(timeout time.Duration) *CloseSignal {
	if timeout <= 0 {
		timeout = DefaultCloseTimeout
	}
	return &CloseSignal{
		timeout:  timeout,
		done:     make(chan struct{}),
		released: make(chan struct{}),
	}
}

// Request marks close as requested
func (s *CloseSignal) Request() {
	s.requested.Store(true)
	s.reqOnce.Do(func() { close(s.done) })
}

// ShouldClose reports whether close was requested
func (s *CloseSignal) ShouldClose() bool {
	return s.requested.Load()
}

// Done is closed on the first request
func (s *CloseSignal) Done() <-chan struct{} {
	return s.done
}

// RequestAndWait requests close and blocks until Release or timeout
// Returns true when released in time
func (s *CloseSignal) RequestAndWait(timeout time.Duration) bool {
	s.Request()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.released:
		return true
	case <-timer.C:
		return false
	}
}

// Release unblocks waiters, safe to call more than once
func (s *CloseSignal) Release() {
	s.relOnce.Do(func() { close(s.released) })
}

// NotifySignals routes the given OS signals (default SIGINT, SIGTERM, SIGHUP) into a close request
// The first signal requests close and waits for Release; later signals get default handling
func (s *CloseSignal) NotifySignals(sig ...os.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sigCh != nil {
		return
	}
	if len(sig) == 0 {
		sig = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
	}

	s.sigCh = make(chan os.Signal, 1)
	s.stopCh = make(chan struct{})
	s.exitCh = make(chan struct{})
	signal.Notify(s.sigCh, sig...)

	go func(sigCh chan os.Signal, stopCh, exitCh chan struct{}) {
		defer close(exitCh)
		select {
		case v := <-sigCh:
			log.Printf("close signal: received %v", v)
			if !s.RequestAndWait(s.timeout) {
				log.Printf("close signal: shutdown did not finish within %v", s.timeout)
			}
			signal.Stop(sigCh)
		case <-stopCh:
		}
	}(s.sigCh, s.stopCh, s.exitCh)
}

// Stop uninstalls the signal handler
func (s *CloseSignal) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sigCh == nil {
		return
	}
	signal.Stop(s.sigCh)
	close(s.stopCh)

	// A handler already waiting for Release is not waited on here
	select {
	case <-s.exitCh:
	case <-s.released:
	case <-time.After(100 * time.Millisecond):
	}
	s.sigCh = nil
}
