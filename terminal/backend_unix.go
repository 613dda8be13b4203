//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package terminal

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// pollTimeoutMs bounds each stdin poll, it is also the standalone ESC delay
const pollTimeoutMs = 50

// fallbackWidth and fallbackHeight apply when the size ioctl fails
const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

// ErrNotTerminal is returned by Init when no controlling terminal is available
var ErrNotTerminal = errors.New("no controlling terminal")

// ttyDevice drives the controlling terminal through stdin/stdout
// When stdin is redirected it falls back to /dev/tty for both directions
type ttyDevice struct {
	in, out *os.File
	owned   *os.File // /dev/tty opened by Init, closed by Fini
	saved   *term.State
	buf     [512]byte

	winchStop chan struct{}
	winchDone chan struct{}
}

func newBackend() Backend {
	return &ttyDevice{in: os.Stdin, out: os.Stdout}
}

func (d *ttyDevice) Init() error {
	if !term.IsTerminal(int(d.in.Fd())) {
		tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return ErrNotTerminal
		}
		d.in, d.out, d.owned = tty, tty, tty
	}

	saved, err := term.MakeRaw(int(d.in.Fd()))
	if err != nil {
		d.closeOwned()
		return err
	}
	d.saved = saved
	return nil
}

func (d *ttyDevice) closeOwned() {
	if d.owned != nil {
		d.owned.Close()
		d.owned = nil
		d.in, d.out = os.Stdin, os.Stdout
	}
}

func (d *ttyDevice) Fini() {
	if d.winchStop != nil {
		close(d.winchStop)
		<-d.winchDone
		d.winchStop = nil
	}
	if d.saved != nil {
		term.Restore(int(d.in.Fd()), d.saved)
		d.saved = nil
	}
	d.closeOwned()
}

func (d *ttyDevice) Size() (int, int) {
	w, h, err := term.GetSize(int(d.out.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return fallbackWidth, fallbackHeight
	}
	return w, h
}

func (d *ttyDevice) Write(p []byte) error {
	_, err := d.out.Write(p)
	return err
}

// Read waits for input in short polls so a closed stopCh is noticed promptly
// A nil result without error means stop was requested or input reached EOF
func (d *ttyDevice) Read(stopCh <-chan struct{}) ([]byte, error) {
	fd := int(d.in.Fd())
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	for {
		select {
		case <-stopCh:
			return nil, nil
		default:
		}

		ready, err := unix.Poll(fds, pollTimeoutMs)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return nil, err
		case ready == 0:
			continue
		}

		n, err := unix.Read(fd, d.buf[:])
		switch {
		case errors.Is(err, unix.EINTR), errors.Is(err, unix.EAGAIN):
			continue
		case err != nil:
			return nil, err
		case n == 0:
			return nil, nil
		}
		return append([]byte(nil), d.buf[:n]...), nil
	}
}

// SetResizeHandler calls handler with the new size on every SIGWINCH until Fini
func (d *ttyDevice) SetResizeHandler(handler func(width, height int)) {
	d.winchStop = make(chan struct{})
	d.winchDone = make(chan struct{})

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)

	go func(stop, done chan struct{}) {
		defer close(done)
		defer signal.Stop(winch)
		for {
			select {
			case <-stop:
				return
			case <-winch:
				handler(d.Size())
			}
		}
	}(d.winchStop, d.winchDone)
}

// resetTerminalMode restores cooked mode on /dev/tty, which works even if stdin is redirected
// Errors are ignored, it runs during crash recovery
func resetTerminalMode() {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer tty.Close()

	fd := int(tty.Fd())
	t, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return
	}
	t.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Iflag |= unix.ICRNL
	unix.IoctlSetTermios(fd, ioctlSetTermios, t)
}
