//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package terminal

import "errors"

// ErrNotTerminal is returned by Init when no controlling terminal is available
var ErrNotTerminal = errors.New("stdin is not a terminal")

// errUnsupported is returned on platforms without a raw terminal backend, use the tcell backend there
var errUnsupported = errors.New("raw terminal backend not supported on this platform")

type unsupportedBackend struct{}

func newBackend() Backend { return unsupportedBackend{} }

func (unsupportedBackend) Init() error                                { return errUnsupported }
func (unsupportedBackend) Fini()                                      {}
func (unsupportedBackend) Size() (int, int)                           { return 80, 24 }
func (unsupportedBackend) Write(p []byte) error                       { return errUnsupported }
func (unsupportedBackend) Read(stopCh <-chan struct{}) ([]byte, error) { return nil, errUnsupported }
func (unsupportedBackend) SetResizeHandler(func(width, height int))   {}

func resetTerminalMode() {}
