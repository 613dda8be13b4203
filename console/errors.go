package console

import "errors"

var (
	// ErrInvalidSize is returned for non-positive console dimensions
	ErrInvalidSize = errors.New("console: invalid size")
	// ErrClosed is returned by operations on a closed console
	ErrClosed = errors.New("console: closed")
)
