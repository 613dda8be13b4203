package terminal

// Backend abstracts the platform terminal device
// The unix implementation drives stdin/stdout, tests substitute an in-memory device
type Backend interface {
	Init() error
	Fini()

	Size() (width, height int)

	// Write writes raw bytes to the terminal output
	Write(p []byte) error

	// Read blocks until input is available, the stop channel is closed, or an error occurs
	// An empty result without error means the poll timed out
	Read(stopCh <-chan struct{}) ([]byte, error)

	// SetResizeHandler registers a callback for terminal resize events
	SetResizeHandler(handler func(width, height int))
}
