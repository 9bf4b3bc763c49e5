package grapher

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by operations on a closed Grapher.
	ErrClosed = errors.New("grapher is closed")

	// ErrNotReloadable is returned by ReloadConfig when the scene did not
	// come from a file or file system.
	ErrNotReloadable = errors.New("scene source cannot be reloaded")

	// ErrNilSurface is returned by Run when no surface is given.
	ErrNilSurface = errors.New("surface is nil")
)

// FrameError reports a failure while producing a particular frame.
type FrameError struct {
	Frame uint64
	// Op is "render" or "present".
	Op  string
	Err error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %s: %v", e.Frame, e.Op, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
