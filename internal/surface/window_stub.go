//go:build noebiten

package surface

import "errors"

// ErrNoDisplay is returned by NewWindow in builds without Ebitengine.
var ErrNoDisplay = errors.New("window support disabled in noebiten build")

// Window is unavailable in noebiten builds; use Headless instead.
type Window struct {
	opts Options
}

// NewWindow always fails in noebiten builds.
func NewWindow(opts Options) (*Window, error) {
	return nil, ErrNoDisplay
}

// Options returns the window options.
func (w *Window) Options() Options { return w.opts }

// Run always fails in noebiten builds.
func (w *Window) Run() error { return ErrNoDisplay }

// IsOpen implements Surface.
func (w *Window) IsOpen() bool { return false }

// Present implements Surface.
func (w *Window) Present(buf []uint32, width, height int) error {
	return &PresentError{Op: "present", Err: ErrNoDisplay}
}

// Close implements Surface.
func (w *Window) Close() error { return nil }
