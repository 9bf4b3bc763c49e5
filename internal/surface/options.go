package surface

import (
	"fmt"
	"os"
)

// DefaultTPS is the default game loop rate of a Window.
const DefaultTPS = 60

// ErrorHandler receives errors from work a Window does in the background.
type ErrorHandler func(err error)

// DefaultErrorHandler writes errors to stderr.
func DefaultErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "window error: %v\n", err)
}

// Options configures a Window.
type Options struct {
	Title  string
	Width  int
	Height int
	// Scale magnifies every canvas pixel to Scale x Scale screen pixels.
	Scale int
	// TPS is the game loop rate, which bounds the frame rate.
	TPS int
	// X and Y position the window when Positioned is set.
	X, Y       int
	Positioned bool
	// OnTop keeps the window above others where the platform supports it.
	OnTop bool
	// OnError reports background failures, such as a rejected keep-above
	// request. Nil means DefaultErrorHandler.
	OnError ErrorHandler
}

func (o Options) withDefaults() Options {
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.TPS == 0 {
		o.TPS = DefaultTPS
	}
	if o.OnError == nil {
		o.OnError = DefaultErrorHandler
	}
	return o
}

// Validate checks that the options describe a drawable window.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Scale < 1 {
		return fmt.Errorf("window scale must be at least 1, got %d", o.Scale)
	}
	if o.TPS < 1 {
		return fmt.Errorf("window TPS must be positive, got %d", o.TPS)
	}
	return nil
}
