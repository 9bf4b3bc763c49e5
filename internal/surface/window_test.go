//go:build !noebiten

package surface

import (
	"errors"
	"testing"
)

// These tests exercise Window without starting the Ebitengine loop, so they
// do not need a display.

func TestNewWindowDefaults(t *testing.T) {
	w, err := NewWindow(Options{Title: "t", Width: 30, Height: 20})
	if err != nil {
		t.Fatalf("NewWindow() error = %v", err)
	}

	opts := w.Options()
	if opts.Scale != 1 || opts.TPS != DefaultTPS {
		t.Errorf("defaults = scale %d, tps %d", opts.Scale, opts.TPS)
	}
	if opts.OnError == nil {
		t.Error("OnError should default to DefaultErrorHandler")
	}
	if !w.IsOpen() {
		t.Error("new window should accept frames")
	}
}

func TestNewWindowValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"zero width", Options{Width: 0, Height: 10}},
		{"negative height", Options{Width: 10, Height: -1}},
		{"negative scale", Options{Width: 10, Height: 10, Scale: -2}},
		{"negative tps", Options{Width: 10, Height: 10, TPS: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewWindow(tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWindowPresentSizeMismatch(t *testing.T) {
	w, err := NewWindow(Options{Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("NewWindow() error = %v", err)
	}
	if err := w.Present(make([]uint32, 4), 2, 2); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Present() = %v, want ErrSizeMismatch", err)
	}
}

func TestWindowCloseBeforeRun(t *testing.T) {
	w, err := NewWindow(Options{Width: 4, Height: 4})
	if err != nil {
		t.Fatalf("NewWindow() error = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if w.IsOpen() {
		t.Error("IsOpen() after Close")
	}
	if err := w.Present(make([]uint32, 16), 4, 4); !errors.Is(err, ErrClosed) {
		t.Errorf("Present after Close = %v, want ErrClosed", err)
	}
	if err := w.Run(); !errors.Is(err, ErrClosed) {
		t.Errorf("Run after Close = %v, want ErrClosed", err)
	}
}
