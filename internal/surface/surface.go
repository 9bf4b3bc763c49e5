// Package surface presents rendered canvases to the user.
//
// A Surface receives packed 0x00RRGGBB pixel buffers, row-major from the
// top-left corner, exactly as canvas.Canvas stores them. Window shows frames
// in a desktop window backed by Ebitengine; Headless keeps them in memory.
package surface

import (
	"errors"
	"fmt"
	"image"
)

// Surface is a destination for finished frames.
type Surface interface {
	// IsOpen reports whether the surface still accepts frames.
	IsOpen() bool
	// Present shows buf, a width x height frame. It returns once the frame
	// has been handed to the display.
	Present(buf []uint32, width, height int) error
	// Close releases the surface. Later Presents fail with ErrClosed.
	Close() error
}

var (
	// ErrClosed is returned when presenting to a closed surface.
	ErrClosed = errors.New("surface is closed")

	// ErrSizeMismatch is returned when a frame does not match the surface size.
	ErrSizeMismatch = errors.New("frame size does not match surface")
)

// PresentError describes a failed presentation.
type PresentError struct {
	Op  string
	Err error
}

func (e *PresentError) Error() string {
	return fmt.Sprintf("surface %s: %v", e.Op, e.Err)
}

func (e *PresentError) Unwrap() error {
	return e.Err
}

// checkFrame validates a frame against the surface dimensions.
func checkFrame(buf []uint32, width, height, wantW, wantH int) error {
	if width != wantW || height != wantH {
		return &PresentError{
			Op:  "present",
			Err: fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSizeMismatch, width, height, wantW, wantH),
		}
	}
	if len(buf) != width*height {
		return &PresentError{
			Op:  "present",
			Err: fmt.Errorf("%w: buffer holds %d pixels, want %d", ErrSizeMismatch, len(buf), width*height),
		}
	}
	return nil
}

// PackRGBA writes buf as opaque RGBA bytes into dst, which must hold
// 4*len(buf) bytes.
func PackRGBA(dst []byte, buf []uint32) {
	for i, px := range buf {
		j := i * 4
		dst[j+0] = byte(px >> 16)
		dst[j+1] = byte(px >> 8)
		dst[j+2] = byte(px)
		dst[j+3] = 0xff
	}
}

// ToImage converts a packed frame into an RGBA image.
func ToImage(buf []uint32, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	n := width * height
	if len(buf) < n {
		n = len(buf)
	}
	PackRGBA(img.Pix[:4*n], buf[:n])
	return img
}
