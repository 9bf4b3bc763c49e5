package canvas

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is matched by every *OutOfBoundsError via errors.Is.
	ErrOutOfBounds = errors.New("pixel out of bounds")

	// ErrBufferSize is returned when a buffer does not hold width*height pixels.
	ErrBufferSize = errors.New("buffer length does not match dimensions")
)

// OutOfBoundsError reports a pixel or pixel block that lies outside the canvas.
type OutOfBoundsError struct {
	X, Y          int
	Width, Height int
	// Scale is the block size for scaled pixels, 1 for single pixels.
	Scale int
}

// Error implements the error interface.
func (e *OutOfBoundsError) Error() string {
	if e.Scale > 1 {
		return fmt.Sprintf("block of scale %d at (%d,%d) exceeds canvas (%d,%d)",
			e.Scale, e.X, e.Y, e.Width, e.Height)
	}
	return fmt.Sprintf("attempted to access (%d,%d) when dimensions are (%d,%d)",
		e.X, e.Y, e.Width, e.Height)
}

// Is reports whether target is ErrOutOfBounds.
func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}
