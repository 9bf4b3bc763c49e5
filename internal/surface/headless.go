package surface

import (
	"image"
	"sync"
)

// Headless is an in-memory Surface. It keeps a copy of the last frame and
// closes itself after an optional number of frames.
type Headless struct {
	width, height int
	limit         uint64

	mu     sync.Mutex
	frames uint64
	last   []uint32
	closed bool
}

// NewHeadless creates a width x height surface. A limit of 0 accepts
// frames until Close.
func NewHeadless(width, height int, limit uint64) *Headless {
	return &Headless{
		width:  width,
		height: height,
		limit:  limit,
		last:   make([]uint32, width*height),
	}
}

// IsOpen implements Surface.
func (h *Headless) IsOpen() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.closed
}

// Present implements Surface.
func (h *Headless) Present(buf []uint32, width, height int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return &PresentError{Op: "present", Err: ErrClosed}
	}
	if err := checkFrame(buf, width, height, h.width, h.height); err != nil {
		return err
	}

	copy(h.last, buf)
	h.frames++
	if h.limit > 0 && h.frames >= h.limit {
		h.closed = true
	}
	return nil
}

// Close implements Surface.
func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// Frames returns the number of frames presented.
func (h *Headless) Frames() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Last returns a copy of the last presented frame.
func (h *Headless) Last() []uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]uint32, len(h.last))
	copy(out, h.last)
	return out
}

// Snapshot returns the last presented frame as an image.
func (h *Headless) Snapshot() *image.RGBA {
	h.mu.Lock()
	defer h.mu.Unlock()
	return ToImage(h.last, h.width, h.height)
}

// Size returns the surface dimensions.
func (h *Headless) Size() (width, height int) {
	return h.width, h.height
}
