// Package canvas provides the pixel buffer and rasterization primitives
// for go-grapher. A Canvas owns a flat row-major buffer of packed 24-bit
// colors and exposes pixel, block, line and rectangle drawing.
//
// All drawing positions are logical coordinates measured from the
// bottom-left corner. The buffer itself is stored top-left first, the way
// a host surface expects it; the row flip happens only inside DrawPixel.
//
// A Canvas is not safe for concurrent use. One render goroutine owns it
// for the duration of a frame.
package canvas

import (
	"fmt"
	"image"
	"image/color"
)

// linePixelScale is the block size used for every rasterized line point.
const linePixelScale = 1

// ColorModel converts arbitrary colors to packed Colors.
var ColorModel = color.ModelFunc(func(c color.Color) color.Color {
	return FromColor(c)
})

// Canvas is a fixed-size pixel buffer with drawing primitives.
type Canvas struct {
	buf       []uint32
	width     int
	height    int
	thickness int
}

// New allocates a zeroed (black) canvas of the given size.
func New(width, height int) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Canvas{
		buf:       make([]uint32, width*height),
		width:     width,
		height:    height,
		thickness: 1,
	}
}

// NewWithBuffer wraps an existing buffer. The buffer is used in place.
func NewWithBuffer(buf []uint32, width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas dimensions must be positive, got %dx%d", width, height)
	}
	if len(buf) != width*height {
		return nil, fmt.Errorf("%w: len %d, want %d", ErrBufferSize, len(buf), width*height)
	}
	return &Canvas{buf: buf, width: width, height: height, thickness: 1}, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

// Buffer returns the live pixel buffer in top-left row-major order.
func (c *Canvas) Buffer() []uint32 { return c.buf }

// Thickness returns the current line thickness.
func (c *Canvas) Thickness() int { return c.thickness }

// SetThickness sets the thickness used by subsequent line draws.
// Values below 1 draw single-stroke lines.
func (c *Canvas) SetThickness(n int) {
	c.thickness = n
}

// Clear overwrites every pixel with col.
func (c *Canvas) Clear(col Color) {
	v := uint32(col) & 0xffffff
	for i := range c.buf {
		c.buf[i] = v
	}
}

// index maps a logical coordinate to a buffer index.
func (c *Canvas) index(x, y int) (int, error) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0, &OutOfBoundsError{X: x, Y: y, Width: c.width, Height: c.height, Scale: 1}
	}
	idx := len(c.buf) - (y+1)*c.width + x
	if idx < 0 || idx >= len(c.buf) {
		return 0, &OutOfBoundsError{X: x, Y: y, Width: c.width, Height: c.height, Scale: 1}
	}
	return idx, nil
}

// DrawPixel writes one pixel at logical (x, y), y measured from the bottom edge.
// It returns an *OutOfBoundsError when either coordinate is outside the canvas.
func (c *Canvas) DrawPixel(x, y int, col Color) error {
	idx, err := c.index(x, y)
	if err != nil {
		return err
	}
	c.buf[idx] = uint32(col) & 0xffffff
	return nil
}

// Pixel reads the pixel at logical (x, y).
func (c *Canvas) Pixel(x, y int) (Color, error) {
	idx, err := c.index(x, y)
	if err != nil {
		return 0, err
	}
	return Color(c.buf[idx]), nil
}

// DrawScaledPixel draws the block [x-scale+1, x+scale-1] x [y-scale+1, y+scale-1].
//
// The call fails without drawing when the block would reach negative
// coordinates or lies wholly past the canvas. Otherwise every in-bounds
// pixel of the block is drawn and an out-of-bounds error is returned if
// part of the block fell outside.
func (c *Canvas) DrawScaledPixel(x, y, scale int, col Color) error {
	if scale < 1 {
		scale = 1
	}
	off := scale - 1
	if x < off || y < off {
		return &OutOfBoundsError{X: x, Y: y, Width: c.width, Height: c.height, Scale: scale}
	}

	outside := &OutOfBoundsError{X: x, Y: y, Width: c.width, Height: c.height, Scale: scale}
	if x-off >= c.width || y-off >= c.height {
		return outside
	}

	// The loops stop at the canvas edge so x+off never has to be computed.
	var lastErr error
	maxX, maxY := c.width-1, c.height-1
	if off <= maxX-x {
		maxX = x + off
	} else {
		lastErr = outside
	}
	if off <= maxY-y {
		maxY = y + off
	} else {
		lastErr = outside
	}
	for px := x - off; px <= maxX; px++ {
		for py := y - off; py <= maxY; py++ {
			c.buf[len(c.buf)-(py+1)*c.width+px] = uint32(col) & 0xffffff
		}
	}
	return lastErr
}

// DrawLine rasterizes a line from start to end with the current thickness.
//
// Points falling outside the canvas are skipped. A thickness above 1 adds
// two parallel strokes per extra level, offset by 0.5 pixel steps along the
// line normal, so thickness n produces 1 + 2*(n-1) strokes.
func (c *Canvas) DrawLine(start, end image.Point, col Color) {
	c.stroke(start.X, start.Y, end.X, end.Y, col)
	if c.thickness <= 1 {
		return
	}

	s := VecFromPoint(start)
	e := VecFromPoint(end)
	normal := e.Sub(s).Rotate90()
	if normal.Len() == 0 {
		return
	}

	for k := 1; k < c.thickness; k++ {
		off := normal.WithMagnitude(0.5 * float64(k))
		s1, e1 := s.Add(off).Trunc(), e.Add(off).Trunc()
		s2, e2 := s.Sub(off).Trunc(), e.Sub(off).Trunc()
		c.stroke(s1.X, s1.Y, e1.X, e1.Y, col)
		c.stroke(s2.X, s2.Y, e2.X, e2.Y, col)
	}
}

// stroke draws a single one-pixel Bresenham line. The error term is
// dx+dy with dy negative, which handles every octant without swapping.
func (c *Canvas) stroke(x0, y0, x1, y1 int, col Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	e := dx + dy

	x, y := x0, y0
	for {
		_ = c.DrawScaledPixel(x, y, linePixelScale, col)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			if x == x1 {
				return
			}
			e += dy
			x += sx
		}
		if e2 <= dx {
			if y == y1 {
				return
			}
			e += dx
			y += sy
		}
	}
}

// Rect outlines the rectangle with its bottom-left corner at pos.
func (c *Canvas) Rect(pos image.Point, width, height int, col Color) {
	sw := pos
	se := image.Pt(pos.X+width, pos.Y)
	ne := image.Pt(pos.X+width, pos.Y+height)
	nw := image.Pt(pos.X, pos.Y+height)

	c.DrawLine(sw, se, col)
	c.DrawLine(se, ne, col)
	c.DrawLine(ne, nw, col)
	c.DrawLine(nw, sw, col)
}

// ColorModel implements image.Image.
func (c *Canvas) ColorModel() color.Model { return ColorModel }

// Bounds implements image.Image. Image coordinates have their origin at
// the top-left corner, unlike the logical drawing coordinates.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// At implements image.Image in top-left image coordinates.
func (c *Canvas) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(c.Bounds()) {
		return Black
	}
	return Color(c.buf[y*c.width+x])
}

// Set implements draw.Image in top-left image coordinates.
// Alpha is discarded; callers composite before calling Set.
func (c *Canvas) Set(x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}).In(c.Bounds()) {
		return
	}
	c.buf[y*c.width+x] = uint32(FromColor(clr))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
