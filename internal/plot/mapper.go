package plot

import (
	"fmt"
	"math"
)

// AxisRange is the closed number-space interval [Min, Max] shown on one axis.
type AxisRange struct {
	Min float64
	Max float64
}

// Span returns Max - Min.
func (r AxisRange) Span() float64 { return r.Max - r.Min }

// Contains reports whether v lies in [Min, Max].
func (r AxisRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Validate checks that the range is finite and non-empty.
func (r AxisRange) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("range [%v, %v] must be finite", r.Min, r.Max)
	}
	if r.Min >= r.Max {
		return fmt.Errorf("range min %v must be less than max %v", r.Min, r.Max)
	}
	return nil
}

// ToWindowSpace maps value from r onto the pixel interval
// [offset, dimension-offset]. The scaled distance is truncated toward zero
// before the offset is added; gap detection in DrawGraph depends on this.
func ToWindowSpace(value float64, r AxisRange, dimension, offset int) int {
	numerator := (value - r.Min) * float64(dimension-2*offset)
	return int(numerator/r.Span()) + offset
}

// ToNumberSpace is the inverse of ToWindowSpace, up to one pixel's worth
// of truncation.
func ToNumberSpace(pixel int, r AxisRange, dimension, offset int) float64 {
	t := float64(pixel-offset) / float64(dimension-2*offset)
	return r.Min + r.Span()*t
}

// Mapper binds both axis ranges to a canvas size and margin.
type Mapper struct {
	X, Y          AxisRange
	Width, Height int
	Offset        int
}

// axis selects the range and pixel dimension for one axis.
func (m Mapper) axis(isY bool) (AxisRange, int) {
	if isY {
		return m.Y, m.Height
	}
	return m.X, m.Width
}

// ToWindow maps a number-space coordinate on the chosen axis to a pixel.
func (m Mapper) ToWindow(isY bool, v float64) int {
	r, dim := m.axis(isY)
	return ToWindowSpace(v, r, dim, m.Offset)
}

// ToNumber maps a pixel on the chosen axis back to number space.
func (m Mapper) ToNumber(isY bool, p int) float64 {
	r, dim := m.axis(isY)
	return ToNumberSpace(p, r, dim, m.Offset)
}

// PixelSize returns the number-space width of one pixel on the chosen axis.
func (m Mapper) PixelSize(isY bool) float64 {
	r, dim := m.axis(isY)
	return r.Span() / float64(dim-2*m.Offset)
}
