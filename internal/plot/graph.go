// Package plot maps number space onto a canvas and draws axes, sampled
// function curves and scatter points.
//
// A Graph wraps a canvas.Canvas together with the axis margin and the
// number-space ranges of both axes. Positions handed to the canvas are
// logical window coordinates measured from the bottom-left corner.
package plot

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"

	"github.com/opd-ai/go-grapher/internal/canvas"
	"github.com/opd-ai/go-grapher/internal/glyph"
)

// GapThreshold is the largest pixel distance between consecutive curve
// samples that is still drawn as separate points. Farther samples are
// joined by a line.
const GapThreshold = 2.0

// Default axis appearance.
const (
	DefaultAxisColor  = canvas.Black
	DefaultGridColor  = canvas.Grey
	DefaultLabelScale = 1
)

// Settings configures the plotting region of a Graph.
type Settings struct {
	// AxisOffset is the pixel margin kept free on every edge for the axes
	// and their labels.
	AxisOffset int
	// X is the number-space range of the horizontal axis.
	X AxisRange
	// Y is the number-space range of the vertical axis.
	Y AxisRange
}

// Validate checks the settings against a canvas size.
func (s Settings) Validate(width, height int) error {
	if s.AxisOffset < 0 {
		return fmt.Errorf("axis offset must be non-negative, got %d", s.AxisOffset)
	}
	if 2*s.AxisOffset >= width || 2*s.AxisOffset >= height {
		return fmt.Errorf("axis offset %d leaves no plotting region in %dx%d", s.AxisOffset, width, height)
	}
	if err := s.X.Validate(); err != nil {
		return fmt.Errorf("x axis: %w", err)
	}
	if err := s.Y.Validate(); err != nil {
		return fmt.Errorf("y axis: %w", err)
	}
	return nil
}

// CurveStats summarizes one DrawGraph call.
type CurveStats struct {
	// Samples is the number of evaluated pixel positions.
	Samples int
	// Points counts samples drawn as single scaled pixels.
	Points int
	// Bridges counts samples joined to their predecessor by a line.
	Bridges int
	// Breaks counts invalid samples that ended a curve segment.
	Breaks int
	// Segments counts disjoint curve pieces.
	Segments int
}

// GraphOption configures optional Graph behavior.
type GraphOption func(*Graph)

// WithGlyphs sets the rasterizer used for axis labels.
// Without one, axes are drawn unlabeled.
func WithGlyphs(r glyph.Rasterizer) GraphOption {
	return func(g *Graph) { g.glyphs = r }
}

// WithAxisColor sets the color of the two axis lines.
func WithAxisColor(c canvas.Color) GraphOption {
	return func(g *Graph) { g.axisColor = c }
}

// WithGridColor sets the color of the grid lines.
func WithGridColor(c canvas.Color) GraphOption {
	return func(g *Graph) { g.gridColor = c }
}

// WithLabelScale sets the glyph scale of axis labels.
func WithLabelScale(scale int) GraphOption {
	return func(g *Graph) {
		if scale > 0 {
			g.labelScale = scale
		}
	}
}

// Graph draws plots onto a canvas.
type Graph struct {
	canvas     *canvas.Canvas
	settings   Settings
	glyphs     glyph.Rasterizer
	axisColor  canvas.Color
	gridColor  canvas.Color
	labelScale int
}

// NewGraph wraps c with the given settings.
func NewGraph(c *canvas.Canvas, s Settings, opts ...GraphOption) (*Graph, error) {
	if c == nil {
		return nil, errors.New("canvas cannot be nil")
	}
	if err := s.Validate(c.Width(), c.Height()); err != nil {
		return nil, fmt.Errorf("invalid graph settings: %w", err)
	}

	g := &Graph{
		canvas:     c,
		settings:   s,
		axisColor:  DefaultAxisColor,
		gridColor:  DefaultGridColor,
		labelScale: DefaultLabelScale,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Canvas returns the wrapped canvas.
func (g *Graph) Canvas() *canvas.Canvas { return g.canvas }

// Settings returns the graph settings.
func (g *Graph) Settings() Settings { return g.settings }

// Mapper returns the coordinate mapper for the current canvas size.
func (g *Graph) Mapper() Mapper {
	return Mapper{
		X:      g.settings.X,
		Y:      g.settings.Y,
		Width:  g.canvas.Width(),
		Height: g.canvas.Height(),
		Offset: g.settings.AxisOffset,
	}
}

// DrawAxes draws both axes over the configured ranges.
func (g *Graph) DrawAxes(xStep, yStep float64) {
	g.DrawAxis(false, xStep, g.settings.X.Min, g.settings.X.Max)
	g.DrawAxis(true, yStep, g.settings.Y.Min, g.settings.Y.Max)
}

// DrawAxis draws one axis with a grid line and a numeric label every step
// units from min to max, plus the axis name near its far end.
func (g *Graph) DrawAxis(isY bool, step, min, max float64) {
	w, h := g.canvas.Width(), g.canvas.Height()
	off := g.settings.AxisOffset
	numOff := off / 2

	dim := w
	if isY {
		dim = h
	}

	if step > 0 && !math.IsInf(step, 0) && min < max {
		// A step wider than the canvas leaves only the first tick.
		stride := dim
		if px := step * float64(dim-2*off) / (max - min); px < float64(dim) {
			stride = int(px)
		}
		if stride < 1 {
			stride = 1
		}

		for i, p := 0, off; p <= dim-off; i, p = i+1, p+stride {
			var pos, end image.Point
			if isY {
				pos, end = image.Pt(off-numOff, p), image.Pt(w-off, p)
			} else {
				pos, end = image.Pt(p, off-numOff), image.Pt(p, h-off)
			}
			// The first tick sits on the axis itself.
			if p > off {
				g.canvas.DrawLine(pos, end, g.gridColor)
			}
			g.label(pos, formatTick(min+float64(i)*step))
		}
	}

	if isY {
		g.canvas.DrawLine(image.Pt(off, off), image.Pt(off, h-off), g.axisColor)
		g.label(image.Pt(off/2, h-off/2), "Y")
	} else {
		g.canvas.DrawLine(image.Pt(off, off), image.Pt(w-off, off), g.axisColor)
		g.label(image.Pt(w-off/2, off), "X")
	}
}

// label draws text with its baseline at the logical position pos.
func (g *Graph) label(pos image.Point, text string) {
	if g.glyphs == nil {
		return
	}
	dot := image.Pt(pos.X, g.canvas.Height()-pos.Y)
	g.glyphs.DrawText(g.canvas, dot, g.labelScale, text)
}

// formatTick renders a tick value with the shortest float32 representation,
// which hides accumulated float64 noise such as 0.30000000000000004.
func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 32)
}

// DrawGraph samples f at every step-th pixel column of the plotting region
// and draws y = f(x).
//
// A sample that is NaN, infinite or outside the y range breaks the curve.
// A valid sample within GapThreshold pixels of its predecessor is drawn as a
// scaled pixel of the current thickness; a farther one is joined to the
// predecessor with a line of twice the current thickness.
func (g *Graph) DrawGraph(f Sampler, step int, col canvas.Color) CurveStats {
	return g.drawCurve(f, step, col, false)
}

// DrawInverseGraph samples f at every step-th pixel row and draws x = f(y),
// with the same break and bridging rules as DrawGraph.
func (g *Graph) DrawInverseGraph(f Sampler, step int, col canvas.Color) CurveStats {
	return g.drawCurve(f, step, col, true)
}

// drawCurve runs the sampling loop. When inverse is set the roles of the
// axes are swapped: rows are sampled and the result is an x coordinate.
func (g *Graph) drawCurve(f Sampler, step int, col canvas.Color, inverse bool) CurveStats {
	var stats CurveStats
	if f == nil {
		return stats
	}
	if step < 1 {
		step = 1
	}

	m := g.Mapper()
	off := m.Offset
	dim, valueRange := m.Width, m.Y
	if inverse {
		dim, valueRange = m.Height, m.X
	}

	var (
		prev    image.Point
		hasPrev bool
	)
	for wp := off; wp <= dim-off; wp += step {
		stats.Samples++

		v := f.Sample(m.ToNumber(inverse, wp))
		if math.IsNaN(v) || math.IsInf(v, 0) || !valueRange.Contains(v) {
			if hasPrev {
				stats.Breaks++
			}
			hasPrev = false
			continue
		}

		wv := m.ToWindow(!inverse, v)
		pt := image.Pt(wp, wv)
		if inverse {
			pt = image.Pt(wv, wp)
		}

		switch {
		case !hasPrev:
			stats.Segments++
			stats.Points++
			g.drawSample(pt, col)
		case canvas.VecFromPoint(pt).Distance(canvas.VecFromPoint(prev)) <= GapThreshold:
			stats.Points++
			g.drawSample(pt, col)
		default:
			stats.Bridges++
			g.bridge(prev, pt, col)
		}
		prev, hasPrev = pt, true
	}
	return stats
}

// drawSample draws one curve point as a block sized by the line thickness.
func (g *Graph) drawSample(p image.Point, col canvas.Color) {
	_ = g.canvas.DrawScaledPixel(p.X, p.Y, g.canvas.Thickness(), col)
}

// bridge joins two distant samples with a double-thickness line.
func (g *Graph) bridge(from, to image.Point, col canvas.Color) {
	t := g.canvas.Thickness()
	g.canvas.SetThickness(t * 2)
	g.canvas.DrawLine(from, to, col)
	g.canvas.SetThickness(t)
}

// PlotOnGraph draws a number-space point as a scaled pixel block.
// Points mapping outside the canvas return an error matching
// canvas.ErrOutOfBounds.
func (g *Graph) PlotOnGraph(p Point, scale int, col canvas.Color) error {
	m := g.Mapper()
	wx := m.ToWindow(false, p.X)
	wy := m.ToWindow(true, p.Y)
	if err := g.canvas.DrawScaledPixel(wx, wy, scale, col); err != nil {
		return fmt.Errorf("plot (%v, %v): %w", p.X, p.Y, err)
	}
	return nil
}

// PlotDataset plots every point, continuing past failures. The returned
// error joins one wrapped error per failed point, or is nil.
func (g *Graph) PlotDataset(points []Point, scale int, col canvas.Color) error {
	var errs []error
	for i, p := range points {
		if err := g.PlotOnGraph(p, scale, col); err != nil {
			errs = append(errs, fmt.Errorf("point %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
