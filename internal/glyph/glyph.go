// Package glyph rasterizes label text into any draw.Image using
// golang.org/x/image font faces. The plotting engine treats it as an
// opaque service: a position, a scale and a string go in, pixels come out.
package glyph

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultGoMonoSize is the point size used for the Go Mono face.
const DefaultGoMonoSize = 10.0

// Rasterizer draws text into an image.
type Rasterizer interface {
	// DrawText draws s with its baseline-left origin at dot, in the
	// destination's own (top-left) coordinates. A scale above 1 enlarges
	// every glyph pixel into a scale x scale block. Glyphs falling outside
	// dst are clipped silently.
	DrawText(dst draw.Image, dot image.Point, scale int, s string)
}

// FaceRasterizer renders text with a single font face and color.
type FaceRasterizer struct {
	face  font.Face
	color color.Color
	mu    sync.Mutex
}

// NewBasic returns a rasterizer using the fixed 7x13 bitmap face.
func NewBasic() *FaceRasterizer {
	return &FaceRasterizer{face: basicfont.Face7x13, color: color.Black}
}

// NewGoMono returns a rasterizer using the embedded Go Mono font at size points.
func NewGoMono(size float64) (*FaceRasterizer, error) {
	if size <= 0 {
		size = DefaultGoMonoSize
	}
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return &FaceRasterizer{face: face, color: color.Black}, nil
}

// NewFace wraps an arbitrary font face.
func NewFace(face font.Face, clr color.Color) *FaceRasterizer {
	if clr == nil {
		clr = color.Black
	}
	return &FaceRasterizer{face: face, color: clr}
}

// SetColor changes the text color.
func (r *FaceRasterizer) SetColor(clr color.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.color = clr
}

// Face returns the underlying font face.
func (r *FaceRasterizer) Face() font.Face {
	return r.face
}

// Measure returns the size of s at the given scale: advance width and
// line height (ascent + descent).
func (r *FaceRasterizer) Measure(s string, scale int) image.Point {
	if scale < 1 {
		scale = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.face.Metrics()
	w := font.MeasureString(r.face, s).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	return image.Pt(w*scale, h*scale)
}

// DrawText implements Rasterizer.
func (r *FaceRasterizer) DrawText(dst draw.Image, dot image.Point, scale int, s string) {
	if s == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	src := image.NewUniform(r.color)
	if scale <= 1 {
		d := &font.Drawer{
			Dst:  dst,
			Src:  src,
			Face: r.face,
			Dot:  fixed.P(dot.X, dot.Y),
		}
		d.DrawString(s)
		return
	}

	// Render at native size into a transparent scratch image, then enlarge.
	m := r.face.Metrics()
	ascent := m.Ascent.Ceil()
	w := font.MeasureString(r.face, s).Ceil()
	h := ascent + m.Descent.Ceil()
	if w <= 0 || h <= 0 {
		return
	}

	scratch := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  scratch,
		Src:  src,
		Face: r.face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(s)

	origin := image.Pt(dot.X, dot.Y-ascent*scale)
	target := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w*scale, h*scale))}
	xdraw.NearestNeighbor.Scale(dst, target, scratch, scratch.Bounds(), xdraw.Over, nil)
}
