package canvas

import (
	"image"
	"math"
)

// Vec2 is a two-component float vector used for stroke offsets and
// distance checks between window-space points.
type Vec2 struct {
	X, Y float64
}

// VecFromPoint converts an integer point to a Vec2.
func VecFromPoint(p image.Point) Vec2 {
	return Vec2{X: float64(p.X), Y: float64(p.Y)}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Distance returns the Euclidean distance between v and o.
func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Len() }

// Rotate90 rotates v a quarter turn counter-clockwise.
func (v Vec2) Rotate90() Vec2 { return Vec2{-v.Y, v.X} }

// Normalize returns the unit vector in the direction of v.
// The zero vector is returned unchanged.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec2{v.X / l, v.Y / l}
}

// WithMagnitude returns v rescaled to length m. The zero vector stays zero.
func (v Vec2) WithMagnitude(m float64) Vec2 {
	return v.Normalize().Scale(m)
}

// Trunc converts v to an integer point, truncating toward zero.
func (v Vec2) Trunc() image.Point {
	return image.Point{X: int(v.X), Y: int(v.Y)}
}
