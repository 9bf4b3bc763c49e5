package plot

// Sampler is a scalar function evaluated once per sampled pixel.
// Implementations report undefined points by returning NaN or an infinity.
type Sampler interface {
	Sample(x float64) float64
}

// SamplerFunc adapts an ordinary function or closure to a Sampler.
type SamplerFunc func(x float64) float64

// Sample implements Sampler.
func (f SamplerFunc) Sample(x float64) float64 {
	return f(x)
}

// Point is a position in number space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}
