// Package config loads go-grapher scenes.
// A scene is a Lua file that fills in the global plot table: window
// settings, graph settings, curves given as Lua functions, and point
// datasets.
package config

import (
	"fmt"
	"image"

	"github.com/opd-ai/go-grapher/internal/canvas"
	"github.com/opd-ai/go-grapher/internal/plot"
)

// Config is the complete, parsed description of a scene.
type Config struct {
	// Window controls the host surface.
	Window WindowConfig
	// Graph controls the plotting region and axes.
	Graph GraphConfig
	// Curves are drawn in order after the axes.
	Curves []CurveConfig
	// Datasets are plotted in order after the curves.
	Datasets []DatasetConfig
}

// WindowConfig holds window settings.
type WindowConfig struct {
	// Title is shown in the window title bar. Environment references are
	// expanded while parsing.
	Title string
	// Width is the canvas width in pixels.
	Width int
	// Height is the canvas height in pixels.
	Height int
	// FPS is the target frame rate.
	FPS int
	// Scale magnifies the window relative to the canvas.
	Scale int
	// Position is the window's top-left screen position, used only when
	// Positioned is set.
	Position   image.Point
	Positioned bool
	// OnTop asks the window manager to keep the window above others.
	OnTop bool
}

// GraphConfig holds the plotting region, axis and line settings.
type GraphConfig struct {
	// AxisOffset is the pixel margin reserved around the plotting region.
	AxisOffset int
	// X and Y are the number-space ranges shown on each axis.
	X, Y plot.AxisRange
	// XStep and YStep are the tick spacings in number space.
	XStep, YStep float64
	// Thickness is the canvas line thickness.
	Thickness int
	// LabelScale is the glyph scale of axis labels.
	LabelScale int
	// Background clears the canvas every frame.
	Background canvas.Color
	// AxisColor and GridColor color the axes and grid lines.
	AxisColor canvas.Color
	GridColor canvas.Color
}

// Settings returns the plot settings described by g.
func (g GraphConfig) Settings() plot.Settings {
	return plot.Settings{AxisOffset: g.AxisOffset, X: g.X, Y: g.Y}
}

// Orientation selects which axis a curve's function is sampled along.
type Orientation int

const (
	// OrientationX samples along x and draws y = f(x).
	OrientationX Orientation = iota
	// OrientationY samples along y and draws x = f(y).
	OrientationY
)

// String returns the string representation of an Orientation.
func (o Orientation) String() string {
	switch o {
	case OrientationX:
		return "x"
	case OrientationY:
		return "y"
	default:
		return "unknown"
	}
}

// ParseOrientation parses "x" or "y".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "x", "":
		return OrientationX, nil
	case "y":
		return OrientationY, nil
	default:
		return OrientationX, fmt.Errorf("unknown orientation: %s", s)
	}
}

// CurveConfig describes one sampled function.
type CurveConfig struct {
	// Name identifies the curve in logs and metrics.
	Name string
	// Sampler evaluates the curve. Scenes provide a Lua function.
	Sampler plot.Sampler
	// Color of the curve.
	Color canvas.Color
	// Step is the pixel stride between samples.
	Step int
	// Orientation selects DrawGraph or DrawInverseGraph.
	Orientation Orientation
}

// DatasetConfig describes a set of scatter points.
type DatasetConfig struct {
	Name   string
	Points []plot.Point
	// Scale is the pixel block size of each point.
	Scale int
	Color canvas.Color
}
