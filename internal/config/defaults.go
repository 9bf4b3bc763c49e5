package config

import (
	"github.com/opd-ai/go-grapher/internal/canvas"
	"github.com/opd-ai/go-grapher/internal/plot"
)

// Default values for scene options.
const (
	// DefaultTitle is the default window title.
	DefaultTitle = "Grapher"
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 720
	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 540
	// DefaultFPS is the default target frame rate.
	DefaultFPS = 60
	// DefaultWindowScale is the default window magnification.
	DefaultWindowScale = 1
	// DefaultAxisOffset is the default plot margin in pixels.
	DefaultAxisOffset = 20
	// DefaultAxisStep is the default tick spacing in number space.
	DefaultAxisStep = 1.0
	// DefaultThickness is the default line thickness.
	DefaultThickness = 2
	// DefaultCurveStep is the default pixel stride between curve samples.
	DefaultCurveStep = 1
	// DefaultPointScale is the default scatter point size.
	DefaultPointScale = 5
)

// Default colors.
var (
	DefaultBackground = canvas.White
	DefaultCurveColor = canvas.Red
	DefaultPointColor = canvas.Blue
)

// DefaultRange is the default number-space range of both axes.
var DefaultRange = plot.AxisRange{Min: 0, Max: 10}

// DefaultConfig returns a Config with no curves or datasets.
func DefaultConfig() Config {
	return Config{
		Window: DefaultWindowConfig(),
		Graph:  DefaultGraphConfig(),
	}
}

// DefaultWindowConfig returns a WindowConfig with default values.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Title:  DefaultTitle,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		FPS:    DefaultFPS,
		Scale:  DefaultWindowScale,
	}
}

// DefaultGraphConfig returns a GraphConfig with default values.
func DefaultGraphConfig() GraphConfig {
	return GraphConfig{
		AxisOffset: DefaultAxisOffset,
		X:          DefaultRange,
		Y:          DefaultRange,
		XStep:      DefaultAxisStep,
		YStep:      DefaultAxisStep,
		Thickness:  DefaultThickness,
		LabelScale: plot.DefaultLabelScale,
		Background: DefaultBackground,
		AxisColor:  plot.DefaultAxisColor,
		GridColor:  plot.DefaultGridColor,
	}
}
