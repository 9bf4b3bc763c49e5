package grapher

import (
	"errors"
	"time"

	"github.com/opd-ai/go-grapher/internal/canvas"
	"github.com/opd-ai/go-grapher/internal/config"
	"github.com/opd-ai/go-grapher/internal/glyph"
	"github.com/opd-ai/go-grapher/internal/plot"
)

// FrameStats describes one rendered frame.
type FrameStats struct {
	Frame  uint64
	Curves []CurveFrame
	// Points is the number of dataset points that were drawn.
	Points int
	// PlotFailures counts dataset points that fell outside the canvas.
	PlotFailures int
	// SampleErrors counts curve samples whose Lua call failed.
	SampleErrors int
	Duration     time.Duration
}

// CurveFrame is the drawing summary of one curve.
type CurveFrame struct {
	Name string
	plot.CurveStats
}

// render draws one frame of scene onto c. The caller holds g.mu.
func (g *Grapher) render(c *canvas.Canvas, scene *config.Scene, n uint64) (FrameStats, error) {
	stats := FrameStats{Frame: n}
	log := g.opts.Logger
	metrics := g.opts.Metrics

	if err := scene.BeginFrame(n); err != nil {
		metrics.IncrementHookErrors()
		log.Warn("frame hook failed", "frame", n, "error", err)
	}

	gc := scene.Config.Graph
	c.Clear(gc.Background)
	c.SetThickness(gc.Thickness)

	if fr, ok := g.opts.Glyphs.(*glyph.FaceRasterizer); ok {
		fr.SetColor(gc.AxisColor)
	}
	graph, err := plot.NewGraph(c, gc.Settings(),
		plot.WithGlyphs(g.opts.Glyphs),
		plot.WithAxisColor(gc.AxisColor),
		plot.WithGridColor(gc.GridColor),
		plot.WithLabelScale(gc.LabelScale),
	)
	if err != nil {
		return stats, err
	}
	graph.DrawAxes(gc.XStep, gc.YStep)

	for _, curve := range scene.Config.Curves {
		var cs plot.CurveStats
		if curve.Orientation == config.OrientationY {
			cs = graph.DrawInverseGraph(curve.Sampler, curve.Step, curve.Color)
		} else {
			cs = graph.DrawGraph(curve.Sampler, curve.Step, curve.Color)
		}
		metrics.RecordCurve(cs.Breaks, cs.Bridges)
		stats.Curves = append(stats.Curves, CurveFrame{Name: curve.Name, CurveStats: cs})
	}

	for _, ds := range scene.Config.Datasets {
		err := graph.PlotDataset(ds.Points, ds.Scale, ds.Color)
		failed := countErrors(err)
		stats.Points += len(ds.Points) - failed
		stats.PlotFailures += failed
		if failed > 0 && !g.warned[ds.Name] {
			g.warned[ds.Name] = true
			log.Warn("dataset points not drawn", "dataset", ds.Name, "failed", failed, "error", err)
		}
	}
	metrics.AddPlotFailures(stats.PlotFailures)

	if count, last := scene.DrainSampleErrors(); count > 0 {
		stats.SampleErrors = count
		metrics.AddSampleErrors(count)
		log.Debug("curve samples failed", "frame", n, "count", count, "error", last)
	}
	return stats, nil
}

// countErrors returns how many failures an errors.Join result holds.
func countErrors(err error) int {
	if err == nil {
		return 0
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return len(joined.Unwrap())
	}
	return 1
}
