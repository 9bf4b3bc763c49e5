package grapher

import (
	"expvar"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics counts frames and failures across the lifetime of a Grapher.
// All methods are safe for concurrent use.
//
// RegisterExpvar publishes the counters under grapher_* names, so a process
// that imports expvar's HTTP handler exposes them at /debug/vars.
type Metrics struct {
	frames         atomic.Int64
	presentErrors  atomic.Int64
	plotFailures   atomic.Int64
	curveBreaks    atomic.Int64
	curveBridges   atomic.Int64
	sampleErrors   atomic.Int64
	hookErrors     atomic.Int64
	reloads        atomic.Int64
	reloadFailures atomic.Int64

	renderNs    atomic.Int64
	renderCount atomic.Int64

	running atomic.Bool
}

// NewMetrics returns zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
	expvarOnce         sync.Once
)

// DefaultMetrics returns the process-wide Metrics used when Options.Metrics
// is nil.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() { defaultMetrics = NewMetrics() })
	return defaultMetrics
}

// RegisterExpvar publishes m with the expvar package. expvar names are
// global, so only the first call in a process has any effect.
func (m *Metrics) RegisterExpvar() {
	expvarOnce.Do(func() {
		counters := map[string]*atomic.Int64{
			"grapher_frames_total":          &m.frames,
			"grapher_present_errors_total":  &m.presentErrors,
			"grapher_plot_failures_total":   &m.plotFailures,
			"grapher_curve_breaks_total":    &m.curveBreaks,
			"grapher_curve_bridges_total":   &m.curveBridges,
			"grapher_sample_errors_total":   &m.sampleErrors,
			"grapher_hook_errors_total":     &m.hookErrors,
			"grapher_reloads_total":         &m.reloads,
			"grapher_reload_failures_total": &m.reloadFailures,
		}
		for name, c := range counters {
			expvar.Publish(name, expvar.Func(func() any { return c.Load() }))
		}
		expvar.Publish("grapher_running", expvar.Func(func() any { return m.running.Load() }))
		expvar.Publish("grapher_render_latency_avg_ms", expvar.Func(func() any {
			return float64(m.Snapshot().RenderLatencyAvg) / float64(time.Millisecond)
		}))
	})
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Frames         int64
	PresentErrors  int64
	PlotFailures   int64
	CurveBreaks    int64
	CurveBridges   int64
	SampleErrors   int64
	HookErrors     int64
	Reloads        int64
	ReloadFailures int64

	Running          bool
	RenderLatencyAvg time.Duration
}

// Snapshot copies the current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Frames:           m.frames.Load(),
		PresentErrors:    m.presentErrors.Load(),
		PlotFailures:     m.plotFailures.Load(),
		CurveBreaks:      m.curveBreaks.Load(),
		CurveBridges:     m.curveBridges.Load(),
		SampleErrors:     m.sampleErrors.Load(),
		HookErrors:       m.hookErrors.Load(),
		Reloads:          m.reloads.Load(),
		ReloadFailures:   m.reloadFailures.Load(),
		Running:          m.running.Load(),
		RenderLatencyAvg: safeDivide(m.renderNs.Load(), m.renderCount.Load()),
	}
}

// RecordFrame counts one rendered frame and its render time.
func (m *Metrics) RecordFrame(d time.Duration) {
	m.frames.Add(1)
	m.renderNs.Add(d.Nanoseconds())
	m.renderCount.Add(1)
}

// RecordCurve adds the breaks and bridges of one drawn curve.
func (m *Metrics) RecordCurve(breaks, bridges int) {
	m.curveBreaks.Add(int64(breaks))
	m.curveBridges.Add(int64(bridges))
}

func (m *Metrics) AddPlotFailures(n int)    { m.plotFailures.Add(int64(n)) }
func (m *Metrics) AddSampleErrors(n int)    { m.sampleErrors.Add(int64(n)) }
func (m *Metrics) IncrementPresentErrors()  { m.presentErrors.Add(1) }
func (m *Metrics) IncrementHookErrors()     { m.hookErrors.Add(1) }
func (m *Metrics) IncrementReloads()        { m.reloads.Add(1) }
func (m *Metrics) IncrementReloadFailures() { m.reloadFailures.Add(1) }

// SetRunning updates the running gauge.
func (m *Metrics) SetRunning(running bool) { m.running.Store(running) }

// Reset zeroes every value. Intended for tests.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Int64{
		&m.frames, &m.presentErrors, &m.plotFailures, &m.curveBreaks,
		&m.curveBridges, &m.sampleErrors, &m.hookErrors, &m.reloads,
		&m.reloadFailures, &m.renderNs, &m.renderCount,
	} {
		c.Store(0)
	}
	m.running.Store(false)
}

func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}
