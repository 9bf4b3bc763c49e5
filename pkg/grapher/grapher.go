package grapher

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-grapher/internal/canvas"
	"github.com/opd-ai/go-grapher/internal/config"
	"github.com/opd-ai/go-grapher/internal/surface"
)

//go:embed scenes/*.lua
var builtinScenes embed.FS

// DefaultScene is the path of the built-in scene inside BuiltinScenes.
const DefaultScene = "scenes/default.lua"

// BuiltinScenes returns the scenes shipped with the package.
func BuiltinScenes() fs.FS { return builtinScenes }

// ErrRunning is returned by Run when another Run is still active.
var ErrRunning = errors.New("grapher is already running")

// Status is a snapshot of a Grapher's state.
type Status struct {
	Source    string
	Running   bool
	Frames    uint64
	StartTime time.Time
	// FPS is the presented frame rate over the last second of Run.
	FPS       float64
	Curves    int
	Datasets  int
	Warnings  int
	LastError error
}

// Grapher renders a scene onto a surface, one frame per tick.
type Grapher struct {
	opts   Options
	source string
	// load re-reads the scene source; nil when the source cannot be read
	// twice.
	load      func() (*config.Scene, error)
	watchPath string

	mu        sync.Mutex
	scene     *config.Scene
	warned    map[string]bool
	frame     uint64
	closed    bool
	startTime time.Time
	rate      *frameRate
	lastErr   error

	running atomic.Bool

	handlerMu    sync.Mutex
	errorHandler func(error)
}

// New loads the scene file at path.
func New(path string, opts *Options) (*Grapher, error) {
	o := resolveOptions(opts)
	parser := newParser(o)
	return newGrapher(o, path, path, func() (*config.Scene, error) {
		return parser.ParseFile(path)
	})
}

// NewFromFS loads a scene from fsys. Scenes from an fs.FS can be reloaded
// but are never watched.
func NewFromFS(fsys fs.FS, path string, opts *Options) (*Grapher, error) {
	o := resolveOptions(opts)
	parser := newParser(o)
	return newGrapher(o, path, "", func() (*config.Scene, error) {
		return parser.ParseFromFS(fsys, path)
	})
}

// NewFromReader loads a scene read from r. The scene cannot be reloaded.
func NewFromReader(r io.Reader, opts *Options) (*Grapher, error) {
	o := resolveOptions(opts)
	scene, err := newParser(o).ParseReader(r)
	if err != nil {
		return nil, err
	}
	return newWithScene(o, "reader", scene), nil
}

// NewDefault loads the built-in default scene.
func NewDefault(opts *Options) (*Grapher, error) {
	return NewFromFS(builtinScenes, DefaultScene, opts)
}

func resolveOptions(opts *Options) Options {
	if opts == nil {
		return DefaultOptions().withDefaults()
	}
	return opts.withDefaults()
}

func newParser(o Options) *config.Parser {
	return config.NewParserWithRuntime(o.runtimeConfig()).WithStrictMode(o.Strict)
}

func newGrapher(o Options, source, watchPath string, load func() (*config.Scene, error)) (*Grapher, error) {
	scene, err := load()
	if err != nil {
		return nil, err
	}
	g := newWithScene(o, source, scene)
	g.load = load
	g.watchPath = watchPath
	return g, nil
}

func newWithScene(o Options, source string, scene *config.Scene) *Grapher {
	g := &Grapher{
		opts:   o,
		source: source,
		scene:  scene,
		warned: make(map[string]bool),
	}
	g.logScene("scene loaded", scene)
	return g
}

func (g *Grapher) logScene(msg string, scene *config.Scene) {
	for _, w := range scene.Warnings {
		g.opts.Logger.Warn("scene warning", "source", g.source, "field", w.Field, "message", w.Message)
	}
	g.opts.Logger.Info(msg,
		"source", g.source,
		"curves", len(scene.Config.Curves),
		"datasets", len(scene.Config.Datasets),
		"warnings", len(scene.Warnings))
}

// SetErrorHandler registers fn to receive errors that happen outside a
// caller's control, such as failed reloads triggered by the file watcher.
// fn runs on the watcher goroutine and must not block.
func (g *Grapher) SetErrorHandler(fn func(error)) {
	g.handlerMu.Lock()
	g.errorHandler = fn
	g.handlerMu.Unlock()
}

func (g *Grapher) reportError(err error) {
	g.mu.Lock()
	g.lastErr = err
	g.mu.Unlock()

	g.handlerMu.Lock()
	fn := g.errorHandler
	g.handlerMu.Unlock()
	if fn != nil {
		fn(err)
	} else {
		g.opts.Logger.Error("background error", "source", g.source, "error", err)
	}
}

// Config returns the configuration of the current scene.
func (g *Grapher) Config() config.Config {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scene.Config
}

// Metrics returns the metrics the Grapher records into.
func (g *Grapher) Metrics() *Metrics {
	return g.opts.Metrics
}

// Status returns a snapshot of the Grapher's state.
func (g *Grapher) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	var fps float64
	if g.rate != nil {
		fps = g.rate.value()
	}
	return Status{
		Source:    g.source,
		Running:   g.running.Load(),
		Frames:    g.frame,
		StartTime: g.startTime,
		FPS:       fps,
		Curves:    len(g.scene.Config.Curves),
		Datasets:  len(g.scene.Config.Datasets),
		Warnings:  len(g.scene.Warnings),
		LastError: g.lastErr,
	}
}

// RenderFrame draws the next frame of the current scene onto c.
func (g *Grapher) RenderFrame(c *canvas.Canvas) (FrameStats, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return FrameStats{}, ErrClosed
	}
	g.frame++
	n := g.frame

	start := time.Now()
	stats, err := g.render(c, g.scene, n)
	if err != nil {
		err = &FrameError{Frame: n, Op: "render", Err: err}
		g.lastErr = err
		return stats, err
	}
	stats.Duration = time.Since(start)
	g.opts.Metrics.RecordFrame(stats.Duration)
	return stats, nil
}

// Run renders frames onto s at the scene's frame rate until s closes, ctx
// is cancelled or the Grapher is closed, all of which return nil. A failed
// render or present ends the loop with a *FrameError.
//
// When Options.WatchConfig is set and the scene came from a file, the file
// is watched for the duration of Run.
func (g *Grapher) Run(ctx context.Context, s surface.Surface) error {
	if s == nil {
		return ErrNilSurface
	}
	if !g.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer g.running.Store(false)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	window := g.scene.Config.Window
	g.startTime = time.Now()
	rate := newFrameRate(time.Second, g.startTime)
	g.rate = rate
	g.mu.Unlock()

	g.opts.Metrics.SetRunning(true)
	defer g.opts.Metrics.SetRunning(false)

	if g.opts.WatchConfig && g.watchPath != "" {
		w, err := newSceneWatcher(g.watchPath, g.opts.WatchDebounce, g.ReloadConfig, g.reportError)
		if err != nil {
			g.opts.Logger.Warn("scene watching disabled", "source", g.source, "error", err)
		} else {
			defer w.Close()
		}
	}

	var tick <-chan time.Time
	if !g.opts.Unpaced {
		ticker := time.NewTicker(time.Second / time.Duration(window.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	c := canvas.New(window.Width, window.Height)
	g.opts.Logger.Info("render loop started",
		"width", window.Width, "height", window.Height, "fps", window.FPS)
	defer func() {
		g.opts.Logger.Info("render loop stopped", "frames", g.Status().Frames)
	}()

	for s.IsOpen() {
		if ctx.Err() != nil {
			return nil
		}

		stats, err := g.RenderFrame(c)
		if errors.Is(err, ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.Present(c.Buffer(), c.Width(), c.Height()); err != nil {
			if errors.Is(err, surface.ErrClosed) {
				return nil
			}
			g.opts.Metrics.IncrementPresentErrors()
			err = &FrameError{Frame: stats.Frame, Op: "present", Err: err}
			g.mu.Lock()
			g.lastErr = err
			g.mu.Unlock()
			return err
		}
		rate.tick(time.Now())

		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		}
	}
	return nil
}

// ReloadConfig re-reads the scene source and swaps in the new scene. If the
// new scene fails to load the current one stays active.
func (g *Grapher) ReloadConfig() error {
	if g.load == nil {
		return ErrNotReloadable
	}

	scene, err := g.load()
	if err != nil {
		g.opts.Metrics.IncrementReloadFailures()
		g.opts.Logger.Warn("scene reload failed, keeping current scene", "source", g.source, "error", err)
		return fmt.Errorf("reload %s: %w", g.source, err)
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		scene.Close()
		return ErrClosed
	}
	old := g.scene
	g.scene = scene
	g.warned = make(map[string]bool)
	g.mu.Unlock()

	if ow, nw := old.Config.Window, scene.Config.Window; ow.Width != nw.Width || ow.Height != nw.Height {
		g.opts.Logger.Warn("window size change applies on restart",
			"old", fmt.Sprintf("%dx%d", ow.Width, ow.Height),
			"new", fmt.Sprintf("%dx%d", nw.Width, nw.Height))
	}
	if err := old.Close(); err != nil {
		g.opts.Logger.Warn("closing previous scene", "source", g.source, "error", err)
	}

	g.opts.Metrics.IncrementReloads()
	g.logScene("scene reloaded", scene)
	return nil
}

// Close releases the scene and its Lua runtime after running the scene's
// shutdown hook. A running Run returns after its current frame.
func (g *Grapher) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	scene := g.scene
	g.mu.Unlock()

	return scene.Close()
}
