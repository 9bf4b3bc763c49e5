// Package main is the grapher command. It plots the curves and datasets of
// a Lua scene file in a window, or renders a fixed number of frames
// headless.
package main

import (
	"context"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-grapher/internal/surface"
	"github.com/opd-ai/go-grapher/pkg/grapher"
)

// Version is the grapher version, overridable at build time with
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

type cliFlags struct {
	scene      string
	version    bool
	headless   bool
	frames     uint64
	watch      bool
	strict     bool
	debug      bool
	jsonLog    bool
	debugAddr  string
	cpuProfile string
	memProfile string
}

func parseFlags(args []string, stderr io.Writer) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("grapher", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.scene, "c", "", "Path to a Lua scene file (default: built-in scene)")
	fs.BoolVar(&f.version, "v", false, "Print version and exit")
	fs.BoolVar(&f.headless, "headless", false, "Render without a window")
	fs.Uint64Var(&f.frames, "frames", 0, "Number of frames to render headless (0 means 1)")
	fs.BoolVar(&f.watch, "watch", false, "Reload the scene file when it changes")
	fs.BoolVar(&f.strict, "strict", false, "Treat scene warnings as errors")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.jsonLog, "json-log", false, "Log in JSON format")
	fs.StringVar(&f.debugAddr, "debug-addr", "", "Serve expvar metrics at http://ADDR/debug/vars")
	fs.StringVar(&f.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&f.memProfile, "memprofile", "", "Write memory profile to file")

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if fs.NArg() > 0 {
		return f, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if f.frames > 0 && !f.headless {
		return f, errors.New("-frames requires -headless")
	}
	return f, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "grapher: %v\n", err)
		return 2
	}
	if f.version {
		fmt.Fprintf(stdout, "grapher version %s\n", Version)
		return 0
	}

	stopProfiling, err := startProfiling(f.cpuProfile, f.memProfile)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to start profiling: %v\n", err)
		return 1
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			fmt.Fprintf(stderr, "Warning: %v\n", err)
		}
	}()

	logger := newLogger(f, stderr)
	metrics := grapher.DefaultMetrics()
	opts := &grapher.Options{
		Logger:      logger,
		Metrics:     metrics,
		LuaStdout:   stdout,
		Strict:      f.strict,
		WatchConfig: f.watch,
		Unpaced:     f.headless,
	}

	g, err := loadScene(f.scene, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading scene: %v\n", err)
		return 1
	}
	defer func() {
		if err := g.Close(); err != nil {
			logger.Warn("closing scene", "error", err)
		}
	}()
	g.SetErrorHandler(func(err error) {
		logger.Warn("background reload failed", "error", err)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go reloadOnHangup(ctx, g, logger)

	if f.debugAddr != "" {
		shutdown, err := serveDebug(f.debugAddr, metrics, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to start debug server: %v\n", err)
			return 1
		}
		defer shutdown()
	}

	if f.headless {
		err = runHeadless(ctx, g, f, logger)
	} else {
		err = runWindow(ctx, cancel, g, logger)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(f cliFlags, w io.Writer) grapher.Logger {
	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	format := grapher.LogText
	if f.jsonLog {
		format = grapher.LogJSON
	}
	return grapher.NewLogger(w, format, level)
}

func loadScene(path string, opts *grapher.Options) (*grapher.Grapher, error) {
	if path == "" {
		return grapher.NewDefault(opts)
	}
	return grapher.New(path, opts)
}

// reloadOnHangup reloads the scene on SIGHUP until ctx is done.
func reloadOnHangup(ctx context.Context, g *grapher.Grapher, logger grapher.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Info("received SIGHUP, reloading scene")
			if err := g.ReloadConfig(); err != nil {
				logger.Warn("reload failed", "error", err)
			}
		}
	}
}

// serveDebug publishes metrics through expvar and serves /debug/vars on
// addr. The returned function shuts the server down.
func serveDebug(addr string, metrics *grapher.Metrics, logger grapher.Logger) (func(), error) {
	metrics.RegisterExpvar()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("debug server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "url", "http://"+ln.Addr().String()+"/debug/vars")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}, nil
}

func runHeadless(ctx context.Context, g *grapher.Grapher, f cliFlags, logger grapher.Logger) error {
	frames := f.frames
	if frames == 0 {
		frames = 1
	}
	window := g.Config().Window
	h := surface.NewHeadless(window.Width, window.Height, frames)

	if err := g.Run(ctx, h); err != nil {
		return err
	}

	snap := g.Metrics().Snapshot()
	logger.Info("headless run finished",
		"frames", h.Frames(),
		"render_avg", snap.RenderLatencyAvg,
		"curve_breaks", snap.CurveBreaks,
		"plot_failures", snap.PlotFailures,
		"sample_errors", snap.SampleErrors)
	if h.Frames() < frames && ctx.Err() == nil {
		return fmt.Errorf("rendered %d of %d frames", h.Frames(), frames)
	}
	return nil
}

// runWindow runs the window on the calling goroutine, which must be the main
// one, and the frame loop beside it.
func runWindow(ctx context.Context, cancel context.CancelFunc, g *grapher.Grapher, logger grapher.Logger) error {
	window := g.Config().Window
	win, err := surface.NewWindow(surface.Options{
		Title:      window.Title,
		Width:      window.Width,
		Height:     window.Height,
		Scale:      window.Scale,
		TPS:        window.FPS,
		X:          window.Position.X,
		Y:          window.Position.Y,
		Positioned: window.Positioned,
		OnTop:      window.OnTop,
		OnError: func(err error) {
			logger.Warn("window hint failed", "error", err)
		},
	})
	if err != nil {
		return err
	}

	loopErr := make(chan error, 1)
	go func() {
		err := g.Run(ctx, win)
		win.Close()
		loopErr <- err
	}()
	go func() {
		<-ctx.Done()
		win.Close()
	}()

	winErr := win.Run()
	if errors.Is(winErr, surface.ErrClosed) {
		// The frame loop failed and closed the window before it opened.
		winErr = nil
	}
	cancel()
	return errors.Join(winErr, <-loopErr)
}
