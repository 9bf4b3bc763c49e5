package grapher

import (
	"io"
	"time"

	"github.com/opd-ai/go-grapher/internal/glyph"
	"github.com/opd-ai/go-grapher/internal/lua"
)

// Options configures a Grapher. The zero value is usable.
type Options struct {
	// Logger receives diagnostics. If nil, nothing is logged.
	Logger Logger

	// Metrics collects frame and failure counters.
	// If nil, DefaultMetrics() is used.
	Metrics *Metrics

	// Glyphs rasterizes axis labels. If nil, the 7x13 bitmap face is used.
	Glyphs glyph.Rasterizer

	// LuaCPULimit caps the instructions of one Lua call.
	// Zero means the default of 10 million.
	LuaCPULimit uint64

	// LuaMemoryLimit caps the memory of one Lua call in bytes.
	// Zero means the default of 50 MB.
	LuaMemoryLimit uint64

	// LuaStdout receives output of the Lua print function.
	// Nil discards it.
	LuaStdout io.Writer

	// Strict turns scene validation warnings into errors.
	Strict bool

	// WatchConfig reloads a file-backed scene whenever it changes on disk.
	WatchConfig bool

	// WatchDebounce is the quiet period before a changed scene is reloaded.
	// Zero means DefaultWatchDebounce.
	WatchDebounce time.Duration

	// Unpaced renders frames back to back instead of at window.fps.
	// Surfaces that block in Present still pace the loop.
	Unpaced bool
}

// DefaultOptions returns the options used when nil is passed to New.
func DefaultOptions() Options {
	return Options{
		Logger:  NopLogger(),
		Metrics: DefaultMetrics(),
	}
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = NopLogger()
	}
	if o.Metrics == nil {
		o.Metrics = DefaultMetrics()
	}
	if o.Glyphs == nil {
		o.Glyphs = glyph.NewBasic()
	}
	return o
}

func (o Options) runtimeConfig() lua.RuntimeConfig {
	cfg := lua.DefaultConfig()
	if o.LuaCPULimit > 0 {
		cfg.CPULimit = o.LuaCPULimit
	}
	if o.LuaMemoryLimit > 0 {
		cfg.MemoryLimit = o.LuaMemoryLimit
	}
	cfg.Stdout = o.LuaStdout
	return cfg
}
