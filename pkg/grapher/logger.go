package grapher

import (
	"io"
	"log/slog"
	"os"
)

// Logger receives diagnostic messages from a Grapher. Arguments after msg
// are alternating key-value pairs, as with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter lets a *slog.Logger serve as a Logger.
//
//	opts := grapher.DefaultOptions()
//	opts.Logger = grapher.NewSlogAdapter(slog.Default().With("scene", path))
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger. A nil logger means slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.logger.Debug(msg, args...) }
func (s *SlogAdapter) Info(msg string, args ...any)  { s.logger.Info(msg, args...) }
func (s *SlogAdapter) Warn(msg string, args ...any)  { s.logger.Warn(msg, args...) }
func (s *SlogAdapter) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

// LogFormat selects the slog handler used by NewLogger.
type LogFormat int

const (
	// LogText writes logfmt-style lines.
	LogText LogFormat = iota
	// LogJSON writes one JSON object per record.
	LogJSON
)

// NewLogger builds a Logger writing to w (stderr when nil) in the given
// format. Debug level records also carry their source location.
func NewLogger(w io.Writer, format LogFormat, level slog.Level) Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler
	switch format {
	case LogJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return &SlogAdapter{logger: slog.New(handler)}
}

// DefaultLogger logs text at Info level to stderr.
func DefaultLogger() Logger {
	return NewLogger(os.Stderr, LogText, slog.LevelInfo)
}

// NopLogger discards everything.
func NopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
