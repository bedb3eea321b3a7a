package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"

	FormatText = "text"
	FormatJSON = "json"
)

// Options selects the logger implementation and its sink.
//
// An empty Format means text when stderr is a terminal and JSON otherwise.
// A non-empty File switches output to a size-rotated log file.
type Options struct {
	Backend string
	Level   string
	Format  string
	File    string

	// Output overrides the sink; used by tests.
	Output io.Writer
}

// New builds a Logger from opts. The returned close function flushes and
// releases the sink and is always non-nil.
func New(opts Options) (Logger, func() error, error) {
	w, closeSink := sink(opts)
	format := resolveFormat(opts.Format, opts.Output == nil && opts.File == "")

	switch strings.ToLower(opts.Backend) {
	case "", BackendSlog:
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(levelOrDefault(opts.Level))); err != nil {
			return nil, closeSink, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		hopts := &slog.HandlerOptions{Level: lvl}
		var h slog.Handler
		if format == FormatJSON {
			h = slog.NewJSONHandler(w, hopts)
		} else {
			h = slog.NewTextHandler(w, hopts)
		}
		return NewSlogLogger(slog.New(h)), closeSink, nil

	case BackendZap:
		lvl, err := zapcore.ParseLevel(levelOrDefault(opts.Level))
		if err != nil {
			return nil, closeSink, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

		var enc zapcore.Encoder
		if format == FormatJSON {
			enc = zapcore.NewJSONEncoder(encCfg)
		} else {
			enc = zapcore.NewConsoleEncoder(encCfg)
		}
		zl := NewZapLogger(zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl), zap.AddCaller()))
		return zl, func() error {
			_ = zl.Sync()
			return closeSink()
		}, nil

	default:
		return nil, closeSink, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}

func sink(opts Options) (io.Writer, func() error) {
	if opts.Output != nil {
		return opts.Output, func() error { return nil }
	}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		return lj, lj.Close
	}
	return os.Stderr, func() error { return nil }
}

func resolveFormat(format string, stderr bool) string {
	switch strings.ToLower(format) {
	case FormatJSON:
		return FormatJSON
	case FormatText:
		return FormatText
	}
	if stderr && term.IsTerminal(int(os.Stderr.Fd())) {
		return FormatText
	}
	return FormatJSON
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}
