package logging

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logg is the process-wide logger. It defaults to slog's default logger
// so packages can log before main configures it.
var Logg = slog.Default()

// NewLogger builds a logger.
//
//	level         debug | info | warn | error
//	consoleFormat text | json | zap
//	fileFormat    text | json
//	output        console | file | both
//	filePattern   time layout for the log file name, e.g. "logs/2006-01-02.log"
func NewLogger(level, consoleFormat, fileFormat, output, filePattern string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handlers []slog.Handler
	if output == "console" || output == "both" {
		if consoleFormat == "zap" {
			handlers = append(handlers, newZapHandler(opts.Level.Level()))
		} else {
			handlers = append(handlers, NewColorHandler(os.Stdout, consoleFormat, opts))
		}
	}
	if (output == "file" || output == "both") && filePattern != "" {
		rotator := &lumberjack.Logger{
			Filename:   time.Now().Format(filePattern),
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		}
		if fileFormat == "json" {
			handlers = append(handlers, slog.NewJSONHandler(rotator, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(rotator, opts))
		}
	}

	switch len(handlers) {
	case 0:
		return nil
	case 1:
		return slog.New(handlers[0])
	}
	return slog.New(multiHandler(handlers))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func newZapHandler(level slog.Level) slog.Handler {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(level / 4))
	logg := zap.Must(cfg.Build())
	return zapslog.NewHandler(logg.Core(), nil)
}

// multiHandler fans a record out to every handler that accepts its level.
type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
