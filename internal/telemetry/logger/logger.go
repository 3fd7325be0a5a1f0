package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is implemented by every component that logs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
}

// Config selects the handler. Empty fields fall back to info, json and
// stderr.
type Config struct {
	Level     string
	Format    string // json or text
	Output    io.Writer
	AddSource bool
}

var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// level is shared by every logger built with New so SetLevel reaches all of
// them, including ones already handed to components.
var level = new(slog.LevelVar)

type slogLogger struct {
	base *slog.Logger
	ctx  context.Context
}

// New builds a logger from cfg and makes cfg.Level the shared level.
func New(cfg Config) (Logger, error) {
	lvl := slog.LevelInfo
	if cfg.Level != "" {
		l, ok := levels[strings.ToLower(cfg.Level)]
		if !ok {
			return nil, fmt.Errorf("unknown log level %q", cfg.Level)
		}
		lvl = l
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactAttr(a)
		},
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		h = slog.NewJSONHandler(out, opts)
	case "text":
		h = slog.NewTextHandler(out, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	level.Set(lvl)
	return &slogLogger{base: slog.New(h), ctx: context.Background()}, nil
}

// NewNop returns a logger that writes nothing.
func NewNop() Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})
	return &slogLogger{base: slog.New(h), ctx: context.Background()}
}

// ValidLevel reports whether name is an accepted level.
func ValidLevel(name string) bool {
	_, ok := levels[strings.ToLower(name)]
	return ok
}

// SetLevel changes the shared level. Unknown names are ignored.
func SetLevel(name string) {
	if l, ok := levels[strings.ToLower(name)]; ok {
		level.Set(l)
	}
}

// GetLevel returns the shared level name.
func GetLevel() string {
	switch l := level.Level(); {
	case l <= slog.LevelDebug:
		return "debug"
	case l <= slog.LevelInfo:
		return "info"
	case l <= slog.LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

func (l *slogLogger) log(lvl slog.Level, msg string, args []any) {
	l.base.Log(l.ctx, lvl, msg, args...)
}

func (l *slogLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }
func (l *slogLogger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args) }
func (l *slogLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{base: l.base.With(args...), ctx: l.ctx}
}

func (l *slogLogger) WithContext(ctx context.Context) Logger {
	return &slogLogger{base: l.base, ctx: ctx}
}

var fallback atomic.Value // Logger

func init() {
	l, _ := New(Config{Level: "info", Format: "json"})
	fallback.Store(holder{l})
}

// holder keeps atomic.Value's concrete type stable across Logger
// implementations.
type holder struct{ Logger }

// SetDefault replaces the logger returned by Default and FromContext.
func SetDefault(l Logger) {
	if l != nil {
		fallback.Store(holder{l})
	}
}

// Default returns the process-wide logger.
func Default() Logger {
	return fallback.Load().(holder).Logger
}
