// Package logger provides structured logging for civ7save.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is what the rest of civ7save logs through.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
}

// Config selects the level, encoding and sink of a logger.
type Config struct {
	Level     string    // debug, info, warn or error
	Format    string    // json, or text/console
	Output    io.Writer // nil means stderr
	AddSource bool
}

// DefaultConfig is info-level JSON on stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Output: os.Stderr}
}

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// level is shared by every logger built with New so SetLevel takes effect
// everywhere at once.
var level = new(slog.LevelVar)

type entry struct {
	sl  *slog.Logger
	ctx context.Context
}

// New builds a logger from cfg. Unknown levels fall back to info and
// unknown formats to JSON; callers validate with ValidLevel/ValidFormat.
func New(cfg Config) (Logger, error) {
	SetLevel(cfg.Level)

	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redact(a)
		},
	}

	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if f := strings.ToLower(cfg.Format); f == "text" || f == "console" {
		h = slog.NewTextHandler(w, opts)
	}
	return &entry{sl: slog.New(h), ctx: context.Background()}, nil
}

// SetLevel changes the level of all loggers made by New. Used on config
// reload.
func SetLevel(name string) {
	lv, ok := levelNames[strings.ToLower(name)]
	if !ok {
		lv = slog.LevelInfo
	}
	level.Set(lv)
}

// GetLevel reports the active level name.
func GetLevel() string {
	switch lv := level.Level(); {
	case lv <= slog.LevelDebug:
		return "debug"
	case lv >= slog.LevelError:
		return "error"
	case lv >= slog.LevelWarn:
		return "warn"
	}
	return "info"
}

// ValidLevel reports whether name is a level New understands.
func ValidLevel(name string) bool {
	_, ok := levelNames[strings.ToLower(name)]
	return ok
}

// ValidFormat reports whether name is an encoding New understands.
func ValidFormat(name string) bool {
	switch strings.ToLower(name) {
	case "json", "text", "console":
		return true
	}
	return false
}

func (e *entry) Debug(msg string, args ...any) { e.sl.DebugContext(e.ctx, msg, args...) }
func (e *entry) Info(msg string, args ...any)  { e.sl.InfoContext(e.ctx, msg, args...) }
func (e *entry) Warn(msg string, args ...any)  { e.sl.WarnContext(e.ctx, msg, args...) }
func (e *entry) Error(msg string, args ...any) { e.sl.ErrorContext(e.ctx, msg, args...) }

func (e *entry) With(args ...any) Logger {
	return &entry{sl: e.sl.With(args...), ctx: e.ctx}
}

func (e *entry) WithContext(ctx context.Context) Logger {
	return &entry{sl: e.sl, ctx: ctx}
}

// Nop discards everything.
func Nop() Logger {
	return &entry{sl: slog.New(slog.NewTextHandler(io.Discard, nil)), ctx: context.Background()}
}

var fallback atomic.Pointer[entry]

func init() {
	l, _ := New(DefaultConfig())
	fallback.Store(l.(*entry))
}

// SetDefault replaces the process-wide logger returned by Default.
// Loggers not created by this package are ignored.
func SetDefault(l Logger) {
	if e, ok := l.(*entry); ok {
		fallback.Store(e)
	}
}

// Default returns the process-wide logger.
func Default() Logger { return fallback.Load() }
