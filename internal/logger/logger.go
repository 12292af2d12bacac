// Package logger provides structured slog-based logging with deterministic
// key ordering and an asynchronous writer, shared by every component of the bot.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Config controls logger initialization.
type Config struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var (
	// L is the root logger. Components derive their own via Component.
	L *slog.Logger = slog.Default()

	initMu  sync.Mutex
	rootAW  *asyncWriter
	rootSet bool
)

// Init configures the root logger from config. Safe to call once at startup.
func Init(cfg Config) error {
	initMu.Lock()
	defer initMu.Unlock()

	aw := newAsyncWriter([]io.Writer{os.Stdout}, 4096)
	h := newStructuredHandler(handlerConfig{
		level:    parseLevel(cfg.Level),
		writer:   aw,
		format:   parseFormat(cfg.Format),
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})

	if rootSet && rootAW != nil {
		_ = rootAW.Close()
	}
	rootAW = aw
	rootSet = true
	L = slog.New(h)
	slog.SetDefault(L)
	return nil
}

// Shutdown flushes and closes the async writer. Call on process exit.
func Shutdown() error {
	initMu.Lock()
	defer initMu.Unlock()
	if rootAW == nil {
		return nil
	}
	if err := rootAW.Flush(); err != nil {
		return fmt.Errorf("logger flush: %w", err)
	}
	err := rootAW.Close()
	rootAW = nil
	return err
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseFormat(s string) logFormat {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return formatJSON
	}
	return formatKV
}

// Component returns a child logger tagged with a component name.
func Component(name string) *slog.Logger {
	return L.With("component", name)
}

// Background returns a base context for code running outside an update.
func Background() context.Context {
	return context.Background()
}

// LogEvent emits a record with the unified event attribute.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = L
	}
	all := make([]slog.Attr, 0, len(attrs)+1)
	all = append(all, slog.String("event", event))
	all = append(all, attrs...)
	logg.LogAttrs(ctx, level, event, all...)
}

// Debug logs a debug event for the named component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelDebug, event, attrs...)
}

// Info logs an info event for the named component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelInfo, event, attrs...)
}

// Warn logs a warning event for the named component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelWarn, event, attrs...)
}

// Error logs an error event for the named component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), slog.LevelError, event, attrs...)
}

// Status maps an error to a unified status string for logs.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RoundMS rounds a duration to the nearest millisecond for compact logging.
func RoundMS(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d.Round(time.Millisecond)
}

// Took returns the rounded duration since start.
func Took(start time.Time) time.Duration {
	return RoundMS(time.Since(start))
}
