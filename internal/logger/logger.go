// Package logger provides levelled logging for the Sercha inspector.
// Warnings and errors are always printed to stderr; when verbose mode is
// enabled via the --verbose flag, debug and info messages are printed too,
// showing each analyzer attempt as the engine walks the input.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	level             = new(slog.LevelVar)
	base              = newBase(output)
)

func init() {
	level.Set(slog.LevelWarn)
}

func newBase(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelWarn)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = newBase(w)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// For returns a structured logger tagged with component. The logger
// resolves the output on every record, so it follows later SetOutput calls.
func For(component string) *slog.Logger {
	return slog.New(&lazyHandler{}).With("component", component)
}

// lazyHandler forwards records to the handler current at the time of the
// call, replaying the attributes and groups it was derived with.
type lazyHandler struct {
	derive []func(slog.Handler) slog.Handler
}

func (h *lazyHandler) resolve() slog.Handler {
	handler := current().Handler()
	for _, d := range h.derive {
		handler = d(handler)
	}
	return handler
}

func (h *lazyHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return current().Handler().Enabled(ctx, l)
}

func (h *lazyHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.resolve().Handle(ctx, r)
}

func (h *lazyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.with(func(next slog.Handler) slog.Handler { return next.WithAttrs(attrs) })
}

func (h *lazyHandler) WithGroup(name string) slog.Handler {
	return h.with(func(next slog.Handler) slog.Handler { return next.WithGroup(name) })
}

func (h *lazyHandler) with(d func(slog.Handler) slog.Handler) *lazyHandler {
	derive := make([]func(slog.Handler) slog.Handler, 0, len(h.derive)+1)
	return &lazyHandler{derive: append(append(derive, h.derive...), d)}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	current().Debug(fmt.Sprintf(format, args...))
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	current().Info(fmt.Sprintf(format, args...))
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	current().Warn(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func Error(format string, args ...any) {
	current().Error(fmt.Sprintf(format, args...))
}
