package datatable

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with datatable-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogAppend logs a row or column append operation.
func (l *Logger) LogAppend(axis string, count, rows, cols int) {
	l.Debug("append completed",
		"axis", axis,
		"count", count,
		"rows", rows,
		"cols", cols,
	)
}

// LogResize logs a resize-with-retention operation.
func (l *Logger) LogResize(rows, cols int) {
	l.Debug("resize completed",
		"rows", rows,
		"cols", cols,
	)
}

// LogConcatenate logs a concatenation operation.
func (l *Logger) LogConcatenate(axis string, count int) {
	l.Debug("concatenate completed",
		"axis", axis,
		"count", count,
	)
}

// LogClear logs a table clear.
func (l *Logger) LogClear() {
	l.Debug("table cleared")
}
