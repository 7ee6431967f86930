package eslookup

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with eslookup-specific context.
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

// WithIndex adds the resolved index name to the logger.
func (l *Logger) WithIndex(index string) *Logger {
	return &Logger{
		Logger: l.Logger.With("index", index),
	}
}

// LogOpen logs executor open.
func (l *Logger) LogOpen(ctx context.Context, endpoints, sourceFields int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"endpoints", endpoints,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "executor opened",
			"endpoints", endpoints,
			"source_fields", sourceFields,
		)
	}
}

// LogLookup logs one lookup call.
func (l *Logger) LogLookup(ctx context.Context, index string, keyFields, hits int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "lookup failed",
			"index", index,
			"key_fields", keyFields,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "lookup completed",
			"index", index,
			"key_fields", keyFields,
			"hits", hits,
		)
	}
}

// LogClose logs executor close.
func (l *Logger) LogClose(err error) {
	if err != nil {
		l.Error("close failed", "error", err)
	} else {
		l.Debug("executor closed")
	}
}
