package kdsphere

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with kdsphere-specific helpers.
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

// LogBuild logs index construction.
func (l *Logger) LogBuild(count int, duration time.Duration) {
	l.Info("index built",
		"points", count,
		"duration", duration,
	)
}

// LogQuery logs a k-NN query over a batch of query points.
func (l *Logger) LogQuery(ctx context.Context, k, queries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"k", k,
			"queries", queries,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"k", k,
			"queries", queries,
		)
	}
}

// LogBallQuery logs a radius query over a batch of query points or against
// another tree.
func (l *Logger) LogBallQuery(ctx context.Context, r float64, queries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "ball query failed",
			"radius", r,
			"queries", queries,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "ball query completed",
			"radius", r,
			"queries", queries,
		)
	}
}
