package kdsphere

import (
	"log/slog"
	"runtime"
)

type options struct {
	bounding         bool
	parallelism      int
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures index construction.
type Option func(*options)

// WithBounding configures whether the underlying k-d tree maintains
// bounding boxes to prune searches. Off by default; worth enabling for
// large indexes with many radius queries.
func WithBounding(bounding bool) Option {
	return func(o *options) {
		o.bounding = bounding
	}
}

// WithParallelism bounds the number of goroutines used by batch queries.
// Values below 1 reset to the default, runtime.GOMAXPROCS(0).
func WithParallelism(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.parallelism = n
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		parallelism:      runtime.GOMAXPROCS(0),
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
