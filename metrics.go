package kdsphere

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordBuild is called after index construction.
	// count is the number of indexed points, duration the build time.
	RecordBuild(count int, duration time.Duration)

	// RecordQuery is called after each k-NN query batch.
	// k is the number of neighbors requested, duration is the time taken,
	// err is nil if successful.
	RecordQuery(k int, duration time.Duration, err error)

	// RecordBallQuery is called after each radius query batch or join.
	// r is the great-circle search radius in radians.
	RecordBallQuery(r float64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration)                {}
func (NoopMetricsCollector) RecordQuery(int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordBallQuery(float64, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount          atomic.Int64
	BuildPoints         atomic.Int64
	QueryCount          atomic.Int64
	QueryErrors         atomic.Int64
	QueryTotalNanos     atomic.Int64
	BallQueryCount      atomic.Int64
	BallQueryErrors     atomic.Int64
	BallQueryTotalNanos atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(count int, duration time.Duration) {
	b.BuildCount.Add(1)
	b.BuildPoints.Add(int64(count))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(k int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordBallQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBallQuery(r float64, duration time.Duration, err error) {
	b.BallQueryCount.Add(1)
	b.BallQueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BallQueryErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:        b.BuildCount.Load(),
		BuildPoints:       b.BuildPoints.Load(),
		QueryCount:        b.QueryCount.Load(),
		QueryErrors:       b.QueryErrors.Load(),
		QueryAvgNanos:     avgNanos(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		BallQueryCount:    b.BallQueryCount.Load(),
		BallQueryErrors:   b.BallQueryErrors.Load(),
		BallQueryAvgNanos: avgNanos(b.BallQueryTotalNanos.Load(), b.BallQueryCount.Load()),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount        int64
	BuildPoints       int64
	QueryCount        int64
	QueryErrors       int64
	QueryAvgNanos     int64
	BallQueryCount    int64
	BallQueryErrors   int64
	BallQueryAvgNanos int64
}
