package eslookup

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordOpen is called after each open attempt. err is nil on success.
	RecordOpen(err error)

	// RecordLookup is called after each lookup call. duration is the total
	// time taken including retries, hits is the number of decoded rows,
	// err is nil if successful.
	RecordLookup(duration time.Duration, hits int, err error)

	// RecordRetry is called each time an attempt fails with a retryable
	// failure while retries are enabled.
	RecordRetry()

	// RecordClose is called after each close. err is nil on success.
	RecordClose(err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(error)                        {}
func (NoopMetricsCollector) RecordLookup(time.Duration, int, error)  {}
func (NoopMetricsCollector) RecordRetry()                            {}
func (NoopMetricsCollector) RecordClose(error)                       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OpenCount        atomic.Int64
	OpenErrors       atomic.Int64
	LookupCount      atomic.Int64
	LookupErrors     atomic.Int64
	LookupTotalNanos atomic.Int64
	HitsTotal        atomic.Int64
	EmptyResults     atomic.Int64
	RetryCount       atomic.Int64
	CloseCount       atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(err error) {
	b.OpenCount.Add(1)
	if err != nil {
		b.OpenErrors.Add(1)
	}
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(duration time.Duration, hits int, err error) {
	b.LookupCount.Add(1)
	b.LookupTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LookupErrors.Add(1)
		return
	}
	b.HitsTotal.Add(int64(hits))
	if hits == 0 {
		b.EmptyResults.Add(1)
	}
}

// RecordRetry implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRetry() {
	b.RetryCount.Add(1)
}

// RecordClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClose(err error) {
	b.CloseCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OpenCount:       b.OpenCount.Load(),
		OpenErrors:      b.OpenErrors.Load(),
		LookupCount:     b.LookupCount.Load(),
		LookupErrors:    b.LookupErrors.Load(),
		LookupAvgNanos:  b.getAvgLookupNanos(),
		HitsTotal:       b.HitsTotal.Load(),
		EmptyResults:    b.EmptyResults.Load(),
		RetryCount:      b.RetryCount.Load(),
		CloseCount:      b.CloseCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgLookupNanos() int64 {
	count := b.LookupCount.Load()
	if count == 0 {
		return 0
	}
	return b.LookupTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	OpenCount      int64
	OpenErrors     int64
	LookupCount    int64
	LookupErrors   int64
	LookupAvgNanos int64
	HitsTotal      int64
	EmptyResults   int64
	RetryCount     int64
	CloseCount     int64
}
