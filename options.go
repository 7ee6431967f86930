package eslookup

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/eslookup/codec"
)

type options struct {
	codec             codec.Codec
	logger            *Logger
	metrics           MetricsCollector
	clock             func() time.Time
	zone              *time.Location
	limiter           *rate.Limiter
	maxRetries        int
	maxResults        int
	allowMissingIndex bool
}

// Option configures executor construction. Builders assemble options from
// their fluent configuration; options primarily exist to avoid exploding the
// constructor surface.
type Option func(*options)

// WithCodec configures the codec used to decode document bodies.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
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
		o.metrics = mc
	}
}

// WithClock injects the reference-time source used for time segments in
// dynamic index patterns. Defaults to time.Now. Inject a fixed clock for
// deterministic resolution in tests.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithTimeZone configures the zone used to render date-formatted index
// segments. Defaults to the process-local zone.
func WithTimeZone(zone *time.Location) Option {
	return func(o *options) {
		if zone != nil {
			o.zone = zone
		}
	}
}

// WithRateLimiter configures a client-side limit on lookup calls.
// Pass nil to disable limiting.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(o *options) {
		o.limiter = l
	}
}

// WithMaxRetries configures how many times a retryable lookup failure is
// retried before it is surfaced. Default 0: fail fast and let the engine's
// task-failure path decide.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRetries = n
		}
	}
}

// WithMaxResults caps the number of documents one lookup may return by
// setting the query size. Default 0 leaves the store's default page size in
// effect.
func WithMaxResults(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxResults = n
		}
	}
}

// WithAllowMissingIndex maps a 404 for the resolved index to "no match"
// instead of a lookup failure. Useful with dynamic patterns that may resolve
// to indices that do not exist yet.
func WithAllowMissingIndex(allow bool) Option {
	return func(o *options) {
		o.allowMissingIndex = allow
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:   codec.Default,
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
		clock:   time.Now,
		zone:    time.Local,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
