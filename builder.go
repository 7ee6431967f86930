// This file implements the fluent builder API for creating lookup executors.
// The builder is immutable - each method returns a new builder with the
// updated configuration.
package eslookup

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/eslookup/codec"
	"github.com/hupe1980/eslookup/model"
	"github.com/hupe1980/eslookup/project"
	"github.com/hupe1980/eslookup/transport"
)

// New creates a lookup executor builder for the given endpoint addresses.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration. All plan-time validation happens in Build: the job
// must not start on a configuration error.
//
// Example:
//
//	exec, err := eslookup.New("http://es1:9200", "http://es2:9200").
//	    Index("users").
//	    Schema(schema).
//	    Keys("id").
//	    BasicAuth("reader", "secret").
//	    SocketTimeout(30 * time.Second).
//	    Build()
func New(endpoints ...string) Builder {
	return Builder{
		endpoints: endpoints,
	}
}

// Builder is an immutable fluent builder for lookup executors.
// Each method returns a new builder with the updated configuration.
type Builder struct {
	endpoints []string
	index     string
	schema    *model.Schema
	keyFields []string

	codecName string
	codec     codec.Codec

	username   string
	password   string
	pathPrefix string

	connectTimeout           time.Duration
	connectionRequestTimeout time.Duration
	socketTimeout            time.Duration

	zone  *time.Location
	clock func() time.Time

	logger  *Logger
	metrics MetricsCollector

	maxRetries        int
	maxResults        int
	rateLimit         rate.Limit
	rateBurst         int
	allowMissingIndex bool
}

// Index sets the index-name pattern. Required. The pattern may contain
// dynamic segments (see package indexname).
func (b Builder) Index(pattern string) Builder {
	b.index = pattern
	return b
}

// Schema sets the physical output row schema. Required. Lookup results are
// restricted to exactly these fields.
func (b Builder) Schema(s *model.Schema) Builder {
	b.schema = s
	return b
}

// Keys declares the lookup-key field names in join order. Required; each
// name must reference an existing schema field.
func (b Builder) Keys(fields ...string) Builder {
	b.keyFields = fields
	return b
}

// Codec sets the document-body codec directly.
func (b Builder) Codec(c codec.Codec) Builder {
	b.codec = c
	return b
}

// CodecName selects a built-in codec by its configured identifier
// ("json" or "go-json"). Takes precedence over Codec.
func (b Builder) CodecName(name string) Builder {
	b.codecName = name
	return b
}

// Username sets the basic-auth username. Username and password must be set
// together; a blank value counts as unset.
func (b Builder) Username(username string) Builder {
	b.username = username
	return b
}

// Password sets the basic-auth password. Username and password must be set
// together; a blank value counts as unset.
func (b Builder) Password(password string) Builder {
	b.password = password
	return b
}

// BasicAuth sets username and password together.
func (b Builder) BasicAuth(username, password string) Builder {
	b.username = username
	b.password = password
	return b
}

// PathPrefix sets a URL path prefix prepended to every request.
func (b Builder) PathPrefix(prefix string) Builder {
	b.pathPrefix = prefix
	return b
}

// ConnectTimeout bounds TCP connection establishment. Unset leaves the
// client default.
func (b Builder) ConnectTimeout(d time.Duration) Builder {
	b.connectTimeout = d
	return b
}

// ConnectionRequestTimeout bounds one whole lookup call, applied as a
// per-call deadline. Unset leaves calls unbounded (beyond the other
// timeouts).
func (b Builder) ConnectionRequestTimeout(d time.Duration) Builder {
	b.connectionRequestTimeout = d
	return b
}

// SocketTimeout bounds the wait for response headers. Unset leaves the
// client default.
func (b Builder) SocketTimeout(d time.Duration) Builder {
	b.socketTimeout = d
	return b
}

// TimeZone sets the zone used for date-formatted index segments.
// Default: the process-local zone.
func (b Builder) TimeZone(zone *time.Location) Builder {
	b.zone = zone
	return b
}

// Clock injects the reference-time source for dynamic index resolution.
// Default: time.Now. Primarily for deterministic tests.
func (b Builder) Clock(clock func() time.Time) Builder {
	b.clock = clock
	return b
}

// Logger sets the structured logger for operation tracing.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// MaxRetries enables bounded retries of retryable lookup failures.
// Default 0: fail fast.
func (b Builder) MaxRetries(n int) Builder {
	b.maxRetries = n
	return b
}

// MaxResults caps the number of documents one lookup may return.
// Default 0: the store's default page size applies.
func (b Builder) MaxResults(n int) Builder {
	b.maxResults = n
	return b
}

// RateLimit enables a client-side limit on lookups per second.
func (b Builder) RateLimit(perSecond float64, burst int) Builder {
	b.rateLimit = rate.Limit(perSecond)
	if burst < 1 {
		burst = 1
	}
	b.rateBurst = burst
	return b
}

// AllowMissingIndex maps a 404 for the resolved index to "no match" instead
// of a lookup failure. Default false.
func (b Builder) AllowMissingIndex(allow bool) Builder {
	b.allowMissingIndex = allow
	return b
}

// Build validates the configuration and creates the executor. All
// configuration errors surface here, before any connection is made; the
// returned executor still has to be opened.
func (b Builder) Build() (*Executor, error) {
	endpoints, err := transport.ParseEndpoints(b.endpoints)
	if err != nil {
		return nil, &ValidationError{Option: "hosts", Reason: err.Error()}
	}
	if strings.TrimSpace(b.index) == "" {
		return nil, &ValidationError{Option: "index", Reason: "must not be empty"}
	}
	if b.schema == nil || b.schema.Len() == 0 {
		return nil, &ValidationError{Option: "schema", Reason: "must declare the physical row schema"}
	}

	keys, err := project.NewKeySpec(b.schema, b.keyFields)
	if err != nil {
		return nil, &ValidationError{Option: "lookup-keys", Reason: err.Error()}
	}

	hasUser := strings.TrimSpace(b.username) != ""
	hasPass := strings.TrimSpace(b.password) != ""
	if hasUser != hasPass {
		return nil, &ValidationError{
			Option: "username",
			Reason: "'username' and 'password' must be set at the same time",
		}
	}

	c := b.codec
	if b.codecName != "" {
		var ok bool
		c, ok = codec.ByName(b.codecName)
		if !ok {
			return nil, &ValidationError{Option: "format", Reason: "unknown codec " + strconv.Quote(b.codecName)}
		}
	}

	tcfg := transport.Config{}
	if hasUser {
		tcfg.Username = &b.username
		tcfg.Password = &b.password
	}
	if strings.TrimSpace(b.pathPrefix) != "" {
		tcfg.PathPrefix = &b.pathPrefix
	}
	if b.connectTimeout > 0 {
		tcfg.ConnectTimeout = &b.connectTimeout
	}
	if b.connectionRequestTimeout > 0 {
		tcfg.ConnectionRequestTimeout = &b.connectionRequestTimeout
	}
	if b.socketTimeout > 0 {
		tcfg.SocketTimeout = &b.socketTimeout
	}

	var opts []Option
	if c != nil {
		opts = append(opts, WithCodec(c))
	}
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}
	if b.clock != nil {
		opts = append(opts, WithClock(b.clock))
	}
	if b.zone != nil {
		opts = append(opts, WithTimeZone(b.zone))
	}
	if b.rateLimit > 0 {
		opts = append(opts, WithRateLimiter(rate.NewLimiter(b.rateLimit, b.rateBurst)))
	}
	if b.maxRetries > 0 {
		opts = append(opts, WithMaxRetries(b.maxRetries))
	}
	if b.maxResults > 0 {
		opts = append(opts, WithMaxResults(b.maxResults))
	}
	if b.allowMissingIndex {
		opts = append(opts, WithAllowMissingIndex(true))
	}

	return newExecutor(endpoints, tcfg, b.index, b.schema, keys, opts...), nil
}

// MustBuild creates the executor, panicking on error.
func (b Builder) MustBuild() *Executor {
	e, err := b.Build()
	if err != nil {
		panic(err)
	}
	return e
}
