// Package transport builds the Elasticsearch client configuration from the
// endpoint list and the optional network parameters.
//
// All optional parameters are independently nullable; an unset parameter
// leaves the client at its default behavior. The merge itself performs no
// I/O.
package transport

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
)

const (
	defaultScheme = "http"
	defaultPort   = 9200
)

// Endpoint is one (scheme, host, port) triple from the configured endpoint
// list.
type Endpoint struct {
	Scheme string
	Host   string
	Port   int
}

// String returns the endpoint as a URL string without a path.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s://%s:%d", e.Scheme, e.Host, e.Port)
}

// ParseEndpoints parses the configured endpoint addresses. Accepted forms
// are "host", "host:port" and "scheme://host:port"; scheme defaults to http
// and port to 9200. The list must be non-empty.
func ParseEndpoints(addrs []string) ([]Endpoint, error) {
	if len(addrs) == 0 {
		return nil, fmt.Errorf("transport: endpoint list must not be empty")
	}
	endpoints := make([]Endpoint, len(addrs))
	for i, addr := range addrs {
		ep, err := parseEndpoint(addr)
		if err != nil {
			return nil, err
		}
		endpoints[i] = ep
	}
	return endpoints, nil
}

func parseEndpoint(addr string) (Endpoint, error) {
	raw := strings.TrimSpace(addr)
	if raw == "" {
		return Endpoint{}, fmt.Errorf("transport: endpoint address must not be blank")
	}
	if !strings.Contains(raw, "://") {
		raw = defaultScheme + "://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("transport: invalid endpoint %q: %w", addr, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoint{}, fmt.Errorf("transport: endpoint %q: unsupported scheme %q", addr, u.Scheme)
	}
	if u.Hostname() == "" {
		return Endpoint{}, fmt.Errorf("transport: endpoint %q has no host", addr)
	}
	port := defaultPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return Endpoint{}, fmt.Errorf("transport: endpoint %q has an invalid port", addr)
		}
	}
	return Endpoint{Scheme: u.Scheme, Host: u.Hostname(), Port: port}, nil
}

// Config captures the optional network-layer parameters applied to the
// client. A nil field means "use the client default". Config is an immutable
// value object; username/password co-presence is enforced at plan time, not
// here.
type Config struct {
	Username   *string
	Password   *string
	PathPrefix *string

	// ConnectTimeout bounds TCP connection establishment.
	ConnectTimeout *time.Duration

	// ConnectionRequestTimeout bounds one whole lookup call. Go's HTTP
	// stack has no pool-lease timeout, so this is applied as a per-call
	// deadline by the executor.
	ConnectionRequestTimeout *time.Duration

	// SocketTimeout bounds the wait for response headers after the request
	// is written.
	SocketTimeout *time.Duration
}

// Apply merges the endpoints and optional parameters into an Elasticsearch
// client configuration. The returned *http.Transport is the one installed in
// the config; the caller owns it and should close idle connections on
// shutdown.
//
// The client's own status-code retries are disabled: retry policy belongs to
// the caller, and a silent transport-level retry would blur the failure
// classification.
func (c Config) Apply(endpoints []Endpoint) (elasticsearch.Config, *http.Transport) {
	addresses := make([]string, len(endpoints))
	for i, ep := range endpoints {
		addr := ep.String()
		if c.PathPrefix != nil {
			addr += "/" + strings.Trim(*c.PathPrefix, "/")
		}
		addresses[i] = addr
	}

	dialer := &net.Dialer{}
	if c.ConnectTimeout != nil {
		dialer.Timeout = *c.ConnectTimeout
	}
	httpTransport := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,
	}
	if c.SocketTimeout != nil {
		httpTransport.ResponseHeaderTimeout = *c.SocketTimeout
	}

	cfg := elasticsearch.Config{
		Addresses:    addresses,
		Transport:    httpTransport,
		DisableRetry: true,
	}
	if c.Username != nil && c.Password != nil {
		cfg.Username = *c.Username
		cfg.Password = *c.Password
	}
	return cfg, httpTransport
}

// CallTimeout returns the per-call deadline derived from
// ConnectionRequestTimeout, if set.
func (c Config) CallTimeout() (time.Duration, bool) {
	if c.ConnectionRequestTimeout == nil {
		return 0, false
	}
	return *c.ConnectionRequestTimeout, true
}
