package eslookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/eslookup/model"
)

const defaultCacheCapacity = 1024

// CachedLookuper wraps a Lookuper with a capacity-bounded, TTL-expiring
// result cache. Only successful results are cached, including empty ones:
// a confirmed "no match" is as cacheable as a hit. Failures pass through
// uncached so a transient outage does not poison the cache.
//
// Concurrent lookups for the same key row are collapsed into a single
// remote call.
type CachedLookuper struct {
	inner Lookuper
	cache *lru.LRU[string, []model.Row]
	group singleflight.Group
}

var _ Lookuper = (*CachedLookuper)(nil)

// NewCachedLookuper wraps inner with a cache of at most capacity entries,
// each valid for ttl. A non-positive capacity falls back to a default of
// 1024; a non-positive ttl disables expiry.
func NewCachedLookuper(inner Lookuper, capacity int, ttl time.Duration) *CachedLookuper {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &CachedLookuper{
		inner: inner,
		cache: lru.NewLRU[string, []model.Row](capacity, nil, ttl),
	}
}

// Open opens the wrapped Lookuper.
func (c *CachedLookuper) Open(ctx context.Context) error {
	return c.inner.Open(ctx)
}

// Lookup serves the key row from the cache when possible and delegates to
// the wrapped Lookuper otherwise.
func (c *CachedLookuper) Lookup(ctx context.Context, keyRow model.Row) ([]model.Row, error) {
	key := rowFingerprint(keyRow)
	if rows, ok := c.cache.Get(key); ok {
		return rows, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		rows, err := c.inner.Lookup(ctx, keyRow)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, rows)
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Row), nil
}

// Close closes the wrapped Lookuper and drops all cached entries.
func (c *CachedLookuper) Close() error {
	c.cache.Purge()
	return c.inner.Close()
}

// rowFingerprint renders the full row as the cache key. The whole row takes
// part, not just the declared key fields, because dynamic index segments may
// reference non-key fields.
func rowFingerprint(row model.Row) string {
	var b strings.Builder
	for i := 0; i < row.Len(); i++ {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		fmt.Fprintf(&b, "%T:%v", row.Value(i), row.Value(i))
	}
	return b.String()
}
