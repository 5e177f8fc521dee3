package compiler

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

// DefaultCacheLimit is the number of entries a [Cache] holds before it is
// emptied.
const DefaultCacheLimit = 256

// Cache memoizes compile results keyed by the hash of the source text and
// the options that affect output. Concurrent compiles of the same key share
// one pass. A Cache is safe for concurrent use.
type Cache struct {
	entries sync.Map
	size    atomic.Int64
	hits    atomic.Int64
	misses  atomic.Int64
	limit   int64
}

// entry holds the outcome of one compile.
type entry struct {
	result *Result
	err    error
	once   sync.Once
}

// NewCache returns an empty Cache holding at most limit entries. When the
// limit is reached the cache is emptied before the next insertion. A limit
// less than 1 selects [DefaultCacheLimit].
func NewCache(limit int) *Cache {
	if limit < 1 {
		limit = DefaultCacheLimit
	}

	return &Cache{limit: int64(limit)}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return int(c.size.Load()) }

// Stats returns the number of cache hits and misses.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Clear removes all cached entries.
func (c *Cache) Clear() {
	c.entries.Clear()
	c.size.Store(0)
}

// optionBytes encodes the options that affect output.
func optionBytes(o options) []byte {
	var flags byte

	if o.strict {
		flags |= 1
	}

	return []byte{flags}
}

// key hashes the options that affect output followed by the source text as
// one 128-bit xxh3 stream.
func (c *Cache) key(source string, o options) string {
	h := xxh3.New()

	_, _ = h.Write(optionBytes(o))
	_, _ = h.WriteString(source)

	sum := h.Sum128()

	return strconv.FormatUint(sum.Hi, 36) + "." + strconv.FormatUint(sum.Lo, 36)
}

func (c *Cache) compile(ctx context.Context, source string, o options) (*Result, error) {
	key := c.key(source, o)

	value, hit := c.entries.Load(key)
	if !hit {
		if c.size.Load() >= c.limit {
			o.logger.TraceContext(ctx, "cache reset", slog.Int64("limit", c.limit))
			c.Clear()
		}

		var loaded bool

		value, loaded = c.entries.LoadOrStore(key, new(entry))
		if !loaded {
			c.size.Add(1)
		}

		hit = loaded
	}

	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit),
	)

	e, _ := value.(*entry)

	e.once.Do(func() {
		e.result, e.err = compile(ctx, source, o)
	})

	return e.result, e.err
}
