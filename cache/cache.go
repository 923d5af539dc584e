// Package cache memoizes warehouse queries and model calls for the whole process.
// Entries live until Clear; there is no TTL and no partial eviction.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"procurement/config"
)

// Stats counts lookups since the cache was created.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// QueryCache is a keyed store with an explicit, atomic Clear.
// Failed computations are never stored.
type QueryCache struct {
	mu          sync.Mutex
	entries     map[string]any
	generation  uint64
	hits        int64
	misses      int64
	lastRefresh time.Time

	group singleflight.Group
	now   func() time.Time
	log   *logrus.Logger
}

// New returns an empty cache whose last refresh is the current time.
func New() *QueryCache {
	c := &QueryCache{
		entries: make(map[string]any),
		now:     time.Now,
		log:     config.GetLogger(),
	}
	c.lastRefresh = c.now()
	return c
}

// GetOrCompute returns the value stored under key, or runs fn and stores its
// result. Concurrent misses on the same key share one call to fn. An error from
// fn is returned to every waiter and nothing is stored, so the next call retries.
func (c *QueryCache) GetOrCompute(key string, fn func() (any, error)) (any, error) {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return v, nil
	}
	gen := c.generation
	c.mu.Unlock()

	v, err, _ := c.group.Do(strconv.FormatUint(gen, 10)+"|"+key, func() (any, error) {
		c.mu.Lock()
		if v, ok := c.entries[key]; ok && c.generation == gen {
			c.hits++
			c.mu.Unlock()
			return v, nil
		}
		c.misses++
		c.mu.Unlock()

		c.log.WithField("key", shortKey(key)).Info("[CACHE] miss, recomputing")
		v, err := fn()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		// A Clear during fn makes this result stale for the new generation.
		if c.generation == gen {
			c.entries[key] = v
		}
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

// Clear drops every entry and records the refresh time.
func (c *QueryCache) Clear() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
	c.generation++
	c.lastRefresh = c.now()
	c.log.WithField("generation", c.generation).Info("[CACHE] cleared")
	return c.lastRefresh
}

// LastRefresh is the construction time or the time of the latest Clear.
func (c *QueryCache) LastRefresh() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefresh
}

func (c *QueryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

// Fetch is GetOrCompute for a typed result.
func Fetch[T any](c *QueryCache, key string, fn func() (T, error)) (T, error) {
	v, err := c.GetOrCompute(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Key builds a cache key from a function name and its arguments. Strings are
// quoted so separators inside values cannot make two argument lists collide.
// String slices become a bracketed list so equal lists give equal keys.
func Key(fn string, args ...any) string {
	var b strings.Builder
	b.WriteString(fn)
	for _, a := range args {
		b.WriteByte(':')
		switch v := a.(type) {
		case []string:
			b.WriteByte('[')
			for i, s := range v {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(strconv.Quote(s))
			}
			b.WriteByte(']')
		case string:
			b.WriteString(strconv.Quote(v))
		default:
			fmt.Fprint(&b, v)
		}
	}
	return b.String()
}

// Fingerprint is the hex SHA-256 of the exact prompt text.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ShortFingerprint is the first ten characters of Fingerprint, for logs.
func ShortFingerprint(text string) string {
	return Fingerprint(text)[:10]
}

func shortKey(key string) string {
	if len(key) <= 64 {
		return key
	}
	return key[:64] + "..."
}
