package fundamentals

import (
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CacheStats is a point-in-time view of cache usage.
type CacheStats struct {
	Hits    int64         `json:"hits"`
	Misses  int64         `json:"misses"`
	Entries int           `json:"entries"`
	TTL     time.Duration `json:"ttl"`
}

type cacheEntry struct {
	result   FetchResult
	storedAt time.Time
}

// Cache memoizes fetch results keyed by the exact ticker sequence.
// Order and duplicates are part of the key. A zero TTL keeps entries until invalidated.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	generation uint64
	inflight   map[string]int
	hits       int64
	misses     int64
	ttl        time.Duration
	group      singleflight.Group
	now        func() time.Time
}

// NewCache creates an empty cache.
func NewCache(ttl time.Duration) *Cache {
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{
		entries:  make(map[string]cacheEntry),
		inflight: make(map[string]int),
		ttl:      ttl,
		now:      time.Now,
	}
}

// cacheKey encodes the sequence unambiguously, so ["A,B"] and ["A","B"] differ.
func cacheKey(tickers []string) string {
	if tickers == nil {
		tickers = []string{}
	}
	b, _ := json.Marshal(tickers)
	return string(b)
}

func (c *Cache) expired(e cacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(e.storedAt) >= c.ttl
}

// lookup must be called with c.mu held.
func (c *Cache) lookup(key string) (FetchResult, bool) {
	e, ok := c.entries[key]
	if !ok {
		return FetchResult{}, false
	}
	if c.expired(e) {
		delete(c.entries, key)
		return FetchResult{}, false
	}
	return e.result, true
}

// GetOrCompute returns the cached result for tickers, or runs compute once and caches it.
// Concurrent callers with the same key share one compute. The bool reports a cache hit.
func (c *Cache) GetOrCompute(tickers []string, compute func() FetchResult) (FetchResult, bool) {
	key := cacheKey(tickers)

	c.mu.Lock()
	if res, ok := c.lookup(key); ok {
		c.hits++
		c.mu.Unlock()
		return res.clone(), true
	}
	c.mu.Unlock()

	executed := false
	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		executed = true
		c.mu.Lock()
		if res, ok := c.lookup(key); ok {
			c.mu.Unlock()
			return cachedValue{result: res, hit: true}, nil
		}
		gen := c.generation
		c.inflight[key]++
		c.mu.Unlock()

		res := compute()

		c.mu.Lock()
		if c.inflight[key]--; c.inflight[key] <= 0 {
			delete(c.inflight, key)
		}
		// Drop the result if the cache was invalidated while computing.
		if gen == c.generation {
			c.entries[key] = cacheEntry{result: res.clone(), storedAt: c.now()}
		}
		c.mu.Unlock()
		return cachedValue{result: res}, nil
	})

	cv := v.(cachedValue)
	// Callers that joined another caller's compute count as hits.
	hit := cv.hit || !executed

	c.mu.Lock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	return cv.result.clone(), hit
}

type cachedValue struct {
	result FetchResult
	hit    bool
}

// Invalidate drops every entry. Computations in flight are not stored, and
// callers arriving after Invalidate start a new compute instead of joining them.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		c.group.Forget(key)
	}
	for key := range c.inflight {
		c.group.Forget(key)
	}
	c.entries = make(map[string]cacheEntry)
	c.generation++
}

// InvalidateKey drops the entry for one ticker sequence.
func (c *Cache) InvalidateKey(tickers []string) {
	key := cacheKey(tickers)

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	c.group.Forget(key)
}

// Prune removes expired entries and returns how many were removed.
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Stats returns usage counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Hits:    c.hits,
		Misses:  c.misses,
		Entries: len(c.entries),
		TTL:     c.ttl,
	}
}
