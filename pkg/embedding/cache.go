package embedding

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheCapacity is the spec-mandated LRU capacity.
const DefaultCacheCapacity = 10000

type cacheEntry struct {
	vector    Vector
	hits      int
	lastTouch time.Time
}

// Cache is a bounded LRU over embedding vectors, keyed by
// SHA-256(model_id || dimension || text). The wrapped hashicorp/golang-lru
// list gives O(1) promotion and eviction; this type adds the SHA-256
// keying, hit/miss accounting, and cost/token counters the spec requires
// on top of it.
//
// All access must go through the single mutex below: the spec documents
// that two concurrent misses on the same key may race and insert twice,
// which this locking permits (each miss computes independently and the
// second insert simply replaces the first).
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache[string, *cacheEntry]

	requests int64
	hits     int64
	misses   int64

	tokens int64
	costUSD float64
}

// NewCache builds a Cache with the given capacity (0 or negative falls back
// to DefaultCacheCapacity).
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	backing, err := lru.New[string, *cacheEntry](capacity)
	if err != nil {
		// lru.New only errors on non-positive size, already guarded above.
		panic(fmt.Sprintf("embedding: invalid cache capacity: %v", err))
	}
	return &Cache{lru: backing}
}

// Key derives the cache key for a (model, dimension, text) tuple.
func Key(modelID string, dims int, text string) string {
	h := sha256.New()
	h.Write([]byte(modelID))
	h.Write([]byte{0})
	fmt.Fprintf(h, "%d", dims)
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks up key, promoting it to most-recently-used on hit.
func (c *Cache) Get(key string) (Vector, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests++

	entry, ok := c.lru.Get(key)
	if !ok {
		c.misses++
		return nil, false
	}
	entry.hits++
	entry.lastTouch = time.Now()
	c.hits++
	return entry.vector, true
}

// Put inserts or replaces key, evicting the least-recently-used entry first
// if the cache is at capacity.
func (c *Cache) Put(key string, vector Vector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, &cacheEntry{vector: vector, hits: 0, lastTouch: time.Now()})
}

// AddUsage accumulates token and cost counters, both monotonic.
func (c *Cache) AddUsage(tokens int64, costUSD float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens += tokens
	c.costUSD += costUSD
}

// Stats is the snapshot returned by the embedding engine's status reporting.
type Stats struct {
	TotalRequested int64
	Hits           int64
	Misses         int64
	Tokens         int64
	EstimatedCost  float64
	HitRate        float64
}

// Stats returns a consistent snapshot of cache and usage counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	var hitRate float64
	if c.requests > 0 {
		hitRate = float64(c.hits) / float64(c.requests)
	}
	return Stats{
		TotalRequested: c.requests,
		Hits:           c.hits,
		Misses:         c.misses,
		Tokens:         c.tokens,
		EstimatedCost:  c.costUSD,
		HitRate:        hitRate,
	}
}
