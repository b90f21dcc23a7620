package embedding

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheMissThenHit(t *testing.T) {
	c := NewCache(10)
	key := Key("model-a", 384, "hello")

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Put(key, Vector{1, 2, 3})
	vec, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, Vector{1, 2, 3}, vec)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	const capacity = 4
	c := NewCache(capacity)

	keys := make([]string, capacity+1)
	for i := 0; i < capacity+1; i++ {
		keys[i] = Key("model", 8, fmt.Sprintf("text-%d", i))
		c.Put(keys[i], Vector{float32(i)})
	}

	_, ok := c.Get(keys[0])
	assert.False(t, ok, "first key should have been evicted")

	_, ok = c.Get(keys[capacity])
	assert.True(t, ok, "most recently inserted key should still be present")
}

func TestCacheDistinctKeysForModelAndDims(t *testing.T) {
	smallKey := Key("model", 384, "same text")
	largeKey := Key("model", 3072, "same text")
	assert.NotEqual(t, smallKey, largeKey)
}

func TestCacheStatsHitRate(t *testing.T) {
	c := NewCache(10)
	key := Key("model", 8, "abc")

	c.Get(key) // miss
	c.Put(key, Vector{1})
	c.Get(key) // hit
	c.Get(key) // hit

	stats := c.Stats()
	assert.Equal(t, int64(3), stats.TotalRequested)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 2.0/3.0, stats.HitRate, 0.0001)
}
