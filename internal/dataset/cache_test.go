package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestCachePutGet(t *testing.T) {
	cache := NewCache(4, 0)

	entry := cache.Put("codes.csv", []byte("90\n문1\n"))
	assert.Equal(t, "codes.csv", entry.Source)
	assert.Len(t, entry.Hash, 64)
	assert.False(t, entry.FetchedAt.IsZero())

	got, ok := cache.Get("codes.csv")
	require.True(t, ok)
	assert.Same(t, entry, got)
	assert.Equal(t, 1, cache.Len())

	_, ok = cache.Get("other.csv")
	assert.False(t, ok)
}

func TestCacheHashFollowsContent(t *testing.T) {
	cache := NewCache(4, 0)

	a := cache.Put("a", []byte("same"))
	b := cache.Put("b", []byte("same"))
	c := cache.Put("c", []byte("different"))

	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, c.Hash)
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewCache(4, time.Hour)
	cache.Put("codes.csv", []byte("x"))

	assert.True(t, cache.Invalidate("codes.csv"))
	assert.False(t, cache.Invalidate("codes.csv"))

	_, ok := cache.Get("codes.csv")
	assert.False(t, ok)
}

func TestCachePurge(t *testing.T) {
	cache := NewCache(4, time.Hour)
	cache.Put("a", []byte("x"))
	cache.Put("b", []byte("y"))

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(4, 50*time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, cache.TTL())

	cache.Put("codes.csv", []byte("x"))
	_, ok := cache.Get("codes.csv")
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := cache.Get("codes.csv")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewCache(2, 0)
	cache.Put("a", []byte("1"))
	cache.Put("b", []byte("2"))
	cache.Get("a")
	cache.Put("c", []byte("3"))

	_, ok := cache.Get("b")
	assert.False(t, ok)
	_, ok = cache.Get("a")
	assert.True(t, ok)
}

func TestCacheStartsNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, idleConnections...)

	cache := NewCache(4, time.Hour)
	cache.Put("codes.csv", []byte("x"))
	_, ok := cache.Get("codes.csv")
	assert.True(t, ok)
}

func TestCacheExpiredEntryIsDroppedOnGet(t *testing.T) {
	cache := NewCache(4, time.Minute)
	entry := cache.Put("codes.csv", []byte("x"))
	entry.FetchedAt = time.Now().Add(-2 * time.Minute)

	_, ok := cache.Get("codes.csv")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}
