package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheSize = 16

// Entry is a fetched payload held by the Cache.
type Entry struct {
	Source    string
	Data      []byte
	Hash      string
	FetchedAt time.Time
}

func newEntry(source string, data []byte, fetchedAt time.Time) *Entry {
	sum := sha256.Sum256(data)
	return &Entry{
		Source:    source,
		Data:      data,
		Hash:      hex.EncodeToString(sum[:]),
		FetchedAt: fetchedAt,
	}
}

// Cache keeps fetched payloads keyed by source identifier. Entries expire
// after the configured TTL and are dropped on the next lookup; a zero TTL
// keeps them until invalidated.
type Cache struct {
	lru *lru.Cache[string, *Entry]
	ttl time.Duration
}

// NewCache creates a cache holding up to size sources.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = defaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, *Entry](size)
	return &Cache{
		lru: cache,
		ttl: ttl,
	}
}

// Get returns the unexpired entry for source.
func (c *Cache) Get(source string) (*Entry, bool) {
	entry, ok := c.lru.Get(source)
	if !ok {
		return nil, false
	}
	if c.expired(entry) {
		c.lru.Remove(source)
		return nil, false
	}
	return entry, true
}

func (c *Cache) expired(entry *Entry) bool {
	return c.ttl > 0 && time.Since(entry.FetchedAt) > c.ttl
}

// Put stores data for source and returns the new entry.
func (c *Cache) Put(source string, data []byte) *Entry {
	entry := newEntry(source, data, time.Now())
	c.lru.Add(source, entry)
	return entry
}

// Invalidate drops the entry for source. It reports whether one was present.
func (c *Cache) Invalidate(source string) bool {
	return c.lru.Remove(source)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Len returns the number of held entries, expired ones included until
// they are looked up.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// TTL returns the expiry applied to entries.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}
