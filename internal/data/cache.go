package data

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

const DefaultCacheTTL = time.Hour

type cacheEntry struct {
	body      []byte
	expiresAt time.Time
}

// ResponseCache keeps raw provider responses in memory, keyed by request URL.
//
// Intended for local development while iterating on the same date range.
// It is never enabled when the server runs with API_ENV=production.
type ResponseCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewCacheIfEnabled returns a cache when enabled outside production, nil otherwise.
func NewCacheIfEnabled(enabled bool, env string, ttl time.Duration) *ResponseCache {
	if !enabled || env == "production" {
		return nil
	}
	c := NewResponseCache(ttl)
	go c.cleanup(5 * time.Minute)
	return c
}

// NewResponseCache creates a cache without the background cleanup loop.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResponseCache{
		store: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
}

// Get retrieves a cached response if available and not expired
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.body, true
}

// Set stores a response in the cache
func (c *ResponseCache) Set(key string, body []byte) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = cacheEntry{
		body:      append([]byte(nil), body...),
		expiresAt: c.now().Add(c.ttl),
	}
}

// Len reports the number of stored entries, expired ones included.
func (c *ResponseCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache
func (c *ResponseCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]cacheEntry)
}

// Close stops the cleanup loop.
func (c *ResponseCache) Close() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stop) })
}

func (c *ResponseCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
		}
	}
}

func (c *ResponseCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stop:
			return
		}
	}
}

// GenerateCacheKey hashes a request URL into a cache key
func GenerateCacheKey(endpoint string) string {
	hash := sha256.Sum256([]byte(endpoint))
	return hex.EncodeToString(hash[:])
}
