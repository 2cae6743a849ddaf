package application

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// resultCache stores engine results computed against one booking snapshot so
// repeated calendar and conflict queries skip the detector until the snapshot
// changes. Keys embed the snapshot fingerprint. Cached values are shared and
// must be treated as read-only.
type resultCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]resultCacheEntry
	group      singleflight.Group
}

type resultCacheEntry struct {
	value     any
	expiresAt time.Time
}

func newResultCache(ttl time.Duration, maxEntries int, now func() time.Time) *resultCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &resultCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]resultCacheEntry),
	}
}

func (c *resultCache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (c *resultCache) Store(key string, value any) {
	if c == nil {
		return
	}
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = resultCacheEntry{value: value, expiresAt: expiry}
}

func (c *resultCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]resultCacheEntry)
	c.mu.Unlock()
}

func (c *resultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *resultCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *resultCache) evictOneLocked() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey, oldest = key, entry.expiresAt
		}
	}
	delete(c.entries, oldestKey)
}

// memoize returns the cached value for key or computes it once, coalescing
// concurrent misses for the same key.
func memoize[T any](c *resultCache, key string, compute func() (T, error)) (T, bool, error) {
	if cached, ok := c.Get(key); ok {
		if v, ok := cached.(T); ok {
			return v, true, nil
		}
	}

	if c == nil {
		v, err := compute()
		return v, false, err
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		v, err := compute()
		if err != nil {
			return v, err
		}
		c.Store(key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return result.(T), false, nil
}
