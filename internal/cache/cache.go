// Package cache provides a small in-process TTL cache. Entries live in
// memory only and expire or get invalidated explicitly; nothing here ever
// survives a process, so cached values cannot leak across sessions.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	data      T
	expiresAt time.Time
	usedAt    time.Time
}

// TTLCache holds up to maxSize entries for at most ttl each. When full, the
// least recently used entry makes room. The expected working set is tiny
// (one entry per movement kind per user), so eviction scans the map.
type TTLCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*entry[T]
	now     func() time.Time
}

func NewTTLCache[T any](maxSize int, ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*entry[T]),
		now:     time.Now,
	}
}

// Get retrieves a live value. Expired entries are dropped on access.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	e.usedAt = c.now()
	return e.data, true
}

// Set stores a value, evicting the least recently used entry if full.
func (c *TTLCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, ok := c.items[key]; !ok && len(c.items) >= c.maxSize {
		c.evictOldestLocked()
	}
	c.items[key] = &entry[T]{data: data, expiresAt: now.Add(c.ttl), usedAt: now}
}

// Delete removes one key.
func (c *TTLCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Clear removes every entry. The balance reader calls this whenever the
// movement list mutates or a session ends.
func (c *TTLCache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry[T])
}

// Size returns the current number of entries, expired ones included.
func (c *TTLCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *TTLCache[T]) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, e := range c.items {
		if oldestKey == "" || e.usedAt.Before(oldest) {
			oldestKey = key
			oldest = e.usedAt
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
