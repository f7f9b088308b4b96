package cache

import (
	"log/slog"
	"sync"
	"time"
)

// entry is a cached value with its expiration time
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a thread-safe map whose entries expire after a fixed TTL.
// The dashboard keeps one-shot flash notices in it between a POST and the
// redirected GET.
type TTLCache[V any] struct {
	items         map[string]entry[V]
	mutex         sync.RWMutex
	ttl           time.Duration
	now           func() time.Time
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

// NewTTLCache creates a new TTL cache with specified TTL and cleanup interval
func NewTTLCache[V any](ttl, cleanupInterval time.Duration) *TTLCache[V] {
	c := &TTLCache[V]{
		items:       make(map[string]entry[V]),
		ttl:         ttl,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	c.cleanupTicker = time.NewTicker(cleanupInterval)
	go c.cleanupExpiredEntries()

	slog.Debug("TTL cache initialized",
		"ttl", ttl.String(),
		"cleanup_interval", cleanupInterval.String())

	return c
}

// Set stores a value in the cache with TTL
func (c *TTLCache[V]) Set(key string, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = entry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Pop returns a live value and removes it, so it is seen at most once
func (c *TTLCache[V]) Pop(key string) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	e, ok := c.items[key]
	delete(c.items, key)
	if !ok || c.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (c *TTLCache[V]) Stop() {
	c.stopOnce.Do(func() {
		c.cleanupTicker.Stop()
		close(c.stopCleanup)
	})
}

func (c *TTLCache[V]) cleanupExpiredEntries() {
	for {
		select {
		case <-c.cleanupTicker.C:
			c.performCleanup()
		case <-c.stopCleanup:
			return
		}
	}
}

// performCleanup removes expired entries from the cache
func (c *TTLCache[V]) performCleanup() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	expired := 0
	for key, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, key)
			expired++
		}
	}

	if expired > 0 {
		slog.Debug("Cache cleanup completed",
			"expired_entries", expired,
			"remaining_entries", len(c.items))
	}
}
