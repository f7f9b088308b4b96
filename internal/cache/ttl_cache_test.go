package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, ttl time.Duration) (*TTLCache[string], *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache[string](ttl, time.Hour)
	c.now = clock.Now
	t.Cleanup(c.Stop)
	return c, clock
}

func entries(c *TTLCache[string]) int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}

func TestTTLCache_SetAndPop(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	c.Set("flash-1", "Sách đã được thêm thành công!")
	value, ok := c.Pop("flash-1")

	assert.True(t, ok)
	assert.Equal(t, "Sách đã được thêm thành công!", value)
}

func TestTTLCache_NonExistentKey(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	value, ok := c.Pop("missing")
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestTTLCache_PopIsOneShot(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	c.Set("k", "v")

	value, ok := c.Pop("k")
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	_, ok = c.Pop("k")
	assert.False(t, ok)
	assert.Equal(t, 0, entries(c))
}

func TestTTLCache_Expiration(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)
	c.Set("live", "v")
	c.Set("stale", "v")

	clock.Advance(59 * time.Second)
	_, ok := c.Pop("live")
	assert.True(t, ok, "entry still live before TTL")

	clock.Advance(2 * time.Second)
	_, ok = c.Pop("stale")
	assert.False(t, ok, "entry expired after TTL")
}

func TestTTLCache_CleanupRemovesExpired(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)
	c.Set("old", "1")
	clock.Advance(30 * time.Second)
	c.Set("new", "2")
	clock.Advance(45 * time.Second)

	c.performCleanup()

	assert.Equal(t, 1, entries(c))
	_, ok := c.Pop("new")
	assert.True(t, ok)
}

func TestTTLCache_StopTwice(t *testing.T) {
	c := NewTTLCache[int](time.Minute, time.Millisecond)
	assert.NotPanics(t, func() {
		c.Stop()
		c.Stop()
	})
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			c.Set(key, key)
			c.Pop(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, entries(c))
}
