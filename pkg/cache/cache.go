package cache

import (
	"sync"
	"time"
)

// DefaultTTL is how long an entry lives when no explicit TTL is given.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value  interface{}
	expiry time.Time
}

// Cache is an in-memory key/value store with per-entry expiry.
// Eviction is lazy: an expired entry is removed by the first Get that
// observes it. There is no capacity bound; keys are query signatures
// and the cache lives for a single process run.
type Cache struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		data: make(map[string]entry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value cached under key. A read past the entry's
// expiry counts as a miss and removes the entry.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiry) {
		delete(c.data, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetTTL(key, value, DefaultTTL)
}

// SetTTL stores value under key, expiring ttl from now. A later write
// to the same key supersedes the previous entry.
func (c *Cache) SetTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry{value: value, expiry: c.now().Add(ttl)}
}

// Len reports the number of stored entries. Expired entries count
// until a Get observes them.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}
