// Package cache provides TTL caches behind port.Cache: an in-memory map for
// single-instance deployments and a Redis adapter for shared ones.
package cache

import (
	"sync"
	"time"
)

const (
	defaultMaxEntries = 10_000
	minSweepInterval  = time.Second
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Option tunes an InMemory cache.
type Option func(*options)

type options struct {
	maxEntries int
	now        func() time.Time
}

// WithMaxEntries bounds the cache. When full, the entry closest to expiry
// is evicted to make room.
func WithMaxEntries(n int) Option {
	return func(o *options) { o.maxEntries = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// InMemory is a bounded, thread-safe cache with a fixed TTL.
// Zero values are cached like any other, so a nil pointer records absence.
type InMemory[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	ttl   time.Duration
	opts  options
	stop  chan struct{}
	once  sync.Once
}

func New[T any](ttl time.Duration, opts ...Option) *InMemory[T] {
	o := options{maxEntries: defaultMaxEntries, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	c := &InMemory[T]{
		items: make(map[string]entry[T]),
		ttl:   ttl,
		opts:  o,
		stop:  make(chan struct{}),
	}
	go c.sweep(max(ttl, minSweepInterval))
	return c
}

// Get returns the live value for key.
func (c *InMemory[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || !c.opts.now().Before(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && c.opts.maxEntries > 0 && len(c.items) >= c.opts.maxEntries {
		c.evictLocked()
	}
	c.items[key] = entry[T]{value: value, expiresAt: c.opts.now().Add(c.ttl)}
}

func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len counts stored entries, expired ones included until the next sweep.
func (c *InMemory[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the sweeper. Safe to call more than once.
func (c *InMemory[T]) Close() {
	c.once.Do(func() { close(c.stop) })
}

// evictLocked drops expired entries, or the one expiring soonest if none are.
func (c *InMemory[T]) evictLocked() {
	now := c.opts.now()
	var (
		victim string
		oldest time.Time
	)
	for k, e := range c.items {
		if !now.Before(e.expiresAt) {
			delete(c.items, k)
			continue
		}
		if victim == "" || e.expiresAt.Before(oldest) {
			victim, oldest = k, e.expiresAt
		}
	}
	if len(c.items) >= c.opts.maxEntries {
		delete(c.items, victim)
	}
}

func (c *InMemory[T]) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
		}
		c.mu.Lock()
		now := c.opts.now()
		for k, e := range c.items {
			if !now.Before(e.expiresAt) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
