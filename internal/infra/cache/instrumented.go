package cache

import (
	"github.com/devsamp/devsamp-bfa-go/internal/infra/observability"
	"github.com/devsamp/devsamp-bfa-go/internal/port"
)

// Instrumented counts hits and misses of an underlying cache.
type Instrumented[T any] struct {
	next    port.Cache[T]
	name    string
	metrics *observability.Metrics
}

// WithMetrics wraps c so lookups are recorded under name.
func WithMetrics[T any](c port.Cache[T], name string, m *observability.Metrics) *Instrumented[T] {
	return &Instrumented[T]{next: c, name: name, metrics: m}
}

func (c *Instrumented[T]) Get(key string) (T, bool) {
	v, ok := c.next.Get(key)
	if ok {
		c.metrics.IncrCacheHit(c.name)
	} else {
		c.metrics.IncrCacheMiss(c.name)
	}
	return v, ok
}

func (c *Instrumented[T]) Set(key string, value T) { c.next.Set(key, value) }

func (c *Instrumented[T]) Delete(key string) { c.next.Delete(key) }
