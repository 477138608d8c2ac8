package cache_test

import (
	"testing"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/infra/cache"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/observability"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	val, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if val != "value1" {
		t.Errorf("expected 'value1', got '%s'", val)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	_, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestCache_Expiration(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := cache.New[string](time.Minute, cache.WithClock(clock.now))
	defer c.Close()

	c.Set("key1", "value1")
	clock.advance(59 * time.Second)
	if _, ok := c.Get("key1"); !ok {
		t.Fatal("expected entry to be live before ttl")
	}

	clock.advance(time.Second)
	if _, ok := c.Get("key1"); ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_CachesNilPointer(t *testing.T) {
	c := cache.New[*string](time.Minute)
	defer c.Close()

	c.Set("missing@example.com", nil)
	v, ok := c.Get("missing@example.com")
	if !ok || v != nil {
		t.Fatalf("expected cached absence, got %v %v", v, ok)
	}
}

func TestCache_EvictsSoonestExpiryWhenFull(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := cache.New[int](time.Minute, cache.WithMaxEntries(2), cache.WithClock(clock.now))
	defer c.Close()

	c.Set("a", 1)
	clock.advance(time.Second)
	c.Set("b", 2)
	clock.advance(time.Second)
	c.Set("c", 3)

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected newest entry to be kept")
	}

	// Overwriting an existing key never evicts.
	c.Set("b", 20)
	if v, _ := c.Get("b"); v != 20 || c.Len() != 2 {
		t.Errorf("expected overwrite in place, got %d with %d entries", v, c.Len())
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[string](5 * time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	c.Delete("key1")

	_, ok := c.Get("key1")
	if ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := cache.New[int](time.Minute)
	c.Close()
	c.Close()
}

func TestInstrumented_CountsHitsAndMisses(t *testing.T) {
	m := observability.NewMetrics()
	inner := cache.New[string](time.Minute)
	defer inner.Close()
	c := cache.WithMetrics[string](inner, "dashboard", m)

	c.Get("a@b.com")
	c.Set("a@b.com", "engagement")
	c.Get("a@b.com")
	c.Get("a@b.com")
	c.Get("c@d.com")

	if rate := m.CacheHitRate("dashboard"); rate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %v", rate)
	}
}
