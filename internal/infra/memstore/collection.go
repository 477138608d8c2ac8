package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/google/uuid"
)

// Collection implements port.CollectionStore for one flat record type.
// E is the record struct and P its pointer.
type Collection[E any, P interface {
	*E
	domain.Record
}] struct {
	mu   sync.RWMutex
	spec domain.Collection[E]
	rows map[string]P
	now  func() time.Time
}

// NewCollection creates an empty collection sorted by the descriptor's keys.
func NewCollection[E any, P interface {
	*E
	domain.Record
}](spec domain.Collection[E]) *Collection[E, P] {
	return &Collection[E, P]{spec: spec, rows: make(map[string]P), now: time.Now}
}

// clone deep-copies through JSON; records hold slices that callers may
// decode into.
func clone[E any, P interface {
	*E
	domain.Record
}](rec P) P {
	raw, err := json.Marshal(rec)
	if err != nil {
		panic(fmt.Sprintf("memstore: clone %T: %v", rec, err))
	}
	out := P(new(E))
	if err := json.Unmarshal(raw, out); err != nil {
		panic(fmt.Sprintf("memstore: clone %T: %v", rec, err))
	}
	return out
}

func (c *Collection[E, P]) List(_ context.Context) ([]P, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]P, 0, len(c.rows))
	for _, r := range c.rows {
		out = append(out, clone[E](r))
	}
	sort.SliceStable(out, func(i, j int) bool { return c.spec.Less((*E)(out[i]), (*E)(out[j])) })
	return out, nil
}

func (c *Collection[E, P]) Get(_ context.Context, id string) (P, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.rows[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: c.spec.Label, ID: id}
	}
	return clone[E](r), nil
}

func (c *Collection[E, P]) Insert(_ context.Context, rec P) (P, error) {
	stored := clone[E](rec)
	now := c.now().UTC()
	meta := stored.Base()
	meta.ID = uuid.NewString()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	c.mu.Lock()
	c.rows[meta.ID] = stored
	c.mu.Unlock()

	return clone[E](stored), nil
}

func (c *Collection[E, P]) Replace(_ context.Context, id string, rec P) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	old, ok := c.rows[id]
	if !ok {
		return &domain.ErrNotFound{Resource: c.spec.Label, ID: id}
	}
	stored := clone[E](rec)
	meta := stored.Base()
	meta.ID = id
	meta.CreatedAt = old.Base().CreatedAt
	meta.UpdatedAt = c.now().UTC()
	c.rows[id] = stored
	return nil
}

func (c *Collection[E, P]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	delete(c.rows, id)
	c.mu.Unlock()
	return nil
}

func (c *Collection[E, P]) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows), nil
}
