// Package memstore is an in-process document store used when no MongoDB URI
// is configured and in tests. Records are cloned on the way in and out so
// callers never alias stored state.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/google/uuid"
)

type engagementRow struct {
	rec *domain.ClientEngagement
	seq int64
}

// EngagementStore implements port.EngagementStore.
type EngagementStore struct {
	mu   sync.RWMutex
	rows map[string]engagementRow
	seq  int64
	now  func() time.Time
}

// NewEngagementStore creates an empty store.
func NewEngagementStore() *EngagementStore {
	return &EngagementStore{rows: make(map[string]engagementRow), now: time.Now}
}

// newer orders rows newest first, breaking createdAt ties by insertion order.
func newer(a, b engagementRow) bool {
	if !a.rec.CreatedAt.Equal(b.rec.CreatedAt) {
		return a.rec.CreatedAt.After(b.rec.CreatedAt)
	}
	return a.seq > b.seq
}

func (s *EngagementStore) List(_ context.Context) ([]*domain.ClientEngagement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]engagementRow, 0, len(s.rows))
	for _, r := range s.rows {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return newer(rows[i], rows[j]) })

	out := make([]*domain.ClientEngagement, len(rows))
	for i, r := range rows {
		out[i] = r.rec.Clone()
	}
	return out, nil
}

func (s *EngagementStore) FindByClientEmail(_ context.Context, email string) (*domain.ClientEngagement, error) {
	email = domain.NormalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *engagementRow
	for _, r := range s.rows {
		if r.rec.ClientEmail != email {
			continue
		}
		if best == nil || newer(r, *best) {
			r := r
			best = &r
		}
	}
	if best == nil {
		return nil, nil
	}
	return best.rec.Clone(), nil
}

func (s *EngagementStore) Get(_ context.Context, id string) (*domain.ClientEngagement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rows[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "engagement", ID: id}
	}
	return r.rec.Clone(), nil
}

func (s *EngagementStore) Create(_ context.Context, e *domain.ClientEngagement) (*domain.ClientEngagement, error) {
	rec := e.Clone()
	now := s.now().UTC()
	rec.ID = uuid.NewString()
	rec.ClientEmail = domain.NormalizeEmail(rec.ClientEmail)
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Revision = 1

	s.mu.Lock()
	s.seq++
	s.rows[rec.ID] = engagementRow{rec: rec, seq: s.seq}
	s.mu.Unlock()

	return rec.Clone(), nil
}

func (s *EngagementStore) Update(_ context.Context, id string, patch domain.EngagementPatch, expectedRevision *int64) (*domain.ClientEngagement, *domain.ClientEngagement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[id]
	if !ok {
		return nil, nil, &domain.ErrNotFound{Resource: "engagement", ID: id}
	}
	if expectedRevision != nil && *expectedRevision != r.rec.Revision {
		return nil, nil, &domain.ErrConflict{Message: "engagement was modified by another request"}
	}

	before := r.rec.Clone()
	after := r.rec.Clone()
	patch.ApplyTo(after)
	after.Revision++
	after.UpdatedAt = s.now().UTC()

	r.rec = after
	s.rows[id] = r
	return before, after.Clone(), nil
}

func (s *EngagementStore) Delete(_ context.Context, id string) (*domain.ClientEngagement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	delete(s.rows, id)
	return r.rec.Clone(), nil
}

func (s *EngagementStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows), nil
}
