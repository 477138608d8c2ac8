package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/google/uuid"
)

// UserStore implements port.UserStore keyed by normalized email.
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]domain.User
	now     func() time.Time
}

// NewUserStore creates an empty store.
func NewUserStore() *UserStore {
	return &UserStore{byEmail: make(map[string]domain.User), now: time.Now}
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *UserStore) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	rec := *u
	rec.Email = domain.NormalizeEmail(rec.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[rec.Email]; exists {
		return nil, &domain.ErrConflict{Message: "User already exists"}
	}
	now := s.now().UTC()
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.byEmail[rec.Email] = rec
	return &rec, nil
}

func (s *UserStore) Replace(_ context.Context, u *domain.User) error {
	email := domain.NormalizeEmail(u.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byEmail[email]
	if !ok {
		return &domain.ErrNotFound{Resource: "user", ID: email}
	}
	rec := *u
	rec.Email = email
	rec.ID = old.ID
	rec.CreatedAt = old.CreatedAt
	rec.UpdatedAt = s.now().UTC()
	s.byEmail[email] = rec
	return nil
}
