// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"io"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
)

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// EngagementStore persists client engagements.
type EngagementStore interface {
	// List returns every engagement, newest first.
	List(ctx context.Context) ([]*domain.ClientEngagement, error)
	// FindByClientEmail returns the newest engagement owned by email, or nil.
	FindByClientEmail(ctx context.Context, email string) (*domain.ClientEngagement, error)
	Get(ctx context.Context, id string) (*domain.ClientEngagement, error)
	// Create assigns identity, timestamps and revision 1.
	Create(ctx context.Context, e *domain.ClientEngagement) (*domain.ClientEngagement, error)
	// Update merges patch into the record in one atomic write and returns
	// the record as it was before and after. A non-nil expectedRevision that
	// does not match yields *domain.ErrConflict. A missing id yields
	// *domain.ErrNotFound.
	Update(ctx context.Context, id string, patch domain.EngagementPatch, expectedRevision *int64) (before, after *domain.ClientEngagement, err error)
	// Delete removes the record and returns it, or nil if it did not exist.
	Delete(ctx context.Context, id string) (*domain.ClientEngagement, error)
	Count(ctx context.Context) (int, error)
}

// CollectionStore persists one kind of flat content record.
// P is a pointer to the record type.
type CollectionStore[P domain.Record] interface {
	List(ctx context.Context) ([]P, error)
	// Get returns *domain.ErrNotFound when id is unknown.
	Get(ctx context.Context, id string) (P, error)
	Insert(ctx context.Context, rec P) (P, error)
	// Replace overwrites the whole document; *domain.ErrNotFound when absent.
	Replace(ctx context.Context, id string, rec P) error
	// Delete is idempotent.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// UserStore persists site accounts.
type UserStore interface {
	// FindByEmail returns nil when no account exists.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create returns *domain.ErrConflict when the email is taken.
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	Replace(ctx context.Context, u *domain.User) error
}

// Mailer delivers one email. Implementations return transport errors;
// the notifier decides what to do with them.
type Mailer interface {
	Send(ctx context.Context, msg domain.Message) error
	Name() string
}

// AssetStore stores uploaded bytes and returns a public URL.
type AssetStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// EventPublisher emits domain events. Publishing is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// HealthChecker is implemented by backends that can be probed by /readyz.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
