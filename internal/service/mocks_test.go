package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/memstore"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/observability"
	"github.com/devsamp/devsamp-bfa-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type recordingMailer struct {
	mu   sync.Mutex
	sent []domain.Message
	err  error
}

func (m *recordingMailer) Name() string { return "recording" }

func (m *recordingMailer) Send(_ context.Context, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) ofKind(kind domain.NotificationKind) []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Message
	for _, msg := range m.sent {
		if msg.Kind == kind {
			out = append(out, msg)
		}
	}
	return out
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) reset() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

var errStoreDown = errors.New("store unreachable")

// failingEngagementStore fails every write.
type failingEngagementStore struct {
	*memstore.EngagementStore
}

func (failingEngagementStore) Create(context.Context, *domain.ClientEngagement) (*domain.ClientEngagement, error) {
	return nil, errStoreDown
}

func (failingEngagementStore) Update(context.Context, string, domain.EngagementPatch, *int64) (*domain.ClientEngagement, *domain.ClientEngagement, error) {
	return nil, nil, errStoreDown
}

// pausingEngagementStore holds the first email lookup after it has read
// the store, until release is closed.
type pausingEngagementStore struct {
	*memstore.EngagementStore
	read    chan struct{}
	release chan struct{}
	once    sync.Once
}

func newPausingEngagementStore(inner *memstore.EngagementStore) *pausingEngagementStore {
	return &pausingEngagementStore{EngagementStore: inner, read: make(chan struct{}), release: make(chan struct{})}
}

func (p *pausingEngagementStore) FindByClientEmail(ctx context.Context, email string) (*domain.ClientEngagement, error) {
	e, err := p.EngagementStore.FindByClientEmail(ctx, email)
	p.once.Do(func() {
		close(p.read)
		<-p.release
	})
	return e, err
}

// --- Fixtures ---

type fixture struct {
	store    *memstore.Store
	mailer   *recordingMailer
	events   *recordingPublisher
	metrics  *observability.Metrics
	notifier *service.Notifier
	messages service.Messages
}

func newFixture() *fixture {
	m := &recordingMailer{}
	metrics := observability.NewMetrics()
	return &fixture{
		store:    memstore.New(),
		mailer:   m,
		events:   &recordingPublisher{},
		metrics:  metrics,
		notifier: service.NewNotifier(m, metrics, zap.NewNop(), time.Second),
		messages: service.Messages{Agency: "DevSamp"},
	}
}

func (f *fixture) engagements() *service.EngagementService {
	return service.NewEngagementService(f.store.Engagements, f.notifier, f.messages, f.events, nil, zap.NewNop())
}

func (f *fixture) leads(adminEmail string) *service.LeadService {
	return service.NewLeadService(f.store.Leads, f.notifier, f.messages, f.events, adminEmail, zap.NewNop())
}

func ptr[T any](v T) *T { return &v }
