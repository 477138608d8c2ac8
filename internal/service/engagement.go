// Package service holds the back office use cases: the engagement
// workflow, lead intake, content management, auth and uploads.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/events"
	"github.com/devsamp/devsamp-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service")

// DateLabel is the human date format stored on documents and updates.
const DateLabel = "Jan 2, 2006"

// EngagementService applies mutations to client engagements and decides,
// from the stored pre-image and post-image, which notifications to send.
type EngagementService struct {
	store    port.EngagementStore
	notifier *Notifier
	messages Messages
	events   port.EventPublisher
	cache    port.Cache[*domain.ClientEngagement]
	logger   *zap.Logger
	now      func() time.Time

	// fillMu orders cache fills against invalidations. writes counts
	// invalidations; a lookup that saw a different count skips its fill.
	fillMu sync.Mutex
	writes uint64
}

// NewEngagementService wires the workflow. cache may be nil.
func NewEngagementService(
	store port.EngagementStore,
	notifier *Notifier,
	messages Messages,
	publisher port.EventPublisher,
	cache port.Cache[*domain.ClientEngagement],
	logger *zap.Logger,
) *EngagementService {
	return &EngagementService{
		store:    store,
		notifier: notifier,
		messages: messages,
		events:   publisher,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// Dashboard is the client view of one engagement.
type Dashboard struct {
	Project  *domain.ClientEngagement `json:"project"`
	Timeline []domain.TimelineStep    `json:"timeline"`
}

// DocumentUpload is the body of POST /api/client-projects/documents.
type DocumentUpload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

func (s *EngagementService) List(ctx context.Context) ([]*domain.ClientEngagement, error) {
	ctx, span := tracer.Start(ctx, "EngagementService.List")
	defer span.End()

	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list engagements: %w", err)
	}
	return list, nil
}

// FindByClientEmail returns the client's engagement or nil.
func (s *EngagementService) FindByClientEmail(ctx context.Context, email string) (*domain.ClientEngagement, error) {
	ctx, span := tracer.Start(ctx, "EngagementService.FindByClientEmail")
	defer span.End()

	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, &domain.ErrValidation{Field: "email", Message: "is required"}
	}

	if s.cache == nil {
		return s.findInStore(ctx, email)
	}
	if e, ok := s.cache.Get(email); ok {
		return e.Clone(), nil
	}

	s.fillMu.Lock()
	seen := s.writes
	s.fillMu.Unlock()

	e, err := s.findInStore(ctx, email)
	if err != nil {
		return nil, err
	}

	s.fillMu.Lock()
	if s.writes == seen {
		s.cache.Set(email, e.Clone())
	}
	s.fillMu.Unlock()
	return e, nil
}

func (s *EngagementService) findInStore(ctx context.Context, email string) (*domain.ClientEngagement, error) {
	e, err := s.store.FindByClientEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find engagement by email: %w", err)
	}
	return e, nil
}

// Dashboard returns the engagement with its derived stage timeline.
func (s *EngagementService) Dashboard(ctx context.Context, email string) (*Dashboard, error) {
	e, err := s.FindByClientEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Project: e, Timeline: domain.Timeline(e)}, nil
}

// Create stores a new engagement and sends the welcome notification.
func (s *EngagementService) Create(ctx context.Context, patch domain.EngagementPatch) (*domain.ClientEngagement, error) {
	ctx, span := tracer.Start(ctx, "EngagementService.Create")
	defer span.End()

	if err := patch.ValidateCreate(); err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, domain.NewEngagement(patch))
	if err != nil {
		return nil, fmt.Errorf("create engagement: %w", err)
	}
	span.SetAttributes(attribute.String("engagement.id", created.ID))
	s.invalidate(created.ClientEmail)

	s.logger.Info("engagement created",
		zap.String("engagement_id", created.ID),
		zap.String("client_email", created.ClientEmail),
	)

	s.notifier.Notify(ctx, s.messages.Welcome(created))
	s.publish(ctx, events.EngagementCreated, created)
	return created, nil
}

// Update merges the request into the stored record. A status change sends
// one status notification; a transition of progress to 100 sends one
// completion notification. Both can fire from the same update.
func (s *EngagementService) Update(ctx context.Context, req domain.EngagementUpdateRequest) (*domain.ClientEngagement, error) {
	ctx, span := tracer.Start(ctx, "EngagementService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("engagement.id", req.ID))

	if strings.TrimSpace(req.ID) == "" {
		return nil, &domain.ErrValidation{Field: "id", Message: "is required"}
	}
	if err := req.EngagementPatch.Validate(); err != nil {
		return nil, err
	}

	before, after, err := s.store.Update(ctx, req.ID, req.EngagementPatch, req.Revision)
	if err != nil {
		return nil, fmt.Errorf("update engagement: %w", err)
	}
	s.invalidate(before.ClientEmail)
	s.invalidate(after.ClientEmail)

	statusChanged := req.Status != nil && before.Status != after.Status
	completed := after.Progress == 100 && before.Progress != 100

	s.logger.Info("engagement updated",
		zap.String("engagement_id", after.ID),
		zap.Int64("revision", after.Revision),
		zap.Bool("status_changed", statusChanged),
		zap.Bool("completed", completed),
	)

	if statusChanged {
		s.notifier.Notify(ctx, s.messages.StatusChanged(after))
	}
	if completed {
		s.notifier.Notify(ctx, s.messages.Completed(after))
	}
	s.publish(ctx, events.EngagementUpdated, after)
	return after, nil
}

// AppendDocument attaches a client-uploaded document through the update
// path, guarded by the revision it read.
func (s *EngagementService) AppendDocument(ctx context.Context, in DocumentUpload) (*domain.ClientEngagement, error) {
	ctx, span := tracer.Start(ctx, "EngagementService.AppendDocument")
	defer span.End()

	email := domain.NormalizeEmail(in.Email)
	switch {
	case email == "":
		return nil, &domain.ErrValidation{Field: "email", Message: "is required"}
	case strings.TrimSpace(in.Name) == "":
		return nil, &domain.ErrValidation{Field: "name", Message: "is required"}
	case strings.TrimSpace(in.URL) == "":
		return nil, &domain.ErrValidation{Field: "url", Message: "is required"}
	}

	current, err := s.store.FindByClientEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find engagement by email: %w", err)
	}
	if current == nil {
		return nil, &domain.ErrNotFound{Resource: "engagement", ID: email}
	}

	docs := append(current.Documents, domain.Document{
		Name:       strings.TrimSpace(in.Name),
		URL:        strings.TrimSpace(in.URL),
		UploadedBy: domain.UploadedByClient,
		Date:       s.now().Format(DateLabel),
	})
	rev := current.Revision
	return s.Update(ctx, domain.EngagementUpdateRequest{
		ID:              current.ID,
		Revision:        &rev,
		EngagementPatch: domain.EngagementPatch{Documents: &docs},
	})
}

// Delete removes the engagement. It sends no notification and succeeds
// when the id does not exist.
func (s *EngagementService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "EngagementService.Delete")
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return &domain.ErrValidation{Field: "id", Message: "is required"}
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete engagement: %w", err)
	}
	if deleted == nil {
		return nil
	}
	s.invalidate(deleted.ClientEmail)
	s.logger.Info("engagement deleted", zap.String("engagement_id", id))
	s.publish(ctx, events.EngagementDeleted, map[string]string{"id": id, "clientEmail": deleted.ClientEmail})
	return nil
}

func (s *EngagementService) invalidate(email string) {
	if s.cache == nil || email == "" {
		return
	}
	s.fillMu.Lock()
	s.writes++
	s.cache.Delete(email)
	s.fillMu.Unlock()
}

func (s *EngagementService) publish(ctx context.Context, key string, payload any) {
	publishEvent(ctx, s.events, s.logger, key, payload)
}

// publishEvent emits a best-effort event; failures are logged only.
func publishEvent(ctx context.Context, p port.EventPublisher, logger *zap.Logger, key string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(context.WithoutCancel(ctx), key, payload); err != nil {
		logger.Warn("event publish failed", zap.String("routing_key", key), zap.Error(err))
	}
}
