package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/events"
	"github.com/devsamp/devsamp-bfa-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LeadService handles the public contact form and lead administration.
type LeadService struct {
	store      port.CollectionStore[*domain.Lead]
	notifier   *Notifier
	messages   Messages
	events     port.EventPublisher
	adminEmail string
	logger     *zap.Logger
}

func NewLeadService(
	store port.CollectionStore[*domain.Lead],
	notifier *Notifier,
	messages Messages,
	publisher port.EventPublisher,
	adminEmail string,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		store:      store,
		notifier:   notifier,
		messages:   messages,
		events:     publisher,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// Submit persists the inquiry with status New, then notifies the agency
// and acknowledges the submitter. Both sends are independent and
// best-effort.
func (s *LeadService) Submit(ctx context.Context, in domain.LeadInput) (*domain.Lead, error) {
	ctx, span := tracer.Start(ctx, "LeadService.Submit")
	defer span.End()

	lead := in.ToLead()
	if err := lead.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.store.Insert(ctx, lead)
	if err != nil {
		return nil, fmt.Errorf("save lead: %w", err)
	}
	span.SetAttributes(attribute.String("lead.id", saved.ID))
	s.logger.Info("lead received", zap.String("lead_id", saved.ID), zap.String("service", saved.Service))

	var g errgroup.Group
	if s.adminEmail != "" {
		g.Go(func() error {
			s.notifier.Notify(ctx, s.messages.LeadForAdmin(saved, s.adminEmail))
			return nil
		})
	}
	g.Go(func() error {
		s.notifier.Notify(ctx, s.messages.LeadAck(saved))
		return nil
	})
	_ = g.Wait()

	publishEvent(ctx, s.events, s.logger, events.LeadCreated, saved)
	return saved, nil
}

func (s *LeadService) List(ctx context.Context) ([]*domain.Lead, error) {
	ctx, span := tracer.Start(ctx, "LeadService.List")
	defer span.End()

	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return list, nil
}

// UpdateStatus changes only the lead status.
func (s *LeadService) UpdateStatus(ctx context.Context, req domain.LeadStatusRequest) (*domain.Lead, error) {
	ctx, span := tracer.Start(ctx, "LeadService.UpdateStatus")
	defer span.End()

	if strings.TrimSpace(req.ID) == "" {
		return nil, &domain.ErrValidation{Field: "id", Message: "is required"}
	}
	if !req.Status.Valid() {
		return nil, &domain.ErrValidation{Field: "status", Message: "must be one of New, Contacted, Closed"}
	}

	lead, err := s.store.Get(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("load lead: %w", err)
	}
	lead.Status = req.Status
	if err := s.store.Replace(ctx, req.ID, lead); err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

func (s *LeadService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &domain.ErrValidation{Field: "id", Message: "is required"}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return nil
}

func (s *LeadService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

var exportHeader = []string{"Name", "Email", "Service", "Message", "Date", "Status"}

// Export writes every lead as CSV, newest first.
func (s *LeadService) Export(ctx context.Context, w io.Writer) error {
	leads, err := s.List(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, l := range leads {
		if err := cw.Write([]string{
			l.Name,
			l.Email,
			l.Service,
			l.Message,
			l.CreatedAt.Format(time.DateOnly),
			string(l.Status),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
