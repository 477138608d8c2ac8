package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/observability"

	"golang.org/x/sync/errgroup"
)

const leadWindowDays = 7

// Counter is satisfied by every content service.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// OverviewService builds the admin console summary.
type OverviewService struct {
	content     map[string]Counter
	leads       *LeadService
	engagements *EngagementService
	metrics     *observability.Metrics
	now         func() time.Time
}

// NewOverviewService takes the flat collections keyed by collection name.
func NewOverviewService(content map[string]Counter, leads *LeadService, engagements *EngagementService, metrics *observability.Metrics) *OverviewService {
	return &OverviewService{
		content:     content,
		leads:       leads,
		engagements: engagements,
		metrics:     metrics,
		now:         time.Now,
	}
}

// Overview loads every collection concurrently. Any store failure fails
// the whole overview.
func (s *OverviewService) Overview(ctx context.Context) (*domain.Overview, error) {
	ctx, span := tracer.Start(ctx, "OverviewService.Overview")
	defer span.End()

	var (
		mu          sync.Mutex
		counts      = make(map[string]int, len(s.content)+2)
		leads       []*domain.Lead
		engagements []*domain.ClientEngagement
	)

	g, gctx := errgroup.WithContext(ctx)
	for name, c := range s.content {
		g.Go(func() error {
			n, err := c.Count(gctx)
			if err != nil {
				return fmt.Errorf("count %s: %w", name, err)
			}
			mu.Lock()
			counts[name] = n
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		var err error
		leads, err = s.leads.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		engagements, err = s.engagements.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts[domain.LeadsCollection.Name] = len(leads)
	counts[domain.EngagementsCollection] = len(engagements)

	out := &domain.Overview{
		Counts:      counts,
		LeadsPerDay: leadsPerDay(leads, s.now(), leadWindowDays),
	}
	for _, l := range leads {
		if l.Status == domain.LeadNew {
			out.NewLeads++
		}
	}
	for _, e := range engagements {
		if e.Status == domain.EngagementActive {
			out.ActiveClients++
		}
	}
	if s.metrics != nil {
		out.Notifications = s.metrics.NotificationSnapshot()
	}
	return out, nil
}

// leadsPerDay buckets leads by UTC day over the last days days, oldest first.
func leadsPerDay(leads []*domain.Lead, now time.Time, days int) []domain.DayCount {
	today := now.UTC().Truncate(24 * time.Hour)
	out := make([]domain.DayCount, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := today.AddDate(0, 0, i-days+1).Format(time.DateOnly)
		out[i] = domain.DayCount{Date: d}
		index[d] = i
	}
	for _, l := range leads {
		if i, ok := index[l.CreatedAt.UTC().Format(time.DateOnly)]; ok {
			out[i].Count++
		}
	}
	return out
}
