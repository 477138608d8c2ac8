package memstore

import (
	"context"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
)

// Store bundles every collection of the back office.
type Store struct {
	Engagements *EngagementStore
	Users       *UserStore
	Leads       *Collection[domain.Lead, *domain.Lead]
	Services    *Collection[domain.Service, *domain.Service]
	Team        *Collection[domain.TeamMember, *domain.TeamMember]
	Projects    *Collection[domain.Project, *domain.Project]
	Pricing     *Collection[domain.PricingPlan, *domain.PricingPlan]
	Reviews     *Collection[domain.Review, *domain.Review]
	Blogs       *Collection[domain.BlogPost, *domain.BlogPost]
}

// New creates an empty store.
func New() *Store {
	return &Store{
		Engagements: NewEngagementStore(),
		Users:       NewUserStore(),
		Leads:       NewCollection[domain.Lead](domain.LeadsCollection),
		Services:    NewCollection[domain.Service](domain.ServicesCollection),
		Team:        NewCollection[domain.TeamMember](domain.TeamCollection),
		Projects:    NewCollection[domain.Project](domain.ProjectsCollection),
		Pricing:     NewCollection[domain.PricingPlan](domain.PricingCollection),
		Reviews:     NewCollection[domain.Review](domain.ReviewsCollection),
		Blogs:       NewCollection[domain.BlogPost](domain.BlogsCollection),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }
