package domain

// SortKey orders a document-store listing.
type SortKey struct {
	Field string
	Desc  bool
}

// Collection describes how one flat content type is stored and listed.
type Collection[E any] struct {
	Name      string // storage collection and API path segment
	PluralKey string // key of the list response object
	Label     string // human name used in response messages
	Sort      []SortKey
	Less      func(a, b *E) bool
}

func newestFirst[E any, P interface {
	*E
	Record
}](a, b *E) bool {
	return P(a).Base().CreatedAt.After(P(b).Base().CreatedAt)
}

var (
	LeadsCollection = Collection[Lead]{
		Name: "contacts", PluralKey: "contacts", Label: "Lead",
		Sort: []SortKey{{Field: "createdAt", Desc: true}},
		Less: newestFirst[Lead],
	}
	ServicesCollection = Collection[Service]{
		Name: "services", PluralKey: "services", Label: "Service",
		Sort: []SortKey{{Field: "order"}, {Field: "createdAt", Desc: true}},
		Less: func(a, b *Service) bool {
			if a.Order != b.Order {
				return a.Order < b.Order
			}
			return a.CreatedAt.After(b.CreatedAt)
		},
	}
	TeamCollection = Collection[TeamMember]{
		Name: "team", PluralKey: "team", Label: "Team Member",
		Sort: []SortKey{{Field: "createdAt", Desc: true}},
		Less: newestFirst[TeamMember],
	}
	ProjectsCollection = Collection[Project]{
		Name: "projects", PluralKey: "projects", Label: "Project",
		Sort: []SortKey{{Field: "createdAt", Desc: true}},
		Less: newestFirst[Project],
	}
	PricingCollection = Collection[PricingPlan]{
		Name: "pricing", PluralKey: "pricing", Label: "Plan",
		Sort: []SortKey{{Field: "priceMonthly"}, {Field: "createdAt", Desc: true}},
		Less: func(a, b *PricingPlan) bool {
			if a.PriceMonthly != b.PriceMonthly {
				return a.PriceMonthly < b.PriceMonthly
			}
			return a.CreatedAt.After(b.CreatedAt)
		},
	}
	ReviewsCollection = Collection[Review]{
		Name: "reviews", PluralKey: "reviews", Label: "Review",
		Sort: []SortKey{{Field: "createdAt", Desc: true}},
		Less: newestFirst[Review],
	}
	BlogsCollection = Collection[BlogPost]{
		Name: "blogs", PluralKey: "blogs", Label: "Post",
		Sort: []SortKey{{Field: "createdAt", Desc: true}},
		Less: newestFirst[BlogPost],
	}
)

// EngagementsCollection is the storage name of client engagements.
const EngagementsCollection = "client_projects"

// UsersCollection is the storage name of site accounts.
const UsersCollection = "users"
