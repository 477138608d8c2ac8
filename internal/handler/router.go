package handler

import (
	"net/http"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/observability"
	"github.com/devsamp/devsamp-bfa-go/internal/port"
	"github.com/devsamp/devsamp-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Content groups the flat collection services.
type Content struct {
	Services *service.ContentService[domain.Service, *domain.Service]
	Team     *service.ContentService[domain.TeamMember, *domain.TeamMember]
	Projects *service.ContentService[domain.Project, *domain.Project]
	Pricing  *service.ContentService[domain.PricingPlan, *domain.PricingPlan]
	Reviews  *service.ContentService[domain.Review, *domain.Review]
	Blogs    *service.ContentService[domain.BlogPost, *domain.BlogPost]
}

// Services is everything the router serves.
type Services struct {
	Engagements *service.EngagementService
	Leads       *service.LeadService
	Auth        *service.AuthService
	Uploads     *service.UploadService
	Overview    *service.OverviewService
	Content     Content

	// Store answers /readyz; Checkers are reported by /healthz.
	Store    port.HealthChecker
	Checkers map[string]port.HealthChecker
}

// Options tune the HTTP surface.
type Options struct {
	CORSOrigins       []string
	AdminAuth         bool
	ContactRatePerMin int

	// ContactLimiter overrides the limiter built from ContactRatePerMin.
	// The caller owns it and stops it at shutdown.
	ContactLimiter *RateLimiter
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc Services, opts Options, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.ZapLoggerMiddleware(logger, metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(opts.CORSOrigins),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc.Checkers))
	r.Get("/readyz", readyzHandler(svc.Store))
	if metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}

	admin := passThrough
	if opts.AdminAuth && svc.Auth != nil {
		admin = AdminAuthMiddleware(svc.Auth, logger)
	}

	limiter := opts.ContactLimiter
	if limiter == nil {
		limiter = NewRateLimiter(opts.ContactRatePerMin)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		// Client engagements
		if svc.Engagements != nil {
			r.With(unlessQuery("email", admin)).Get("/client-projects", listEngagementsHandler(svc.Engagements, logger))
			r.With(admin).Post("/client-projects", createEngagementHandler(svc.Engagements, logger))
			r.With(admin).Put("/client-projects", updateEngagementHandler(svc.Engagements, logger))
			r.With(admin).Delete("/client-projects", deleteEngagementHandler(svc.Engagements, logger))
			r.Post("/client-projects/documents", appendDocumentHandler(svc.Engagements, logger))
			r.Get("/dashboard", dashboardHandler(svc.Engagements, logger))
		}

		// Leads
		if svc.Leads != nil {
			r.With(limiter.Middleware).Post("/contact", submitLeadHandler(svc.Leads, logger))
			r.With(admin).Get("/contact", listLeadsHandler(svc.Leads, logger))
			r.With(admin).Put("/contact", updateLeadStatusHandler(svc.Leads, logger))
			r.With(admin).Delete("/contact", deleteLeadHandler(svc.Leads, logger))
			r.With(admin).Get("/contact/export", exportLeadsHandler(svc.Leads, logger))
		}

		// Flat content
		c := svc.Content
		if c.Services != nil {
			mountContent(r, c.Services, admin, logger)
		}
		if c.Team != nil {
			mountContent(r, c.Team, admin, logger)
		}
		if c.Projects != nil {
			mountContent(r, c.Projects, admin, logger)
		}
		if c.Pricing != nil {
			mountContent(r, c.Pricing, admin, logger)
		}
		if c.Reviews != nil {
			mountContent(r, c.Reviews, admin, logger)
		}
		if c.Blogs != nil {
			mountContent(r, c.Blogs, admin, logger)
		}

		// Auth
		if svc.Auth != nil {
			r.Post("/auth", authHandler(svc.Auth, logger))
			r.Post("/admin/login", adminLoginHandler(svc.Auth, logger))
		}

		if svc.Overview != nil {
			r.With(admin).Get("/admin/overview", overviewHandler(svc.Overview, logger))
		}
		if svc.Uploads != nil {
			r.Post("/upload", uploadHandler(svc.Uploads, logger))
		}
	})

	return r
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
