package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/config"
	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/handler"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/assets"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/cache"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/events"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/mailer"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/memstore"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/mongostore"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/observability"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/resilience"
	"github.com/devsamp/devsamp-bfa-go/internal/port"
	"github.com/devsamp/devsamp-bfa-go/internal/seed"
	"github.com/devsamp/devsamp-bfa-go/internal/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// backend is the set of stores the services run on, whichever driver backs them.
type backend struct {
	engagements port.EngagementStore
	users       port.UserStore
	leads       port.CollectionStore[*domain.Lead]
	services    port.CollectionStore[*domain.Service]
	team        port.CollectionStore[*domain.TeamMember]
	projects    port.CollectionStore[*domain.Project]
	pricing     port.CollectionStore[*domain.PricingPlan]
	reviews     port.CollectionStore[*domain.Review]
	blogs       port.CollectionStore[*domain.BlogPost]
	health      port.HealthChecker
	close       func(context.Context) error
}

// redisPinger adapts a redis client to port.HealthChecker.
type redisPinger struct{ client *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("agency", cfg.AgencyName),
		zap.Bool("mongo", cfg.MongoURI != ""),
		zap.Bool("redis", cfg.RedisAddr != ""),
		zap.Bool("mail_configured", cfg.MailConfigured()),
		zap.Bool("admin_auth", cfg.AdminAuth),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Duration("mail_timeout", cfg.MailTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("jwt_ttl", cfg.JWTTTL),
	)

	ctx := context.Background()

	// --- Tracing ---
	shutdown, err := observability.InitTracer(ctx, "devsamp-bfa", cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}

	// --- Store ---
	store, err := openBackend(ctx, cfg, resilienceCfg, metrics, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	checkers := map[string]port.HealthChecker{"store": store.health}

	// --- Cache ---
	var engagementCache port.Cache[*domain.ClientEngagement]
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		engagementCache = cache.NewRedis[*domain.ClientEngagement](redisClient, "engagement:", cfg.CacheTTL, logger)
		checkers["redis"] = redisPinger{client: redisClient}
		logger.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
	} else {
		mem := cache.New[*domain.ClientEngagement](cfg.CacheTTL)
		defer mem.Close()
		engagementCache = mem
	}
	engagementCache = cache.WithMetrics(engagementCache, "engagements", metrics)

	// --- Mail ---
	outbound := buildMailer(cfg, logger)

	// --- Assets ---
	var assetStore port.AssetStore
	if cfg.AssetBucket != "" {
		s3, err := assets.NewS3Store(ctx, assets.Config{
			Bucket:        cfg.AssetBucket,
			Region:        cfg.AssetRegion,
			Endpoint:      cfg.AssetEndpoint,
			PublicBaseURL: cfg.AssetPublicBaseURL,
		}, resilience.NewGuard("s3", cfg.MaxConcurrency, logger))
		if err != nil {
			logger.Fatal("failed to init asset store", zap.Error(err))
		}
		assetStore = s3
	} else {
		logger.Warn("asset bucket not configured, uploads unavailable")
	}

	// --- Events ---
	var publisher port.EventPublisher = events.Nop{}
	if cfg.MQURL != "" {
		p, err := events.NewPublisher(cfg.MQURL)
		if err != nil {
			logger.Fatal("failed to connect message broker", zap.Error(err))
		}
		publisher = p
		checkers["mq"] = p
	}
	publisher = events.WithMetrics(publisher, metrics)

	// --- Services ---
	notifier := service.NewNotifier(outbound, metrics, logger, cfg.MailTimeout)
	messages := service.Messages{Agency: cfg.AgencyName}
	tokens := service.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	engagementSvc := service.NewEngagementService(store.engagements, notifier, messages, publisher, engagementCache, logger)
	leadSvc := service.NewLeadService(store.leads, notifier, messages, publisher, cfg.AdminEmail, logger)
	authSvc := service.NewAuthService(store.users, tokens, notifier, messages, cfg.AdminPasskey, logger)
	uploadSvc := service.NewUploadService(assetStore, cfg.UploadMaxBytes, logger)

	content := handler.Content{
		Services: service.NewContentService(store.services, domain.ServicesCollection, logger),
		Team:     service.NewContentService(store.team, domain.TeamCollection, logger),
		Projects: service.NewContentService(store.projects, domain.ProjectsCollection, logger),
		Pricing:  service.NewContentService(store.pricing, domain.PricingCollection, logger),
		Reviews:  service.NewContentService(store.reviews, domain.ReviewsCollection, logger),
		Blogs:    service.NewContentService(store.blogs, domain.BlogsCollection, logger),
	}
	overviewSvc := service.NewOverviewService(map[string]service.Counter{
		domain.ServicesCollection.Name: content.Services,
		domain.TeamCollection.Name:     content.Team,
		domain.ProjectsCollection.Name: content.Projects,
		domain.PricingCollection.Name:  content.Pricing,
		domain.ReviewsCollection.Name:  content.Reviews,
		domain.BlogsCollection.Name:    content.Blogs,
	}, leadSvc, engagementSvc, metrics)

	// --- Seed ---
	if cfg.SeedFile != "" {
		f, err := seed.LoadFile(cfg.SeedFile)
		if err != nil {
			logger.Fatal("failed to load seed file", zap.String("path", cfg.SeedFile), zap.Error(err))
		}
		if err := seed.Apply(ctx, f, seed.Stores{
			Services: store.services,
			Team:     store.team,
			Projects: store.projects,
			Pricing:  store.pricing,
			Reviews:  store.reviews,
			Blogs:    store.blogs,
		}, logger); err != nil {
			logger.Fatal("failed to seed content", zap.Error(err))
		}
	}

	// --- Router ---
	contactLimiter := handler.NewRateLimiter(cfg.ContactRatePerMin)
	defer contactLimiter.Stop()

	router := handler.NewRouter(handler.Services{
		Engagements: engagementSvc,
		Leads:       leadSvc,
		Auth:        authSvc,
		Uploads:     uploadSvc,
		Overview:    overviewSvc,
		Content:     content,
		Store:       store.health,
		Checkers:    checkers,
	}, handler.Options{
		CORSOrigins:       cfg.CORSOrigins,
		AdminAuth:         cfg.AdminAuth,
		ContactRatePerMin: cfg.ContactRatePerMin,
		ContactLimiter:    contactLimiter,
	}, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		logger.Warn("close publisher", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("close redis", zap.Error(err))
		}
	}
	if err := store.close(shutdownCtx); err != nil {
		logger.Warn("close store", zap.Error(err))
	}

	logger.Info("server stopped")
}

func openBackend(ctx context.Context, cfg *config.Config, retry resilience.Config, metrics *observability.Metrics, logger *zap.Logger) (*backend, error) {
	if cfg.MongoURI == "" {
		logger.Warn("MONGODB_URI not set, using in-memory store")
		st := memstore.New()
		return &backend{
			engagements: st.Engagements,
			users:       st.Users,
			leads:       st.Leads,
			services:    st.Services,
			team:        st.Team,
			projects:    st.Projects,
			pricing:     st.Pricing,
			reviews:     st.Reviews,
			blogs:       st.Blogs,
			health:      st,
			close:       func(context.Context) error { return nil },
		}, nil
	}

	st, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, retry, metrics, logger)
	if err != nil {
		return nil, err
	}
	return &backend{
		engagements: st.Engagements,
		users:       st.Users,
		leads:       st.Leads,
		services:    st.Services,
		team:        st.Team,
		projects:    st.Projects,
		pricing:     st.Pricing,
		reviews:     st.Reviews,
		blogs:       st.Blogs,
		health:      st,
		close:       st.Close,
	}, nil
}

// buildMailer prefers SMTP and falls over to Resend. Without credentials
// messages are only logged.
func buildMailer(cfg *config.Config, logger *zap.Logger) port.Mailer {
	if !cfg.MailConfigured() {
		logger.Warn("mail credentials not set, notifications will only be logged")
		return mailer.NewLog(logger)
	}

	var providers []port.Mailer
	if cfg.EmailUser != "" && cfg.EmailPass != "" {
		providers = append(providers, mailer.NewGuarded(mailer.NewSMTP(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUser,
			Password: cfg.EmailPass,
			FromName: cfg.AgencyName,
		}), resilience.NewGuard("smtp", cfg.MaxConcurrency, logger)))
	}
	if cfg.ResendAPIKey != "" {
		providers = append(providers, mailer.NewGuarded(mailer.NewResend(mailer.ResendConfig{
			APIKey: cfg.ResendAPIKey,
			From:   fmt.Sprintf("%s Notifications <%s>", cfg.AgencyName, cfg.EmailUser),
		}), resilience.NewGuard("resend", cfg.MaxConcurrency, logger)))
	}
	return mailer.NewFailover(providers...)
}
