// Package mongostore implements the document store ports on MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/observability"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/resilience"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("infra/mongostore")

const serviceName = "mongodb"

// Store owns the client and hands out one adapter per collection.
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	metrics *observability.Metrics
	logger  *zap.Logger

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

// Connect dials MongoDB, retrying the initial ping with backoff, and
// ensures the indexes the adapters rely on.
func Connect(ctx context.Context, uri, database string, retry resilience.Config, metrics *observability.Metrics, logger *zap.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	attempt := 0
	err = resilience.RetryWithBackoff(ctx, retry, func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			logger.Warn("mongo ping failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(database)
	s := &Store{client: client, db: db, metrics: metrics, logger: logger}
	s.Engagements = &EngagementStore{coll: db.Collection(domain.EngagementsCollection), store: s}
	s.Users = &UserStore{coll: db.Collection(domain.UsersCollection), store: s}
	s.Leads = NewCollection[domain.Lead](s, domain.LeadsCollection)
	s.Services = NewCollection[domain.Service](s, domain.ServicesCollection)
	s.Team = NewCollection[domain.TeamMember](s, domain.TeamCollection)
	s.Projects = NewCollection[domain.Project](s, domain.ProjectsCollection)
	s.Pricing = NewCollection[domain.PricingPlan](s, domain.PricingCollection)
	s.Reviews = NewCollection[domain.Review](s, domain.ReviewsCollection)
	s.Blogs = NewCollection[domain.BlogPost](s, domain.BlogsCollection)

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("mongo connected", zap.String("database", database))
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(domain.UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("index users.email: %w", err)
	}
	_, err = s.db.Collection(domain.EngagementsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "clientEmail", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("index client_projects.clientEmail: %w", err)
	}
	return nil
}

// Ping checks connectivity for /readyz.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) observe(collection, op string, err error) error {
	if s.metrics != nil {
		s.metrics.IncrStoreOp(collection, op, err)
	}
	if err == nil {
		return nil
	}
	s.logger.Error("mongo operation failed",
		zap.String("collection", collection),
		zap.String("op", op),
		zap.Error(err),
	)
	return &domain.ErrExternalService{Service: serviceName, Err: err}
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func sortDoc(keys []domain.SortKey) bson.D {
	d := make(bson.D, 0, len(keys)+1)
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: k.Field, Value: dir})
	}
	// ObjectID hex ids sort by creation time.
	return append(d, bson.E{Key: "_id", Value: -1})
}
