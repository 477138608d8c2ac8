package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
)

// EngagementStore implements port.EngagementStore on the client_projects collection.
type EngagementStore struct {
	coll  *mongo.Collection
	store *Store
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func (s *EngagementStore) List(ctx context.Context) ([]*domain.ClientEngagement, error) {
	ctx, span := tracer.Start(ctx, "EngagementStore.List")
	defer span.End()

	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, s.store.observe(domain.EngagementsCollection, "list", err)
	}
	out := []*domain.ClientEngagement{}
	err = cur.All(ctx, &out)
	return out, s.store.observe(domain.EngagementsCollection, "list", err)
}

func (s *EngagementStore) FindByClientEmail(ctx context.Context, email string) (*domain.ClientEngagement, error) {
	ctx, span := tracer.Start(ctx, "EngagementStore.FindByClientEmail")
	defer span.End()

	var e domain.ClientEngagement
	err := s.coll.FindOne(ctx,
		bson.D{{Key: "clientEmail", Value: domain.NormalizeEmail(email)}},
		options.FindOne().SetSort(newestFirst),
	).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, s.store.observe(domain.EngagementsCollection, "find_by_email", nil)
	}
	if err != nil {
		return nil, s.store.observe(domain.EngagementsCollection, "find_by_email", err)
	}
	return &e, s.store.observe(domain.EngagementsCollection, "find_by_email", nil)
}

func (s *EngagementStore) Get(ctx context.Context, id string) (*domain.ClientEngagement, error) {
	ctx, span := tracer.Start(ctx, "EngagementStore.Get")
	defer span.End()

	var e domain.ClientEngagement
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &domain.ErrNotFound{Resource: "engagement", ID: id}
	}
	if err != nil {
		return nil, s.store.observe(domain.EngagementsCollection, "get", err)
	}
	return &e, s.store.observe(domain.EngagementsCollection, "get", nil)
}

func (s *EngagementStore) Create(ctx context.Context, e *domain.ClientEngagement) (*domain.ClientEngagement, error) {
	ctx, span := tracer.Start(ctx, "EngagementStore.Create")
	defer span.End()

	rec := e.Clone()
	now := time.Now().UTC().Truncate(time.Millisecond)
	rec.ID = newID()
	rec.ClientEmail = domain.NormalizeEmail(rec.ClientEmail)
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Revision = 1

	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return nil, s.store.observe(domain.EngagementsCollection, "create", err)
	}
	span.SetAttributes(attribute.String("engagement.id", rec.ID))
	return rec, s.store.observe(domain.EngagementsCollection, "create", nil)
}

// Update applies the patch with FindOneAndUpdate returning the pre-image.
// The post-image is the same patch applied to that pre-image, which is
// exactly what the server wrote.
func (s *EngagementStore) Update(ctx context.Context, id string, patch domain.EngagementPatch, expectedRevision *int64) (*domain.ClientEngagement, *domain.ClientEngagement, error) {
	ctx, span := tracer.Start(ctx, "EngagementStore.Update")
	defer span.End()
	span.SetAttributes(attribute.String("engagement.id", id))

	now := time.Now().UTC().Truncate(time.Millisecond)
	filter := bson.D{{Key: "_id", Value: id}}
	if expectedRevision != nil {
		filter = append(filter, bson.E{Key: "revision", Value: *expectedRevision})
	}
	set := patchSet(patch)
	set = append(set, bson.E{Key: "updatedAt", Value: now})
	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$inc", Value: bson.D{{Key: "revision", Value: 1}}},
	}

	var before domain.ClientEngagement
	err := s.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil, s.missOrConflict(ctx, id, expectedRevision)
	}
	if err != nil {
		return nil, nil, s.store.observe(domain.EngagementsCollection, "update", err)
	}

	after := before.Clone()
	patch.ApplyTo(after)
	after.Revision = before.Revision + 1
	after.UpdatedAt = now
	return &before, after, s.store.observe(domain.EngagementsCollection, "update", nil)
}

func (s *EngagementStore) missOrConflict(ctx context.Context, id string, expectedRevision *int64) error {
	if expectedRevision == nil {
		return &domain.ErrNotFound{Resource: "engagement", ID: id}
	}
	n, err := s.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return s.store.observe(domain.EngagementsCollection, "update", err)
	}
	if n == 0 {
		return &domain.ErrNotFound{Resource: "engagement", ID: id}
	}
	return &domain.ErrConflict{Message: "engagement was modified by another request"}
}

func (s *EngagementStore) Delete(ctx context.Context, id string) (*domain.ClientEngagement, error) {
	ctx, span := tracer.Start(ctx, "EngagementStore.Delete")
	defer span.End()

	var e domain.ClientEngagement
	err := s.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, s.store.observe(domain.EngagementsCollection, "delete", nil)
	}
	if err != nil {
		return nil, s.store.observe(domain.EngagementsCollection, "delete", err)
	}
	return &e, s.store.observe(domain.EngagementsCollection, "delete", nil)
}

func (s *EngagementStore) Count(ctx context.Context) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	return int(n), s.store.observe(domain.EngagementsCollection, "count", err)
}

// patchSet turns the non-nil fields of a patch into a $set document.
func patchSet(p domain.EngagementPatch) bson.D {
	set := bson.D{}
	add := func(key string, v any) { set = append(set, bson.E{Key: key, Value: v}) }

	if p.ClientEmail != nil {
		add("clientEmail", domain.NormalizeEmail(*p.ClientEmail))
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Budget != nil {
		add("budget", *p.Budget)
	}
	if p.DueDate != nil {
		add("dueDate", *p.DueDate)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.PaymentStatus != nil {
		add("paymentStatus", *p.PaymentStatus)
	}
	if p.Progress != nil {
		add("progress", *p.Progress)
	}
	if p.NextMilestone != nil {
		add("nextMilestone", *p.NextMilestone)
	}
	if p.Stages != nil {
		add("stages", append([]domain.Stage{}, (*p.Stages)...))
	}
	if p.Links != nil {
		add("links", append([]domain.Link{}, (*p.Links)...))
	}
	if p.Documents != nil {
		add("documents", append([]domain.Document{}, (*p.Documents)...))
	}
	if p.Updates != nil {
		add("updates", append([]domain.Update{}, (*p.Updates)...))
	}
	return set
}
