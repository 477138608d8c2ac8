package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection implements port.CollectionStore for one flat record type.
type Collection[E any, P interface {
	*E
	domain.Record
}] struct {
	coll  *mongo.Collection
	spec  domain.Collection[E]
	store *Store
}

// NewCollection binds spec to its MongoDB collection.
func NewCollection[E any, P interface {
	*E
	domain.Record
}](s *Store, spec domain.Collection[E]) *Collection[E, P] {
	return &Collection[E, P]{coll: s.db.Collection(spec.Name), spec: spec, store: s}
}

func (c *Collection[E, P]) List(ctx context.Context) ([]P, error) {
	ctx, span := tracer.Start(ctx, "Collection.List."+c.spec.Name)
	defer span.End()

	cur, err := c.coll.Find(ctx, bson.D{}, options.Find().SetSort(sortDoc(c.spec.Sort)))
	if err != nil {
		return nil, c.store.observe(c.spec.Name, "list", err)
	}
	defer cur.Close(ctx)

	out := make([]P, 0)
	for cur.Next(ctx) {
		rec := P(new(E))
		if err := cur.Decode(rec); err != nil {
			return nil, c.store.observe(c.spec.Name, "list", err)
		}
		out = append(out, rec)
	}
	return out, c.store.observe(c.spec.Name, "list", cur.Err())
}

func (c *Collection[E, P]) Get(ctx context.Context, id string) (P, error) {
	rec := P(new(E))
	err := c.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &domain.ErrNotFound{Resource: c.spec.Label, ID: id}
	}
	if err != nil {
		return nil, c.store.observe(c.spec.Name, "get", err)
	}
	return rec, c.store.observe(c.spec.Name, "get", nil)
}

func (c *Collection[E, P]) Insert(ctx context.Context, rec P) (P, error) {
	ctx, span := tracer.Start(ctx, "Collection.Insert."+c.spec.Name)
	defer span.End()

	now := time.Now().UTC().Truncate(time.Millisecond)
	meta := rec.Base()
	meta.ID = newID()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if _, err := c.coll.InsertOne(ctx, rec); err != nil {
		return nil, c.store.observe(c.spec.Name, "insert", err)
	}
	return rec, c.store.observe(c.spec.Name, "insert", nil)
}

func (c *Collection[E, P]) Replace(ctx context.Context, id string, rec P) error {
	ctx, span := tracer.Start(ctx, "Collection.Replace."+c.spec.Name)
	defer span.End()

	meta := rec.Base()
	meta.ID = id
	meta.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	res, err := c.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, rec)
	if err != nil {
		return c.store.observe(c.spec.Name, "replace", err)
	}
	if res.MatchedCount == 0 {
		return &domain.ErrNotFound{Resource: c.spec.Label, ID: id}
	}
	return c.store.observe(c.spec.Name, "replace", nil)
}

func (c *Collection[E, P]) Delete(ctx context.Context, id string) error {
	_, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	return c.store.observe(c.spec.Name, "delete", err)
}

func (c *Collection[E, P]) Count(ctx context.Context) (int, error) {
	n, err := c.coll.CountDocuments(ctx, bson.D{})
	return int(n), c.store.observe(c.spec.Name, "count", err)
}
