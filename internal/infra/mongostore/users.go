package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStore implements port.UserStore. Email uniqueness is enforced by index.
type UserStore struct {
	coll  *mongo.Collection
	store *Store
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.coll.FindOne(ctx, bson.D{{Key: "email", Value: domain.NormalizeEmail(email)}}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, s.store.observe(domain.UsersCollection, "find_by_email", err)
	}
	return &u, s.store.observe(domain.UsersCollection, "find_by_email", nil)
}

func (s *UserStore) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	rec := *u
	now := time.Now().UTC().Truncate(time.Millisecond)
	rec.ID = newID()
	rec.Email = domain.NormalizeEmail(rec.Email)
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, &rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.ErrConflict{Message: "User already exists"}
		}
		return nil, s.store.observe(domain.UsersCollection, "create", err)
	}
	return &rec, s.store.observe(domain.UsersCollection, "create", nil)
}

func (s *UserStore) Replace(ctx context.Context, u *domain.User) error {
	rec := *u
	rec.Email = domain.NormalizeEmail(rec.Email)
	rec.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	res, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "email", Value: rec.Email}}, &rec)
	if err != nil {
		return s.store.observe(domain.UsersCollection, "replace", err)
	}
	if res.MatchedCount == 0 {
		return &domain.ErrNotFound{Resource: "user", ID: rec.Email}
	}
	return s.store.observe(domain.UsersCollection, "replace", nil)
}
