package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/port"

	"go.uber.org/zap"
)

// ContentService manages one flat content collection.
type ContentService[E any, P interface {
	*E
	domain.Record
}] struct {
	store  port.CollectionStore[P]
	spec   domain.Collection[E]
	logger *zap.Logger
}

// NewContentService binds a store to its collection description.
func NewContentService[E any, P interface {
	*E
	domain.Record
}](store port.CollectionStore[P], spec domain.Collection[E], logger *zap.Logger) *ContentService[E, P] {
	return &ContentService[E, P]{store: store, spec: spec, logger: logger}
}

// Spec describes the collection served.
func (s *ContentService[E, P]) Spec() domain.Collection[E] { return s.spec }

func (s *ContentService[E, P]) List(ctx context.Context) ([]P, error) {
	ctx, span := tracer.Start(ctx, "ContentService.List."+s.spec.Name)
	defer span.End()

	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.spec.Name, err)
	}
	return list, nil
}

func (s *ContentService[E, P]) Create(ctx context.Context, rec P) (P, error) {
	ctx, span := tracer.Start(ctx, "ContentService.Create."+s.spec.Name)
	defer span.End()

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	created, err := s.store.Insert(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", s.spec.Name, err)
	}
	s.logger.Info("content created", zap.String("collection", s.spec.Name), zap.String("id", created.Base().ID))
	return created, nil
}

// Update shallow-merges the JSON fields present in raw into the stored
// record and replaces it. Arrays in raw replace the stored arrays.
func (s *ContentService[E, P]) Update(ctx context.Context, id string, raw json.RawMessage) (P, error) {
	ctx, span := tracer.Start(ctx, "ContentService.Update."+s.spec.Name)
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return nil, &domain.ErrValidation{Field: "id", Message: "is required"}
	}
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.spec.Name, err)
	}
	meta := *current.Base()

	merged := P(new(E))
	*merged = *current
	if err := json.Unmarshal(raw, merged); err != nil {
		return nil, &domain.ErrValidation{Field: "body", Message: "malformed JSON"}
	}
	// Identity and timestamps are owned by the store.
	*merged.Base() = meta

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Replace(ctx, id, merged); err != nil {
		return nil, fmt.Errorf("replace %s: %w", s.spec.Name, err)
	}
	// The store stamps updatedAt on its own copy.
	stored, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload %s: %w", s.spec.Name, err)
	}
	return stored, nil
}

func (s *ContentService[E, P]) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "ContentService.Delete."+s.spec.Name)
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return &domain.ErrValidation{Field: "id", Message: "is required"}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.spec.Name, err)
	}
	return nil
}

func (s *ContentService[E, P]) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
