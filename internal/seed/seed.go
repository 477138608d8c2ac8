// Package seed fills empty content collections from a YAML file at startup.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/port"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// File is the layout of SEED_FILE.
type File struct {
	Services []domain.Service     `yaml:"services"`
	Team     []domain.TeamMember  `yaml:"team"`
	Projects []domain.Project     `yaml:"projects"`
	Pricing  []domain.PricingPlan `yaml:"pricing"`
	Reviews  []domain.Review      `yaml:"reviews"`
	Blogs    []domain.BlogPost    `yaml:"blogs"`
}

// Stores are the collections a seed file may fill.
type Stores struct {
	Services port.CollectionStore[*domain.Service]
	Team     port.CollectionStore[*domain.TeamMember]
	Projects port.CollectionStore[*domain.Project]
	Pricing  port.CollectionStore[*domain.PricingPlan]
	Reviews  port.CollectionStore[*domain.Review]
	Blogs    port.CollectionStore[*domain.BlogPost]
}

// Decode reads a seed file.
func Decode(r io.Reader) (*File, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &f, nil
}

// LoadFile opens and decodes path.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Apply inserts the records of every collection that is currently empty.
// Collections that already hold data are left alone.
func Apply(ctx context.Context, f *File, s Stores, logger *zap.Logger) error {
	steps := []func() error{
		func() error { return fill(ctx, domain.ServicesCollection.Name, s.Services, f.Services, logger) },
		func() error { return fill(ctx, domain.TeamCollection.Name, s.Team, f.Team, logger) },
		func() error { return fill(ctx, domain.ProjectsCollection.Name, s.Projects, f.Projects, logger) },
		func() error { return fill(ctx, domain.PricingCollection.Name, s.Pricing, f.Pricing, logger) },
		func() error { return fill(ctx, domain.ReviewsCollection.Name, s.Reviews, f.Reviews, logger) },
		func() error { return fill(ctx, domain.BlogsCollection.Name, s.Blogs, f.Blogs, logger) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func fill[E any, P interface {
	*E
	domain.Record
}](ctx context.Context, name string, store port.CollectionStore[P], items []E, logger *zap.Logger) error {
	if store == nil || len(items) == 0 {
		return nil
	}
	n, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count %s: %w", name, err)
	}
	if n > 0 {
		logger.Debug("seed skipped, collection not empty", zap.String("collection", name), zap.Int("count", n))
		return nil
	}

	for i := range items {
		rec := P(&items[i])
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("seed %s[%d]: %w", name, i, err)
		}
		if _, err := store.Insert(ctx, rec); err != nil {
			return fmt.Errorf("seed %s[%d]: %w", name, i, err)
		}
	}
	logger.Info("collection seeded", zap.String("collection", name), zap.Int("count", len(items)))
	return nil
}
