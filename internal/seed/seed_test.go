package seed_test

import (
	"context"
	"strings"
	"testing"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/infra/memstore"
	"github.com/devsamp/devsamp-bfa-go/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sample = `
services:
  - title: Web Development
    desc: Fast sites
    order: 1
  - title: SEO
    order: 2
pricing:
  - name: Starter
    priceMonthly: 19
    features: [Hosting]
reviews:
  - name: Bo
    text: Great team
    rating: 5
`

func stores(st *memstore.Store) seed.Stores {
	return seed.Stores{
		Services: st.Services,
		Team:     st.Team,
		Projects: st.Projects,
		Pricing:  st.Pricing,
		Reviews:  st.Reviews,
		Blogs:    st.Blogs,
	}
}

func TestApply_FillsEmptyCollections(t *testing.T) {
	f, err := seed.Decode(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, f.Services, 2)

	st := memstore.New()
	ctx := context.Background()
	require.NoError(t, seed.Apply(ctx, f, stores(st), zap.NewNop()))

	services, err := st.Services.List(ctx)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Web Development", services[0].Title)

	plans, err := st.Pricing.List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, []string{"Hosting"}, plans[0].Features)

	// A second run leaves populated collections alone.
	require.NoError(t, seed.Apply(ctx, f, stores(st), zap.NewNop()))
	n, err := st.Services.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestApply_SkipsNonEmptyCollection(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	_, err := st.Services.Insert(ctx, &domain.Service{Title: "Existing"})
	require.NoError(t, err)

	f, err := seed.Decode(strings.NewReader(sample))
	require.NoError(t, err)
	require.NoError(t, seed.Apply(ctx, f, stores(st), zap.NewNop()))

	services, err := st.Services.List(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Existing", services[0].Title)
}

func TestApply_RejectsInvalidRecord(t *testing.T) {
	f, err := seed.Decode(strings.NewReader("reviews:\n  - name: Bo\n    rating: 9\n"))
	require.NoError(t, err)

	err = seed.Apply(context.Background(), f, stores(memstore.New()), zap.NewNop())
	var ve *domain.ErrValidation
	require.ErrorAs(t, err, &ve)
}

func TestDecode_EmptyFile(t *testing.T) {
	f, err := seed.Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Services)
}
