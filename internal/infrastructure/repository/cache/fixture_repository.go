package cache

import (
	"context"
	"strconv"
	"strings"

	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	basecache "github.com/riskibarqy/marinos-fixtures/internal/platform/cache"
)

const fixtureQueryPrefix = "fixtures:query:"

// FixtureRepository is a read-through cache in front of another
// fixture.Repository. Every upsert invalidates all cached queries.
type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) UpsertFixtures(ctx context.Context, records []fixture.Record) error {
	if err := r.next.UpsertFixtures(ctx, records); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, fixtureQueryPrefix)
	return nil
}

func (r *FixtureRepository) QueryFixtures(ctx context.Context, filter fixture.Filter) ([]fixture.Record, error) {
	items, err := basecache.Load(ctx, r.cache, fixtureQueryKey(filter), func(ctx context.Context) ([]fixture.Record, error) {
		items, err := r.next.QueryFixtures(ctx, filter)
		if err != nil {
			return nil, err
		}
		return append([]fixture.Record(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]fixture.Record(nil), items...), nil
}

func fixtureQueryKey(filter fixture.Filter) string {
	return fixtureQueryPrefix + strconv.Itoa(filter.Year) + "|" + strings.ToLower(strings.TrimSpace(filter.Competition))
}
