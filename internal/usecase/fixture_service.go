package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/cache"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
)

const refreshCachePrefix = "fixtures:refresh:"

// Pipeline is the fixture-building step FixtureService refreshes from.
type Pipeline interface {
	Run(ctx context.Context, opts RunOptions) fixture.PipelineResult
}

type RefreshOptions struct {
	// Force skips the cached result of a recent run.
	Force bool
	Years []int
}

type FixtureService struct {
	pipeline    Pipeline
	fixtureRepo fixture.Repository
	cache       *cache.Store
	logger      *logging.Logger
	now         func() time.Time
}

type FixtureServiceConfig struct {
	Pipeline   Pipeline
	Repository fixture.Repository
	// Cache holds recent pipeline results; nil disables caching.
	Cache  *cache.Store
	Logger *logging.Logger
	Now    func() time.Time
}

func NewFixtureService(cfg FixtureServiceConfig) *FixtureService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &FixtureService{
		pipeline:    cfg.Pipeline,
		fixtureRepo: cfg.Repository,
		cache:       cfg.Cache,
		logger:      logger,
		now:         now,
	}
}

// RefreshFixtures runs the pipeline and stores its fixtures. A run that
// built nothing while every source failed returns ErrDependencyUnavailable
// together with the result so callers can show the fetch errors.
func (s *FixtureService) RefreshFixtures(ctx context.Context, opts RefreshOptions) (fixture.PipelineResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.RefreshFixtures")
	defer span.End()

	years, err := normalizeYears(opts.Years)
	if err != nil {
		return fixture.PipelineResult{}, err
	}

	key := refreshCacheKey(years)
	if !opts.Force && s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			if result, ok := cached.(fixture.PipelineResult); ok {
				s.logger.DebugContext(ctx, "fixture refresh served from cache", "key", key)
				return result, nil
			}
		}
	}

	result := s.pipeline.Run(ctx, RunOptions{Years: years})
	if len(result.Fixtures) == 0 && len(result.Errors) > 0 {
		return result, fmt.Errorf("%w: no fixtures built, %d source errors", ErrDependencyUnavailable, len(result.Errors))
	}

	if len(result.Fixtures) > 0 {
		records := fixture.ToRecords(result.Fixtures, s.now())
		if err := s.fixtureRepo.UpsertFixtures(ctx, records); err != nil {
			return result, fmt.Errorf("upsert fixtures: %w", err)
		}
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, result)
	}
	return result, nil
}

func (s *FixtureService) ListFixtures(ctx context.Context, filter fixture.Filter) ([]fixture.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListFixtures")
	defer span.End()

	filter.Competition = strings.TrimSpace(filter.Competition)
	if filter.Year != 0 && (filter.Year < 1900 || filter.Year > 9999) {
		return nil, fmt.Errorf("%w: year=%d", ErrInvalidInput, filter.Year)
	}

	records, err := s.fixtureRepo.QueryFixtures(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query fixtures: %w", err)
	}
	return records, nil
}

func normalizeYears(years []int) ([]int, error) {
	if len(years) == 0 {
		return nil, nil
	}
	seen := make(map[int]struct{}, len(years))
	out := make([]int, 0, len(years))
	for _, year := range years {
		if year < 1900 || year > 9999 {
			return nil, fmt.Errorf("%w: year=%d", ErrInvalidInput, year)
		}
		if _, dup := seen[year]; dup {
			continue
		}
		seen[year] = struct{}{}
		out = append(out, year)
	}
	sort.Ints(out)
	return out, nil
}

func refreshCacheKey(years []int) string {
	if len(years) == 0 {
		return refreshCachePrefix + "all"
	}
	parts := make([]string, 0, len(years))
	for _, year := range years {
		parts = append(parts, strconv.Itoa(year))
	}
	return refreshCachePrefix + strings.Join(parts, ",")
}
