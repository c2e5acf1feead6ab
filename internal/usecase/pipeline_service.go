package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/id"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/textnorm"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

type PipelineConfig struct {
	Sources []FixtureSource
	// Enrichers complete the stubs of sources whose list pages link to
	// per-match detail pages.
	Enrichers map[fixture.Source]*DetailEnricher
	Resolver  *fixture.TeamResolver
	Merge     *MergeEngine
	// SeasonYears are collected when a run names no years.
	SeasonYears []int
	// RunIDs tags the log lines of each run.
	RunIDs id.Generator
	Logger *logging.Logger
	Now    func() time.Time
}

// PipelineService runs every source, then resolves, merges and partitions
// the combined fixtures.
type PipelineService struct {
	sources     []FixtureSource
	enrichers   map[fixture.Source]*DetailEnricher
	resolver    *fixture.TeamResolver
	merge       *MergeEngine
	seasonYears []int
	runIDs      id.Generator
	logger      *logging.Logger
	now         func() time.Time
}

type RunOptions struct {
	// Years limits the output to fixtures dated in these years.
	Years []int
}

func NewPipelineService(cfg PipelineConfig) *PipelineService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	merge := cfg.Merge
	if merge == nil {
		merge = NewMergeEngine(nil)
	}
	runIDs := cfg.RunIDs
	if runIDs == nil {
		runIDs = id.NewRandomGenerator("run-", 6)
	}
	return &PipelineService{
		sources:     cfg.Sources,
		enrichers:   cfg.Enrichers,
		resolver:    cfg.Resolver,
		merge:       merge,
		seasonYears: append([]int(nil), cfg.SeasonYears...),
		runIDs:      runIDs,
		logger:      logger,
		now:         now,
	}
}

type branchResult struct {
	source   fixture.Source
	raw      int
	resolved []fixture.ResolvedFixture
	errors   []fixture.FetchError
	strategy string
}

// Run never fails: source failures, including parser panics, are reported
// in PipelineResult.Errors.
func (s *PipelineService) Run(ctx context.Context, opts RunOptions) fixture.PipelineResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run")
	defer span.End()

	start := s.now()
	req := s.collectRequest(opts)
	logger := s.logger
	if runID, err := s.runIDs.NewID(); err == nil {
		logger = logger.With("run_id", runID)
	}

	branches := pool.NewWithResults[branchResult]()
	for _, source := range s.sources {
		source := source
		branches.Go(func() branchResult {
			return s.runBranch(ctx, source, req)
		})
	}
	outcomes := branches.Wait()
	sort.SliceStable(outcomes, func(i, j int) bool { return outcomes[i].source < outcomes[j].source })

	result := fixture.PipelineResult{Errors: make([]fixture.FetchError, 0)}
	bySource := make(map[fixture.Source][]fixture.ResolvedFixture, len(outcomes))
	for _, outcome := range outcomes {
		result.Stats.Total += outcome.raw
		result.Errors = append(result.Errors, outcome.errors...)
		bySource[outcome.source] = append(bySource[outcome.source], outcome.resolved...)
		logger.DebugContext(ctx, "fixture source collected",
			"source", outcome.source,
			"raw", outcome.raw,
			"resolved", len(outcome.resolved),
			"errors", len(outcome.errors),
			"strategy", outcome.strategy,
		)
	}

	merged := FilterYears(s.merge.Merge(bySource), opts.Years)
	result.Fixtures = merged
	result.Results, result.Upcoming = Partition(merged)
	result.Stats.Success = len(merged)
	result.Stats.Failed = len(result.Errors)

	logger.InfoContext(ctx, "fixture pipeline finished",
		"total", result.Stats.Total,
		"merged", result.Stats.Success,
		"results", len(result.Results),
		"upcoming", len(result.Upcoming),
		"errors", result.Stats.Failed,
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	return result
}

func (s *PipelineService) collectRequest(opts RunOptions) CollectRequest {
	years := opts.Years
	if len(years) == 0 {
		years = s.seasonYears
	}
	if len(years) == 0 {
		years = []int{s.now().Year()}
	}
	years = append([]int(nil), years...)

	season := 0
	for _, year := range years {
		if year > season {
			season = year
		}
	}
	return CollectRequest{Years: years, SeasonYear: season}
}

func (s *PipelineService) runBranch(ctx context.Context, source FixtureSource, req CollectRequest) branchResult {
	name := source.Name()
	out := branchResult{source: name}

	var catcher panics.Catcher
	catcher.Try(func() {
		batch := source.Collect(ctx, req)
		out.raw = len(batch.Fixtures)
		out.errors = append(out.errors, batch.Errors...)
		out.strategy = batch.Strategy

		stubs := batch.Fixtures
		if enricher := s.enrichers[name]; enricher != nil && len(stubs) > 0 {
			enriched, err := enricher.Enrich(ctx, stubs)
			if err != nil {
				s.logger.WarnContext(ctx, "detail enrichment skipped", "source", name, "error", err)
			}
			stubs = enriched
		}
		out.resolved = s.resolve(stubs)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		s.logger.ErrorContext(ctx, "fixture source panicked", "source", name, "panic", recovered.Value)
		out.resolved = nil
		out.errors = append(out.errors, NewFetchError(name, "", fmt.Errorf("parser panic: %v", recovered.Value), s.now()))
	}
	return out
}

func (s *PipelineService) resolve(raws []fixture.RawFixture) []fixture.ResolvedFixture {
	out := make([]fixture.ResolvedFixture, 0, len(raws))
	for _, raw := range raws {
		if resolved, ok := s.resolver.Resolve(raw); ok {
			out = append(out, resolved)
		}
	}
	return out
}

// FilterYears keeps fixtures dated in one of years; no years keeps all.
func FilterYears(fixtures []fixture.MergedFixture, years []int) []fixture.MergedFixture {
	if len(years) == 0 {
		return fixtures
	}
	wanted := make(map[int]struct{}, len(years))
	for _, year := range years {
		wanted[year] = struct{}{}
	}
	out := make([]fixture.MergedFixture, 0, len(fixtures))
	for _, f := range fixtures {
		if _, ok := wanted[textnorm.YearOf(f.Date)]; ok {
			out = append(out, f)
		}
	}
	return out
}
