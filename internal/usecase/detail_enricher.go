package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
	"golang.org/x/time/rate"
)

const (
	defaultDetailWorkers       = 6
	defaultDetailRatePerSecond = 4
)

type DetailEnricherConfig struct {
	Workers       int
	RatePerSecond float64
	Logger        *logging.Logger
}

// DetailEnricher completes list stubs from their detail pages through a
// bounded worker pool.
type DetailEnricher struct {
	source  DetailSource
	workers int
	limiter *rate.Limiter
	logger  *logging.Logger
}

func NewDetailEnricher(source DetailSource, cfg DetailEnricherConfig) *DetailEnricher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultDetailWorkers
	}
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = defaultDetailRatePerSecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &DetailEnricher{
		source:  source,
		workers: workers,
		limiter: rate.NewLimiter(rate.Limit(perSecond), workers),
		logger:  logger,
	}
}

// Enrich returns stubs in input order. A stub whose detail page cannot be
// fetched is kept unchanged.
func (e *DetailEnricher) Enrich(ctx context.Context, stubs []fixture.RawFixture) ([]fixture.RawFixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DetailEnricher.Enrich")
	defer span.End()

	out := make([]fixture.RawFixture, len(stubs))
	copy(out, stubs)
	if e == nil || e.source == nil || len(stubs) == 0 {
		return out, nil
	}

	pool, err := ants.NewPool(e.workers)
	if err != nil {
		return out, fmt.Errorf("create detail worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i := range out {
		if strings.TrimSpace(out[i].SourceURL) == "" {
			continue
		}
		idx := i
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			out[idx] = e.enrichOne(ctx, out[idx])
		}); err != nil {
			workers.Done()
			workers.Wait()
			return out, fmt.Errorf("submit detail task: %w", err)
		}
	}
	workers.Wait()
	return out, nil
}

func (e *DetailEnricher) enrichOne(ctx context.Context, stub fixture.RawFixture) fixture.RawFixture {
	if err := e.limiter.Wait(ctx); err != nil {
		return stub
	}
	detail, err := e.source.FetchDetail(ctx, stub.SourceURL)
	if err != nil {
		e.logger.WarnContext(ctx, "match detail enrichment failed",
			"source", stub.Source,
			"url", stub.SourceURL,
			"error", err,
		)
		return stub
	}
	return ApplyDetail(stub, detail)
}

// ApplyDetail overlays a detail page on its stub. Detail values win; a
// detail page without a score keeps the stub's score.
func ApplyDetail(stub fixture.RawFixture, detail fixture.MatchDetail) fixture.RawFixture {
	out := stub
	out.HomeTeam = firstNonEmpty(detail.HomeTeam, stub.HomeTeam)
	out.AwayTeam = firstNonEmpty(detail.AwayTeam, stub.AwayTeam)
	out.Stadium = firstNonEmpty(detail.Stadium, stub.Stadium)
	out.Kickoff = firstNonEmpty(detail.Kickoff, stub.Kickoff)
	if detail.HasScore() {
		out.HomeScore = fixture.IntPtr(*detail.HomeScore)
		out.AwayScore = fixture.IntPtr(*detail.AwayScore)
	}
	if detail.Status != "" {
		out.Status = fixture.NormalizeStatus(detail.Status)
	}
	if out.HomeScore != nil && out.AwayScore != nil {
		out.Status = fixture.StatusFinished
	}
	return out
}
