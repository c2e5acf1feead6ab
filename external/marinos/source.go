package marinos

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/marinos-fixtures/external/webfetch"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
	"github.com/riskibarqy/marinos-fixtures/internal/usecase"
)

const (
	DefaultScheduleURL = "https://www.f-marinos.com/matches/schedule"
	DefaultResultURL   = "https://www.f-marinos.com/matches/result"
)

type SourceConfig struct {
	ScheduleURL string
	ResultURL   string
	Fetcher     webfetch.Fetcher
	// Renderer, when set, re-fetches a page whose plain markup yielded no
	// fixtures. The club pages build their match lists with script.
	Renderer webfetch.Fetcher
	Parser   *Parser
	Logger   *logging.Logger
	Now      func() time.Time
}

type Source struct {
	pages    []page
	fetcher  webfetch.Fetcher
	renderer webfetch.Fetcher
	parser   *Parser
	logger   *logging.Logger
	now      func() time.Time
}

type page struct {
	url  string
	kind PageKind
}

func NewSource(cfg SourceConfig) *Source {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Source{
		pages: []page{
			{url: orDefault(cfg.ScheduleURL, DefaultScheduleURL), kind: PageSchedule},
			{url: orDefault(cfg.ResultURL, DefaultResultURL), kind: PageResult},
		},
		fetcher:  cfg.Fetcher,
		renderer: cfg.Renderer,
		parser:   cfg.Parser,
		logger:   logger,
		now:      now,
	}
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}

func (s *Source) Name() fixture.Source {
	return fixture.SourceMarinos
}

func (s *Source) Collect(ctx context.Context, req usecase.CollectRequest) usecase.SourceBatch {
	batch := usecase.SourceBatch{Source: fixture.SourceMarinos}
	strategies := make([]string, 0, len(s.pages))

	for _, p := range s.pages {
		fixtures, strategy, err := s.collectPage(ctx, p, req.SeasonYear)
		if err != nil {
			batch.Errors = append(batch.Errors, usecase.NewFetchError(fixture.SourceMarinos, p.url, err, s.now()))
			continue
		}
		batch.Fixtures = append(batch.Fixtures, fixtures...)
		if strategy != "" {
			strategies = append(strategies, strategy)
		}
	}
	batch.Strategy = strings.Join(strategies, ",")
	return batch
}

func (s *Source) collectPage(ctx context.Context, p page, yearHint int) ([]fixture.RawFixture, string, error) {
	fetched, err := s.fetcher.Fetch(ctx, p.url)
	if err != nil {
		return nil, "", err
	}
	fixtures, strategy := s.parser.Parse(fetched.Body, yearHint, p.kind)
	if len(fixtures) > 0 || s.renderer == nil {
		return fixtures, strategy, nil
	}

	rendered, err := s.renderer.Fetch(ctx, p.url)
	if err != nil {
		s.logger.WarnContext(ctx, "marinos render failed", "url", p.url, "error", err)
		return fixtures, strategy, nil
	}
	fixtures, strategy = s.parser.Parse(rendered.Body, yearHint, p.kind)
	s.logger.DebugContext(ctx, "marinos page rendered", "url", p.url, "fixtures", len(fixtures), "strategy", strategy)
	if strategy != "" {
		strategy = "rendered-" + strategy
	}
	return fixtures, strategy, nil
}
