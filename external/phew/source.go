package phew

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/marinos-fixtures/external/webfetch"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
	"github.com/riskibarqy/marinos-fixtures/internal/usecase"
)

// DefaultURLTemplate is the yearly schedule page; {year} is replaced per season.
const DefaultURLTemplate = "http://soccer.phew.homeip.net/schedule/match/yearly/?team=%B2%A3%C9%CDFM&year={year}"

const yearPlaceholder = "{year}"

type SourceConfig struct {
	URLTemplate string
	Fetcher     webfetch.Fetcher
	Parser      *Parser
	Logger      *logging.Logger
	Now         func() time.Time
}

// Source fetches one mirror page per requested season.
type Source struct {
	urlTemplate string
	fetcher     webfetch.Fetcher
	parser      *Parser
	logger      *logging.Logger
	now         func() time.Time
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
	template := strings.TrimSpace(cfg.URLTemplate)
	if template == "" {
		template = DefaultURLTemplate
	}
	return &Source{
		urlTemplate: template,
		fetcher:     cfg.Fetcher,
		parser:      cfg.Parser,
		logger:      logger,
		now:         now,
	}
}

func (s *Source) Name() fixture.Source {
	return fixture.SourcePhew
}

// URLFor returns the schedule page of one season.
func (s *Source) URLFor(year int) string {
	return strings.ReplaceAll(s.urlTemplate, yearPlaceholder, strconv.Itoa(year))
}

func (s *Source) Collect(ctx context.Context, req usecase.CollectRequest) usecase.SourceBatch {
	batch := usecase.SourceBatch{Source: fixture.SourcePhew, Strategy: "tables"}

	years := req.Years
	if len(years) == 0 && req.SeasonYear > 0 {
		years = []int{req.SeasonYear}
	}
	for _, year := range years {
		url := s.URLFor(year)
		page, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			batch.Errors = append(batch.Errors, usecase.NewFetchError(fixture.SourcePhew, url, err, s.now()))
			continue
		}
		body, err := webfetch.DecodeEUCJP(page.Body)
		if err != nil {
			batch.Errors = append(batch.Errors, usecase.NewFetchError(fixture.SourcePhew, url, err, s.now()))
			continue
		}

		parsed := s.parser.Parse(body, year)
		s.logger.DebugContext(ctx, "phew season parsed", "url", url, "year", year, "fixtures", len(parsed))
		batch.Fixtures = append(batch.Fixtures, parsed...)
	}
	return batch
}
