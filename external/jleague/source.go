// Package jleague scrapes the official J.LEAGUE match search page and the
// per-match detail pages it links to.
package jleague

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/marinos-fixtures/external/webfetch"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
	"github.com/riskibarqy/marinos-fixtures/internal/usecase"
)

const DefaultSearchURL = "https://www.jleague.jp/match/search/all/all/yokohamafm/"

type SourceConfig struct {
	SearchURL string
	Fetcher   webfetch.Fetcher
	Parser    *Parser
	Logger    *logging.Logger
	Now       func() time.Time
}

type Source struct {
	searchURL string
	fetcher   webfetch.Fetcher
	parser    *Parser
	logger    *logging.Logger
	now       func() time.Time
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
	searchURL := strings.TrimSpace(cfg.SearchURL)
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return &Source{
		searchURL: searchURL,
		fetcher:   cfg.Fetcher,
		parser:    cfg.Parser,
		logger:    logger,
		now:       now,
	}
}

func (s *Source) Name() fixture.Source {
	return fixture.SourceJLeague
}

func (s *Source) Collect(ctx context.Context, req usecase.CollectRequest) usecase.SourceBatch {
	batch := usecase.SourceBatch{Source: fixture.SourceJLeague}

	page, err := s.fetcher.Fetch(ctx, s.searchURL)
	if err != nil {
		batch.Errors = append(batch.Errors, usecase.NewFetchError(fixture.SourceJLeague, s.searchURL, err, s.now()))
		return batch
	}

	batch.Fixtures, batch.Strategy = s.parser.ParseSearch(page.Body, req.SeasonYear)
	s.logger.DebugContext(ctx, "jleague search parsed",
		"url", s.searchURL,
		"stubs", len(batch.Fixtures),
		"strategy", batch.Strategy,
		"attempts", page.Attempts,
	)
	return batch
}

func (s *Source) FetchDetail(ctx context.Context, url string) (fixture.MatchDetail, error) {
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return fixture.MatchDetail{}, err
	}
	detail, ok := ParseDetail(page.Body)
	if !ok {
		return fixture.MatchDetail{}, crerr.Newf("match detail %s carries no match data", url)
	}
	return detail, nil
}
