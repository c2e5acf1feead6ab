package gcal

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/marinos-fixtures/external/webfetch"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
	"github.com/riskibarqy/marinos-fixtures/internal/usecase"
)

const DefaultFeedURL = "https://calendar.google.com/calendar/ical/f7vhtmj508ct618hung7d7s78c%40group.calendar.google.com/public/basic.ics"

type SourceConfig struct {
	FeedURL string
	Fetcher webfetch.Fetcher
	Parser  *Parser
	Logger  *logging.Logger
	Now     func() time.Time
}

type Source struct {
	feedURL string
	fetcher webfetch.Fetcher
	parser  *Parser
	logger  *logging.Logger
	now     func() time.Time
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
	feedURL := strings.TrimSpace(cfg.FeedURL)
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return &Source{
		feedURL: feedURL,
		fetcher: cfg.Fetcher,
		parser:  cfg.Parser,
		logger:  logger,
		now:     now,
	}
}

func (s *Source) Name() fixture.Source {
	return fixture.SourceGCal
}

// Collect reads the whole feed; the season filter is applied downstream.
func (s *Source) Collect(ctx context.Context, _ usecase.CollectRequest) usecase.SourceBatch {
	batch := usecase.SourceBatch{Source: fixture.SourceGCal, Strategy: "vevent"}

	page, err := s.fetcher.Fetch(ctx, s.feedURL)
	if err != nil {
		batch.Errors = append(batch.Errors, usecase.NewFetchError(fixture.SourceGCal, s.feedURL, err, s.now()))
		return batch
	}

	batch.Fixtures = s.parser.Parse(page.Body)
	s.logger.DebugContext(ctx, "calendar feed parsed", "url", s.feedURL, "events", len(batch.Fixtures))
	return batch
}
