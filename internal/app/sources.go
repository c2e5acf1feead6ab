package app

import (
	"fmt"
	"time"

	"github.com/riskibarqy/marinos-fixtures/external/gcal"
	"github.com/riskibarqy/marinos-fixtures/external/jleague"
	"github.com/riskibarqy/marinos-fixtures/external/marinos"
	"github.com/riskibarqy/marinos-fixtures/external/phew"
	"github.com/riskibarqy/marinos-fixtures/external/webfetch"
	"github.com/riskibarqy/marinos-fixtures/internal/config"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/roster"
	"github.com/riskibarqy/marinos-fixtures/internal/usecase"
)

type sourceSet struct {
	sources   []usecase.FixtureSource
	enrichers map[fixture.Source]*usecase.DetailEnricher
	resolver  *fixture.TeamResolver
}

func loadRosters(cfg config.Config) (roster.Set, error) {
	if cfg.RosterFile == "" {
		return roster.Default(), nil
	}
	set, err := roster.LoadFile(cfg.RosterFile)
	if err != nil {
		return roster.Set{}, fmt.Errorf("load roster file %s: %w", cfg.RosterFile, err)
	}
	return set, nil
}

func newFetchClient(cfg config.Config, name string, timeout time.Duration, logger *logging.Logger) *webfetch.Client {
	return webfetch.NewClient(webfetch.ClientConfig{
		Name:           name,
		Timeout:        timeout,
		MaxAttempts:    cfg.FetchMaxAttempts,
		UserAgent:      cfg.FetchUserAgent,
		Logger:         logger.Named(name),
		CircuitBreaker: cfg.FetchCircuit,
	})
}

// buildSources wires one fetch client per enabled source. Sources are
// returned in priority order so logs read the same way the merge applies them.
func buildSources(cfg config.Config, rosters roster.Set, logger *logging.Logger) (sourceSet, error) {
	resolver := fixture.NewTeamResolver(rosters.TrackedClub, rosters.Opponents)
	out := sourceSet{
		enrichers: make(map[fixture.Source]*usecase.DetailEnricher),
		resolver:  resolver,
	}

	mode, err := webfetch.ParseRenderMode(cfg.MarinosRenderMode)
	if err != nil {
		return sourceSet{}, fmt.Errorf("parse MARINOS_RENDER_MODE: %w", err)
	}

	for _, name := range orderedSources(cfg) {
		switch name {
		case fixture.SourceJLeague:
			source := jleague.NewSource(jleague.SourceConfig{
				SearchURL: cfg.JLeagueSearchURL,
				Fetcher:   newFetchClient(cfg, "jleague", cfg.FetchTimeout, logger),
				Parser:    jleague.NewParser("", rosters, resolver),
				Logger:    logger.Named("jleague"),
			})
			out.sources = append(out.sources, source)
			out.enrichers[fixture.SourceJLeague] = usecase.NewDetailEnricher(source, usecase.DetailEnricherConfig{
				Workers:       cfg.DetailWorkers,
				RatePerSecond: cfg.DetailRatePerSecond,
				Logger:        logger.Named("jleague-detail"),
			})
		case fixture.SourcePhew:
			out.sources = append(out.sources, phew.NewSource(phew.SourceConfig{
				URLTemplate: cfg.PhewURLTemplate,
				Fetcher:     newFetchClient(cfg, "phew", cfg.PhewFetchTimeout, logger),
				Parser:      phew.NewParser(resolver),
				Logger:      logger.Named("phew"),
			}))
		case fixture.SourceGCal:
			out.sources = append(out.sources, gcal.NewSource(gcal.SourceConfig{
				FeedURL: cfg.GCalICSURL,
				Fetcher: newFetchClient(cfg, "gcal", cfg.FetchTimeout, logger),
				Parser:  gcal.NewParser(rosters.Competitions),
				Logger:  logger.Named("gcal"),
			}))
		case fixture.SourceMarinos:
			plain := newFetchClient(cfg, "marinos", cfg.FetchTimeout, logger)
			var headless webfetch.Fetcher
			if mode != webfetch.RenderModeHTTP {
				headless = webfetch.NewHeadlessFetcher(webfetch.HeadlessConfig{
					Timeout: cfg.HeadlessTimeout,
					Settle:  2 * time.Second,
					Logger:  logger.Named("headless"),
				})
			}
			var renderer webfetch.Fetcher
			if mode == webfetch.RenderModeFallback {
				renderer = headless
			}
			out.sources = append(out.sources, marinos.NewSource(marinos.SourceConfig{
				ScheduleURL: cfg.MarinosScheduleURL,
				ResultURL:   cfg.MarinosResultURL,
				Fetcher:     webfetch.Select(mode, plain, headless),
				Renderer:    renderer,
				Parser:      marinos.NewParser(rosters, resolver),
				Logger:      logger.Named("marinos"),
			}))
		}
	}

	if len(out.sources) == 0 {
		return sourceSet{}, fmt.Errorf("no fixture sources enabled")
	}
	return out, nil
}

// newMergeEngine applies enabled sources in priority order, so the first
// enabled source is authoritative.
func newMergeEngine(cfg config.Config) *usecase.MergeEngine {
	return usecase.NewMergeEngine(orderedSources(cfg))
}

// orderedSources lists enabled sources by priority, then any enabled source
// the priority list leaves out.
func orderedSources(cfg config.Config) []fixture.Source {
	out := make([]fixture.Source, 0, len(cfg.EnabledSources))
	seen := make(map[fixture.Source]struct{}, len(cfg.EnabledSources))
	for _, source := range append(append([]fixture.Source(nil), cfg.SourcePriority...), cfg.EnabledSources...) {
		if _, ok := seen[source]; ok || !cfg.SourceEnabled(source) {
			continue
		}
		seen[source] = struct{}{}
		out = append(out, source)
	}
	return out
}
