package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/marinos-fixtures/internal/config"
	"github.com/riskibarqy/marinos-fixtures/internal/interfaces/httpapi"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/cache"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
	"github.com/riskibarqy/marinos-fixtures/internal/usecase"
)

// App holds the wired services shared by the API server and the CLI.
type App struct {
	Fixtures *usecase.FixtureService
	Pipeline *usecase.PipelineService

	closers []func() error
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	rosters, err := loadRosters(cfg)
	if err != nil {
		return nil, err
	}
	sources, err := buildSources(cfg, rosters, logger)
	if err != nil {
		return nil, err
	}

	repo, closeRepo, err := newFixtureRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	pipeline := usecase.NewPipelineService(usecase.PipelineConfig{
		Sources:     sources.sources,
		Enrichers:   sources.enrichers,
		Resolver:    sources.resolver,
		Merge:       newMergeEngine(cfg),
		SeasonYears: cfg.SeasonYears,
		Logger:      logger.Named("pipeline"),
	})

	fixtures := usecase.NewFixtureService(usecase.FixtureServiceConfig{
		Pipeline:   pipeline,
		Repository: repo,
		Cache:      cache.NewStore(cfg.RefreshCacheTTL),
		Logger:     logger,
	})

	return &App{
		Fixtures: fixtures,
		Pipeline: pipeline,
		closers:  []func() error{closeRepo},
	}, nil
}

func (a *App) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func NewHTTPServer(cfg config.Config, a *App, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(a.Fixtures, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
