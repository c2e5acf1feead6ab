package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/marinos-fixtures/internal/config"
	"github.com/riskibarqy/marinos-fixtures/internal/domain/fixture"
	cacherepo "github.com/riskibarqy/marinos-fixtures/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/marinos-fixtures/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/marinos-fixtures/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/marinos-fixtures/internal/platform/cache"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

const dbPingTimeout = 5 * time.Second

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// newFixtureRepository returns the configured store behind a read-through
// query cache, plus a closer for its resources.
func newFixtureRepository(cfg config.Config, logger *logging.Logger) (fixture.Repository, func() error, error) {
	var (
		repo   fixture.Repository
		closer = func() error { return nil }
	)

	if cfg.UseMemoryRepository {
		logger.Info("using in-memory fixture repository")
		repo = memory.NewFixtureRepository()
	} else {
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to postgres", "db", dbNameFromURL(cfg.DBURL))
		repo = postgres.NewFixtureRepository(db)
		closer = db.Close
	}

	return cacherepo.NewFixtureRepository(repo, basecache.NewStore(cfg.QueryCacheTTL)), closer, nil
}
