package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/marinos-fixtures/internal/app"
	"github.com/riskibarqy/marinos-fixtures/internal/config"
	"github.com/riskibarqy/marinos-fixtures/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(openFixtureService)
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func openFixtureService(verbose bool) (fixtureService, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewConsole(level)
	logging.SetDefault(logger)

	a, err := app.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return a.Fixtures, func() error {
		_ = logger.Sync()
		return a.Close()
	}, nil
}
