// cmd/ingress/main.go
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/retailops/ingress/pkg/config"
	"github.com/retailops/ingress/pkg/connector"
	"github.com/retailops/ingress/pkg/pipeline"
	"github.com/retailops/ingress/pkg/store"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := zap.NewExample()
		fallback.Fatal("Invalid configuration", zap.Error(err))
	}

	logger, err := cfg.BuildLogger()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Pipeline failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	// Block until the database is reachable
	gate := connector.NewGate(cfg.DatabaseURL, cfg.Retry, logger.Named("gate"))
	if err := gate.Await(ctx); err != nil {
		return err
	}

	// One connection scope for the whole run
	conn, err := connector.NewPostgresConnector(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Validate(ctx); err != nil {
		return err
	}

	st := store.New(conn.DB(), logger.Named("store"))
	p, err := pipeline.New(cfg, st, logger.Named("pipeline"))
	if err != nil {
		return err
	}

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("Done",
		zap.String("runID", result.RunID),
		zap.Duration("duration", result.Duration))

	return nil
}
