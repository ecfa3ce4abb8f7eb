// pkg/connector/postgres.go
package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/retailops/ingress/pkg/config"
)

// PostgresConnector owns the connection held for the duration of one
// pipeline run
type PostgresConnector struct {
	db     *sqlx.DB
	logger *zap.Logger
	cfg    *config.Config
}

// NewPostgresConnector opens and verifies the PostgreSQL connection.
// Call after the gate has confirmed reachability; a failure here is
// fatal, not retried.
func NewPostgresConnector(ctx context.Context, cfg *config.Config) (*PostgresConnector, error) {
	logger := zap.L().Named("postgres-connector")

	logger.Info("Connecting to PostgreSQL")

	db, err := sqlx.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	ApplyConnectionSettings(db.DB, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)

	if err := PingWithTimeout(ctx, db.DB, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	connector := &PostgresConnector{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}

	LogConnectionStats(logger, "postgres", db.DB)
	return connector, nil
}

// DB returns the underlying database handle
func (c *PostgresConnector) DB() *sqlx.DB {
	return c.db
}

// Validate verifies the connection and that the three layer schemas
// exist. The schemas are pre-provisioned; this system never creates them.
func (c *PostgresConnector) Validate(ctx context.Context) error {
	var version string
	if err := c.db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return fmt.Errorf("failed to query PostgreSQL version: %w", err)
	}
	c.logger.Info("Connected to PostgreSQL", zap.String("version", version))

	requiredSchemas := []string{"raw", "ingest", "curate"}
	for _, schema := range requiredSchemas {
		var exists bool
		err := c.db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)",
			schema).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check schema %s: %w", schema, err)
		}
		if !exists {
			return fmt.Errorf("required schema %s does not exist", schema)
		}
	}

	c.logger.Info("PostgreSQL connection validated",
		zap.Strings("schemas", requiredSchemas))

	return nil
}

// Close closes the database connection
func (c *PostgresConnector) Close() error {
	c.logger.Info("Closing PostgreSQL connection")
	LogConnectionStats(c.logger, "postgres", c.db.DB)
	return c.db.Close()
}
