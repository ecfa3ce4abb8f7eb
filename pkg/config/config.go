// pkg/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/retailops/ingress/pkg/model"
)

// RetryPolicy governs the startup connection gate. MaxAttempts of 0
// means retry without bound.
type RetryPolicy struct {
	Interval    time.Duration
	MaxAttempts int
}

// Unbounded reports whether the policy retries forever
func (p RetryPolicy) Unbounded() bool {
	return p.MaxAttempts <= 0
}

// InputPaths holds the fixed locations of the source files
type InputPaths struct {
	Transactions string // JSON transaction feed
	Catalog      string // CSV product catalog
}

// OutputPaths holds the locations of the exported report files
type OutputPaths struct {
	TopSellers    string
	AvgOrderValue string
	RevenueByCat  string
}

// Config represents the application configuration. It is constructed
// once at process entry and passed by reference; nothing reads the
// environment after Load returns.
type Config struct {
	// Database connection string (lib/pq DSN or URL form)
	DatabaseURL string

	// Startup gate settings
	Retry RetryPolicy

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// File locations
	Inputs  InputPaths
	Outputs OutputPaths

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	dsn := os.Getenv("DB_CONNECTION")
	if dsn == "" {
		return nil, model.Errorf(model.CategoryConfig, "config",
			"DB_CONNECTION environment variable is required")
	}

	cfg := &Config{
		DatabaseURL: dsn,
		Retry: RetryPolicy{
			Interval:    time.Duration(getEnvAsInt("RETRY_INTERVAL_MS", 5000)) * time.Millisecond,
			MaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 0),
		},
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 5),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
		ConnMaxLifetime: time.Duration(getEnvAsInt("DB_CONN_MAX_LIFETIME_SECONDS", 1800)) * time.Second,
		Inputs: InputPaths{
			Transactions: getEnv("TRANSACTIONS_PATH", "./raw/customer_transactions.json"),
			Catalog:      getEnv("CATALOG_PATH", "./raw/product_catalog.csv"),
		},
		Outputs: OutputPaths{
			TopSellers:    getEnv("TOP_SELLERS_PATH", "./output/top2_best_selling.csv"),
			AvgOrderValue: getEnv("AVG_ORDER_VALUE_PATH", "./output/average_order_value_per_customer.csv"),
			RevenueByCat:  getEnv("REVENUE_PER_CATEGORY_PATH", "./output/total_revenue_per_product.csv"),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return model.Errorf(model.CategoryConfig, "config", "database connection string is required")
	}
	if c.Retry.Interval < 0 {
		return model.Errorf(model.CategoryConfig, "config", "retry interval cannot be negative")
	}
	if c.Retry.MaxAttempts < 0 {
		return model.Errorf(model.CategoryConfig, "config", "retry attempts cannot be negative")
	}
	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
