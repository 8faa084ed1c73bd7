package database

import (
	"fmt"
	"net/url"

	"cashmesh/internal/config"
)

// Supported SQL dialects.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds database configuration
type Config struct {
	Driver string
	// DSN is the driver-specific connection string handed to GORM.
	DSN string
	// MigrateURL is the postgres:// URL golang-migrate connects with.
	// Empty for dialects that are migrated with AutoMigrate.
	MigrateURL string
	Debug      bool
}

// NewConfig derives the database configuration from the application config.
// DATABASE_URL wins over the individual DB_* settings when set.
func NewConfig(cfg *config.Config) (*Config, error) {
	c := &Config{Driver: cfg.DBDriver, Debug: cfg.Debug}

	switch cfg.DBDriver {
	case DriverPostgres:
		c.MigrateURL = cfg.DatabaseURL
		if c.MigrateURL == "" {
			u := url.URL{
				Scheme:   "postgres",
				User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
				Host:     cfg.DBHost + ":" + cfg.DBPort,
				Path:     "/" + cfg.DBName,
				RawQuery: "sslmode=" + cfg.DBSSLMode,
			}
			c.MigrateURL = u.String()
		}
		c.DSN = c.MigrateURL
	case DriverMySQL:
		c.DSN = cfg.DatabaseURL
		if c.DSN == "" {
			c.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		}
	case DriverSQLite:
		c.DSN = cfg.DatabaseURL
		if c.DSN == "" {
			c.DSN = fmt.Sprintf("file:%s.db?_foreign_keys=1", cfg.DBName)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	return c, nil
}
