// Package postgres provides a PostgreSQL driver for leapdal backed by the
// jackc/pgx stdlib adapter.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/leapstack-labs/leapdal/pkg/core"
	"github.com/leapstack-labs/leapdal/pkg/driver"
)

// Driver implements the driver.Driver interface for PostgreSQL.
type Driver struct {
	driver.BaseSQL
}

// New creates a new PostgreSQL driver instance.
// If logger is nil, a discard logger is used.
func New(cfg core.DriverConfig, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		BaseSQL: driver.BaseSQL{Cfg: cfg, Logger: logger, D: driver.StandardDialect("postgres")},
	}
}

// Open establishes a connection to PostgreSQL.
func (d *Driver) Open(ctx context.Context) error {
	dsn := buildDSN(d.Cfg)

	d.Logger.Debug("connecting to postgres",
		slog.String("host", d.Cfg.Host), slog.String("database", d.Cfg.Database))

	return d.OpenDB(ctx, "pgx", dsn)
}

// buildDSN constructs a PostgreSQL connection string in key=value format.
func buildDSN(cfg core.DriverConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}

	return dsn
}

// Ensure Driver implements the driver.Driver interface.
var _ driver.Driver = (*Driver)(nil)
