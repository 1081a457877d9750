// Package duckdb provides a DuckDB driver for leapdal.
package duckdb

import (
	"context"
	"log/slog"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/leapstack-labs/leapdal/pkg/core"
	"github.com/leapstack-labs/leapdal/pkg/driver"
)

// Driver implements the driver.Driver interface for DuckDB.
type Driver struct {
	driver.BaseSQL
}

// New creates a new DuckDB driver instance.
// If logger is nil, a discard logger is used.
func New(cfg core.DriverConfig, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := driver.StandardDialect("duckdb")
	d.SupportsProcedures = false
	d.DefaultSchema = "main"
	return &Driver{
		BaseSQL: driver.BaseSQL{Cfg: cfg, Logger: logger, D: d},
	}
}

// Open establishes a connection to DuckDB.
// An empty path selects an in-memory database.
func (d *Driver) Open(ctx context.Context) error {
	path := d.Cfg.Path
	if path == ":memory:" {
		path = ""
	}

	d.Logger.Debug("connecting to duckdb", slog.String("path", path))

	return d.OpenDB(ctx, "duckdb", path)
}

// Ensure Driver implements the driver.Driver interface.
var _ driver.Driver = (*Driver)(nil)
