// Package sqlite provides a SQLite driver for leapdal backed by the
// cgo-free modernc.org/sqlite engine.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/leapstack-labs/leapdal/pkg/core"
	"github.com/leapstack-labs/leapdal/pkg/driver"
)

// Driver implements the driver.Driver interface for SQLite.
type Driver struct {
	driver.BaseSQL
}

// New creates a new SQLite driver instance.
// If logger is nil, a discard logger is used.
func New(cfg core.DriverConfig, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := driver.StandardDialect("sqlite")
	d.SupportsProcedures = false
	return &Driver{
		BaseSQL: driver.BaseSQL{Cfg: cfg, Logger: logger, D: d},
	}
}

// Open establishes a connection to SQLite.
// Use ":memory:" as the path for an in-memory database.
func (d *Driver) Open(ctx context.Context) error {
	path := d.Cfg.Path
	if path == "" {
		path = ":memory:"
	}

	d.Logger.Debug("connecting to sqlite", slog.String("path", path))

	if err := d.OpenDB(ctx, "sqlite", path); err != nil {
		return err
	}
	// A single pooled connection: sqlite serializes writes anyway, and each
	// new connection to a ":memory:" DSN would get its own empty database.
	d.DB.SetMaxOpenConns(1)
	return nil
}

// TableColumns probes column metadata via PRAGMA table_info; SQLite has no
// information_schema.
func (d *Driver) TableColumns(ctx context.Context, table string) ([]core.Column, error) {
	if !d.IsOpen() {
		return nil, fmt.Errorf("database connection not established")
	}
	f := d.Formatter()

	query := fmt.Sprintf("PRAGMA table_info(%s)", f.Ident(table))
	rows, err := d.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var (
			cid        int
			name       string
			typ        string
			notNull    int
			defaultVal any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		columns = append(columns, core.Column{
			Name:     name,
			Type:     typ,
			Nullable: notNull == 0,
			Position: cid,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return columns, nil
}

// Ensure Driver implements the driver.Driver interface.
var _ driver.Driver = (*Driver)(nil)
