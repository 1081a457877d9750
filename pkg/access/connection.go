// Package access implements the database-agnostic data-access façade: a
// reference-counted connection lifecycle over a single driver connection,
// a scoped ensure-open execution wrapper, security-filter composition,
// streaming packet reassembly, and multi-select orchestration.
package access

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leapdal/pkg/core"
	"github.com/leapstack-labs/leapdal/pkg/driver"
	"github.com/leapstack-labs/leapdal/pkg/security"
)

// Options configures a Connection.
type Options struct {
	// Driver is the underlying driver connection. Required.
	Driver driver.Driver

	// Persisting keeps the physical connection open across operations.
	// Nil defaults to true.
	Persisting *bool

	// SecurityProvider supplies per-table access conditions. Nil disables
	// security filtering.
	SecurityProvider security.Provider

	// Grouper normalizes multi-select specifications before execution.
	// Nil uses the identity grouper.
	Grouper Grouper

	// Logger is the structured logger (nil uses a discard logger).
	Logger *slog.Logger
}

// Connection is a logical session over exactly one driver connection. It is
// not a connection pool and not a lock: concurrent callers sharing one
// Connection race on the underlying driver state unless the driver
// serializes internally.
type Connection struct {
	id         uuid.UUID
	drv        driver.Driver
	persisting bool
	nesting    int
	provider   security.Provider
	sec        security.Security
	grouper    Grouper
	logger     *slog.Logger
}

// New creates a Connection over the given driver. When persisting (the
// default), the physical connection is established immediately and kept
// open until Destroy. A configured security provider is connected during
// construction through the same driver connection.
func New(ctx context.Context, opts Options) (*Connection, error) {
	if opts.Driver == nil {
		return nil, fmt.Errorf("access: driver connection required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	persisting := true
	if opts.Persisting != nil {
		persisting = *opts.Persisting
	}

	grouper := opts.Grouper
	if grouper == nil {
		grouper = identityGrouper{}
	}

	c := &Connection{
		id:         uuid.New(),
		drv:        opts.Driver,
		persisting: persisting,
		provider:   opts.SecurityProvider,
		grouper:    grouper,
		logger:     logger,
	}

	logger.Debug("creating connection",
		slog.String("id", c.id.String()),
		slog.Bool("persisting", persisting),
		slog.String("dialect", opts.Driver.DialectName()))

	opened := false
	if persisting && !c.drv.IsOpen() {
		if err := c.drv.Open(ctx); err != nil {
			return nil, &core.ConnectionError{Op: "open", Err: err}
		}
		opened = true
	}

	if c.provider != nil {
		err := c.withOpen(ctx, func() error {
			sec, err := c.provider.Connect(ctx, c.drv, c.drv.Formatter())
			if err != nil {
				return fmt.Errorf("security provider connect failed: %w", err)
			}
			c.sec = sec
			return nil
		})
		if err != nil {
			// The caller gets no handle back, so a connection this
			// constructor opened has to be released here.
			if opened {
				_ = c.drv.Close()
			}
			return nil, err
		}
	}

	return c, nil
}

// ID returns the handle identity used in logs.
func (c *Connection) ID() uuid.UUID { return c.id }

// Driver returns the underlying driver connection.
func (c *Connection) Driver() driver.Driver { return c.drv }

// Clone returns a new logical session sharing the same driver connection,
// security provider state, and options, with its own nesting count.
func (c *Connection) Clone() *Connection {
	return &Connection{
		id:         uuid.New(),
		drv:        c.drv,
		persisting: c.persisting,
		provider:   c.provider,
		sec:        c.sec,
		grouper:    c.grouper,
		logger:     c.logger,
	}
}

// NestingLevel returns the count of outstanding Open calls not yet matched
// by Close.
func (c *Connection) NestingLevel() int { return c.nesting }

// Open acquires a logical open on the handle. Nested callers each call
// Open/Close independently; the physical driver connection is opened only
// when no logical open is outstanding and, for persisting handles, only
// when the driver is not already open.
func (c *Connection) Open(ctx context.Context) error {
	if c.nesting > 0 {
		c.nesting++
		return nil
	}
	if c.persisting && c.drv.IsOpen() {
		c.nesting++
		return nil
	}

	if err := c.drv.Open(ctx); err != nil {
		return &core.ConnectionError{Op: "open", Err: err}
	}
	c.nesting = 1
	return nil
}

// Close releases one logical open. The physical connection is closed only
// when the last logical open is released on a non-persisting handle. Close
// never fails observably: a driver close failure is swallowed and the
// handle treated as closed, so cleanup cannot block caller logic.
func (c *Connection) Close() {
	if c.persisting || c.nesting > 1 {
		if c.nesting > 0 {
			c.nesting--
		}
		return
	}

	if err := c.drv.Close(); err != nil {
		c.logger.Debug("driver close failed, treating as closed",
			slog.String("id", c.id.String()), slog.String("error", err.Error()))
	}
	c.nesting = 0
}

// Destroy force-closes the physical connection regardless of persistence
// and nesting. The handle must not be used afterwards.
func (c *Connection) Destroy() {
	if err := c.drv.Close(); err != nil {
		c.logger.Debug("driver close failed during destroy",
			slog.String("id", c.id.String()), slog.String("error", err.Error()))
	}
	c.nesting = 0
}

// withOpen runs op with the connection guaranteed open, releasing the
// logical open on every path, panic included. Every successful Open is
// matched by exactly one Close attempt; a close failure never overrides
// the operation's own outcome.
func (c *Connection) withOpen(ctx context.Context, op func() error) error {
	if err := c.Open(ctx); err != nil {
		return err
	}
	defer c.Close()
	return op()
}

// Begin starts a transaction at the given isolation level. The logical open
// acquired here is held until Commit or Rollback releases it, keeping the
// physical connection pinned for the transaction's lifetime.
func (c *Connection) Begin(ctx context.Context, level core.IsolationLevel) error {
	if err := c.Open(ctx); err != nil {
		return err
	}
	if err := c.drv.Begin(ctx, level); err != nil {
		c.Close()
		return &core.DriverError{Err: err}
	}
	return nil
}

// Commit commits the active transaction and releases the logical open
// acquired by Begin.
func (c *Connection) Commit(ctx context.Context) error {
	defer c.Close()
	if err := c.drv.Commit(ctx); err != nil {
		return &core.DriverError{Err: err}
	}
	return nil
}

// Rollback aborts the active transaction and releases the logical open
// acquired by Begin.
func (c *Connection) Rollback(ctx context.Context) error {
	defer c.Close()
	if err := c.drv.Rollback(ctx); err != nil {
		return &core.DriverError{Err: err}
	}
	return nil
}

// QueryBatch executes a command through the scoped wrapper and materializes
// every result set.
func (c *Connection) QueryBatch(ctx context.Context, cmd string, raw bool) ([]core.Table, error) {
	var tables []core.Table
	err := c.withOpen(ctx, func() error {
		var err error
		tables, err = c.drv.QueryBatch(ctx, cmd, raw)
		if err != nil {
			return &core.DriverError{Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// TableColumns probes column metadata for a table through the scoped
// wrapper.
func (c *Connection) TableColumns(ctx context.Context, table string) ([]core.Column, error) {
	var cols []core.Column
	err := c.withOpen(ctx, func() error {
		var err error
		cols, err = c.drv.TableColumns(ctx, table)
		if err != nil {
			return &core.DriverError{Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cols, nil
}

// CallProc calls a stored procedure with named parameters and materializes
// every result set it returns.
func (c *Connection) CallProc(ctx context.Context, spec core.ProcSpec) ([]core.Table, error) {
	cmd, err := c.drv.ProcCommand(spec)
	if err != nil {
		return nil, err
	}
	return c.QueryBatch(ctx, cmd, false)
}
