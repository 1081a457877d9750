// Package driver defines the pluggable SQL execution interface consumed by
// the access layer, a registry for concrete driver implementations, and a
// database/sql-backed base implementation drivers can embed.
package driver

import (
	"context"

	"github.com/leapstack-labs/leapdal/pkg/core"
)

// Notification is one element of the flat result stream a driver produces
// for a command: either a metadata marker announcing a new result set, or a
// chunk of rows belonging to the most recently announced set.
type Notification struct {
	// Set is the zero-based index of the result set within the command.
	Set int

	// Meta is non-nil on metadata markers and carries the column
	// descriptors of the announced set.
	Meta []core.Column

	// Rows holds objectified rows of a data chunk. Nil on metadata markers
	// and in raw mode.
	Rows []core.Row

	// Values holds positional row values of a data chunk in raw mode.
	Values [][]any
}

// IsMeta reports whether the notification is a metadata marker.
func (n Notification) IsMeta() bool { return n.Meta != nil && n.Rows == nil && n.Values == nil }

// NotifyFunc receives stream notifications in arrival order. Returning a
// non-nil error aborts the stream.
type NotifyFunc func(Notification) error

// Driver is the execution interface every database driver implements. The
// access layer consumes it; it never implements it.
//
// Drivers are not required to be safe for concurrent use: callers sharing
// one driver race on its state unless the driver serializes internally.
type Driver interface {
	// Open establishes the physical connection. Calling Open on an already
	// open driver is an error; callers go through the access layer's
	// lifecycle manager, which tracks nesting.
	Open(ctx context.Context) error

	// Close tears down the physical connection. Close on a closed driver is
	// a no-op.
	Close() error

	// IsOpen reports whether the physical connection is established.
	IsOpen() bool

	// Formatter returns the dialect formatter for identifiers and literals.
	Formatter() core.Formatter

	// SelectCommand builds the select command text for a specification.
	SelectCommand(spec core.SelectSpec) (string, error)

	// SelectCountCommand builds a row-count command for a specification.
	SelectCountCommand(spec core.SelectSpec) (string, error)

	// InsertCommand builds a single-row insert.
	InsertCommand(table string, row core.Row) (string, error)

	// UpdateCommand builds an update restricted by the spec's filter.
	UpdateCommand(spec core.UpdateSpec) (string, error)

	// DeleteCommand builds a delete restricted by the spec's filter.
	DeleteCommand(spec core.DeleteSpec) (string, error)

	// ProcCommand builds a stored procedure call with named parameters.
	ProcCommand(spec core.ProcSpec) (string, error)

	// AppendCommands concatenates command texts into one multi-statement
	// command.
	AppendCommands(cmds []string) string

	// QueryBatch executes a command and materializes every result set.
	QueryBatch(ctx context.Context, cmd string, raw bool) ([]core.Table, error)

	// QueryLines executes a command and streams one metadata marker per
	// result set followed by one single-row data chunk per row.
	QueryLines(ctx context.Context, cmd string, raw bool, fn NotifyFunc) error

	// QueryPackets executes a command and streams one metadata marker per
	// result set followed by data chunks of at most packetSize rows.
	// packetSize <= 0 means unbounded: one chunk per set.
	QueryPackets(ctx context.Context, cmd string, raw bool, packetSize int, fn NotifyFunc) error

	// UpdateBatch executes a non-query command and returns the affected row
	// count.
	UpdateBatch(ctx context.Context, cmd string) (int64, error)

	// Begin starts a transaction at the given isolation level. Subsequent
	// commands run inside it until Commit or Rollback.
	Begin(ctx context.Context, level core.IsolationLevel) error

	// Commit commits the active transaction.
	Commit(ctx context.Context) error

	// Rollback aborts the active transaction.
	Rollback(ctx context.Context) error

	// TableColumns probes column metadata for a table.
	TableColumns(ctx context.Context, table string) ([]core.Column, error)

	// DialectName returns the SQL dialect name (e.g. "sqlite", "postgres").
	DialectName() string
}
