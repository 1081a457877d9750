package access

import (
	"context"

	"github.com/leapstack-labs/leapdal/pkg/core"
)

// PostCommand derives the write command for a tracked row from its change
// state: added rows become inserts, modified rows become updates carrying
// only the modified columns, deleted rows become deletes. Any other state
// yields an empty command. Updates and deletes are guarded by the
// optimistic lock filter when optimisticLocking is set, the primary key
// filter otherwise, and augmented with the table's write security condition
// when a provider is configured.
func (c *Connection) PostCommand(ctx context.Context, row *core.TrackedRow, optimisticLocking bool, env core.Environment) (string, error) {
	switch row.State {
	case core.RowAdded:
		return c.drv.InsertCommand(row.Table, row.Values)

	case core.RowModified:
		cols := row.ModifiedColumns()
		if len(cols) == 0 {
			return "", nil
		}
		values := make(core.Row, len(cols))
		for _, name := range cols {
			values[name] = row.Values[name]
		}
		filter, err := c.writeFilter(ctx, row, optimisticLocking, core.AccessUpdate, env)
		if err != nil {
			return "", err
		}
		return c.drv.UpdateCommand(core.UpdateSpec{Table: row.Table, Values: values, Filter: filter})

	case core.RowDeleted:
		filter, err := c.writeFilter(ctx, row, optimisticLocking, core.AccessDelete, env)
		if err != nil {
			return "", err
		}
		return c.drv.DeleteCommand(core.DeleteSpec{Table: row.Table, Filter: filter})

	default:
		return "", nil
	}
}

// writeFilter builds the row-identity filter for an update or delete and
// merges the table's security condition for the access mode.
func (c *Connection) writeFilter(ctx context.Context, row *core.TrackedRow, optimisticLocking bool, mode core.AccessMode, env core.Environment) (core.Predicate, error) {
	filter := row.KeyFilter()
	if optimisticLocking {
		filter = row.LockFilter()
	}

	if c.sec == nil {
		return filter, nil
	}
	cond, err := c.sec.Condition(ctx, row.Table, mode, env)
	if err != nil {
		return nil, &core.SecurityError{Table: row.Table, Err: err}
	}
	return core.And(filter, cond), nil
}

// Post derives and executes the write command for a tracked row. Unchanged
// rows are a no-op resolving to zero affected rows; for the other states a
// zero affected-row count is surfaced as a CommandError, since the caller's
// intent was exactly one row.
func (c *Connection) Post(ctx context.Context, row *core.TrackedRow, optimisticLocking bool, env core.Environment) (int64, error) {
	cmd, err := c.PostCommand(ctx, row, optimisticLocking, env)
	if err != nil {
		return 0, err
	}
	if cmd == "" {
		return 0, nil
	}
	return c.execSingle(ctx, row.State.String(), row.Table, cmd)
}

// DoSingleInsert inserts exactly one row, failing with CommandError when
// the driver reports zero affected rows.
func (c *Connection) DoSingleInsert(ctx context.Context, table string, row core.Row) (int64, error) {
	cmd, err := c.drv.InsertCommand(table, row)
	if err != nil {
		return 0, err
	}
	return c.execSingle(ctx, "insert", table, cmd)
}

// DoSingleUpdate updates exactly one row, failing with CommandError when
// the driver reports zero affected rows.
func (c *Connection) DoSingleUpdate(ctx context.Context, spec core.UpdateSpec) (int64, error) {
	cmd, err := c.drv.UpdateCommand(spec)
	if err != nil {
		return 0, err
	}
	return c.execSingle(ctx, "update", spec.Table, cmd)
}

// DoSingleDelete deletes exactly one row, failing with CommandError when
// the driver reports zero affected rows.
func (c *Connection) DoSingleDelete(ctx context.Context, spec core.DeleteSpec) (int64, error) {
	cmd, err := c.drv.DeleteCommand(spec)
	if err != nil {
		return 0, err
	}
	return c.execSingle(ctx, "delete", spec.Table, cmd)
}

// execSingle runs a single-row write through the scoped wrapper and maps a
// zero affected-row count to CommandError.
func (c *Connection) execSingle(ctx context.Context, op, table, cmd string) (int64, error) {
	var count int64
	err := c.withOpen(ctx, func() error {
		n, err := c.drv.UpdateBatch(ctx, cmd)
		if err != nil {
			return &core.DriverError{Err: err}
		}
		if n == 0 {
			return &core.CommandError{Op: op, Table: table}
		}
		count = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
