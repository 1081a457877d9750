package access

import (
	"context"

	"github.com/leapstack-labs/leapdal/pkg/core"
)

// FirstTable returns the first result set, or nil for an empty batch.
func FirstTable(tables []core.Table) *core.Table {
	if len(tables) == 0 {
		return nil
	}
	return &tables[0]
}

// LastTable returns the last result set, or nil for an empty batch.
func LastTable(tables []core.Table) *core.Table {
	if len(tables) == 0 {
		return nil
	}
	return &tables[len(tables)-1]
}

// FirstRow returns the first row of a table, or nil for a nil or empty
// table.
func FirstRow(t *core.Table) core.Row {
	if t == nil || len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// LastRow returns the last row of a table, or nil for a nil or empty table.
func LastRow(t *core.Table) core.Row {
	if t == nil || len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[len(t.Rows)-1]
}

// SingleValue unwraps the value of a one-column row. By contract the caller
// requested exactly one expression; with more than one column the returned
// value is unspecified. A nil or empty row yields nil.
func SingleValue(row core.Row) any {
	for _, v := range row {
		return v
	}
	return nil
}

// ReadFirstValue executes a command and reduces it to the single value of
// the first row of the first result set: scalar retrieval for
// multi-statement commands where only the leading result matters.
func (c *Connection) ReadFirstValue(ctx context.Context, cmd string) (any, error) {
	tables, err := c.QueryBatch(ctx, cmd, false)
	if err != nil {
		return nil, err
	}
	return SingleValue(FirstRow(FirstTable(tables))), nil
}

// ReadLastValue executes a command and reduces it to the single value of
// the last row of the last result set.
func (c *Connection) ReadLastValue(ctx context.Context, cmd string) (any, error) {
	tables, err := c.QueryBatch(ctx, cmd, false)
	if err != nil {
		return nil, err
	}
	return SingleValue(LastRow(LastTable(tables))), nil
}
