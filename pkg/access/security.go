package access

import (
	"context"

	"github.com/leapstack-labs/leapdal/pkg/core"
)

// FilterSecured merges a caller filter with the table's security condition
// for the given access mode. A statically false filter is returned
// unchanged without consulting the provider: it can never need
// augmentation, and the lookup round-trip is skipped. With applySecurity
// false or no provider configured, the caller filter passes through.
func (c *Connection) FilterSecured(ctx context.Context, filter core.Predicate, applySecurity bool, table string, mode core.AccessMode, env core.Environment) (core.Predicate, error) {
	if filter != nil && filter.IsFalse() {
		return filter, nil
	}
	if !applySecurity || c.sec == nil {
		return filter, nil
	}

	cond, err := c.sec.Condition(ctx, table, mode, env)
	if err != nil {
		return nil, &core.SecurityError{Table: table, Err: err}
	}
	if cond == nil {
		return filter, nil
	}
	return core.And(filter, cond), nil
}
