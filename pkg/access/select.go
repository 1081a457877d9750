package access

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapdal/pkg/core"
	"github.com/leapstack-labs/leapdal/pkg/driver"
)

// Select resolves the security filter, builds the select command, and
// returns exactly one table tagged with the spec's alias or physical name.
// A command yielding multiple result sets contributes its first set. A
// statically false caller filter short-circuits to an empty result without
// any security lookup or driver round-trip.
func (c *Connection) Select(ctx context.Context, spec core.SelectSpec) (*core.Table, error) {
	if spec.Filter != nil && spec.Filter.IsFalse() {
		return &core.Table{Name: spec.Label()}, nil
	}

	cmd, err := c.buildSelect(ctx, &spec)
	if err != nil {
		return nil, err
	}

	tables, err := c.QueryBatch(ctx, cmd, false)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return &core.Table{Name: spec.Label()}, nil
	}

	t := tables[0]
	t.Name = spec.Label()
	return &t, nil
}

// SelectRows streams the select result one row at a time for memory-bounded
// consumption: one leading metadata packet per result set, then one
// single-row packet per row.
func (c *Connection) SelectRows(ctx context.Context, spec core.SelectSpec, raw bool, fn func(core.Packet) error) error {
	if spec.Filter != nil && spec.Filter.IsFalse() {
		return nil
	}

	cmd, err := c.buildSelect(ctx, &spec)
	if err != nil {
		return err
	}

	asm := newAssembler([]string{spec.Label()}, raw, true)
	return c.withOpen(ctx, func() error {
		err := c.drv.QueryLines(ctx, cmd, raw, func(n driver.Notification) error {
			return asm.consume(n, fn)
		})
		if err != nil {
			return &core.DriverError{Err: err}
		}
		return nil
	})
}

// QueryPackets streams the select result as packets of at most packetSize
// rows through the reassembly engine. packetSize <= 0 means unbounded: one
// packet per result set. A result set with zero rows emits no packets.
func (c *Connection) QueryPackets(ctx context.Context, spec core.SelectSpec, raw bool, packetSize int, fn func(core.Packet) error) error {
	if spec.Filter != nil && spec.Filter.IsFalse() {
		return nil
	}

	cmd, err := c.buildSelect(ctx, &spec)
	if err != nil {
		return err
	}

	c.logger.Debug("streaming packets",
		slog.String("id", c.id.String()),
		slog.String("table", spec.Label()),
		slog.Int("packet_size", packetSize))

	asm := newAssembler([]string{spec.Label()}, raw, false)
	return c.withOpen(ctx, func() error {
		err := c.drv.QueryPackets(ctx, cmd, raw, packetSize, func(n driver.Notification) error {
			return asm.consume(n, fn)
		})
		if err != nil {
			return &core.DriverError{Err: err}
		}
		return nil
	})
}

// SelectCount resolves the security filter and reduces the count command to
// a single scalar. A resolved filter that is statically false yields zero
// without any driver round-trip.
func (c *Connection) SelectCount(ctx context.Context, spec core.SelectSpec) (int64, error) {
	filter, err := c.FilterSecured(ctx, spec.Filter, true, spec.Table, core.AccessRead, spec.Env)
	if err != nil {
		return 0, err
	}
	if filter != nil && filter.IsFalse() {
		return 0, nil
	}
	spec.Filter = filter

	cmd, err := c.drv.SelectCountCommand(spec)
	if err != nil {
		return 0, err
	}

	tables, err := c.QueryBatch(ctx, cmd, false)
	if err != nil {
		return 0, err
	}

	value := SingleValue(FirstRow(FirstTable(tables)))
	count, err := toInt64(value)
	if err != nil {
		return 0, fmt.Errorf("count for table %q: %w", spec.Table, err)
	}
	return count, nil
}

// buildSelect resolves the security filter into the spec and builds the
// select command text.
func (c *Connection) buildSelect(ctx context.Context, spec *core.SelectSpec) (string, error) {
	filter, err := c.FilterSecured(ctx, spec.Filter, true, spec.Table, core.AccessRead, spec.Env)
	if err != nil {
		return "", err
	}
	spec.Filter = filter
	return c.drv.SelectCommand(*spec)
}

// toInt64 normalizes the scalar shapes drivers report for COUNT(*).
func toInt64(v any) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case int32:
		return int64(val), nil
	case int:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case nil:
		return 0, fmt.Errorf("count returned no value")
	default:
		return 0, fmt.Errorf("count returned unexpected type %T", v)
	}
}
