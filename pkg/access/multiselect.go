package access

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapdal/pkg/core"
	"github.com/leapstack-labs/leapdal/pkg/driver"
)

// Grouper normalizes a list of select specifications before multi-select
// execution. Implementations may merge compatible specifications or reorder
// for the target engine; the returned list defines the result-set order.
type Grouper interface {
	Group(specs []core.SelectSpec) []core.SelectSpec
}

type identityGrouper struct{}

func (identityGrouper) Group(specs []core.SelectSpec) []core.SelectSpec { return specs }

// TableSet is the merge target of MergeMultiSelect: an in-memory table
// collection that merges incoming packets by primary key. See pkg/memtable
// for the reference implementation.
type TableSet interface {
	Merge(p core.Packet) error
}

// MultiSelect concatenates the selects into one physical multi-statement
// command and demultiplexes the streamed response back into per-
// specification packets, labeled by each specification's alias or physical
// table name. Security filters are resolved concurrently per specification;
// the command list stays index-aligned with the specification order. An
// empty specification list resolves immediately with no notifications and
// no driver round-trip.
func (c *Connection) MultiSelect(ctx context.Context, specs []core.SelectSpec, raw bool, packetSize int, fn func(core.Packet) error) error {
	if len(specs) == 0 {
		return nil
	}

	specs = c.grouper.Group(specs)

	labels := make([]string, len(specs))
	cmds := make([]string, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		labels[i] = spec.Label()
		g.Go(func() error {
			filter, err := c.FilterSecured(gctx, spec.Filter, true, spec.Table, core.AccessRead, spec.Env)
			if err != nil {
				return err
			}
			spec.Filter = filter

			cmd, err := c.drv.SelectCommand(spec)
			if err != nil {
				return err
			}
			cmds[i] = cmd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cmd := c.drv.AppendCommands(cmds)

	c.logger.Debug("executing multi-select",
		slog.String("id", c.id.String()),
		slog.Int("selects", len(specs)),
		slog.Int("packet_size", packetSize))

	asm := newAssembler(labels, raw, false)
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

// MergeMultiSelect runs MultiSelect and feeds every streamed packet into the
// table set's merge-by-primary-key operation, looked up by packet table
// name.
func (c *Connection) MergeMultiSelect(ctx context.Context, specs []core.SelectSpec, packetSize int, tables TableSet) error {
	return c.MultiSelect(ctx, specs, false, packetSize, func(p core.Packet) error {
		return tables.Merge(p)
	})
}
