package access

import (
	"context"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/leapdal/pkg/core"
	"github.com/leapstack-labs/leapdal/pkg/driver"
	"github.com/leapstack-labs/leapdal/pkg/security"
)

// fakeSet is one scripted result set.
type fakeSet struct {
	meta []core.Column
	rows []core.Row
}

// fakeDriver is a scripted driver for façade tests. Command building and
// formatting come from the embedded BaseSQL; the lifecycle and execution
// methods are overridden to count physical opens/closes and replay scripted
// result sets.
type fakeDriver struct {
	driver.BaseSQL

	open   bool
	opens  int
	closes int

	queries  int
	lastCmd  string
	script   []fakeSet
	queryErr error

	updates     int
	updateCount int64
	updateErr   error

	openErr  error
	closeErr error
}

func newFakeDriver(sets ...fakeSet) *fakeDriver {
	return &fakeDriver{
		BaseSQL: driver.BaseSQL{
			Logger: slog.New(slog.DiscardHandler),
			D:      driver.StandardDialect("fake"),
		},
		script: sets,
	}
}

func (d *fakeDriver) Open(_ context.Context) error {
	if d.openErr != nil {
		return d.openErr
	}
	d.open = true
	d.opens++
	return nil
}

func (d *fakeDriver) Close() error {
	d.open = false
	d.closes++
	return d.closeErr
}

func (d *fakeDriver) IsOpen() bool { return d.open }

func (d *fakeDriver) QueryBatch(_ context.Context, cmd string, raw bool) ([]core.Table, error) {
	d.queries++
	d.lastCmd = cmd
	if d.queryErr != nil {
		return nil, d.queryErr
	}
	tables := make([]core.Table, len(d.script))
	for i, set := range d.script {
		tables[i] = core.Table{Meta: set.meta, Rows: set.rows}
		if raw {
			tables[i].Rows = nil
			tables[i].Values = set.values()
		}
	}
	return tables, nil
}

func (d *fakeDriver) QueryLines(ctx context.Context, cmd string, raw bool, fn driver.NotifyFunc) error {
	return d.QueryPackets(ctx, cmd, raw, 1, fn)
}

func (d *fakeDriver) QueryPackets(_ context.Context, cmd string, raw bool, packetSize int, fn driver.NotifyFunc) error {
	d.queries++
	d.lastCmd = cmd
	if d.queryErr != nil {
		return d.queryErr
	}
	for i, set := range d.script {
		if err := fn(driver.Notification{Set: i, Meta: set.meta}); err != nil {
			return err
		}
		rows := set.rows
		size := packetSize
		if size <= 0 {
			size = len(rows)
		}
		for start := 0; start < len(rows); start += size {
			end := start + size
			if end > len(rows) {
				end = len(rows)
			}
			n := driver.Notification{Set: i}
			if raw {
				n.Values = fakeSet{meta: set.meta, rows: rows[start:end]}.values()
			} else {
				n.Rows = rows[start:end]
			}
			if err := fn(n); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *fakeDriver) UpdateBatch(_ context.Context, cmd string) (int64, error) {
	d.updates++
	d.lastCmd = cmd
	if d.updateErr != nil {
		return 0, d.updateErr
	}
	return d.updateCount, nil
}

func (d *fakeDriver) Begin(_ context.Context, _ core.IsolationLevel) error { return nil }
func (d *fakeDriver) Commit(_ context.Context) error                       { return nil }
func (d *fakeDriver) Rollback(_ context.Context) error                     { return nil }

func (d *fakeDriver) TableColumns(_ context.Context, _ string) ([]core.Column, error) {
	if len(d.script) == 0 {
		return nil, nil
	}
	return d.script[0].meta, nil
}

// values converts the scripted objectified rows to positional values.
func (s fakeSet) values() [][]any {
	out := make([][]any, len(s.rows))
	for i, row := range s.rows {
		vals := make([]any, len(s.meta))
		for j, col := range s.meta {
			vals[j] = row[col.Name]
		}
		out[i] = vals
	}
	return out
}

var _ driver.Driver = (*fakeDriver)(nil)

// fakeSecurity records condition lookups and returns a fixed predicate per
// table.
type fakeSecurity struct {
	mu         sync.Mutex
	conditions map[string]core.Predicate
	calls      []securityCall
	err        error
}

type securityCall struct {
	table string
	mode  core.AccessMode
	env   core.Environment
}

func (s *fakeSecurity) Condition(_ context.Context, table string, mode core.AccessMode, env core.Environment) (core.Predicate, error) {
	s.mu.Lock()
	s.calls = append(s.calls, securityCall{table: table, mode: mode, env: env})
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.conditions[table], nil
}

// fakeProvider hands out a prepared fakeSecurity.
type fakeProvider struct {
	sec *fakeSecurity
	err error
}

func (p *fakeProvider) Connect(_ context.Context, _ driver.Driver, _ core.Formatter) (security.Security, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.sec, nil
}
