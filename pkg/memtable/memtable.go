// Package memtable provides an in-memory table collection that merges
// incoming packets by primary key. It is the reference implementation of
// the access layer's TableSet merge target.
package memtable

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapdal/pkg/core"
)

// Table holds the merged rows of one logical table.
type Table struct {
	name string
	keys []string
	rows map[string]core.Row
	// order preserves first-seen insertion order across merges.
	order []string
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Len returns the number of merged rows.
func (t *Table) Len() int { return len(t.order) }

// Rows returns the merged rows in first-seen order.
func (t *Table) Rows() []core.Row {
	rows := make([]core.Row, len(t.order))
	for i, key := range t.order {
		rows[i] = t.rows[key]
	}
	return rows
}

// rowKey builds the merge key from the row's primary key values.
func (t *Table) rowKey(row core.Row) string {
	parts := make([]string, len(t.keys))
	for i, key := range t.keys {
		parts[i] = fmt.Sprint(row[key])
	}
	return strings.Join(parts, "\x00")
}

// merge upserts rows by primary key: existing rows are replaced in place,
// new rows appended.
func (t *Table) merge(rows []core.Row) {
	for _, row := range rows {
		key := t.rowKey(row)
		if _, ok := t.rows[key]; !ok {
			t.order = append(t.order, key)
		}
		t.rows[key] = row
	}
}

// Set is a collection of tables addressed by name.
type Set struct {
	tables map[string]*Table
}

// NewSet creates an empty table set.
func NewSet() *Set {
	return &Set{tables: make(map[string]*Table)}
}

// Define declares a table and its primary key columns. Re-defining a table
// resets its contents.
func (s *Set) Define(name string, keys ...string) *Table {
	t := &Table{name: name, keys: keys, rows: make(map[string]core.Row)}
	s.tables[name] = t
	return t
}

// Table returns a defined table by name, or nil.
func (s *Set) Table(name string) *Table {
	return s.tables[name]
}

// Merge feeds a packet's rows into the table named by the packet.
func (s *Set) Merge(p core.Packet) error {
	t, ok := s.tables[p.Table]
	if !ok {
		return fmt.Errorf("memtable: table %q not defined", p.Table)
	}
	t.merge(p.Rows)
	return nil
}
