package core

import (
	"reflect"
	"sort"
)

// RowState is the change state of a tracked row.
type RowState int

const (
	// RowUnchanged means the row matches its last-read state.
	RowUnchanged RowState = iota
	// RowAdded means the row is new and has no persisted counterpart.
	RowAdded
	// RowModified means one or more values differ from the last-read state.
	RowModified
	// RowDeleted means the row is marked for removal.
	RowDeleted
)

// String returns the string representation of the row state.
func (s RowState) String() string {
	switch s {
	case RowUnchanged:
		return "unchanged"
	case RowAdded:
		return "added"
	case RowModified:
		return "modified"
	case RowDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// TrackedRow is a row with change tracking, used to derive insert, update,
// and delete commands. Original holds the last-read values and backs both
// modified-column detection and the optimistic lock filter.
type TrackedRow struct {
	// Table is the physical table the row belongs to.
	Table string

	// State is the row's change state.
	State RowState

	// Keys lists the primary key columns.
	Keys []string

	// Values holds the current column values.
	Values Row

	// Original holds the column values as last read from the database.
	// Empty for added rows.
	Original Row
}

// ModifiedColumns returns the columns whose current value differs from the
// last-read value, sorted for deterministic command text. Columns absent
// from Original count as modified. Values are compared deeply, so
// incomparable types like []byte are safe to track.
func (r *TrackedRow) ModifiedColumns() []string {
	var cols []string
	for name, value := range r.Values {
		orig, ok := r.Original[name]
		if !ok || !reflect.DeepEqual(orig, value) {
			cols = append(cols, name)
		}
	}
	sort.Strings(cols)
	return cols
}

// KeyFilter returns the predicate identifying the row by its primary key,
// using last-read key values when available.
func (r *TrackedRow) KeyFilter() Predicate {
	parts := make([]Predicate, 0, len(r.Keys))
	for _, key := range r.Keys {
		value, ok := r.Original[key]
		if !ok {
			value = r.Values[key]
		}
		parts = append(parts, Eq(key, value))
	}
	return And(parts...)
}

// LockFilter returns the optimistic lock predicate: every last-read value
// must still match. Falls back to KeyFilter when no original values exist.
func (r *TrackedRow) LockFilter() Predicate {
	if len(r.Original) == 0 {
		return r.KeyFilter()
	}
	cols := make([]string, 0, len(r.Original))
	for name := range r.Original {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	parts := make([]Predicate, 0, len(cols))
	for _, name := range cols {
		parts = append(parts, Eq(name, r.Original[name]))
	}
	return And(parts...)
}
