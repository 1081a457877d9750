package core

// Row is an objectified result row: column name to value.
type Row map[string]any

// Column describes one column of a result set. Order of columns defines the
// positional mapping to raw row values.
type Column struct {
	// Name is the column name as reported by the driver.
	Name string

	// Type is the driver-reported database type (e.g. "INTEGER", "TEXT").
	Type string

	// Nullable indicates whether the column allows NULL values.
	Nullable bool

	// Position is the ordinal position of the column in the set (0-based).
	Position int
}

// Table is one fully materialized result set.
type Table struct {
	// Name is the logical table name or alias the set belongs to.
	Name string

	// Meta holds the column descriptors in positional order.
	Meta []Column

	// Rows are the objectified rows in server-returned order.
	Rows []Row

	// Values holds positional row values. Only populated in raw mode.
	Values [][]any
}

// Packet is a bounded chunk of rows from one result set, delivered
// incrementally. Packet boundaries are an artifact of chunking, not
// semantics: rows within a packet preserve server-returned order.
type Packet struct {
	// Table is the logical table name or alias the rows belong to.
	Table string

	// Set is the zero-based index of the result set within the command.
	Set int

	// Meta holds the column descriptors of the active set. In raw mode it is
	// attached to every packet so each packet is self-describing; in
	// objectified mode it is only present on metadata-bearing packets.
	Meta []Column

	// Rows are the objectified rows. Empty in raw mode.
	Rows []Row

	// Values are the positional row values. Only populated in raw mode.
	Values [][]any
}

// Environment is an opaque caller context. It is passed through unchanged to
// the security provider and never inspected by the access layer.
type Environment any

// AccessMode identifies the operation a security condition guards.
type AccessMode int

const (
	// AccessRead guards select paths.
	AccessRead AccessMode = iota
	// AccessInsert guards row inserts. The built-in command derivation never
	// consults it (a row filter cannot match a row that does not exist yet);
	// it completes the mode set for providers and direct callers.
	AccessInsert
	// AccessUpdate guards row updates.
	AccessUpdate
	// AccessDelete guards row deletes.
	AccessDelete
)

// String returns the string representation of the access mode.
func (m AccessMode) String() string {
	switch m {
	case AccessRead:
		return "read"
	case AccessInsert:
		return "insert"
	case AccessUpdate:
		return "update"
	case AccessDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// SelectSpec describes one select against a single table. Immutable once
// submitted to the access layer.
type SelectSpec struct {
	// Table is the physical table name.
	Table string

	// Columns lists the columns to select. Empty means all columns.
	Columns []string

	// Filter restricts the selected rows. Nil means no restriction.
	Filter Predicate

	// Top caps the number of returned rows. Zero means no cap.
	Top int

	// Alias labels the result set. Empty falls back to Table.
	Alias string

	// Env is forwarded to the security provider.
	Env Environment
}

// Label returns the alias if set, the physical table name otherwise.
func (s SelectSpec) Label() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Table
}

// UpdateSpec describes an update of a single table.
type UpdateSpec struct {
	Table  string
	Values Row
	Filter Predicate
}

// DeleteSpec describes a delete against a single table.
type DeleteSpec struct {
	Table  string
	Filter Predicate
}

// ProcSpec describes a stored procedure call with named parameters.
type ProcSpec struct {
	Name   string
	Params map[string]any
}

// IsolationLevel is the symbolic transaction isolation level. Actual support
// and fallback behavior is the driver's responsibility.
type IsolationLevel int

const (
	// IsolationDefault uses the driver default.
	IsolationDefault IsolationLevel = iota
	// IsolationReadUncommitted allows dirty reads.
	IsolationReadUncommitted
	// IsolationReadCommitted prevents dirty reads.
	IsolationReadCommitted
	// IsolationRepeatableRead prevents non-repeatable reads.
	IsolationRepeatableRead
	// IsolationSnapshot reads from a consistent snapshot.
	IsolationSnapshot
	// IsolationSerializable provides full serializability.
	IsolationSerializable
)

// String returns the string representation of the isolation level.
func (l IsolationLevel) String() string {
	switch l {
	case IsolationReadUncommitted:
		return "readUncommitted"
	case IsolationReadCommitted:
		return "readCommitted"
	case IsolationRepeatableRead:
		return "repeatableRead"
	case IsolationSnapshot:
		return "snapshot"
	case IsolationSerializable:
		return "serializable"
	default:
		return "default"
	}
}

// DriverConfig holds configuration for opening a driver connection.
type DriverConfig struct {
	// Type specifies the driver type (e.g. "sqlite", "postgres", "duckdb").
	Type string

	// Path is the file path for file-based engines. ":memory:" selects an
	// in-memory database.
	Path string

	// Host is the hostname for network-based engines.
	Host string

	// Port is the port number for network-based engines.
	Port int

	// Database is the database name.
	Database string

	// Username for authentication.
	Username string

	// Password for authentication.
	Password string

	// Schema is the default schema to use.
	Schema string

	// Options contains additional driver-specific options.
	Options map[string]string
}
