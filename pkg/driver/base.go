package driver

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapdal/pkg/core"
)

// BaseSQL provides a database/sql-backed implementation of the Driver
// contract. Embed it in concrete drivers to get standard command building,
// batch and streaming execution, and transaction handling; concrete drivers
// supply Open (DSN construction) and may override any builder whose dialect
// deviates from the ANSI shape.
type BaseSQL struct {
	DB     *sql.DB
	Cfg    core.DriverConfig
	Logger *slog.Logger
	D      Dialect

	tx *sql.Tx
}

// OpenDB opens and pings a database/sql connection for the given registered
// sql driver name and DSN. Concrete drivers call it from Open.
func (b *BaseSQL) OpenDB(ctx context.Context, sqlDriver, dsn string) error {
	if b.DB != nil {
		return fmt.Errorf("%s connection already open", b.D.Name)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", b.D.Name, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s: %w", b.D.Name, err)
	}

	b.DB = db
	return nil
}

// Close closes the database connection.
func (b *BaseSQL) Close() error {
	if b.DB == nil {
		return nil
	}
	if b.Logger != nil {
		b.Logger.Debug("closing database connection", slog.String("dialect", b.D.Name))
	}
	if b.tx != nil {
		_ = b.tx.Rollback()
		b.tx = nil
	}
	err := b.DB.Close()
	b.DB = nil
	return err
}

// IsOpen reports whether the database connection is established.
func (b *BaseSQL) IsOpen() bool {
	return b.DB != nil
}

// Formatter returns the dialect formatter.
func (b *BaseSQL) Formatter() core.Formatter {
	return formatter{d: b.D}
}

// DialectName returns the SQL dialect name.
func (b *BaseSQL) DialectName() string {
	return b.D.Name
}

// querier abstracts over *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (b *BaseSQL) q() querier {
	if b.tx != nil {
		return b.tx
	}
	return b.DB
}

// SelectCommand builds a select command for the specification.
func (b *BaseSQL) SelectCommand(spec core.SelectSpec) (string, error) {
	if spec.Table == "" {
		return "", fmt.Errorf("select command: table name required")
	}
	f := b.Formatter()

	cols := "*"
	if len(spec.Columns) > 0 {
		quoted := make([]string, len(spec.Columns))
		for i, c := range spec.Columns {
			quoted[i] = f.Ident(c)
		}
		cols = strings.Join(quoted, ", ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	sb.WriteString(f.Ident(spec.Table))
	if spec.Filter != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(spec.Filter.Render(f))
	}
	if spec.Top > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(spec.Top))
	}
	return sb.String(), nil
}

// SelectCountCommand builds a row-count command for the specification.
func (b *BaseSQL) SelectCountCommand(spec core.SelectSpec) (string, error) {
	if spec.Table == "" {
		return "", fmt.Errorf("count command: table name required")
	}
	f := b.Formatter()

	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) AS cnt FROM ")
	sb.WriteString(f.Ident(spec.Table))
	if spec.Filter != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(spec.Filter.Render(f))
	}
	return sb.String(), nil
}

// InsertCommand builds a single-row insert. Columns are emitted in sorted
// order for deterministic command text.
func (b *BaseSQL) InsertCommand(table string, row core.Row) (string, error) {
	if table == "" {
		return "", fmt.Errorf("insert command: table name required")
	}
	if len(row) == 0 {
		return "", fmt.Errorf("insert command: no values for table %q", table)
	}
	f := b.Formatter()

	cols := make([]string, 0, len(row))
	for name := range row {
		cols = append(cols, name)
	}
	sort.Strings(cols)

	names := make([]string, len(cols))
	values := make([]string, len(cols))
	for i, name := range cols {
		names[i] = f.Ident(name)
		values[i] = f.Literal(row[name])
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		f.Ident(table), strings.Join(names, ", "), strings.Join(values, ", ")), nil
}

// UpdateCommand builds an update restricted by the spec's filter.
func (b *BaseSQL) UpdateCommand(spec core.UpdateSpec) (string, error) {
	if spec.Table == "" {
		return "", fmt.Errorf("update command: table name required")
	}
	if len(spec.Values) == 0 {
		return "", fmt.Errorf("update command: no values for table %q", spec.Table)
	}
	f := b.Formatter()

	cols := make([]string, 0, len(spec.Values))
	for name := range spec.Values {
		cols = append(cols, name)
	}
	sort.Strings(cols)

	assignments := make([]string, len(cols))
	for i, name := range cols {
		assignments[i] = f.Ident(name) + " = " + f.Literal(spec.Values[name])
	}

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(f.Ident(spec.Table))
	sb.WriteString(" SET ")
	sb.WriteString(strings.Join(assignments, ", "))
	if spec.Filter != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(spec.Filter.Render(f))
	}
	return sb.String(), nil
}

// DeleteCommand builds a delete restricted by the spec's filter.
func (b *BaseSQL) DeleteCommand(spec core.DeleteSpec) (string, error) {
	if spec.Table == "" {
		return "", fmt.Errorf("delete command: table name required")
	}
	f := b.Formatter()

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(f.Ident(spec.Table))
	if spec.Filter != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(spec.Filter.Render(f))
	}
	return sb.String(), nil
}

// ProcCommand builds a stored procedure call with named parameters, sorted
// for deterministic text.
func (b *BaseSQL) ProcCommand(spec core.ProcSpec) (string, error) {
	if !b.D.SupportsProcedures {
		return "", fmt.Errorf("dialect %s does not support stored procedures", b.D.Name)
	}
	if spec.Name == "" {
		return "", fmt.Errorf("procedure command: name required")
	}
	f := b.Formatter()

	names := make([]string, 0, len(spec.Params))
	for name := range spec.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]string, len(names))
	for i, name := range names {
		args[i] = f.Ident(name) + " => " + f.Literal(spec.Params[name])
	}

	return fmt.Sprintf("%s %s(%s)", b.D.ProcKeyword, f.Ident(spec.Name), strings.Join(args, ", ")), nil
}

// AppendCommands concatenates command texts into one multi-statement command.
func (b *BaseSQL) AppendCommands(cmds []string) string {
	return strings.Join(cmds, ";\n")
}

// QueryBatch executes a command and materializes every result set.
func (b *BaseSQL) QueryBatch(ctx context.Context, cmd string, raw bool) ([]core.Table, error) {
	var tables []core.Table
	err := b.streamSets(ctx, cmd, raw, 0, func(n Notification) error {
		if n.IsMeta() {
			tables = append(tables, core.Table{Meta: n.Meta})
			return nil
		}
		t := &tables[len(tables)-1]
		t.Rows = append(t.Rows, n.Rows...)
		t.Values = append(t.Values, n.Values...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// QueryLines executes a command and streams one metadata marker per result
// set followed by one single-row chunk per row.
func (b *BaseSQL) QueryLines(ctx context.Context, cmd string, raw bool, fn NotifyFunc) error {
	return b.streamSets(ctx, cmd, raw, 1, fn)
}

// QueryPackets executes a command and streams one metadata marker per result
// set followed by chunks of at most packetSize rows. packetSize <= 0 means
// one chunk per set.
func (b *BaseSQL) QueryPackets(ctx context.Context, cmd string, raw bool, packetSize int, fn NotifyFunc) error {
	return b.streamSets(ctx, cmd, raw, packetSize, fn)
}

// streamSets is the shared result iterator behind the query methods. It
// walks every result set of the command, emits a metadata marker per set,
// then chunked data notifications. A set with zero rows emits its marker
// and no chunks.
func (b *BaseSQL) streamSets(ctx context.Context, cmd string, raw bool, packetSize int, fn NotifyFunc) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	if b.Logger != nil {
		b.Logger.Debug("executing query", slog.String("dialect", b.D.Name), slog.Int("packet_size", packetSize))
	}

	//nolint:rowserrcheck // rows.Err() is checked per result set below
	rows, err := b.q().QueryContext(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for set := 0; ; set++ {
		cols, err := readColumns(rows)
		if err != nil {
			return err
		}
		if err := fn(Notification{Set: set, Meta: cols}); err != nil {
			return err
		}

		var chunkRows []core.Row
		var chunkValues [][]any

		flush := func() error {
			if len(chunkRows) == 0 && len(chunkValues) == 0 {
				return nil
			}
			n := Notification{Set: set, Rows: chunkRows, Values: chunkValues}
			chunkRows, chunkValues = nil, nil
			return fn(n)
		}

		for rows.Next() {
			values, err := scanRow(rows, len(cols))
			if err != nil {
				return err
			}
			if raw {
				chunkValues = append(chunkValues, values)
			} else {
				chunkRows = append(chunkRows, objectify(cols, values))
			}
			if packetSize > 0 && len(chunkRows)+len(chunkValues) >= packetSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating result set %d: %w", set, err)
		}
		if err := flush(); err != nil {
			return err
		}

		if !rows.NextResultSet() {
			if err := rows.Err(); err != nil {
				return fmt.Errorf("error advancing result set: %w", err)
			}
			return nil
		}
	}
}

// UpdateBatch executes a non-query command and returns the affected row count.
func (b *BaseSQL) UpdateBatch(ctx context.Context, cmd string) (int64, error) {
	if b.DB == nil {
		return 0, fmt.Errorf("database connection not established")
	}

	res, err := b.q().ExecContext(ctx, cmd)
	if err != nil {
		return 0, fmt.Errorf("failed to execute SQL: %w", err)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected row count: %w", err)
	}
	return count, nil
}

// Begin starts a transaction at the given isolation level.
func (b *BaseSQL) Begin(ctx context.Context, level core.IsolationLevel) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	if b.tx != nil {
		return fmt.Errorf("transaction already active")
	}

	tx, err := b.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sqlIsolation(level)})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	b.tx = tx
	return nil
}

// Commit commits the active transaction.
func (b *BaseSQL) Commit(_ context.Context) error {
	if b.tx == nil {
		return fmt.Errorf("no active transaction")
	}
	err := b.tx.Commit()
	b.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the active transaction.
func (b *BaseSQL) Rollback(_ context.Context) error {
	if b.tx == nil {
		return fmt.Errorf("no active transaction")
	}
	err := b.tx.Rollback()
	b.tx = nil
	if err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// TableColumns probes column metadata via information_schema. Dialects
// without information_schema override this on the concrete driver.
func (b *BaseSQL) TableColumns(ctx context.Context, table string) ([]core.Column, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	f := b.Formatter()

	schema := b.Cfg.Schema
	tableName := table
	if parts := strings.Split(table, "."); len(parts) == 2 {
		schema = parts[0]
		tableName = parts[1]
	}
	if schema == "" {
		schema = b.D.DefaultSchema
	}

	query := fmt.Sprintf(`
		SELECT
			column_name,
			data_type,
			is_nullable,
			ordinal_position
		FROM information_schema.columns
		WHERE table_schema = %s AND table_name = %s
		ORDER BY ordinal_position
	`, f.Literal(schema), f.Literal(tableName))

	rows, err := b.q().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var col core.Column
		var nullable string
		var position int
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		col.Position = position - 1
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return columns, nil
}

// readColumns extracts column descriptors from the active result set.
func readColumns(rows *sql.Rows) ([]core.Column, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column metadata: %w", err)
	}
	cols := make([]core.Column, len(types))
	for i, ct := range types {
		nullable, _ := ct.Nullable()
		cols[i] = core.Column{
			Name:     ct.Name(),
			Type:     ct.DatabaseTypeName(),
			Nullable: nullable,
			Position: i,
		}
	}
	return cols, nil
}

// scanRow scans the current row into positional values.
func scanRow(rows *sql.Rows, n int) ([]any, error) {
	values := make([]any, n)
	targets := make([]any, n)
	for i := range values {
		targets[i] = &values[i]
	}
	if err := rows.Scan(targets...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	return values, nil
}

// objectify maps positional values to an objectified row. Byte slices are
// normalized to strings so drivers that report text as []byte compare
// cleanly.
func objectify(cols []core.Column, values []any) core.Row {
	row := make(core.Row, len(cols))
	for i, col := range cols {
		v := values[i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		row[col.Name] = v
	}
	return row
}

// sqlIsolation maps the symbolic isolation level to database/sql.
func sqlIsolation(level core.IsolationLevel) sql.IsolationLevel {
	switch level {
	case core.IsolationReadUncommitted:
		return sql.LevelReadUncommitted
	case core.IsolationReadCommitted:
		return sql.LevelReadCommitted
	case core.IsolationRepeatableRead:
		return sql.LevelRepeatableRead
	case core.IsolationSnapshot:
		return sql.LevelSnapshot
	case core.IsolationSerializable:
		return sql.LevelSerializable
	default:
		return sql.LevelDefault
	}
}
