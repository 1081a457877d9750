package driver

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdal/pkg/core"
)

func newMockBase(t *testing.T) (*BaseSQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &BaseSQL{DB: db, D: StandardDialect("test")}, mock
}

func TestBaseSQL_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQL{D: StandardDialect("test")}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			assert.NoError(t, base.Close())
			assert.False(t, base.IsOpen())
		})
	}
}

func TestBaseSQL_CommandBuilders(t *testing.T) {
	base := &BaseSQL{D: StandardDialect("test")}

	tests := []struct {
		name      string
		build     func() (string, error)
		want      string
		expectErr bool
		errMsg    string
	}{
		{
			name: "select all",
			build: func() (string, error) {
				return base.SelectCommand(core.SelectSpec{Table: "users"})
			},
			want: `SELECT * FROM "users"`,
		},
		{
			name: "select with columns filter and top",
			build: func() (string, error) {
				return base.SelectCommand(core.SelectSpec{
					Table:   "users",
					Columns: []string{"id", "name"},
					Filter:  core.Eq("role", "admin"),
					Top:     10,
				})
			},
			want: `SELECT "id", "name" FROM "users" WHERE "role" = 'admin' LIMIT 10`,
		},
		{
			name: "select requires table",
			build: func() (string, error) {
				return base.SelectCommand(core.SelectSpec{})
			},
			expectErr: true,
			errMsg:    "table name required",
		},
		{
			name: "count",
			build: func() (string, error) {
				return base.SelectCountCommand(core.SelectSpec{Table: "users", Filter: core.Eq("id", 1)})
			},
			want: `SELECT COUNT(*) AS cnt FROM "users" WHERE "id" = 1`,
		},
		{
			name: "insert with sorted columns",
			build: func() (string, error) {
				return base.InsertCommand("users", core.Row{"name": "ada", "id": int64(1), "active": true})
			},
			want: `INSERT INTO "users" ("active", "id", "name") VALUES (TRUE, 1, 'ada')`,
		},
		{
			name: "insert requires values",
			build: func() (string, error) {
				return base.InsertCommand("users", nil)
			},
			expectErr: true,
			errMsg:    "no values",
		},
		{
			name: "update with sorted assignments",
			build: func() (string, error) {
				return base.UpdateCommand(core.UpdateSpec{
					Table:  "users",
					Values: core.Row{"role": "admin", "name": "ada"},
					Filter: core.Eq("id", 1),
				})
			},
			want: `UPDATE "users" SET "name" = 'ada', "role" = 'admin' WHERE "id" = 1`,
		},
		{
			name: "delete without filter",
			build: func() (string, error) {
				return base.DeleteCommand(core.DeleteSpec{Table: "users"})
			},
			want: `DELETE FROM "users"`,
		},
		{
			name: "procedure with named params",
			build: func() (string, error) {
				return base.ProcCommand(core.ProcSpec{
					Name:   "rebuild_index",
					Params: map[string]any{"table": "users", "full": true},
				})
			},
			want: `CALL "rebuild_index"("full" => TRUE, "table" => 'users')`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := tt.build()
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
		})
	}
}

func TestBaseSQL_ProcCommand_UnsupportedDialect(t *testing.T) {
	d := StandardDialect("sqlite")
	d.SupportsProcedures = false
	base := &BaseSQL{D: d}

	_, err := base.ProcCommand(core.ProcSpec{Name: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support stored procedures")
}

func TestBaseSQL_QueryBatch(t *testing.T) {
	base, mock := newMockBase(t)

	first := sqlmock.NewRows([]string{"id", "name"}).
		AddRow(int64(1), "ada").
		AddRow(int64(2), "grace")
	second := sqlmock.NewRows([]string{"cnt"}).AddRow(int64(2))
	mock.ExpectQuery("SELECT (.+) FROM users").WillReturnRows(first, second)

	tables, err := base.QueryBatch(context.Background(), "SELECT * FROM users; SELECT COUNT(*) FROM users", false)
	require.NoError(t, err)
	require.Len(t, tables, 2, "one table per result set")

	require.Len(t, tables[0].Meta, 2)
	assert.Equal(t, "id", tables[0].Meta[0].Name)
	assert.Equal(t, "name", tables[0].Meta[1].Name)
	assert.Equal(t, []core.Row{
		{"id": int64(1), "name": "ada"},
		{"id": int64(2), "name": "grace"},
	}, tables[0].Rows)

	assert.Equal(t, []core.Row{{"cnt": int64(2)}}, tables[1].Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQL_QueryBatch_Raw(t *testing.T) {
	base, mock := newMockBase(t)

	rows := sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "ada")
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	tables, err := base.QueryBatch(context.Background(), "SELECT * FROM users", true)
	require.NoError(t, err)
	require.Len(t, tables, 1)

	assert.Empty(t, tables[0].Rows, "raw mode carries positional values only")
	assert.Equal(t, [][]any{{int64(1), "ada"}}, tables[0].Values)
}

func TestBaseSQL_QueryBatch_NotConnected(t *testing.T) {
	base := &BaseSQL{D: StandardDialect("test")}

	_, err := base.QueryBatch(context.Background(), "SELECT 1", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")
}

func TestBaseSQL_QueryPackets_Chunking(t *testing.T) {
	base, mock := newMockBase(t)

	rows := sqlmock.NewRows([]string{"id"})
	for i := 1; i <= 5; i++ {
		rows.AddRow(int64(i))
	}
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	var metas, chunks int
	var rowCounts []int
	err := base.QueryPackets(context.Background(), "SELECT id FROM users", false, 2, func(n Notification) error {
		if n.IsMeta() {
			metas++
			return nil
		}
		chunks++
		rowCounts = append(rowCounts, len(n.Rows))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, metas)
	assert.Equal(t, 3, chunks, "five rows in chunks of two")
	assert.Equal(t, []int{2, 2, 1}, rowCounts)
}

func TestBaseSQL_QueryPackets_ZeroRowSet(t *testing.T) {
	base, mock := newMockBase(t)

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	var notifications []Notification
	err := base.QueryPackets(context.Background(), "SELECT id FROM users WHERE 1=0", false, 10, func(n Notification) error {
		notifications = append(notifications, n)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, notifications, 1, "metadata marker only, no data chunks")
	assert.True(t, notifications[0].IsMeta())
}

func TestBaseSQL_QueryLines(t *testing.T) {
	base, mock := newMockBase(t)

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2)).AddRow(int64(3))
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	var dataChunks int
	err := base.QueryLines(context.Background(), "SELECT id FROM users", false, func(n Notification) error {
		if !n.IsMeta() {
			dataChunks++
			assert.Len(t, n.Rows, 1)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, dataChunks, "one chunk per row")
}

func TestBaseSQL_QueryPackets_CallbackErrorAborts(t *testing.T) {
	base, mock := newMockBase(t)

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(1)).AddRow(int64(2))
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	calls := 0
	err := base.QueryLines(context.Background(), "SELECT id FROM users", false, func(n Notification) error {
		calls++
		if !n.IsMeta() {
			return assert.AnError
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls, "meta plus the first data chunk")
}

func TestBaseSQL_UpdateBatch(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		expectErr bool
		errMsg    string
		want      int64
	}{
		{
			name:      "update without connection",
			setupDB:   false,
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "update success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 3))
			},
			want: 3,
		},
		{
			name:    "update failure",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE users").WillReturnError(assert.AnError)
			},
			expectErr: true,
			errMsg:    "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQL{D: StandardDialect("test")}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				defer func() { _ = db.Close() }()

				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
				base.DB = db
			}

			n, err := base.UpdateBatch(context.Background(), "UPDATE users SET role = 'admin'")
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestBaseSQL_Transactions(t *testing.T) {
	base, mock := newMockBase(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	require.NoError(t, base.Begin(ctx, core.IsolationReadCommitted))

	// Statements inside the transaction run on the transaction handle.
	n, err := base.UpdateBatch(ctx, "UPDATE users SET role = 'admin' WHERE id = 1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, base.Commit(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQL_Begin_AlreadyActive(t *testing.T) {
	base, mock := newMockBase(t)
	mock.ExpectBegin()

	ctx := context.Background()
	require.NoError(t, base.Begin(ctx, core.IsolationDefault))

	err := base.Begin(ctx, core.IsolationDefault)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction already active")
}

func TestBaseSQL_Rollback(t *testing.T) {
	base, mock := newMockBase(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	ctx := context.Background()
	require.NoError(t, base.Begin(ctx, core.IsolationDefault))
	require.NoError(t, base.Rollback(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQL_CommitWithoutTransaction(t *testing.T) {
	base, _ := newMockBase(t)

	assert.Error(t, base.Commit(context.Background()))
	assert.Error(t, base.Rollback(context.Background()))
}

func TestBaseSQL_TableColumns(t *testing.T) {
	base, mock := newMockBase(t)

	rows := sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
		AddRow("id", "integer", "NO", 1).
		AddRow("name", "text", "YES", 2)
	mock.ExpectQuery("information_schema.columns").WillReturnRows(rows)

	cols, err := base.TableColumns(context.Background(), "users")
	require.NoError(t, err)

	assert.Equal(t, []core.Column{
		{Name: "id", Type: "integer", Nullable: false, Position: 0},
		{Name: "name", Type: "text", Nullable: true, Position: 1},
	}, cols)
}

func TestBaseSQL_TableColumns_NotFound(t *testing.T) {
	base, mock := newMockBase(t)

	mock.ExpectQuery("information_schema.columns").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}))

	_, err := base.TableColumns(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestBaseSQL_AppendCommands(t *testing.T) {
	base := &BaseSQL{D: StandardDialect("test")}

	assert.Equal(t, "SELECT 1;\nSELECT 2", base.AppendCommands([]string{"SELECT 1", "SELECT 2"}))
	assert.Equal(t, "SELECT 1", base.AppendCommands([]string{"SELECT 1"}))
	assert.Equal(t, "", base.AppendCommands(nil))
}
