/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockDB returns a sqlx handle backed by sqlmock that matches queries
// exactly
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

// typedRows builds rows with column type metadata ("name TYPE"), which the
// executor reads through ColumnTypes
func typedRows(columns ...string) *sqlmock.Rows {
	defs := make([]*sqlmock.Column, len(columns))
	for i, c := range columns {
		name, typ, _ := strings.Cut(c, " ")
		defs[i] = sqlmock.NewColumn(name).OfType(typ, "")
	}
	return sqlmock.NewRowsWithColumnDefinition(defs...)
}

func mockOpener(db *sqlx.DB) Opener {
	return func(ctx context.Context, uri string, opts Options) (*sqlx.DB, error) {
		return db, nil
	}
}

func TestValidateReadOnly(t *testing.T) {
	accepted := []string{
		"SELECT 1",
		"  show tables",
		"select * from t",
		"WITH x AS (SELECT 1) SELECT * FROM x",
		"\n\tSELECT\n1",
	}
	for _, stmt := range accepted {
		assert.NoError(t, ValidateReadOnly(stmt), stmt)
	}

	rejected := []string{
		"DELETE FROM t",
		"INSERT INTO t VALUES(1)",
		"UPDATE t SET a = 1",
		"DROP TABLE t",
		"SELECTED",
		"",
		"EXPLAIN SELECT 1",
		"SELECT",
		"show",
	}
	for _, stmt := range rejected {
		assert.ErrorIs(t, ValidateReadOnly(stmt), ErrNotReadOnly, stmt)
	}
}

func TestExecutor_Query(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	rows := typedRows("id INT", "name VARCHAR").
		AddRow([]byte("1"), []byte("alice")).
		AddRow([]byte("2"), nil)
	mock.ExpectQuery("SELECT id, name FROM users").WillReturnRows(rows)

	rs, err := NewExecutor(db, Options{}).Query(context.Background(), "SELECT id, name FROM users")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, rs.Columns)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, "alice", rs.Rows[0][1])
	assert.Nil(t, rs.Rows[1][1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_QueryEmptyResult(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SHOW TABLES").WillReturnRows(typedRows("Tables_in_test VARCHAR"))

	rs, err := NewExecutor(db, Options{Echo: true}).Query(context.Background(), "SHOW TABLES")
	require.NoError(t, err)
	assert.Equal(t, []string{"Tables_in_test"}, rs.Columns)
	assert.Empty(t, rs.Rows)
}

func TestExecutor_QueryRejectsWrites(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	_, err := NewExecutor(db, Options{}).Query(context.Background(), "DELETE FROM users")
	assert.ErrorIs(t, err, ErrNotReadOnly)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteSQL_ClosesOnError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT broken").WillReturnError(errors.New("syntax error"))
	mock.ExpectClose()

	_, err := ExecuteSQL(context.Background(), mockOpener(db), "mysql+oceanbase://u@h:1/db", Options{}, "SELECT broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteSQL_ClosesOnSuccess(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT 1").WillReturnRows(typedRows("1 BIGINT").AddRow(int64(1)))
	mock.ExpectClose()

	rs, err := ExecuteSQL(context.Background(), mockOpener(db), "mysql+oceanbase://u@h:1/db", Options{}, "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, [][]interface{}{{int64(1)}}, rs.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteSQL_RejectsBeforeOpening(t *testing.T) {
	opened := false
	open := func(ctx context.Context, uri string, opts Options) (*sqlx.DB, error) {
		opened = true
		return nil, errors.New("unexpected")
	}

	_, err := ExecuteSQL(context.Background(), open, "mysql+oceanbase://u@h:1/db", Options{}, "INSERT INTO t VALUES (1)")
	assert.ErrorIs(t, err, ErrNotReadOnly)
	assert.False(t, opened)
}
