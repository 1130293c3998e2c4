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
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columnHeader = []string{"column_name", "column_type", "is_nullable", "column_default", "column_comment"}

func expectColumns(mock sqlmock.Sqlmock, table string, rows *sqlmock.Rows) {
	mock.ExpectQuery(columnsQuery).WithArgs(table).WillReturnRows(rows)
}

func expectComment(mock sqlmock.Sqlmock, table, comment string) {
	mock.ExpectQuery(tableCommentQuery).WithArgs(table).
		WillReturnRows(sqlmock.NewRows([]string{"table_comment"}).AddRow(comment))
}

func TestInspector_GetTableInfoWithConstraints(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	expectColumns(mock, "docs", sqlmock.NewRows(columnHeader).
		AddRow("id", "int(11)", "NO", nil, "").
		AddRow("body", "text", "YES", nil, "document text").
		AddRow("embedding", "VECTOR(3)", "YES", nil, ""))
	expectComment(mock, "docs", "documents")
	mock.ExpectQuery(primaryKeyQuery).WithArgs("docs").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("id"))
	mock.ExpectQuery(foreignKeysQuery).WithArgs("docs").
		WillReturnRows(sqlmock.NewRows([]string{"constraint_name", "column_name", "referenced_table_name", "referenced_column_name"}).
			AddRow("fk_author", "author_id", "authors", "id"))
	mock.ExpectQuery(indexesQuery).WithArgs("docs").
		WillReturnRows(sqlmock.NewRows([]string{"index_name", "column_name", "non_unique", "index_type"}).
			AddRow("PRIMARY", "id", 0, "BTREE").
			AddRow("ft_body", "body", 1, "FULLTEXT").
			AddRow("uk_id", "id", 0, "BTREE"))

	results, err := NewInspector(db).GetTableInfo(context.Background(), []string{"docs"}, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	info := results[0].Info
	assert.Equal(t, "docs", info.TableName)
	require.Len(t, info.Columns, 3)
	assert.False(t, info.Columns[0].Nullable)
	assert.Equal(t, "VECTOR(3)", info.Columns[2].Type)
	require.NotNil(t, info.Comment)
	assert.Equal(t, "documents", *info.Comment)

	require.NotNil(t, info.Constraints)
	assert.Equal(t, []string{"id"}, info.PrimaryKeys)
	require.Len(t, info.ForeignKeys, 1)
	assert.Equal(t, "authors", info.ForeignKeys[0].ReferredTable)
	assert.Equal(t, []string{"author_id"}, info.ForeignKeys[0].ConstrainedColumns)

	require.Len(t, info.Indexes, 2)
	assert.Equal(t, IndexInfo{Name: "ft_body", Columns: []string{"body"}, Unique: false, Type: IndexTypeFullText}, info.Indexes[0])
	assert.Equal(t, IndexInfo{Name: "uk_id", Columns: []string{"id"}, Unique: true}, info.Indexes[1])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspector_GetTableInfoWithoutConstraints(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	expectColumns(mock, "t", sqlmock.NewRows(columnHeader).AddRow("a", "varchar(10)", "YES", "x", ""))
	expectComment(mock, "t", "")

	results, err := NewInspector(db).GetTableInfo(context.Background(), []string{"t"}, false)
	require.NoError(t, err)
	require.Len(t, results, 1)

	data, err := json.Marshal(results[0])
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"table_name":"t","columns":[{"name":"a","type":"varchar(10)","nullable":true,"default":"x","comment":""}],"comment":null}`,
		string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspector_PerTableErrorsAreIsolated(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	expectColumns(mock, "missing", sqlmock.NewRows(columnHeader))
	expectColumns(mock, "broken", sqlmock.NewRows(columnHeader).AddRow("a", "int", "NO", nil, ""))
	mock.ExpectQuery(tableCommentQuery).WithArgs("broken").WillReturnError(errors.New("access denied"))
	expectColumns(mock, "ok", sqlmock.NewRows(columnHeader).AddRow("a", "int", "NO", nil, ""))
	expectComment(mock, "ok", "")

	results, err := NewInspector(db).GetTableInfo(context.Background(), []string{"missing", "broken", "ok"}, false)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.ErrorIs(t, results[0].Err, ErrTableNotFound)
	assert.Contains(t, results[1].Err.Error(), "access denied")
	assert.NoError(t, results[2].Err)

	data, err := json.Marshal(results[1])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Error getting table info:")

	byName := ResultsByName(results)
	assert.NotNil(t, byName["ok"].Info)
}

func TestInspector_AllTablesWhenEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery(tableNamesQuery).
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("a").AddRow("b"))
	for _, name := range []string{"a", "b"} {
		expectColumns(mock, name, sqlmock.NewRows(columnHeader).AddRow("id", "int", "NO", nil, ""))
		expectComment(mock, name, "")
	}

	results, err := NewInspector(db).GetTableInfo(context.Background(), nil, false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, "b", results[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableInfo_OpenFailure(t *testing.T) {
	_, err := GetTableInfo(context.Background(), func(ctx context.Context, uri string, opts Options) (*sqlx.DB, error) {
		return nil, errors.New("connection refused")
	}, "mysql+oceanbase://u@h:1/db", Options{}, nil, false)
	assert.ErrorContains(t, err, "connection refused")
}
