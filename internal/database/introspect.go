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
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	tableNamesQuery = `SELECT TABLE_NAME AS table_name
FROM information_schema.TABLES
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE'
ORDER BY TABLE_NAME`

	tableCommentQuery = `SELECT TABLE_COMMENT AS table_comment
FROM information_schema.TABLES
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`

	columnsQuery = `SELECT COLUMN_NAME AS column_name, COLUMN_TYPE AS column_type,
       IS_NULLABLE AS is_nullable, COLUMN_DEFAULT AS column_default,
       COLUMN_COMMENT AS column_comment
FROM information_schema.COLUMNS
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION`

	primaryKeyQuery = `SELECT COLUMN_NAME AS column_name
FROM information_schema.KEY_COLUMN_USAGE
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND CONSTRAINT_NAME = 'PRIMARY'
ORDER BY ORDINAL_POSITION`

	foreignKeysQuery = `SELECT CONSTRAINT_NAME AS constraint_name, COLUMN_NAME AS column_name,
       REFERENCED_TABLE_NAME AS referenced_table_name,
       REFERENCED_COLUMN_NAME AS referenced_column_name
FROM information_schema.KEY_COLUMN_USAGE
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND REFERENCED_TABLE_NAME IS NOT NULL
ORDER BY CONSTRAINT_NAME, ORDINAL_POSITION`

	indexesQuery = `SELECT INDEX_NAME AS index_name, COLUMN_NAME AS column_name,
       NON_UNIQUE AS non_unique, INDEX_TYPE AS index_type
FROM information_schema.STATISTICS
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
ORDER BY INDEX_NAME, SEQ_IN_INDEX`
)

// ErrTableNotFound is reported for a table without any columns
var ErrTableNotFound = errors.New("table does not exist")

type columnRow struct {
	Name     string         `db:"column_name"`
	Type     string         `db:"column_type"`
	Nullable string         `db:"is_nullable"`
	Default  sql.NullString `db:"column_default"`
	Comment  sql.NullString `db:"column_comment"`
}

type foreignKeyRow struct {
	Constraint       string `db:"constraint_name"`
	Column           string `db:"column_name"`
	ReferencedTable  string `db:"referenced_table_name"`
	ReferencedColumn string `db:"referenced_column_name"`
}

type indexRow struct {
	Name      string         `db:"index_name"`
	Column    sql.NullString `db:"column_name"`
	NonUnique int            `db:"non_unique"`
	Type      sql.NullString `db:"index_type"`
}

// Inspector reads table metadata from information_schema
type Inspector struct {
	db *sqlx.DB
}

// NewInspector creates an inspector over an open database
func NewInspector(db *sqlx.DB) *Inspector {
	return &Inspector{db: db}
}

// GetTableInfo introspects the given tables over a single connection. An
// empty list means every base table of the current database. Failures are
// recorded per table and never abort the batch; only failing to acquire the
// connection or list the tables is returned as an error.
func (i *Inspector) GetTableInfo(ctx context.Context, tables []string, includeConstraint bool) ([]TableResult, error) {
	startTime := time.Now()

	conn, err := i.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to acquire connection: %w", err)
	}
	defer conn.Close()

	if len(tables) == 0 {
		if err := conn.SelectContext(ctx, &tables, tableNamesQuery); err != nil {
			return nil, fmt.Errorf("failed to list tables: %w", err)
		}
	}

	results := make([]TableResult, 0, len(tables))
	failed := 0
	for _, name := range tables {
		info, err := inspectTable(ctx, conn, name, includeConstraint)
		if err != nil {
			failed++
		}
		results = append(results, TableResult{Name: name, Info: info, Err: err})
	}

	LogIntrospection(len(results), failed, time.Since(startTime))
	return results, nil
}

func inspectTable(ctx context.Context, conn *sqlx.Conn, name string, includeConstraint bool) (*TableInfo, error) {
	columns, err := tableColumns(ctx, conn, name)
	if err != nil {
		return nil, err
	}

	comment, err := tableComment(ctx, conn, name)
	if err != nil {
		return nil, err
	}

	info := &TableInfo{
		TableName: name,
		Columns:   columns,
		Comment:   comment,
	}
	if !includeConstraint {
		return info, nil
	}

	constraints := &Constraints{}
	if constraints.PrimaryKeys, err = primaryKeys(ctx, conn, name); err != nil {
		return nil, err
	}
	if constraints.ForeignKeys, err = foreignKeys(ctx, conn, name); err != nil {
		return nil, err
	}
	if constraints.Indexes, err = indexes(ctx, conn, name); err != nil {
		return nil, err
	}
	info.Constraints = constraints
	return info, nil
}

func tableColumns(ctx context.Context, conn *sqlx.Conn, name string) ([]ColumnInfo, error) {
	var rows []columnRow
	if err := conn.SelectContext(ctx, &rows, columnsQuery, name); err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	columns := make([]ColumnInfo, 0, len(rows))
	for _, r := range rows {
		col := ColumnInfo{
			Name:     r.Name,
			Type:     r.Type,
			Nullable: strings.EqualFold(r.Nullable, "YES"),
			Comment:  r.Comment.String,
		}
		if r.Default.Valid {
			def := r.Default.String
			col.Default = &def
		}
		columns = append(columns, col)
	}
	return columns, nil
}

func tableComment(ctx context.Context, conn *sqlx.Conn, name string) (*string, error) {
	var comment sql.NullString
	err := conn.GetContext(ctx, &comment, tableCommentQuery, name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read table comment: %w", err)
	}
	if !comment.Valid || comment.String == "" {
		return nil, nil
	}
	return &comment.String, nil
}

func primaryKeys(ctx context.Context, conn *sqlx.Conn, name string) ([]string, error) {
	keys := []string{}
	if err := conn.SelectContext(ctx, &keys, primaryKeyQuery, name); err != nil {
		return nil, fmt.Errorf("failed to read primary key: %w", err)
	}
	return keys, nil
}

func foreignKeys(ctx context.Context, conn *sqlx.Conn, name string) ([]ForeignKeyInfo, error) {
	var rows []foreignKeyRow
	if err := conn.SelectContext(ctx, &rows, foreignKeysQuery, name); err != nil {
		return nil, fmt.Errorf("failed to read foreign keys: %w", err)
	}

	fks := []ForeignKeyInfo{}
	position := make(map[string]int)
	for _, r := range rows {
		idx, ok := position[r.Constraint]
		if !ok {
			idx = len(fks)
			position[r.Constraint] = idx
			fks = append(fks, ForeignKeyInfo{ReferredTable: r.ReferencedTable})
		}
		fks[idx].ConstrainedColumns = append(fks[idx].ConstrainedColumns, r.Column)
		fks[idx].ReferredColumns = append(fks[idx].ReferredColumns, r.ReferencedColumn)
	}
	return fks, nil
}

func indexes(ctx context.Context, conn *sqlx.Conn, name string) ([]IndexInfo, error) {
	var rows []indexRow
	if err := conn.SelectContext(ctx, &rows, indexesQuery, name); err != nil {
		return nil, fmt.Errorf("failed to read indexes: %w", err)
	}

	idxs := []IndexInfo{}
	position := make(map[string]int)
	for _, r := range rows {
		// the primary key is reported through primary_keys
		if r.Name == "PRIMARY" {
			continue
		}
		idx, ok := position[r.Name]
		if !ok {
			idx = len(idxs)
			position[r.Name] = idx
			info := IndexInfo{Name: r.Name, Columns: []string{}, Unique: r.NonUnique == 0}
			switch t := strings.ToUpper(r.Type.String); t {
			case IndexTypeFullText, "SPATIAL":
				info.Type = t
			}
			idxs = append(idxs, info)
		}
		if r.Column.Valid && r.Column.String != "" {
			idxs[idx].Columns = append(idxs[idx].Columns, r.Column.String)
		}
	}
	return idxs, nil
}

// GetTableInfo opens the database for uri, introspects the tables and closes
// the database again
func GetTableInfo(ctx context.Context, open Opener, uri string, opts Options, tables []string, includeConstraint bool) ([]TableResult, error) {
	db, err := open(ctx, uri, opts)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return NewInspector(db).GetTableInfo(ctx, tables, includeConstraint)
}
