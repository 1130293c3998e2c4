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
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"

	"oceanbase-mcp/internal/resultset"
)

// ErrNotReadOnly is returned for statements that do not start with a
// read-only keyword
var ErrNotReadOnly = errors.New("'sql' should start with 'SELECT|SHOW|WITH'")

var readOnlyPattern = regexp.MustCompile(`(?i)^\s*(SELECT|SHOW|WITH)\s+`)

// ValidateReadOnly rejects any statement that does not begin with SELECT,
// SHOW or WITH followed by whitespace, ignoring case and leading whitespace
func ValidateReadOnly(statement string) error {
	if !readOnlyPattern.MatchString(statement) {
		return ErrNotReadOnly
	}
	return nil
}

// Executor runs read-only statements on an open database
type Executor struct {
	db   *sqlx.DB
	echo bool
}

// NewExecutor creates an executor. opts.Echo logs every statement at info
// level.
func NewExecutor(db *sqlx.DB, opts Options) *Executor {
	return &Executor{db: db, echo: opts.Echo}
}

// Query validates and executes statement and collects every row
func (e *Executor) Query(ctx context.Context, statement string) (*resultset.ResultSet, error) {
	if err := ValidateReadOnly(statement); err != nil {
		return nil, err
	}

	startTime := time.Now()
	rs, err := e.query(ctx, statement)
	rowCount := 0
	if rs != nil {
		rowCount = len(rs.Rows)
	}
	LogQuery(statement, time.Since(startTime), rowCount, e.echo, err)
	return rs, err
}

func (e *Executor) query(ctx context.Context, statement string) (*resultset.ResultSet, error) {
	rows, err := e.db.QueryxContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	rs := &resultset.ResultSet{
		Columns: make([]string, len(colTypes)),
		Rows:    [][]interface{}{},
	}
	for i, ct := range colTypes {
		rs.Columns[i] = ct.Name()
	}

	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			values[i] = resultset.Normalize(v, colTypes[i].DatabaseTypeName())
		}
		rs.Rows = append(rs.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return rs, nil
}

// ExecuteSQL opens the database for uri, runs one read-only statement and
// closes the database on every path
func ExecuteSQL(ctx context.Context, open Opener, uri string, opts Options, statement string) (*resultset.ResultSet, error) {
	if err := ValidateReadOnly(statement); err != nil {
		return nil, err
	}

	db, err := open(ctx, uri, opts)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return NewExecutor(db, opts).Query(ctx, statement)
}
