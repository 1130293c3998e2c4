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
	"encoding/json"
)

// TableInfo contains information about a database table
type TableInfo struct {
	TableName string       `json:"table_name"`
	Columns   []ColumnInfo `json:"columns"`
	Comment   *string      `json:"comment"`

	// Constraints is only populated when constraints were requested
	*Constraints
}

// Constraints holds the key and index metadata of a table
type Constraints struct {
	PrimaryKeys []string         `json:"primary_keys"`
	ForeignKeys []ForeignKeyInfo `json:"foreign_keys"`
	Indexes     []IndexInfo      `json:"indexes"`
}

// ColumnInfo contains information about a database column
type ColumnInfo struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Nullable bool    `json:"nullable"`
	Default  *string `json:"default"`
	Comment  string  `json:"comment"`
}

// ForeignKeyInfo describes one foreign key constraint
type ForeignKeyInfo struct {
	ReferredTable      string   `json:"referred_table"`
	ReferredColumns    []string `json:"referred_columns"`
	ConstrainedColumns []string `json:"constrained_columns"`
}

// IndexInfo describes one secondary index. Type is set for FULLTEXT and
// SPATIAL indexes only.
type IndexInfo struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique"`
	Type    string   `json:"type,omitempty"`
}

// IndexTypeFullText is the index type reported for full-text indexes
const IndexTypeFullText = "FULLTEXT"

// TableResult is the outcome of introspecting one table. Exactly one of
// Info and Err is set.
type TableResult struct {
	Name string
	Info *TableInfo
	Err  error
}

// MarshalJSON renders a failed table as its error string
func (r TableResult) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal("Error getting table info: " + r.Err.Error())
	}
	return json.Marshal(r.Info)
}

// ResultsByName indexes introspection results by table name
func ResultsByName(results []TableResult) map[string]TableResult {
	byName := make(map[string]TableResult, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}
	return byName
}
