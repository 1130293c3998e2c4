/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package search

import (
	"strings"

	"oceanbase-mcp/internal/database"
)

// Columns lists the searchable columns of one table
type Columns struct {
	Vector   []string
	FullText []string
}

// Searchable reports whether the table has a vector or full-text column
func (c Columns) Searchable() bool {
	return len(c.Vector) > 0 || len(c.FullText) > 0
}

// ClassifyColumns finds vector columns (declared type mentions VECTOR or
// EMBEDDING) and columns covered by a FULLTEXT index
func ClassifyColumns(info *database.TableInfo) Columns {
	var cols Columns
	if info == nil {
		return cols
	}

	for _, col := range info.Columns {
		if isVectorType(col.Type) {
			cols.Vector = append(cols.Vector, col.Name)
		}
	}

	if info.Constraints != nil {
		for _, idx := range info.Indexes {
			if strings.EqualFold(idx.Type, database.IndexTypeFullText) {
				cols.FullText = append(cols.FullText, idx.Columns...)
			}
		}
	}

	return cols
}

func isVectorType(dataType string) bool {
	upper := strings.ToUpper(dataType)
	return strings.Contains(upper, "VECTOR") || strings.Contains(upper, "EMBEDDING")
}
