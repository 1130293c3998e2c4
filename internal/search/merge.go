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
	"sort"
)

// MergeHits concatenates per-table hits, orders them by _score (highest
// first) when the first hit carries one, and keeps at most topK
func MergeHits(perTable [][]Hit, topK int) []Hit {
	merged := []Hit{}
	for _, hits := range perTable {
		merged = append(merged, hits...)
	}

	if len(merged) > 0 {
		if _, scored := merged[0][KeyScore]; scored {
			sort.SliceStable(merged, func(i, j int) bool {
				return numericValue(merged[i][KeyScore]) > numericValue(merged[j][KeyScore])
			})
		}
	}

	if topK >= 0 && len(merged) > topK {
		merged = merged[:topK]
	}
	return merged
}

// numericValue returns v as a float64, or 0 when it is not a number
func numericValue(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
