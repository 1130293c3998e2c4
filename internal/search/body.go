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

// BuildBody builds the DBMS_HYBRID_SEARCH request for one table. The first
// vector column gets a knn clause, the first full-text column a match
// clause, and a non-empty filter is merged into the query's bool filter.
func BuildBody(cols Columns, query string, queryVector []float64, topK int, filter map[string]interface{}) map[string]interface{} {
	body := map[string]interface{}{
		"size": topK,
	}

	if len(cols.Vector) > 0 {
		body["knn"] = map[string]interface{}{
			"field":        cols.Vector[0],
			"k":            topK,
			"query_vector": queryVector,
		}
	}

	if len(cols.FullText) > 0 {
		body["query"] = map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"match": map[string]interface{}{
							cols.FullText[0]: map[string]interface{}{"query": query},
						},
					},
				},
			},
		}
	}

	if len(filter) > 0 {
		mergeFilter(body, filter)
	}

	return body
}

// mergeFilter sets query.bool.filter, creating the query and bool objects
// when absent
func mergeFilter(body map[string]interface{}, filter map[string]interface{}) {
	q, ok := body["query"].(map[string]interface{})
	if !ok {
		q = map[string]interface{}{}
		body["query"] = q
	}

	b, ok := q["bool"].(map[string]interface{})
	if !ok {
		b = map[string]interface{}{}
		q["bool"] = b
	}

	b["filter"] = filter
}
