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
	"context"
	"fmt"
	"sort"
	"strings"

	"oceanbase-mcp/internal/logging"
	"oceanbase-mcp/internal/rerank"
	"oceanbase-mcp/internal/resultset"
)

// Reranker scores documents against a query
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]rerank.Result, error)
}

// RerankHits reorders hits by rerank score and keeps at most topK. Any
// rerank failure is logged and the hits are returned unchanged.
func RerankHits(ctx context.Context, reranker Reranker, query string, hits []Hit, topK, topN int) []Hit {
	if reranker == nil || len(hits) == 0 {
		return hits
	}

	reranked, err := rerankHits(ctx, reranker, query, hits, topK, topN)
	if err != nil {
		logging.Warn("reranking failed, keeping search order", "error", err, "hits", len(hits))
		return hits
	}
	return reranked
}

func rerankHits(ctx context.Context, reranker Reranker, query string, hits []Hit, topK, topN int) ([]Hit, error) {
	docs := make([]string, len(hits))
	for i, hit := range hits {
		docs[i] = HitText(hit)
	}

	results, err := reranker.Rerank(ctx, query, docs, topN)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return hits, nil
	}

	reranked := make([]Hit, 0, len(results))
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(hits) {
			return nil, fmt.Errorf("rerank result index %d out of range", r.Index)
		}
		hit := make(Hit, len(hits[r.Index])+1)
		for k, v := range hits[r.Index] {
			hit[k] = v
		}
		hit[KeyRerankScore] = r.Score
		reranked = append(reranked, hit)
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return numericValue(reranked[i][KeyRerankScore]) > numericValue(reranked[j][KeyRerankScore])
	})
	if len(reranked) > topK {
		reranked = reranked[:topK]
	}
	return reranked, nil
}

// HitText joins the non-null values of a hit's _source (or of the hit
// itself when there is no _source) in key order
func HitText(hit Hit) string {
	doc := map[string]interface{}(hit)
	if src, ok := hit[KeySource].(map[string]interface{}); ok {
		doc = src
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if doc[k] == nil {
			continue
		}
		parts = append(parts, resultset.FormatValue(doc[k]))
	}
	return strings.Join(parts, " ")
}
