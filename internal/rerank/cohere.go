/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package rerank

import (
	"context"
	"time"
)

// CohereProvider reranks with Cohere's rerank API or any compatible endpoint
type CohereProvider struct {
	client
}

type cohereRerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

type cohereRerankResponse struct {
	Results []scoredIndex `json:"results"`
}

// Rerank scores documents against query
func (p *CohereProvider) Rerank(ctx context.Context, query string, documents []string, topN int) ([]Result, error) {
	startTime := time.Now()

	var resp cohereRerankResponse
	err := p.post(ctx, cohereRerankRequest{
		Model:     p.model,
		Query:     query,
		Documents: documents,
		TopN:      topN,
	}, &resp)

	return p.finish(toResults(resp.Results), len(documents), topN, startTime, err)
}
