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

// VoyageProvider reranks with Voyage AI's rerank API
type VoyageProvider struct {
	client
}

type voyageRerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	Model     string   `json:"model"`
	TopK      int      `json:"top_k,omitempty"`
}

type voyageRerankResponse struct {
	Data []scoredIndex `json:"data"`
}

// Rerank scores documents against query
func (p *VoyageProvider) Rerank(ctx context.Context, query string, documents []string, topN int) ([]Result, error) {
	startTime := time.Now()

	var resp voyageRerankResponse
	err := p.post(ctx, voyageRerankRequest{
		Query:     query,
		Documents: documents,
		Model:     p.model,
		TopK:      topN,
	}, &resp)

	return p.finish(toResults(resp.Data), len(documents), topN, startTime, err)
}
