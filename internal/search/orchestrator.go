/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

// Package search implements multi-table hybrid vector and full-text search
// with optional reranking.
package search

import (
	"context"
	"fmt"
	"time"

	"oceanbase-mcp/internal/database"
	"oceanbase-mcp/internal/logging"
)

// DefaultTopK is the number of hits returned when top_k is not given
const DefaultTopK = 10

// RequestError is a failure caused by the request or the tables it names
// rather than by the server
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func invalid(format string, args ...interface{}) error {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}

// TableInspector reads table metadata
type TableInspector interface {
	GetTableInfo(ctx context.Context, tables []string, includeConstraint bool) ([]database.TableResult, error)
}

// Embedder turns text into an embedding vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Request is one hybrid search
type Request struct {
	Tables []string
	Query  string
	TopK   int

	// RerankTopN caps the rerank model's output. Zero means TopK.
	RerankTopN int

	Filter map[string]interface{}
}

// Orchestrator runs a hybrid search across tables. Reranker is optional
// for a single table and required for several.
type Orchestrator struct {
	Inspector TableInspector
	Backend   Backend
	Embedder  Embedder
	Reranker  Reranker
}

// Validate checks a request before any database or model call
func (o *Orchestrator) Validate(req Request) error {
	if len(req.Tables) == 0 {
		return invalid("table_names parameter is required")
	}
	if req.Query == "" {
		return invalid("query parameter is required")
	}
	if o.Embedder == nil {
		return invalid("embedding_model parameter is required")
	}
	if req.TopK <= 0 {
		return invalid("top_k must be a positive integer")
	}
	if len(req.Tables) > 1 && o.Reranker == nil {
		return invalid("rerank_model is required when multiple table names are specified")
	}
	return nil
}

// Search discovers searchable columns, embeds the query, searches every
// table, merges the hits and reranks them. A failure on any table aborts
// the whole search; a rerank failure does not.
func (o *Orchestrator) Search(ctx context.Context, req Request) ([]Hit, error) {
	if err := o.Validate(req); err != nil {
		return nil, err
	}
	startTime := time.Now()

	columns, err := o.searchColumns(ctx, req.Tables)
	if err != nil {
		return nil, err
	}

	vector, err := o.Embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, invalid("Failed to generate embeddings for the query: %v", err)
	}
	if len(vector) == 0 {
		return nil, invalid("Failed to generate embeddings for the query")
	}

	perTable := make([][]Hit, 0, len(req.Tables))
	for _, table := range req.Tables {
		body := BuildBody(columns[table], req.Query, vector, req.TopK, req.Filter)
		hits, err := o.Backend.Search(ctx, table, body)
		if err != nil {
			return nil, invalid("Error executing hybrid search on table '%s': %v", table, err)
		}
		perTable = append(perTable, hits)
	}

	hits := MergeHits(perTable, req.TopK)

	topN := req.RerankTopN
	if topN <= 0 {
		topN = req.TopK
	}
	hits = RerankHits(ctx, o.Reranker, req.Query, hits, req.TopK, topN)

	logging.Debug("hybrid search completed", "tables", len(req.Tables), "hits", len(hits),
		"reranked", o.Reranker != nil, "duration", time.Since(startTime).String())
	return hits, nil
}

// searchColumns classifies the columns of every table and rejects tables
// with nothing to search
func (o *Orchestrator) searchColumns(ctx context.Context, tables []string) (map[string]Columns, error) {
	results, err := o.Inspector.GetTableInfo(ctx, tables, true)
	if err != nil {
		return nil, err
	}
	byName := database.ResultsByName(results)

	columns := make(map[string]Columns, len(tables))
	for _, table := range tables {
		result, ok := byName[table]
		if !ok {
			return nil, invalid("Error getting table info for %s: no result", table)
		}
		if result.Err != nil {
			return nil, invalid("Error getting table info for %s: %v", table, result.Err)
		}

		cols := ClassifyColumns(result.Info)
		if !cols.Searchable() {
			return nil, invalid("Table '%s' does not have a vector index or full-text index. "+
				"Please ensure the table has at least one vector or full-text index.", table)
		}
		columns[table] = cols
	}
	return columns, nil
}
