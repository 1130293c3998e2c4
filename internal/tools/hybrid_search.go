/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package tools

import (
	"context"
	"strings"

	"oceanbase-mcp/internal/database"
	"oceanbase-mcp/internal/mcp"
	"oceanbase-mcp/internal/models"
	"oceanbase-mcp/internal/search"
)

// HybridSearchTool creates the hybrid_search tool
func HybridSearchTool(env *Env) Tool {
	return Tool{
		Definition: mcp.Tool{
			Name:        "hybrid_search",
			Description: "Run a hybrid vector and full-text search over one or more OceanBase tables. The query is embedded with the embedding model, matched against the first vector and full-text column of every table, merged by score and optionally reranked. A rerank model is required when more than one table is searched.",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"table_names": map[string]interface{}{
						"type":        "string",
						"description": "Comma separated names of the tables to search.",
					},
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The search text.",
					},
					"top_k": map[string]interface{}{
						"type":        "integer",
						"default":     search.DefaultTopK,
						"description": "Maximum number of results.",
					},
					"embedding_model": map[string]interface{}{
						"type":        "object",
						"description": "Embedding model config: {\"provider\": \"openai|voyage|ollama\", \"model\": \"...\"}.",
					},
					"rerank_model": map[string]interface{}{
						"type":        "object",
						"description": "Rerank model config: {\"provider\": \"voyage|cohere\", \"model\": \"...\", \"score_threshold\": 0, \"top_n\": 10}.",
					},
					"filter": map[string]interface{}{
						"type":        "string",
						"description": "JSON object merged into the boolean filter clause of every table's search.",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{search.FormatJSON, search.FormatMarkdown},
						"default":     search.FormatJSON,
						"description": "Output format of the results.",
					},
					"config_options": configOptionsSchema,
				},
				Required: []string{"table_names", "query", "embedding_model"},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (mcp.ToolResponse, error) {
			return hybridSearch(ctx, env, args)
		},
	}
}

func hybridSearch(ctx context.Context, env *Env, args map[string]interface{}) (mcp.ToolResponse, error) {
	if _, err := RequiredStringParam(args, "table_names", "table_names parameter is required"); err != nil {
		return mcp.ToolResponse{}, err
	}
	query, err := RequiredStringParam(args, "query", "query parameter is required")
	if err != nil {
		return mcp.ToolResponse{}, err
	}

	embeddingCfg, err := models.ParseConfig(args["embedding_model"])
	if err != nil {
		return mcp.ToolResponse{}, asValidationError(err, "")
	}
	if embeddingCfg == nil {
		return mcp.ToolResponse{}, NewValidationError("embedding_model parameter is required")
	}

	topK, err := OptionalIntParam(args, "top_k", search.DefaultTopK)
	if err != nil {
		return mcp.ToolResponse{}, err
	}

	filter, err := JSONObjectParam(args, "filter", "Invalid JSON format for filter parameter")
	if err != nil {
		return mcp.ToolResponse{}, err
	}

	tables := TableListParam(args, "table_names")
	rerankCfg, err := models.ParseConfig(args["rerank_model"])
	if err != nil {
		return mcp.ToolResponse{}, asValidationError(err, "")
	}
	if len(tables) > 1 && rerankCfg == nil {
		return mcp.ToolResponse{}, NewValidationError("rerank_model is required when multiple table names are specified")
	}

	format := strings.ToLower(OptionalStringParam(args, "format", search.FormatJSON))
	if err := search.CheckFormat(format); err != nil {
		return mcp.ToolResponse{}, asValidationError(err, format)
	}

	uri, opts, err := env.connection(args)
	if err != nil {
		return mcp.ToolResponse{}, err
	}

	factory := env.Models()
	embedder, err := factory.Embedder(embeddingCfg)
	if err != nil {
		return mcp.ToolResponse{}, asValidationError(err, "")
	}

	orchestrator := &search.Orchestrator{Embedder: embedder}
	req := search.Request{
		Tables: tables,
		Query:  query,
		TopK:   topK,
		Filter: filter,
	}
	if rerankCfg != nil {
		reranker, err := factory.Reranker(rerankCfg)
		if err != nil {
			return mcp.ToolResponse{}, asValidationError(err, "")
		}
		orchestrator.Reranker = reranker
		if rerankCfg.TopN != nil {
			req.RerankTopN = *rerankCfg.TopN
		}
	}

	// Validate needs no database, so run it before connecting
	if err := orchestrator.Validate(req); err != nil {
		return mcp.ToolResponse{}, asValidationError(err, format)
	}

	db, err := env.opener()(ctx, uri, opts)
	if err != nil {
		return mcp.ToolResponse{}, err
	}
	defer db.Close()

	orchestrator.Inspector = database.NewInspector(db)
	orchestrator.Backend = search.NewOceanBaseBackend(db)

	hits, err := orchestrator.Search(ctx, req)
	if err != nil {
		return mcp.ToolResponse{}, asValidationError(err, format)
	}

	out, err := search.FormatHits(hits, format)
	if err != nil {
		return mcp.ToolResponse{}, asValidationError(err, format)
	}
	return toResponse(out)
}
