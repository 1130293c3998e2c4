/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package prompts

import (
	"fmt"

	"oceanbase-mcp/internal/mcp"
)

// HybridSearch creates a prompt that walks through a hybrid_search call
func HybridSearch() Prompt {
	return Prompt{
		Definition: mcp.Prompt{
			Name:        "hybrid-search",
			Description: "Guide to find searchable tables and run a combined vector and full-text search with optional reranking.",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "query_text",
					Description: "The search query to execute",
					Required:    true,
				},
				{
					Name:        "tables",
					Description: "Comma separated tables to search (discovered when omitted)",
				},
			},
		},
		Handler: func(args map[string]string) mcp.PromptResult {
			queryText := argOr(args, "query_text", "[your search query]")
			tables := argOr(args, "tables", "[tables with VECTOR columns or FULLTEXT indexes]")

			return mcp.PromptResult{
				Description: fmt.Sprintf("Hybrid search for: %q", queryText),
				Messages: []mcp.PromptMessage{
					userMessage(fmt.Sprintf(`I need to find rows related to: %q

<hybrid_search_workflow>
Step 1: Find Searchable Tables
- Call get_table_schema() and keep tables with a VECTOR(...) column or a FULLTEXT index
- Candidate tables: %s

Step 2: Choose Models
- embedding_model must match the model used to populate the VECTOR column,
  for example {"provider": "openai", "model": "text-embedding-3-small"}
- rerank_model is required when searching more than one table,
  for example {"provider": "voyage", "model": "rerank-2", "top_n": 5}

Step 3: Search
- Call hybrid_search(table_names=%q, query=%q, embedding_model=..., top_k=10, format="md")
- Add filter={...} to restrict results with a search filter clause

Step 4: Present Results
- Show the best hits with their _table, _score and the relevant _source fields
- Say so clearly when nothing relevant was found
</hybrid_search_workflow>`, queryText, tables, tables, queryText)),
				},
			}
		},
	}
}
