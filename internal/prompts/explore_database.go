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

// ExploreDatabase creates a prompt for systematic database exploration
func ExploreDatabase() Prompt {
	return Prompt{
		Definition: mcp.Prompt{
			Name:        "explore-database",
			Description: "Multi-step workflow to explore an unfamiliar OceanBase database: tables, keys, indexes and sample rows.",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "tables",
					Description: "Comma separated tables to focus on (default: all tables)",
				},
			},
		},
		Handler: func(args map[string]string) mcp.PromptResult {
			tables := argOr(args, "tables", "")
			schemaCall := `get_table_schema(tables="")`
			if tables != "" {
				schemaCall = fmt.Sprintf("get_table_schema(tables=%q)", tables)
			}

			return mcp.PromptResult{
				Description: "Systematic database exploration workflow",
				Messages: []mcp.PromptMessage{
					userMessage(fmt.Sprintf(`I need to explore this OceanBase database to understand what data is available and how it is organized.

<exploration_workflow>
Step 1: List Tables
- Call execute_sql(sql="SHOW TABLES")

Step 2: Describe Tables
- Call %s
- Note the table and column comments, primary keys, foreign keys and indexes

Step 3: Identify Search Capabilities
- VECTOR(...) columns support vector search through hybrid_search
- Indexes of type FULLTEXT support full-text search through hybrid_search

Step 4: Sample Data
- For key tables: execute_sql(sql="SELECT * FROM <table> LIMIT 5", format="md")

Step 5: Summarize Findings
- Purpose of the database and its key tables
- Relationships between tables
- Which tables can be searched with hybrid_search
</exploration_workflow>

Only read-only statements (SELECT, SHOW, WITH) are allowed. Begin the exploration now.`, schemaCall)),
				},
			}
		},
	}
}
