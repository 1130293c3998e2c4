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
	"encoding/json"
	"fmt"
	"strings"

	"oceanbase-mcp/internal/database"
	"oceanbase-mcp/internal/mcp"
	"oceanbase-mcp/internal/models"
)

const text2SQLSystemPrompt = `
You are a MySQL expert. Your task is to generate an executable query for MySQL based on a user's question.

Requirements:
1. Generate a complete, executable query that can be run directly
2. Query only necessary columns
3. Don't wrap column names in double quotes (") as delimited identifiers
4. Unless specified, limit results to 5 rows
5. Use date('now') for current date references
6. The response format should not include special characters like ` + "```" + `, \n, \", etc.

Query Guidelines:
- Ensure the query matches MySQL syntax
- Only use columns that exist in the provided tables
- Add appropriate table joins with correct join conditions
- Include WHERE clauses to filter data as needed
- Add ORDER BY when sorting is beneficial
- Use appropriate data type casting

Common Pitfalls to Avoid:
- NULL handling in NOT IN clauses
- UNION vs UNION ALL usage
- Exclusive range conditions
- Data type mismatches
- Missing or incorrect quotes around identifiers
- Wrong function arguments
- Incorrect join conditions
`

const text2SQLUserPrompt = `
Context and Tables:
%s

Examples:
User input: How many employees are there
Your response: SELECT COUNT(*) FROM "Employee"

User input: How many tracks are there in the album with ID 5?
Your response: SELECT COUNT(*) FROM Track WHERE AlbumId = 5;

User input: Which albums are from the year 2000?
Your response: SELECT * FROM Album WHERE strftime('%%Y', ReleaseDate) = '2000';

User input: List all tracks in the 'Rock' genre.
Your response: SELECT * FROM Track WHERE GenreId = (SELECT GenreId FROM Genre WHERE Name = 'Rock');


Now, the user input is : %s
`

// Text2SQLTool creates the text2sql tool
func Text2SQLTool(env *Env) Tool {
	return Tool{
		Definition: mcp.Tool{
			Name:        "text2sql",
			Description: "Translate a natural language question into an executable MySQL statement for the OceanBase database, using the schema of the given tables as context. The generated SQL is returned, not executed.",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The question to translate into SQL.",
					},
					"tables": map[string]interface{}{
						"type":        "string",
						"description": "Comma separated table names to use as context. Omit to use every table.",
					},
					"model": map[string]interface{}{
						"type":        "object",
						"description": "Chat model config: {\"provider\": \"openai|anthropic|ollama\", \"model\": \"...\", \"completion_params\": {\"temperature\": 0, \"max_tokens\": 512}}.",
					},
					"config_options": configOptionsSchema,
				},
				Required: []string{"query", "model"},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (mcp.ToolResponse, error) {
			query, err := RequiredStringParam(args, "query", "query parameter is required")
			if err != nil {
				return mcp.ToolResponse{}, err
			}

			modelCfg, err := models.ParseConfig(args["model"])
			if err != nil {
				return mcp.ToolResponse{}, asValidationError(err, "")
			}
			if modelCfg == nil {
				return mcp.ToolResponse{}, NewValidationError("model parameter is required")
			}

			uri, opts, err := env.connection(args)
			if err != nil {
				return mcp.ToolResponse{}, err
			}

			client, err := env.Models().LLM(modelCfg)
			if err != nil {
				return mcp.ToolResponse{}, asValidationError(err, "")
			}

			results, err := database.GetTableInfo(ctx, env.opener(), uri, opts, TableListParam(args, "tables"), false)
			if err != nil {
				return mcp.ToolResponse{}, asValidationError(err, "")
			}

			tableInfo, err := json.Marshal(results)
			if err != nil {
				return mcp.ToolResponse{}, fmt.Errorf("failed to encode table info: %w", err)
			}

			sql, err := client.Complete(ctx, text2SQLSystemPrompt, buildText2SQLPrompt(string(tableInfo), query), modelCfg.CompletionParams)
			if err != nil {
				return mcp.ToolResponse{}, fmt.Errorf("failed to generate SQL: %w", err)
			}
			return mcp.NewToolSuccess(sql)
		},
	}
}

func buildText2SQLPrompt(tableInfo, query string) string {
	return fmt.Sprintf(text2SQLUserPrompt, tableInfo, strings.TrimSpace(query))
}
