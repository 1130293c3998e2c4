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
	"oceanbase-mcp/internal/resultset"
)

// ExecuteSQLTool creates the execute_sql tool
func ExecuteSQLTool(env *Env) Tool {
	return Tool{
		Definition: mcp.Tool{
			Name:        "execute_sql",
			Description: "Execute a read-only SQL statement (SELECT, SHOW or WITH) against the OceanBase database and return the rows as JSON, a Markdown table, or a CSV, YAML, XLSX or HTML attachment.",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"sql": map[string]interface{}{
						"type":        "string",
						"description": "The SQL statement to execute. Must start with SELECT, SHOW or WITH.",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        resultset.Formats,
						"default":     resultset.FormatJSON,
						"description": "Output format of the result rows.",
					},
					"config_options": configOptionsSchema,
				},
				Required: []string{"sql"},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (mcp.ToolResponse, error) {
			statement, err := RequiredStringParam(args, "sql", "sql parameter is required")
			if err != nil {
				return mcp.ToolResponse{}, err
			}

			format := strings.ToLower(OptionalStringParam(args, "format", resultset.FormatJSON))
			if err := resultset.CheckFormat(format); err != nil {
				return mcp.ToolResponse{}, asValidationError(err, format)
			}

			uri, opts, err := env.connection(args)
			if err != nil {
				return mcp.ToolResponse{}, err
			}

			rs, err := database.ExecuteSQL(ctx, env.opener(), uri, opts, statement)
			if err != nil {
				return mcp.ToolResponse{}, asValidationError(err, format)
			}

			out, err := resultset.Render(rs, format)
			if err != nil {
				return mcp.ToolResponse{}, asValidationError(err, format)
			}
			return toResponse(out)
		},
	}
}
