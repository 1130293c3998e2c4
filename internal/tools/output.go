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
	"oceanbase-mcp/internal/mcp"
	"oceanbase-mcp/internal/resultset"
)

// toResponse converts a rendered result into the matching MCP content:
// indented JSON text, plain text, or an embedded attachment
func toResponse(out resultset.Output) (mcp.ToolResponse, error) {
	switch out.Kind {
	case resultset.KindJSON:
		return mcp.NewToolJSON(out.JSON)
	case resultset.KindBlob:
		return mcp.NewToolBlob(out.Filename, out.MimeType, out.Blob)
	default:
		return mcp.NewToolSuccess(out.Text)
	}
}
