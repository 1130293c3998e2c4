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
	"bytes"
	"context"
	"encoding/json"

	"oceanbase-mcp/internal/database"
	"oceanbase-mcp/internal/mcp"
)

// GetTableSchemaTool creates the get_table_schema tool
func GetTableSchemaTool(env *Env) Tool {
	return Tool{
		Definition: mcp.Tool{
			Name:        "get_table_schema",
			Description: "Describe tables of the OceanBase database: columns with types, nullability, defaults and comments, plus primary keys, foreign keys and indexes. A table that cannot be read is reported inline without failing the others.",
			InputSchema: mcp.InputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"tables": map[string]interface{}{
						"type":        "string",
						"description": "Comma separated table names. Omit to describe every table.",
					},
					"config_options": configOptionsSchema,
				},
			},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (mcp.ToolResponse, error) {
			uri, opts, err := env.connection(args)
			if err != nil {
				return mcp.ToolResponse{}, err
			}

			results, err := database.GetTableInfo(ctx, env.opener(), uri, opts, TableListParam(args, "tables"), true)
			if err != nil {
				return mcp.ToolResponse{}, asValidationError(err, "")
			}
			return mcp.NewToolJSON(tableSchemas(results))
		},
	}
}

// tableSchemas marshals introspection results as an object keyed by table
// name, in the order the tables were requested
type tableSchemas []database.TableResult

func (t tableSchemas) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
