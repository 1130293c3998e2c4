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

// RegisterAll registers the OceanBase tools on r
func RegisterAll(r *Registry, env *Env) {
	r.Register(ExecuteSQLTool(env))
	r.Register(GetTableSchemaTool(env))
	r.Register(HybridSearchTool(env))
	r.Register(Text2SQLTool(env))
}
