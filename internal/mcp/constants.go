/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package mcp

// Message size limits for JSON-RPC requests
const (
	// ScannerInitialBufferSize is the initial stdio line buffer (64KB)
	ScannerInitialBufferSize = 64 * 1024

	// ScannerMaxBufferSize caps one stdio request line (4MB). Hybrid search
	// filters and text2sql questions travel inline in tool arguments.
	ScannerMaxBufferSize = 4 * 1024 * 1024

	// MaxHTTPBodySize caps one HTTP request body
	MaxHTTPBodySize = ScannerMaxBufferSize
)
