/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package database

import (
	"net/url"
	"strings"
	"time"

	"oceanbase-mcp/internal/logging"
)

// LogConnection logs a database connection attempt
func LogConnection(uri string, duration time.Duration, err error) {
	sanitized := sanitizeURI(uri)
	if err != nil {
		logging.Info("connection failed", "connection", sanitized, "duration", duration.String(), "error", err)
		return
	}
	logging.Debug("connection succeeded", "connection", sanitized, "duration", duration.String())
}

// LogQuery logs a statement execution. echo raises it to info level.
func LogQuery(query string, duration time.Duration, rowCount int, echo bool, err error) {
	preview := truncate(strings.TrimSpace(query), 200)
	if err != nil {
		logging.Info("query failed", "query", preview, "duration", duration.String(), "error", err)
		return
	}
	log := logging.Debug
	if echo {
		log = logging.Info
	}
	log("query succeeded", "query", preview, "row_count", rowCount, "duration", duration.String())
}

// LogIntrospection logs one schema introspection batch
func LogIntrospection(tableCount, failed int, duration time.Duration) {
	logging.Debug("schema introspected", "table_count", tableCount, "failed", failed, "duration", duration.String())
}

// sanitizeURI masks the password of a connection URI
func sanitizeURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "(unparseable connection URI)"
	}
	return u.Redacted()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
