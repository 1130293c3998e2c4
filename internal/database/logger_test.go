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
	"strings"
	"testing"
)

func TestSanitizeURI(t *testing.T) {
	cfg := ConnectionConfig{Hostname: "h", Port: "2881", DBName: "db", Username: "root", Password: "hunter2"}
	sanitized := sanitizeURI(cfg.URI())

	if strings.Contains(sanitized, "hunter2") {
		t.Errorf("sanitizeURI() leaked password: %s", sanitized)
	}
	if !strings.Contains(sanitized, "root") {
		t.Errorf("sanitizeURI() dropped user name: %s", sanitized)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q, want %q", got, "short")
	}
	if got := truncate("abcdefghij", 4); got != "abcd..." {
		t.Errorf("truncate() = %q, want %q", got, "abcd...")
	}
}
