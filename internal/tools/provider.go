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
	"fmt"

	"oceanbase-mcp/internal/database"
	"oceanbase-mcp/internal/logging"
	"oceanbase-mcp/internal/metrics"
)

// ValidateCredentials probes the database with SELECT 1. Incomplete
// credentials and any probe failure are reported as a
// CredentialValidationError.
func ValidateCredentials(ctx context.Context, creds database.ConnectionConfig, open database.Opener) error {
	if open == nil {
		open = database.Open
	}

	err := probe(ctx, creds, open)
	metrics.RecordCredentialCheck(err == nil)
	if err != nil {
		logging.Warn("credential_validation_failed", "config", creds.String(), "error", err.Error())
		return &CredentialValidationError{Err: err}
	}
	logging.Info("credential_validation_succeeded", "address", creds.Address(), "db_name", creds.DBName)
	return nil
}

func probe(ctx context.Context, creds database.ConnectionConfig, open database.Opener) error {
	if !creds.IsValid() {
		return fmt.Errorf("Invalid OceanBaseConfig: %s", creds)
	}
	_, err := database.ExecuteSQL(ctx, open, creds.URI(), database.Options{}, "SELECT 1")
	return err
}
