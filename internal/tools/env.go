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
	"encoding/json"
	"strings"

	"oceanbase-mcp/internal/database"
	"oceanbase-mcp/internal/models"
)

// Env is what every tool invocation reads from the server. Credentials and
// Models return snapshots, so no state is shared between invocations.
type Env struct {
	Credentials func() database.ConnectionConfig
	Open        database.Opener
	Models      func() models.Factory
}

// connection resolves the credentials snapshot and the config_options
// parameter into a URI and connection options
func (e *Env) connection(args map[string]interface{}) (string, database.Options, error) {
	opts, err := database.ParseOptions(configOptionsParam(args))
	if err != nil {
		return "", opts, asValidationError(err, "")
	}

	creds := e.Credentials()
	if !creds.IsValid() {
		return "", opts, NewValidationError("Invalid OceanBaseConfig: %s", creds)
	}
	return creds.URI(), opts, nil
}

func (e *Env) opener() database.Opener {
	if e.Open != nil {
		return e.Open
	}
	return database.Open
}

// configOptionsParam returns config_options as a JSON string, "{}" when absent
func configOptionsParam(args map[string]interface{}) string {
	switch v := args["config_options"].(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	case map[string]interface{}:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
	case nil:
	default:
		// Neither a string nor an object; let the parser reject it
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
	}
	return "{}"
}

// configOptionsSchema is the input schema shared by every tool
var configOptionsSchema = map[string]interface{}{
	"type":        "string",
	"description": "Connection options as a JSON object string, e.g. {\"pool_size\": 5, \"connect_timeout\": 10}. Defaults to {}.",
}
