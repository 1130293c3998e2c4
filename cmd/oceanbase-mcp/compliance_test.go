/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oceanbase-mcp/internal/config"
	"oceanbase-mcp/internal/database"
)

var errUnreachable = errors.New("dial tcp 127.0.0.1:2881: connect: connection refused")

func unreachable(ctx context.Context, uri string, opts database.Options) (*sqlx.DB, error) {
	return nil, errUnreachable
}

type rpcResponse struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// exchange runs the stdio server over the given requests and returns the
// responses keyed by id
func exchange(t *testing.T, db config.DatabaseConfig, requests ...string) map[int]rpcResponse {
	t.Helper()

	rc := config.NewReloadableConfig(&config.Config{Database: db}, "", config.CLIFlags{})
	server := newServer(rc, unreachable)

	var out bytes.Buffer
	err := server.Run(context.Background(), strings.NewReader(strings.Join(requests, "\n")+"\n"), &out)
	require.NoError(t, err)

	responses := make(map[int]rpcResponse)
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp rpcResponse
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses[resp.ID] = resp
	}
	return responses
}

func TestMCPCompliance(t *testing.T) {
	db := config.DatabaseConfig{Hostname: "127.0.0.1", Port: 2881, DBName: "test", Username: "root@test"}
	responses := exchange(t, db,
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","clientInfo":{"name":"test-client","version":"1.0.0"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"prompts/list"}`,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"execute_sql","arguments":{"sql":"SELECT 1"}}}`,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"execute_sql","arguments":{"sql":"DROP TABLE t"}}}`,
	)
	require.Len(t, responses, 5)

	t.Run("AdvertiseCapabilities", func(t *testing.T) {
		var result struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    map[string]interface{} `json:"capabilities"`
			ServerInfo      struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		}
		require.NoError(t, json.Unmarshal(responses[1].Result, &result))
		assert.Equal(t, "2024-11-05", result.ProtocolVersion)
		assert.Contains(t, result.Capabilities, "tools")
		assert.Contains(t, result.Capabilities, "prompts")
		assert.Equal(t, "oceanbase-mcp", result.ServerInfo.Name)
		assert.NotEmpty(t, result.ServerInfo.Version)
	})

	t.Run("ToolsHaveValidSchemas", func(t *testing.T) {
		var result struct {
			Tools []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
				InputSchema struct {
					Type       string                 `json:"type"`
					Properties map[string]interface{} `json:"properties"`
					Required   []string               `json:"required"`
				} `json:"inputSchema"`
			} `json:"tools"`
		}
		require.NoError(t, json.Unmarshal(responses[2].Result, &result))

		var names []string
		for _, tool := range result.Tools {
			names = append(names, tool.Name)
			assert.NotEmpty(t, tool.Description, tool.Name)
			assert.Equal(t, "object", tool.InputSchema.Type, tool.Name)
			for _, required := range tool.InputSchema.Required {
				assert.Contains(t, tool.InputSchema.Properties, required, "%s: required property is not defined", tool.Name)
			}
		}
		assert.Equal(t, []string{"execute_sql", "get_table_schema", "hybrid_search", "text2sql"}, names)
	})

	t.Run("PromptsListed", func(t *testing.T) {
		var result struct {
			Prompts []struct {
				Name string `json:"name"`
			} `json:"prompts"`
		}
		require.NoError(t, json.Unmarshal(responses[3].Result, &result))
		assert.Len(t, result.Prompts, 3)
	})

	t.Run("ConnectionFailuresAreInternalErrors", func(t *testing.T) {
		require.NotNil(t, responses[4].Error)
		assert.Equal(t, -32603, responses[4].Error.Code)
	})

	t.Run("WriteStatementsRejected", func(t *testing.T) {
		var result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		}
		require.NoError(t, json.Unmarshal(responses[5].Result, &result))
		assert.True(t, result.IsError)
		assert.Contains(t, result.Content[0].Text, "'sql' should start with 'SELECT|SHOW|WITH'")
	})
}

func TestIncompleteCredentialsAreToolErrors(t *testing.T) {
	responses := exchange(t, config.DatabaseConfig{Hostname: "127.0.0.1", Port: 2881},
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_table_schema","arguments":{}}}`,
	)

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	require.Nil(t, responses[1].Error)
	require.NoError(t, json.Unmarshal(responses[1].Result, &result))
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Contains(t, result.Content[0].Text, "Invalid OceanBaseConfig")
}
