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
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"oceanbase-mcp/internal/logging"
	"oceanbase-mcp/internal/mcp"
	"oceanbase-mcp/internal/metrics"
)

// Handler is a function that executes a tool
type Handler func(ctx context.Context, args map[string]interface{}) (mcp.ToolResponse, error)

// Tool represents a registered MCP tool
type Tool struct {
	Definition mcp.Tool
	Handler    Handler
}

// Registry manages available MCP tools
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry under its definition name
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Definition.Name] = tool
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, exists := r.tools[name]
	return tool, exists
}

// List returns all registered tool definitions sorted by name
func (r *Registry) List() []mcp.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]mcp.Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool.Definition)
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})
	return tools
}

// Execute runs a tool by name. A ValidationError from the handler becomes
// an isError response; any other error is returned to the caller.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) (mcp.ToolResponse, error) {
	tool, exists := r.Get(name)
	if !exists {
		return mcp.NewToolError("Tool not found: " + name)
	}

	invocationID := uuid.NewString()
	start := time.Now()
	logging.Info("tool_invocation_start", "invocation_id", invocationID, "tool", name)

	resp, err := tool.Handler(ctx, args)
	duration := time.Since(start)

	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil && IsValidationError(err):
		outcome = metrics.OutcomeInvalid
		resp, err = mcp.NewToolError(err.Error())
	case err != nil:
		outcome = metrics.OutcomeError
	}
	metrics.RecordToolInvocation(name, outcome, duration)

	keyvals := []interface{}{
		"invocation_id", invocationID,
		"tool", name,
		"outcome", outcome,
		"duration_ms", duration.Milliseconds(),
	}
	switch outcome {
	case metrics.OutcomeError:
		logging.Error("tool_invocation_end", append(keyvals, "error", err.Error())...)
	case metrics.OutcomeInvalid:
		logging.Warn("tool_invocation_end", append(keyvals, "error", resp.Content[0].Text)...)
	default:
		logging.Info("tool_invocation_end", keyvals...)
	}

	return resp, err
}
