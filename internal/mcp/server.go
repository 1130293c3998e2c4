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

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"oceanbase-mcp/internal/logging"
)

const (
	ProtocolVersion = "2024-11-05"
	ServerName      = "oceanbase-mcp"
	ServerVersion   = "0.1.0"
)

// ToolProvider is an interface for listing and executing tools
type ToolProvider interface {
	List() []Tool
	Execute(ctx context.Context, name string, args map[string]interface{}) (ToolResponse, error)
}

// PromptProvider is an interface for listing and rendering prompts
type PromptProvider interface {
	List() []Prompt
	Execute(name string, args map[string]string) (PromptResult, error)
}

// Server handles MCP protocol communication
type Server struct {
	tools   ToolProvider
	prompts PromptProvider

	mu  sync.Mutex // serialises writes to out
	out io.Writer
}

// NewServer creates a new MCP server
func NewServer(tools ToolProvider) *Server {
	return &Server{tools: tools}
}

// SetPromptProvider sets the prompt provider for the server
func (s *Server) SetPromptProvider(prompts PromptProvider) {
	s.prompts = prompts
}

// Run serves newline-delimited JSON-RPC requests read from in, writing one
// response line per request to out. It returns when in is exhausted or ctx
// is cancelled.
func (s *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	s.out = out

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, ScannerInitialBufferSize), ScannerMaxBufferSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.write(errorResponse(nil, CodeParseError, "Parse error", err.Error()))
			continue
		}

		resp, ok := s.Dispatch(ctx, req)
		// Notifications carry no id and get no reply on stdio
		if !ok || req.ID == nil {
			continue
		}
		s.write(resp)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// Dispatch handles a single request. The boolean is false for notifications
// that need no response.
func (s *Server) Dispatch(ctx context.Context, req JSONRPCRequest) (JSONRPCResponse, bool) {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req), true
	case "notifications/initialized":
		return JSONRPCResponse{}, false
	case "ping":
		return resultResponse(req.ID, map[string]interface{}{}), true
	case "tools/list":
		return resultResponse(req.ID, ToolsListResult{Tools: s.tools.List()}), true
	case "tools/call":
		return s.handleToolCall(ctx, req), true
	case "prompts/list":
		return s.handlePromptsList(req), true
	case "prompts/get":
		return s.handlePromptsGet(req), true
	default:
		return errorResponse(req.ID, CodeMethodNotFound, "Method not found", nil), true
	}
}

func (s *Server) handleInitialize(req JSONRPCRequest) JSONRPCResponse {
	var params InitializeParams
	if err := decodeParams(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}

	// Echo the client's protocol version when it sends one
	protocolVersion := params.ProtocolVersion
	if protocolVersion == "" {
		protocolVersion = ProtocolVersion
	}

	if params.ClientInfo.Name != "" {
		logging.Info("client_initialized",
			"client", params.ClientInfo.Name,
			"client_version", params.ClientInfo.Version,
			"protocol_version", protocolVersion,
		)
	}

	return resultResponse(req.ID, InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: s.capabilities(),
		ServerInfo: Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
	})
}

func (s *Server) capabilities() map[string]interface{} {
	capabilities := map[string]interface{}{
		"tools": map[string]interface{}{},
	}
	if s.prompts != nil {
		capabilities["prompts"] = map[string]interface{}{}
	}
	return capabilities
}

func (s *Server) handlePromptsList(req JSONRPCRequest) JSONRPCResponse {
	if s.prompts == nil {
		return errorResponse(req.ID, CodeMethodNotFound, "Prompts not supported", nil)
	}
	return resultResponse(req.ID, PromptsListResult{Prompts: s.prompts.List()})
}

func (s *Server) handlePromptsGet(req JSONRPCRequest) JSONRPCResponse {
	if s.prompts == nil {
		return errorResponse(req.ID, CodeMethodNotFound, "Prompts not supported", nil)
	}

	var params PromptGetParams
	if err := decodeParams(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.prompts.Execute(params.Name, params.Arguments)
	if err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "Prompt not found", err.Error())
	}
	return resultResponse(req.ID, result)
}

func (s *Server) handleToolCall(ctx context.Context, req JSONRPCRequest) JSONRPCResponse {
	var params ToolCallParams
	if err := decodeParams(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}
	if params.Name == "" {
		return errorResponse(req.ID, CodeInvalidParams, "Invalid params", "tool name is required")
	}

	response, err := s.tools.Execute(ctx, params.Name, params.Arguments)
	if err != nil {
		return errorResponse(req.ID, CodeInternalError, "Internal error", err.Error())
	}
	return resultResponse(req.ID, response)
}

func (s *Server) write(resp JSONRPCResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		logging.Error("response_marshal_failed", "error", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.out, "%s\n", data); err != nil {
		logging.Error("response_write_failed", "error", err.Error())
	}
}

// decodeParams converts the loosely typed params of a request into target
func decodeParams(params interface{}, target interface{}) error {
	if params == nil {
		return nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func resultResponse(id, result interface{}) JSONRPCResponse {
	return JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

func errorResponse(id interface{}, code int, message string, data interface{}) JSONRPCResponse {
	return JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}
