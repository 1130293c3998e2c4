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
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// AttachmentURIPrefix prefixes the filename of every embedded attachment
const AttachmentURIPrefix = "attachment:///"

// NewToolError creates a standardized error response for tools
func NewToolError(message string) (ToolResponse, error) {
	return ToolResponse{
		Content: []ContentItem{{Type: ContentTypeText, Text: message}},
		IsError: true,
	}, nil
}

// NewToolSuccess creates a standardized success response for tools
func NewToolSuccess(message string) (ToolResponse, error) {
	return ToolResponse{
		Content: []ContentItem{{Type: ContentTypeText, Text: message}},
	}, nil
}

// NewToolJSON renders payload as indented JSON text content
func NewToolJSON(payload interface{}) (ToolResponse, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return ToolResponse{}, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return NewToolSuccess(string(data))
}

// NewToolBlob wraps binary output as an embedded resource
func NewToolBlob(filename, mimeType string, data []byte) (ToolResponse, error) {
	return ToolResponse{
		Content: []ContentItem{{
			Type: ContentTypeResource,
			Resource: &EmbeddedResource{
				URI:      AttachmentURIPrefix + filename,
				MimeType: mimeType,
				Blob:     base64.StdEncoding.EncodeToString(data),
			},
		}},
	}, nil
}
