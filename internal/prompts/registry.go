/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package prompts

import (
	"fmt"
	"sort"

	"oceanbase-mcp/internal/mcp"
)

// Prompt represents a registered MCP prompt
type Prompt struct {
	Definition mcp.Prompt
	Handler    func(args map[string]string) mcp.PromptResult
}

// Registry manages available MCP prompts
type Registry struct {
	prompts map[string]Prompt
}

// NewRegistry creates a new prompt registry
func NewRegistry() *Registry {
	return &Registry{
		prompts: make(map[string]Prompt),
	}
}

// Register adds a prompt to the registry under its definition name
func (r *Registry) Register(prompt Prompt) {
	r.prompts[prompt.Definition.Name] = prompt
}

// Get retrieves a prompt by name
func (r *Registry) Get(name string) (Prompt, bool) {
	prompt, exists := r.prompts[name]
	return prompt, exists
}

// List returns all registered prompt definitions sorted by name
func (r *Registry) List() []mcp.Prompt {
	prompts := make([]mcp.Prompt, 0, len(r.prompts))
	for _, prompt := range r.prompts {
		prompts = append(prompts, prompt.Definition)
	}
	sort.Slice(prompts, func(i, j int) bool { return prompts[i].Name < prompts[j].Name })
	return prompts
}

// Execute renders a prompt by name with the given arguments
func (r *Registry) Execute(name string, args map[string]string) (mcp.PromptResult, error) {
	prompt, exists := r.Get(name)
	if !exists {
		available := make([]string, 0, len(r.prompts))
		for _, p := range r.List() {
			available = append(available, p.Name)
		}
		return mcp.PromptResult{}, fmt.Errorf("prompt %q not found. Available prompts: %v", name, available)
	}

	return prompt.Handler(args), nil
}

// RegisterAll registers the built-in prompts
func RegisterAll(r *Registry) {
	r.Register(ExploreDatabase())
	r.Register(HybridSearch())
	r.Register(QuestionToSQL())
}

func userMessage(text string) mcp.PromptMessage {
	return mcp.PromptMessage{
		Role: "user",
		Content: mcp.ContentItem{
			Type: mcp.ContentTypeText,
			Text: text,
		},
	}
}

// argOr returns args[name], or fallback when it is empty
func argOr(args map[string]string, name, fallback string) string {
	if v := args[name]; v != "" {
		return v
	}
	return fallback
}
