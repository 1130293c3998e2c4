/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"oceanbase-mcp/internal/logging"
)

// Provider names accepted in a model config
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// Default endpoints
const (
	DefaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
	DefaultOllamaBaseURL    = "http://localhost:11434"

	defaultMaxTokens = 2048
	httpTimeout      = 120 * time.Second
	anthropicVersion = "2023-06-01"
)

// CompletionParams are the optional sampling parameters of a model config
type CompletionParams struct {
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

// Client handles single, non-streaming calls to a chat model
type Client struct {
	provider string
	apiKey   string // not used by ollama
	baseURL  string
	model    string
	http     *http.Client
}

// NewClient creates a new LLM client with the specified provider. An empty
// baseURL selects the provider default.
func NewClient(provider, apiKey, baseURL, model string) *Client {
	if baseURL == "" {
		switch provider {
		case ProviderAnthropic:
			baseURL = DefaultAnthropicBaseURL
		case ProviderOpenAI:
			baseURL = DefaultOpenAIBaseURL
		case ProviderOllama:
			baseURL = DefaultOllamaBaseURL
		}
	}
	return &Client{
		provider: provider,
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		model:    model,
		http:     &http.Client{Timeout: httpTimeout},
	}
}

// IsConfigured returns whether the client is properly configured
func (c *Client) IsConfigured() bool {
	if c.model == "" {
		return false
	}
	switch c.provider {
	case ProviderAnthropic, ProviderOpenAI:
		return c.apiKey != ""
	case ProviderOllama:
		return c.baseURL != ""
	default:
		return false
	}
}

// Provider returns the provider name
func (c *Client) Provider() string {
	return c.provider
}

// ModelName returns the model name
func (c *Client) ModelName() string {
	return c.model
}

// Complete sends one system and user message pair and returns the model's
// text exactly as received
func (c *Client) Complete(ctx context.Context, system, user string, params CompletionParams) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("LLM client not configured for provider %q", c.provider)
	}

	startTime := time.Now()
	var (
		text string
		err  error
	)
	switch c.provider {
	case ProviderAnthropic:
		text, err = c.completeWithAnthropic(ctx, system, user, params)
	case ProviderOpenAI:
		text, err = c.completeWithOpenAI(ctx, c.baseURL+"/chat/completions", system, user, params)
	case ProviderOllama:
		text, err = c.completeWithOpenAI(ctx, c.baseURL+"/v1/chat/completions", system, user, params)
	default:
		err = fmt.Errorf("unsupported LLM provider: %s", c.provider)
	}

	if err != nil {
		logging.Info("LLM call failed", "provider", c.provider, "model", c.model,
			"duration", time.Since(startTime).String(), "error", err)
		return "", err
	}
	logging.Debug("LLM call succeeded", "provider", c.provider, "model", c.model,
		"duration", time.Since(startTime).String(), "response_length", len(text))
	return text, nil
}

func (c *Client) completeWithAnthropic(ctx context.Context, system, user string, params CompletionParams) (string, error) {
	maxTokens := params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	reqBody := claudeRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: params.Temperature,
		Messages:    []chatMessage{{Role: "user", Content: user}},
	}
	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}

	var claudeResp claudeResponse
	if err := c.post(ctx, c.baseURL+"/messages", headers, reqBody, &claudeResp); err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range claudeResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no content in response")
	}
	return text.String(), nil
}

// completeWithOpenAI talks to OpenAI and to Ollama's OpenAI-compatible API
func (c *Client) completeWithOpenAI(ctx context.Context, url, system, user string, params CompletionParams) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: params.Temperature,
		Stream:      false,
	}
	if params.MaxTokens > 0 {
		reqBody.MaxTokens = params.MaxTokens
	}

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + c.apiKey}
	}

	var chatResp chatResponse
	if err := c.post(ctx, url, headers, reqBody, &chatResp); err != nil {
		return "", err
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return chatResp.Choices[0].Message.Content, nil
}

func (c *Client) post(ctx context.Context, url string, headers map[string]string, reqBody, out interface{}) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// Internal types for Claude API
type claudeRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	System      string        `json:"system,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	Messages    []chatMessage `json:"messages"`
}

type claudeResponse struct {
	ID         string               `json:"id"`
	Content    []claudeContentBlock `json:"content"`
	StopReason string               `json:"stop_reason"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Internal types for the OpenAI chat completions API
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}
