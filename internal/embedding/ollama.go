/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OllamaProvider implements embedding generation using a local Ollama server
type OllamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewOllamaProvider creates a new Ollama embedding provider
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	if model == "" {
		model = defaultOllamaModel
	}

	LogProviderInit(ProviderOllama, model, map[string]string{
		"base_url": baseURL,
	})

	return &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: OllamaHTTPTimeout},
	}, nil
}

// Embed generates an embedding vector for the given text
func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	startTime := time.Now()
	url := p.baseURL + "/api/embeddings"
	LogAPICallDetails(ProviderOllama, p.model, url, len(text))

	var embResp ollamaEmbeddingResponse
	err := PostJSON(ctx, p.client, ProviderOllama, p.model, url, nil,
		ollamaEmbeddingRequest{Model: p.model, Prompt: text}, &embResp)
	if err != nil {
		err = fmt.Errorf("ollama at %s: %w", p.baseURL, err)
	} else if len(embResp.Embedding) == 0 {
		err = fmt.Errorf("received empty embedding from Ollama (model may not be installed: try 'ollama pull %s')", p.model)
	}
	if err != nil {
		LogAPICall(ProviderOllama, p.model, len(text), time.Since(startTime), 0, err)
		return nil, err
	}

	LogAPICall(ProviderOllama, p.model, len(text), time.Since(startTime), len(embResp.Embedding), nil)
	return embResp.Embedding, nil
}

// ModelName returns the model name
func (p *OllamaProvider) ModelName() string {
	return p.model
}

// ProviderName returns "ollama"
func (p *OllamaProvider) ProviderName() string {
	return ProviderOllama
}
