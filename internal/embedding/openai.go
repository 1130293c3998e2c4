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

// OpenAIProvider implements embedding generation using OpenAI's API
type OpenAIProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type openaiEmbeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type openaiEmbeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}

// NewOpenAIProvider creates a new OpenAI embedding provider. Any
// OpenAI-compatible endpoint can be used through baseURL.
func NewOpenAIProvider(apiKey, model, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	LogProviderInit(ProviderOpenAI, model, map[string]string{
		"api_key":  maskKey(apiKey),
		"base_url": baseURL,
	})

	return &OpenAIProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: HTTPTimeout},
	}, nil
}

// Embed generates an embedding vector for the given text
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	startTime := time.Now()
	url := p.baseURL + "/embeddings"
	LogAPICallDetails(ProviderOpenAI, p.model, url, len(text))

	var embResp openaiEmbeddingResponse
	err := PostJSON(ctx, p.client, ProviderOpenAI, p.model, url,
		map[string]string{"Authorization": "Bearer " + p.apiKey},
		openaiEmbeddingRequest{Model: p.model, Input: text}, &embResp)
	if err == nil && (len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0) {
		err = fmt.Errorf("received empty embedding from API")
	}
	if err != nil {
		LogAPICall(ProviderOpenAI, p.model, len(text), time.Since(startTime), 0, err)
		return nil, err
	}

	embedding := embResp.Data[0].Embedding
	LogAPICall(ProviderOpenAI, p.model, len(text), time.Since(startTime), len(embedding), nil)
	return embedding, nil
}

// ModelName returns the model name
func (p *OpenAIProvider) ModelName() string {
	return p.model
}

// ProviderName returns "openai"
func (p *OpenAIProvider) ProviderName() string {
	return ProviderOpenAI
}
