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

// VoyageProvider implements embedding generation using Voyage AI's API
type VoyageProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type voyageEmbeddingRequest struct {
	Input     []string `json:"input"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type,omitempty"`
}

type voyageEmbeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
}

// NewVoyageProvider creates a new Voyage AI embedding provider
func NewVoyageProvider(apiKey, model, baseURL string) (*VoyageProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Voyage AI API key cannot be empty")
	}
	if model == "" {
		model = defaultVoyageModel
	}
	if baseURL == "" {
		baseURL = DefaultVoyageBaseURL
	}

	LogProviderInit(ProviderVoyage, model, map[string]string{
		"api_key":  maskKey(apiKey),
		"base_url": baseURL,
	})

	return &VoyageProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: HTTPTimeout},
	}, nil
}

// Embed generates a query embedding for the given text
func (p *VoyageProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	startTime := time.Now()
	url := p.baseURL + "/embeddings"
	LogAPICallDetails(ProviderVoyage, p.model, url, len(text))

	var embResp voyageEmbeddingResponse
	err := PostJSON(ctx, p.client, ProviderVoyage, p.model, url,
		map[string]string{"Authorization": "Bearer " + p.apiKey},
		voyageEmbeddingRequest{Input: []string{text}, Model: p.model, InputType: "query"}, &embResp)
	if err == nil && (len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0) {
		err = fmt.Errorf("received empty embedding from API")
	}
	if err != nil {
		LogAPICall(ProviderVoyage, p.model, len(text), time.Since(startTime), 0, err)
		return nil, err
	}

	embedding := embResp.Data[0].Embedding
	LogAPICall(ProviderVoyage, p.model, len(text), time.Since(startTime), len(embedding), nil)
	return embedding, nil
}

// ModelName returns the model name
func (p *VoyageProvider) ModelName() string {
	return p.model
}

// ProviderName returns "voyage"
func (p *VoyageProvider) ProviderName() string {
	return ProviderVoyage
}
