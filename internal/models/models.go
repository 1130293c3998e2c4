/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

// Package models parses the model config tool parameters and builds the
// embedding, rerank and chat providers they name.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"oceanbase-mcp/internal/embedding"
	"oceanbase-mcp/internal/llm"
	"oceanbase-mcp/internal/rerank"
)

// ErrInvalidModelConfig is returned for a model config that cannot be used
var ErrInvalidModelConfig = errors.New("invalid model config")

// Config selects a model. It arrives as a JSON object or a JSON object
// string.
type Config struct {
	Provider         string               `json:"provider"`
	Model            string               `json:"model"`
	ScoreThreshold   *float64             `json:"score_threshold,omitempty"`
	TopN             *int                 `json:"top_n,omitempty"`
	CompletionParams llm.CompletionParams `json:"completion_params"`
}

// ParseConfig decodes a model config parameter. A missing or empty value
// returns nil without error.
func ParseConfig(v interface{}) (*Config, error) {
	var raw []byte
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		raw = []byte(val)
	case map[string]interface{}:
		if len(val) == 0 {
			return nil, nil
		}
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidModelConfig, err)
		}
		raw = encoded
	default:
		return nil, fmt.Errorf("%w: expected an object, got %T", ErrInvalidModelConfig, v)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelConfig, err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider == "" {
		return nil, fmt.Errorf("%w: provider is required", ErrInvalidModelConfig)
	}
	return &cfg, nil
}

// ProviderCredentials are the server-side settings of one model provider
type ProviderCredentials struct {
	APIKey  string
	BaseURL string
}

// Factory builds providers from a model config and the server's provider
// credentials
type Factory interface {
	Embedder(cfg *Config) (embedding.Provider, error)
	Reranker(cfg *Config) (rerank.Provider, error)
	LLM(cfg *Config) (*llm.Client, error)
}

// CredentialFactory is the Factory used by the server
type CredentialFactory struct {
	Providers map[string]ProviderCredentials
}

// NewFactory creates a factory over a snapshot of provider credentials
func NewFactory(providers map[string]ProviderCredentials) *CredentialFactory {
	return &CredentialFactory{Providers: providers}
}

func (f *CredentialFactory) credentials(provider string) ProviderCredentials {
	if f == nil || f.Providers == nil {
		return ProviderCredentials{}
	}
	return f.Providers[provider]
}

// Embedder builds an embedding provider
func (f *CredentialFactory) Embedder(cfg *Config) (embedding.Provider, error) {
	creds := f.credentials(cfg.Provider)
	p, err := embedding.NewProvider(embedding.Config{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   creds.APIKey,
		BaseURL:  creds.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelConfig, err)
	}
	return p, nil
}

// Reranker builds a rerank provider. The score threshold defaults to 0.
func (f *CredentialFactory) Reranker(cfg *Config) (rerank.Provider, error) {
	creds := f.credentials(cfg.Provider)
	threshold := 0.0
	if cfg.ScoreThreshold != nil {
		threshold = *cfg.ScoreThreshold
	}
	p, err := rerank.NewProvider(rerank.Config{
		Provider:       cfg.Provider,
		Model:          cfg.Model,
		APIKey:         creds.APIKey,
		BaseURL:        creds.BaseURL,
		ScoreThreshold: threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelConfig, err)
	}
	return p, nil
}

// LLM builds a chat model client
func (f *CredentialFactory) LLM(cfg *Config) (*llm.Client, error) {
	creds := f.credentials(cfg.Provider)
	client := llm.NewClient(cfg.Provider, creds.APIKey, creds.BaseURL, cfg.Model)
	if !client.IsConfigured() {
		return nil, fmt.Errorf("%w: provider %q is not supported or has no API key and model configured",
			ErrInvalidModelConfig, cfg.Provider)
	}
	return client, nil
}
