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
)

// Provider names accepted in a model config
const (
	ProviderOpenAI = "openai"
	ProviderVoyage = "voyage"
	ProviderOllama = "ollama"
)

// Default endpoints and models
const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultVoyageBaseURL = "https://api.voyageai.com/v1"
	DefaultOllamaBaseURL = "http://localhost:11434"

	defaultOpenAIModel = "text-embedding-3-small"
	defaultVoyageModel = "voyage-3"
	defaultOllamaModel = "nomic-embed-text"
)

// Provider defines the interface for embedding generation
type Provider interface {
	// Embed generates an embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float64, error)

	// ModelName returns the name of the model being used
	ModelName() string

	// ProviderName returns the name of the provider (e.g., "voyage", "ollama", "openai")
	ProviderName() string
}

// Config holds configuration for embedding providers
type Config struct {
	Provider string // "voyage", "ollama", or "openai"
	Model    string // Model name (provider-specific)
	APIKey   string // not used by ollama
	BaseURL  string // empty selects the provider default
}

// NewProvider creates a new embedding provider based on configuration
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderVoyage:
		return NewVoyageProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderOllama:
		return NewOllamaProvider(cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s (supported: voyage, openai, ollama)", cfg.Provider)
	}
}

// maskKey shows only the first and last few characters of an API key
func maskKey(apiKey string) string {
	if len(apiKey) > 8 {
		return apiKey[:4] + "..." + apiKey[len(apiKey)-4:]
	}
	return "(redacted)"
}
