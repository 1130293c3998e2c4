/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

// Package rerank scores candidate documents against a query with a hosted
// rerank model.
package rerank

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"oceanbase-mcp/internal/embedding"
	"oceanbase-mcp/internal/logging"
)

// Provider names accepted in a model config
const (
	ProviderVoyage = "voyage"
	ProviderCohere = "cohere"
)

// Default endpoints and models
const (
	DefaultVoyageBaseURL = "https://api.voyageai.com/v1"
	DefaultCohereBaseURL = "https://api.cohere.com/v2"

	defaultVoyageModel = "rerank-2"
	defaultCohereModel = "rerank-v3.5"

	httpTimeout = 30 * time.Second
)

// Result is the score of one document, identified by its position in the
// documents passed to Rerank
type Result struct {
	Index int
	Score float64
}

// Provider reranks documents against a query
type Provider interface {
	// Rerank returns at most topN results, best first. Results scoring
	// below the configured threshold are dropped.
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]Result, error)

	// ModelName returns the name of the model being used
	ModelName() string

	// ProviderName returns the name of the provider
	ProviderName() string
}

// Config holds configuration for rerank providers
type Config struct {
	Provider       string
	Model          string
	APIKey         string
	BaseURL        string
	ScoreThreshold float64
}

// NewProvider creates a rerank provider based on configuration
func NewProvider(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required for rerank provider %q", cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderVoyage:
		return &VoyageProvider{client: newClient(cfg, DefaultVoyageBaseURL, defaultVoyageModel)}, nil
	case ProviderCohere:
		return &CohereProvider{client: newClient(cfg, DefaultCohereBaseURL, defaultCohereModel)}, nil
	default:
		return nil, fmt.Errorf("unsupported rerank provider: %s (supported: voyage, cohere)", cfg.Provider)
	}
}

// client holds what both providers share
type client struct {
	provider       string
	apiKey         string
	model          string
	baseURL        string
	scoreThreshold float64
	http           *http.Client
}

func newClient(cfg Config, defaultBaseURL, defaultModel string) client {
	c := client{
		provider:       cfg.Provider,
		apiKey:         cfg.APIKey,
		model:          cfg.Model,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		scoreThreshold: cfg.ScoreThreshold,
		http:           &http.Client{Timeout: httpTimeout},
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.model == "" {
		c.model = defaultModel
	}
	return c
}

// ModelName returns the model name
func (c *client) ModelName() string {
	return c.model
}

// ProviderName returns the provider name
func (c *client) ProviderName() string {
	return c.provider
}

func (c *client) post(ctx context.Context, reqBody, out interface{}) error {
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	return embedding.PostJSON(ctx, c.http, c.provider, c.model, c.baseURL+"/rerank", headers, reqBody, out)
}

// finish validates indices, drops results below the threshold, orders the
// rest best first and caps them at topN
func (c *client) finish(results []Result, documentCount, topN int, startTime time.Time, err error) ([]Result, error) {
	if err == nil {
		for _, r := range results {
			if r.Index < 0 || r.Index >= documentCount {
				err = fmt.Errorf("rerank result index %d out of range for %d documents", r.Index, documentCount)
				break
			}
		}
	}
	if err != nil {
		logging.Info("rerank call failed", "provider", c.provider, "model", c.model,
			"documents", documentCount, "duration", time.Since(startTime).String(), "error", err)
		return nil, err
	}

	kept := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Score >= c.scoreThreshold {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	if topN > 0 && len(kept) > topN {
		kept = kept[:topN]
	}

	logging.Debug("rerank call succeeded", "provider", c.provider, "model", c.model,
		"documents", documentCount, "results", len(kept), "duration", time.Since(startTime).String())
	return kept, nil
}

type scoredIndex struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

func toResults(scored []scoredIndex) []Result {
	results := make([]Result, len(scored))
	for i, s := range scored {
		results[i] = Result{Index: s.Index, Score: s.RelevanceScore}
	}
	return results
}
