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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// HTTPTimeout is the HTTP client timeout for hosted embedding APIs
	HTTPTimeout = 30 * time.Second

	// OllamaHTTPTimeout is longer since Ollama may need to load the model
	OllamaHTTPTimeout = 60 * time.Second
)

// PostJSON sends reqBody to url and decodes a 200 response into out. Non-200
// responses are returned as errors carrying the response body. The rerank
// providers share it so both model APIs log failures the same way.
func PostJSON(ctx context.Context, client *http.Client, provider, model, url string, headers map[string]string, reqBody, out interface{}) error {
	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		LogConnectionError(provider, url, err)
		return fmt.Errorf("failed to make API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("API request failed with status %d (error reading response body: %w)", resp.StatusCode, readErr)
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			LogRateLimitError(provider, model, resp.StatusCode, string(body))
		}
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
