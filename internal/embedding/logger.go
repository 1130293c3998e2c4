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
	"time"

	"oceanbase-mcp/internal/logging"
)

// LogAPICall logs an embedding API call with timing
func LogAPICall(provider, model string, textLen int, duration time.Duration, dimensions int, err error) {
	if err != nil {
		logging.Info("embedding call failed", "provider", provider, "model", model,
			"text_length", textLen, "duration", duration.String(), "error", err)
		return
	}
	logging.Debug("embedding call succeeded", "provider", provider, "model", model,
		"text_length", textLen, "dimensions", dimensions, "duration", duration.String())
}

// LogAPICallDetails logs the endpoint of an API call before it is made
func LogAPICallDetails(provider, model, url string, textLen int) {
	logging.Debug("starting API call", "provider", provider, "model", model, "url", url, "text_length", textLen)
}

// LogRateLimitError logs rate limit errors with specific details
func LogRateLimitError(provider, model string, statusCode int, responseBody string) {
	logging.Warn("rate limit exceeded", "provider", provider, "model", model,
		"status_code", statusCode, "response", truncate(responseBody, 200))
}

// LogConnectionError logs connection errors
func LogConnectionError(provider, url string, err error) {
	logging.Info("connection failed", "provider", provider, "url", url, "error", err)
}

// LogProviderInit logs provider initialization. API keys must already be
// masked by the caller.
func LogProviderInit(provider, model string, config map[string]string) {
	keyvals := []interface{}{"provider", provider, "model", model}
	for k, v := range config {
		keyvals = append(keyvals, k, v)
	}
	logging.Debug("provider initialized", keyvals...)
}

// truncate truncates a string to maxLen characters, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
