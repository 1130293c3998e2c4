/*-------------------------------------------------------------------------
 *
 * OceanBase MCP Server
 *
 * Portions copyright (c) 2025, pgEdge, Inc.
 * This software is released under The PostgreSQL License
 *
 *-------------------------------------------------------------------------
 */

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordToolInvocation(t *testing.T) {
	before := testutil.ToFloat64(toolInvocationsTotal.WithLabelValues("execute_sql", OutcomeSuccess))

	RecordToolInvocation("execute_sql", OutcomeSuccess, 25*time.Millisecond)
	RecordToolInvocation("execute_sql", OutcomeSuccess, 50*time.Millisecond)

	after := testutil.ToFloat64(toolInvocationsTotal.WithLabelValues("execute_sql", OutcomeSuccess))
	assert.Equal(t, before+2, after)
}

func TestRecordCredentialCheck(t *testing.T) {
	okBefore := testutil.ToFloat64(credentialChecksTotal.WithLabelValues("ok"))
	failedBefore := testutil.ToFloat64(credentialChecksTotal.WithLabelValues("failed"))

	RecordCredentialCheck(true)
	RecordCredentialCheck(false)
	RecordCredentialCheck(false)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(credentialChecksTotal.WithLabelValues("ok")))
	assert.Equal(t, failedBefore+2, testutil.ToFloat64(credentialChecksTotal.WithLabelValues("failed")))
}

func TestHandlerExposesToolMetrics(t *testing.T) {
	RecordToolInvocation("text2sql", OutcomeInvalid, time.Millisecond)
	RecordHTTPRequest(http.MethodPost, "/mcp/v1", http.StatusOK)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `oceanbase_mcp_tool_invocations_total{outcome="invalid",tool="text2sql"}`)
	assert.Contains(t, body, "oceanbase_mcp_tool_duration_seconds_bucket")
	assert.Contains(t, body, `oceanbase_mcp_http_requests_total{method="POST",path="/mcp/v1",status="200"}`)
}
