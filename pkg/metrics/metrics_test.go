package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tb0hdan/agent-eval/pkg/models"
)

func TestObserveQuery(t *testing.T) {
	m := New()
	search := "search_recipes"

	m.ObserveQuery(models.NormalizedResult{
		Succeeded: true,
		ToolCalls: []models.ToolInvocation{{Name: &search}, {Name: &search}, {}},
	}, 2*time.Second)
	m.ObserveQuery(models.FailedResult(models.Query{ID: "q2"}, assert.AnError), time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("search_recipes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("unknown")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.queryLatency))
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("/query", 200)
	m.ObserveRequest("/query", 200)
	m.ObserveRequest("/mcp", 401)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/query", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/mcp", "401")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("/health", 200)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "agent_eval_http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}
