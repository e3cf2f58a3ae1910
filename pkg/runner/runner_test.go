package runner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tb0hdan/agent-eval/pkg/models"
	"github.com/tb0hdan/agent-eval/pkg/normalize"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type fakeEndpoint struct {
	mu      sync.Mutex
	prompts []string
	fail    map[string]error
}

func (f *fakeEndpoint) Run(_ context.Context, prompt string) (*models.ConversationTurn, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if err, ok := f.fail[prompt]; ok {
		return nil, err
	}
	return &models.ConversationTurn{
		Text: "answer to " + prompt,
		Messages: []models.Message{
			{Role: "assistant", Contents: []models.ContentItem{
				models.ToolCallItem("call_1", "search_recipes", `{"query":"pasta"}`),
			}},
			{Role: "assistant", Text: "answer to " + prompt},
		},
	}, nil
}

type recordingObserver struct {
	results []models.NormalizedResult
}

func (o *recordingObserver) ObserveQuery(result models.NormalizedResult, _ time.Duration) {
	o.results = append(o.results, result)
}

func testQueries() []models.Query {
	return []models.Query{
		{ID: "q1", Text: "Find pasta recipes"},
		{ID: "q2", Text: "broken"},
		{ID: "q3", Text: "Suggest quick recipes"},
	}
}

func TestRun_Sequential(t *testing.T) {
	endpoint := &fakeEndpoint{}
	r := New(endpoint)

	results, err := r.Run(context.Background(), []models.Query{{ID: "q1", Text: "Find pasta recipes"}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.True(t, result.Succeeded)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "search_recipes", *result.ToolCalls[0].Name)
	assert.Equal(t, map[string]any{"query": "pasta"}, result.ToolCalls[0].Arguments)
}

func TestRun_FailureDoesNotAbortBatch(t *testing.T) {
	endpoint := &fakeEndpoint{fail: map[string]error{"broken": errors.New("connection refused")}}
	r := New(endpoint)

	results, err := r.Run(context.Background(), testQueries())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []string{"Find pasta recipes", "broken", "Suggest quick recipes"}, endpoint.prompts)

	assert.True(t, results[0].Succeeded)
	assert.Equal(t, "answer to Find pasta recipes", results[0].Response)

	failed := results[1]
	assert.False(t, failed.Succeeded)
	assert.Equal(t, "q2", failed.QueryID)
	assert.Equal(t, "ERROR: connection refused", failed.Response)
	assert.Empty(t, failed.ToolCalls)
	assert.NotNil(t, failed.ToolCalls)
	assert.Empty(t, failed.ConversationHistory)

	assert.True(t, results[2].Succeeded)
	assert.Equal(t, "q3", results[2].QueryID)
}

func TestRun_ProgressAndHook(t *testing.T) {
	var progress []Progress
	var hooked []int

	r := New(&fakeEndpoint{},
		WithProgress(func(p Progress) { progress = append(progress, p) }),
		WithResultHook(func(i int, _ models.NormalizedResult) { hooked = append(hooked, i) }),
	)

	_, err := r.Run(context.Background(), testQueries())
	require.NoError(t, err)

	require.Len(t, progress, 3)
	for i, p := range progress {
		assert.Equal(t, i+1, p.Index)
		assert.Equal(t, 3, p.Total)
	}
	assert.Equal(t, "q2", progress[1].Query.ID)
	assert.Equal(t, []int{0, 1, 2}, hooked)
}

func TestRun_TimeoutBecomesFailure(t *testing.T) {
	slow := EndpointFunc(func(ctx context.Context, prompt string) (*models.ConversationTurn, error) {
		if prompt == "slow" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return &models.ConversationTurn{Text: "fast answer"}, nil
	})

	r := New(slow, WithTimeout(20*time.Millisecond))
	results, err := r.Run(context.Background(), []models.Query{
		{ID: "q1", Text: "slow"},
		{ID: "q2", Text: "fast"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Succeeded)
	assert.True(t, strings.HasPrefix(results[0].Response, "ERROR: "))
	assert.Contains(t, results[0].Response, "deadline exceeded")
	assert.True(t, results[1].Succeeded)
}

func TestRun_ParentCancelStopsBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	endpoint := EndpointFunc(func(ctx context.Context, prompt string) (*models.ConversationTurn, error) {
		if prompt == "broken" {
			cancel()
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return &models.ConversationTurn{Text: "ok"}, nil
	})

	results, err := New(endpoint).Run(ctx, testQueries())
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 1)
	assert.Equal(t, "q1", results[0].QueryID)
}

func TestRun_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	endpoint := &fakeEndpoint{}
	results, err := New(endpoint).Run(ctx, testQueries())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.Empty(t, endpoint.prompts)
}

func TestRun_EmptyQueryTextIsSent(t *testing.T) {
	endpoint := &fakeEndpoint{}
	results, err := New(endpoint).Run(context.Background(), []models.Query{{ID: "q1", Text: ""}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{""}, endpoint.prompts)
}

func TestRun_ObserverAndSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	observer := &recordingObserver{}
	endpoint := &fakeEndpoint{fail: map[string]error{"broken": errors.New("boom")}}
	r := New(endpoint,
		WithTracer(provider.Tracer("test")),
		WithObserver(observer),
		WithNormalizer(normalize.New()),
	)

	_, err := r.Run(context.Background(), testQueries())
	require.NoError(t, err)

	require.Len(t, observer.results, 3)
	assert.False(t, observer.results[1].Succeeded)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	for _, span := range spans {
		assert.Equal(t, "runner.query", span.Name())
	}
	assert.Equal(t, "Error", spans[1].Status().Code.String())
}

func TestReadQueries(t *testing.T) {
	input := `{"queries":[{"id":"a","query":"Find pasta recipes"},{"query":"no id"},{"id":"c","query":""},{"id":"","query":"empty id"}]}`

	queries, err := ReadQueries(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []models.Query{
		{ID: "a", Text: "Find pasta recipes"},
		{ID: "q2", Text: "no id"},
		{ID: "c", Text: ""},
		{ID: "q4", Text: "empty id"},
	}, queries)
}

func TestReadQueries_Invalid(t *testing.T) {
	_, err := ReadQueries(strings.NewReader(`{"queries":`))
	assert.Error(t, err)
}

func TestLoadQueries_MissingFile(t *testing.T) {
	_, err := LoadQueries("/nonexistent/test_queries.json")
	assert.Error(t, err)
}
