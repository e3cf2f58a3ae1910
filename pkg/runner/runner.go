// Package runner drives a batch of queries through an agent endpoint, one isolated turn at a time.
package runner

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/tb0hdan/agent-eval/pkg/models"
	"github.com/tb0hdan/agent-eval/pkg/normalize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/tb0hdan/agent-eval/pkg/runner"

// Endpoint runs one conversational turn. Every call must start a fresh conversation.
type Endpoint interface {
	Run(ctx context.Context, prompt string) (*models.ConversationTurn, error)
}

// EndpointFunc adapts a function to Endpoint.
type EndpointFunc func(ctx context.Context, prompt string) (*models.ConversationTurn, error)

func (f EndpointFunc) Run(ctx context.Context, prompt string) (*models.ConversationTurn, error) {
	return f(ctx, prompt)
}

// Progress is emitted before each query is sent. Index is 1-based.
type Progress struct {
	Index int
	Total int
	Query models.Query
}

// Observer sees every finished query.
type Observer interface {
	ObserveQuery(result models.NormalizedResult, duration time.Duration)
}

type Option func(*Runner)

func WithProgress(fn func(Progress)) Option {
	return func(r *Runner) { r.progress = fn }
}

// WithResultHook is called after each query with its 0-based position and result.
func WithResultHook(fn func(int, models.NormalizedResult)) Option {
	return func(r *Runner) { r.hook = fn }
}

// WithTimeout bounds each endpoint call. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

func WithNormalizer(n *normalize.Normalizer) Option {
	return func(r *Runner) {
		if n != nil {
			r.normalizer = n
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) { r.logger = logger.With().Str("component", "runner").Logger() }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

type Runner struct {
	endpoint   Endpoint
	normalizer *normalize.Normalizer
	logger     zerolog.Logger
	tracer     trace.Tracer
	observer   Observer
	progress   func(Progress)
	hook       func(int, models.NormalizedResult)
	timeout    time.Duration
}

func New(endpoint Endpoint, opts ...Option) *Runner {
	r := &Runner{
		endpoint:   endpoint,
		normalizer: normalize.New(),
		logger:     zerolog.Nop(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes queries sequentially in input order. An endpoint failure becomes a failed
// result and the batch continues. If ctx is cancelled the batch stops and the results
// gathered so far are returned together with the context error.
func (r *Runner) Run(ctx context.Context, queries []models.Query) ([]models.NormalizedResult, error) {
	results := make([]models.NormalizedResult, 0, len(queries))

	for i, query := range queries {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if r.progress != nil {
			r.progress(Progress{Index: i + 1, Total: len(queries), Query: query})
		}

		result, err := r.runOne(ctx, query)
		if err != nil {
			return results, err
		}

		results = append(results, result)
		if r.hook != nil {
			r.hook(i, result)
		}
	}

	return results, nil
}

func (r *Runner) runOne(ctx context.Context, query models.Query) (models.NormalizedResult, error) {
	spanCtx, span := r.tracer.Start(ctx, "runner.query",
		trace.WithAttributes(attribute.String("query.id", query.ID)))
	defer span.End()

	callCtx := spanCtx
	cancel := func() {}
	if r.timeout > 0 {
		callCtx, cancel = context.WithTimeout(spanCtx, r.timeout)
	}

	start := time.Now()
	turn, err := r.endpoint.Run(callCtx, query.Text)
	cancel()
	duration := time.Since(start)

	var result models.NormalizedResult
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			span.SetStatus(codes.Error, "cancelled")
			return models.NormalizedResult{}, ctxErr
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Warn().Err(err).Str("query_id", query.ID).Msg("query failed")
		result = models.FailedResult(query, err)
	} else {
		result = r.normalizer.Normalize(query, turn)
		r.logger.Debug().
			Str("query_id", query.ID).
			Int("response_chars", len(result.Response)).
			Int("tool_calls", len(result.ToolCalls)).
			Msg("response collected")
	}

	span.SetAttributes(
		attribute.Bool("query.succeeded", result.Succeeded),
		attribute.Int("query.tool_calls", len(result.ToolCalls)),
	)
	if r.observer != nil {
		r.observer.ObserveQuery(result, duration)
	}

	return result, nil
}
