// Package api serves the MCP endpoint, the query proxy and operational routes over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tb0hdan/agent-eval/pkg/metrics"
	"github.com/tb0hdan/agent-eval/pkg/models"
)

// Agent answers one prompt in a fresh conversation.
type Agent interface {
	Run(ctx context.Context, prompt string) (*models.ConversationTurn, error)
}

type Options struct {
	Service string
	Version string
	// MCP is mounted at /mcp when set.
	MCP http.Handler
	// Agent backs POST /query when set.
	Agent   Agent
	Metrics *metrics.Metrics
	Auth    *APIKeyAuth
	Logger  zerolog.Logger
}

// NewRouter creates the HTTP router. /mcp and /query sit behind the API key check,
// everything else is public.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(RequestLogger(opts.Logger))
	r.Use(Telemetry)
	if opts.Metrics != nil {
		r.Use(Metrics(opts.Metrics))
	}

	h := &handlers{opts: opts, logger: opts.Logger.With().Str("component", "api").Logger()}

	r.Get("/", h.root)
	r.Get("/health", h.health)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth.Middleware)
		}
		if opts.Agent != nil {
			r.Post("/query", h.query)
		}
		if opts.MCP != nil {
			r.Handle("/mcp", opts.MCP)
		}
	})

	return r
}
