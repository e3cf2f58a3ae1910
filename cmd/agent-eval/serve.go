package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/tb0hdan/agent-eval/pkg/api"
	"github.com/tb0hdan/agent-eval/pkg/metrics"
	"github.com/tb0hdan/agent-eval/pkg/recipes"
	"github.com/tb0hdan/agent-eval/pkg/server"
	"github.com/tb0hdan/agent-eval/pkg/tools"
	"github.com/tb0hdan/agent-eval/pkg/tools/ask"
	"github.com/tb0hdan/agent-eval/pkg/tools/history"
	"github.com/tb0hdan/agent-eval/pkg/tools/ingredients"
	"github.com/tb0hdan/agent-eval/pkg/tools/searchrecipes"
	"github.com/tb0hdan/agent-eval/pkg/tools/suggestions"
)

func newServeCmd(a *app) *cobra.Command {
	var transport, bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recipe tools and the agent over MCP (stdio or HTTP)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("transport") {
				a.cfg.Server.Transport = transport
			}
			if cmd.Flags().Changed("bind") {
				a.cfg.Server.Bind = bind
			}
			if a.cfg.Server.Transport != "http" && a.cfg.Server.Transport != "stdio" {
				return fmt.Errorf("unknown transport %q (want http or stdio)", a.cfg.Server.Transport)
			}

			store, err := a.openStorage()
			if err != nil {
				return err
			}

			srv := server.NewServer(&mcp.Implementation{Name: ServerName, Version: version()}, store)
			defer func() {
				if err := srv.Shutdown(context.Background()); err != nil {
					a.logger.Error().Err(err).Msg("shutdown error")
				}
			}()

			book := recipes.Default()
			toolList := []tools.Tool{
				searchrecipes.New(a.logger, book),
				ingredients.New(a.logger, book),
				suggestions.New(a.logger, book),
			}
			if store != nil {
				toolList = append(toolList, history.New(a.logger))
			}

			var queryAgent api.Agent
			ag, err := a.newAgent(store, newSessionID())
			if err != nil {
				a.logger.Warn().Err(err).Msg("agent unavailable, ask_agent and /query disabled")
			} else {
				queryAgent = ag
				toolList = append(toolList, ask.New(a.logger, ag))
			}

			for _, tool := range toolList {
				if err := tool.Register(srv); err != nil {
					a.logger.Error().Err(err).Msg("failed to register tool")
				}
			}

			if a.cfg.Server.Transport == "stdio" {
				a.logger.Info().Msg("serving MCP over stdio")
				return srv.ServeStdio(cmd.Context())
			}

			return serveHTTP(cmd.Context(), a, api.NewRouter(api.Options{
				Service: ServiceName,
				Version: version(),
				MCP:     srv.HTTPHandler(),
				Agent:   queryAgent,
				Metrics: metrics.New(),
				Auth:    api.NewAPIKeyAuth(a.cfg.Server.APIKeys),
				Logger:  a.logger,
			}))
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "http", "MCP transport (http, stdio)")
	cmd.Flags().StringVar(&bind, "bind", "", "bind address (host:port) for the HTTP transport")
	return cmd
}

func serveHTTP(ctx context.Context, a *app, handler http.Handler) error {
	bindAddr := a.cfg.Server.Bind
	httpSrv := &http.Server{
		Addr:              bindAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.Info().Msgf("%s starting on address %s", ServiceName, bindAddr)
	a.logger.Info().Msgf("MCP endpoint available at: http://%s/mcp", bindAddr)
	if len(a.cfg.Server.APIKeys) > 0 {
		a.logger.Info().Int("keys", len(a.cfg.Server.APIKeys)).Msg("API key authentication enabled for /mcp and /query")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("%s failed to start: %w", ServerName, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s shutdown error: %w", ServiceName, err)
	}
	a.logger.Info().Msgf("%s shutdown complete", ServiceName)
	return nil
}
