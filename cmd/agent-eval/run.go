package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tb0hdan/agent-eval/pkg/catalog"
	"github.com/tb0hdan/agent-eval/pkg/config"
	"github.com/tb0hdan/agent-eval/pkg/metrics"
	"github.com/tb0hdan/agent-eval/pkg/models"
	"github.com/tb0hdan/agent-eval/pkg/normalize"
	"github.com/tb0hdan/agent-eval/pkg/results"
	"github.com/tb0hdan/agent-eval/pkg/runner"
)

func newRunCmd(a *app) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run [queries] [output]",
		Short: "Run the test queries through the agent and save the normalized responses",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			queriesFile := a.cfg.Run.QueriesFile
			outputFile := a.cfg.Run.ResponsesFile
			if len(args) > 0 {
				queriesFile = args[0]
			}
			if len(args) > 1 {
				outputFile = args[1]
			}

			// Fail on missing configuration before any query is sent.
			if err := config.RequireAgent(a.cfg); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			queries, err := runner.LoadQueries(queriesFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Loaded %d test queries from %s\n", len(queries), queriesFile)

			store, err := a.openStorage()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			runID := newSessionID()
			ag, err := a.newAgent(store, runID)
			if err != nil {
				return err
			}

			m := metrics.New()
			if metricsAddr != "" {
				stopMetrics := serveMetrics(a, metricsAddr, m.Handler())
				defer stopMetrics()
			}

			r := runner.New(ag,
				runner.WithTimeout(a.cfg.Run.QueryTimeout),
				runner.WithNormalizer(normalize.New(
					normalize.WithDebug(a.cfg.Run.Debug),
					normalize.WithLogger(a.logger),
				)),
				runner.WithLogger(a.logger),
				runner.WithObserver(m),
				runner.WithProgress(func(p runner.Progress) {
					fmt.Fprintf(out, "[%d/%d] Processing: %s\n", p.Index, p.Total, p.Query.Text)
				}),
				runner.WithResultHook(func(_ int, res models.NormalizedResult) {
					if res.Succeeded {
						fmt.Fprintf(out, "    Response collected (%d chars, %d tool calls)\n", len(res.Response), len(res.ToolCalls))
						return
					}
					fmt.Fprintf(out, "    %s\n", res.Response)
				}),
			)

			fmt.Fprintf(out, "Running %s (%s) with run id %s\n", a.cfg.Agent.Name, a.cfg.Agent.Deployment, runID)
			collected, err := r.Run(cmd.Context(), queries)
			if err != nil {
				return fmt.Errorf("run stopped after %d of %d queries, nothing was written: %w", len(collected), len(queries), err)
			}

			doc, err := results.Save(outputFile, collected)
			if err != nil {
				return err
			}

			if store != nil {
				run, err := models.NewEvaluationRun(runID, collected)
				if err != nil {
					return err
				}
				run.QueriesFile = queriesFile
				run.Deployment = a.cfg.Agent.Deployment
				if err := store.CreateRun(cmd.Context(), run); err != nil {
					return fmt.Errorf("failed to store run: %w", err)
				}
			}

			issues, err := catalog.Check(collected)
			if err != nil {
				return err
			}
			for _, issue := range issues {
				a.logger.Warn().Str("issue", issue.String()).Msg("tool call does not match catalog")
			}

			fmt.Fprintf(out, "Saved %d responses (%d successful) to %s\n", doc.TotalQueries, doc.SuccessfulResponses, outputFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the batch runs")
	return cmd
}

// serveMetrics exposes h on addr until the returned stop function is called.
func serveMetrics(a *app, addr string, h http.Handler) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()
	a.logger.Info().Str("addr", addr).Msg("metrics available at /metrics")

	return func() {
		_ = srv.Close()
	}
}
