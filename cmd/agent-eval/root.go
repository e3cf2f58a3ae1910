package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tb0hdan/agent-eval/pkg/agent"
	"github.com/tb0hdan/agent-eval/pkg/config"
	"github.com/tb0hdan/agent-eval/pkg/credentials"
	"github.com/tb0hdan/agent-eval/pkg/logging"
	"github.com/tb0hdan/agent-eval/pkg/recipes"
	"github.com/tb0hdan/agent-eval/pkg/storage"
	"github.com/tb0hdan/agent-eval/pkg/telemetry"
	"github.com/tb0hdan/agent-eval/pkg/tools"
	"github.com/tb0hdan/agent-eval/pkg/tools/ingredients"
	"github.com/tb0hdan/agent-eval/pkg/tools/searchrecipes"
	"github.com/tb0hdan/agent-eval/pkg/tools/suggestions"
)

// app carries what every command needs once flags and configuration are resolved.
type app struct {
	cfgFile   string
	envFile   string
	logLevel  string
	logFormat string
	dbPath    string
	debug     bool

	cfg      config.Config
	logger   zerolog.Logger
	shutdown telemetry.ShutdownFunc
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   ServerName,
		Short: "Run, record and evaluate the cooking assistant agent",
		Long: "agent-eval runs a batch of test queries through the cooking assistant agent, normalizes and stores " +
			"the responses, builds an evaluation dataset and submits it for cloud evaluation. It also serves the " +
			"agent's tools over MCP.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "YAML config file")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (console, json)")
	flags.StringVar(&a.dbPath, "db", "", "SQLite database for run and tool call history (disabled when empty)")
	flags.BoolVar(&a.debug, "debug", false, "debug mode")

	cmd.AddCommand(
		newRunCmd(a),
		newDatasetCmd(a),
		newEvaluateCmd(a),
		newChatCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, a.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if flags.Changed("db") {
		cfg.Storage.DatabasePath = a.dbPath
	}
	if a.debug {
		cfg.Run.Debug = true
	}
	// --debug and AGENT_EVAL_DEBUG both turn on debug logging.
	if cfg.Run.Debug {
		cfg.Storage.Debug = true
		cfg.Logging.Level = "debug"
	}
	if err := config.Validate(&cfg); err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	logger.Debug().Msg("debug mode enabled")

	shutdown, err := telemetry.Init(cmd.Context(), cfg.Telemetry, version(), logger)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.shutdown = shutdown
	return nil
}

func (a *app) close(ctx context.Context) {
	if a.shutdown == nil {
		return
	}
	if err := a.shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("telemetry shutdown failed")
	}
}

// openStorage returns nil when no database is configured.
func (a *app) openStorage() (storage.Storage, error) {
	if a.cfg.Storage.DatabasePath == "" {
		return nil, nil
	}
	store, err := storage.NewSQLiteStorage(storage.Config{
		DatabasePath: a.cfg.Storage.DatabasePath,
		Debug:        a.cfg.Storage.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.logger.Info().Str("path", a.cfg.Storage.DatabasePath).Msg("database initialized")
	return store, nil
}

// recipeFunctions are the local tools offered to the agent. Calls are recorded under
// sessionID when store is set.
func recipeFunctions(logger zerolog.Logger, store storage.Storage, sessionID string) []tools.Function {
	book := recipes.Default()
	fns := []tools.Function{
		searchrecipes.New(logger, book),
		ingredients.New(logger, book),
		suggestions.New(logger, book),
	}
	for i, fn := range fns {
		fns[i] = tools.Record(store, sessionID, fn)
	}
	return fns
}

func (a *app) newAgent(store storage.Storage, sessionID string) (*agent.Agent, error) {
	if err := config.RequireAgent(a.cfg); err != nil {
		return nil, err
	}

	var tokens *credentials.TokenSource
	if !a.cfg.Agent.UsesOpenAI() && a.cfg.Agent.APIKey == "" {
		var err error
		tokens, err = credentials.NewDefault(credentials.CognitiveServicesScope)
		if err != nil {
			return nil, err
		}
	}

	client, err := agent.NewClient(a.cfg.Agent, tokens)
	if err != nil {
		return nil, err
	}

	return agent.New(client, agent.Config{
		Model:             a.cfg.Agent.Deployment,
		Name:              a.cfg.Agent.Name,
		Instructions:      a.cfg.Agent.Instructions,
		MaxToolIterations: a.cfg.Agent.MaxToolIterations,
		Logger:            a.logger,
	}, recipeFunctions(a.logger, store, sessionID)...), nil
}

func newSessionID() string {
	return uuid.NewString()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Version: %s\n", ServiceName, version())
		},
	}
}
