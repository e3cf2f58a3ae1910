// Package config loads agent-eval settings from a YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tb0hdan/agent-eval/pkg/types"
)

const (
	DefaultDeployment      = "gpt-4o-mini"
	DefaultAPIVersion      = "2024-10-21"
	DefaultEvalAPIVersion  = "2025-05-15-preview"
	DefaultDatasetName     = "cooking-agent-test-data"
	DefaultAgentName       = "CookingAgent"
	DefaultBind            = "localhost:8989"
	DefaultServiceName     = "agent-eval"
	DefaultMaxToolIters    = 5
	DefaultEvalDisplayName = "Cooking Agent Evaluation"
	DefaultEvalDescription = "Evaluation of cooking agent responses for quality (relevance, coherence, fluency) " +
		"and agent-specific metrics (intent resolution, tool call accuracy, task adherence)"
)

// DefaultInstructions is the system prompt of the cooking agent.
const DefaultInstructions = `You are a helpful cooking assistant AI agent. You help users find recipes,
extract ingredient lists, and provide cooking suggestions.

When users ask about recipes:
- Use search_recipes to find recipes based on their query
- Use extract_ingredients to get detailed ingredient lists for specific recipes
- Use get_recipe_suggestions to provide recommendations based on preferences

Always be friendly, enthusiastic about cooking, and provide clear, actionable information.
If users ask for recipes not in the database, politely suggest alternatives.`

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} with its value. Unset variables are left as is.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return val
		}
		return match
	})
}

func Defaults() Config {
	return Config{
		Agent: AgentConfig{
			Deployment:        DefaultDeployment,
			APIVersion:        DefaultAPIVersion,
			Name:              DefaultAgentName,
			Instructions:      DefaultInstructions,
			MaxToolIterations: DefaultMaxToolIters,
		},
		Evaluation: EvaluationConfig{
			Deployment:  DefaultDeployment,
			APIVersion:  DefaultEvalAPIVersion,
			DatasetName: DefaultDatasetName,
			DisplayName: DefaultEvalDisplayName,
			Description: DefaultEvalDescription,
		},
		Run: RunConfig{
			QueriesFile:   types.DefaultQueriesFile,
			ResponsesFile: types.DefaultResponsesFile,
			DatasetFile:   types.DefaultDatasetFile,
		},
		Server: ServerConfig{
			Bind:      DefaultBind,
			Transport: "http",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			ServiceName: DefaultServiceName,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (optional), then the
// .env file at envFile (optional), then environment overrides. The result is validated.
func Load(path, envFile string) (Config, error) {
	cfg := Defaults()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)

	if err := Validate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyDefaults refills fields a YAML file may have blanked.
func applyDefaults(cfg *Config) {
	d := Defaults()
	if cfg.Agent.Deployment == "" {
		cfg.Agent.Deployment = d.Agent.Deployment
	}
	if cfg.Agent.APIVersion == "" {
		cfg.Agent.APIVersion = d.Agent.APIVersion
	}
	if cfg.Agent.Name == "" {
		cfg.Agent.Name = d.Agent.Name
	}
	if strings.TrimSpace(cfg.Agent.Instructions) == "" {
		cfg.Agent.Instructions = d.Agent.Instructions
	}
	if cfg.Agent.MaxToolIterations == 0 {
		cfg.Agent.MaxToolIterations = d.Agent.MaxToolIterations
	}
	if cfg.Evaluation.APIVersion == "" {
		cfg.Evaluation.APIVersion = d.Evaluation.APIVersion
	}
	if cfg.Evaluation.DatasetName == "" {
		cfg.Evaluation.DatasetName = d.Evaluation.DatasetName
	}
	if cfg.Evaluation.DisplayName == "" {
		cfg.Evaluation.DisplayName = d.Evaluation.DisplayName
	}
	if cfg.Evaluation.Description == "" {
		cfg.Evaluation.Description = d.Evaluation.Description
	}
	if cfg.Run.QueriesFile == "" {
		cfg.Run.QueriesFile = d.Run.QueriesFile
	}
	if cfg.Run.ResponsesFile == "" {
		cfg.Run.ResponsesFile = d.Run.ResponsesFile
	}
	if cfg.Run.DatasetFile == "" {
		cfg.Run.DatasetFile = d.Run.DatasetFile
	}
	if cfg.Server.Bind == "" {
		cfg.Server.Bind = d.Server.Bind
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = d.Server.Transport
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = d.Logging.Format
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = d.Telemetry.ServiceName
	}
}

func firstEnv(names ...string) (string, bool) {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v, true
		}
	}
	return "", false
}

func envBool(name string) (bool, bool) {
	v := os.Getenv(name)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := firstEnv("AZURE_OPENAI_ENDPOINT"); ok {
		cfg.Agent.Endpoint = v
	}
	if v, ok := firstEnv("AZURE_OPENAI_DEPLOYMENT", "AZURE_AI_MODEL_DEPLOYMENT_NAME"); ok {
		cfg.Agent.Deployment = v
		cfg.Evaluation.Deployment = v
	}
	if v, ok := firstEnv("AZURE_OPENAI_API_KEY"); ok {
		cfg.Agent.APIKey = v
		cfg.Evaluation.ModelAPIKey = v
	}
	if v, ok := firstEnv("AZURE_OPENAI_API_VERSION"); ok {
		cfg.Agent.APIVersion = v
	}
	if v, ok := firstEnv("OPENAI_BASE_URL"); ok {
		cfg.Agent.BaseURL = v
	}
	if v, ok := firstEnv("OPENAI_API_KEY"); ok {
		cfg.Agent.OpenAIAPIKey = v
	}
	if v, ok := firstEnv("PROJECT_ENDPOINT", "AZURE_AI_PROJECT_ENDPOINT"); ok {
		cfg.Evaluation.ProjectEndpoint = v
	}
	if v, ok := firstEnv("MODEL_ENDPOINT"); ok {
		cfg.Evaluation.ModelEndpoint = v
	}
	if v, ok := envBool("AGENT_EVAL_DEBUG"); ok {
		cfg.Run.Debug = v
	}
	if v, ok := firstEnv("AGENT_EVAL_DB"); ok {
		cfg.Storage.DatabasePath = v
	}
	if v, ok := firstEnv("AGENT_EVAL_LOG_LEVEL"); ok {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v, ok := firstEnv("MCP_API_KEYS"); ok {
		cfg.Server.APIKeys = splitList(v)
	}
	if v, ok := envBool("OTEL_ENABLED"); ok {
		cfg.Telemetry.Enabled = v
	}
	if v, ok := firstEnv("OTEL_EXPORTER_OTLP_ENDPOINT"); ok {
		cfg.Telemetry.Endpoint = v
	}
	if v, ok := firstEnv("OTEL_SERVICE_NAME"); ok {
		cfg.Telemetry.ServiceName = v
	}
}

func expandSensitiveFields(cfg *Config) {
	cfg.Agent.APIKey = expandEnvVars(cfg.Agent.APIKey)
	cfg.Agent.OpenAIAPIKey = expandEnvVars(cfg.Agent.OpenAIAPIKey)
	cfg.Evaluation.ModelAPIKey = expandEnvVars(cfg.Evaluation.ModelAPIKey)
	for i, key := range cfg.Server.APIKeys {
		cfg.Server.APIKeys[i] = expandEnvVars(key)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UsesOpenAI reports whether the agent talks to a plain OpenAI compatible endpoint.
func (c AgentConfig) UsesOpenAI() bool {
	return c.BaseURL != ""
}

// EffectiveModelEndpoint falls back to the agent endpoint when no model endpoint is set.
func (c Config) EffectiveModelEndpoint() string {
	if c.Evaluation.ModelEndpoint != "" {
		return c.Evaluation.ModelEndpoint
	}
	return c.Agent.Endpoint
}
