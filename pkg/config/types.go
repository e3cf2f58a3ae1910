package config

import "time"

// Config is the full configuration for agent-eval.
type Config struct {
	Agent      AgentConfig      `yaml:"agent"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Run        RunConfig        `yaml:"run"`
	Storage    StorageConfig    `yaml:"storage"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// AgentConfig selects the chat endpoint that backs the cooking agent. When BaseURL is set
// the endpoint is treated as a plain OpenAI compatible API instead of Azure OpenAI.
type AgentConfig struct {
	Endpoint          string        `yaml:"endpoint" validate:"omitempty,url"`
	Deployment        string        `yaml:"deployment" validate:"required"`
	APIKey            string        `yaml:"apiKey"`
	APIVersion        string        `yaml:"apiVersion" validate:"required"`
	BaseURL           string        `yaml:"baseURL" validate:"omitempty,url"`
	OpenAIAPIKey      string        `yaml:"openaiAPIKey"`
	Name              string        `yaml:"name"`
	Instructions      string        `yaml:"instructions"`
	MaxToolIterations int           `yaml:"maxToolIterations" validate:"min=1,max=20"`
	RequestTimeout    time.Duration `yaml:"requestTimeout" validate:"min=0"`
}

// EvaluationConfig points at the cloud project that scores the dataset.
type EvaluationConfig struct {
	ProjectEndpoint string `yaml:"projectEndpoint" validate:"omitempty,url"`
	ModelEndpoint   string `yaml:"modelEndpoint" validate:"omitempty,url"`
	ModelAPIKey     string `yaml:"modelAPIKey"`
	Deployment      string `yaml:"deployment" validate:"required"`
	APIVersion      string `yaml:"apiVersion" validate:"required"`
	DatasetName     string `yaml:"datasetName" validate:"required"`
	DisplayName     string `yaml:"displayName"`
	Description     string `yaml:"description"`
}

type RunConfig struct {
	QueriesFile   string        `yaml:"queriesFile"`
	ResponsesFile string        `yaml:"responsesFile"`
	DatasetFile   string        `yaml:"datasetFile"`
	QueryTimeout  time.Duration `yaml:"queryTimeout" validate:"min=0"`
	Debug         bool          `yaml:"debug"`
}

type StorageConfig struct {
	DatabasePath string `yaml:"databasePath"`
	Debug        bool   `yaml:"debug"`
}

type ServerConfig struct {
	Bind      string   `yaml:"bind" validate:"required,hostname_port"`
	Transport string   `yaml:"transport" validate:"oneof=http stdio"`
	APIKeys   []string `yaml:"apiKeys"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"serviceName"`
}
