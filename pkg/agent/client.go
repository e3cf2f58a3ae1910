package agent

import (
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/tb0hdan/agent-eval/pkg/config"
	"github.com/tb0hdan/agent-eval/pkg/credentials"
)

// NewClient builds the chat client for cfg. Azure endpoints authenticate with the API key
// when one is set, otherwise with Entra ID bearer tokens from tokens.
func NewClient(cfg config.AgentConfig, tokens *credentials.TokenSource) (*openai.Client, error) {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	if cfg.UsesOpenAI() {
		c := openai.DefaultConfig(cfg.OpenAIAPIKey)
		c.BaseURL = cfg.BaseURL
		c.HTTPClient = httpClient
		return openai.NewClientWithConfig(c), nil
	}

	if cfg.Endpoint == "" {
		return nil, errors.New("azure endpoint is not configured")
	}

	c := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	if cfg.APIKey == "" {
		if tokens == nil {
			return nil, errors.New("no API key and no token source for Azure endpoint")
		}
		c.APIType = openai.APITypeAzureAD
		httpClient.Transport = tokens.Transport(nil)
	}
	c.APIVersion = cfg.APIVersion
	// Deployment names are used as given.
	c.AzureModelMapperFunc = func(model string) string { return model }
	c.HTTPClient = httpClient

	return openai.NewClientWithConfig(c), nil
}
