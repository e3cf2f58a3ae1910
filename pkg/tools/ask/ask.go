package ask

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/agent-eval/pkg/models"
	"github.com/tb0hdan/agent-eval/pkg/server"
	"github.com/tb0hdan/agent-eval/pkg/tools"
)

const (
	Name        = "ask_agent"
	Description = "Ask the cooking agent a question. The agent may search recipes, extract ingredients " +
		"and suggest recipes before answering."
)

type Input struct {
	Message string `json:"message" jsonschema:"the question for the cooking agent" validate:"required,max=4000"`
}

// Agent answers one prompt in a fresh conversation.
type Agent interface {
	Run(ctx context.Context, prompt string) (*models.ConversationTurn, error)
}

type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
	agent     Agent
}

func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name:        Name,
		Description: Description,
	}

	mcp.AddTool(&srv.Server, tool, tools.WrapToolHandler(srv.Storage(), Name, t.AskHandler))
	t.logger.Debug().Msg("ask_agent tool registered")

	return nil
}

func (t *Tool) AskHandler(ctx context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := t.validator.Struct(input); err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}

	start := time.Now()
	turn, err := t.agent.Run(ctx, input.Message)
	if err != nil {
		t.logger.Error().Err(err).Msg("agent run failed")
		return nil, nil, fmt.Errorf("agent run failed: %w", err)
	}
	t.logger.Info().
		Dur("duration", time.Since(start)).
		Int("messages", len(turn.Messages)).
		Msg("agent answered")

	return tools.TextResult(turn.Text), nil, nil
}

func New(logger zerolog.Logger, agent Agent) *Tool {
	return &Tool{
		logger:    logger.With().Str("tool", Name).Logger(),
		validator: validator.New(),
		agent:     agent,
	}
}
