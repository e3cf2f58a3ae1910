package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/agent-eval/pkg/server"
	"github.com/tb0hdan/agent-eval/pkg/storage"
	"github.com/tb0hdan/agent-eval/pkg/tools"
	"github.com/tb0hdan/agent-eval/pkg/types"
)

const (
	Name        = "history"
	Description = "Browse recorded tool calls and stored evaluation runs. Actions: list (paginated tool calls, " +
		"optionally filtered by tool), get (tool call by id), session (tool calls of one session), delete (tool call by id), " +
		"clear (all tool calls), runs (paginated evaluation runs), run (evaluation run by run_id)."
)

type Input struct {
	Action    string `json:"action" jsonschema:"one of list, get, session, delete, clear, runs, run" validate:"required,oneof=list get session delete clear runs run"`
	ID        uint   `json:"id,omitempty" jsonschema:"tool call id for get and delete"`
	RunID     string `json:"run_id,omitempty" jsonschema:"evaluation run id for run" validate:"max=64"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session id for session" validate:"max=255"`
	Tool      string `json:"tool,omitempty" jsonschema:"restrict list to one tool" validate:"max=255"`
	Limit     int    `json:"limit,omitempty" validate:"min=0,max=100"`
	Offset    int    `json:"offset,omitempty" validate:"min=0"`
}

type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
	store     storage.Storage
}

func (t *Tool) Register(srv *server.Server) error {
	if srv.Storage() == nil {
		return errors.New("history tool needs storage")
	}
	tool := &mcp.Tool{
		Name:        Name,
		Description: Description,
	}

	t.store = srv.Storage()

	mcp.AddTool(&srv.Server, tool, t.HistoryHandler)
	t.logger.Debug().Msg("history tool registered")

	return nil
}

func (t *Tool) HistoryHandler(ctx context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := t.validator.Struct(input); err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}

	limit := input.Limit
	if limit == 0 {
		limit = types.DefaultHistoryLimit
	}

	var payload any

	switch input.Action {
	case "list":
		if input.Tool != "" {
			executions, err := t.store.GetToolExecutionsByTool(ctx, input.Tool, limit)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to list executions: %w", err)
			}
			payload = map[string]any{
				"tool":       input.Tool,
				"limit":      limit,
				"executions": executions,
			}
			break
		}
		executions, total, err := t.store.GetToolExecutions(ctx, limit, input.Offset)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list executions: %w", err)
		}
		payload = map[string]any{
			"total":      total,
			"limit":      limit,
			"offset":     input.Offset,
			"executions": executions,
		}

	case "get":
		if input.ID == 0 {
			return nil, nil, errors.New("id is required for get action")
		}
		exec, err := t.store.GetToolExecution(ctx, input.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("execution not found: %w", err)
		}
		payload = exec

	case "session":
		if input.SessionID == "" {
			return nil, nil, errors.New("session_id is required for session action")
		}
		executions, err := t.store.GetToolExecutionsBySession(ctx, input.SessionID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list session executions: %w", err)
		}
		payload = map[string]any{
			"session_id": input.SessionID,
			"executions": executions,
		}

	case "delete":
		if input.ID == 0 {
			return nil, nil, errors.New("id is required for delete action")
		}
		if err := t.store.DeleteToolExecution(ctx, input.ID); err != nil {
			return nil, nil, fmt.Errorf("failed to delete execution: %w", err)
		}
		return tools.TextResult(fmt.Sprintf("Execution %d deleted successfully", input.ID)), nil, nil

	case "clear":
		if err := t.store.DeleteAllToolExecutions(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to clear executions: %w", err)
		}
		return tools.TextResult("All execution history cleared"), nil, nil

	case "runs":
		runs, total, err := t.store.GetRuns(ctx, limit, input.Offset)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list runs: %w", err)
		}
		payload = map[string]any{
			"total":  total,
			"limit":  limit,
			"offset": input.Offset,
			"runs":   runs,
		}

	case "run":
		if input.RunID == "" {
			return nil, nil, errors.New("run_id is required for run action")
		}
		run, err := t.store.GetRun(ctx, input.RunID)
		if err != nil {
			return nil, nil, fmt.Errorf("run not found: %w", err)
		}
		responses := run.Results()
		run.Responses = nil
		payload = map[string]any{
			"run":       run,
			"responses": responses,
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return tools.TextResult(string(data)), nil, nil
}

func New(logger zerolog.Logger) *Tool {
	return &Tool{
		logger:    logger.With().Str("tool", Name).Logger(),
		validator: validator.New(),
	}
}
