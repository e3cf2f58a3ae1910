package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tb0hdan/agent-eval/pkg/models"
	"github.com/tb0hdan/agent-eval/pkg/storage"
)

// WrapToolHandler wraps an MCP tool handler to record its executions.
func WrapToolHandler[In, Out any](
	store storage.Storage,
	toolName string,
	handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error),
) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error) {
	if store == nil {
		return handler
	}
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Out, error) {
		startTime := time.Now()

		sessionID := ""
		if req != nil && req.Session != nil {
			sessionID = req.Session.ID()
		}

		inputJSON, _ := json.Marshal(input)

		result, output, err := handler(ctx, req, input)

		exec := &models.ToolExecution{
			SessionID:  sessionID,
			Source:     models.SourceMCP,
			ToolName:   toolName,
			InputJSON:  string(inputJSON),
			DurationMs: time.Since(startTime).Milliseconds(),
			Success:    err == nil,
		}
		if err != nil {
			exec.ErrorMessage = err.Error()
		} else {
			exec.OutputText = ResultText(result)
		}

		// Background context: the record should be written even if the request is cancelled.
		go func() { //nolint:contextcheck
			_ = store.CreateToolExecution(context.Background(), exec)
		}()

		return result, output, err
	}
}

type recordedFunction struct {
	Function
	store     storage.Storage
	sessionID string
}

// Record wraps an agent function so each call is stored under sessionID before it returns.
func Record(store storage.Storage, sessionID string, fn Function) Function {
	if store == nil {
		return fn
	}
	return &recordedFunction{Function: fn, store: store, sessionID: sessionID}
}

func (r *recordedFunction) Call(ctx context.Context, arguments string) (string, error) {
	startTime := time.Now()
	output, err := r.Function.Call(ctx, arguments)

	exec := &models.ToolExecution{
		SessionID:  r.sessionID,
		Source:     models.SourceAgent,
		ToolName:   r.Name(),
		InputJSON:  arguments,
		OutputText: output,
		DurationMs: time.Since(startTime).Milliseconds(),
		Success:    err == nil,
	}
	if err != nil {
		exec.ErrorMessage = err.Error()
	}
	// A failed write must not change what the model sees.
	_ = r.store.CreateToolExecution(context.WithoutCancel(ctx), exec)

	return output, err
}
