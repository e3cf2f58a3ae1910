package tools

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tb0hdan/agent-eval/pkg/server"
)

// Tool is registered on the MCP server.
type Tool interface {
	Register(srv *server.Server) error
}

// Function is a tool the agent can call locally. Arguments arrive as the raw JSON
// string produced by the model.
type Function interface {
	Name() string
	Description() string
	Schema() *jsonschema.Schema
	Call(ctx context.Context, arguments string) (string, error)
}

// TextResult wraps text in a tool result.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// ResultText joins the text content of a tool result.
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	var out string
	for _, c := range result.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			out += tc.Text
		}
	}
	return out
}
