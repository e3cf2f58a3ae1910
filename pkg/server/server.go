package server

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tb0hdan/agent-eval/pkg/storage"
)

// Instructions is sent to MCP clients on initialization.
const Instructions = "Cooking assistant tools: search recipes, extract ingredient lists, " +
	"suggest recipes by preference, ask the cooking agent, and browse recorded history."

type Server struct {
	mcp.Server
	storage storage.Storage
}

func NewServer(impl *mcp.Implementation, store storage.Storage) *Server {
	return &Server{
		Server:  *mcp.NewServer(impl, &mcp.ServerOptions{Instructions: Instructions}),
		storage: store,
	}
}

func (s *Server) Storage() storage.Storage {
	return s.storage
}

// HTTPHandler serves MCP over streamable HTTP. Stateless mode avoids
// "session not found" errors after a restart.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return &s.Server
	}, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects or ctx is done.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

// ToolNames lists the registered tools, sorted, by asking the server over an in-memory session.
func (s *Server) ToolNames(ctx context.Context) ([]string, error) {
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.Connect(ctx, serverTransport, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect server session: %w", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "tool-lister", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect client session: %w", err)
	}
	defer session.Close()

	var names []string
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("failed to list tools: %w", err)
		}
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
