package searchrecipes

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/tb0hdan/agent-eval/pkg/recipes"
	"github.com/tb0hdan/agent-eval/pkg/server"
	"github.com/tb0hdan/agent-eval/pkg/tools"
)

const (
	Name        = "search_recipes"
	Description = "Search for recipes based on a query. Returns matching recipes with their basic information."
)

type Input struct {
	Query string `json:"query" jsonschema:"The search query for recipes (e.g., 'pasta', 'chicken', 'dessert')" validate:"required,max=200"`
}

type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
	book      *recipes.Book
}

func (t *Tool) Name() string        { return Name }
func (t *Tool) Description() string { return Description }

func (t *Tool) Schema() *jsonschema.Schema {
	return tools.SchemaFor[Input]()
}

func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name:        Name,
		Description: Description,
	}

	mcp.AddTool(&srv.Server, tool, tools.WrapToolHandler(srv.Storage(), Name, t.SearchHandler))
	t.logger.Debug().Msg("search_recipes tool registered")

	return nil
}

func (t *Tool) SearchHandler(_ context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := t.validator.Struct(input); err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}
	return tools.TextResult(t.search(input)), nil, nil
}

func (t *Tool) Call(_ context.Context, arguments string) (string, error) {
	input, err := tools.DecodeInput[Input](t.validator, arguments)
	if err != nil {
		return "", err
	}
	return t.search(input), nil
}

func (t *Tool) search(input Input) string {
	t.logger.Debug().Str("query", input.Query).Msg("searching recipes")
	return t.book.SearchText(input.Query)
}

func New(logger zerolog.Logger, book *recipes.Book) *Tool {
	return &Tool{
		logger:    logger.With().Str("tool", Name).Logger(),
		validator: validator.New(),
		book:      book,
	}
}
