package ingredients

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
	Name        = "extract_ingredients"
	Description = "Extract and return the full list of ingredients for a specific recipe."
)

type Input struct {
	RecipeName string `json:"recipe_name" jsonschema:"The name of the recipe to extract ingredients from" validate:"required,max=200"`
}

type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
	book      *recipes.Book
}

func (t *Tool) Name() string               { return Name }
func (t *Tool) Description() string        { return Description }
func (t *Tool) Schema() *jsonschema.Schema { return tools.SchemaFor[Input]() }

func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name:        Name,
		Description: Description,
	}

	mcp.AddTool(&srv.Server, tool, tools.WrapToolHandler(srv.Storage(), Name, t.IngredientsHandler))
	t.logger.Debug().Msg("extract_ingredients tool registered")

	return nil
}

func (t *Tool) IngredientsHandler(_ context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := t.validator.Struct(input); err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}
	return tools.TextResult(t.book.IngredientsText(input.RecipeName)), nil, nil
}

func (t *Tool) Call(_ context.Context, arguments string) (string, error) {
	input, err := tools.DecodeInput[Input](t.validator, arguments)
	if err != nil {
		return "", err
	}
	return t.book.IngredientsText(input.RecipeName), nil
}

func New(logger zerolog.Logger, book *recipes.Book) *Tool {
	return &Tool{
		logger:    logger.With().Str("tool", Name).Logger(),
		validator: validator.New(),
		book:      book,
	}
}
