package suggestions

import (
	"context"
	"encoding/json"
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
	Name        = "get_recipe_suggestions"
	Description = "Get recipe suggestions based on dietary preferences or meal type."

	DefaultPreference = "any"
)

type Input struct {
	DietaryPreference string `json:"dietary_preference,omitempty" jsonschema:"Dietary preference (e.g., 'quick', 'vegetarian', 'meat', 'dessert')" validate:"max=100"`
}

type Tool struct {
	logger    zerolog.Logger
	validator *validator.Validate
	book      *recipes.Book
}

func (t *Tool) Name() string        { return Name }
func (t *Tool) Description() string { return Description }

// Schema advertises the default preference so the model can omit it.
func (t *Tool) Schema() *jsonschema.Schema {
	schema := tools.SchemaFor[Input]()
	if prop, ok := schema.Properties["dietary_preference"]; ok {
		prop.Default = json.RawMessage(`"` + DefaultPreference + `"`)
	}
	return schema
}

func (t *Tool) Register(srv *server.Server) error {
	tool := &mcp.Tool{
		Name:        Name,
		Description: Description,
		InputSchema: t.Schema(),
	}

	mcp.AddTool(&srv.Server, tool, tools.WrapToolHandler(srv.Storage(), Name, t.SuggestionsHandler))
	t.logger.Debug().Msg("get_recipe_suggestions tool registered")

	return nil
}

func (t *Tool) SuggestionsHandler(_ context.Context, _ *mcp.CallToolRequest, input Input) (*mcp.CallToolResult, any, error) {
	if err := t.validator.Struct(input); err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}
	return tools.TextResult(t.suggest(input)), nil, nil
}

func (t *Tool) Call(_ context.Context, arguments string) (string, error) {
	input, err := tools.DecodeInput[Input](t.validator, arguments)
	if err != nil {
		return "", err
	}
	return t.suggest(input), nil
}

func (t *Tool) suggest(input Input) string {
	preference := input.DietaryPreference
	if preference == "" {
		preference = DefaultPreference
	}
	return t.book.SuggestionsText(preference)
}

func New(logger zerolog.Logger, book *recipes.Book) *Tool {
	return &Tool{
		logger:    logger.With().Str("tool", Name).Logger(),
		validator: validator.New(),
		book:      book,
	}
}
