// Package catalog holds the static description of the tools offered to the cooking agent,
// in the form evaluators expect.
package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/tb0hdan/agent-eval/pkg/models"
)

// Definitions returns a fresh copy of the catalog, in a fixed order.
func Definitions() []models.ToolDefinition {
	return []models.ToolDefinition{
		{
			ID:          "search_recipes",
			Name:        "search_recipes",
			Description: "Search for recipes based on a query. Returns matching recipes with their basic information.",
			Parameters: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"query": {
						Type:        "string",
						Description: "The search query for recipes (e.g., 'pasta', 'chicken', 'dessert')",
					},
				},
				Required: []string{"query"},
			},
		},
		{
			ID:          "extract_ingredients",
			Name:        "extract_ingredients",
			Description: "Extract and return the full list of ingredients for a specific recipe.",
			Parameters: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"recipe_name": {
						Type:        "string",
						Description: "The name of the recipe to extract ingredients from",
					},
				},
				Required: []string{"recipe_name"},
			},
		},
		{
			ID:          "get_recipe_suggestions",
			Name:        "get_recipe_suggestions",
			Description: "Get recipe suggestions based on dietary preferences or meal type.",
			Parameters: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"dietary_preference": {
						Type:        "string",
						Description: "Dietary preference (e.g., 'quick', 'vegetarian', 'meat', 'dessert')",
						Default:     json.RawMessage(`"any"`),
					},
				},
			},
		},
	}
}

// Names lists the catalog's tool names in catalog order.
func Names() []string {
	defs := Definitions()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

// Issue is a recorded tool call that does not match the catalog.
type Issue struct {
	QueryID string
	Call    int
	Tool    string
	Problem string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: tool call %d (%s): %s", i.QueryID, i.Call, i.Tool, i.Problem)
}

// Check validates every tool call in results against the catalog. Calls naming an unknown
// tool or carrying arguments that fail the tool's parameter schema are reported; absent
// arguments are checked as an empty object.
func Check(results []models.NormalizedResult) ([]Issue, error) {
	resolved := make(map[string]*jsonschema.Resolved)
	for _, def := range Definitions() {
		rs, err := def.Parameters.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("resolve schema for %s: %w", def.Name, err)
		}
		resolved[def.Name] = rs
	}

	var issues []Issue
	for _, result := range results {
		for i, call := range result.ToolCalls {
			name := ""
			if call.Name != nil {
				name = *call.Name
			}
			rs, ok := resolved[name]
			if !ok {
				issues = append(issues, Issue{QueryID: result.QueryID, Call: i, Tool: name, Problem: "unknown tool"})
				continue
			}
			args := call.Arguments
			if args == nil {
				args = map[string]any{}
			}
			if err := rs.Validate(args); err != nil {
				issues = append(issues, Issue{QueryID: result.QueryID, Call: i, Tool: name, Problem: err.Error()})
			}
		}
	}
	return issues, nil
}
