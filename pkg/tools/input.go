package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/jsonschema-go/jsonschema"
)

// DecodeInput parses model supplied arguments into In and validates them.
// Blank arguments decode to the zero value.
func DecodeInput[In any](validate *validator.Validate, arguments string) (In, error) {
	var input In
	if strings.TrimSpace(arguments) != "" {
		if err := json.Unmarshal([]byte(arguments), &input); err != nil {
			return input, fmt.Errorf("invalid arguments: %w", err)
		}
	}
	if err := validate.Struct(input); err != nil {
		return input, fmt.Errorf("validation error: %w", err)
	}
	return input, nil
}

// SchemaFor infers the JSON schema of a tool input type.
func SchemaFor[In any]() *jsonschema.Schema {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		panic(fmt.Sprintf("tools: schema for %T: %v", *new(In), err))
	}
	return schema
}
