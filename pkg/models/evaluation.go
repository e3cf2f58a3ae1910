package models

import "github.com/google/jsonschema-go/jsonschema"

// ToolDefinition describes a tool offered to the agent, in the shape evaluators expect.
type ToolDefinition struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// EvaluationRecord is one line of the evaluation dataset.
type EvaluationRecord struct {
	Query           string           `json:"query"`
	Response        string           `json:"response"`
	ToolCalls       []ToolInvocation `json:"tool_calls"`
	ToolDefinitions []ToolDefinition `json:"tool_definitions"`
}
