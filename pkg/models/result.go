package models

import "strings"

// ErrorPrefix marks a response that was synthesized from an endpoint failure.
const ErrorPrefix = "ERROR:"

// ToolCallType is the fixed type tag written on every tool invocation record.
const ToolCallType = "tool_call"

// Query is one test input.
type Query struct {
	ID   string `json:"id"`
	Text string `json:"query"`
}

// QueryFile is the on-disk batch of queries.
type QueryFile struct {
	Queries []Query `json:"queries"`
}

// HistoryEntry is a retained message of a conversation turn.
type HistoryEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ToolInvocation is a tool call flattened out of a conversation turn.
type ToolInvocation struct {
	Type      string         `json:"type"`
	CallID    *string        `json:"tool_call_id"`
	Name      *string        `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// NormalizedResult is the stable record produced for a single query.
type NormalizedResult struct {
	QueryID             string           `json:"query_id"`
	Query               string           `json:"query"`
	Response            string           `json:"response"`
	ConversationHistory []HistoryEntry   `json:"conversation_history"`
	ToolCalls           []ToolInvocation `json:"tool_calls"`
	// Succeeded is carried alongside the text; it is recomputed from Response when loaded.
	Succeeded bool `json:"-"`
}

// IsErrorResponse reports whether a response text was synthesized from a failure.
func IsErrorResponse(text string) bool {
	return strings.HasPrefix(text, ErrorPrefix)
}

// FailedResult builds the record for a query whose endpoint call failed.
func FailedResult(query Query, err error) NormalizedResult {
	description := "unknown error"
	if err != nil {
		description = err.Error()
	}
	return NormalizedResult{
		QueryID:             query.ID,
		Query:               query.Text,
		Response:            ErrorPrefix + " " + description,
		ConversationHistory: []HistoryEntry{},
		ToolCalls:           []ToolInvocation{},
		Succeeded:           false,
	}
}

// StringPtr returns nil for an empty string, otherwise a pointer to a copy of s.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
