package models

import (
	"errors"
	"testing"
)

func TestNewEvaluationRun(t *testing.T) {
	results := []NormalizedResult{
		{
			QueryID:  "q1",
			Query:    "Find pasta recipes",
			Response: "Found 1 recipe",
			ConversationHistory: []HistoryEntry{
				{Role: RoleAssistant, Content: "Found 1 recipe"},
			},
			ToolCalls: []ToolInvocation{
				{Type: ToolCallType, Name: StringPtr("search_recipes"), Arguments: map[string]any{"query": "pasta"}},
			},
			Succeeded: true,
		},
		FailedResult(Query{ID: "q2", Text: "x"}, errors.New("timeout")),
	}

	run, err := NewEvaluationRun("run-1", results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.TotalQueries != 2 {
		t.Errorf("expected 2 total queries, got %d", run.TotalQueries)
	}
	if run.SuccessfulResponses != 1 {
		t.Errorf("expected 1 successful response, got %d", run.SuccessfulResponses)
	}
	if len(run.Responses) != 2 {
		t.Fatalf("expected 2 response records, got %d", len(run.Responses))
	}
	if run.Responses[1].Position != 1 {
		t.Errorf("expected position 1, got %d", run.Responses[1].Position)
	}
	if run.Responses[1].HistoryJSON != "[]" {
		t.Errorf("expected empty history JSON array, got %s", run.Responses[1].HistoryJSON)
	}
}

func TestEvaluationRun_ResultsRoundTrip(t *testing.T) {
	results := []NormalizedResult{
		{
			QueryID:             "q1",
			Query:               "Find pasta recipes",
			Response:            "Found 1 recipe",
			ConversationHistory: []HistoryEntry{{Role: RoleAssistant, Content: "Found 1 recipe"}},
			ToolCalls: []ToolInvocation{
				{Type: ToolCallType, CallID: StringPtr("call_1"), Name: StringPtr("search_recipes"), Arguments: map[string]any{"query": "pasta"}},
			},
			Succeeded: true,
		},
	}
	run, err := NewEvaluationRun("run-1", results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	back := run.Results()
	if len(back) != 1 {
		t.Fatalf("expected 1 result, got %d", len(back))
	}
	got := back[0]
	if got.QueryID != "q1" || !got.Succeeded {
		t.Errorf("unexpected result: %+v", got)
	}
	if len(got.ToolCalls) != 1 || *got.ToolCalls[0].Name != "search_recipes" {
		t.Errorf("unexpected tool calls: %+v", got.ToolCalls)
	}
	if got.ToolCalls[0].Arguments["query"] != "pasta" {
		t.Errorf("unexpected arguments: %+v", got.ToolCalls[0].Arguments)
	}
}

func TestEvaluationRun_ResultsOrderedByPosition(t *testing.T) {
	run := &EvaluationRun{
		Responses: []ResponseRecord{
			{Position: 1, QueryID: "q2", HistoryJSON: "[]", ToolCallsJSON: "[]"},
			{Position: 0, QueryID: "q1", HistoryJSON: "not json", ToolCallsJSON: ""},
		},
	}

	results := run.Results()
	if results[0].QueryID != "q1" || results[1].QueryID != "q2" {
		t.Errorf("expected position order, got %s, %s", results[0].QueryID, results[1].QueryID)
	}
	if results[0].ConversationHistory == nil || results[0].ToolCalls == nil {
		t.Error("undecodable columns must come back as empty slices")
	}
}
