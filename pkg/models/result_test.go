package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestFailedResult(t *testing.T) {
	q := Query{ID: "q2", Text: "Suggest quick recipes"}
	result := FailedResult(q, errors.New("connection refused"))

	if result.QueryID != "q2" || result.Query != q.Text {
		t.Errorf("unexpected identity fields: %+v", result)
	}
	if result.Response != "ERROR: connection refused" {
		t.Errorf("unexpected response: %q", result.Response)
	}
	if result.Succeeded {
		t.Error("expected Succeeded to be false")
	}
	if !IsErrorResponse(result.Response) {
		t.Error("expected failed response to carry the error prefix")
	}
}

func TestFailedResult_EmptySlicesSerialize(t *testing.T) {
	result := FailedResult(Query{ID: "q1"}, errors.New("boom"))

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"conversation_history":[]`) {
		t.Errorf("expected empty history array, got %s", s)
	}
	if !strings.Contains(s, `"tool_calls":[]`) {
		t.Errorf("expected empty tool_calls array, got %s", s)
	}
	if strings.Contains(s, "Succeeded") || strings.Contains(s, "succeeded") {
		t.Errorf("Succeeded must not be serialized, got %s", s)
	}
}

func TestIsErrorResponse(t *testing.T) {
	if IsErrorResponse("Found 1 recipe") {
		t.Error("plain response flagged as error")
	}
	if IsErrorResponse(" ERROR: leading space") {
		t.Error("prefix must be at the very start")
	}
	if !IsErrorResponse("ERROR:no space") {
		t.Error("expected prefix match without trailing space")
	}
}

func TestToolInvocation_NullFields(t *testing.T) {
	inv := ToolInvocation{Type: ToolCallType}

	data, err := json.Marshal(inv)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	want := `{"type":"tool_call","tool_call_id":null,"name":null,"arguments":null}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestStringPtr(t *testing.T) {
	if StringPtr("") != nil {
		t.Error("expected nil for empty string")
	}
	if p := StringPtr("x"); p == nil || *p != "x" {
		t.Errorf("unexpected pointer value: %v", p)
	}
}
