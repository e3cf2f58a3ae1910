package results

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tb0hdan/agent-eval/pkg/models"
)

func batch() []models.NormalizedResult {
	name := "search_recipes"
	return []models.NormalizedResult{
		{
			QueryID:             "q1",
			Query:               "Find pasta recipes",
			Response:            "Found 1 recipe <Pasta Carbonara> & more",
			ConversationHistory: []models.HistoryEntry{{Role: models.RoleAssistant, Content: "Found 1 recipe"}},
			ToolCalls: []models.ToolInvocation{{
				Type: models.ToolCallType, Name: &name, Arguments: map[string]any{"query": "pasta"},
			}},
			Succeeded: true,
		},
		models.FailedResult(models.Query{ID: "q2", Text: "Suggest quick recipes"}, assert.AnError),
		{QueryID: "q3", Query: "Hi", Response: "Hello!", Succeeded: true},
	}
}

func TestNewDocument_Counters(t *testing.T) {
	doc := NewDocument(batch())
	assert.Equal(t, 3, doc.TotalQueries)
	assert.Equal(t, 2, doc.SuccessfulResponses)
	assert.NotNil(t, doc.Responses[2].ToolCalls)
	assert.NotNil(t, doc.Responses[2].ConversationHistory)
}

func TestWrite_Format(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, batch()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{\n  \"responses\": [\n"))
	assert.Contains(t, out, "<Pasta Carbonara> & more")
	assert.Contains(t, out, `"total_queries": 3`)
	assert.Contains(t, out, `"successful_responses": 2`)
	assert.NotContains(t, out, "Succeeded")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	responses := raw["responses"].([]any)
	third := responses[2].(map[string]any)
	assert.Equal(t, []any{}, third["tool_calls"])
	assert.Equal(t, []any{}, third["conversation_history"])
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_responses.json")

	saved, err := Save(path, batch())
	require.NoError(t, err)
	assert.Equal(t, 2, saved.SuccessfulResponses)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestSave_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_responses.json")

	_, err := Save(path, batch())
	require.NoError(t, err)
	_, err = Save(path, batch()[:1])
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.TotalQueries)
	require.Len(t, loaded.Responses, 1)
}

func TestRead_RecomputesCounters(t *testing.T) {
	input := `{
  "responses": [
    {"query_id": "q1", "query": "a", "response": "fine", "conversation_history": [], "tool_calls": []},
    {"query_id": "q2", "query": "b", "response": "ERROR: timeout", "conversation_history": [], "tool_calls": []},
    {"query_id": "q3", "query": "c", "response": "also fine"}
  ],
  "total_queries": 99,
  "successful_responses": 99
}`
	doc, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, doc.TotalQueries)
	assert.Equal(t, 2, doc.SuccessfulResponses)
	assert.False(t, doc.Responses[1].Succeeded)
	assert.NotNil(t, doc.Responses[2].ToolCalls)

	successful := 0
	for _, r := range doc.Responses {
		if !strings.HasPrefix(r.Response, models.ErrorPrefix) {
			successful++
		}
	}
	assert.Equal(t, successful, doc.SuccessfulResponses)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSave_NoPartialFileOnBadDir(t *testing.T) {
	_, err := Save(filepath.Join(t.TempDir(), "nope", "out.json"), batch())
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(t.TempDir(), "nope"))
	assert.True(t, os.IsNotExist(statErr))
}
