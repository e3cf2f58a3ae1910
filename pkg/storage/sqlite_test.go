package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tb0hdan/agent-eval/pkg/models"
)

func setupTestDB(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()

	store, err := NewSQLiteStorage(Config{DatabasePath: filepath.Join(t.TempDir(), "agent-eval.db")})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return store, func() { store.Close() }
}

// seed stores one execution per entry and returns them in insertion order.
func seed(t *testing.T, store *SQLiteStorage, execs ...models.ToolExecution) []models.ToolExecution {
	t.Helper()
	for i := range execs {
		if err := store.CreateToolExecution(context.Background(), &execs[i]); err != nil {
			t.Fatalf("failed to create execution %d: %v", i, err)
		}
	}
	return execs
}

func agentCall(runID, tool string) models.ToolExecution {
	return models.ToolExecution{SessionID: runID, Source: models.SourceAgent, ToolName: tool, Success: true}
}

func TestNewSQLiteStorage_InvalidPath(t *testing.T) {
	if _, err := NewSQLiteStorage(Config{DatabasePath: "/nonexistent/path/test.db"}); err == nil {
		t.Fatal("expected error for invalid path")
	}
}

func TestToolExecution_RoundTrip(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []models.ToolExecution{
		{
			SessionID:  "run-1",
			Source:     models.SourceAgent,
			ToolName:   "search_recipes",
			InputJSON:  `{"query":"pasta"}`,
			OutputText: "Found 1 recipe(s)",
			DurationMs: 3,
			Success:    true,
		},
		{
			Source:       models.SourceMCP,
			ToolName:     "extract_ingredients",
			InputJSON:    `{}`,
			ErrorMessage: "validation error",
			DurationMs:   1,
		},
	}

	for _, want := range seed(t, store, tests...) {
		if want.ID == 0 || want.CreatedAt.IsZero() {
			t.Fatalf("expected ID and CreatedAt to be set, got %+v", want)
		}
		got, err := store.GetToolExecution(context.Background(), want.ID)
		if err != nil {
			t.Fatalf("failed to get execution %d: %v", want.ID, err)
		}
		if got.ToolName != want.ToolName || got.Source != want.Source || got.SessionID != want.SessionID {
			t.Errorf("identity mismatch: got %+v, want %+v", got, want)
		}
		if got.Success != want.Success || got.ErrorMessage != want.ErrorMessage || got.OutputText != want.OutputText {
			t.Errorf("outcome mismatch: got %+v, want %+v", got, want)
		}
	}

	if _, err := store.GetToolExecution(context.Background(), 99999); err == nil {
		t.Error("expected error for non-existent execution")
	}
}

func TestGetToolExecutions_Pagination(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	executions, total, err := store.GetToolExecutions(ctx, 10, 0)
	if err != nil || total != 0 || len(executions) != 0 {
		t.Fatalf("expected empty history, got %d/%d (err %v)", len(executions), total, err)
	}

	var calls []models.ToolExecution
	for i := 0; i < 15; i++ {
		calls = append(calls, agentCall("run-1", "search_recipes"))
	}
	stored := seed(t, store, calls...)

	tests := []struct {
		limit, offset, want int
	}{
		{limit: 10, offset: 0, want: 10},
		{limit: 10, offset: 10, want: 5},
		{limit: 0, offset: 0, want: 15},
	}
	for _, tt := range tests {
		executions, total, err := store.GetToolExecutions(ctx, tt.limit, tt.offset)
		if err != nil {
			t.Fatalf("GetToolExecutions(%d, %d): %v", tt.limit, tt.offset, err)
		}
		if total != 15 {
			t.Errorf("expected total 15, got %d", total)
		}
		if len(executions) != tt.want {
			t.Errorf("GetToolExecutions(%d, %d) returned %d, want %d", tt.limit, tt.offset, len(executions), tt.want)
		}
	}

	executions, _, _ = store.GetToolExecutions(ctx, 1, 0)
	if len(executions) != 1 || executions[0].ID != stored[len(stored)-1].ID {
		t.Errorf("expected newest execution first, got %+v", executions)
	}
}

func TestGetToolExecutions_Filters(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seed(t, store,
		agentCall("run-a", "search_recipes"),
		agentCall("run-b", "extract_ingredients"),
		agentCall("run-a", "extract_ingredients"),
		agentCall("run-a", "search_recipes"),
		models.ToolExecution{Source: models.SourceMCP, ToolName: "search_recipes"},
	)

	bySession, err := store.GetToolExecutionsBySession(ctx, "run-a")
	if err != nil {
		t.Fatalf("failed to get executions by session: %v", err)
	}
	if len(bySession) != 3 {
		t.Errorf("expected 3 executions for run-a, got %d", len(bySession))
	}
	for _, exec := range bySession {
		if exec.SessionID != "run-a" {
			t.Errorf("expected run-a, got %s", exec.SessionID)
		}
	}

	byTool, err := store.GetToolExecutionsByTool(ctx, "search_recipes", 0)
	if err != nil {
		t.Fatalf("failed to get executions by tool: %v", err)
	}
	if len(byTool) != 3 {
		t.Errorf("expected 3 search_recipes executions, got %d", len(byTool))
	}

	byTool, err = store.GetToolExecutionsByTool(ctx, "search_recipes", 2)
	if err != nil {
		t.Fatalf("failed to get executions by tool with limit: %v", err)
	}
	if len(byTool) != 2 {
		t.Errorf("expected 2 search_recipes executions with limit, got %d", len(byTool))
	}
}

func TestDeleteToolExecutions(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	stored := seed(t, store,
		agentCall("run-1", "search_recipes"),
		agentCall("run-1", "extract_ingredients"),
		agentCall("run-1", "get_recipe_suggestions"),
	)

	if err := store.DeleteToolExecution(ctx, stored[0].ID); err != nil {
		t.Fatalf("failed to delete execution: %v", err)
	}
	if _, err := store.GetToolExecution(ctx, stored[0].ID); err == nil {
		t.Error("expected error when getting deleted execution")
	}
	if _, total, _ := store.GetToolExecutions(ctx, 10, 0); total != 2 {
		t.Errorf("expected 2 executions after delete, got %d", total)
	}

	if err := store.DeleteAllToolExecutions(ctx); err != nil {
		t.Fatalf("failed to delete all executions: %v", err)
	}
	if _, total, _ := store.GetToolExecutions(ctx, 10, 0); total != 0 {
		t.Errorf("expected 0 executions after delete all, got %d", total)
	}
}

func TestClose(t *testing.T) {
	store, _ := setupTestDB(t)
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close storage: %v", err)
	}
}

func newTestRun(t *testing.T, runID string) *models.EvaluationRun {
	t.Helper()

	results := []models.NormalizedResult{
		{
			QueryID:             "q1",
			Query:               "Find pasta recipes",
			Response:            "Found 1 recipe",
			ConversationHistory: []models.HistoryEntry{{Role: models.RoleAssistant, Content: "Found 1 recipe"}},
			ToolCalls:           []models.ToolInvocation{},
			Succeeded:           true,
		},
		{
			QueryID:             "q2",
			Query:               "Suggest quick recipes",
			Response:            "ERROR: timeout",
			ConversationHistory: []models.HistoryEntry{},
			ToolCalls:           []models.ToolInvocation{},
			Succeeded:           false,
		},
	}
	run, err := models.NewEvaluationRun(runID, results)
	if err != nil {
		t.Fatalf("failed to build run: %v", err)
	}
	return run
}

func TestCreateRun(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	run := newTestRun(t, "run-a")

	if err := store.CreateRun(ctx, run); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	if run.ID == 0 {
		t.Error("expected non-zero run ID after creation")
	}
	for _, rec := range run.Responses {
		if rec.EvaluationRunID != run.ID {
			t.Errorf("expected response record linked to run %d, got %d", run.ID, rec.EvaluationRunID)
		}
	}
}

func TestCreateRun_DuplicateRunID(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.CreateRun(ctx, newTestRun(t, "run-dup")); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}
	if err := store.CreateRun(ctx, newTestRun(t, "run-dup")); err == nil {
		t.Fatal("expected error for duplicate run id")
	}
}

func TestGetRun(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.CreateRun(ctx, newTestRun(t, "run-b")); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	run, err := store.GetRun(ctx, "run-b")
	if err != nil {
		t.Fatalf("failed to get run: %v", err)
	}
	if run.TotalQueries != 2 || run.SuccessfulResponses != 1 {
		t.Errorf("unexpected counters: total=%d successful=%d", run.TotalQueries, run.SuccessfulResponses)
	}
	if len(run.Responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(run.Responses))
	}
	if run.Responses[0].QueryID != "q1" || run.Responses[1].QueryID != "q2" {
		t.Errorf("expected responses in position order, got %s, %s", run.Responses[0].QueryID, run.Responses[1].QueryID)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := store.GetRun(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for non-existent run")
	}
}

func TestGetRuns(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	for _, id := range []string{"run-1", "run-2", "run-3"} {
		if err := store.CreateRun(ctx, newTestRun(t, id)); err != nil {
			t.Fatalf("failed to create run %s: %v", id, err)
		}
	}

	runs, total, err := store.GetRuns(ctx, 2, 0)
	if err != nil {
		t.Fatalf("failed to list runs: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if len(runs) > 0 && runs[0].RunID != "run-3" {
		t.Errorf("expected newest run first, got %s", runs[0].RunID)
	}
}

func TestDeleteRun(t *testing.T) {
	store, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.CreateRun(ctx, newTestRun(t, "run-del")); err != nil {
		t.Fatalf("failed to create run: %v", err)
	}

	if err := store.DeleteRun(ctx, "run-del"); err != nil {
		t.Fatalf("failed to delete run: %v", err)
	}
	if _, err := store.GetRun(ctx, "run-del"); err == nil {
		t.Error("expected error when getting deleted run")
	}
	if err := store.DeleteRun(ctx, "run-del"); err == nil {
		t.Error("expected error when deleting a missing run")
	}
}
