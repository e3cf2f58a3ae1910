package models

import (
	"encoding/json"
	"sort"
	"time"

	"gorm.io/gorm"
)

// EvaluationRun is a persisted batch of normalized results.
type EvaluationRun struct {
	ID                  uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt           time.Time        `json:"created_at"`
	DeletedAt           gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
	RunID               string           `gorm:"type:varchar(64);uniqueIndex;not null" json:"run_id"`
	QueriesFile         string           `gorm:"type:text" json:"queries_file,omitempty"`
	Deployment          string           `gorm:"type:varchar(255)" json:"deployment,omitempty"`
	TotalQueries        int              `json:"total_queries"`
	SuccessfulResponses int              `json:"successful_responses"`
	Responses           []ResponseRecord `gorm:"foreignKey:EvaluationRunID;constraint:OnDelete:CASCADE" json:"responses,omitempty"`
}

// ResponseRecord is one NormalizedResult inside an EvaluationRun.
type ResponseRecord struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	EvaluationRunID uint   `gorm:"index;not null" json:"evaluation_run_id"`
	Position        int    `json:"position"`
	QueryID         string `gorm:"type:varchar(255);index" json:"query_id"`
	Query           string `gorm:"type:text" json:"query"`
	Response        string `gorm:"type:text" json:"response"`
	HistoryJSON     string `gorm:"type:text" json:"history_json"`
	ToolCallsJSON   string `gorm:"type:text" json:"tool_calls_json"`
	Succeeded       bool   `gorm:"index" json:"succeeded"`
}

// NewEvaluationRun converts a batch of results into its persisted form.
func NewEvaluationRun(runID string, results []NormalizedResult) (*EvaluationRun, error) {
	run := &EvaluationRun{
		RunID:        runID,
		TotalQueries: len(results),
		Responses:    make([]ResponseRecord, 0, len(results)),
	}
	for i, result := range results {
		history, err := json.Marshal(nonNilHistory(result.ConversationHistory))
		if err != nil {
			return nil, err
		}
		calls, err := json.Marshal(nonNilCalls(result.ToolCalls))
		if err != nil {
			return nil, err
		}
		if result.Succeeded {
			run.SuccessfulResponses++
		}
		run.Responses = append(run.Responses, ResponseRecord{
			Position:      i,
			QueryID:       result.QueryID,
			Query:         result.Query,
			Response:      result.Response,
			HistoryJSON:   string(history),
			ToolCallsJSON: string(calls),
			Succeeded:     result.Succeeded,
		})
	}
	return run, nil
}

// Results converts the stored records back into normalized results, in position order.
// Records whose JSON columns cannot be decoded come back with empty history or tool calls.
func (r *EvaluationRun) Results() []NormalizedResult {
	records := make([]ResponseRecord, len(r.Responses))
	copy(records, r.Responses)
	sort.SliceStable(records, func(i, j int) bool { return records[i].Position < records[j].Position })

	results := make([]NormalizedResult, len(records))
	for i, rec := range records {
		history := []HistoryEntry{}
		_ = json.Unmarshal([]byte(rec.HistoryJSON), &history)
		calls := []ToolInvocation{}
		_ = json.Unmarshal([]byte(rec.ToolCallsJSON), &calls)
		results[i] = NormalizedResult{
			QueryID:             rec.QueryID,
			Query:               rec.Query,
			Response:            rec.Response,
			ConversationHistory: nonNilHistory(history),
			ToolCalls:           nonNilCalls(calls),
			Succeeded:           rec.Succeeded,
		}
	}
	return results
}

func nonNilHistory(h []HistoryEntry) []HistoryEntry {
	if h == nil {
		return []HistoryEntry{}
	}
	return h
}

func nonNilCalls(c []ToolInvocation) []ToolInvocation {
	if c == nil {
		return []ToolInvocation{}
	}
	return c
}
