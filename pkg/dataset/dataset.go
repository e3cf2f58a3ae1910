// Package dataset folds normalized results and the tool catalog into a JSONL evaluation dataset.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tb0hdan/agent-eval/pkg/fileutil"
	"github.com/tb0hdan/agent-eval/pkg/models"
)

// Records builds one evaluation record per result, in input order.
// Every record carries the full catalog, and both lists are never nil.
func Records(results []models.NormalizedResult, catalog []models.ToolDefinition) []models.EvaluationRecord {
	definitions := catalog
	if definitions == nil {
		definitions = []models.ToolDefinition{}
	}

	records := make([]models.EvaluationRecord, len(results))
	for i, result := range results {
		calls := result.ToolCalls
		if calls == nil {
			calls = []models.ToolInvocation{}
		}
		records[i] = models.EvaluationRecord{
			Query:           result.Query,
			Response:        result.Response,
			ToolCalls:       calls,
			ToolDefinitions: definitions,
		}
	}
	return records
}

// Build writes one JSON object per line and returns the number of records written.
func Build(w io.Writer, results []models.NormalizedResult, catalog []models.ToolDefinition) (int, error) {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	records := Records(results, catalog)
	for i, record := range records {
		if err := enc.Encode(record); err != nil {
			return i, fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return len(records), fmt.Errorf("failed to flush dataset: %w", err)
	}
	return len(records), nil
}

// BuildFile replaces path with the dataset.
func BuildFile(path string, results []models.NormalizedResult, catalog []models.ToolDefinition) (int, error) {
	var n int
	err := fileutil.WriteAtomic(path, func(f *os.File) error {
		var err error
		n, err = Build(f, results, catalog)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
