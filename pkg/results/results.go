// Package results reads and writes the responses document produced by a batch run.
package results

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tb0hdan/agent-eval/pkg/fileutil"
	"github.com/tb0hdan/agent-eval/pkg/models"
)

// Document is the persisted batch.
type Document struct {
	Responses           []models.NormalizedResult `json:"responses"`
	TotalQueries        int                       `json:"total_queries"`
	SuccessfulResponses int                       `json:"successful_responses"`
}

// NewDocument computes the counters from results.
func NewDocument(results []models.NormalizedResult) Document {
	doc := Document{
		Responses:    make([]models.NormalizedResult, len(results)),
		TotalQueries: len(results),
	}
	for i, r := range results {
		if r.ConversationHistory == nil {
			r.ConversationHistory = []models.HistoryEntry{}
		}
		if r.ToolCalls == nil {
			r.ToolCalls = []models.ToolInvocation{}
		}
		if r.Succeeded {
			doc.SuccessfulResponses++
		}
		doc.Responses[i] = r
	}
	return doc
}

func Write(w io.Writer, results []models.NormalizedResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NewDocument(results)); err != nil {
		return fmt.Errorf("failed to encode responses: %w", err)
	}
	return nil
}

// Save overwrites path with the document for results.
func Save(path string, results []models.NormalizedResult) (Document, error) {
	doc := NewDocument(results)
	err := fileutil.WriteAtomic(path, func(f *os.File) error {
		return Write(f, results)
	})
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Read decodes a document. Success is derived from the response text and the counters
// are recomputed, so a hand-edited file cannot disagree with its responses.
func Read(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode responses: %w", err)
	}
	for i := range doc.Responses {
		doc.Responses[i].Succeeded = !models.IsErrorResponse(doc.Responses[i].Response)
	}
	return NewDocument(doc.Responses), nil
}

func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open responses file: %w", err)
	}
	defer f.Close()

	return Read(f)
}
