package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tb0hdan/agent-eval/pkg/models"
)

// ReadQueries decodes a queries document. Queries with a missing or empty id get
// q<position>, 1-based.
func ReadQueries(r io.Reader) ([]models.Query, error) {
	var file models.QueryFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode queries: %w", err)
	}

	queries := make([]models.Query, len(file.Queries))
	for i, q := range file.Queries {
		if q.ID == "" {
			q.ID = fmt.Sprintf("q%d", i+1)
		}
		queries[i] = q
	}
	return queries, nil
}

func LoadQueries(path string) ([]models.Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open queries file: %w", err)
	}
	defer f.Close()

	return ReadQueries(f)
}
