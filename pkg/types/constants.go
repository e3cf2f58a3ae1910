package types

const (
	// DefaultQueriesFile is the batch input read by the run command.
	DefaultQueriesFile = "test_queries.json"
	// DefaultResponsesFile is where collected responses are written.
	DefaultResponsesFile = "test_responses.json"
	// DefaultDatasetFile is the line-delimited evaluation dataset.
	DefaultDatasetFile = "evaluation_data.jsonl"

	// DefaultHistoryLimit is the page size used by the history tool when none is given.
	DefaultHistoryLimit = 10
	// MaxHistoryLimit caps a single history page.
	MaxHistoryLimit = 100

	// DebugMessageLimit is how many messages of a turn the debug dump inspects.
	DebugMessageLimit = 3
	// DebugContentLimit is how many content items per message the debug dump inspects.
	DebugContentLimit = 2
)
