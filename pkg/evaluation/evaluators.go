// Package evaluation uploads evaluation datasets to an Azure AI Foundry project and submits
// cloud evaluations against them.
package evaluation

import "sort"

// BuiltinEvaluatorPrefix prefixes the ids of the service's built-in evaluators.
const BuiltinEvaluatorPrefix = "azureai://built-in/evaluators/"

// Evaluator names.
const (
	Relevance        = "relevance"
	Coherence        = "coherence"
	Fluency          = "fluency"
	IntentResolution = "intent_resolution"
	ToolCallAccuracy = "tool_call_accuracy"
	TaskAdherence    = "task_adherence"
)

// Evaluator configures one evaluator of a run. DataMapping maps evaluator inputs to dataset
// columns using ${data.<column>} references.
type Evaluator struct {
	ID          string            `json:"id"`
	InitParams  map[string]any    `json:"initParams,omitempty"`
	DataMapping map[string]string `json:"dataMapping,omitempty"`
}

// InputDataset references an uploaded dataset version.
type InputDataset struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Evaluation is the body of an evaluation run request.
type Evaluation struct {
	DisplayName string               `json:"displayName"`
	Description string               `json:"description,omitempty"`
	Data        InputDataset         `json:"data"`
	Evaluators  map[string]Evaluator `json:"evaluators"`
}

// BuiltinEvaluator configures a built-in evaluator judged by the given model deployment.
// Every evaluator reads query and response; extra names add more dataset columns.
func BuiltinEvaluator(name, deployment string, extraColumns ...string) Evaluator {
	mapping := map[string]string{
		"query":    "${data.query}",
		"response": "${data.response}",
	}
	for _, col := range extraColumns {
		mapping[col] = "${data." + col + "}"
	}
	return Evaluator{
		ID:          BuiltinEvaluatorPrefix + name,
		InitParams:  map[string]any{"deployment_name": deployment},
		DataMapping: mapping,
	}
}

// DefaultEvaluators is the quality set (relevance, coherence, fluency) plus the agent set
// (intent resolution, tool call accuracy, task adherence).
func DefaultEvaluators(deployment string) map[string]Evaluator {
	return map[string]Evaluator{
		Relevance:        BuiltinEvaluator(Relevance, deployment),
		Coherence:        BuiltinEvaluator(Coherence, deployment),
		Fluency:          BuiltinEvaluator(Fluency, deployment),
		IntentResolution: BuiltinEvaluator(IntentResolution, deployment),
		ToolCallAccuracy: BuiltinEvaluator(ToolCallAccuracy, deployment, "tool_calls", "tool_definitions"),
		TaskAdherence:    BuiltinEvaluator(TaskAdherence, deployment),
	}
}

// NewEvaluation assembles a run over a dataset version id.
func NewEvaluation(displayName, description, datasetID string, evaluators map[string]Evaluator) Evaluation {
	return Evaluation{
		DisplayName: displayName,
		Description: description,
		Data:        InputDataset{Type: "dataset", ID: datasetID},
		Evaluators:  evaluators,
	}
}

// EvaluatorNames lists the configured evaluators, sorted.
func (e Evaluation) EvaluatorNames() []string {
	names := make([]string, 0, len(e.Evaluators))
	for name := range e.Evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
