package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tb0hdan/agent-eval/pkg/catalog"
	"github.com/tb0hdan/agent-eval/pkg/dataset"
	"github.com/tb0hdan/agent-eval/pkg/results"
)

// VersionLayout formats dataset versions from the submission time in UTC.
const VersionLayout = "20060102-150405"

// Service is the part of Client the Submitter uses.
type Service interface {
	UploadDataset(ctx context.Context, name, version, path string) (DatasetVersion, error)
	CreateEvaluation(ctx context.Context, ev Evaluation, modelEndpoint, modelAPIKey string) (Run, error)
}

type SubmitConfig struct {
	DatasetName   string
	DisplayName   string
	Description   string
	Deployment    string
	ModelEndpoint string
	ModelAPIKey   string
}

// Submission describes what was uploaded and submitted.
type Submission struct {
	Records        int
	DatasetName    string
	DatasetVersion string
	DatasetID      string
	Evaluators     []string
	Run            Run
}

type Submitter struct {
	service Service
	cfg     SubmitConfig
	now     func() time.Time
	logger  zerolog.Logger
}

type SubmitterOption func(*Submitter)

// WithClock replaces the UTC wall clock used for version stamps.
func WithClock(now func() time.Time) SubmitterOption {
	return func(s *Submitter) { s.now = now }
}

func WithSubmitLogger(logger zerolog.Logger) SubmitterOption {
	return func(s *Submitter) { s.logger = logger.With().Str("component", "evaluation").Logger() }
}

func utcNow() time.Time { return time.Now().UTC() }

func NewSubmitter(service Service, cfg SubmitConfig, opts ...SubmitterOption) *Submitter {
	s := &Submitter{service: service, cfg: cfg, now: utcNow, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit builds the dataset file from the responses file, uploads it as a new dataset
// version and starts an evaluation over it.
func (s *Submitter) Submit(ctx context.Context, responsesFile, datasetFile string) (*Submission, error) {
	doc, err := results.Load(responsesFile)
	if err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}
	n, err := dataset.BuildFile(datasetFile, doc.Responses, catalog.Definitions())
	if err != nil {
		return nil, fmt.Errorf("build dataset: %w", err)
	}
	s.logger.Info().Str("file", datasetFile).Int("records", n).Msg("evaluation dataset prepared")

	sub := &Submission{
		Records:        n,
		DatasetName:    s.cfg.DatasetName,
		DatasetVersion: s.now().Format(VersionLayout),
	}

	version, err := s.service.UploadDataset(ctx, sub.DatasetName, sub.DatasetVersion, datasetFile)
	if err != nil {
		return nil, err
	}
	sub.DatasetID = version.ID
	s.logger.Info().Str("dataset", sub.DatasetName).Str("version", sub.DatasetVersion).Str("id", sub.DatasetID).Msg("dataset uploaded")

	ev := NewEvaluation(s.cfg.DisplayName, s.cfg.Description, sub.DatasetID, DefaultEvaluators(s.cfg.Deployment))
	sub.Evaluators = ev.EvaluatorNames()

	run, err := s.service.CreateEvaluation(ctx, ev, s.cfg.ModelEndpoint, s.cfg.ModelAPIKey)
	if err != nil {
		return nil, err
	}
	sub.Run = run
	s.logger.Info().Str("name", run.Name).Str("status", run.Status).Msg("evaluation submitted")

	return sub, nil
}
