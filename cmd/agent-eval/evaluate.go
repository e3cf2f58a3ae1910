package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tb0hdan/agent-eval/pkg/config"
	"github.com/tb0hdan/agent-eval/pkg/credentials"
	"github.com/tb0hdan/agent-eval/pkg/evaluation"
)

const evaluationTimeout = 2 * time.Minute

func newEvaluateCmd(a *app) *cobra.Command {
	var datasetFile string

	cmd := &cobra.Command{
		Use:   "evaluate [responses]",
		Short: "Upload the evaluation dataset and submit a cloud evaluation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			responsesFile := a.cfg.Run.ResponsesFile
			if len(args) > 0 {
				responsesFile = args[0]
			}
			if datasetFile == "" {
				datasetFile = a.cfg.Run.DatasetFile
			}

			if err := config.RequireEvaluation(a.cfg); err != nil {
				return err
			}

			tokens, err := credentials.NewDefault(credentials.AIProjectScope)
			if err != nil {
				return err
			}
			client := evaluation.NewClient(
				a.cfg.Evaluation.ProjectEndpoint,
				a.cfg.Evaluation.APIVersion,
				tokens.Client(evaluationTimeout),
				evaluation.WithLogger(a.logger),
			)
			submitter := evaluation.NewSubmitter(client, evaluation.SubmitConfig{
				DatasetName:   a.cfg.Evaluation.DatasetName,
				DisplayName:   a.cfg.Evaluation.DisplayName,
				Description:   a.cfg.Evaluation.Description,
				Deployment:    a.cfg.Evaluation.Deployment,
				ModelEndpoint: a.cfg.EffectiveModelEndpoint(),
				ModelAPIKey:   a.cfg.Evaluation.ModelAPIKey,
			}, evaluation.WithSubmitLogger(a.logger))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project endpoint: %s\n", a.cfg.Evaluation.ProjectEndpoint)
			fmt.Fprintf(out, "Model deployment: %s\n", a.cfg.Evaluation.Deployment)

			sub, err := submitter.Submit(cmd.Context(), responsesFile, datasetFile)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Dataset uploaded: %s (v%s, %d records)\n", sub.DatasetName, sub.DatasetVersion, sub.Records)
			fmt.Fprintf(out, "  Dataset ID: %s\n", sub.DatasetID)
			fmt.Fprintf(out, "Evaluators: %v\n", sub.Evaluators)
			fmt.Fprintln(out, "Evaluation submitted:")
			fmt.Fprintf(out, "  Name:   %s\n", sub.Run.Name)
			fmt.Fprintf(out, "  Status: %s\n", sub.Run.Status)
			fmt.Fprintf(out, "Look for %q in the project's Evaluation tab at https://ai.azure.com\n", a.cfg.Evaluation.DisplayName)
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetFile, "dataset", "", "where to write the dataset before upload (default from config)")
	return cmd
}
