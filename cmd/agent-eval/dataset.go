package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tb0hdan/agent-eval/pkg/catalog"
	"github.com/tb0hdan/agent-eval/pkg/dataset"
	"github.com/tb0hdan/agent-eval/pkg/results"
)

func newDatasetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dataset [responses] [output]",
		Short: "Convert saved responses into the line-delimited evaluation dataset",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			responsesFile := a.cfg.Run.ResponsesFile
			outputFile := a.cfg.Run.DatasetFile
			if len(args) > 0 {
				responsesFile = args[0]
			}
			if len(args) > 1 {
				outputFile = args[1]
			}

			doc, err := results.Load(responsesFile)
			if err != nil {
				return err
			}
			n, err := dataset.BuildFile(outputFile, doc.Responses, catalog.Definitions())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created evaluation dataset: %s (%d records)\n", outputFile, n)
			return nil
		},
	}
}
