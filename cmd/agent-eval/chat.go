package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the cooking agent interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStorage()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			ag, err := a.newAgent(store, newSessionID())
			if err != nil {
				return err
			}
			thread := ag.NewThread()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s is ready. Type 'exit' to quit.\n", a.cfg.Agent.Name)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "\nYou: ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				turn, err := thread.Send(cmd.Context(), line)
				if err != nil {
					if cmd.Context().Err() != nil {
						return cmd.Context().Err()
					}
					fmt.Fprintf(out, "Error: %v\n", err)
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", a.cfg.Agent.Name, turn.Text)
			}
			return scanner.Err()
		},
	}
}
