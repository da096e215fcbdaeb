package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-frontier/pkg/form"
	"github.com/goliatone/go-frontier/pkg/renderers/prompt"
)

func (a *app) fillCmd() *cobra.Command {
	var rounds int
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the form from the terminal and submit it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.buildForm(cmd.Context())
			if err != nil {
				return err
			}
			session, err := prompt.New(f,
				prompt.WithLogger(a.logger.Named("prompt")),
				prompt.WithMaxRounds(rounds),
			)
			if err != nil {
				return err
			}
			result, err := session.Run(cmd.Context())
			if err != nil {
				return err
			}
			if result.Status != form.StatusSucceeded {
				return fmt.Errorf("submit %s", result.Status)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result.Payload)
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 3, "how many times rejected fields are asked again")
	return cmd
}
