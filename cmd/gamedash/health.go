package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// healthCmd checks that the backend is reachable
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the catalog backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.client.Health(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok %s\n", e.client.BaseURL())
		return nil
	},
}
