package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abelbrown/gamedash/internal/ingest"
)

// syncCmd asks the backend to ingest a game from Steam
var syncCmd = &cobra.Command{
	Use:   "sync <appid>",
	Short: "Ingest a game from Steam by app id",
	Long: `Ask the catalog backend to fetch a game from Steam and add or update it
in the collection, then reload the collection.

Prints the confirmation on success. On failure prints the reason (the
backend's own message when it gives one) and exits 1.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	ctrl := ingest.NewController(e.client, e.catalog)
	ctrl.OnChange(func(m ingest.Machine) {
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "sync: %s\n", m.State)
		}
	})

	ctrl.Edit(args[0])
	msg, err := ctrl.Submit(cmd.Context())
	if err != nil {
		return errors.New(msg.Text)
	}

	fmt.Fprintln(cmd.OutOrStdout(), msg.Text)
	if snap := e.catalog.Snapshot(); snap.Err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Collection now has %d games.\n", len(snap.Games))
	}
	return nil
}
