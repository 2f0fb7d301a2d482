// Command gamedash is a terminal dashboard for a game catalog backend.
//
// With no arguments it starts the interactive TUI. Subcommands print the
// same views for scripts: list, genres, stats, sync and health.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// Global flags
var (
	configPath string
	baseURL    string
	locale     string
	noCache    bool
	verbose    bool
)

// rootCmd starts the TUI
var rootCmd = &cobra.Command{
	Use:   "gamedash",
	Short: "Browse, filter and chart a game catalog",
	Long: `gamedash shows the games held by a catalog backend as a sortable,
filterable table with genre and free/paid charts, and can ask the backend
to ingest a game from Steam by app id.

Settings come from ~/.gamedash/config.json, GAMEDASH_* environment
variables and the flags below, in increasing order of precedence.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.gamedash/config.json)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Catalog backend URL (or set GAMEDASH_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "", "BCP 47 locale for name ordering (or set GAMEDASH_LOCALE)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Do not read or write the local snapshot cache")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(genresCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "gamedash:", err)
		os.Exit(1)
	}
}
