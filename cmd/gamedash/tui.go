package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abelbrown/gamedash/internal/fetch"
	"github.com/abelbrown/gamedash/internal/logging"
	"github.com/abelbrown/gamedash/internal/ui"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	wait, stop := ui.WatchCatalog(e.catalog)
	defer stop()

	cfg := ui.AppConfig{
		WaitForCatalog: wait,
		Refresh: func() tea.Cmd {
			return func() tea.Msg {
				return ui.RefreshDone{Err: e.catalog.Refresh(ctx)}
			}
		},
		Sync: func(appID string) tea.Cmd {
			return func() tea.Msg {
				attempt := uuid.NewString()
				logging.Info("Sync requested", "appid", appID, "attempt", attempt)

				g, err := e.client.SyncSteam(fetch.WithRequestID(ctx, attempt), appID)
				if err != nil {
					logging.Warn("Sync failed", "appid", appID, "attempt", attempt, "error", err)
				}
				return ui.SyncCompleted{AppID: appID, Game: g, Err: err}
			}
		},
		Snapshot:   e.catalog.Snapshot(),
		View:       e.cfg.View(),
		Locale:     e.cfg.LocaleTag(),
		ShowCharts: e.cfg.UI.ShowCharts,
	}

	program := tea.NewProgram(ui.NewApp(cfg), tea.WithAltScreen(), tea.WithContext(ctx))

	// Run UI (blocks until quit)
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		logging.Error("TUI exited", "error", err)
		return err
	}
	return nil
}
