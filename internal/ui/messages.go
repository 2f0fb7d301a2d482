// Package ui provides the Bubble Tea TUI for gamedash.
package ui

import (
	"github.com/abelbrown/gamedash/internal/catalog"
	"github.com/abelbrown/gamedash/internal/model"
)

// CatalogUpdated is sent whenever the record store publishes a new snapshot.
type CatalogUpdated struct {
	Snapshot catalog.Snapshot
}

// RefreshDone is sent when a refresh started by the UI finishes. The new
// collection (or the error) arrives separately as CatalogUpdated.
type RefreshDone struct {
	Err error
}

// SyncCompleted is sent when the sync request finishes.
type SyncCompleted struct {
	AppID string
	Game  model.Game
	Err   error
}
