package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/gamedash/internal/catalog"
)

// WatchCatalog subscribes to store and returns a command factory that
// blocks until the next snapshot and delivers it as CatalogUpdated. Only
// the newest unread snapshot is kept; older versions are dropped.
// Call stop to unsubscribe.
func WatchCatalog(store *catalog.Store) (wait func() tea.Cmd, stop func()) {
	ch := make(chan catalog.Snapshot, 1)

	var (
		mu   sync.Mutex
		last uint64
	)
	stop = store.Subscribe(func(snap catalog.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if snap.Version <= last {
			return
		}
		last = snap.Version
		select {
		case <-ch:
		default:
		}
		ch <- snap
	})

	wait = func() tea.Cmd {
		return func() tea.Msg {
			return CatalogUpdated{Snapshot: <-ch}
		}
	}
	return wait, stop
}
