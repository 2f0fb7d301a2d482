// Package catalog holds the raw game collection the dashboard derives its
// views from.
//
// # Thread Safety
//
// Store is safe for concurrent use. The collection is published as a whole
// slice under a lock and never edited afterwards, so a Snapshot never sees
// a half-applied refresh. Refreshes are not serialized against each other or
// against syncs; whichever finishes last wins.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/abelbrown/gamedash/internal/logging"
	"github.com/abelbrown/gamedash/internal/model"
)

// Loader fetches the full collection. Satisfied by *fetch.Client.
type Loader interface {
	ListGames(ctx context.Context) ([]model.Game, error)
}

// Saver persists a freshly loaded collection. Satisfied by *store.Store.
type Saver interface {
	SaveGames(games []model.Game) error
}

// Snapshot is a consistent view of the store at one instant.
type Snapshot struct {
	Games    []model.Game // never nil; treat as read-only
	Loading  bool         // a refresh is in flight
	Err      error        // last refresh failure, cleared by the next success
	LoadedAt time.Time    // when Games was last replaced from the backend
	Stale    bool         // Games came from the local cache, not the backend
	Version  uint64       // bumps on every change
}

// Store owns the raw collection and its load status.
type Store struct {
	loader Loader
	saver  Saver

	mu       sync.RWMutex
	snap     Snapshot
	inflight int
	subs     map[int]func(Snapshot)
	nextSub  int
}

// NewStore creates an empty store that refreshes from loader.
// saver may be nil.
func NewStore(loader Loader, saver Saver) *Store {
	return &Store{
		loader: loader,
		saver:  saver,
		snap:   Snapshot{Games: []model.Game{}},
		subs:   make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Games returns the current collection. Do not modify the result.
func (s *Store) Games() []model.Game {
	return s.Snapshot().Games
}

// Seed installs a collection from the local cache. It is marked Stale and
// ignored once any backend load has succeeded.
func (s *Store) Seed(games []model.Game) {
	s.update(func(snap *Snapshot) bool {
		if !snap.LoadedAt.IsZero() {
			return false
		}
		snap.Games = publish(games)
		snap.Stale = true
		return true
	})
}

// Refresh reloads the whole collection from the backend.
//
// On success the collection is replaced wholesale and the error cleared.
// On failure the previous collection is kept and the error recorded.
// Loading is cleared either way once no other refresh is in flight.
func (s *Store) Refresh(ctx context.Context) error {
	s.update(func(snap *Snapshot) bool {
		s.inflight++
		snap.Loading = true
		return true
	})

	games, err := s.loader.ListGames(ctx)

	s.update(func(snap *Snapshot) bool {
		s.inflight--
		snap.Loading = s.inflight > 0
		if err != nil {
			snap.Err = err
			return true
		}
		snap.Games = publish(games)
		snap.Err = nil
		snap.Stale = false
		snap.LoadedAt = time.Now()
		return true
	})

	if err != nil {
		logging.Warn("Refresh failed", "error", err)
		return err
	}

	logging.Info("Refreshed collection", "games", len(games))
	if s.saver != nil {
		if serr := s.saver.SaveGames(games); serr != nil {
			logging.Warn("Failed to cache collection", "error", serr)
		}
	}
	return nil
}

// Subscribe registers fn to be called with every new snapshot. fn runs on
// the goroutine that changed the store and must not block. Concurrent
// changes may deliver snapshots out of order; compare Version. Call the
// returned func to unsubscribe.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// update applies fn under the write lock and notifies subscribers when fn
// reports a change.
func (s *Store) update(fn func(snap *Snapshot) bool) {
	s.mu.Lock()
	if !fn(&s.snap) {
		s.mu.Unlock()
		return
	}
	s.snap.Version++
	snap := s.snap
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

// publish copies games into a fresh slice that nothing else references.
func publish(games []model.Game) []model.Game {
	out := make([]model.Game, len(games))
	copy(out, games)
	return out
}
