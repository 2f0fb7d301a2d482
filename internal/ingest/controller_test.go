package ingest_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/abelbrown/gamedash/internal/catalog"
	"github.com/abelbrown/gamedash/internal/fetch"
	"github.com/abelbrown/gamedash/internal/fetch/fetchtest"
	"github.com/abelbrown/gamedash/internal/ingest"
	"github.com/abelbrown/gamedash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	srv   *fetchtest.Server
	store *catalog.Store
	ctrl  *ingest.Controller
}

func newHarness(t *testing.T, games ...model.Game) harness {
	t.Helper()
	srv := fetchtest.NewServer(t, games...)
	client := fetch.NewClient(srv.URL, fetch.Options{PageSize: 10, Timeout: 5 * time.Second})
	store := catalog.NewStore(client, nil)
	require.NoError(t, store.Refresh(context.Background()))
	return harness{srv: srv, store: store, ctrl: ingest.NewController(client, store)}
}

func TestSyncSuccessRefreshesCollection(t *testing.T) {
	h := newHarness(t)
	h.srv.AddSteamApp(fetchtest.SteamApp{AppID: 620, Name: "Portal 2", Genres: []string{"Action", "Puzzle"}})
	listCalls := h.srv.ListCalls.Load()

	var states []ingest.State
	h.ctrl.OnChange(func(m ingest.Machine) { states = append(states, m.State) })

	h.ctrl.Edit("620")
	msg, err := h.ctrl.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, `Synced "Portal 2" (appid: 620).`, msg.Text)
	assert.Equal(t, ingest.KindConfirmation, msg.Kind)

	m := h.ctrl.Machine()
	assert.Equal(t, ingest.Idle, m.State)
	assert.Empty(t, m.Input, "input cleared")

	assert.Greater(t, h.srv.ListCalls.Load(), listCalls, "full refresh issued")
	games := h.store.Games()
	require.Len(t, games, 1)
	assert.Equal(t, "Portal 2", games[0].Name)

	assert.Equal(t, []ingest.State{
		ingest.Idle, // edit
		ingest.Validating,
		ingest.Requesting,
		ingest.Succeeded,
		ingest.Idle,
	}, states)
}

func TestSyncServerDetailVerbatim(t *testing.T) {
	h := newHarness(t)
	listCalls := h.srv.ListCalls.Load()

	h.ctrl.Edit("999999")
	msg, err := h.ctrl.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, "Game not found", msg.Text)
	assert.Equal(t, ingest.KindServerError, msg.Kind)
	assert.Equal(t, ingest.Idle, h.ctrl.Machine().State)
	assert.Equal(t, "999999", h.ctrl.Machine().Input)
	assert.Equal(t, listCalls, h.srv.ListCalls.Load(), "no refresh after failure")
}

func TestSyncValidationMakesNoRequest(t *testing.T) {
	h := newHarness(t)

	for _, input := range []string{"abc", ""} {
		h.ctrl.Edit(input)
		msg, err := h.ctrl.Submit(context.Background())

		var verr *ingest.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, ingest.KindValidationError, msg.Kind)
	}
	assert.Equal(t, int32(0), h.srv.SyncCalls.Load())
}

func TestSyncTransportFailure(t *testing.T) {
	h := newHarness(t)
	h.srv.Close()

	h.ctrl.Edit("620")
	msg, err := h.ctrl.Submit(context.Background())

	var rerr *fetch.RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ingest.KindRequestError, msg.Kind)
	assert.Contains(t, msg.Text, "620")
	assert.Equal(t, ingest.Idle, h.ctrl.Machine().State)
}

func TestSecondSubmitWhileInFlightIsRejected(t *testing.T) {
	h := newHarness(t)
	h.srv.AddSteamApp(fetchtest.SteamApp{AppID: 570, Name: "Dota 2", Free: true})
	release := h.srv.HoldSync()
	defer release()

	h.ctrl.Edit("570")

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = h.ctrl.Submit(context.Background())
	}()

	require.Eventually(t, func() bool {
		return h.ctrl.Machine().InFlight()
	}, time.Second, 5*time.Millisecond)

	_, err := h.ctrl.Submit(context.Background())
	assert.True(t, errors.Is(err, ingest.ErrBusy))

	release()
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, int32(1), h.srv.SyncCalls.Load())
}

// Refresh stays available while a sync is in flight.
func TestRefreshDuringSync(t *testing.T) {
	h := newHarness(t, model.Game{ID: 1, Name: "Celeste", SteamAppID: model.Ptr(int64(504230))})
	h.srv.AddSteamApp(fetchtest.SteamApp{AppID: 620, Name: "Portal 2"})
	release := h.srv.HoldSync()

	h.ctrl.Edit("620")
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = h.ctrl.Submit(context.Background())
	}()

	require.Eventually(t, func() bool { return h.ctrl.Machine().InFlight() }, time.Second, 5*time.Millisecond)
	require.NoError(t, h.store.Refresh(context.Background()))
	assert.Len(t, h.store.Games(), 1)

	release()
	<-done
	assert.Len(t, h.store.Games(), 2)
}
