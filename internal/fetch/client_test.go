package fetch_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abelbrown/gamedash/internal/fetch"
	"github.com/abelbrown/gamedash/internal/fetch/fetchtest"
	"github.com/abelbrown/gamedash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeGames(n int) []model.Game {
	games := make([]model.Game, n)
	for i := range games {
		games[i] = model.Game{
			ID:         int64(i + 1),
			Name:       fmt.Sprintf("Game %03d", i+1),
			SteamAppID: model.Ptr(int64(1000 + i)),
		}
	}
	return games
}

func TestListGamesPages(t *testing.T) {
	srv := fetchtest.NewServer(t, makeGames(23)...)
	c := fetch.NewClient(srv.URL, fetch.Options{PageSize: 10})

	games, err := c.ListGames(context.Background())
	require.NoError(t, err)
	assert.Len(t, games, 23)
	assert.Equal(t, int32(3), srv.ListCalls.Load())
	assert.Equal(t, "Game 001", games[0].Name)
	assert.Equal(t, "Game 023", games[22].Name)
}

func TestListGamesExactMultipleOfPageSize(t *testing.T) {
	srv := fetchtest.NewServer(t, makeGames(20)...)
	c := fetch.NewClient(srv.URL, fetch.Options{PageSize: 10})

	games, err := c.ListGames(context.Background())
	require.NoError(t, err)
	assert.Len(t, games, 20)
	// Third page comes back empty and ends paging.
	assert.Equal(t, int32(3), srv.ListCalls.Load())
}

func TestListGamesStopsWhenSkipIgnored(t *testing.T) {
	srv := fetchtest.NewServer(t, makeGames(30)...)
	srv.IgnoreSkip()
	c := fetch.NewClient(srv.URL, fetch.Options{PageSize: 10})

	games, err := c.ListGames(context.Background())
	require.NoError(t, err)
	assert.Len(t, games, 10, "only the repeated first page is available")
	assert.Equal(t, int32(2), srv.ListCalls.Load())
}

func TestListGamesMaxPages(t *testing.T) {
	srv := fetchtest.NewServer(t, makeGames(50)...)
	c := fetch.NewClient(srv.URL, fetch.Options{PageSize: 10, MaxPages: 2})

	games, err := c.ListGames(context.Background())
	require.NoError(t, err)
	assert.Len(t, games, 20)
}

func TestListGamesUnpaginated(t *testing.T) {
	srv := fetchtest.NewServer(t, makeGames(5)...)
	c := fetch.NewClient(srv.URL+"/", fetch.Options{})

	games, err := c.ListGames(context.Background())
	require.NoError(t, err)
	assert.Len(t, games, 5)
	assert.Equal(t, int32(1), srv.ListCalls.Load())
}

func TestListGamesEmptyIsNonNil(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := fetch.NewClient(srv.URL, fetch.Options{PageSize: 10})

	games, err := c.ListGames(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, games)
	assert.Empty(t, games)
}

func TestListGamesStatusError(t *testing.T) {
	srv := fetchtest.NewServer(t, makeGames(3)...)
	srv.FailList(http.StatusServiceUnavailable)
	c := fetch.NewClient(srv.URL, fetch.Options{PageSize: 10})

	_, err := c.ListGames(context.Background())
	require.Error(t, err)

	var fe *fetch.FetchError
	require.ErrorAs(t, err, &fe)
	var se *fetch.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Status)
}

func TestListGamesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := fetch.NewClient(url, fetch.Options{Timeout: time.Second})
	_, err := c.ListGames(context.Background())

	var fe *fetch.FetchError
	require.ErrorAs(t, err, &fe)
	var re *fetch.RequestError
	assert.ErrorAs(t, err, &re)
}

func TestListGamesBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	c := fetch.NewClient(srv.URL, fetch.Options{})
	_, err := c.ListGames(context.Background())

	var fe *fetch.FetchError
	assert.ErrorAs(t, err, &fe)
}

func TestSyncSteamCreatesGame(t *testing.T) {
	srv := fetchtest.NewServer(t)
	srv.AddSteamApp(fetchtest.SteamApp{AppID: 620, Name: "Portal 2", Genres: []string{"Action", "Adventure"}})
	c := fetch.NewClient(srv.URL, fetch.Options{})

	g, err := c.SyncSteam(context.Background(), "620")
	require.NoError(t, err)
	assert.Equal(t, "Portal 2", g.Name)
	assert.Equal(t, "620", g.AppIDString())
	assert.Equal(t, "Action, Adventure", model.Str(g.Genre))
	assert.Len(t, srv.Games(), 1)
}

func TestSyncSteamNotFoundDetail(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := fetch.NewClient(srv.URL, fetch.Options{})

	_, err := c.SyncSteam(context.Background(), "999999")

	var se *fetch.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Equal(t, "Game not found", se.Detail)
}

func TestSyncSteamValidationDetailIgnored(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := fetch.NewClient(srv.URL, fetch.Options{})

	_, err := c.SyncSteam(context.Background(), "1.5")

	var se *fetch.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnprocessableEntity, se.Status)
	assert.Empty(t, se.Detail)
	assert.Contains(t, se.Error(), "Unprocessable Entity")
}

func TestSyncSteamEmptyErrorBody(t *testing.T) {
	srv := fetchtest.NewServer(t)
	srv.FailSync(http.StatusBadGateway)
	c := fetch.NewClient(srv.URL, fetch.Options{})

	_, err := c.SyncSteam(context.Background(), "620")

	var se *fetch.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Status)
	assert.Empty(t, se.Detail)
}

func TestRequestIDHeader(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := fetch.NewClient(srv.URL, fetch.Options{})

	ctx := fetch.WithRequestID(context.Background(), "attempt-1")
	_, _ = c.SyncSteam(ctx, "1")
	require.NoError(t, c.Health(context.Background()))

	ids := srv.RequestIDs()
	require.Len(t, ids, 2)
	assert.Equal(t, "attempt-1", ids[0])
	assert.NotEmpty(t, ids[1])
	assert.NotEqual(t, "attempt-1", ids[1])
}

func TestRateLimiterHonorsContext(t *testing.T) {
	srv := fetchtest.NewServer(t)
	c := fetch.NewClient(srv.URL, fetch.Options{RatePerSecond: 0.001, Burst: 1})

	require.NoError(t, c.Health(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := c.Health(ctx)

	var re *fetch.RequestError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, err.Error(), "rate limiter")
}
