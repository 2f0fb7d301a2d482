// Package fetchtest provides an in-process fake of the catalog backend for
// tests. It serves the same routes and error shapes as the real API.
package fetchtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/abelbrown/gamedash/internal/model"
	"github.com/go-chi/chi/v5"
)

// DefaultLimit mirrors the backend's default page size for GET /games.
const DefaultLimit = 50

// SteamApp is an app the fake Steam storefront knows about.
type SteamApp struct {
	AppID  int64
	Name   string
	Genres []string
	Free   bool
}

// Server is a fake catalog backend.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	games      []model.Game
	steam      map[int64]SteamApp
	nextID     int64
	listFail   int
	syncFail   int
	ignoreSkip bool
	syncGate   chan struct{}
	requestIDs []string

	ListCalls atomic.Int32
	SyncCalls atomic.Int32
}

// NewServer starts a fake backend holding games. It is closed when the test
// ends.
func NewServer(t testing.TB, games ...model.Game) *Server {
	t.Helper()

	s := &Server{
		games: slices.Clone(games),
		steam: make(map[int64]SteamApp),
	}
	for _, g := range games {
		if g.ID > s.nextID {
			s.nextID = g.ID
		}
	}

	r := chi.NewRouter()
	r.Use(s.recordRequestID)
	r.Get("/health", s.handleHealth)
	r.Get("/games", s.handleList)
	r.Post("/games/sync-steam/{appid}", s.handleSync)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddSteamApp makes appID available for ingestion.
func (s *Server) AddSteamApp(app SteamApp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steam[app.AppID] = app
}

// FailList makes GET /games answer with status until reset with 0.
func (s *Server) FailList(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listFail = status
}

// FailSync makes POST /games/sync-steam answer with status and no detail
// until reset with 0.
func (s *Server) FailSync(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncFail = status
}

// IgnoreSkip makes GET /games disregard the skip parameter, like a
// misbehaving proxy cache would.
func (s *Server) IgnoreSkip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ignoreSkip = true
}

// HoldSync blocks sync requests until the returned release func is called.
func (s *Server) HoldSync() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.syncGate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Games returns a copy of the stored collection.
func (s *Server) Games() []model.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.games)
}

// RequestIDs returns the X-Request-ID header of every request so far.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requestIDs)
}

func (s *Server) recordRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-ID"))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.ListCalls.Add(1)

	s.mu.Lock()
	fail := s.listFail
	ignoreSkip := s.ignoreSkip
	games := slices.Clone(s.games)
	s.mu.Unlock()

	if fail != 0 {
		writeJSON(w, fail, map[string]string{"detail": http.StatusText(fail)})
		return
	}

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", DefaultLimit)
	if ignoreSkip {
		skip = 0
	}

	if skip > len(games) {
		skip = len(games)
	}
	end := skip + limit
	if end > len(games) {
		end = len(games)
	}

	writeJSON(w, http.StatusOK, games[skip:end])
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	s.SyncCalls.Add(1)

	s.mu.Lock()
	gate := s.syncGate
	fail := s.syncFail
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	if fail != 0 {
		w.WriteHeader(fail)
		return
	}

	appID, err := strconv.ParseInt(chi.URLParam(r, "appid"), 10, 64)
	if err != nil {
		// FastAPI reports path validation failures as a list.
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{
				"loc":  []string{"path", "steam_appid"},
				"msg":  "value is not a valid integer",
				"type": "type_error.integer",
			}},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.steam[appID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Game not found"})
		return
	}

	genre := strings.Join(app.Genres, ", ")
	for i := range s.games {
		if s.games[i].SteamAppID != nil && *s.games[i].SteamAppID == appID {
			updated := s.games[i]
			updated.Name = app.Name
			updated.Genre = &genre
			updated.IsFree = app.Free
			s.games[i] = updated
			writeJSON(w, http.StatusOK, updated)
			return
		}
	}

	s.nextID++
	g := model.Game{
		ID:         s.nextID,
		Name:       app.Name,
		SteamAppID: model.Ptr(appID),
		Genre:      &genre,
		IsFree:     app.Free,
	}
	s.games = append(s.games, g)
	writeJSON(w, http.StatusOK, g)
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
