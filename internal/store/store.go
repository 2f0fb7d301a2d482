// Package store provides the local SQLite cache of the last collection
// loaded from the backend, so the dashboard can start with data while the
// first refresh is in flight or the backend is down.
//
// The cache is a copy, not a source of truth: every save replaces the
// whole snapshot.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/abelbrown/gamedash/internal/model"

	_ "modernc.org/sqlite"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Each connection to ":memory:" is its own database; keep exactly one.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		position INTEGER NOT NULL,
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		steam_appid INTEGER,
		genre TEXT,
		developer TEXT,
		publisher TEXT,
		release_date TEXT,
		is_free INTEGER NOT NULL DEFAULT 0,
		metacritic_score INTEGER,
		recommendations_count INTEGER,
		languages TEXT,
		categories TEXT,
		header_image TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_games_position ON games(position);

	CREATE TABLE IF NOT EXISTS snapshot (
		key TEXT PRIMARY KEY,
		saved_at DATETIME NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveGames replaces the cached snapshot with games, keeping their order.
// The replacement is a single transaction; readers see the old or the new
// snapshot, never a mix.
func (s *Store) SaveGames(games []model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM games"); err != nil {
		return fmt.Errorf("clear games: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO games (
			position, id, name, steam_appid, genre, developer, publisher,
			release_date, is_free, metacritic_score, recommendations_count,
			languages, categories, header_image
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, g := range games {
		_, err := stmt.Exec(
			i,
			g.ID,
			g.Name,
			nullable(g.SteamAppID),
			nullable(g.Genre),
			nullable(g.Developer),
			nullable(g.Publisher),
			nullable(g.ReleaseDate),
			boolToInt(g.IsFree),
			nullable(g.MetacriticScore),
			nullable(g.RecommendationsCount),
			nullable(g.Languages),
			nullable(g.Categories),
			nullable(g.HeaderImage),
		)
		if err != nil {
			return fmt.Errorf("insert game %d: %w", g.ID, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO snapshot (key, saved_at) VALUES ('games', ?)",
		time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("stamp snapshot: %w", err)
	}

	return tx.Commit()
}

// LoadGames returns the cached snapshot in saved order and when it was
// saved. An empty cache returns an empty slice and a zero time.
// Thread-safe: acquires read lock.
func (s *Store) LoadGames() ([]model.Game, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var savedAt time.Time
	err := s.db.QueryRow("SELECT saved_at FROM snapshot WHERE key = 'games'").Scan(&savedAt)
	if err != nil && err != sql.ErrNoRows {
		return nil, time.Time{}, fmt.Errorf("read snapshot time: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT id, name, steam_appid, genre, developer, publisher,
			release_date, is_free, metacritic_score, recommendations_count,
			languages, categories, header_image
		FROM games
		ORDER BY position
	`)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	games := []model.Game{}
	for rows.Next() {
		var (
			g                              model.Game
			appID                          sql.Null[int64]
			genre, developer, publisher    sql.NullString
			releaseDate, languages         sql.NullString
			categories, headerImage        sql.NullString
			isFree                         int
			metacritic, recommendations    sql.Null[int]
		)
		if err := rows.Scan(
			&g.ID,
			&g.Name,
			&appID,
			&genre,
			&developer,
			&publisher,
			&releaseDate,
			&isFree,
			&metacritic,
			&recommendations,
			&languages,
			&categories,
			&headerImage,
		); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan game: %w", err)
		}

		g.SteamAppID = fromNull(appID)
		g.Genre = fromNullString(genre)
		g.Developer = fromNullString(developer)
		g.Publisher = fromNullString(publisher)
		g.ReleaseDate = fromNullString(releaseDate)
		g.IsFree = isFree != 0
		g.MetacriticScore = fromNull(metacritic)
		g.RecommendationsCount = fromNull(recommendations)
		g.Languages = fromNullString(languages)
		g.Categories = fromNullString(categories)
		g.HeaderImage = fromNullString(headerImage)
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, time.Time{}, err
	}

	return games, savedAt, nil
}

// nullable converts an optional field to a driver value (nil for NULL).
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func fromNull[T any](n sql.Null[T]) *T {
	if !n.Valid {
		return nil
	}
	v := n.V
	return &v
}

func fromNullString(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

// boolToInt converts a bool to an int for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
