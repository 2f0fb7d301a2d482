package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/abelbrown/gamedash/internal/catalog"
	"github.com/abelbrown/gamedash/internal/config"
	"github.com/abelbrown/gamedash/internal/fetch"
	"github.com/abelbrown/gamedash/internal/logging"
	"github.com/abelbrown/gamedash/internal/store"
)

// env is everything a command needs, built from config and flags.
type env struct {
	cfg      *config.Config
	client   *fetch.Client
	cache    *store.Store // nil when disabled or unavailable
	catalog  *catalog.Store
	cachedAt time.Time // zero unless seeded from the cache
}

// setup loads configuration, starts logging and wires the client, cache and
// record store. Only configuration errors are fatal.
func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if flags.Changed("locale") {
		cfg.Locale = locale
	}
	if noCache {
		cfg.CacheEnabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	if err := logging.Init(cfg.LogDir, level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	e := &env{cfg: cfg}
	e.client = fetch.NewClient(cfg.BaseURL, fetch.Options{
		Timeout:       time.Duration(cfg.Timeout),
		PageSize:      cfg.PageSize,
		MaxPages:      cfg.MaxPages,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
	})

	var saver catalog.Saver
	if cfg.CacheEnabled {
		cache, err := store.Open(cfg.CachePath)
		if err != nil {
			logging.Warn("Snapshot cache unavailable", "path", cfg.CachePath, "error", err)
		} else {
			e.cache = cache
			saver = cache
		}
	}

	e.catalog = catalog.NewStore(e.client, saver)

	if e.cache != nil {
		games, savedAt, err := e.cache.LoadGames()
		switch {
		case err != nil:
			logging.Warn("Failed to read snapshot cache", "error", err)
		case !savedAt.IsZero():
			e.catalog.Seed(games)
			e.cachedAt = savedAt
			logging.Info("Seeded collection from cache", "games", len(games), "saved_at", savedAt)
		}
	}

	logging.Debug("Configured", "base_url", cfg.BaseURL, "page_size", cfg.PageSize, "locale", cfg.Locale, "cache", e.cache != nil)
	return e, nil
}

// close releases the cache and log file.
func (e *env) close() {
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			logging.Warn("Failed to close snapshot cache", "error", err)
		}
	}
	logging.Close()
}
