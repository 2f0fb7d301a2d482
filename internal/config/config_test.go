package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/abelbrown/gamedash/internal/model"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 100, cfg.PageSize)
	assert.Equal(t, 30*time.Second, time.Duration(cfg.Timeout))
	assert.Equal(t, language.English, cfg.LocaleTag())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"base_url": "https://games.example.com", "timeout": "5s", "locale": "sv", "ui": {"default_sort": "score", "descending": true}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://games.example.com", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.Timeout))
	assert.Equal(t, 100, cfg.PageSize, "unset fields keep defaults")
	assert.Equal(t, "sv", cfg.LocaleTag().String())

	v := cfg.View()
	assert.Equal(t, model.SortByMetacritic, v.SortKey)
	assert.Equal(t, model.Descending, v.Direction)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"base_url": "http://file:8000", "page_size": 10}`), 0644))

	t.Setenv("GAMEDASH_BASE_URL", "http://env:9000")
	t.Setenv("GAMEDASH_PAGE_SIZE", "0")
	t.Setenv("GAMEDASH_TIMEOUT", "1m")
	t.Setenv("GAMEDASH_RATE", "0.5")
	t.Setenv("GAMEDASH_CACHE", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env:9000", cfg.BaseURL)
	assert.Equal(t, 0, cfg.PageSize)
	assert.Equal(t, time.Minute, time.Duration(cfg.Timeout))
	assert.Equal(t, 0.5, cfg.RatePerSecond)
	assert.False(t, cfg.CacheEnabled)
}

func TestEnvBadValue(t *testing.T) {
	t.Setenv("GAMEDASH_PAGE_SIZE", "lots")
	_, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ftp url", func(c *Config) { c.BaseURL = "ftp://example.com" }, "base_url must be an http(s) URL"},
		{"empty url", func(c *Config) { c.BaseURL = "" }, "base_url is required"},
		{"negative page size", func(c *Config) { c.PageSize = -1 }, "page_size must be greater than or equal to 0"},
		{"negative timeout", func(c *Config) { c.Timeout = Duration(-time.Second) }, "timeout must be greater than or equal to 0"},
		{"bad locale", func(c *Config) { c.Locale = "not a locale!" }, "locale must be a BCP 47 language tag"},
		{"bad sort", func(c *Config) { c.UI.DefaultSort = "price" }, "ui.default_sort must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestZeroTimeoutMeansNone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "nope"
	cfg.PageSize = -5

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(err.Error(), "base_url"))
	assert.Equal(t, 1, strings.Count(err.Error(), "page_size"))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.BaseURL = "https://catalog.internal"
	cfg.Timeout = Duration(90 * time.Second)
	require.NoError(t, cfg.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"timeout": "1m30s"`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
