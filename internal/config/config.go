package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"github.com/abelbrown/gamedash/internal/model"
)

// Config is the persistent application configuration
type Config struct {
	// Backend
	BaseURL       string   `json:"base_url" env:"GAMEDASH_BASE_URL" validate:"required,http_url"`
	PageSize      int      `json:"page_size" env:"GAMEDASH_PAGE_SIZE" validate:"gte=0"`
	MaxPages      int      `json:"max_pages" env:"GAMEDASH_MAX_PAGES" validate:"gte=1"`
	Timeout       Duration `json:"timeout" env:"GAMEDASH_TIMEOUT" validate:"gte=0"`
	RatePerSecond float64  `json:"rate_per_second" env:"GAMEDASH_RATE" validate:"gte=0"`
	Burst         int      `json:"burst" validate:"gte=0"`

	// Name ordering locale, a BCP 47 tag
	Locale string `json:"locale" env:"GAMEDASH_LOCALE" validate:"required,bcp47_language_tag"`

	// Snapshot cache
	CacheEnabled bool   `json:"cache" env:"GAMEDASH_CACHE"`
	CachePath    string `json:"cache_path"`

	LogDir string `json:"log_dir"`

	UI UIConfig `json:"ui"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	ShowCharts  bool   `json:"show_charts"`
	DefaultSort string `json:"default_sort" validate:"omitempty,sortkey"`
	Descending  bool   `json:"descending"`
}

// Duration is a time.Duration that reads and writes as "30s" in JSON and env.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := Dir()
	return &Config{
		BaseURL:       "http://localhost:8000",
		PageSize:      100,
		MaxPages:      1000,
		Timeout:       Duration(30 * time.Second),
		RatePerSecond: 4,
		Burst:         4,
		Locale:        "en",
		CacheEnabled:  true,
		CachePath:     filepath.Join(dir, "cache.db"),
		LogDir:        filepath.Join(dir, "logs"),
		UI: UIConfig{
			ShowCharts:  true,
			DefaultSort: string(model.SortByName),
		},
	}
}

// Dir returns the application data directory (~/.gamedash).
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".gamedash")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads config from path (ConfigPath when empty) over the defaults,
// then applies GAMEDASH_* environment overrides. A missing file is not an
// error. The result is not validated; callers apply flag overrides first
// and then call Validate.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv loads configuration overrides from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes config to path (ConfigPath when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks every field and reports all problems at once, keyed by
// their JSON names.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	problems := make([]string, 0, len(verrs))
	for _, e := range verrs {
		problems = append(problems, strings.TrimPrefix(e.Namespace(), "Config.")+" "+friendlyMessage(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}

// LocaleTag returns the parsed Locale, English if it does not parse.
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// View returns the initial dashboard view from the UI preferences.
func (c *Config) View() model.ViewState {
	v := model.DefaultViewState()
	if key, err := model.ParseSortKey(c.UI.DefaultSort); err == nil {
		v.SortKey = key
	}
	if c.UI.Descending {
		v.Direction = model.Descending
	}
	return v
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("sortkey", func(fl validator.FieldLevel) bool {
		_, err := model.ParseSortKey(fl.Field().String())
		return err == nil
	})

	return v
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "http_url":
		return "must be an http(s) URL"
	case "bcp47_language_tag":
		return "must be a BCP 47 language tag"
	case "sortkey":
		return "must be one of: " + sortKeyNames()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	}
	return "failed " + e.Tag() + " validation"
}

func sortKeyNames() string {
	names := make([]string, len(model.SortKeys))
	for i, k := range model.SortKeys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
