package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/spf13/viper"
)

// ErrNotConfigured is returned by Validate when a required catalog setting is missing
var ErrNotConfigured = errors.New("catalog is not configured")

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Search  SearchConfig  `mapstructure:"search"`
	History HistoryConfig `mapstructure:"history"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`

	// path of the file this config was read from ("" if none)
	file string
}

// CatalogConfig holds the upstream catalog connection settings
type CatalogConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	ImageBaseURL      string  `mapstructure:"image_base_url"`
	Token             string  `mapstructure:"token"` // API read access token (bearer)
	Language          string  `mapstructure:"language"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"` // 0 disables pacing
}

// FeedConfig holds paginated feed settings
type FeedConfig struct {
	PageSize        int    `mapstructure:"page_size"`
	MaxPage         int    `mapstructure:"max_page"`
	PrefetchRows    int    `mapstructure:"prefetch_rows"`
	DefaultKind     string `mapstructure:"default_kind"`
	DefaultCategory string `mapstructure:"default_category"`
}

// SearchConfig holds search-as-you-type settings
type SearchConfig struct {
	Debounce       time.Duration `mapstructure:"debounce"`
	MinQueryLength int           `mapstructure:"min_query_length"`
}

// HistoryKeys names the storage key of each history list
type HistoryKeys struct {
	Viewed   string `mapstructure:"viewed"`
	Searched string `mapstructure:"searched"`
}

// HistoryConfig holds local history settings
type HistoryConfig struct {
	Path     string      `mapstructure:"path"`
	MaxItems int         `mapstructure:"max_items"`
	Keys     HistoryKeys `mapstructure:"keys"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	CellWidth int  `mapstructure:"cell_width"`
	ShowPeek  bool `mapstructure:"show_peek"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
			Language:     "en-US",
		},
		Feed: FeedConfig{
			PageSize:        20,
			MaxPage:         499,
			PrefetchRows:    2,
			DefaultKind:     string(domain.KindMovie),
			DefaultCategory: string(domain.CategoryPopular),
		},
		Search: SearchConfig{
			Debounce:       300 * time.Millisecond,
			MinQueryLength: 3,
		},
		History: HistoryConfig{
			Path:     filepath.Join(defaultDataPath(), "history.db"),
			MaxItems: 10,
			Keys: HistoryKeys{
				Viewed:   "recent_views",
				Searched: "recent_searches",
			},
		},
		UI: UIConfig{
			CellWidth: 28,
			ShowPeek:  true,
		},
		Logging: LoggingConfig{
			File:       filepath.Join(defaultDataPath(), "reel.log"),
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "reel")
	}
}

// DefaultConfigDir returns the default config directory for the current OS
func DefaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "reel")
	}
}

// LoadConfig loads configuration from file and environment.
// An empty path searches the default config dir and the working directory.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}
	return loadFrom(v)
}

func loadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v, DefaultConfig())

	// Environment variable overrides, e.g. REEL_CATALOG_TOKEN
	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.file = v.ConfigFileUsed()
	cfg.History.Path = expandHome(cfg.History.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range flatten(cfg) {
		v.SetDefault(key, value)
	}
}

// flatten maps a Config onto its snake_case viper keys
func flatten(cfg *Config) map[string]any {
	return map[string]any{
		"catalog.base_url":            cfg.Catalog.BaseURL,
		"catalog.image_base_url":      cfg.Catalog.ImageBaseURL,
		"catalog.token":               cfg.Catalog.Token,
		"catalog.language":            cfg.Catalog.Language,
		"catalog.requests_per_second": cfg.Catalog.RequestsPerSecond,

		"feed.page_size":        cfg.Feed.PageSize,
		"feed.max_page":         cfg.Feed.MaxPage,
		"feed.prefetch_rows":    cfg.Feed.PrefetchRows,
		"feed.default_kind":     cfg.Feed.DefaultKind,
		"feed.default_category": cfg.Feed.DefaultCategory,

		"search.debounce":         cfg.Search.Debounce,
		"search.min_query_length": cfg.Search.MinQueryLength,

		"history.path":          cfg.History.Path,
		"history.max_items":     cfg.History.MaxItems,
		"history.keys.viewed":   cfg.History.Keys.Viewed,
		"history.keys.searched": cfg.History.Keys.Searched,

		"ui.cell_width": cfg.UI.CellWidth,
		"ui.show_peek":  cfg.UI.ShowPeek,

		"logging.file":        cfg.Logging.File,
		"logging.level":       cfg.Logging.Level,
		"logging.max_size_mb": cfg.Logging.MaxSizeMB,
		"logging.max_backups": cfg.Logging.MaxBackups,
	}
}

// SaveConfig writes cfg to path, or to the file it was loaded from, or to the
// default config dir. It returns the path written.
func SaveConfig(cfg *Config, path string) (string, error) {
	if path == "" {
		path = cfg.file
	}
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v := viper.New()
	for key, value := range flatten(cfg) {
		if d, ok := value.(time.Duration); ok {
			value = d.String()
		}
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	cfg.file = path
	return path, nil
}

// File returns the config file in use ("" when running on defaults)
func (c *Config) File() string {
	return c.file
}

// IsConfigured returns true if the catalog URL and token are set
func (c *Config) IsConfigured() bool {
	return c.Catalog.BaseURL != "" && c.Catalog.Token != ""
}

// Validate checks required settings and value ranges
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("%w: catalog.base_url is required", ErrNotConfigured)
	}
	if c.Catalog.Token == "" {
		return fmt.Errorf("%w: catalog.token is required (or set REEL_CATALOG_TOKEN)", ErrNotConfigured)
	}
	if c.Feed.PageSize <= 0 {
		return fmt.Errorf("feed.page_size must be positive, got %d", c.Feed.PageSize)
	}
	if c.Feed.MaxPage <= 0 {
		return fmt.Errorf("feed.max_page must be positive, got %d", c.Feed.MaxPage)
	}
	if c.History.MaxItems <= 0 {
		return fmt.Errorf("history.max_items must be positive, got %d", c.History.MaxItems)
	}
	if c.History.Keys.Viewed == "" || c.History.Keys.Searched == "" {
		return errors.New("history.keys.viewed and history.keys.searched are required")
	}
	if c.History.Keys.Viewed == c.History.Keys.Searched {
		return errors.New("history.keys.viewed and history.keys.searched must differ")
	}
	kind, err := domain.ParseMediaKind(c.Feed.DefaultKind)
	if err != nil {
		return fmt.Errorf("feed.default_kind: %w", err)
	}
	if err := domain.CheckCategory(kind, domain.Category(c.Feed.DefaultCategory)); err != nil {
		valid := make([]string, 0, 4)
		for _, c := range domain.CategoriesFor(kind) {
			valid = append(valid, string(c))
		}
		return fmt.Errorf("feed.default_category: %w (choose from %s)", err, strings.Join(valid, ", "))
	}
	return nil
}

// HistoryKeyMap returns the explicit storage key for each history list
func (c *Config) HistoryKeyMap() map[domain.HistoryKind]string {
	return map[domain.HistoryKind]string{
		domain.HistoryViewed:   c.History.Keys.Viewed,
		domain.HistorySearched: c.History.Keys.Searched,
	}
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
