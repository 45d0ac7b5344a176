// Package config loads application configuration from environment variables
// and the keyword taxonomy and repository catalog from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Data sources accepted by GREEDYREVIEW_DATA_SOURCE.
const (
	DataSourceSQLite   = "sqlite"
	DataSourceSupabase = "supabase"
	DataSourceJSON     = "json"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr      string
	DBPath          string
	DataSource      string
	DataDir         string // Directory of reviews_*.json exports for the json data source.
	SupabaseURL     string
	SupabaseAnonKey string
	TaxonomyPath    string // Empty selects the embedded default taxonomy.
	CatalogPath     string // Empty selects the embedded repository catalog.
	GitHubToken     string
	CollectInterval time.Duration
	PageSize        int
	StatsMinCount   int
	StatsLimit      int
	LogLevel        slog.Level
}

// HasGitHubCredentials returns true when a GitHub token is configured. The
// collector only runs against the local SQLite store when this is true.
func (c *Config) HasGitHubCredentials() bool {
	return c.GitHubToken != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment take precedence over it.
//
// Optional variables with defaults: GREEDYREVIEW_LISTEN_ADDR (127.0.0.1:8080),
// GREEDYREVIEW_DB_PATH (greedyreview.db), GREEDYREVIEW_DATA_SOURCE (sqlite),
// GREEDYREVIEW_DATA_DIR (data),
// GREEDYREVIEW_COLLECT_INTERVAL (1h), GREEDYREVIEW_PAGE_SIZE (8),
// GREEDYREVIEW_STATS_MIN_COUNT (4), GREEDYREVIEW_STATS_LIMIT (30),
// GREEDYREVIEW_LOG_LEVEL (info). GREEDYREVIEW_SUPABASE_URL and
// GREEDYREVIEW_SUPABASE_ANON_KEY are required when the data source is supabase.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:      "127.0.0.1:8080",
		DBPath:          "greedyreview.db",
		DataSource:      DataSourceSQLite,
		DataDir:         "data",
		CollectInterval: time.Hour,
		PageSize:        8,
		StatsMinCount:   4,
		StatsLimit:      30,
		LogLevel:        slog.LevelInfo,
	}

	if v, ok := os.LookupEnv("GREEDYREVIEW_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}

	if v, ok := os.LookupEnv("GREEDYREVIEW_DB_PATH"); ok {
		cfg.DBPath = v
	}

	if v, ok := os.LookupEnv("GREEDYREVIEW_DATA_SOURCE"); ok && v != "" {
		source := strings.ToLower(strings.TrimSpace(v))
		switch source {
		case DataSourceSQLite, DataSourceSupabase, DataSourceJSON:
		default:
			return nil, fmt.Errorf("GREEDYREVIEW_DATA_SOURCE must be %q, %q or %q, got %q",
				DataSourceSQLite, DataSourceSupabase, DataSourceJSON, v)
		}
		cfg.DataSource = source
	}

	if v, ok := os.LookupEnv("GREEDYREVIEW_DATA_DIR"); ok && v != "" {
		cfg.DataDir = v
	}

	cfg.SupabaseURL = strings.TrimRight(os.Getenv("GREEDYREVIEW_SUPABASE_URL"), "/")
	cfg.SupabaseAnonKey = os.Getenv("GREEDYREVIEW_SUPABASE_ANON_KEY")
	if cfg.DataSource == DataSourceSupabase {
		if cfg.SupabaseURL == "" {
			return nil, fmt.Errorf("GREEDYREVIEW_SUPABASE_URL is required when GREEDYREVIEW_DATA_SOURCE is %q", DataSourceSupabase)
		}
		if cfg.SupabaseAnonKey == "" {
			return nil, fmt.Errorf("GREEDYREVIEW_SUPABASE_ANON_KEY is required when GREEDYREVIEW_DATA_SOURCE is %q", DataSourceSupabase)
		}
	}

	cfg.TaxonomyPath = os.Getenv("GREEDYREVIEW_TAXONOMY_PATH")
	cfg.CatalogPath = os.Getenv("GREEDYREVIEW_CATALOG_PATH")
	cfg.GitHubToken = os.Getenv("GREEDYREVIEW_GITHUB_TOKEN")

	if v, ok := os.LookupEnv("GREEDYREVIEW_COLLECT_INTERVAL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("GREEDYREVIEW_COLLECT_INTERVAL has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("GREEDYREVIEW_COLLECT_INTERVAL must be positive, got %q", v)
		}
		cfg.CollectInterval = parsed
	}

	var err error
	if cfg.PageSize, err = lookupInt("GREEDYREVIEW_PAGE_SIZE", cfg.PageSize, 1); err != nil {
		return nil, err
	}
	if cfg.StatsMinCount, err = lookupInt("GREEDYREVIEW_STATS_MIN_COUNT", cfg.StatsMinCount, 0); err != nil {
		return nil, err
	}
	if cfg.StatsLimit, err = lookupInt("GREEDYREVIEW_STATS_LIMIT", cfg.StatsLimit, 0); err != nil {
		return nil, err
	}

	if v, ok := os.LookupEnv("GREEDYREVIEW_LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("GREEDYREVIEW_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return cfg, nil
}

// lookupInt reads an integer variable, returning def when unset and an error
// when the value is not an integer or is below minimum.
func lookupInt(key string, def, minimum int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s has invalid integer %q: %w", key, v, err)
	}
	if n < minimum {
		return 0, fmt.Errorf("%s must be at least %d, got %d", key, minimum, n)
	}

	return n, nil
}
