package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every GREEDYREVIEW_ env var that Load() reads.
var allConfigKeys = []string{
	"GREEDYREVIEW_LISTEN_ADDR",
	"GREEDYREVIEW_DB_PATH",
	"GREEDYREVIEW_DATA_SOURCE",
	"GREEDYREVIEW_DATA_DIR",
	"GREEDYREVIEW_SUPABASE_URL",
	"GREEDYREVIEW_SUPABASE_ANON_KEY",
	"GREEDYREVIEW_TAXONOMY_PATH",
	"GREEDYREVIEW_CATALOG_PATH",
	"GREEDYREVIEW_GITHUB_TOKEN",
	"GREEDYREVIEW_COLLECT_INTERVAL",
	"GREEDYREVIEW_PAGE_SIZE",
	"GREEDYREVIEW_STATS_MIN_COUNT",
	"GREEDYREVIEW_STATS_LIMIT",
	"GREEDYREVIEW_LOG_LEVEL",
}

// isolateConfigEnv saves and unsets all GREEDYREVIEW_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "greedyreview.db", cfg.DBPath)
	assert.Equal(t, DataSourceSQLite, cfg.DataSource)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, time.Hour, cfg.CollectInterval)
	assert.Equal(t, 8, cfg.PageSize)
	assert.Equal(t, 4, cfg.StatsMinCount)
	assert.Equal(t, 30, cfg.StatsLimit)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.HasGitHubCredentials())
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GREEDYREVIEW_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("GREEDYREVIEW_DB_PATH", "/tmp/test.db")
	t.Setenv("GREEDYREVIEW_GITHUB_TOKEN", "ghp_test123")
	t.Setenv("GREEDYREVIEW_COLLECT_INTERVAL", "10m")
	t.Setenv("GREEDYREVIEW_PAGE_SIZE", "12")
	t.Setenv("GREEDYREVIEW_STATS_MIN_COUNT", "0")
	t.Setenv("GREEDYREVIEW_STATS_LIMIT", "50")
	t.Setenv("GREEDYREVIEW_LOG_LEVEL", "debug")
	t.Setenv("GREEDYREVIEW_TAXONOMY_PATH", "/etc/greedyreview/taxonomy.yaml")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.True(t, cfg.HasGitHubCredentials())
	assert.Equal(t, 10*time.Minute, cfg.CollectInterval)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, 0, cfg.StatsMinCount)
	assert.Equal(t, 50, cfg.StatsLimit)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "/etc/greedyreview/taxonomy.yaml", cfg.TaxonomyPath)
}

func TestLoad_Supabase(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GREEDYREVIEW_DATA_SOURCE", "Supabase")
	t.Setenv("GREEDYREVIEW_SUPABASE_URL", "https://example.supabase.co/")
	t.Setenv("GREEDYREVIEW_SUPABASE_ANON_KEY", "anon")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, DataSourceSupabase, cfg.DataSource)
	assert.Equal(t, "https://example.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "anon", cfg.SupabaseAnonKey)
}

func TestLoad_JSONDataSource(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GREEDYREVIEW_DATA_SOURCE", "json")
	t.Setenv("GREEDYREVIEW_DATA_DIR", "/srv/exports")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, DataSourceJSON, cfg.DataSource)
	assert.Equal(t, "/srv/exports", cfg.DataDir)
}

func TestLoad_SupabaseMissingKey(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("GREEDYREVIEW_DATA_SOURCE", "supabase")
	t.Setenv("GREEDYREVIEW_SUPABASE_URL", "https://example.supabase.co")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GREEDYREVIEW_SUPABASE_ANON_KEY")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "data source", key: "GREEDYREVIEW_DATA_SOURCE", value: "postgres"},
		{name: "interval syntax", key: "GREEDYREVIEW_COLLECT_INTERVAL", value: "not-a-duration"},
		{name: "interval zero", key: "GREEDYREVIEW_COLLECT_INTERVAL", value: "0s"},
		{name: "page size", key: "GREEDYREVIEW_PAGE_SIZE", value: "0"},
		{name: "min count", key: "GREEDYREVIEW_STATS_MIN_COUNT", value: "many"},
		{name: "limit", key: "GREEDYREVIEW_STATS_LIMIT", value: "-1"},
		{name: "log level", key: "GREEDYREVIEW_LOG_LEVEL", value: "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
