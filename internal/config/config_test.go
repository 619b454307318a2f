package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppConfigDefaults(t *testing.T) {
	cfg := NewAppConfig()

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, DefaultDataDir, cfg.DataDir())
	assert.False(t, cfg.UsesDatabase())
	assert.Equal(t, LogFormatPretty, cfg.LogFormat())
	assert.Equal(t, DefaultUniProtBaseURL, cfg.UniProt().BaseURL())
	assert.Equal(t, 10*time.Second, cfg.UniProt().Timeout())
}

func TestLoadFromEnvDefaults(t *testing.T) {
	env, err := LoadFromEnv()
	require.NoError(t, err)

	cfg := env.Normalize().ToAppConfig()
	assert.Equal(t, 8080, cfg.Port())
	assert.Equal(t, "data", cfg.DataDir())
	assert.Equal(t, time.Duration(0), cfg.CacheMaxAge())
	assert.Equal(t, 256, cfg.MemoryCacheSize())
	assert.Equal(t, 3, cfg.UniProt().MaxRetries())
	assert.Equal(t, 500*time.Millisecond, cfg.UniProt().InitialDelay())
	assert.InDelta(t, 2.0, cfg.UniProt().BackoffFactor(), 0.0001)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/tmp/isoflow/")
	t.Setenv("DB_URL", "sqlite:///tmp/isoflow.db")
	t.Setenv("CACHE_MAX_AGE", "3600")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("UNIPROT_BASE_URL", "http://localhost:9999/")
	t.Setenv("UNIPROT_TIMEOUT", "2.5")
	t.Setenv("UNIPROT_MAX_RETRIES", "-1")
	t.Setenv("RANK_PARALLELISM", "0")

	env, err := LoadFromEnv()
	require.NoError(t, err)
	cfg := env.Normalize().ToAppConfig()

	assert.Equal(t, 9090, cfg.Port())
	assert.Equal(t, "/tmp/isoflow", cfg.DataDir())
	assert.True(t, cfg.UsesDatabase())
	assert.Equal(t, time.Hour, cfg.CacheMaxAge())
	assert.Equal(t, LogFormatJSON, cfg.LogFormat())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
	assert.Equal(t, "http://localhost:9999", cfg.UniProt().BaseURL())
	assert.Equal(t, 2500*time.Millisecond, cfg.UniProt().Timeout())
	assert.Equal(t, 0, cfg.UniProt().MaxRetries())
	assert.Equal(t, DefaultRankParallelism, cfg.RankParallelism())
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := LoadFromEnv()
	require.Error(t, err)
}

func TestLoadConfigWithDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MEMORY_CACHE_SIZE=12\nLOG_LEVEL=DEBUG\n"), 0o600))
	t.Setenv("LOG_LEVEL", "WARN")
	t.Cleanup(func() { os.Unsetenv("MEMORY_CACHE_SIZE") })

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.MemoryCacheSize())
	assert.Equal(t, "WARN", cfg.LogLevel())
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestWithOverrides(t *testing.T) {
	cfg := NewAppConfig().
		WithHost("127.0.0.1").
		WithPort(7000).
		WithDataDir("cache/").
		WithDBURL("postgres://localhost/isoflow").
		WithUniProt(NewUniProtConfig().WithBaseURL("http://example.org/"))

	assert.Equal(t, "127.0.0.1:7000", cfg.Addr())
	assert.Equal(t, "cache", cfg.DataDir())
	assert.True(t, cfg.UsesDatabase())
	assert.Equal(t, "http://example.org", cfg.UniProt().BaseURL())
}

func TestEnsureDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := NewAppConfig().WithDataDir(dir)

	require.NoError(t, cfg.EnsureDataDir())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
