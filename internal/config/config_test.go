package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 25, cfg.Geocode.TimeoutSecs)
	assert.InDelta(t, 10.0, cfg.Geocode.RateLimit, 0.001)
	assert.False(t, cfg.Geocode.Cache.Enabled)
	assert.Equal(t, 30, cfg.Geocode.Cache.TTLDays)
	assert.Equal(t, "addresses.csv", cfg.Addresses.Path)
	assert.Equal(t, "campus_analysis_results.csv", cfg.Export.Output)
	assert.Empty(t, cfg.Snapshot.Path)
	assert.Empty(t, cfg.Legend.Path)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
server:
  port: 9090
log:
  level: debug
  format: console
geocode:
  google_api_key: test-key
  rate_limit: 2.5
snapshot:
  path: atlas.db
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "test-key", cfg.Geocode.GoogleAPIKey)
	assert.InDelta(t, 2.5, cfg.Geocode.RateLimit, 0.001)
	assert.Equal(t, "atlas.db", cfg.Snapshot.Path)
	// Defaults still apply for unset values
	assert.Equal(t, 25, cfg.Geocode.TimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
server:
  port: 9090
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("ATLAS_SERVER_PORT", "3000")
	t.Setenv("ATLAS_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("ATLAS_GEOCODE_TIMEOUT_SECS", "40")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Geocode.TimeoutSecs)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Geocode.TimeoutSecs = 25
	cfg.Geocode.RateLimit = 10
	cfg.Geocode.Cache.TTLDays = 30
	cfg.Addresses.Path = "addresses.csv"
	cfg.Snapshot.Path = "atlas.db"
	cfg.Export.Output = "out.csv"
	return cfg
}

func TestValidateServe(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("serve"))

	cfg.Server.Port = 0
	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateExport(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("export"))

	cfg.Snapshot.Path = ""
	err := cfg.Validate("export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot.path is required")
}

func TestValidateAddresses(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("addresses"))

	cfg.Addresses.Path = ""
	err := cfg.Validate("addresses")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "addresses.path is required")
}

func TestValidateCacheRequiresURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Geocode.Cache.Enabled = true

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geocode.cache.database_url is required")

	cfg.Geocode.Cache.DatabaseURL = "postgres://localhost/atlas"
	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
