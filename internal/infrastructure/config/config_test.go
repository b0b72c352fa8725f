package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GROWTHPLAN_DB_PATH", "test.db")
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_LOCK_TTL", "45s")
	t.Setenv("ALLOWED_ORIGINS", "https://admin.example.com, http://localhost:3000")
	t.Setenv("SCHEDULER_ENABLED", "false")

	cfg := LoadFromEnv()
	assert.NotNil(t, cfg)
	assert.Equal(t, "test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 45*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, []string{"https://admin.example.com", "http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Scheduler.Enabled)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("GROWTHPLAN_DB_PATH", "")
	t.Setenv("REDISTRIBUTE_CRON", "")
	t.Setenv("PORT", "not-a-number")

	cfg := LoadFromEnv()
	assert.NotNil(t, cfg)
	assert.Equal(t, "growthplan.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "5 0 * * *", cfg.Scheduler.RedistributeCron)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "BDT", cfg.Planning.DefaultCurrency)
	assert.Equal(t, 4, cfg.Planning.RedistributeConcurrency)
}

func TestLoadOrEnv_FallbackToEnv(t *testing.T) {
	t.Setenv("GROWTHPLAN_DB_PATH", "fallback.db")

	// Try to load from non-existent file
	cfg := LoadOrEnvWithPath("nonexistent.yaml")
	assert.NotNil(t, cfg)
	assert.Equal(t, "fallback.db", cfg.Storage.DatabasePath)
}

func TestLoad_YAMLKeepsDefaultsForMissingKeys(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 7000
planning:
  default_currency: USD
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "USD", cfg.Planning.DefaultCurrency)
	assert.Equal(t, "growthplan.db", cfg.Storage.DatabasePath)
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, 5*time.Second, cfg.Redis.LockWait)
}

func TestEnvVarExpansion(t *testing.T) {
	// Create temp config file with env vars
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
storage:
  database_path: "${TEST_DB_PATH}"
redis:
  enabled: true
  password: "${TEST_REDIS_PASSWORD}"
  lock_ttl: 10s
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	t.Setenv("TEST_DB_PATH", "expanded.db")
	t.Setenv("TEST_REDIS_PASSWORD", "s3cret")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "expanded.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "s3cret", cfg.Redis.Password)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Redis.LockTTL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server: [unclosed"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("FLAG_ON", "yes")
	t.Setenv("FLAG_OFF", "0")
	t.Setenv("FLAG_JUNK", "maybe")

	assert.True(t, getEnvBool("FLAG_ON", false))
	assert.False(t, getEnvBool("FLAG_OFF", true))
	assert.True(t, getEnvBool("FLAG_JUNK", true))
}
