package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := []byte(`
environment: production
log_level: debug
provider:
  endpoint: https://api.example.com/v1/graphql
  timeout: 15s
  trust_predicate_id: "11"
  trust_object_id: "12"
cache:
  ttl: 10m
warmer:
  enabled: true
  schedule: "0 */2 * * * *"
  max_concurrent: 2
`)

	err := os.WriteFile(configPath, configContent, 0644)
	require.NoError(t, err)

	// Test successful config loading
	t.Run("LoadValidConfig", func(t *testing.T) {
		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.NotNil(t, cfg)

		// Verify loaded values
		assert.Equal(t, "production", cfg.Environment)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "https://api.example.com/v1/graphql", cfg.Provider.Endpoint)
		assert.Equal(t, 15*time.Second, cfg.Provider.Timeout)
		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
		assert.True(t, cfg.Warmer.Enabled)
		assert.Equal(t, 2, cfg.Warmer.MaxConcurrent)
	})

	// Test defaults fill unset values
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, ":8090", cfg.Server.Addr)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	})

	// Test environment variable override
	t.Run("EnvironmentOverride", func(t *testing.T) {
		os.Setenv("INSIGHT_LOG_LEVEL", "error")
		defer os.Unsetenv("INSIGHT_LOG_LEVEL")

		cfg, err := Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.LogLevel)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Provider: ProviderConfig{
				Endpoint:         "https://api.example.com/v1/graphql",
				Timeout:          10 * time.Second,
				TrustPredicateID: "11",
				TrustObjectID:    "12",
			},
			Cache:  CacheConfig{TTL: 5 * time.Minute},
			Warmer: WarmerConfig{MaxConcurrent: 4},
		}
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("MissingEndpoint", func(t *testing.T) {
		cfg := valid()
		cfg.Provider.Endpoint = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("MissingTrustIdentifiers", func(t *testing.T) {
		cfg := valid()
		cfg.Provider.TrustObjectID = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("NonPositiveTTL", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.TTL = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("WarmerWithoutWorkers", func(t *testing.T) {
		cfg := valid()
		cfg.Warmer.Enabled = true
		cfg.Warmer.MaxConcurrent = 0
		assert.Error(t, cfg.Validate())
	})
}
