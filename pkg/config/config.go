package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	LogLevel    string         `mapstructure:"log_level"`
	Provider    ProviderConfig `mapstructure:"provider"`
	Cache       CacheConfig    `mapstructure:"cache"`
	Warmer      WarmerConfig   `mapstructure:"warmer"`
	Server      ServerConfig   `mapstructure:"server"`
}

// ProviderConfig holds data provider query settings
type ProviderConfig struct {
	Endpoint         string        `mapstructure:"endpoint"`
	Timeout          time.Duration `mapstructure:"timeout"`
	TrustPredicateID string        `mapstructure:"trust_predicate_id"`
	TrustObjectID    string        `mapstructure:"trust_object_id"`
}

// CacheConfig holds trusted-circle cache settings
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
	// DatabaseURL selects the PostgreSQL-backed store when set; empty
	// falls back to the in-memory store.
	DatabaseURL string `mapstructure:"database_url"`
}

// WarmerConfig holds cache warming scheduler settings
type WarmerConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Schedule      string `mapstructure:"schedule"`
	MaxConcurrent int    `mapstructure:"max_concurrent"`
}

// ServerConfig holds insight endpoint settings
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Load reads the configuration file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default configuration values
	setDefaults(v)

	// Read the config file
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, will rely on defaults and env vars
	}

	// Override with environment variables
	v.SetEnvPrefix("INSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Parse the configuration
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values for all configuration options
func setDefaults(v *viper.Viper) {
	// General defaults
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")

	// Provider defaults
	v.SetDefault("provider.timeout", "10s")

	// Cache defaults
	v.SetDefault("cache.ttl", "5m")

	// Warmer defaults
	v.SetDefault("warmer.enabled", false)
	v.SetDefault("warmer.schedule", "0 */4 * * * *")
	v.SetDefault("warmer.max_concurrent", 4)

	// Server defaults
	v.SetDefault("server.addr", ":8090")
	v.SetDefault("server.shutdown_timeout", "10s")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Provider.Endpoint == "" {
		return fmt.Errorf("provider.endpoint is required")
	}
	if c.Provider.TrustPredicateID == "" || c.Provider.TrustObjectID == "" {
		return fmt.Errorf("provider trust predicate and object identifiers are required")
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("provider.timeout must be positive")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Warmer.Enabled && c.Warmer.MaxConcurrent <= 0 {
		return fmt.Errorf("warmer.max_concurrent must be positive")
	}
	return nil
}
