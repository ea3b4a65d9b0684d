// Package config provides configuration for the snug service and CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	snugerrors "github.com/snugunits/snug/internal/errors"
)

// Config holds the configuration for the snug service.
type Config struct {
	// Log configuration
	Log LogConfig `json:"log" yaml:"log"`

	// HTTP configuration
	HTTP HTTPConfig `json:"http" yaml:"http"`

	// Parse cache configuration
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// Symbol statistics configuration
	Stats StatsConfig `json:"stats" yaml:"stats"`

	// Batch evaluation configuration
	Batch BatchConfig `json:"batch" yaml:"batch"`

	// Shutdown configuration
	Shutdown ShutdownConfig `json:"shutdown" yaml:"shutdown"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `json:"level" yaml:"level"`

	// Format is json or console
	Format string `json:"format" yaml:"format"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	// Addr is the listen address of the API
	Addr string `json:"addr" yaml:"addr"`

	// ReadTimeout is the HTTP read timeout
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the HTTP write timeout
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`

	// IdleTimeout is the HTTP idle timeout
	IdleTimeout time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
}

// CacheConfig holds parse cache configuration.
type CacheConfig struct {
	// Enabled turns the parse cache on
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Shards is the number of independently locked shards
	Shards int `json:"shards" yaml:"shards"`

	// CapacityPerShard is the number of expressions kept per shard
	CapacityPerShard int `json:"capacity_per_shard" yaml:"capacity_per_shard"`
}

// StatsConfig holds symbol statistics configuration.
type StatsConfig struct {
	// Window is how long an unused symbol stays in the statistics
	Window time.Duration `json:"window" yaml:"window"`

	// PruneInterval is how often old entries are removed
	PruneInterval time.Duration `json:"prune_interval" yaml:"prune_interval"`

	// TopN is the number of entries reported by /v1/stats
	TopN int `json:"top_n" yaml:"top_n"`
}

// BatchConfig holds batch evaluation configuration.
type BatchConfig struct {
	// Concurrency is the number of expressions evaluated in parallel
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// MaxExpressions caps the size of a single batch request
	MaxExpressions int `json:"max_expressions" yaml:"max_expressions"`
}

// ShutdownConfig holds graceful shutdown configuration.
type ShutdownConfig struct {
	// Timeout is the maximum time to wait for graceful shutdown
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// DrainTimeout is the time to wait for in-flight requests
	DrainTimeout time.Duration `json:"drain_timeout" yaml:"drain_timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:          true,
			Shards:           16,
			CapacityPerShard: 256,
		},
		Stats: StatsConfig{
			Window:        time.Hour,
			PruneInterval: 5 * time.Minute,
			TopN:          10,
		},
		Batch: BatchConfig{
			Concurrency:    8,
			MaxExpressions: 1000,
		},
		Shutdown: ShutdownConfig{
			Timeout:      30 * time.Second,
			DrainTimeout: 15 * time.Second,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return snugerrors.NewConfigError(fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}

	if c.Log.Format != "json" && c.Log.Format != "console" {
		return snugerrors.NewConfigError(fmt.Sprintf("invalid log format: %s (must be json or console)", c.Log.Format))
	}

	if c.HTTP.Addr == "" {
		return snugerrors.NewConfigError("http.addr is required")
	}

	if c.Cache.Enabled {
		if c.Cache.Shards <= 0 || c.Cache.Shards&(c.Cache.Shards-1) != 0 {
			return snugerrors.NewConfigError(fmt.Sprintf("cache.shards must be a positive power of two, got %d", c.Cache.Shards))
		}
		if c.Cache.CapacityPerShard <= 0 {
			return snugerrors.NewConfigError(fmt.Sprintf("cache.capacity_per_shard must be positive, got %d", c.Cache.CapacityPerShard))
		}
	}

	if c.Stats.Window <= 0 {
		return snugerrors.NewConfigError("stats.window must be positive")
	}

	if c.Batch.Concurrency < 1 || c.Batch.Concurrency > 256 {
		return snugerrors.NewConfigError(fmt.Sprintf("batch.concurrency must be between 1 and 256, got %d", c.Batch.Concurrency))
	}

	if c.Batch.MaxExpressions < 1 {
		return snugerrors.NewConfigError(fmt.Sprintf("batch.max_expressions must be positive, got %d", c.Batch.MaxExpressions))
	}

	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables already set are kept. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the SNUG_ prefix.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("SNUG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SNUG_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	// HTTP configuration
	if v := os.Getenv("SNUG_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("SNUG_HTTP_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.ReadTimeout = d
		}
	}
	if v := os.Getenv("SNUG_HTTP_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.WriteTimeout = d
		}
	}

	// Cache configuration
	if v := os.Getenv("SNUG_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("SNUG_CACHE_SHARDS"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Cache.Shards)
	}
	if v := os.Getenv("SNUG_CACHE_CAPACITY_PER_SHARD"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Cache.CapacityPerShard)
	}

	// Stats configuration
	if v := os.Getenv("SNUG_STATS_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Stats.Window = d
		}
	}

	// Batch configuration
	if v := os.Getenv("SNUG_BATCH_CONCURRENCY"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Batch.Concurrency)
	}
	if v := os.Getenv("SNUG_BATCH_MAX_EXPRESSIONS"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Batch.MaxExpressions)
	}
}
