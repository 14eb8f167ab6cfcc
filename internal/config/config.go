// Package config loads squadstats settings from ~/.squadstats/config.yaml,
// with environment variables taking precedence over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Shared store kinds.
const (
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

const (
	dirName  = ".squadstats"
	fileName = "config.yaml"
)

// Config holds user and server settings.
type Config struct {
	DataDir     string `yaml:"data_dir"`     // Local profile + membership database lives here
	SharedStore string `yaml:"shared_store"` // sqlite, redis, postgres or memory
	SharedPath  string `yaml:"shared_path"`  // SQLite file for the sqlite shared store
	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`

	Addr         string `yaml:"addr"`
	PollInterval string `yaml:"poll_interval"` // Go duration, e.g. "2s"

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	path string
}

// DefaultConfig returns default settings.
func DefaultConfig() *Config {
	return &Config{
		DataDir:      defaultDir(),
		SharedStore:  StoreSQLite,
		Addr:         ":8080",
		PollInterval: "2s",
		GeminiModel:  "gemini-3-flash-preview",
		LogLevel:     "info",
	}
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dirName
	}
	return filepath.Join(home, dirName)
}

// DefaultPath returns ~/.squadstats/config.yaml.
func DefaultPath() string {
	return filepath.Join(defaultDir(), fileName)
}

// Load reads the config at path, or DefaultPath when path is empty. A
// missing file yields the defaults. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DataDir = getEnv("SQUAD_DATA_DIR", c.DataDir)
	c.SharedStore = getEnv("SQUAD_SHARED_STORE", c.SharedStore)
	c.SharedPath = getEnv("SQUAD_SHARED_PATH", c.SharedPath)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.Addr = getEnv("SQUAD_ADDR", c.Addr)
	c.PollInterval = getEnv("SQUAD_POLL_INTERVAL", c.PollInterval)
	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.LogLevel = getEnv("SQUAD_LOG_LEVEL", c.LogLevel)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate checks that the shared store is known and has its URL.
func (c *Config) Validate() error {
	switch c.SharedStore {
	case StoreSQLite, StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("shared_store %q requires redis_url", c.SharedStore)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("shared_store %q requires database_url", c.SharedStore)
		}
	default:
		return fmt.Errorf("unknown shared_store %q", c.SharedStore)
	}
	if _, err := c.Interval(); err != nil {
		return err
	}
	return nil
}

// Interval parses PollInterval.
func (c *Config) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid poll_interval %q: %w", c.PollInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("poll_interval must be positive, got %s", d)
	}
	return d, nil
}

// LocalDBPath is the SQLite file holding the profile and membership index.
func (c *Config) LocalDBPath() string {
	return filepath.Join(c.DataDir, "local.db")
}

// SharedDBPath is the SQLite file used when SharedStore is sqlite. Several
// local profiles on one machine can share groups by pointing SharedPath at
// the same file.
func (c *Config) SharedDBPath() string {
	if c.SharedPath != "" {
		return c.SharedPath
	}
	return filepath.Join(c.DataDir, "shared.db")
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	if c.path == "" {
		return DefaultPath()
	}
	return c.path
}

// Save writes the config back to Path.
func (c *Config) Save() error {
	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// May hold an API key.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
