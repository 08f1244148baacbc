// Package config provides unified configuration loading for espalier.
// It supports loading from YAML files and environment variables.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/espalier/pkg/domain"
)

// Config contains all espalier configuration settings.
type Config struct {
	// Engine contains defaults applied to every run the server or CLI starts.
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// Server contains settings for the HTTP API.
	Server ServerConfig `json:"server" yaml:"server"`

	// Sessions contains settings for interactive session persistence.
	Sessions SessionsConfig `json:"sessions" yaml:"sessions"`

	// History contains settings for the run history store.
	History HistoryConfig `json:"history" yaml:"history"`

	// Library contains settings for the definition library.
	Library LibraryConfig `json:"library" yaml:"library"`

	// Logging contains settings for structured logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// EngineConfig sets run defaults.
type EngineConfig struct {
	// MaxSteps caps configurations expanded per run. 0 means unbounded.
	MaxSteps int `json:"max_steps" yaml:"max_steps"`

	// Mode is the default acceptance mode: "final_state", "empty_stack"
	// or "both".
	Mode string `json:"mode" yaml:"mode"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr" yaml:"addr"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// SessionsConfig configures where interactive sessions persist.
type SessionsConfig struct {
	// Backend selects the session store: "memory", "file" or "redis".
	Backend string `json:"backend" yaml:"backend"`

	// Path is the directory used by the file backend.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// RedisURL is the connection URL used by the redis backend.
	// Supports ${VAR} syntax for env vars.
	RedisURL string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`

	// EncryptionKey encrypts snapshots at rest when set. Base64-encoded
	// 32 bytes; supports ${VAR} syntax for env vars.
	EncryptionKey string `json:"encryption_key,omitempty" yaml:"encryption_key,omitempty"`

	// LockTTL guards distributed session locks against dead holders.
	LockTTL time.Duration `json:"lock_ttl" yaml:"lock_ttl"`
}

// RedactedKey returns the encryption key with most characters masked.
// Returns "" for empty keys and "(set)" for keys shorter than 12 chars.
func (c SessionsConfig) RedactedKey() string {
	if c.EncryptionKey == "" {
		return ""
	}
	if len(c.EncryptionKey) < 12 {
		return "(set)"
	}
	return c.EncryptionKey[:4] + "..." + c.EncryptionKey[len(c.EncryptionKey)-4:]
}

// String implements fmt.Stringer to prevent accidental key logging.
func (c SessionsConfig) String() string {
	return fmt.Sprintf("SessionsConfig{Backend:%s, EncryptionKey:%s}", c.Backend, c.RedactedKey())
}

// Key decodes the configured encryption key. Returns nil when unset.
func (c SessionsConfig) Key() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption_key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption_key must decode to 32 bytes (AES-256), got %d", len(key))
	}
	return key, nil
}

// HistoryConfig configures the run history store.
type HistoryConfig struct {
	// Path is the SQLite database file. Empty disables history recording.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// LibraryConfig configures the definition library.
type LibraryConfig struct {
	// Dir is the directory scanned for definition documents.
	Dir string `json:"dir" yaml:"dir"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level sets the log verbosity: "debug", "info" (default), "warn"
	// or "error".
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxSteps: 1000,
			Mode:     string(domain.AcceptFinalState),
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Sessions: SessionsConfig{
			Backend: "memory",
			LockTTL: 30 * time.Second,
		},
		History: HistoryConfig{
			Path: DefaultHistoryPath(),
		},
		Library: LibraryConfig{
			Dir: "machines",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultHistoryPath returns ~/.espalier/history.db, or a relative fallback
// when the home directory cannot be resolved.
func DefaultHistoryPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".espalier", "history.db")
	}
	return filepath.Join(homeDir, ".espalier", "history.db")
}

// Load loads configuration from the default locations and environment
// variables. Order: defaults -> ~/.espalier/config.yaml -> environment.
func Load() (*Config, error) {
	config := Default()

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".espalier", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand environment variables in secrets
	config.Sessions.EncryptionKey = expandEnvVars(config.Sessions.EncryptionKey)
	config.Sessions.RedisURL = expandEnvVars(config.Sessions.RedisURL)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Engine.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be non-negative, got %d", c.Engine.MaxSteps)
	}

	if c.Engine.Mode != "" {
		if _, err := domain.ParseAcceptanceMode(c.Engine.Mode); err != nil {
			return fmt.Errorf("invalid mode: %w", err)
		}
	}

	validBackends := map[string]bool{"memory": true, "file": true, "redis": true}
	if !validBackends[c.Sessions.Backend] {
		return fmt.Errorf("invalid session backend: %s (valid: memory, file, redis)", c.Sessions.Backend)
	}
	if c.Sessions.Backend == "redis" && c.Sessions.RedisURL == "" {
		return fmt.Errorf("redis session backend requires redis_url")
	}
	if c.Sessions.LockTTL < 0 {
		return fmt.Errorf("lock_ttl must be non-negative, got %v", c.Sessions.LockTTL)
	}
	if _, err := c.Sessions.Key(); err != nil {
		return err
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("ESPALIER_ADDR"); v != "" {
		config.Server.Addr = v
	}

	if v := os.Getenv("ESPALIER_SESSION_BACKEND"); v != "" {
		config.Sessions.Backend = v
	}

	if v := os.Getenv("ESPALIER_SESSION_PATH"); v != "" {
		config.Sessions.Path = v
	}

	if v := os.Getenv("ESPALIER_REDIS_URL"); v != "" {
		config.Sessions.RedisURL = v
	}

	if v := os.Getenv("ESPALIER_SESSION_KEY"); v != "" {
		config.Sessions.EncryptionKey = v
	}

	if v := os.Getenv("ESPALIER_HISTORY_PATH"); v != "" {
		config.History.Path = v
	}

	if v := os.Getenv("ESPALIER_LIBRARY_DIR"); v != "" {
		config.Library.Dir = v
	}

	if v := os.Getenv("ESPALIER_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("ESPALIER_MAX_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Engine.MaxSteps = n
		}
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment
// variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
