// Package config provides configuration loading and validation for the
// talent-query CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// defaultJWTExpirationHours applies when JWT_EXPIRATION_HOURS is unset.
const defaultJWTExpirationHours = 24

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags. Environment variables (loaded through godotenv in main) override
// nothing here; flags always win.
type Config struct {
	// Tables
	TablesDir   string `json:"tables_dir,omitempty"`   // Directory with lookup table JSON files; empty = embedded defaults
	WatchTables bool   `json:"watch_tables,omitempty"` // Reload tables when the files change

	// Server
	Port      int `json:"port,omitempty"`       // HTTP listen port
	RateLimit int `json:"rate_limit,omitempty"` // Requests per second per client; 0 disables limiting

	// Collaborators
	DatabaseURL  string `json:"database_url,omitempty"`   // PostgreSQL URL for the term curation store
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key; empty disables the LLM tagger
	GeminiModel  string `json:"gemini_model,omitempty"`   // Gemini model name

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config error: 'rate_limit' must be non-negative")
	}
	if c.TablesDir != "" {
		if info, err := os.Stat(c.TablesDir); err != nil || !info.IsDir() {
			return fmt.Errorf("config error: tables directory not found: %s", c.TablesDir)
		}
	}
	if c.WatchTables && c.TablesDir == "" {
		return fmt.Errorf("config error: 'watch_tables' requires 'tables_dir'")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.TablesDir == "" {
		result.TablesDir = defaults.TablesDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.GeminiModel == "" {
		result.GeminiModel = defaults.GeminiModel
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		if defaults.Port != 0 {
			result.Port = defaults.Port
		} else {
			result.Port = 8080
		}
	}
	if result.RateLimit == 0 {
		result.RateLimit = defaults.RateLimit
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// JWTConfig holds the shared-secret signing settings for the tokens that
// protect the admin endpoints. Unlike Config it comes from the environment
// only; the secret must never land in a config file on disk.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig reads JWT_SECRET and JWT_EXPIRATION_HOURS. A missing secret is
// an error; callers that want auth disabled should not construct a JWTConfig
// at all.
func NewJWTConfig() (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret:          os.Getenv("JWT_SECRET"),
		ExpirationHours: defaultJWTExpirationHours,
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	if raw := os.Getenv("JWT_EXPIRATION_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		cfg.ExpirationHours = hours
	}
	if cfg.ExpirationHours < 1 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", cfg.ExpirationHours)
	}
	return cfg, nil
}
