// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config is the JSON configuration file. All fields are optional; missing
// values fall back to defaults or CLI flags.
type Config struct {
	// Data sources
	Compendium  string `json:"compendium,omitempty" validate:"omitempty,filepath"` // Path to compendium JSON file
	DatabaseURL string `json:"database_url,omitempty"`                             // PostgreSQL connection URL, used instead of the file when set

	// Selection
	Provider       string `json:"provider,omitempty" validate:"omitempty,oneof=gemini openai anthropic"`
	MaxBullets     int    `json:"max_bullets,omitempty" validate:"omitempty,gt=0"`
	MaxPerCompany  int    `json:"max_per_company,omitempty" validate:"omitempty,gte=0"`
	MaxPerPosition int    `json:"max_per_position,omitempty" validate:"omitempty,gte=0"`
	MinPerCompany  int    `json:"min_per_company,omitempty" validate:"omitempty,gte=0"`

	// Orchestration
	MaxRetries      int  `json:"max_retries,omitempty" validate:"omitempty,gt=0"`
	DisableFallback bool `json:"disable_fallback,omitempty"`

	// Server
	Port int `json:"port,omitempty" validate:"omitempty,gt=0,lte=65535"`

	// Logging
	Verbose  bool `json:"verbose,omitempty"`
	JSONLogs bool `json:"json_logs,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
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

// Validate checks field values and cross-field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.Compendium != "" && c.DatabaseURL != "" {
		return fmt.Errorf("config error: 'compendium' and 'database_url' are mutually exclusive")
	}
	if c.Compendium != "" {
		if _, err := os.Stat(c.Compendium); os.IsNotExist(err) {
			return fmt.Errorf("config error: compendium file not found: %s", c.Compendium)
		}
	}
	return nil
}

// MergeWithDefaults fills zero-value fields from defaults. Bool fields are
// not merged since unset and false are indistinguishable; CLI flags win.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Compendium == "" {
		result.Compendium = defaults.Compendium
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.MaxBullets == 0 {
		result.MaxBullets = defaults.MaxBullets
	}
	if result.MaxPerCompany == 0 {
		result.MaxPerCompany = defaults.MaxPerCompany
	}
	if result.MaxPerPosition == 0 {
		result.MaxPerPosition = defaults.MaxPerPosition
	}
	if result.MinPerCompany == 0 {
		result.MinPerCompany = defaults.MinPerCompany
	}
	if result.MaxRetries == 0 {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	return result
}
