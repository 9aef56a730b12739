// Package config provides configuration management for the news explorer server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"hexnews/internal/keywords"
)

// Configuration validation errors.
var (
	ErrMissingAddr         = errors.New("server.addr is required")
	ErrInvalidPublicURL    = errors.New("server.public_url must be an absolute http(s) URL")
	ErrMissingBackendURL   = errors.New("backend.base_url is required")
	ErrInvalidBackendURL   = errors.New("backend.base_url must be an absolute http(s) URL")
	ErrInvalidTimeout      = errors.New("backend.timeout_sec must be non-negative")
	ErrInvalidResponseSize = errors.New("backend.max_response_mb must be at least 1")
	ErrInvalidIdleTTL      = errors.New("session.idle_ttl_min must be at least 1")
	ErrInvalidMaxSelection = errors.New("session.max_selection must be between 1 and 3")
	ErrMissingFilename     = errors.New("export.filename is required when export is enabled")
	ErrInvalidScale        = errors.New("export.scale must be between 1 and 4")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// PublicURL is the address the report rasterizer uses to reach this server.
	PublicURL string `yaml:"public_url"`
}

// BackendConfig describes the external search/summarization service.
type BackendConfig struct {
	BaseURL       string `yaml:"base_url"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	MaxResponseMb int    `yaml:"max_response_mb"`
}

// SessionConfig controls transient per-visit state.
type SessionConfig struct {
	IdleTTLMin   int `yaml:"idle_ttl_min"`
	MaxSelection int `yaml:"max_selection"`
}

// ExportConfig controls PDF export of the final report.
type ExportConfig struct {
	ControlURL string  `yaml:"control_url"`
	Bin        string  `yaml:"bin"`
	Filename   string  `yaml:"filename"`
	Scale      float64 `yaml:"scale"`
	Enabled    bool    `yaml:"enabled"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      ":8080",
			PublicURL: "http://localhost:8080",
		},
		Backend: BackendConfig{
			BaseURL:       "http://localhost:5001",
			TimeoutSec:    0,
			MaxResponseMb: 10,
		},
		Session: SessionConfig{
			IdleTTLMin:   60,
			MaxSelection: 3,
		},
		Export: ExportConfig{
			Enabled:  true,
			Filename: "news-report.pdf",
			Scale:    2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from YAML file on top of the defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return ErrMissingAddr
	}

	if c.Server.PublicURL != "" && !isHTTPURL(c.Server.PublicURL) {
		return ErrInvalidPublicURL
	}

	if c.Backend.BaseURL == "" {
		return ErrMissingBackendURL
	}

	if !isHTTPURL(c.Backend.BaseURL) {
		return ErrInvalidBackendURL
	}

	if c.Backend.TimeoutSec < 0 {
		return ErrInvalidTimeout
	}

	if c.Backend.MaxResponseMb < 1 {
		return ErrInvalidResponseSize
	}

	if c.Session.IdleTTLMin < 1 {
		return ErrInvalidIdleTTL
	}

	if c.Session.MaxSelection < 1 || c.Session.MaxSelection > keywords.DefaultMaxSelected {
		return ErrInvalidMaxSelection
	}

	if c.Export.Enabled {
		if c.Export.Filename == "" {
			return ErrMissingFilename
		}

		if c.Export.Scale < 1 || c.Export.Scale > 4 {
			return ErrInvalidScale
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// GetTimeout returns the backend request timeout. Zero means no timeout.
func (b *BackendConfig) GetTimeout() time.Duration {
	return time.Duration(b.TimeoutSec) * time.Second
}

// GetMaxResponseBytes returns the response body limit in bytes.
func (b *BackendConfig) GetMaxResponseBytes() int64 {
	return int64(b.MaxResponseMb) * 1024 * 1024
}

// GetIdleTTL returns how long an untouched session survives.
func (s *SessionConfig) GetIdleTTL() time.Duration {
	return time.Duration(s.IdleTTLMin) * time.Minute
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Addr: %s, Backend: %s, Export: %t}",
		c.Server.Addr,
		c.Backend.BaseURL,
		c.Export.Enabled,
	)
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
