// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for pony.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - --config <path>
//   - ~/.pony/config.toml
//   - ~/.pony/config.json
//   - Built-in defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/goccy/go-json"

	"github.com/jeranaias/pony-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete pony configuration.
type Config struct {
	// API describes the chat service and how requests reach it.
	API APIConfig `toml:"api" json:"api"`

	// Cache configures the query cache.
	Cache CacheConfig `toml:"cache" json:"cache"`

	// UI configures the terminal interface.
	UI UIConfig `toml:"ui" json:"ui"`

	// Log configures diagnostics.
	Log LogConfig `toml:"log" json:"log"`
}

// APIConfig contains chat service settings.
type APIConfig struct {
	// BaseURL is the root every request path is resolved against.
	BaseURL string `toml:"base_url" json:"base_url" env:"PONY_BASE_URL"`
	// TimeoutSecs bounds a single request.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" env:"PONY_TIMEOUT_SECS"`
	// RateLimit is the sustained requests per second (0 = unlimited).
	RateLimit float64 `toml:"rate_limit" json:"rate_limit" env:"PONY_RATE_LIMIT"`
	// RateBurst is the number of requests allowed in a burst.
	RateBurst int `toml:"rate_burst" json:"rate_burst" env:"PONY_RATE_BURST"`
	// BreakerFailures is the number of consecutive transport failures that opens the circuit (0 = disabled).
	BreakerFailures int `toml:"breaker_failures" json:"breaker_failures" env:"PONY_BREAKER_FAILURES"`
	// BreakerCooldownSecs is how long an open circuit waits before probing again.
	BreakerCooldownSecs int `toml:"breaker_cooldown_secs" json:"breaker_cooldown_secs" env:"PONY_BREAKER_COOLDOWN_SECS"`
}

// CacheConfig contains query cache settings.
type CacheConfig struct {
	// IdleEntries is how many unsubscribed entries are kept for quick revisits (0 = no bound).
	IdleEntries int `toml:"idle_entries" json:"idle_entries" env:"PONY_CACHE_IDLE_ENTRIES"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is "dark", "light" or "auto".
	Theme string `toml:"theme" json:"theme" env:"PONY_THEME"`
	// ScrollDelayMs is the settle delay before auto-scrolling a thread.
	ScrollDelayMs int `toml:"scroll_delay_ms" json:"scroll_delay_ms" env:"PONY_SCROLL_DELAY_MS"`
	// SmoothScroll animates scrolls caused by new content; false makes every scroll a jump.
	SmoothScroll bool `toml:"smooth_scroll" json:"smooth_scroll" env:"PONY_SMOOTH_SCROLL"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is trace, debug, info, warn, error or disabled.
	Level string `toml:"level" json:"level" env:"PONY_LOG_LEVEL"`
	// Format is "console" or "json".
	Format string `toml:"format" json:"format" env:"PONY_LOG_FORMAT"`
	// File receives TUI logs (empty = ~/.pony/pony.log).
	File string `toml:"file" json:"file" env:"PONY_LOG_FILE"`
}

// Timeout returns the request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// BreakerCooldown returns the open-circuit cooldown as a duration.
func (a APIConfig) BreakerCooldown() time.Duration {
	return time.Duration(a.BreakerCooldownSecs) * time.Second
}

// ScrollDelay returns the auto-scroll settle delay as a duration.
func (u UIConfig) ScrollDelay() time.Duration {
	return time.Duration(u.ScrollDelayMs) * time.Millisecond
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:             "http://127.0.0.1:8000",
			TimeoutSecs:         15,
			RateLimit:           0,
			RateBurst:           10,
			BreakerFailures:     5,
			BreakerCooldownSecs: 30,
		},
		Cache: CacheConfig{
			IdleEntries: 64,
		},
		UI: UIConfig{
			Theme:         "auto",
			ScrollDelayMs: 100,
			SmoothScroll:  true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the pony configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".pony"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath returns the TUI log file, honoring log.file.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	dir, err := ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pony.log")
	}
	return filepath.Join(dir, "pony.log")
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default locations.
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	if strings.HasSuffix(path, ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies environment overrides, fills defaults and validates.
func (c *Config) finish() error {
	if err := c.ApplyEnvOverrides(); err != nil {
		return err
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies PONY_* environment variables on top of the loaded values.
//
// Supported variables:
//   - PONY_BASE_URL, PONY_TIMEOUT_SECS, PONY_RATE_LIMIT, PONY_RATE_BURST
//   - PONY_BREAKER_FAILURES, PONY_BREAKER_COOLDOWN_SECS
//   - PONY_CACHE_IDLE_ENTRIES
//   - PONY_THEME, PONY_SCROLL_DELAY_MS, PONY_SMOOTH_SCROLL
//   - PONY_LOG_LEVEL, PONY_LOG_FORMAT, PONY_LOG_FILE
func (c *Config) ApplyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SetDefaults fills zero values that would make the client unusable.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	c.API.BaseURL = strings.TrimSuffix(c.API.BaseURL, "/")
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.API.RateBurst == 0 {
		c.API.RateBurst = defaults.API.RateBurst
	}
	if c.API.BreakerCooldownSecs == 0 {
		c.API.BreakerCooldownSecs = defaults.API.BreakerCooldownSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = defaults.Log.Format
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration to a TOML file atomically.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# pony configuration file\n")
	b.WriteString("# Environment variables (PONY_*) override these values.\n\n")

	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be an absolute http(s) URL", c.API.BaseURL),
		})
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 300, got %d", c.API.TimeoutSecs),
		})
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "api.rate_limit", Message: "must not be negative"})
	}
	if c.API.RateBurst < 1 {
		errs = append(errs, ValidationError{Field: "api.rate_burst", Message: "must be at least 1"})
	}
	if c.API.BreakerFailures < 0 {
		errs = append(errs, ValidationError{Field: "api.breaker_failures", Message: "must not be negative"})
	}

	if c.Cache.IdleEntries < 0 {
		errs = append(errs, ValidationError{Field: "cache.idle_entries", Message: "must not be negative"})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}
	if c.UI.ScrollDelayMs < 0 || c.UI.ScrollDelayMs > 5000 {
		errs = append(errs, ValidationError{
			Field:   "ui.scroll_delay_ms",
			Message: fmt.Sprintf("must be between 0 and 5000, got %d", c.UI.ScrollDelayMs),
		})
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: console, json", c.Log.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// DOT NOTATION ACCESS
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	if key == "" {
		return nil, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field.Interface(), nil
		}
		if field.Kind() != reflect.Struct {
			return nil, fmt.Errorf("field '%s' is not a section", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return nil, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts snake_case or kebab-case to the Go field name.
// "base_url" becomes "BaseUrl"; Get compares case-insensitively so BaseURL matches.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	var result strings.Builder
	for _, part := range parts {
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}
	return result.String()
}

// String renders the effective configuration as TOML.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}

// =============================================================================
// SINGLETON
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first access.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between tests.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
