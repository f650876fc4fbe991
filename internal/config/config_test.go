// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal() can be
// called concurrently without races.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	t.Setenv("HOME", t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.API.BaseURL = "http://chat.example:8000"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestConfig_GlobalInitialization(t *testing.T) {
	ResetGlobalForTesting()
	t.Setenv("HOME", t.TempDir())

	cfg := Global()
	require.NotNil(t, cfg)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.API.BaseURL)
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 100*time.Millisecond, cfg.UI.ScrollDelay())
	assert.Equal(t, 15*time.Second, cfg.API.Timeout())
	assert.True(t, cfg.UI.SmoothScroll)
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid default config", func(c *Config) {}, false},
		{"relative base url", func(c *Config) { c.API.BaseURL = "/chats" }, true},
		{"ftp base url", func(c *Config) { c.API.BaseURL = "ftp://example.com" }, true},
		{"zero timeout", func(c *Config) { c.API.TimeoutSecs = 0 }, true},
		{"negative rate limit", func(c *Config) { c.API.RateLimit = -1 }, true},
		{"invalid theme", func(c *Config) { c.UI.Theme = "neon" }, true},
		{"scroll delay too long", func(c *Config) { c.UI.ScrollDelayMs = 10000 }, true},
		{"invalid log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"negative idle entries", func(c *Config) { c.Cache.IdleEntries = -1 }, true},
		{"zero scroll delay", func(c *Config) { c.UI.ScrollDelayMs = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	c := Default()
	c.UI.Theme = "neon"
	c.Log.Format = "xml"

	err := c.Validate()
	var verrs ValidateErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
	assert.Contains(t, err.Error(), "ui.theme")
	assert.Contains(t, err.Error(), "log.format")
}

func TestLoadFromPath_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "http://chat.example:9000/"
rate_limit = 5.0

[ui]
theme = "dark"
scroll_delay_ms = 250
`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "http://chat.example:9000", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 5.0, cfg.API.RateLimit)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, 250*time.Millisecond, cfg.UI.ScrollDelay())
	assert.Equal(t, 15, cfg.API.TimeoutSecs, "unset values keep defaults")
}

func TestLoadFromPath_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api":{"base_url":"https://pony.example"}}`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://pony.example", cfg.API.BaseURL)
}

func TestLoadFromPath_InvalidRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("PONY_BASE_URL", "http://override.example:8000")
	t.Setenv("PONY_SCROLL_DELAY_MS", "0")
	t.Setenv("PONY_LOG_LEVEL", "debug")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnvOverrides())

	assert.Equal(t, "http://override.example:8000", cfg.API.BaseURL)
	assert.Equal(t, 0, cfg.UI.ScrollDelayMs)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "auto", cfg.UI.Theme, "unset variables leave values alone")
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pony", "config.toml")

	cfg := Default()
	cfg.API.BaseURL = "http://saved.example:8000"
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if info.Mode().Perm() != 0600 && runtime.GOOS != "windows" {
		t.Errorf("config file mode = %o, want 600", info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved.example:8000", loaded.API.BaseURL)
}

func TestConfig_Get(t *testing.T) {
	cfg := Default()

	val, err := cfg.Get("api.base_url")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", val)

	val, err = cfg.Get("ui.scroll_delay_ms")
	require.NoError(t, err)
	assert.Equal(t, 100, val)

	_, err = cfg.Get("api.nope")
	assert.Error(t, err)

	_, err = cfg.Get("api.base_url.deeper")
	assert.Error(t, err)
}
