// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for pony.
//
// # Key Types
//
//   - Config: complete configuration
//   - APIConfig: chat service URL, timeout, request pacing and circuit breaker
//   - CacheConfig: idle entry retention for the query cache
//   - UIConfig: theme and auto-scroll behavior
//   - LogConfig: level, format and TUI log file
//
// # Configuration Precedence
//
// Configuration is loaded from (highest first):
//   - Command line flags (--base-url)
//   - Environment variables (PONY_*)
//   - --config path, ~/.pony/config.toml or ~/.pony/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.NewClient(cfg.API)
package config
