// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for threadchat.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: backend URL, request timeout, model forwarding
//   - UIConfig: terminal UI behaviour
//   - LogConfig: log level, format and file
//   - ServerConfig: the development backend
//   - Watcher: reloads the file on change
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (THREADCHAT_*, NO_COLOR)
//   - --config path, ~/.threadchat/config.toml or ~/.threadchat/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	url := cfg.Backend.URL
//	timeout := cfg.Backend.Timeout()
//
// Change a setting by key:
//
//	_ = cfg.Set("ui.mouse", "false")
//	_ = config.Save(cfg, "")
package config
