// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for aurora.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - StorageConfig: Persistence backend and data directory
//   - ClientConfig: Backend client timeout, pacing and history cap
//   - Startup: API base URL, provider catalogue and default provider
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (API_BASE_URL, DEFAULT_PROVIDER, ALLOW_OLLAMA, AURORA_*)
//   - .env in the working directory, then ~/.aurora/.env
//   - ~/.aurora/config.toml
//   - ~/.aurora/config.json
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
// Derive component settings:
//
//	st, err := storage.Open(cfg.StorageOptions())
//	client := api.NewClient(cfg.APIClientConfig())
package config
