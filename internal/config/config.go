// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for aurora.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.aurora/config.toml
//   - ~/.aurora/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/subosito/gotenv"

	"github.com/jeranaias/aurora-chat/internal/api"
	"github.com/jeranaias/aurora-chat/internal/logging"
	"github.com/jeranaias/aurora-chat/internal/provider"
	"github.com/jeranaias/aurora-chat/internal/storage"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete aurora configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// APIBaseURL is the chat backend base URL, including any path prefix
	APIBaseURL string `toml:"api_base_url" json:"api_base_url"`
	// DefaultProvider is selected for fresh sessions and unknown persisted providers
	DefaultProvider string `toml:"default_provider" json:"default_provider"`
	// AllowOllama adds the local Ollama provider to the built-in catalogue
	AllowOllama bool `toml:"allow_ollama" json:"allow_ollama"`
	// RemoteCatalogue fetches providers and the default provider from {api_base_url}/config
	RemoteCatalogue bool `toml:"remote_catalogue" json:"remote_catalogue"`
	// Providers replaces the built-in catalogue when non-empty
	Providers []provider.Provider `toml:"providers" json:"providers"`

	// Storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`

	// Backend client configuration
	Client ClientConfig `toml:"client" json:"client"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log"`
}

// StorageConfig selects where session and history are kept.
type StorageConfig struct {
	// Backend is "file", "sqlite" or "memory"
	Backend string `toml:"backend" json:"backend"`
	// DataDir holds the records (empty = ~/.aurora/data)
	DataDir string `toml:"data_dir" json:"data_dir"`
}

// ClientConfig tunes the backend client.
type ClientConfig struct {
	// TimeoutSecs is the per-request timeout
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RequestsPerSecond paces outgoing requests (0 = unlimited)
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	// MaxHistory caps how many messages are sent upstream (0 = entire history)
	MaxHistory int `toml:"max_history" json:"max_history"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// ToastSecs is how long notifications stay visible
	ToastSecs int `toml:"toast_secs" json:"toast_secs"`
	// Markdown renders assistant replies as markdown
	Markdown bool `toml:"markdown" json:"markdown"`
	// WordWrap is the wrap width for rendered replies
	WordWrap int `toml:"word_wrap" json:"word_wrap"`
}

// LogConfig controls the application log. The terminal belongs to the UI,
// so logs go to a file.
type LogConfig struct {
	Debug bool   `toml:"debug" json:"debug"`
	Level string `toml:"level" json:"level"`
	// Path of the log file (empty = ~/.aurora/aurora.log, "off" disables logging)
	Path string `toml:"path" json:"path"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Version:         "1",
		APIBaseURL:      api.DefaultBaseURL,
		DefaultProvider: provider.DefaultProviderID,
		AllowOllama:     true,
		Storage: StorageConfig{
			Backend: storage.BackendFile,
		},
		Client: ClientConfig{
			TimeoutSecs: 120,
		},
		UI: UIConfig{
			ToastSecs: 3,
			Markdown:  true,
			WordWrap:  80,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the aurora configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".aurora"), nil
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

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions checks and fixes permissions on config files.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// .env files and environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	loaded := false
	if tomlPath, err := ConfigPathTOML(); err == nil && fileExists(tomlPath) {
		if err := LoadTOML(cfg, tomlPath); err != nil {
			loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			cfg = Default()
		} else {
			loaded = true
		}
	}

	if !loaded {
		if jsonPath, err := ConfigPathJSON(); err == nil && fileExists(jsonPath) {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
				cfg = Default()
			}
		}
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}

	// Return the config (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from .env files into the process
// environment. Variables already set are left alone; missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if !fileExists(path) {
			continue
		}
		if err := gotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// DotEnvPaths returns the .env files consulted by Load: the working
// directory's, then the config directory's.
func DotEnvPaths() []string {
	paths := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, ".env"))
	}
	return paths
}

// finish runs the shared tail of every load path.
func finish(cfg *Config) error {
	if err := LoadDotEnv(DotEnvPaths()...); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// Ensure permissions are correct even if file already existed
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# aurora configuration file")
	fmt.Fprintln(file, "# Generated by aurora - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
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
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api_base_url",
			Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", c.APIBaseURL),
		})
	}

	if c.DefaultProvider == "" {
		errs = append(errs, ValidationError{Field: "default_provider", Message: "must not be empty"})
	} else if !c.RemoteCatalogue {
		// With a remote catalogue the provider list is only known at startup
		found := false
		for _, p := range c.Catalogue() {
			if p.ID == c.DefaultProvider {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, ValidationError{
				Field:   "default_provider",
				Message: fmt.Sprintf("%q is not in the provider catalogue", c.DefaultProvider),
			})
		}
	}

	if _, err := provider.NewRegistry(c.Catalogue()); err != nil {
		errs = append(errs, ValidationError{Field: "providers", Message: err.Error()})
	}

	switch c.Storage.Backend {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendMemory:
	default:
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("must be one of file, sqlite, memory; got %q", c.Storage.Backend),
		})
	}

	if c.Client.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "client.timeout_secs", Message: "must not be negative"})
	}
	if c.Client.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{Field: "client.requests_per_second", Message: "must not be negative"})
	}
	if c.Client.MaxHistory < 0 {
		errs = append(errs, ValidationError{Field: "client.max_history", Message: "must not be negative"})
	}
	if c.UI.ToastSecs < 0 {
		errs = append(errs, ValidationError{Field: "ui.toast_secs", Message: "must not be negative"})
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills in zero values that have no meaningful zero.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaults.APIBaseURL
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.DefaultProvider == "" {
		c.DefaultProvider = defaults.DefaultProvider
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.Client.TimeoutSecs == 0 {
		c.Client.TimeoutSecs = defaults.Client.TimeoutSecs
	}
	if c.UI.ToastSecs == 0 {
		c.UI.ToastSecs = defaults.UI.ToastSecs
	}
	if c.UI.WordWrap <= 0 {
		c.UI.WordWrap = defaults.UI.WordWrap
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - API_BASE_URL: overrides api_base_url
//   - DEFAULT_PROVIDER: overrides default_provider
//   - ALLOW_OLLAMA: overrides allow_ollama (1, true, yes)
//   - AURORA_STORE: overrides storage.backend
//   - AURORA_DATA_DIR: overrides storage.data_dir
//   - AURORA_MAX_HISTORY: overrides client.max_history
//   - AURORA_DEBUG: enables debug logging
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("DEFAULT_PROVIDER"); v != "" {
		c.DefaultProvider = v
	}
	if v := os.Getenv("ALLOW_OLLAMA"); v != "" {
		c.AllowOllama = parseBool(v)
	}
	if v := os.Getenv("AURORA_STORE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("AURORA_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("AURORA_MAX_HISTORY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Client.MaxHistory = n
		}
	}
	if v := os.Getenv("AURORA_DEBUG"); v != "" && parseBool(v) {
		c.Log.Debug = true
		c.Log.Level = "debug"
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// Startup is the read-only configuration a front end starts from.
type Startup struct {
	APIBaseURL         string
	AvailableProviders []provider.Provider
	DefaultProvider    string
}

// Catalogue returns the configured providers, or the built-in ones.
func (c *Config) Catalogue() []provider.Provider {
	if len(c.Providers) > 0 {
		out := make([]provider.Provider, len(c.Providers))
		copy(out, c.Providers)
		return out
	}
	return provider.Builtin(provider.BuiltinOptions{AllowOllama: c.AllowOllama})
}

// Startup returns the local startup configuration.
func (c *Config) Startup() Startup {
	return Startup{
		APIBaseURL:         c.APIBaseURL,
		AvailableProviders: c.Catalogue(),
		DefaultProvider:    c.DefaultProvider,
	}
}

// StartupFromRemote merges the backend-published configuration over the
// local one. The local base URL is kept; the remote one is usually relative.
func (c *Config) StartupFromRemote(remote *api.RemoteConfig) Startup {
	s := c.Startup()
	if remote == nil {
		return s
	}
	if len(remote.AvailableProviders) > 0 {
		s.AvailableProviders = remote.AvailableProviders
	}
	if remote.DefaultProvider != "" {
		s.DefaultProvider = remote.DefaultProvider
	}
	return s
}

// StorageOptions converts the storage section for storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{Backend: c.Storage.Backend, Dir: c.Storage.DataDir}
}

// APIClientConfig converts the client section for api.NewClient.
func (c *Config) APIClientConfig() *api.ClientConfig {
	return &api.ClientConfig{
		BaseURL:           c.APIBaseURL,
		Timeout:           time.Duration(c.Client.TimeoutSecs) * time.Second,
		RequestsPerSecond: c.Client.RequestsPerSecond,
	}
}

// LoggingOptions converts the log section for logging.New.
func (c *Config) LoggingOptions() logging.Options {
	path := c.Log.Path
	switch path {
	case "off":
		path = ""
	case "":
		if dir, err := ConfigDir(); err == nil {
			path = filepath.Join(dir, "aurora.log")
		}
	}
	return logging.Options{Debug: c.Log.Debug, Level: c.Log.Level, Path: path}
}

// ToastDuration returns how long notifications stay visible.
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.UI.ToastSecs) * time.Second
}

// String returns an indented JSON rendering for display.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
