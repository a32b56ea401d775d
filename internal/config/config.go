// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for threadchat.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - --config path given on the command line
//   - ~/.threadchat/config.toml
//   - ~/.threadchat/config.json
//   - Built-in defaults
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/threadchat/internal/logger"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/util"
)

// CurrentVersion is written to new config files.
const CurrentVersion = "1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete threadchat configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend the client talks to
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Terminal UI
	UI UIConfig `toml:"ui" json:"ui"`

	// Logging
	Log LogConfig `toml:"log" json:"log"`

	// Development backend (threadchat serve)
	Server ServerConfig `toml:"server" json:"server"`
}

// BackendConfig configures the HTTP client.
type BackendConfig struct {
	// URL is the backend root, e.g. http://localhost:3000
	URL string `toml:"url" json:"url"`
	// RequestTimeoutSecs bounds each request; 0 disables the timeout
	RequestTimeoutSecs int `toml:"request_timeout_secs" json:"request_timeout_secs"`
	// SendModel appends the selected model id to chat requests
	SendModel bool `toml:"send_model" json:"send_model"`
}

// Timeout returns RequestTimeoutSecs as a duration.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.RequestTimeoutSecs) * time.Second
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// SidebarWidth is the width of the thread list in cells
	SidebarWidth int `toml:"sidebar_width" json:"sidebar_width"`
	// RenderMarkdown renders responses with glamour
	RenderMarkdown bool `toml:"render_markdown" json:"render_markdown"`
	// Mouse enables click handling
	Mouse bool `toml:"mouse" json:"mouse"`
	// NoColor disables colors (also set by NO_COLOR)
	NoColor bool `toml:"no_color" json:"no_color"`
	// DefaultModel is the model selected at startup; empty selects none
	DefaultModel string `toml:"default_model" json:"default_model"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level" json:"level"`
	// Path is the log file
	Path string `toml:"path" json:"path"`
	// Format is json or console
	Format string `toml:"format" json:"format"`
}

// ServerConfig configures the development backend.
type ServerConfig struct {
	Addr      string `toml:"addr" json:"addr"`
	DBPath    string `toml:"db_path" json:"db_path"`
	Responder string `toml:"responder" json:"responder"`

	OllamaURL   string `toml:"ollama_url" json:"ollama_url"`
	OllamaModel string `toml:"ollama_model" json:"ollama_model"`

	RateLimitPerSec float64  `toml:"rate_limit_per_sec" json:"rate_limit_per_sec"`
	RateLimitBurst  int      `toml:"rate_limit_burst" json:"rate_limit_burst"`
	CORSOrigins     []string `toml:"cors_origins" json:"cors_origins"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
// Paths under the config directory are filled in by SetDefaults.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,

		Backend: BackendConfig{
			URL:                "http://localhost:3000",
			RequestTimeoutSecs: 0,
			SendModel:          false,
		},

		UI: UIConfig{
			SidebarWidth:   28,
			RenderMarkdown: true,
			Mouse:          true,
		},

		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},

		Server: ServerConfig{
			Addr:            "127.0.0.1:3000",
			Responder:       "echo",
			OllamaURL:       "http://127.0.0.1:11434",
			OllamaModel:     "llama3.2",
			RateLimitPerSec: 10,
			RateLimitBurst:  20,
			CORSOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the threadchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".threadchat"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	return inConfigDir("config.toml")
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	return inConfigDir("config.json")
}

// ReplHistoryPath returns the path of the repl input history.
func ReplHistoryPath() (string, error) {
	return inConfigDir("repl_history")
}

func inConfigDir(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// Locate returns the config file that Load would read. When neither file
// exists it returns the TOML path.
func Locate() (string, error) {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}
	return tomlPath, nil
}

// ensureSecurePermissions tightens config files to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := Locate()
	if err == nil {
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

// LoadFromPath loads configuration from a specific file path with full
// validation. Files ending in .json are read as JSON, anything else as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		logger.Warnw("CONFIG_PERMISSIONS", "path", path, "error", err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warnw("CONFIG_UNKNOWN_KEYS", "path", path, "keys", keys)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		logger.Warnw("CONFIG_PERMISSIONS", "path", path, "error", err)
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

// finish applies env overrides, defaults and validation, in that order.
func (c *Config) finish() error {
	c.ApplyEnvOverrides()
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to path atomically with 0600 permissions. The format
// follows the extension; an empty path means the default TOML file.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := ConfigPathTOML()
		if err != nil {
			return err
		}
		path = p
	}

	var data []byte
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		b, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		data = append(b, '\n')
	} else {
		b, err := cfg.EncodeTOML()
		if err != nil {
			return err
		}
		data = append([]byte("# threadchat configuration file\n\n"), b...)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// EncodeTOML renders cfg as TOML.
func (c *Config) EncodeTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
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

// Validate validates the configuration and returns a ValidateErrors
// listing every problem, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Backend
	if err := validateHTTPURL(c.Backend.URL); err != nil {
		add("backend.url", "%v", err)
	}
	if c.Backend.RequestTimeoutSecs < 0 {
		add("backend.request_timeout_secs", "must be >= 0, got %d", c.Backend.RequestTimeoutSecs)
	}

	// UI
	if c.UI.SidebarWidth < 16 || c.UI.SidebarWidth > 80 {
		add("ui.sidebar_width", "must be between 16 and 80, got %d", c.UI.SidebarWidth)
	}
	if c.UI.DefaultModel != "" {
		if _, ok := model.LookupModel(c.UI.DefaultModel); !ok {
			add("ui.default_model", "unknown model '%s'", c.UI.DefaultModel)
		}
	}

	// Log
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		add("log.level", "invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case logger.FormatJSON, logger.FormatConsole:
	default:
		add("log.format", "invalid format '%s', must be one of: json, console", c.Log.Format)
	}

	// Server
	if c.Server.Addr == "" {
		add("server.addr", "must not be empty")
	}
	switch c.Server.Responder {
	case "echo":
	case "ollama":
		if err := validateHTTPURL(c.Server.OllamaURL); err != nil {
			add("server.ollama_url", "%v", err)
		}
		if c.Server.OllamaModel == "" {
			add("server.ollama_model", "required when responder is ollama")
		}
	default:
		add("server.responder", "invalid responder '%s', must be one of: echo, ollama", c.Server.Responder)
	}
	if c.Server.RateLimitPerSec <= 0 {
		add("server.rate_limit_per_sec", "must be > 0")
	}
	if c.Server.RateLimitBurst <= 0 {
		add("server.rate_limit_burst", "must be > 0")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	if raw == "" {
		return errors.New("must not be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// SetDefaults fills zero values that have a default, including paths under
// the config directory.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Backend.URL == "" {
		c.Backend.URL = d.Backend.URL
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	if c.UI.SidebarWidth == 0 {
		c.UI.SidebarWidth = d.UI.SidebarWidth
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.Responder == "" {
		c.Server.Responder = d.Server.Responder
	}
	if c.Server.OllamaURL == "" {
		c.Server.OllamaURL = d.Server.OllamaURL
	}
	if c.Server.OllamaModel == "" {
		c.Server.OllamaModel = d.Server.OllamaModel
	}
	if c.Server.RateLimitPerSec == 0 {
		c.Server.RateLimitPerSec = d.Server.RateLimitPerSec
	}
	if c.Server.RateLimitBurst == 0 {
		c.Server.RateLimitBurst = d.Server.RateLimitBurst
	}

	if dir, err := ConfigDir(); err == nil {
		if c.Log.Path == "" {
			c.Log.Path = filepath.Join(dir, "threadchat.log")
		}
		if c.Server.DBPath == "" {
			c.Server.DBPath = filepath.Join(dir, "backend.db")
		}
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - THREADCHAT_BACKEND_URL: overrides backend.url
//   - THREADCHAT_LOG_LEVEL: overrides log.level
//   - THREADCHAT_SEND_MODEL: overrides backend.send_model
//   - NO_COLOR: any non-empty value sets ui.no_color
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("THREADCHAT_BACKEND_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("THREADCHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("THREADCHAT_SEND_MODEL"); v != "" {
		c.Backend.SendModel = parseBool(v)
	}
	if os.Getenv("NO_COLOR") != "" {
		c.UI.NoColor = true
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "backend.url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.mouse").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go
// field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strings.TrimSpace(strVal), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strings.TrimSpace(strVal), 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, item := range strings.Split(strVal, ",") {
					if item = strings.TrimSpace(item); item != "" {
						items = append(items, item)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation, in struct order.
func GetAllKeys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := strings.Split(f.Tag.Get("toml"), ",")[0]
			if name == "" || name == "-" {
				continue
			}
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, prefix+name+".")
				continue
			}
			keys = append(keys, prefix+name)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Server.CORSOrigins != nil {
		clone.Server.CORSOrigins = append([]string(nil), c.Server.CORSOrigins...)
	}
	return &clone
}

// String returns the config as TOML for display.
func (c *Config) String() string {
	data, err := c.EncodeTOML()
	if err != nil {
		return err.Error()
	}
	return string(data)
}
