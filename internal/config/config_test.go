// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the home directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{"THREADCHAT_BACKEND_URL", "THREADCHAT_LOG_LEVEL", "THREADCHAT_SEND_MODEL", "NO_COLOR"} {
		t.Setenv(k, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestDefaults_Validate(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.Backend.URL)
	assert.Equal(t, 0, cfg.Backend.RequestTimeoutSecs)
	assert.Equal(t, time.Duration(0), cfg.Backend.Timeout())
	assert.False(t, cfg.Backend.SendModel)
	assert.True(t, cfg.UI.RenderMarkdown)
	assert.Equal(t, "", cfg.UI.DefaultModel)
	assert.Equal(t, filepath.Join(home, ".threadchat", "threadchat.log"), cfg.Log.Path)
	assert.Equal(t, filepath.Join(home, ".threadchat", "backend.db"), cfg.Server.DBPath)
	assert.Equal(t, "echo", cfg.Server.Responder)
}

// =============================================================================
// LOADING
// =============================================================================

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".threadchat", "config.toml"), `
[backend]
url = "http://example.test:8080/"
request_timeout_secs = 15
send_model = true

[ui]
mouse = false
default_model = "model2"
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://example.test:8080", cfg.Backend.URL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout())
	assert.True(t, cfg.Backend.SendModel)
	assert.False(t, cfg.UI.Mouse)
	assert.True(t, cfg.UI.RenderMarkdown, "unset keys keep their defaults")
	assert.Equal(t, "model2", cfg.UI.DefaultModel)
}

func TestLoad_JSONFallback(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".threadchat", "config.json"), `{"log":{"level":"debug"}}`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)

	path, err := Locate()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".threadchat", "config.json"), path)
}

func TestLoad_InvalidFileFails(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".threadchat", "config.toml"), `[backend]
url = "ftp://nope"
`)

	_, err := Load()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "backend.url", verrs[0].Field)
}

func TestLoad_FixesPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = \"1\"\n"), 0644))

	_, err := LoadFromPath(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("THREADCHAT_BACKEND_URL", "https://chat.internal")
	t.Setenv("THREADCHAT_LOG_LEVEL", "warn")
	t.Setenv("THREADCHAT_SEND_MODEL", "yes")
	t.Setenv("NO_COLOR", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://chat.internal", cfg.Backend.URL)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Backend.SendModel)
	assert.True(t, cfg.UI.NoColor)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"missing scheme", func(c *Config) { c.Backend.URL = "localhost:3000" }, "backend.url"},
		{"no host", func(c *Config) { c.Backend.URL = "http://" }, "backend.url"},
		{"negative timeout", func(c *Config) { c.Backend.RequestTimeoutSecs = -1 }, "backend.request_timeout_secs"},
		{"sidebar too narrow", func(c *Config) { c.UI.SidebarWidth = 4 }, "ui.sidebar_width"},
		{"unknown model", func(c *Config) { c.UI.DefaultModel = "gpt-9" }, "ui.default_model"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad responder", func(c *Config) { c.Server.Responder = "magic" }, "server.responder"},
		{"ollama without model", func(c *Config) {
			c.Server.Responder = "ollama"
			c.Server.OllamaModel = ""
		}, "server.ollama_model"},
		{"zero rate", func(c *Config) { c.Server.RateLimitPerSec = -1 }, "server.rate_limit_per_sec"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.SetDefaults()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var verrs ValidateErrors
			require.ErrorAs(t, err, &verrs)

			fields := make([]string, len(verrs))
			for i, v := range verrs {
				fields[i] = v.Field
			}
			assert.Contains(t, fields, tc.wantField)
		})
	}
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// GET / SET
// =============================================================================

func TestGetSet(t *testing.T) {
	cfg := Default()

	v, err := cfg.Get("backend.url")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", v)

	require.NoError(t, cfg.Set("backend.request_timeout_secs", "30"))
	assert.Equal(t, 30, cfg.Backend.RequestTimeoutSecs)

	require.NoError(t, cfg.Set("ui.render-markdown", "false"))
	assert.False(t, cfg.UI.RenderMarkdown)

	require.NoError(t, cfg.Set("server.rate_limit_per_sec", "2.5"))
	assert.Equal(t, 2.5, cfg.Server.RateLimitPerSec)

	require.NoError(t, cfg.Set("server.cors_origins", "http://a, http://b"))
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.CORSOrigins)

	require.NoError(t, cfg.Set("ui.sidebar_width", 40))
	assert.Equal(t, 40, cfg.UI.SidebarWidth)
}

func TestGetSet_Errors(t *testing.T) {
	cfg := Default()

	_, err := cfg.Get("backend.nope")
	assert.EqualError(t, err, "unknown field: backend.nope")

	_, err = cfg.Get("backend.url.deeper")
	assert.Error(t, err)

	_, err = cfg.Get("")
	assert.Error(t, err)

	assert.Error(t, cfg.Set("backend.request_timeout_secs", "soon"))
	assert.Error(t, cfg.Set("ui.mouse", 3.5))
}

func TestGetAllKeys(t *testing.T) {
	keys := GetAllKeys()
	assert.Contains(t, keys, "backend.url")
	assert.Contains(t, keys, "ui.default_model")
	assert.Contains(t, keys, "server.cors_origins")
	assert.Equal(t, "version", keys[0])

	cfg := Default()
	for _, k := range keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}

// =============================================================================
// SAVE
// =============================================================================

func TestSave_RoundTrip(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	for _, name := range []string{"config.toml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			cfg := Default()
			cfg.SetDefaults()
			cfg.Backend.URL = "http://saved.test"
			cfg.UI.DefaultModel = "model4"
			require.NoError(t, Save(cfg, path))

			if runtime.GOOS != "windows" {
				info, err := os.Stat(path)
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
			}

			loaded, err := LoadFromPath(path)
			require.NoError(t, err)
			assert.Equal(t, "http://saved.test", loaded.Backend.URL)
			assert.Equal(t, "model4", loaded.UI.DefaultModel)
		})
	}
}

func TestClone_IsDeep(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Server.CORSOrigins[0] = "changed"
	assert.NotEqual(t, "changed", cfg.Server.CORSOrigins[0])
}
