// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/threadchat/internal/backend"
	"github.com/jeranaias/threadchat/internal/config"
	"github.com/jeranaias/threadchat/internal/logger"
)

// Version information, set from main via SetVersionInfo.
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

// SetVersionInfo sets version information from ldflags.
func SetVersionInfo(version, commit, date string) {
	Version, GitCommit, BuildDate = version, commit, date
}

func versionTemplate() string {
	if GitCommit != "none" && GitCommit != "" {
		return fmt.Sprintf("threadchat %s\n  commit: %s\n  built:  %s\n", Version, GitCommit, BuildDate)
	}
	return fmt.Sprintf("threadchat %s\n", Version)
}

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	backendURL string
	logLevel   string

	cfg     *config.Config
	cfgFile string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "threadchat",
		Short: "Terminal chat client for a thread-based chat backend",
		Long: `threadchat is a terminal chat client. Threads are listed in the sidebar,
the selected thread's conversation fills the main pane, and prompts are sent
to the configured backend.`,
		Version:           Version,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runTUI,
	}
	root.SetVersionTemplate(versionTemplate())

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ~/.threadchat/config.toml)")
	flags.StringVar(&a.backendURL, "backend", "", "backend URL (overrides backend.url)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newAskCmd(a),
		newHistoryCmd(a),
		newExportCmd(a),
		newReplCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads the config, applies flag overrides and starts logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		a.cfgFile = a.configPath
		if _, statErr := os.Stat(a.configPath); errors.Is(statErr, os.ErrNotExist) {
			cfg, err = defaultConfig()
		} else {
			cfg, err = config.LoadFromPath(a.configPath)
		}
	} else {
		if a.cfgFile, err = config.Locate(); err != nil {
			return err
		}
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if a.backendURL != "" {
		cfg.Backend.URL = a.backendURL
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.backendURL != "" || a.logLevel != "" {
		cfg.SetDefaults()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid flags: %w", err)
		}
	}
	a.cfg = cfg

	err = logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Path:   cfg.Log.Path,
		Stderr: cmd.Name() == "serve",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
	}
	logger.Debugw("CONFIG_LOADED", "path", a.cfgFile, "command", cmd.Name())
	return nil
}

// defaultConfig is the config used when --config names a file that does
// not exist yet, so "config set" can create it.
func defaultConfig() (*config.Config, error) {
	cfg := config.Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newBackend builds the HTTP client from the [backend] section.
func newBackend(cfg *config.Config) *backend.Client {
	return backend.NewClient(&backend.ClientConfig{
		BaseURL:   cfg.Backend.URL,
		Timeout:   cfg.Backend.Timeout(),
		SendModel: cfg.Backend.SendModel,
	})
}
