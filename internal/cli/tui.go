// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/threadchat/internal/config"
	"github.com/jeranaias/threadchat/internal/logger"
	"github.com/jeranaias/threadchat/internal/store"
	"github.com/jeranaias/threadchat/internal/ui/chat"
	"github.com/jeranaias/threadchat/internal/ui/styles"
)

// runTUI starts the full-screen client.
func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	defer logger.Sync()

	theme := styles.NewTheme(a.cfg.UI.NoColor)

	// Reloads are optional; a missing config file just means none.
	watcher, err := config.NewWatcher(a.cfgFile, 0)
	if err != nil {
		logger.Warnw("CONFIG_WATCH_DISABLED", "path", a.cfgFile, "error", err)
	} else {
		defer watcher.Close()
	}

	m := chat.New(chat.Options{
		Store:   store.New(),
		Backend: newBackend(a.cfg),
		Theme:   theme,
		Config:  a.cfg,
		Watcher: watcher,
		Connect: func(cfg *config.Config) chat.Backend { return newBackend(cfg) },
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if m.MouseEnabled() {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	logger.Infow("TUI_START", "backend", a.cfg.Backend.URL, "version", Version)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	logger.Infow("TUI_EXIT")
	return nil
}
