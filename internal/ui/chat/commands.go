// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/threadchat/internal/backend"
	"github.com/jeranaias/threadchat/internal/config"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// LoadHistoryCmd fetches the thread list once.
func LoadHistoryCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		threads, err := b.History(context.Background())
		if err != nil {
			return HistoryFailedMsg{Err: err}
		}
		return HistoryLoadedMsg{Threads: threads}
	}
}

// SendChatCmd sends one prompt. Requests are never cancelled; the client
// applies the configured timeout, if any.
func SendChatCmd(b Backend, req backend.ChatRequest) tea.Cmd {
	return func() tea.Msg {
		thread, err := b.Chat(context.Background(), req)
		if err != nil {
			return ChatFailedMsg{ThreadID: req.ThreadID, Err: err}
		}
		return ChatResultMsg{ThreadID: req.ThreadID, Thread: thread}
	}
}

// WatchConfigCmd waits for the next reload from w. It returns nil once the
// watcher is closed.
func WatchConfigCmd(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case r := <-w.Events():
			return ConfigReloadedMsg{Config: r.Config, Err: r.Err}
		case <-w.Done():
			return nil
		}
	}
}
