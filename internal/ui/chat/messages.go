// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines all Bubble Tea message types used by the chat interface.
// Messages are organized into the following categories:
//   - History: result of the startup GET /history
//   - Chat: result of one GET /chat
//   - Config: a reloaded config file
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"github.com/jeranaias/threadchat/internal/config"
	"github.com/jeranaias/threadchat/internal/model"
)

// =============================================================================
// HISTORY MESSAGES
// =============================================================================

// HistoryLoadedMsg carries the thread list returned by the backend.
type HistoryLoadedMsg struct {
	Threads []model.Thread
}

// HistoryFailedMsg reports that the history request failed.
type HistoryFailedMsg struct {
	Err error
}

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// ChatResultMsg carries the authoritative thread returned after a send.
type ChatResultMsg struct {
	// ThreadID is the thread the prompt was sent for.
	ThreadID string
	Thread   model.Thread
}

// ChatFailedMsg reports that a send failed.
type ChatFailedMsg struct {
	ThreadID string
	Err      error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg is delivered after the config file changed on disk.
// Err is set when the new file could not be loaded.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}
