// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the root Bubble Tea model of the threadchat TUI.
//
// The model owns a store.Store and is its only writer. Network calls run as
// tea.Cmds and report back through the messages in messages.go:
//
//	Init      -> LoadHistoryCmd  -> HistoryLoadedMsg | HistoryFailedMsg
//	enter     -> SendChatCmd     -> ChatResultMsg    | ChatFailedMsg
//	file save -> WatchConfigCmd  -> ConfigReloadedMsg
//
// Layout, left to right: the thread sidebar, then a right pane with the
// model cards, chat heading, transcript viewport and compose box. A status
// bar spans the bottom row. Alerts are modal and replace the whole screen
// until dismissed.
package chat
