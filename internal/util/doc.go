// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across threadchat.
//
// # Key Functions
//
// Text (terminal cell widths, via go-runewidth):
//   - StringWidth, TruncateWidth: width-aware measurement and cutting
//   - WrapWidth, ClampLines: word wrapping with a line limit
//   - SingleLine: whitespace collapsing for one-line previews
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Two-line sidebar title
//	lines := util.ClampLines(thread.Title(), 24, 2)
//
//	// Write config atomically
//	err := util.AtomicWriteFile(path, data, 0600)
package util
