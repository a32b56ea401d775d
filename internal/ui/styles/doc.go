// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the threadchat TUI.
//
// Colors are lipgloss.AdaptiveColor values so light and dark terminals both
// get a readable palette. A Theme binds every style to one
// lipgloss.Renderer; NO_COLOR (or ui.no_color) selects the ASCII profile and
// all output becomes plain text.
//
// # Usage
//
//	theme := styles.NewTheme(cfg.UI.NoColor)
//	theme.SetSize(width, height)
//	bubble := theme.UserBubble.Render(prompt)
package styles
