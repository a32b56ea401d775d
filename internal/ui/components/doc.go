// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the render pieces of the threadchat TUI.

Components are plain structs with exported layout fields and a View or
Render method; the chat model owns their state and copies it in before each
frame. Clickable components expose HitTest so mouse handling and drawing
share one layout.

# Components

Sidebar (sidebar.go) - New Chat button and thread list with two-line titles.
ModelSelector (modelcards.go) - Row of model cards.
Transcript (transcript.go) - Prompt and response bubbles for one thread.
Alert (alert.go) - Centered blocking message.
StatusBar (statusbar.go) - Backend, selected model and key hints.
Spinner (spinner.go) - Loading indicator for the history fetch.
MarkdownRenderer (markdown.go) - glamour rendering with per-width caching.

# Usage

	theme := styles.NewTheme(false)
	sidebar := components.NewSidebar(theme)
	sidebar.Width, sidebar.Height = 28, 40
	sidebar.Threads = store.Threads()
	sidebar.ActiveID = store.ActiveThreadID()
	view := sidebar.View()
*/
package components
