// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/threadchat/internal/ui/components"
	"github.com/jeranaias/threadchat/internal/ui/styles"
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

const (
	// composeLines is the textarea height.
	composeLines = 3

	// composeHeight adds the compose box border.
	composeHeight = composeLines + 2

	// headingHeight is the heading row plus its bottom border.
	headingHeight = 2

	statusBarHeight = 1

	sendLabel = "Send"

	minSidebarWidth = 12
)

// sidebarWidth returns the sidebar width for the current terminal size.
func (m Model) sidebarWidth() int {
	w := m.cfg.UI.SidebarWidth
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		if third := m.width / 3; third < w {
			w = third
		}
	}
	if w < minSidebarWidth {
		w = minSidebarWidth
	}
	if w > m.width {
		w = m.width
	}
	return w
}

// paneWidth is the width of everything right of the sidebar.
func (m Model) paneWidth() int {
	w := m.width - m.sidebarWidth()
	if w < 1 {
		w = 1
	}
	return w
}

func (m Model) sendButtonWidth() int {
	return lipgloss.Width(m.theme.SendButton.Render(sendLabel))
}

// composeBoxWidth is the compose box width, border included.
func (m Model) composeBoxWidth() int {
	w := m.paneWidth() - m.sendButtonWidth() - 1
	if w < 4 {
		w = 4
	}
	return w
}

func (m Model) viewportHeight() int {
	h := m.height - statusBarHeight - m.selector.Height() - headingHeight - composeHeight
	if h < 1 {
		h = 1
	}
	return h
}

// layout sizes every widget from m.width and m.height.
func (m *Model) layout() {
	sw := m.sidebarWidth()
	pw := m.paneWidth()

	m.sidebar.Width = sw
	m.sidebar.Height = m.height - statusBarHeight

	m.selector.Width = pw
	m.selector.Compact = m.theme.GetLayoutMode() == styles.LayoutNarrow

	m.transcript.Width = pw
	m.viewport.Width = pw
	m.viewport.Height = m.viewportHeight()

	m.input.SetWidth(m.composeBoxWidth() - 2)
	m.input.SetHeight(composeLines)

	m.statusBar.Width = m.width
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the whole screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.alert != nil {
		return m.alert.View(m.width, m.height)
	}

	pw := m.paneWidth()
	heading := m.theme.ChatHeading.
		Width(pw).
		Render(components.ChatHeading(m.store.ActiveThreadID()))
	transcript := m.theme.ChatPane.
		Width(pw).
		Height(m.viewport.Height).
		Render(m.viewport.View())

	pane := lipgloss.JoinVertical(lipgloss.Left,
		m.selector.View(),
		heading,
		transcript,
		m.composeView(),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), pane)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar.View())
}

func (m Model) composeView() string {
	box := m.theme.ComposeBox
	if m.focus == FocusCompose {
		box = m.theme.ComposeBoxFocused
	}
	input := box.Width(m.composeBoxWidth() - 2).Render(m.input.View())
	button := m.theme.SendButton.Render(sendLabel)
	return lipgloss.JoinHorizontal(lipgloss.Center, input, " ", button)
}
