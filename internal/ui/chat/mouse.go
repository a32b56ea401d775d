// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/threadchat/internal/ui/components"
)

// =============================================================================
// MOUSE HIT TESTING
// =============================================================================

// targetKind is what a click landed on.
type targetKind int

const (
	targetNone targetKind = iota
	targetNewChat
	targetThread
	targetModel
	targetCompose
	targetSend
)

type target struct {
	kind targetKind
	id   string
}

// hitTest maps a screen cell to a clickable element.
func (m Model) hitTest(x, y int) target {
	if x < 0 || y < 0 || y >= m.height-statusBarHeight {
		return target{}
	}

	sw := m.sidebarWidth()
	if x < sw {
		hit := m.sidebar.HitTest(y)
		switch hit.Kind {
		case components.HitNewChat:
			return target{kind: targetNewChat}
		case components.HitThread:
			return target{kind: targetThread, id: hit.ThreadID}
		}
		return target{}
	}

	col := x - sw
	if y < m.selector.Height() {
		if id, ok := m.selector.HitTest(col, y); ok {
			return target{kind: targetModel, id: id}
		}
		return target{}
	}

	composeTop := m.height - statusBarHeight - composeHeight
	if y >= composeTop {
		if col < m.composeBoxWidth() {
			return target{kind: targetCompose}
		}
		if col > m.composeBoxWidth() {
			return target{kind: targetSend}
		}
	}
	return target{}
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.cfg.UI.Mouse || m.alert != nil {
		return m, nil
	}

	switch msg.Type {
	case tea.MouseWheelUp:
		m.viewport.LineUp(3)
		return m, nil
	case tea.MouseWheelDown:
		m.viewport.LineDown(3)
		return m, nil
	case tea.MouseLeft:
	default:
		return m, nil
	}

	t := m.hitTest(msg.X, msg.Y)
	switch t.kind {
	case targetNewChat:
		return m.newChat()
	case targetThread:
		m.focus = FocusThreads
		m.applyFocus()
		return m.selectThread(t.id)
	case targetModel:
		return m.selectModel(t.id)
	case targetCompose:
		m.focus = FocusCompose
		m.applyFocus()
	case targetSend:
		return m.send()
	}
	return m, nil
}
