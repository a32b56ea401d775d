// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/threadchat/internal/backend"
	"github.com/jeranaias/threadchat/internal/logger"
	"github.com/jeranaias/threadchat/internal/store"
)

// Update handles all messages for the chat model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		*m.spinner, cmd = m.spinner.Update(msg)
		m.sidebar.SpinnerView = m.spinner.View()
		return m, cmd

	case HistoryLoadedMsg:
		return m.handleHistoryLoaded(msg)

	case HistoryFailedMsg:
		return m.handleHistoryFailed(msg)

	case ChatResultMsg:
		return m.handleChatResult(msg)

	case ChatFailedMsg:
		return m.handleChatFailed(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)
	}

	// Cursor blink and anything else the textarea understands.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.layout()
	m.ready = true
	m.refresh(true)
	return m, nil
}

// =============================================================================
// KEYBOARD
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// The alert is modal: only dismissal gets through.
	if m.alert != nil {
		if key.Matches(msg, m.keys.Dismiss) {
			m.alert = nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NewChat):
		return m.newChat()

	case key.Matches(msg, m.keys.NextFocus):
		m.focus = (m.focus + 1) % focusCount
		m.applyFocus()
		return m, nil

	case key.Matches(msg, m.keys.PrevFocus):
		m.focus = (m.focus + focusCount - 1) % focusCount
		m.applyFocus()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	switch m.focus {
	case FocusThreads:
		return m.handleThreadsKey(msg)
	case FocusModels:
		return m.handleModelsKey(msg)
	default:
		return m.handleComposeKey(msg)
	}
}

func (m Model) handleThreadsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.sidebar.Threads)
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.sidebar.Cursor > 0 {
			m.sidebar.Cursor--
			m.sidebar.EnsureVisible(m.sidebar.Cursor)
		}
	case key.Matches(msg, m.keys.Down):
		if m.sidebar.Cursor < n-1 {
			m.sidebar.Cursor++
			m.sidebar.EnsureVisible(m.sidebar.Cursor)
		}
	case key.Matches(msg, m.keys.Enter):
		if m.sidebar.Cursor >= 0 && m.sidebar.Cursor < n {
			return m.selectThread(m.sidebar.Threads[m.sidebar.Cursor].ID)
		}
	}
	return m, nil
}

func (m Model) handleModelsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.selector.Models)
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.selector.Cursor > 0 {
			m.selector.Cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.selector.Cursor < n-1 {
			m.selector.Cursor++
		}
	case key.Matches(msg, m.keys.Enter):
		if m.selector.Cursor >= 0 && m.selector.Cursor < n {
			return m.selectModel(m.selector.Models[m.selector.Cursor].ID)
		}
	}
	return m, nil
}

func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Enter) {
		return m.send()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.store.SetInput(m.input.Value())
	return m, cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

func (m Model) newChat() (tea.Model, tea.Cmd) {
	id := m.store.NewThread(m.now())
	logger.Infow("THREAD_CREATED", "thread_id", id)
	m.refresh(true)
	m.moveSidebarCursor(id)
	return m, nil
}

func (m Model) selectThread(id string) (tea.Model, tea.Cmd) {
	m.store.Select(id)
	logger.Debugw("THREAD_SELECTED", "thread_id", id)
	m.refresh(true)
	m.moveSidebarCursor(id)
	return m, nil
}

func (m Model) selectModel(id string) (tea.Model, tea.Cmd) {
	if m.store.SelectModel(id) {
		logger.Debugw("MODEL_SELECTED", "model", id)
		for i, info := range m.selector.Models {
			if info.ID == id {
				m.selector.Cursor = i
			}
		}
		m.refresh(false)
	}
	return m, nil
}

// send validates the compose buffer and issues one chat request. Nothing
// stops a second send before the first answer arrives; answers are merged
// in arrival order.
func (m Model) send() (tea.Model, tea.Cmd) {
	m.store.SetInput(m.input.Value())
	threadID, prompt, err := m.store.ValidateSend()
	if err != nil {
		logger.Debugw("SEND_REJECTED", "reason", err.Error())
		m.showAlert(store.AlertSendPreconditions)
		return m, nil
	}

	req := backend.ChatRequest{
		ThreadID: threadID,
		Prompt:   prompt,
		Model:    m.store.SelectedModel(),
	}
	logger.Infow("CHAT_SENT", "thread_id", threadID, "prompt_len", len(prompt))
	return m, SendChatCmd(m.backend, req)
}

func (m *Model) moveSidebarCursor(id string) {
	for i, t := range m.sidebar.Threads {
		if t.ID == id {
			m.sidebar.Cursor = i
			m.sidebar.EnsureVisible(i)
			return
		}
	}
}

// =============================================================================
// RESULTS
// =============================================================================

func (m Model) handleHistoryLoaded(msg HistoryLoadedMsg) (tea.Model, tea.Cmd) {
	n := m.store.LoadHistory(msg.Threads)
	m.spinner.Stop()
	logger.Infow("HISTORY_LOADED", "threads", n, "received", len(msg.Threads))
	m.refresh(true)
	return m, nil
}

func (m Model) handleHistoryFailed(msg HistoryFailedMsg) (tea.Model, tea.Cmd) {
	m.spinner.Stop()
	logger.Errorw("HISTORY_FAILED", "error", msg.Err)
	m.refresh(false)
	return m, nil
}

func (m Model) handleChatResult(msg ChatResultMsg) (tea.Model, tea.Cmd) {
	m.store.ApplyChat(msg.Thread)
	m.input.Reset()
	logger.Infow("CHAT_RECEIVED",
		"thread_id", msg.Thread.ID,
		"conversations", msg.Thread.Len(),
	)
	m.refresh(msg.Thread.ID == m.store.ActiveThreadID())
	return m, nil
}

func (m Model) handleChatFailed(msg ChatFailedMsg) (tea.Model, tea.Cmd) {
	logger.Errorw("CHAT_FAILED", "thread_id", msg.ThreadID, "error", msg.Err)
	if text := backend.AlertMessage(msg.Err); text != "" {
		m.showAlert(text)
	}
	return m, nil
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

// handleConfigReloaded applies the settings that are safe to change while
// running: the backend section and markdown rendering.
func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	next := WatchConfigCmd(m.watcher)
	if msg.Err != nil || msg.Config == nil {
		logger.Warnw("CONFIG_RELOAD_IGNORED", "error", msg.Err)
		return m, next
	}

	cfg := m.cfg.Clone()
	backendChanged := cfg.Backend != msg.Config.Backend
	cfg.Backend = msg.Config.Backend
	cfg.UI.RenderMarkdown = msg.Config.UI.RenderMarkdown
	m.cfg = cfg

	if backendChanged && m.connect != nil {
		m.backend = m.connect(cfg)
	}
	m.statusBar.BackendURL = cfg.Backend.URL
	logger.Infow("CONFIG_APPLIED",
		"backend_url", cfg.Backend.URL,
		"backend_changed", backendChanged,
		"render_markdown", cfg.UI.RenderMarkdown,
	)
	m.refresh(false)
	return m, next
}
