// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/ui/styles"
	"github.com/jeranaias/threadchat/internal/util"
)

// KeyHint is one shortcut shown in the status bar.
type KeyHint struct {
	Key  string
	Desc string
}

// DefaultKeyHints are the shortcuts shown when nothing else is set.
var DefaultKeyHints = []KeyHint{
	{Key: "ctrl+n", Desc: "new"},
	{Key: "tab", Desc: "focus"},
	{Key: "enter", Desc: "send"},
	{Key: "ctrl+q", Desc: "quit"},
}

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar is the one-line footer: backend, selected model, key hints.
type StatusBar struct {
	Width      int
	BackendURL string
	ModelID    string
	Hints      []KeyHint

	theme *styles.Theme
}

// NewStatusBar creates a status bar with DefaultKeyHints.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Hints: DefaultKeyHints,
		theme: theme,
	}
}

// modelLabel returns the display name of the selected model.
func (s *StatusBar) modelLabel() string {
	if s.ModelID == "" {
		return "none"
	}
	if info, ok := model.LookupModel(s.ModelID); ok {
		return info.Name
	}
	return s.ModelID
}

// View renders the bar at exactly Width cells.
func (s *StatusBar) View() string {
	left := " " + s.BackendURL + "  model: " + s.modelLabel() + " "

	parts := make([]string, 0, len(s.Hints))
	plain := make([]string, 0, len(s.Hints))
	for _, h := range s.Hints {
		parts = append(parts, s.theme.ShortcutKey.Render(h.Key)+s.theme.ShortcutDesc.Render(" "+h.Desc))
		plain = append(plain, h.Key+" "+h.Desc)
	}
	sep := s.theme.ShortcutDesc.Render("  ")
	right := strings.Join(parts, sep) + s.theme.ShortcutDesc.Render(" ")
	rightWidth := lipgloss.Width(strings.Join(plain, "  ")) + 1

	leftMax := s.Width - rightWidth
	if leftMax < lipgloss.Width(left) {
		// Not enough room for both: hints go first.
		right = ""
		rightWidth = 0
		leftMax = s.Width
	}
	left = util.TruncateWidth(left, leftMax)
	gap := s.Width - lipgloss.Width(left) - rightWidth
	if gap < 0 {
		gap = 0
	}
	return s.theme.StatusBar.Render(left+spaces(gap)) + right
}
