// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/threadchat/internal/ui/styles"
)

// AlertDismissHint is shown under the alert message.
const AlertDismissHint = "Press Enter or Esc to dismiss"

// Alert is a blocking modal message.
type Alert struct {
	Message string
	theme   *styles.Theme
}

// NewAlert creates an alert showing message.
func NewAlert(theme *styles.Theme, message string) Alert {
	return Alert{Message: message, theme: theme}
}

// View centers the alert box in a width x height area.
func (a Alert) View(width, height int) string {
	maxText := width - 10
	if maxText < 10 {
		maxText = 10
	}
	msgWidth := lipgloss.Width(a.Message)
	if msgWidth > maxText {
		msgWidth = maxText
	}
	if hw := lipgloss.Width(AlertDismissHint); hw > msgWidth && hw <= maxText {
		msgWidth = hw
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		a.theme.AlertTitle.Render("Alert"),
		"",
		a.theme.AlertText.Width(msgWidth).Align(lipgloss.Center).Render(a.Message),
		"",
		a.theme.AlertHint.Render(AlertDismissHint),
	)
	box := a.theme.AlertBox.Render(body)
	return a.theme.Renderer().Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
