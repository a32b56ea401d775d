// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// printStyles are the styles shared by the line-mode commands. They are
// bound to one output so piped output stays plain.
type printStyles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Prompt  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Active  lipgloss.Style
}

func newPrintStyles(w io.Writer, profile termenv.Profile) printStyles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)

	return printStyles{
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Label:   r.NewStyle().Foreground(lipgloss.Color("245")),
		Value:   r.NewStyle().Foreground(lipgloss.Color("252")),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("240")),
		Prompt:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Active:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
	}
}
