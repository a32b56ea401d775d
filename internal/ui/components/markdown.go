// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/threadchat/internal/logger"
)

// MarkdownRenderer renders response text with glamour, caching one
// renderer per wrap width.
type MarkdownRenderer struct {
	style     string
	renderers map[int]*glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer for a glamour standard style
// ("dark", "light", "notty").
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	return &MarkdownRenderer{
		style:     style,
		renderers: make(map[int]*glamour.TermRenderer),
	}
}

// Render returns md rendered for width cells. On any glamour error the
// input is returned unchanged.
func (m *MarkdownRenderer) Render(md string, width int) string {
	if width < 10 {
		width = 10
	}
	r, ok := m.renderers[width]
	if !ok {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			logger.Warnw("MARKDOWN_INIT_FAILED", "error", err)
			return md
		}
		m.renderers[width] = r
	}

	out, err := r.Render(md)
	if err != nil {
		logger.Warnw("MARKDOWN_RENDER_FAILED", "error", err)
		return md
	}
	return strings.Trim(out, "\n")
}
