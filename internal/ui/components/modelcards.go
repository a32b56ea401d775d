// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/ui/styles"
	"github.com/jeranaias/threadchat/internal/util"
)

// cardGap is the number of blank columns between cards.
const cardGap = 1

// =============================================================================
// MODEL SELECTOR
// =============================================================================

// ModelSelector renders the model catalog as a row of cards.
type ModelSelector struct {
	Width    int
	Models   []model.ModelInfo
	Selected string

	// Cursor is the keyboard position in Models; shown only when Focused.
	Cursor  int
	Focused bool

	// Compact hides descriptions (narrow terminals).
	Compact bool

	theme *styles.Theme
}

// NewModelSelector creates a selector over model.Catalog.
func NewModelSelector(theme *styles.Theme) *ModelSelector {
	return &ModelSelector{
		Models: model.Catalog,
		theme:  theme,
	}
}

// cardWidth is the outer width of one card, borders included.
func (m *ModelSelector) cardWidth() int {
	n := len(m.Models)
	if n == 0 {
		return 0
	}
	w := (m.Width - cardGap*(n-1)) / n
	if w < 6 {
		w = 6
	}
	return w
}

// Height returns the number of rows the selector occupies.
func (m *ModelSelector) Height() int {
	if m.Compact {
		return 3
	}
	return 4
}

// View renders the card row.
func (m *ModelSelector) View() string {
	outer := m.cardWidth()
	// Border on each side plus one cell of padding on each side.
	text := outer - 4
	if text < 1 {
		text = 1
	}

	cards := make([]string, 0, len(m.Models)*2)
	for i, info := range m.Models {
		style := m.theme.ModelCard
		if info.ID == m.Selected {
			style = m.theme.ModelCardSelected
		}

		nameStyle := m.theme.ModelName
		prefix := ""
		if m.Focused && i == m.Cursor {
			nameStyle = m.theme.Focused
			prefix = "> "
		}
		body := nameStyle.Render(util.TruncateWidth(prefix+info.Name, text))
		if !m.Compact {
			body += "\n" + m.theme.ModelDesc.Render(util.TruncateWidth(info.Description, text))
		}

		if i > 0 {
			cards = append(cards, spaces(cardGap))
		}
		cards = append(cards, style.Width(outer-2).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// HitTest maps a position relative to the top-left of the selector to a
// model id.
func (m *ModelSelector) HitTest(col, row int) (string, bool) {
	if row < 0 || row >= m.Height() || col < 0 {
		return "", false
	}
	outer := m.cardWidth()
	if outer == 0 {
		return "", false
	}
	step := outer + cardGap
	i := col / step
	if i >= len(m.Models) || col%step >= outer {
		return "", false
	}
	return m.Models[i].ID, true
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
