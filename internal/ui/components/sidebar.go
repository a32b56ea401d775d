// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/ui/styles"
	"github.com/jeranaias/threadchat/internal/util"
)

// NewChatLabel is the text of the New Chat button.
const NewChatLabel = "+ New Chat"

// titleLines is the maximum number of lines a thread title occupies.
const titleLines = 2

// =============================================================================
// SIDEBAR
// =============================================================================

// HitKind says what a click in the sidebar landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitNewChat
	HitThread
)

// SidebarHit is the result of Sidebar.HitTest.
type SidebarHit struct {
	Kind     HitKind
	ThreadID string
}

// Sidebar renders the New Chat button and the thread list.
type Sidebar struct {
	Width  int
	Height int

	Threads  []model.Thread
	ActiveID string

	// Cursor is the keyboard position in Threads; shown only when Focused.
	Cursor  int
	Focused bool

	// Loading replaces the list with the spinner view.
	Loading     bool
	SpinnerView string

	// Offset is the index of the first visible thread.
	Offset int

	theme *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{theme: theme}
}

// headerRows is the space above the first thread: button and a blank line.
const headerRows = 2

// innerWidth is the content width inside padding and the right border.
func (s *Sidebar) innerWidth() int {
	w := s.Width - 3
	if w < 4 {
		w = 4
	}
	return w
}

// textWidth is the room left for a title after the cursor marker and
// item padding.
func (s *Sidebar) textWidth() int {
	w := s.innerWidth() - 3
	if w < 1 {
		w = 1
	}
	return w
}

func (s *Sidebar) entryLines(t model.Thread) []string {
	return util.ClampLines(util.SingleLine(t.Title()), s.textWidth(), titleLines)
}

// entryHeight is title lines, date line and a spacer.
func (s *Sidebar) entryHeight(t model.Thread) int {
	n := len(s.entryLines(t))
	if n == 0 {
		n = 1
	}
	return n + 2
}

// EnsureVisible adjusts Offset so that index i is on screen.
func (s *Sidebar) EnsureVisible(i int) {
	if i < 0 || i >= len(s.Threads) {
		return
	}
	if i < s.Offset {
		s.Offset = i
		return
	}
	avail := s.Height - headerRows
	for s.Offset < i {
		used := 0
		for j := s.Offset; j <= i; j++ {
			used += s.entryHeight(s.Threads[j])
		}
		if used <= avail {
			break
		}
		s.Offset++
	}
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	inner := s.innerWidth()
	var b strings.Builder

	b.WriteString(s.theme.NewChatButton.Render(util.TruncateWidth(NewChatLabel, inner-2)))
	b.WriteString("\n\n")
	rows := headerRows

	switch {
	case s.Loading:
		b.WriteString(s.SpinnerView)
		b.WriteString("\n")
	case len(s.Threads) == 0:
		b.WriteString(s.theme.SidebarHint.Render(util.TruncateWidth("No threads yet", inner)))
		b.WriteString("\n")
	default:
		for i := s.firstVisible(); i < len(s.Threads); i++ {
			t := s.Threads[i]
			h := s.entryHeight(t)
			if s.Height > 0 && rows+h-1 > s.Height {
				break
			}
			b.WriteString(s.renderEntry(i, t))
			b.WriteString("\n")
			rows += h
		}
	}

	style := s.theme.Sidebar.Width(s.Width - 1)
	if s.Height > 0 {
		style = style.Height(s.Height)
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}

// firstVisible is Offset, or 0 when Offset is past the end of Threads.
func (s *Sidebar) firstVisible() int {
	if s.Offset < 0 || s.Offset >= len(s.Threads) {
		return 0
	}
	return s.Offset
}

func (s *Sidebar) renderEntry(i int, t model.Thread) string {
	item := s.theme.ThreadItem
	if t.ID == s.ActiveID {
		item = s.theme.ThreadItemActive
	}
	marker := "  "
	if s.Focused && i == s.Cursor {
		marker = s.theme.ThreadCursor.Render("> ")
	}

	lines := s.entryLines(t)
	if len(lines) == 0 {
		lines = []string{""}
	}
	var b strings.Builder
	for j, line := range lines {
		if j == 0 {
			b.WriteString(marker)
		} else {
			b.WriteString("  ")
		}
		b.WriteString(item.Width(s.textWidth() + 1).Render(line))
		b.WriteString("\n")
	}
	b.WriteString("  ")
	b.WriteString(s.theme.ThreadDate.Render(t.DateLabel()))
	b.WriteString("\n")
	return b.String()
}

// HitTest maps a row relative to the top of the sidebar to what is drawn
// there.
func (s *Sidebar) HitTest(row int) SidebarHit {
	if row == 0 {
		return SidebarHit{Kind: HitNewChat}
	}
	if s.Loading || row < headerRows {
		return SidebarHit{}
	}
	y := headerRows
	for i := s.firstVisible(); i < len(s.Threads); i++ {
		h := s.entryHeight(s.Threads[i])
		// The spacer row belongs to no entry.
		if row >= y && row < y+h-1 {
			return SidebarHit{Kind: HitThread, ThreadID: s.Threads[i].ID}
		}
		y += h
		if s.Height > 0 && y > s.Height {
			break
		}
	}
	return SidebarHit{}
}
