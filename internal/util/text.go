// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended to text cut by TruncateWidth and ClampLines.
const Ellipsis = "..."

// TruncateWidth cuts s to at most maxWidth cells, ending with an ellipsis
// when there is room for one.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= len(Ellipsis) {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// SingleLine collapses runs of whitespace, including newlines, to one space.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// wrapWidth breaks s into lines of at most width cells. Words longer than
// width are split. Newlines in s are treated as spaces.
func wrapWidth(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	curWidth := 0

	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curWidth = 0
	}

	for _, word := range strings.Fields(s) {
		w := runewidth.StringWidth(word)
		for w > width {
			if curWidth > 0 {
				flush()
			}
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				// A single rune wider than width.
				head = string([]rune(word)[:1])
			}
			lines = append(lines, head)
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		if w == 0 {
			continue
		}
		switch {
		case curWidth == 0:
			cur.WriteString(word)
			curWidth = w
		case curWidth+1+w <= width:
			cur.WriteByte(' ')
			cur.WriteString(word)
			curWidth += 1 + w
		default:
			flush()
			cur.WriteString(word)
			curWidth = w
		}
	}
	if curWidth > 0 {
		flush()
	}
	return lines
}

// ClampLines wraps s to width and keeps at most maxLines lines. When text is
// dropped the last kept line ends with an ellipsis.
func ClampLines(s string, width, maxLines int) []string {
	lines := wrapWidth(s, width)
	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}
	kept := lines[:maxLines]
	last := kept[maxLines-1]
	if width <= len(Ellipsis) {
		last = runewidth.Truncate(last, width, "")
	} else {
		if runewidth.StringWidth(last)+len(Ellipsis) > width {
			last = runewidth.Truncate(last, width-len(Ellipsis), "")
		}
		last += Ellipsis
	}
	kept[maxLines-1] = last
	return kept
}
