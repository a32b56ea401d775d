// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/ui/styles"
)

// HeadingPrefix starts the chat heading.
const HeadingPrefix = "Chat Area - "

// NoThreadHeading completes the heading when no thread is active.
const NoThreadHeading = "Select a thread"

// ChatHeading returns the heading text for the active thread id.
func ChatHeading(activeID string) string {
	if activeID == "" {
		return HeadingPrefix + NoThreadHeading
	}
	return HeadingPrefix + activeID
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript renders the conversations of one thread as chat bubbles:
// prompts right-aligned, responses left-aligned, in order.
type Transcript struct {
	Width int

	// Exists is false for an unknown or absent thread: nothing is drawn.
	Exists        bool
	Conversations []model.Conversation

	// Markdown renders responses when set.
	Markdown *MarkdownRenderer

	theme *styles.Theme
}

// NewTranscript creates a transcript renderer.
func NewTranscript(theme *styles.Theme) *Transcript {
	return &Transcript{theme: theme}
}

// maxBubbleWidth is the widest a bubble may be, padding included.
func (t *Transcript) maxBubbleWidth() int {
	w := t.Width * 3 / 4
	if w < 10 {
		w = t.Width
	}
	if w < 4 {
		w = 4
	}
	return w
}

// Render returns the transcript content for a viewport.
func (t *Transcript) Render() string {
	if !t.Exists {
		return ""
	}
	if len(t.Conversations) == 0 {
		return t.theme.Placeholder.Render(model.EmptyThreadGreeting)
	}

	blocks := make([]string, 0, len(t.Conversations)*2)
	for _, c := range t.Conversations {
		blocks = append(blocks, t.promptBubble(c.Prompt))
		if !c.IsPending() {
			blocks = append(blocks, t.responseBubble(c.Response))
		}
	}
	return strings.Join(blocks, "\n\n")
}

func (t *Transcript) promptBubble(text string) string {
	bubble := t.bubble(t.theme.UserBubble, text)
	return lipgloss.PlaceHorizontal(t.Width, lipgloss.Right, bubble)
}

func (t *Transcript) responseBubble(text string) string {
	if t.Markdown != nil {
		text = t.Markdown.Render(text, t.maxBubbleWidth()-2)
	}
	return t.bubble(t.theme.ResponseBubble, text)
}

// bubble sizes style to its text, capped at maxBubbleWidth.
func (t *Transcript) bubble(style lipgloss.Style, text string) string {
	maxW := t.maxBubbleWidth()
	w := longestLine(text) + style.GetHorizontalPadding()
	if w > maxW {
		w = maxW
	}
	return style.Width(w).Render(text)
}

func longestLine(s string) int {
	longest := 0
	for _, line := range strings.Split(s, "\n") {
		if w := lipgloss.Width(line); w > longest {
			longest = w
		}
	}
	return longest
}
