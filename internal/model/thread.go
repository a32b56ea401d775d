// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for threads and conversations.
package model

import (
	"fmt"
	"strconv"
	"time"
)

// Display fallbacks used when a thread has no conversations yet.
const (
	// DefaultThreadTitle is shown in the sidebar for a thread with no prompt.
	DefaultThreadTitle = "How can I help you today?"

	// EmptyThreadGreeting is shown in the transcript of an empty thread.
	EmptyThreadGreeting = "Hello, how can I help you today?"

	// ThreadIDPrefix prefixes identifiers generated on the client.
	ThreadIDPrefix = "chat-"
)

// DefaultThreadDate is shown in the sidebar when no createdAt is available.
var DefaultThreadDate = time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)

// =============================================================================
// THREAD TYPE
// =============================================================================

// Thread is a conversation session holding an ordered sequence of conversations.
type Thread struct {
	ID            string         `json:"threadId"`
	Conversations []Conversation `json:"conversations"`
}

// NewThread creates a thread with an empty conversation sequence.
func NewThread(id string) Thread {
	return Thread{
		ID:            id,
		Conversations: []Conversation{},
	}
}

// NewThreadID derives a thread identifier from a wall-clock time.
// Two calls within the same millisecond return the same identifier.
func NewThreadID(now time.Time) string {
	return ThreadIDPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// IsEmpty reports whether the thread has no conversations.
func (t Thread) IsEmpty() bool {
	return len(t.Conversations) == 0
}

// Len returns the number of conversations.
func (t Thread) Len() int {
	return len(t.Conversations)
}

// First returns the earliest conversation.
func (t Thread) First() (Conversation, bool) {
	if len(t.Conversations) == 0 {
		return Conversation{}, false
	}
	return t.Conversations[0], true
}

// Latest returns the most recent conversation.
func (t Thread) Latest() (Conversation, bool) {
	if len(t.Conversations) == 0 {
		return Conversation{}, false
	}
	return t.Conversations[len(t.Conversations)-1], true
}

// Title returns the first prompt, or DefaultThreadTitle.
func (t Thread) Title() string {
	if first, ok := t.First(); ok && first.Prompt != "" {
		return first.Prompt
	}
	return DefaultThreadTitle
}

// Date returns the createdAt of the first conversation, or DefaultThreadDate.
func (t Thread) Date() time.Time {
	if first, ok := t.First(); ok && first.CreatedAt.IsSet() {
		return first.CreatedAt.Time
	}
	return DefaultThreadDate
}

// DateLabel formats Date as a US short date (M/D/YYYY).
func (t Thread) DateLabel() string {
	return FormatShortDate(t.Date())
}

// Clone returns a copy that shares no slice memory with t.
// A nil conversation slice becomes an empty one.
func (t Thread) Clone() Thread {
	convs := make([]Conversation, len(t.Conversations))
	copy(convs, t.Conversations)
	return Thread{ID: t.ID, Conversations: convs}
}

// FormatShortDate renders t as M/D/YYYY without zero padding.
func FormatShortDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}
