// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for threads and conversations.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is one user turn and its reply.
// An empty Response means the reply is still pending.
type Conversation struct {
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

// NewConversation creates a conversation stamped with the given time.
func NewConversation(prompt, response string, at time.Time) Conversation {
	return Conversation{
		Prompt:    prompt,
		Response:  response,
		CreatedAt: NewTimestamp(at),
	}
}

// IsPending reports whether the conversation has no reply yet.
func (c Conversation) IsPending() bool {
	return c.Response == ""
}

// Preview returns the prompt on a single line, truncated to maxLen runes.
func (c Conversation) Preview(maxLen int) string {
	content := strings.Join(strings.Fields(c.Prompt), " ")
	runes := []rune(content)
	if maxLen > 3 && len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return content
}

// =============================================================================
// TIMESTAMP
// =============================================================================

// timestampLayouts are tried in order when decoding a string createdAt.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// Timestamp is a createdAt value as reported by a backend.
//
// Backends are not consistent about the format, so decoding accepts RFC 3339,
// plain dates, and epoch milliseconds. Raw keeps the original text so values
// that cannot be parsed are written back unchanged.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// NewTimestamp wraps t, normalised to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// ParseTimestamp parses s with the accepted layouts.
// An unparseable string yields a Timestamp with only Raw set.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t, Raw: s}
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Timestamp{Time: time.UnixMilli(ms).UTC(), Raw: s}
	}
	return Timestamp{Raw: s}
}

// IsSet reports whether the timestamp carries a parsed time.
func (ts Timestamp) IsSet() bool {
	return !ts.Time.IsZero()
}

// String returns the raw text if present, otherwise RFC 3339.
func (ts Timestamp) String() string {
	if ts.Raw != "" {
		return ts.Raw
	}
	if ts.Time.IsZero() {
		return ""
	}
	return ts.Time.Format(time.RFC3339Nano)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Raw == "" && ts.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
		*ts = ParseTimestamp(s)
		return nil
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("createdAt: expected string or number, got %s", string(data))
	}
	*ts = Timestamp{
		Time: time.UnixMilli(int64(ms)).UTC(),
		Raw:  string(data),
	}
	return nil
}
