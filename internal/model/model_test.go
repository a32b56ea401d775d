// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// TIMESTAMP TESTS
// =============================================================================

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantSet bool
		want    time.Time
		wantRaw string
	}{
		{
			name:    "date only",
			input:   `"2025-01-01"`,
			wantSet: true,
			want:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			wantRaw: "2025-01-01",
		},
		{
			name:    "rfc3339",
			input:   `"2025-03-04T05:06:07Z"`,
			wantSet: true,
			want:    time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
			wantRaw: "2025-03-04T05:06:07Z",
		},
		{
			name:    "rfc3339 with millis",
			input:   `"2025-03-04T05:06:07.123Z"`,
			wantSet: true,
			want:    time.Date(2025, 3, 4, 5, 6, 7, 123000000, time.UTC),
			wantRaw: "2025-03-04T05:06:07.123Z",
		},
		{
			name:    "epoch millis",
			input:   `1735689600000`,
			wantSet: true,
			want:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			wantRaw: "1735689600000",
		},
		{
			name:    "null",
			input:   `null`,
			wantSet: false,
		},
		{
			name:    "garbage string kept raw",
			input:   `"yesterday-ish"`,
			wantSet: false,
			wantRaw: "yesterday-ish",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tc.input), &ts); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tc.input, err)
			}
			if ts.IsSet() != tc.wantSet {
				t.Fatalf("IsSet() = %v, want %v", ts.IsSet(), tc.wantSet)
			}
			if tc.wantSet && !ts.Time.Equal(tc.want) {
				t.Errorf("Time = %v, want %v", ts.Time, tc.want)
			}
			if ts.Raw != tc.wantRaw {
				t.Errorf("Raw = %q, want %q", ts.Raw, tc.wantRaw)
			}
		})
	}
}

func TestTimestamp_UnmarshalJSON_RejectsObjects(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`{"a":1}`), &ts); err == nil {
		t.Error("expected error for object createdAt")
	}
}

func TestTimestamp_MarshalKeepsRawText(t *testing.T) {
	ts := ParseTimestamp("yesterday-ish")
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `"yesterday-ish"` {
		t.Errorf("Marshal = %s, want raw text", data)
	}

	var zero Timestamp
	data, _ = json.Marshal(zero)
	if string(data) != "null" {
		t.Errorf("Marshal(zero) = %s, want null", data)
	}

	fresh := NewTimestamp(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	data, _ = json.Marshal(fresh)
	if string(data) != `"2025-06-01T12:00:00Z"` {
		t.Errorf("Marshal(fresh) = %s", data)
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_DecodePending(t *testing.T) {
	payload := `[
		{"prompt": "a", "response": "b", "createdAt": "2025-01-01"},
		{"prompt": "c", "response": null, "createdAt": "2025-01-02"},
		{"prompt": "d", "createdAt": "2025-01-03"}
	]`

	var convs []Conversation
	if err := json.Unmarshal([]byte(payload), &convs); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if len(convs) != 3 {
		t.Fatalf("got %d conversations, want 3", len(convs))
	}
	if convs[0].IsPending() {
		t.Error("first conversation should have a response")
	}
	if !convs[1].IsPending() || !convs[2].IsPending() {
		t.Error("null and missing responses should be pending")
	}
}

func TestConversation_Preview(t *testing.T) {
	c := Conversation{Prompt: "line one\nline   two"}
	if got := c.Preview(100); got != "line one line two" {
		t.Errorf("Preview() = %q", got)
	}

	long := Conversation{Prompt: strings.Repeat("x", 40)}
	got := long.Preview(10)
	if got != "xxxxxxx..." {
		t.Errorf("Preview(10) = %q", got)
	}
}

// =============================================================================
// THREAD TESTS
// =============================================================================

func TestThread_TitleAndDate(t *testing.T) {
	empty := NewThread("chat-1")
	if empty.Title() != DefaultThreadTitle {
		t.Errorf("Title() = %q, want default", empty.Title())
	}
	if empty.DateLabel() != "2/28/2025" {
		t.Errorf("DateLabel() = %q, want 2/28/2025", empty.DateLabel())
	}

	thread := Thread{
		ID: "a",
		Conversations: []Conversation{
			{Prompt: "hi", Response: "hello", CreatedAt: ParseTimestamp("2025-01-01")},
			{Prompt: "second", CreatedAt: ParseTimestamp("2025-07-09")},
		},
	}
	if thread.Title() != "hi" {
		t.Errorf("Title() = %q, want hi", thread.Title())
	}
	if thread.DateLabel() != "1/1/2025" {
		t.Errorf("DateLabel() = %q, want 1/1/2025", thread.DateLabel())
	}
}

func TestThread_DateFallsBackWhenUnparseable(t *testing.T) {
	thread := Thread{
		ID:            "a",
		Conversations: []Conversation{{Prompt: "hi", CreatedAt: ParseTimestamp("not a date")}},
	}
	if thread.DateLabel() != "2/28/2025" {
		t.Errorf("DateLabel() = %q, want fallback", thread.DateLabel())
	}
}

func TestThread_CloneIsIndependent(t *testing.T) {
	orig := Thread{ID: "a", Conversations: []Conversation{{Prompt: "hi"}}}
	clone := orig.Clone()
	clone.Conversations[0].Prompt = "changed"
	if orig.Conversations[0].Prompt != "hi" {
		t.Error("Clone() shares memory with the original")
	}

	nilConvs := Thread{ID: "b"}.Clone()
	if nilConvs.Conversations == nil {
		t.Error("Clone() of nil conversations should be an empty slice")
	}
}

func TestThread_JSONShape(t *testing.T) {
	data, err := json.Marshal(NewThread("chat-42"))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `{"threadId":"chat-42","conversations":[]}` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestNewThreadID(t *testing.T) {
	now := time.UnixMilli(1735689600123)
	if got := NewThreadID(now); got != "chat-1735689600123" {
		t.Errorf("NewThreadID() = %q", got)
	}
	if NewThreadID(now) != NewThreadID(now) {
		t.Error("same millisecond should give the same id")
	}
}

func TestFormatShortDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "1/1/2025"},
		{time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), "12/31/2024"},
		{time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), "2/28/2025"},
	}
	for _, tc := range tests {
		if got := FormatShortDate(tc.in); got != tc.want {
			t.Errorf("FormatShortDate(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// =============================================================================
// MODEL CATALOG TESTS
// =============================================================================

func TestCatalog(t *testing.T) {
	if len(Catalog) != 4 {
		t.Fatalf("Catalog has %d entries, want 4", len(Catalog))
	}

	seen := make(map[string]bool)
	for _, m := range Catalog {
		if m.ID == "" || m.Name == "" {
			t.Errorf("catalog entry %+v is incomplete", m)
		}
		if seen[m.ID] {
			t.Errorf("duplicate catalog id %q", m.ID)
		}
		seen[m.ID] = true
	}

	info, ok := LookupModel("model2")
	if !ok || info.Name != "Legal Policy GPT" {
		t.Errorf("LookupModel(model2) = %+v, %v", info, ok)
	}
	if _, ok := LookupModel("nope"); ok {
		t.Error("LookupModel(nope) should fail")
	}
}
