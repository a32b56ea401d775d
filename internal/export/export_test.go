// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/threadchat/internal/model"
)

var exportTime = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func testOptions(dir string) *Options {
	return &Options{
		OutputDir:         dir,
		IncludeTimestamps: true,
		Now:               func() time.Time { return exportTime },
	}
}

func testThread() model.Thread {
	at := time.Date(2025, 2, 28, 14, 5, 0, 0, time.UTC)
	return model.Thread{
		ID: "chat-1740751500000",
		Conversations: []model.Conversation{
			model.NewConversation("What is *Go*?", "A language.\nCompiled.", at),
			model.NewConversation("<script>alert(1)</script>", "", at.Add(time.Minute)),
		},
	}
}

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"md", FormatMarkdown},
		{"Markdown", FormatMarkdown},
		{".md", FormatMarkdown},
		{"html", FormatHTML},
		{"htm", FormatHTML},
		{" json ", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "md, html, json")
}

func TestNew(t *testing.T) {
	for format, ext := range map[Format]string{
		FormatMarkdown: ".md",
		FormatHTML:     ".html",
		FormatJSON:     ".json",
	} {
		e, err := New(format, nil)
		require.NoError(t, err)
		assert.Equal(t, ext, e.FileExtension())
		assert.NotEmpty(t, e.MimeType())
	}

	_, err := New(Format("pdf"), nil)
	assert.Error(t, err)
}

func TestOptionsNormalize(t *testing.T) {
	o := (&Options{Theme: "neon"}).normalize()
	assert.Equal(t, ".", o.OutputDir)
	assert.Equal(t, "dark", o.Theme)
	assert.NotNil(t, o.Now)

	o = (&Options{Theme: "light"}).normalize()
	assert.Equal(t, "light", o.Theme)
}

// =============================================================================
// EXPORTER TESTS
// =============================================================================

func TestMarkdownExporter(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions("")).Export(testThread())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\nthread: chat-1740751500000\n"))
	assert.Contains(t, md, `title: "What is *Go*?"`)
	assert.Contains(t, md, "conversations: 2\n")
	assert.Contains(t, md, `# What is \*Go\*?`)
	assert.Contains(t, md, "### [User] <sub>2025-02-28 14:05:00</sub>")
	assert.Contains(t, md, "A language.\nCompiled.")
	assert.Contains(t, md, pendingReply)
	assert.Contains(t, md, "March 1, 2025 at 9:30 AM")
	assert.Less(t, strings.Index(md, "What is *Go*?\n"), strings.Index(md, "<script>"))
}

func TestMarkdownExporter_NoTimestamps(t *testing.T) {
	opts := testOptions("")
	opts.IncludeTimestamps = false
	out, err := NewMarkdownExporter(opts).Export(testThread())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<sub>")
}

func TestHTMLExporter(t *testing.T) {
	opts := testOptions("")
	opts.Theme = "light"
	out, err := NewHTMLExporter(opts).Export(testThread())
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "<title>What is *Go*?</title>")
	assert.Contains(t, page, `<body class="light-theme">`)
	assert.Contains(t, page, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, page, "<script>")
	assert.Contains(t, page, "A language.<br>\nCompiled.")
	assert.Contains(t, page, `class="message assistant pending"`)
	assert.Contains(t, page, "<strong>Conversations:</strong> 2")
}

func TestExporters_EmptyThread(t *testing.T) {
	empty := model.NewThread("chat-1")

	_, err := NewMarkdownExporter(nil).Export(empty)
	assert.ErrorIs(t, err, ErrEmptyThread)
	_, err = NewHTMLExporter(nil).Export(empty)
	assert.ErrorIs(t, err, ErrEmptyThread)

	out, err := NewJSONExporter(nil).Export(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"threadId":"chat-1","conversations":[]}`, string(out))
}

func TestJSONExporter_RoundTrip(t *testing.T) {
	thread := testThread()
	out, err := NewJSONExporter(nil).Export(thread)
	require.NoError(t, err)

	var got model.Thread
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, thread.ID, got.ID)
	require.Len(t, got.Conversations, 2)
	assert.Equal(t, "What is *Go*?", got.Conversations[0].Prompt)
	assert.True(t, got.Conversations[1].IsPending())
}

// =============================================================================
// FILE TESTS
// =============================================================================

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	opts := testOptions(dir)

	path, err := ExportToFile(testThread(), NewMarkdownExporter(opts), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "thread_chat-1740751500000_20250301_093000.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "## Conversation")
}

func TestExportToFile_ExportError(t *testing.T) {
	dir := t.TempDir()
	_, err := ExportToFile(model.NewThread("x"), NewHTMLExporter(nil), testOptions(dir))
	assert.ErrorIs(t, err, ErrEmptyThread)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b-c_d", sanitizeFilename(`a/b:c d`))
	assert.Equal(t, "thread", sanitizeFilename(""))
	assert.Equal(t, "x-y", sanitizeFilename("x\x01y"))
	assert.Len(t, []rune(sanitizeFilename(strings.Repeat("é", 80))), maxFilenameLen)
}
