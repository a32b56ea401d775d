// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/threadchat/internal/model"
)

// pendingReply stands in for a conversation that has no response.
const pendingReply = "_No response yet._"

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports threads to Markdown with YAML frontmatter.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	return &MarkdownExporter{options: opts.normalize()}
}

// Export converts a thread to Markdown.
func (e *MarkdownExporter) Export(thread model.Thread) ([]byte, error) {
	if thread.IsEmpty() {
		return nil, ErrEmptyThread
	}

	var sb strings.Builder

	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "thread: %s\n", escapeYAML(thread.ID))
	fmt.Fprintf(&sb, "title: %s\n", escapeYAML(threadTitle(thread)))
	fmt.Fprintf(&sb, "created: %s\n", thread.Date().UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "conversations: %d\n", thread.Len())
	sb.WriteString("---\n\n")

	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(threadTitle(thread)))
	sb.WriteString("## Conversation\n\n")

	for _, c := range thread.Conversations {
		sb.WriteString(e.formatHeading("[User]", c))
		sb.WriteString(strings.TrimSpace(c.Prompt))
		sb.WriteString("\n\n")

		sb.WriteString("### [Assistant]\n\n")
		if c.IsPending() {
			sb.WriteString(pendingReply)
		} else {
			sb.WriteString(strings.TrimSpace(c.Response))
		}
		sb.WriteString("\n\n")
	}

	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "*Exported from threadchat on %s*\n", e.options.Now().Format("January 2, 2006 at 3:04 PM"))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

func (e *MarkdownExporter) formatHeading(label string, c model.Conversation) string {
	if e.options.IncludeTimestamps {
		if ts := formatTimestamp(c.CreatedAt); ts != "" {
			return fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, ts)
		}
	}
	return fmt.Sprintf("### %s\n\n", label)
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes characters that break formatting in headings.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer(
		"#", `\#`,
		"*", `\*`,
		"_", `\_`,
		"[", `\[`,
		"]", `\]`,
	)
	return r.Replace(s)
}

// escapeYAML quotes a scalar when it contains YAML syntax.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		s = strings.ReplaceAll(s, "\n", `\n`)
		s = strings.ReplaceAll(s, "\r", `\r`)
		return `"` + s + `"`
	}
	return s
}
