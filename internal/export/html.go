// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/jeranaias/threadchat/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports threads to a self-contained HTML page.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	return &HTMLExporter{options: opts.normalize()}
}

// Export converts a thread to HTML. All user text is escaped.
func (e *HTMLExporter) Export(thread model.Thread) ([]byte, error) {
	if thread.IsEmpty() {
		return nil, ErrEmptyThread
	}

	title := html.EscapeString(threadTitle(thread))

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", title)
	sb.WriteString("    <meta name=\"generator\" content=\"threadchat\">\n")
	sb.WriteString(css)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s-theme\">\n", e.options.Theme)
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString("        <header class=\"header\">\n")
	fmt.Fprintf(&sb, "            <h1>%s</h1>\n", title)
	sb.WriteString("            <div class=\"metadata\">\n")
	fmt.Fprintf(&sb, "                <span class=\"meta-item\"><strong>Thread:</strong> %s</span>\n", html.EscapeString(thread.ID))
	fmt.Fprintf(&sb, "                <span class=\"meta-item\"><strong>Created:</strong> %s</span>\n", thread.DateLabel())
	fmt.Fprintf(&sb, "                <span class=\"meta-item\"><strong>Conversations:</strong> %d</span>\n", thread.Len())
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, c := range thread.Conversations {
		sb.WriteString(e.renderTurn("user", "You", c.Prompt, c.CreatedAt))
		if c.IsPending() {
			sb.WriteString(e.renderTurn("assistant pending", "Assistant", "No response yet.", model.Timestamp{}))
		} else {
			sb.WriteString(e.renderTurn("assistant", "Assistant", c.Response, model.Timestamp{}))
		}
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	fmt.Fprintf(&sb, "            <p>Exported from <strong>threadchat</strong> on %s</p>\n",
		e.options.Now().Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

func (e *HTMLExporter) renderTurn(class, label, text string, ts model.Timestamp) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "            <div class=\"message %s\">\n", class)
	sb.WriteString("                <div class=\"message-header\">\n")
	fmt.Fprintf(&sb, "                    <span class=\"role-label\">%s</span>\n", label)
	if e.options.IncludeTimestamps {
		if stamp := formatTimestamp(ts); stamp != "" {
			fmt.Fprintf(&sb, "                    <span class=\"timestamp\">%s</span>\n", html.EscapeString(stamp))
		}
	}
	sb.WriteString("                </div>\n")
	fmt.Fprintf(&sb, "                <div class=\"message-content\">%s</div>\n", paragraphs(text))
	sb.WriteString("            </div>\n")
	return sb.String()
}

// paragraphs escapes text and keeps its line breaks.
func paragraphs(text string) string {
	escaped := html.EscapeString(strings.TrimSpace(text))
	return strings.ReplaceAll(escaped, "\n", "<br>\n")
}

const css = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        .dark-theme {
            --bg: #1a1b26; --panel: #24283b; --text: #c0caf5;
            --muted: #565f89; --border: #414868; --accent: #7aa2f7; --user: #1f2335;
        }
        .light-theme {
            --bg: #f5f5f5; --panel: #ffffff; --text: #24292f;
            --muted: #6e7781; --border: #d0d7de; --accent: #0969da; --user: #eef4ff;
        }
        body {
            background: var(--bg); color: var(--text); line-height: 1.6;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
        }
        .container { max-width: 900px; margin: 0 auto; padding: 2rem 1rem; }
        .header { border-bottom: 1px solid var(--border); padding-bottom: 1rem; margin-bottom: 1.5rem; }
        .header h1 { font-size: 1.5rem; color: var(--accent); }
        .metadata { display: flex; flex-wrap: wrap; gap: 1rem; color: var(--muted); font-size: 0.875rem; }
        .message { background: var(--panel); border: 1px solid var(--border); border-radius: 8px; padding: 1rem; margin-bottom: 1rem; }
        .message.user { background: var(--user); }
        .message.pending .message-content { color: var(--muted); font-style: italic; }
        .message-header { display: flex; justify-content: space-between; margin-bottom: 0.5rem; }
        .role-label { font-weight: 600; color: var(--accent); }
        .timestamp { color: var(--muted); font-size: 0.8rem; }
        .message-content { white-space: normal; word-wrap: break-word; }
        .footer { text-align: center; color: var(--muted); font-size: 0.8rem; margin-top: 2rem; }
    </style>
`
