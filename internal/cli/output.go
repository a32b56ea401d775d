// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jeranaias/threadchat/internal/config"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/ui/components"
	"github.com/jeranaias/threadchat/internal/util"
)

// maxTitleWidth caps the title column of the thread table.
const maxTitleWidth = 40

// printer writes line-mode output. Markdown is rendered only for a
// terminal with ui.render_markdown on.
type printer struct {
	out   io.Writer
	st    printStyles
	md    *components.MarkdownRenderer
	width int
}

func newPrinter(out io.Writer, cfg *config.Config) *printer {
	p := &printer{
		out:   out,
		st:    newPrintStyles(out, colorProfile(out, cfg.UI.NoColor)),
		width: terminalWidth(out),
	}
	if cfg.UI.RenderMarkdown && isTerminalWriter(out) {
		style := "dark"
		if !lipgloss.HasDarkBackground() {
			style = "light"
		}
		p.md = components.NewMarkdownRenderer(style)
	}
	return p
}

func (p *printer) println(a ...interface{}) {
	fmt.Fprintln(p.out, a...)
}

func (p *printer) printf(format string, a ...interface{}) {
	fmt.Fprintf(p.out, format, a...)
}

// response formats a reply body.
func (p *printer) response(text string) string {
	if p.md == nil {
		return text
	}
	return p.md.Render(text, p.width)
}

// transcript prints one thread as alternating prompt/response blocks.
func (p *printer) transcript(t model.Thread) {
	if t.IsEmpty() {
		p.println(p.st.Muted.Render(model.EmptyThreadGreeting))
		return
	}
	for i, c := range t.Conversations {
		if i > 0 {
			p.println()
		}
		p.println(p.st.Prompt.Render("You: ") + c.Prompt)
		if c.IsPending() {
			p.println(p.st.Muted.Render("(no response yet)"))
			continue
		}
		p.println(p.response(c.Response))
	}
}

// threadTable renders the thread list. active, when non-empty, is marked.
func (p *printer) threadTable(threads []model.Thread, active string) string {
	rows := make([][]string, 0, len(threads))
	for _, t := range threads {
		id := t.ID
		if id == active {
			id = "* " + id
		}
		rows = append(rows, []string{
			id,
			util.TruncateWidth(util.SingleLine(t.Title()), maxTitleWidth),
			t.DateLabel(),
			strconv.Itoa(t.Len()),
		})
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderHeader(false).
		Headers("ID", "TITLE", "DATE", "CONVERSATIONS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.st.Label.PaddingRight(2)
			}
			return p.st.Value.PaddingRight(2)
		})
	return strings.TrimRight(tbl.String(), "\n")
}
