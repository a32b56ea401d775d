// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/threadchat/internal/config"
	"github.com/jeranaias/threadchat/internal/logger"
	"github.com/jeranaias/threadchat/internal/model"
)

const replHelp = `Commands:
  /new          start a new thread
  /threads      list threads
  /switch ID    make ID the active thread
  /models       list models
  /model ID     select a model
  /help         show this help
  /quit         leave
Anything else is sent to the active thread.`

func newReplCmd(a *app) *cobra.Command {
	var threadID, modelID string

	cmd := &cobra.Command{
		Use:   "repl [--thread ID] [--model ID]",
		Short: "Line-mode chat with input history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer logger.Sync()

			r := newRepl(newSession(newBackend(a.cfg)), newPrinter(cmd.OutOrStdout(), a.cfg))
			if modelID == "" {
				modelID = a.cfg.UI.DefaultModel
			}
			if err := r.start(cmd.Context(), threadID, modelID); err != nil {
				return err
			}
			return r.loop(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&threadID, "thread", "", "thread to resume")
	cmd.Flags().StringVar(&modelID, "model", "", "model id (default ui.default_model)")
	return cmd
}

// =============================================================================
// REPL
// =============================================================================

type repl struct {
	s *session
	p *printer
}

func newRepl(s *session, p *printer) *repl {
	return &repl{s: s, p: p}
}

// start selects modelID, loads history and activates threadID, or a new
// thread. An unknown model id is an error.
func (r *repl) start(ctx context.Context, threadID, modelID string) error {
	if modelID != "" && !r.s.store.SelectModel(modelID) {
		return fmt.Errorf("unknown model %q", modelID)
	}
	if err := r.s.loadHistory(ctx); err != nil {
		r.p.println(r.p.st.Muted.Render("Could not load history; starting empty."))
	}
	if threadID != "" {
		r.switchTo(threadID)
	} else {
		r.p.println(r.p.st.Muted.Render("Started thread " + r.s.newThread()))
	}
	r.p.println(r.p.st.Muted.Render("Type /help for commands."))
	return nil
}

// loop reads lines until /quit, EOF or Ctrl+C.
func (r *repl) loop(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath, err := config.ReplHistoryPath()
	if err == nil {
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer saveReplHistory(line, historyPath)
	}

	for {
		input, err := line.Prompt("threadchat> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				r.p.println()
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if quit := r.handleLine(ctx, input); quit {
			return nil
		}
	}
}

// saveReplHistory writes the input history with 0600 permissions.
func saveReplHistory(line *liner.State, path string) {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		logger.Warnw("REPL_HISTORY_SAVE_FAILED", "path", path, "error", err)
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}

// handleLine runs one line of input. It reports whether to quit.
func (r *repl) handleLine(ctx context.Context, input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}
	if !strings.HasPrefix(trimmed, "/") {
		r.sendPrompt(ctx, input)
		return false
	}

	fields := strings.Fields(trimmed)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "/quit", "/exit", "/q":
		return true
	case "/help", "/?":
		r.p.println(replHelp)
	case "/new":
		r.p.println(r.p.st.Success.Render("Started thread " + r.s.newThread()))
	case "/threads":
		threads := r.s.store.Threads()
		if len(threads) == 0 {
			r.p.println(r.p.st.Muted.Render("No threads yet."))
			break
		}
		r.p.println(r.p.threadTable(threads, r.s.store.ActiveThreadID()))
	case "/switch":
		if arg == "" {
			r.p.println(r.p.st.Error.Render("usage: /switch ID"))
			break
		}
		r.switchTo(arg)
	case "/models":
		selected := r.s.store.SelectedModel()
		for _, m := range model.Catalog {
			marker := "  "
			if m.ID == selected {
				marker = "* "
			}
			r.p.println(marker + m.String() + " " + r.p.st.Muted.Render(m.Description))
		}
	case "/model":
		if !r.s.store.SelectModel(arg) {
			r.p.println(r.p.st.Error.Render("unknown model " + arg))
			break
		}
		info, _ := model.LookupModel(arg)
		r.p.println(r.p.st.Success.Render("Selected " + info.String()))
	default:
		r.p.println(r.p.st.Error.Render("unknown command " + fields[0] + " (try /help)"))
	}
	return false
}

func (r *repl) switchTo(id string) {
	r.s.store.Select(id)
	t, ok := r.s.store.Thread(id)
	if !ok {
		t = model.NewThread(id)
	}
	r.p.println(r.p.st.Title.Render("Thread " + id))
	r.p.transcript(t)
}

func (r *repl) sendPrompt(ctx context.Context, prompt string) {
	thread, err := r.s.send(ctx, prompt)
	if err != nil {
		if msg, ok := isAlert(err); ok {
			r.p.println(r.p.st.Error.Render(msg))
			return
		}
		r.p.println(r.p.st.Muted.Render("(no reply)"))
		return
	}
	if latest, ok := thread.Latest(); ok {
		r.p.println(r.p.response(latest.Response))
	}
}
