// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/threadchat/internal/logger"
)

func newAskCmd(a *app) *cobra.Command {
	var threadID, modelID string

	cmd := &cobra.Command{
		Use:   "ask [--thread ID] PROMPT...",
		Short: "Send one prompt and print the reply",
		Long: `Send one prompt to the backend and print the latest response.

Without --thread a new thread is started; its id is printed on stderr so it
can be continued. With no arguments the prompt is read from stdin.`,
		Example: `  threadchat ask "summarise the meeting notes"
  threadchat ask --thread chat-1735689600000 "and the action items?"
  cat notes.md | threadchat ask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return a.runAsk(cmd, threadID, modelID, prompt)
		},
	}
	cmd.Flags().StringVar(&threadID, "thread", "", "continue an existing thread")
	cmd.Flags().StringVar(&modelID, "model", "", "model id to select (model1..model4)")
	return cmd
}

// readPrompt joins args, or reads stdin when there are none.
func readPrompt(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if IsTTY() {
		return "", errors.New("no prompt given")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (a *app) runAsk(cmd *cobra.Command, threadID, modelID, prompt string) error {
	defer logger.Sync()

	s := newSession(newBackend(a.cfg))
	if modelID == "" {
		modelID = a.cfg.UI.DefaultModel
	}
	if modelID != "" && !s.store.SelectModel(modelID) {
		return fmt.Errorf("unknown model %q", modelID)
	}

	if threadID != "" {
		s.store.Select(threadID)
	} else {
		threadID = s.newThread()
		fmt.Fprintf(cmd.ErrOrStderr(), "thread %s\n", threadID)
	}

	thread, err := s.send(cmd.Context(), prompt)
	if err != nil {
		if msg, ok := isAlert(err); ok {
			return errors.New(msg)
		}
		return fmt.Errorf("send failed: %w", err)
	}

	latest, ok := thread.Latest()
	if !ok {
		return fmt.Errorf("backend returned thread %s with no conversations", thread.ID)
	}
	p := newPrinter(cmd.OutOrStdout(), a.cfg)
	p.println(p.response(latest.Response))
	return nil
}
