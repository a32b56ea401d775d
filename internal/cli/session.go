// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"time"

	"github.com/jeranaias/threadchat/internal/backend"
	"github.com/jeranaias/threadchat/internal/logger"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/store"
)

// Backend is the client surface the line-mode commands use.
type Backend interface {
	History(ctx context.Context) ([]model.Thread, error)
	Chat(ctx context.Context, req backend.ChatRequest) (model.Thread, error)
}

// AlertError is a failure the user should see verbatim: a failed send
// precondition or a message reported by the backend.
type AlertError struct {
	Message string
	Cause   error
}

func (e *AlertError) Error() string { return e.Message }

func (e *AlertError) Unwrap() error { return e.Cause }

// session drives a store.Store from a blocking command, applying the same
// rules the TUI applies.
type session struct {
	store   *store.Store
	backend Backend
	now     func() time.Time
}

func newSession(b Backend) *session {
	return &session{store: store.New(), backend: b, now: time.Now}
}

// loadHistory fills the registry. A failure is logged and leaves it empty.
func (s *session) loadHistory(ctx context.Context) error {
	threads, err := s.backend.History(ctx)
	if err != nil {
		logger.Warnw("HISTORY_FAILED", "error", err)
		return err
	}
	n := s.store.LoadHistory(threads)
	logger.Infow("HISTORY_LOADED", "threads", n)
	return nil
}

// newThread creates and activates a thread.
func (s *session) newThread() string {
	id := s.store.NewThread(s.now())
	logger.Infow("THREAD_CREATED", "thread_id", id)
	return id
}

// send posts prompt to the active thread and merges the reply.
func (s *session) send(ctx context.Context, prompt string) (model.Thread, error) {
	s.store.SetInput(prompt)
	threadID, text, err := s.store.ValidateSend()
	if err != nil {
		return model.Thread{}, &AlertError{Message: store.AlertSendPreconditions, Cause: err}
	}

	logger.Infow("CHAT_SENT", "thread_id", threadID, "prompt_len", len(text))
	thread, err := s.backend.Chat(ctx, backend.ChatRequest{
		ThreadID: threadID,
		Prompt:   text,
		Model:    s.store.SelectedModel(),
	})
	if err != nil {
		logger.Warnw("CHAT_FAILED", "thread_id", threadID, "error", err)
		if msg := backend.AlertMessage(err); msg != "" {
			return model.Thread{}, &AlertError{Message: msg, Cause: err}
		}
		return model.Thread{}, err
	}

	s.store.ApplyChat(thread)
	return thread, nil
}

// isAlert reports whether err carries user-facing alert text.
func isAlert(err error) (string, bool) {
	var ae *AlertError
	if errors.As(err, &ae) {
		return ae.Message, true
	}
	return "", false
}
