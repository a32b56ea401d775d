// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the client-side chat state: the thread registry,
// the per-thread conversation store, the active thread, the selected
// model and the compose buffer.
//
// A Store has a single owner (the TUI model or a CLI command) and is not
// safe for concurrent use. Network results are applied by the owner on its
// own goroutine.
package store

import (
	"errors"
	"time"

	"github.com/jeranaias/threadchat/internal/model"
)

// Validation errors returned by ValidateSend.
var (
	ErrNoActiveThread = errors.New("no active thread")
	ErrEmptyPrompt    = errors.New("empty prompt")
)

// AlertSendPreconditions is the user-facing text for a failed ValidateSend.
const AlertSendPreconditions = "Please select a thread and enter a message."

// Store is the explicit state container for one chat session.
type Store struct {
	order    []string
	threads  map[string]model.Thread
	activeID string
	modelID  string
	input    string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		threads: make(map[string]model.Thread),
	}
}

// =============================================================================
// HISTORY
// =============================================================================

// LoadHistory replaces the registry and conversation store with threads.
// When an id appears more than once, the first occurrence wins.
// It returns the number of threads kept.
func (s *Store) LoadHistory(threads []model.Thread) int {
	s.order = make([]string, 0, len(threads))
	s.threads = make(map[string]model.Thread, len(threads))
	for _, t := range threads {
		if _, dup := s.threads[t.ID]; dup {
			continue
		}
		s.order = append(s.order, t.ID)
		s.threads[t.ID] = t.Clone()
	}
	return len(s.order)
}

// =============================================================================
// THREADS
// =============================================================================

// NewThread registers an empty thread with an id derived from now and makes
// it active. If that id is already registered the existing thread is
// selected instead. It returns the id.
func (s *Store) NewThread(now time.Time) string {
	id := model.NewThreadID(now)
	if _, ok := s.threads[id]; !ok {
		s.order = append(s.order, id)
		s.threads[id] = model.NewThread(id)
	}
	s.activeID = id
	return id
}

// Select makes id the active thread. Unknown ids are accepted.
func (s *Store) Select(id string) {
	s.activeID = id
}

// ActiveThreadID returns the active thread id, or "" when none.
func (s *Store) ActiveThreadID() string {
	return s.activeID
}

// HasThread reports whether id is registered.
func (s *Store) HasThread(id string) bool {
	_, ok := s.threads[id]
	return ok
}

// ThreadIDs returns the registry in display order.
func (s *Store) ThreadIDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Thread returns a copy of the thread with the given id.
func (s *Store) Thread(id string) (model.Thread, bool) {
	t, ok := s.threads[id]
	if !ok {
		return model.Thread{}, false
	}
	return t.Clone(), true
}

// Threads returns copies of all threads in display order.
func (s *Store) Threads() []model.Thread {
	out := make([]model.Thread, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.threads[id].Clone())
	}
	return out
}

// Len returns the number of registered threads.
func (s *Store) Len() int {
	return len(s.order)
}

// Transcript returns the conversations of id. Unknown ids yield an empty
// slice.
func (s *Store) Transcript(id string) []model.Conversation {
	t, ok := s.threads[id]
	if !ok {
		return []model.Conversation{}
	}
	return t.Clone().Conversations
}

// ActiveTranscript returns the transcript of the active thread.
func (s *Store) ActiveTranscript() []model.Conversation {
	return s.Transcript(s.activeID)
}

// =============================================================================
// MODEL SELECTION
// =============================================================================

// SelectModel sets the selected model. Ids outside model.Catalog are
// ignored and false is returned.
func (s *Store) SelectModel(id string) bool {
	if _, ok := model.LookupModel(id); !ok {
		return false
	}
	s.modelID = id
	return true
}

// SelectedModel returns the selected model id, or "" when none.
func (s *Store) SelectedModel() string {
	return s.modelID
}

// =============================================================================
// COMPOSE / SEND
// =============================================================================

// SetInput replaces the compose buffer.
func (s *Store) SetInput(text string) {
	s.input = text
}

// Input returns the compose buffer.
func (s *Store) Input() string {
	return s.input
}

// ValidateSend checks the send preconditions and returns the thread id and
// prompt to send. Only the empty string counts as an empty prompt.
func (s *Store) ValidateSend() (threadID, prompt string, err error) {
	if s.activeID == "" {
		return "", "", ErrNoActiveThread
	}
	if s.input == "" {
		return "", "", ErrEmptyPrompt
	}
	return s.activeID, s.input, nil
}

// ApplyChat merges a successful chat response. An existing thread has its
// conversations replaced; an unknown thread is appended once. The compose
// buffer is cleared and the active thread is left alone.
func (s *Store) ApplyChat(t model.Thread) {
	if _, ok := s.threads[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.threads[t.ID] = t.Clone()
	s.input = ""
}
