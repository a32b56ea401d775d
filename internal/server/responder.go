// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/threadchat/internal/config"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/ollama"
)

// Responder produces the reply to a prompt given the thread's earlier
// conversations. modelID is the client's selected model and may be empty.
type Responder interface {
	Name() string
	Reply(ctx context.Context, history []model.Conversation, prompt, modelID string) (string, error)
}

// NewResponder builds the responder named by cfg.Responder.
func NewResponder(cfg config.ServerConfig) (Responder, error) {
	switch cfg.Responder {
	case "", "echo":
		return EchoResponder{}, nil
	case "ollama":
		client := ollama.NewClientWithConfig(&ollama.ClientConfig{
			BaseURL:      cfg.OllamaURL,
			DefaultModel: cfg.OllamaModel,
		})
		return NewOllamaResponder(client), nil
	default:
		return nil, fmt.Errorf("unknown responder %q", cfg.Responder)
	}
}

// =============================================================================
// ECHO
// =============================================================================

// EchoResponder repeats the prompt back.
type EchoResponder struct{}

// Name implements Responder.
func (EchoResponder) Name() string { return "echo" }

// Reply implements Responder.
func (EchoResponder) Reply(_ context.Context, _ []model.Conversation, prompt, _ string) (string, error) {
	return "You said: " + prompt, nil
}

// =============================================================================
// OLLAMA
// =============================================================================

// chatClient is the part of *ollama.Client the responder needs.
type chatClient interface {
	Chat(ctx context.Context, model string, messages []ollama.Message) (*ollama.ChatResponse, error)
}

// OllamaResponder asks a local Ollama model, replaying the thread as context.
type OllamaResponder struct {
	client  chatClient
	timeout time.Duration
}

// NewOllamaResponder wraps client. The model configured on the client is
// used for every request.
func NewOllamaResponder(client chatClient) *OllamaResponder {
	return &OllamaResponder{client: client, timeout: 2 * time.Minute}
}

// Name implements Responder.
func (r *OllamaResponder) Name() string { return "ollama" }

// Reply implements Responder.
func (r *OllamaResponder) Reply(ctx context.Context, history []model.Conversation, prompt, modelID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.Chat(ctx, "", BuildMessages(history, prompt, modelID))
	if err != nil {
		return "", err
	}
	reply := strings.TrimSpace(resp.Message.Content)
	if reply == "" {
		return "", fmt.Errorf("ollama returned an empty reply")
	}
	return reply, nil
}

// BuildMessages converts a thread into chat messages. A known model id adds
// a system message naming the assistant persona. Pending conversations
// contribute only their prompt.
func BuildMessages(history []model.Conversation, prompt, modelID string) []ollama.Message {
	messages := make([]ollama.Message, 0, 2*len(history)+2)
	if info, ok := model.LookupModel(modelID); ok {
		messages = append(messages, ollama.NewSystemMessage("You are "+info.Name+"."))
	}
	for _, c := range history {
		messages = append(messages, ollama.NewUserMessage(c.Prompt))
		if !c.IsPending() {
			messages = append(messages, ollama.NewAssistantMessage(c.Response))
		}
	}
	return append(messages, ollama.NewUserMessage(prompt))
}
