// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*ClientConfig)) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &ClientConfig{BaseURL: server.URL}
	for _, m := range mutate {
		m(cfg)
	}
	return NewClient(cfg)
}

// =============================================================================
// HISTORY TESTS
// =============================================================================

func TestHistory_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"threadId":"a","conversations":[{"prompt":"hi","response":"hello","createdAt":"2025-01-01"}]},
			{"threadId":"b"}
		]`))
	})

	threads, err := client.History(context.Background())
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, "a", threads[0].ID)
	assert.Equal(t, "hello", threads[0].Conversations[0].Response)
	assert.NotNil(t, threads[1].Conversations)
}

func TestHistory_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType ErrorType
	}{
		{name: "server error", status: 500, body: `{"error":"db down"}`, wantType: ErrTypeBackend},
		{name: "not json", status: 200, body: `<html>`, wantType: ErrTypeInvalidResponse},
		{name: "object instead of array", status: 200, body: `{"threads":[]}`, wantType: ErrTypeInvalidResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.History(context.Background())
			require.Error(t, err)
			assert.Equal(t, tc.wantType, typeOf(err))
		})
	}
}

func TestHistory_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(&ClientConfig{BaseURL: url})
	_, err := client.History(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.False(t, IsBackendError(err))
	assert.Equal(t, "", AlertMessage(err))
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_EncodesQuery(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"thread":{"threadId":"a","conversations":[{"prompt":"a&b=c?","response":"ok","createdAt":"2025-01-01"}]}}`))
	})

	thread, err := client.Chat(context.Background(), ChatRequest{ThreadID: "a", Prompt: "a&b=c?", Model: "model1"})
	require.NoError(t, err)
	assert.Equal(t, "a", thread.ID)
	require.Len(t, thread.Conversations, 1)

	assert.Equal(t, []string{"a"}, gotQuery["threadId"])
	assert.Equal(t, []string{"a&b=c?"}, gotQuery["prompt"])
	_, hasModel := gotQuery["model"]
	assert.False(t, hasModel, "model must not be sent by default")
}

func TestChat_SendModelWhenEnabled(t *testing.T) {
	var gotModel string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotModel = r.URL.Query().Get("model")
		_, _ = w.Write([]byte(`{"thread":{"threadId":"a","conversations":[]}}`))
	}, func(c *ClientConfig) { c.SendModel = true })

	_, err := client.Chat(context.Background(), ChatRequest{ThreadID: "a", Prompt: "hi", Model: "model3"})
	require.NoError(t, err)
	assert.Equal(t, "model3", gotModel)
}

func TestChat_NormalisesToNFC(t *testing.T) {
	var gotPrompt string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPrompt = r.URL.Query().Get("prompt")
		_, _ = w.Write([]byte(`{"thread":{"threadId":"a","conversations":[]}}`))
	})

	// "e" followed by a combining acute accent.
	_, err := client.Chat(context.Background(), ChatRequest{ThreadID: "a", Prompt: "cafe\u0301"})
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", gotPrompt)
}

func TestChat_BackendError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "with message", body: `{"error":"boom"}`, wantMsg: "boom"},
		{name: "empty object", body: `{}`, wantMsg: DefaultChatErrorMessage},
		{name: "not json", body: `oops`, wantMsg: DefaultChatErrorMessage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.Chat(context.Background(), ChatRequest{ThreadID: "a", Prompt: "hi"})
			require.Error(t, err)
			assert.True(t, IsBackendError(err))
			assert.Equal(t, tc.wantMsg, AlertMessage(err))

			var ce *ClientError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, http.StatusInternalServerError, ce.Status)
		})
	}
}

func TestChat_MalformedSuccessIsTyped(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no thread", body: `{}`},
		{name: "thread null", body: `{"thread":null}`},
		{name: "thread without id", body: `{"thread":{"conversations":[]}}`},
		{name: "garbage", body: `not json`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.Chat(context.Background(), ChatRequest{ThreadID: "a", Prompt: "hi"})
			require.Error(t, err)
			assert.True(t, IsInvalidResponse(err))
			assert.True(t, IsTransport(err))
			assert.Equal(t, "", AlertMessage(err))
		})
	}
}

func TestChat_Timeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, func(c *ClientConfig) { c.Timeout = 50 * time.Millisecond })
	defer close(release)

	_, err := client.Chat(context.Background(), ChatRequest{ThreadID: "a", Prompt: "hi"})
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.True(t, IsTransport(err))
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.False(t, c.sendModel)

	c = NewClient(&ClientConfig{BaseURL: "http://example.test/"})
	assert.Equal(t, "http://example.test", c.BaseURL())
}

func TestClientError_Message(t *testing.T) {
	err := &ClientError{Type: ErrTypeBackend, Message: "boom", Status: 500}
	assert.Equal(t, "boom (status 500)", err.Error())
	assert.Equal(t, "backend", err.Type.String())
}
