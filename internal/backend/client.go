// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/threadchat/internal/model"
)

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:3000"

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 16 << 20

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend root (default: http://localhost:3000)
	BaseURL string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// SendModel adds the selected model to chat requests.
	SendModel bool

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: DefaultBaseURL,
	}
}

// ChatRequest is one send-message call.
type ChatRequest struct {
	ThreadID string
	Prompt   string
	// Model is sent only when the client is configured with SendModel.
	Model string
}

// chatResponse is the body of GET /chat.
type chatResponse struct {
	Thread *model.Thread `json:"thread"`
	Error  string        `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to a chat backend over its two endpoints.
//
// The Client is safe for concurrent use.
//
// Example:
//
//	client := backend.NewClient(backend.DefaultConfig())
//	threads, err := client.History(ctx)
//	thread, err := client.Chat(ctx, backend.ChatRequest{ThreadID: id, Prompt: "hi"})
type Client struct {
	baseURL    string
	timeout    time.Duration
	sendModel  bool
	httpClient *http.Client
}

// NewClient creates a backend client. A nil config uses DefaultConfig.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	base := strings.TrimRight(config.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := config.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL:    base,
		timeout:    config.Timeout,
		sendModel:  config.SendModel,
		httpClient: hc,
	}
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// OPERATIONS
// =============================================================================

// History fetches every thread known to the backend, in backend order.
func (c *Client) History(ctx context.Context) ([]model.Thread, error) {
	body, status, err := c.get(ctx, "/history", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &ClientError{
			Type:    ErrTypeBackend,
			Message: backendMessage(body, "history request failed"),
			Status:  status,
		}
	}

	var threads []model.Thread
	if err := json.Unmarshal(body, &threads); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode history", Status: status, Cause: err}
	}
	for i := range threads {
		if threads[i].Conversations == nil {
			threads[i].Conversations = []model.Conversation{}
		}
	}
	return threads, nil
}

// Chat sends one prompt and returns the backend's authoritative thread.
// The prompt is normalised to NFC before it is encoded.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (model.Thread, error) {
	q := url.Values{}
	q.Set("threadId", req.ThreadID)
	q.Set("prompt", norm.NFC.String(req.Prompt))
	if c.sendModel && req.Model != "" {
		q.Set("model", req.Model)
	}

	body, status, err := c.get(ctx, "/chat", q)
	if err != nil {
		return model.Thread{}, err
	}

	if status < 200 || status > 299 {
		return model.Thread{}, &ClientError{
			Type:    ErrTypeBackend,
			Message: backendMessage(body, DefaultChatErrorMessage),
			Status:  status,
		}
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.Thread{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode chat response", Status: status, Cause: err}
	}
	if resp.Thread == nil || resp.Thread.ID == "" {
		return model.Thread{}, &ClientError{Type: ErrTypeInvalidResponse, Message: "chat response has no thread", Status: status}
	}
	if resp.Thread.Conversations == nil {
		resp.Thread.Conversations = []model.Conversation{}
	}
	return *resp.Thread, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, &ClientError{Type: ErrTypeTransport, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
		}
		return nil, 0, &ClientError{Type: ErrTypeTransport, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, resp.StatusCode, &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Status: resp.StatusCode, Cause: err}
		}
		return nil, resp.StatusCode, &ClientError{Type: ErrTypeTransport, Message: "failed to read response", Status: resp.StatusCode, Cause: err}
	}
	return body, resp.StatusCode, nil
}

// backendMessage extracts the "error" field of a failure body.
func backendMessage(body []byte, fallback string) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return fallback
}
