// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/jeranaias/threadchat/internal/config"
	"github.com/jeranaias/threadchat/internal/logger"
	"github.com/jeranaias/threadchat/internal/model"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is where the client looks for the backend by default.
	DefaultAddr = "127.0.0.1:3000"

	// MaxPromptLength bounds the prompt query parameter.
	MaxPromptLength = 100000

	// Version is reported by /health.
	Version = "0.1.0"
)

// ============================================================================
// SERVER
// ============================================================================

// ThreadStore is the persistence the handlers need. *storage.ThreadStore
// satisfies it.
type ThreadStore interface {
	ListThreads(ctx context.Context) ([]model.Thread, error)
	GetThread(ctx context.Context, id string) (model.Thread, bool, error)
	AppendConversation(ctx context.Context, threadID string, c model.Conversation) (model.Thread, error)
}

// Options configures a Server.
type Options struct {
	Addr      string
	Store     ThreadStore
	Responder Responder
	CORS      *CORSConfig
	Limiter   *RateLimiter
	Now       func() time.Time
}

// OptionsFromConfig fills Options from the [server] config section.
func OptionsFromConfig(cfg config.ServerConfig, store ThreadStore, responder Responder) Options {
	return Options{
		Addr:      cfg.Addr,
		Store:     store,
		Responder: responder,
		CORS:      NewCORSConfig(cfg.CORSOrigins),
		Limiter:   NewRateLimiter(cfg.RateLimitPerSec, cfg.RateLimitBurst),
	}
}

// Server is the development chat backend.
type Server struct {
	addr      string
	store     ThreadStore
	responder Responder
	now       func() time.Time

	router  *http.ServeMux
	handler http.Handler
	server  *http.Server
}

// NewServer creates a server. Store and Responder are required; the rest
// fall back to defaults.
func NewServer(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Responder == nil {
		opts.Responder = EchoResponder{}
	}
	if opts.CORS == nil {
		opts.CORS = DefaultCORSConfig()
	}
	if opts.Limiter == nil {
		opts.Limiter = NewRateLimiter(10, 20)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		addr:      opts.Addr,
		store:     opts.Store,
		responder: opts.Responder,
		now:       opts.Now,
		router:    http.NewServeMux(),
	}
	s.setupRoutes()

	s.handler = Chain(
		RequestIDMiddleware(),
		RecoveryMiddleware(),
		LoggingMiddleware(),
		CORSMiddleware(opts.CORS),
		RateLimitMiddleware(opts.Limiter),
	)(s.router)

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /history", s.handleHistory)
	s.router.HandleFunc("GET /chat", s.handleChat)
	s.router.HandleFunc("GET /health", s.handleHealth)
}

// ChatResponse is the body of a successful /chat.
type ChatResponse struct {
	Thread model.Thread `json:"thread"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Responder string `json:"responder"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	threads, err := s.store.ListThreads(r.Context())
	if err != nil {
		logger.Errorw("HISTORY_FAILED", "error", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	threadID := q.Get("threadId")
	prompt := q.Get("prompt")
	modelID := q.Get("model")

	if threadID == "" || prompt == "" {
		writeError(w, http.StatusBadRequest, "threadId and prompt are required")
		return
	}
	if len(prompt) > MaxPromptLength {
		writeError(w, http.StatusBadRequest, "prompt is too long")
		return
	}

	thread, _, err := s.store.GetThread(ctx, threadID)
	if err != nil {
		logger.Errorw("CHAT_LOAD_FAILED", "thread_id", threadID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load thread")
		return
	}

	reply, err := s.responder.Reply(ctx, thread.Conversations, prompt, modelID)
	if err != nil {
		logger.Warnw("RESPONDER_FAILED",
			"responder", s.responder.Name(),
			"thread_id", threadID,
			"error", err,
		)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	thread, err = s.store.AppendConversation(ctx, threadID, model.NewConversation(prompt, reply, s.now().UTC()))
	if err != nil {
		logger.Errorw("CHAT_SAVE_FAILED", "thread_id", threadID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save conversation")
		return
	}

	logger.Infow("CHAT_APPENDED",
		"thread_id", threadID,
		"conversations", thread.Len(),
		"model", modelID,
	)
	writeJSON(w, http.StatusOK, ChatResponse{Thread: thread})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   Version,
		Responder: s.responder.Name(),
	})
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Serve serves on ln until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Serve(ln net.Listener) error {
	logger.Infow("SERVER_START", "addr", ln.Addr().String(), "responder", s.responder.Name(), "version", Version)
	if err := s.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Infow("SERVER_SHUTDOWN")
	return s.server.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// ============================================================================
// HELPERS
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnw("RESPONSE_ENCODE_FAILED", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
