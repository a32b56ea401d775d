// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server is the development backend the chat client talks to.
//
// Endpoints:
//   - GET /history                          - every thread in creation order
//   - GET /chat?threadId=&prompt=[&model=]  - append a reply to a thread
//   - GET /health                           - liveness
//
// Threads are kept in a sqlite database (see internal/storage). Replies come
// from a Responder: EchoResponder for deterministic local testing, or
// OllamaResponder backed by a local Ollama server.
//
// Requests pass through request id, panic recovery, access logging, CORS
// and per-client rate limiting, in that order.
package server
