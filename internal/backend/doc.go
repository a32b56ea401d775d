// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend is the HTTP client for the chat backend.
//
// The backend exposes two endpoints:
//
//	GET /history                          -> [Thread, ...]
//	GET /chat?threadId=<id>&prompt=<text> -> {"thread": Thread} | {"error": "..."}
//
// # Error Handling
//
// Every failure is a *ClientError. Only ErrTypeBackend errors are meant
// for the user (see AlertMessage); transport failures, timeouts and
// malformed bodies are logged and otherwise dropped.
//
//	thread, err := client.Chat(ctx, req)
//	if msg := backend.AlertMessage(err); msg != "" {
//	    showAlert(msg)
//	}
package backend
