// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists threads for the development backend.
//
// Threads and their conversations live in a SQLite database opened through
// the pure Go modernc.org/sqlite driver, so no cgo toolchain is needed.
//
// # Key Types
//
//   - ThreadStore: the database handle
//
// # Usage
//
//	ts, err := storage.Open(path)
//	defer ts.Close()
//	thread, err := ts.AppendConversation(ctx, "chat-1", conv)
//	threads, err := ts.ListThreads(ctx)
//
// # Storage Location
//
// The database defaults to ~/.threadchat/backend.db (server.db_path).
package storage
