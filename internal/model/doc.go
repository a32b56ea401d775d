// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the client, the
// command line and the development backend.
//
// # Key Types
//
//   - Thread: a conversation session identified by a unique string, holding
//     an ordered sequence of conversations
//   - Conversation: one prompt and its (possibly pending) response
//   - Timestamp: a lenient createdAt value that survives round trips
//   - ModelInfo: an entry of the static model catalog
//
// # Usage
//
// Decode a history payload and display a sidebar entry:
//
//	var threads []model.Thread
//	if err := json.Unmarshal(body, &threads); err != nil {
//	    return err
//	}
//	fmt.Println(threads[0].Title(), threads[0].DateLabel())
package model
