// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama is a small non-streaming client for a local Ollama server.
//
// The development backend uses it to answer chat prompts with a real model:
//
//	client := ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: url})
//	resp, err := client.Chat(ctx, "llama3.2", []ollama.Message{
//	    ollama.NewUserMessage("hi"),
//	})
//
// Errors are *ClientError values; use IsNotRunning, IsTimeout and
// IsModelNotFound to classify them.
package ollama
