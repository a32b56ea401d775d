// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the threadchat command tree.
//
// Usage:
//
//	threadchat                          Start the TUI (default)
//	threadchat ask [--thread ID] TEXT   Send one prompt and print the reply
//	threadchat history [ID] [--json]    List threads or print one transcript
//	threadchat export ID [-f md]        Write one thread to a file
//	threadchat repl [--thread ID]       Line-mode chat with input history (--model ID)
//	threadchat serve                    Run the development backend
//	threadchat config show|get|set|path Inspect or edit the config file
//
// Global flags:
//
//	--config PATH      Config file (default ~/.threadchat/config.toml)
//	--backend URL      Override backend.url
//	--log-level LEVEL  Override log.level
package cli
