// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a thread to a standalone file.
//
// # Supported Formats
//
//   - Markdown: transcript with YAML frontmatter
//   - HTML: self-contained page with embedded CSS
//   - JSON: the thread exactly as the backend returns it
//
// # Usage
//
//	exporter, err := export.New(export.FormatMarkdown, nil)
//	if err != nil {
//	    return err
//	}
//	path, err := export.ExportToFile(thread, exporter, &export.Options{OutputDir: "."})
package export
