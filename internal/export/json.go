// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/threadchat/internal/model"
)

// JSONExporter writes the thread in the backend wire shape, so the file can
// be read back with the same decoder. Options do not filter JSON output.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	return &JSONExporter{options: opts.normalize()}
}

// Export converts a thread to indented JSON. Empty threads are allowed.
func (e *JSONExporter) Export(thread model.Thread) ([]byte, error) {
	out, err := json.MarshalIndent(thread.Clone(), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
