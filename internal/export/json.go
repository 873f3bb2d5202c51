// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/aurora-chat/internal/model"
)

// document is the structured export shape shared by JSON and YAML.
type document struct {
	Meta     Meta            `json:"meta" yaml:"meta"`
	Messages []model.Message `json:"messages" yaml:"messages"`
}

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports conversations to JSON.
// Messages keep the persisted {role, content} shape so the output can be
// fed back as history.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a conversation to indented JSON.
func (e *JSONExporter) Export(messages []model.Message, meta Meta) ([]byte, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyConversation
	}
	return json.MarshalIndent(document{Meta: meta.withDefaults(), Messages: messages}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
