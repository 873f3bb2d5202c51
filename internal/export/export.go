// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/aurora-chat/internal/model"
	"github.com/jeranaias/aurora-chat/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for conversation exporters.
type Exporter interface {
	// Export converts a conversation to the target format and returns the content.
	Export(messages []model.Message, meta Meta) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// ErrEmptyConversation is returned when there is nothing to export.
var ErrEmptyConversation = errors.New("conversation has no messages")

// Meta describes the session a conversation was held in.
type Meta struct {
	Title      string    `json:"title" yaml:"title"`
	Provider   string    `json:"provider" yaml:"provider"`
	Model      string    `json:"model" yaml:"model"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
}

// withDefaults fills an empty title and timestamp.
func (m Meta) withDefaults() Meta {
	if strings.TrimSpace(m.Title) == "" {
		m.Title = "Aurora conversation"
	}
	if m.ExportedAt.IsZero() {
		m.ExportedAt = time.Now()
	}
	return m
}

// =============================================================================
// FORMATS
// =============================================================================

// Supported format names.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Formats lists the supported format names.
var Formats = []string{FormatMarkdown, FormatJSON, FormatYAML}

// ForFormat returns the exporter for a format name or common alias.
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatMarkdown, "md", "":
		return NewMarkdownExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatYAML, "yml":
		return NewYAMLExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ToFile exports a conversation into dir and returns the output file path.
// An empty dir means the current working directory.
func ToFile(messages []model.Message, meta Meta, exporter Exporter, dir string) (string, error) {
	meta = meta.withDefaults()

	content, err := exporter.Export(messages, meta)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if dir == "" {
		dir = "."
	}
	filename := fmt.Sprintf("aurora_%s_%s%s",
		sanitizeFilename(meta.Title),
		meta.ExportedAt.Format("20060102_150405"),
		exporter.FileExtension(),
	)
	outputPath := filepath.Join(dir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	runes := []rune(util.NormalizeNFC(s))
	if len(runes) > 50 {
		runes = runes[:50]
	}

	result := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result = append(result, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "conversation"
	}
	return string(result)
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
