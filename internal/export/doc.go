// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes the conversation log to shareable files.
//
// # Key Types
//
//   - Exporter: format-specific encoder
//   - Meta: session details written alongside the messages
//
// # Supported Formats
//
//   - Markdown: human-readable, with YAML frontmatter
//   - JSON: {meta, messages}; messages keep the persisted shape
//   - YAML: same document as JSON
//
// # Usage
//
//	exporter, err := export.ForFormat("markdown")
//	path, err := export.ToFile(log.All(), export.Meta{Provider: "openrouter"}, exporter, ".")
package export
