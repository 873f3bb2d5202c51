// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// newMarkdownRenderer returns a function that renders assistant replies for
// the terminal. Piped output and renderer failures get the raw text.
func newMarkdownRenderer(enabled bool, wrap int) func(string) string {
	plain := func(s string) string { return s }
	if !enabled || !IsStdoutTTY() {
		return plain
	}

	if wrap <= 0 {
		wrap = GetTerminalWidth()
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return plain
	}

	return func(content string) string {
		rendered, err := renderer.Render(content)
		if err != nil {
			return content
		}
		return strings.Trim(rendered, "\n")
	}
}
