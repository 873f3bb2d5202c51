// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aurora-chat/internal/exchange"
	"github.com/jeranaias/aurora-chat/internal/ui/styles"
)

// init matches lipgloss to what stdout can display.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	noteStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	successStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	warningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)
)

// noticeTag renders the bracketed severity prefix of a notification.
func noticeTag(kind exchange.NoticeKind) string {
	switch kind {
	case exchange.NoticeSuccess:
		return successStyle.Render("[OK]")
	case exchange.NoticeWarning:
		return warningStyle.Render("[WARN]")
	case exchange.NoticeError:
		return errorStyle.Render("[Error]")
	default:
		return noteStyle.Render("[Info]")
	}
}
