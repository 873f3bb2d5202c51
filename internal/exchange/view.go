// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import "github.com/jeranaias/aurora-chat/internal/model"

// =============================================================================
// NOTICES
// =============================================================================

// NoticeKind is the severity of a user-visible notification.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeWarning
	NoticeError
)

// String returns the notice kind name.
func (k NoticeKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeWarning:
		return "warning"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// User-facing notification texts.
const (
	TextSessionUpdated    = "Session updated"
	TextChatCleared       = "Chat cleared"
	TextSelectProvider    = "Select a provider first"
	TextEmptyMessage      = "Type a message first"
	TextLocalHostDown     = "Could not reach your local model host"
	TextLocalKeyNotNeeded = "Local providers do not require API keys"
	TextPlaceholder       = "Thinking…"
)

// =============================================================================
// VIEW
// =============================================================================

// View receives render callbacks from the controller.
//
// Calls may arrive from exchange goroutines; implementations must be safe
// for concurrent use. Placeholder calls carry the exchange id so each
// exchange resolves only its own slot.
type View interface {
	Notify(kind NoticeKind, text string)
	ClearInput()
	SetSubmitEnabled(enabled bool)
	ShowMessage(id string, msg model.Message)
	ShowPlaceholder(id string, text string)
	ResolvePlaceholder(id string, text string, failed bool)
	SetModel(model string)
}

// NopView discards every callback.
type NopView struct{}

func (NopView) Notify(NoticeKind, string)               {}
func (NopView) ClearInput()                             {}
func (NopView) SetSubmitEnabled(bool)                   {}
func (NopView) ShowMessage(string, model.Message)       {}
func (NopView) ShowPlaceholder(string, string)          {}
func (NopView) ResolvePlaceholder(string, string, bool) {}
func (NopView) SetModel(string)                         {}
