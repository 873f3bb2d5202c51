// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/aurora-chat/internal/commands"
	"github.com/jeranaias/aurora-chat/internal/exchange"
	"github.com/jeranaias/aurora-chat/internal/model"
	"github.com/jeranaias/aurora-chat/internal/session"
)

// =============================================================================
// CONTROLLER CALLBACK MESSAGES
// =============================================================================

// NoticeMsg shows a transient notification.
type NoticeMsg struct {
	Kind exchange.NoticeKind
	Text string
}

// ClearInputMsg empties the message input.
type ClearInputMsg struct{}

// SubmitEnabledMsg toggles the send action.
type SubmitEnabledMsg struct {
	Enabled bool
}

// ShowMessageMsg appends a finished message to the transcript.
type ShowMessageMsg struct {
	ID      string
	Message model.Message
}

// PlaceholderMsg appends a pending assistant slot for an exchange.
type PlaceholderMsg struct {
	ID   string
	Text string
}

// ResolveMsg replaces an exchange's placeholder with its outcome.
type ResolveMsg struct {
	ID     string
	Text   string
	Failed bool
}

// ModelMsg updates the model shown in the header.
type ModelMsg struct {
	Model string
}

// =============================================================================
// COMMAND COMPLETION MESSAGES
// =============================================================================

// BootstrappedMsg signals that session and history have been hydrated.
type BootstrappedMsg struct {
	Session session.Session
}

// ExchangeDoneMsg signals that an exchange finished.
type ExchangeDoneMsg struct {
	Result exchange.Result
	Err    error
}

// CommandDoneMsg carries the outcome of a slash command.
type CommandDoneMsg struct {
	// Name is the canonical command name, empty if unknown.
	Name   string
	Result commands.Result
	Err    error
}
