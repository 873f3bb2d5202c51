// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aurora-chat/internal/exchange"
	"github.com/jeranaias/aurora-chat/internal/model"
)

// =============================================================================
// PROGRAM VIEW
// =============================================================================

// ProgramView implements exchange.View by posting messages into a running
// Bubble Tea program.
//
// Send blocks until the program reads the message, so controller calls that
// render must run inside a tea.Cmd, never inside Update.
type ProgramView struct {
	send func(tea.Msg)
}

// NewProgramView creates a view that posts through send (usually
// (*tea.Program).Send).
func NewProgramView(send func(tea.Msg)) *ProgramView {
	return &ProgramView{send: send}
}

var _ exchange.View = (*ProgramView)(nil)

func (v *ProgramView) Notify(kind exchange.NoticeKind, text string) {
	v.send(NoticeMsg{Kind: kind, Text: text})
}

func (v *ProgramView) ClearInput() {
	v.send(ClearInputMsg{})
}

func (v *ProgramView) SetSubmitEnabled(enabled bool) {
	v.send(SubmitEnabledMsg{Enabled: enabled})
}

func (v *ProgramView) ShowMessage(id string, msg model.Message) {
	v.send(ShowMessageMsg{ID: id, Message: msg})
}

func (v *ProgramView) ShowPlaceholder(id, text string) {
	v.send(PlaceholderMsg{ID: id, Text: text})
}

func (v *ProgramView) ResolvePlaceholder(id, text string, failed bool) {
	v.send(ResolveMsg{ID: id, Text: text, Failed: failed})
}

func (v *ProgramView) SetModel(model string) {
	v.send(ModelMsg{Model: model})
}
