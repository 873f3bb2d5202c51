// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aurora-chat/internal/model"
	"github.com/jeranaias/aurora-chat/internal/ui/notify"
	"github.com/jeranaias/aurora-chat/internal/ui/styles"
	"github.com/jeranaias/aurora-chat/internal/util"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the complete chat view.
// Layout: header (1 line) + transcript (viewport) + input (3 lines) + status (1 line)
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatusBar(),
	)

	toasts := m.toasts.Toasts()
	if len(toasts) == 0 {
		return base
	}
	return m.overlayToasts(base, notify.RenderStack(toasts, 0))
}

// refresh re-renders the transcript into the viewport and follows the tail.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// overlayToasts draws toasts over the top-right corner of the transcript.
func (m Model) overlayToasts(baseView, toastView string) string {
	baseLines := strings.Split(baseView, "\n")
	toastLines := strings.Split(toastView, "\n")

	startRow := headerHeight
	for i, toastLine := range toastLines {
		row := startRow + i
		if row >= len(baseLines) {
			break
		}
		toastWidth := lipgloss.Width(toastLine)
		cut := m.width - toastWidth - 1
		if cut < 0 {
			cut = 0
		}

		baseLine := baseLines[row]
		if w := lipgloss.Width(baseLine); w > cut {
			baseLine = lipgloss.NewStyle().MaxWidth(cut).Render(baseLine)
		} else {
			baseLine += strings.Repeat(" ", cut-w)
		}
		baseLines[row] = baseLine + " " + toastLine
	}
	return strings.Join(baseLines, "\n")
}

// =============================================================================
// HEADER
// =============================================================================

// maxModelWidth bounds the model name shown in the header.
const maxModelWidth = 32

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("Aurora")

	var provider string
	if p, ok := m.ctrl.Provider(); ok {
		style := m.theme.ProviderRemote
		if p.IsLocal() {
			style = m.theme.ProviderLocal
		}
		label := p.Label
		if label == "" {
			label = p.ID
		}
		provider = style.Render(label)
	} else {
		provider = m.theme.Hint.Render("no provider")
	}

	modelName := m.modelName
	if modelName == "" {
		modelName = "no model"
	}
	modelName = util.TruncateWidth(modelName, maxModelWidth)

	content := title + "  " + provider + m.theme.HeaderSubtitle.Render("  "+modelName)
	return m.theme.Header.Width(m.width).MaxHeight(headerHeight).Render(content)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func (m Model) renderTranscript() string {
	if len(m.entries) == 0 {
		return m.renderEmptyState()
	}

	blocks := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		blocks = append(blocks, m.renderEntry(e))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderEntry(e entry) string {
	switch e.kind {
	case entryPending:
		return m.theme.AssistantLabel.Render(model.RoleAssistant.DisplayName()) + "\n" +
			m.theme.Placeholder.Render(m.spinner.View()+" "+e.content)

	case entryFailed:
		return m.theme.AssistantLabel.Render(model.RoleAssistant.DisplayName()) + "\n" +
			m.theme.FailedReply.Render(styles.StatusIndicators.Error+" "+e.content)

	case entryNote:
		return m.theme.Hint.Render(e.content)

	default:
		if e.role == model.RoleUser {
			return m.theme.UserLabel.Render(e.role.DisplayName()) + "\n" +
				m.theme.MessageBody.Width(m.bodyWidth()).Render(e.content)
		}
		return m.theme.AssistantLabel.Render(e.role.DisplayName()) + "\n" + m.renderAssistantBody(e.content)
	}
}

// renderAssistantBody renders markdown when a renderer is configured.
func (m Model) renderAssistantBody(content string) string {
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(content); err == nil {
			return strings.Trim(rendered, "\n")
		}
	}
	return m.theme.MessageBody.Width(m.bodyWidth()).Render(content)
}

func (m Model) renderEmptyState() string {
	lines := []string{
		m.theme.HeaderTitle.Render("Start a conversation"),
		"",
		m.theme.Hint.Render("Type a message and press Enter."),
		m.theme.Hint.Render("/providers lists providers, /provider <id> switches, /help shows all commands."),
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func (m Model) bodyWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// =============================================================================
// INPUT AND STATUS
// =============================================================================

func (m Model) renderInput() string {
	style := m.theme.InputContainer
	if !m.submitEnabled {
		style = m.theme.InputDisabled
	}
	return style.Width(m.width - 2).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	var hints []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}

	status := strings.Join(hints, "  ")
	if !m.submitEnabled {
		status = m.spinner.View() + " waiting for reply  " + status
	}
	return m.theme.StatusBar.Width(m.width).MaxHeight(statusBarHeight).Render(status)
}
