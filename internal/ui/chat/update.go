// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/aurora-chat/internal/commands"
	"github.com/jeranaias/aurora-chat/internal/model"
	"github.com/jeranaias/aurora-chat/internal/ui/notify"
)

// Fixed heights of the chrome around the transcript.
const (
	headerHeight    = 1
	inputAreaHeight = 3
	statusBarHeight = 1
)

// Update handles all Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	// Controller callbacks
	case NoticeMsg:
		return m, m.notice(noticeKind(msg.Kind), msg.Text)

	case ClearInputMsg:
		m.input.Reset()
		return m, nil

	case SubmitEnabledMsg:
		m.submitEnabled = msg.Enabled
		return m, nil

	case ShowMessageMsg:
		m.entries = append(m.entries, entry{id: msg.ID, kind: entryMessage, role: msg.Message.Role, content: msg.Message.Content})
		m.refresh()
		return m, nil

	case PlaceholderMsg:
		m.entries = append(m.entries, entry{id: msg.ID, kind: entryPending, content: msg.Text})
		m.refresh()
		if m.spinning {
			return m, nil
		}
		m.spinning = true
		return m, m.spinner.Tick

	case ResolveMsg:
		m.resolve(msg)
		m.refresh()
		return m, nil

	case ModelMsg:
		m.modelName = msg.Model
		return m, nil

	// Command completions
	case BootstrappedMsg:
		m.bootstrapped = true
		m.modelName = msg.Session.Model
		return m, nil

	case ExchangeDoneMsg:
		m.submitEnabled = true
		return m, nil

	case CommandDoneMsg:
		return m.handleCommandDone(msg)

	// Timers
	case notify.TickMsg:
		if len(m.toasts.Tick()) == 0 {
			m.toastTicking = false
			return m, nil
		}
		return m, notify.TickCmd()

	case spinner.TickMsg:
		if !m.hasPending() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Complete):
		if lines := m.completer.Lines(m.input.Value()); len(lines) > 0 {
			m.input.SetValue(lines[0])
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit routes the input to a slash command or an exchange.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()

	if commands.IsCommand(text) {
		m.input.Reset()
		return m, m.commandCmd(text)
	}

	if !m.submitEnabled || !m.bootstrapped {
		return m, nil
	}
	// Guard against a second Enter before the controller disables submit.
	if strings.TrimSpace(text) != "" {
		m.submitEnabled = false
	}
	return m, m.sendCmd(text)
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	viewportHeight := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(m.width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = viewportHeight
	}
	m.input.Width = m.width - 6
	m.refresh()
	return m
}

func (m Model) handleCommandDone(msg CommandDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if commands.Reported(msg.Err) {
			return m, nil
		}
		m.logger.Debug("command failed", zap.String("command", msg.Name), zap.Error(msg.Err))
		return m, m.notice(notify.KindError, msg.Err.Error())
	}

	if msg.Result.Quit {
		return m, tea.Quit
	}

	if msg.Name == "/clear" {
		m.entries = nil
	}
	if msg.Result.Output != "" {
		m.entries = append(m.entries, entry{kind: entryNote, content: msg.Result.Output})
	}
	m.refresh()
	return m, nil
}

// resolve settles the placeholder belonging to msg.ID.
func (m *Model) resolve(msg ResolveMsg) {
	for i := range m.entries {
		e := &m.entries[i]
		if e.id != msg.ID || e.kind != entryPending {
			continue
		}
		e.content = msg.Text
		if msg.Failed {
			e.kind = entryFailed
		} else {
			e.kind = entryMessage
			e.role = model.RoleAssistant
		}
		return
	}
}
