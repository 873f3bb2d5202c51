// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/jeranaias/aurora-chat/internal/commands"
	"github.com/jeranaias/aurora-chat/internal/exchange"
	"github.com/jeranaias/aurora-chat/internal/model"
	"github.com/jeranaias/aurora-chat/internal/ui/notify"
	"github.com/jeranaias/aurora-chat/internal/ui/styles"
)

// =============================================================================
// TRANSCRIPT ENTRIES
// =============================================================================

// entryKind distinguishes transcript rows.
type entryKind int

const (
	entryMessage entryKind = iota // user or assistant message
	entryPending                  // placeholder awaiting its exchange
	entryFailed                   // placeholder resolved with an error
	entryNote                     // local command output, not part of the log
)

// entry is one row of the transcript.
type entry struct {
	id      string
	kind    entryKind
	role    model.Role
	content string
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Options configures New.
type Options struct {
	// Controller runs exchanges and session edits. Required.
	Controller *exchange.Controller

	// Theme defaults to styles.NewTheme().
	Theme *styles.Theme

	// ToastDuration defaults to notify.DefaultDuration.
	ToastDuration time.Duration

	// Markdown renders assistant replies with glamour.
	Markdown bool

	// WordWrap is the markdown wrap width (default 80).
	WordWrap int

	// ExportDir is where /export writes files.
	ExportDir string

	Logger *zap.Logger
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	ctx       context.Context
	ctrl      *exchange.Controller
	parser    *commands.Parser
	completer *commands.Completer
	exportDir string
	logger    *zap.Logger

	// Styling
	theme    *styles.Theme
	keys     KeyMap
	renderer *glamour.TermRenderer

	// Dimensions
	width  int
	height int
	ready  bool

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	toasts   *notify.Manager

	// Transcript
	entries []entry

	// State
	submitEnabled bool
	bootstrapped  bool
	modelName     string
	spinning      bool
	toastTicking  bool
}

// New creates a chat model.
func New(ctx context.Context, opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "Type a message or /help"
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Placeholder.PaddingLeft(0)

	registry := commands.NewRegistry()
	completer := commands.NewCompleter(registry)
	if opts.Controller != nil {
		ctrl := opts.Controller
		completer.ProvidersFn = func() []string {
			ids := make([]string, 0)
			for _, p := range ctrl.Providers() {
				ids = append(ids, p.ID)
			}
			return ids
		}
	}

	var renderer *glamour.TermRenderer
	if opts.Markdown {
		wrap := opts.WordWrap
		if wrap <= 0 {
			wrap = 80
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			logger.Warn("markdown renderer unavailable", zap.Error(err))
		} else {
			renderer = r
		}
	}

	return Model{
		ctx:           ctx,
		ctrl:          opts.Controller,
		parser:        commands.NewParser(registry),
		completer:     completer,
		exportDir:     opts.ExportDir,
		logger:        logger,
		theme:         theme,
		keys:          DefaultKeyMap(),
		renderer:      renderer,
		input:         input,
		spinner:       spin,
		toasts:        notify.NewManager(opts.ToastDuration),
		submitEnabled: true,
	}
}

// Init starts the cursor blink and hydrates session and history.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.bootstrapCmd())
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) bootstrapCmd() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return BootstrappedMsg{Session: ctrl.Bootstrap(ctx)}
	}
}

func (m Model) sendCmd(text string) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		res, err := ctrl.Send(ctx, text)
		return ExchangeDoneMsg{Result: res, Err: err}
	}
}

func (m Model) commandCmd(text string) tea.Cmd {
	name := ""
	if parsed := m.parser.Parse(text); parsed.Command != nil {
		name = parsed.Command.Name
	}

	parser := m.parser
	cctx := &commands.Context{Ctx: m.ctx, Controller: m.ctrl, ExportDir: m.exportDir}
	return func() tea.Msg {
		res, err := parser.Execute(cctx, text)
		return CommandDoneMsg{Name: name, Result: res, Err: err}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// noticeKind maps controller severities onto toast kinds.
func noticeKind(k exchange.NoticeKind) notify.Kind {
	switch k {
	case exchange.NoticeSuccess:
		return notify.KindSuccess
	case exchange.NoticeWarning:
		return notify.KindWarning
	case exchange.NoticeError:
		return notify.KindError
	default:
		return notify.KindInfo
	}
}

func (m *Model) hasPending() bool {
	for _, e := range m.entries {
		if e.kind == entryPending {
			return true
		}
	}
	return false
}

// notice adds a toast and starts the expiry ticker if it is idle.
func (m *Model) notice(kind notify.Kind, text string) tea.Cmd {
	m.toasts.Add(kind, text)
	if m.toastTicking {
		return nil
	}
	m.toastTicking = true
	return notify.TickCmd()
}
