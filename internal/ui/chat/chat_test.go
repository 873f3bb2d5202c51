// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"net/http"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aurora-chat/internal/api"
	"github.com/jeranaias/aurora-chat/internal/app"
	"github.com/jeranaias/aurora-chat/internal/commands"
	"github.com/jeranaias/aurora-chat/internal/config"
	"github.com/jeranaias/aurora-chat/internal/exchange"
	"github.com/jeranaias/aurora-chat/internal/model"
	"github.com/jeranaias/aurora-chat/internal/storage"
	"github.com/jeranaias/aurora-chat/internal/testutil"
	"github.com/jeranaias/aurora-chat/internal/ui/notify"
	"github.com/jeranaias/aurora-chat/internal/ui/styles"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

// mailbox stands in for the program's message channel.
type mailbox struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (b *mailbox) send(msg tea.Msg) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, msg)
}

func (b *mailbox) drain() []tea.Msg {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.msgs
	b.msgs = nil
	return out
}

type harness struct {
	app     *app.App
	backend *testutil.Backend
	box     *mailbox
	m       Model
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := testutil.NewBackend(t)
	cfg := config.Default()
	cfg.APIBaseURL = backend.URL()
	cfg.Storage.Backend = storage.BackendMemory

	a, err := app.New(context.Background(), app.Options{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	box := &mailbox{}
	a.Controller.SetView(NewProgramView(box.send))

	h := &harness{
		app:     a,
		backend: backend,
		box:     box,
		m: New(context.Background(), Options{
			Controller: a.Controller,
			Theme:      styles.NewTheme(),
			ExportDir:  t.TempDir(),
		}),
	}
	h.apply(tea.WindowSizeMsg{Width: 100, Height: 30})
	h.run(h.m.bootstrapCmd())
	return h
}

// apply feeds messages through Update, discarding follow-up commands.
func (h *harness) apply(msgs ...tea.Msg) tea.Cmd {
	var last tea.Cmd
	for _, msg := range msgs {
		next, cmd := h.m.Update(msg)
		h.m = next.(Model)
		last = cmd
	}
	return last
}

// run executes cmd as the program would: the view callbacks it posted are
// delivered first, then its result.
func (h *harness) run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	result := cmd()
	h.apply(h.box.drain()...)
	h.apply(result)
	return result
}

func (h *harness) typeAndSubmit(text string) tea.Cmd {
	h.m.input.SetValue(text)
	return h.apply(tea.KeyMsg{Type: tea.KeyEnter})
}

func (h *harness) transcript() []entry {
	return h.m.entries
}

// =============================================================================
// EXCHANGE FLOW
// =============================================================================

func TestSubmit_DeliveredExchange(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.m.bootstrapped)

	cmd := h.typeAndSubmit("hello")
	require.NotNil(t, cmd)
	assert.False(t, h.m.submitEnabled, "submit should be held while the exchange is in flight")

	msg := h.run(cmd)
	done, ok := msg.(ExchangeDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	entries := h.transcript()
	require.Len(t, entries, 2)
	assert.Equal(t, model.RoleUser, entries[0].role)
	assert.Equal(t, "hello", entries[0].content)
	assert.Equal(t, entryMessage, entries[1].kind)
	assert.Equal(t, model.RoleAssistant, entries[1].role)
	assert.Equal(t, "echo: hello", entries[1].content)

	assert.Empty(t, h.m.input.Value())
	assert.True(t, h.m.submitEnabled)
	assert.Contains(t, h.m.View(), "echo: hello")
}

func TestSubmit_FailedExchange(t *testing.T) {
	h := newHarness(t)
	h.backend.OnChat(func(api.ChatRequest) testutil.Reply {
		return testutil.ErrorReply(http.StatusBadGateway, "upstream unavailable")
	})

	msg := h.run(h.typeAndSubmit("hello"))
	done := msg.(ExchangeDoneMsg)
	require.Error(t, done.Err)

	entries := h.transcript()
	require.Len(t, entries, 2)
	assert.Equal(t, entryFailed, entries[1].kind)
	assert.Equal(t, "Error: upstream unavailable", entries[1].content)
	assert.True(t, h.m.submitEnabled)
}

func TestSubmit_BlankInputWarns(t *testing.T) {
	h := newHarness(t)

	cmd := h.typeAndSubmit("   ")
	require.NotNil(t, cmd)
	assert.True(t, h.m.submitEnabled)

	h.run(cmd)
	assert.Empty(t, h.transcript())
	require.Equal(t, 1, h.m.toasts.Len())
	assert.Equal(t, exchange.TextEmptyMessage, h.m.toasts.Toasts()[0].Message)
	assert.Empty(t, h.backend.ChatCalls())
}

func TestSubmit_HeldWhileDisabled(t *testing.T) {
	h := newHarness(t)
	h.apply(SubmitEnabledMsg{Enabled: false})

	cmd := h.typeAndSubmit("hello")
	assert.Nil(t, cmd)
	assert.Equal(t, "hello", h.m.input.Value())
}

func TestSubmit_HeldBeforeBootstrap(t *testing.T) {
	h := newHarness(t)
	h.m.bootstrapped = false

	assert.Nil(t, h.typeAndSubmit("hello"))
}

// =============================================================================
// PLACEHOLDERS
// =============================================================================

func TestPlaceholders_ResolvedByID(t *testing.T) {
	h := newHarness(t)

	cmd := h.apply(
		PlaceholderMsg{ID: "a", Text: exchange.TextPlaceholder},
		PlaceholderMsg{ID: "b", Text: exchange.TextPlaceholder},
	)
	assert.Nil(t, cmd, "spinner should already be running")
	assert.True(t, h.m.spinning)

	h.apply(ResolveMsg{ID: "b", Text: "second"})
	h.apply(ResolveMsg{ID: "a", Text: "boom", Failed: true})

	entries := h.transcript()
	require.Len(t, entries, 2)
	assert.Equal(t, entryFailed, entries[0].kind)
	assert.Equal(t, "boom", entries[0].content)
	assert.Equal(t, entryMessage, entries[1].kind)
	assert.Equal(t, model.RoleAssistant, entries[1].role)
	assert.Equal(t, "second", entries[1].content)
}

func TestPlaceholders_UnknownIDIgnored(t *testing.T) {
	h := newHarness(t)
	h.apply(PlaceholderMsg{ID: "a", Text: "…"})
	h.apply(ResolveMsg{ID: "zzz", Text: "stray"})

	require.Len(t, h.transcript(), 1)
	assert.Equal(t, entryPending, h.transcript()[0].kind)
}

func TestSpinner_StopsWithoutPending(t *testing.T) {
	h := newHarness(t)
	h.apply(PlaceholderMsg{ID: "a", Text: "…"}, ResolveMsg{ID: "a", Text: "done"})

	cmd := h.apply(h.m.spinner.Tick())
	assert.Nil(t, cmd)
	assert.False(t, h.m.spinning)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func TestCommand_OutputIsNoted(t *testing.T) {
	h := newHarness(t)

	cmd := h.typeAndSubmit("/temp 0.3")
	assert.Empty(t, h.m.input.Value())

	msg := h.run(cmd)
	done := msg.(CommandDoneMsg)
	require.NoError(t, done.Err)
	assert.Equal(t, "/temp", done.Name)

	entries := h.transcript()
	require.Len(t, entries, 1)
	assert.Equal(t, entryNote, entries[0].kind)
	assert.Equal(t, "Temperature: 0.3", entries[0].content)
	assert.InDelta(t, 0.3, h.app.Sessions.Current().Temperature, 1e-9)
}

func TestCommand_ClearResetsTranscript(t *testing.T) {
	h := newHarness(t)
	h.run(h.typeAndSubmit("hello"))
	require.Len(t, h.transcript(), 2)

	h.run(h.typeAndSubmit("/clear"))

	assert.Empty(t, h.transcript())
	assert.Zero(t, h.app.Log.Len())
	require.Equal(t, 1, h.m.toasts.Len())
	assert.Equal(t, exchange.TextChatCleared, h.m.toasts.Toasts()[0].Message)
}

func TestCommand_UnknownShowsError(t *testing.T) {
	h := newHarness(t)
	h.run(h.typeAndSubmit("/frobnicate"))

	assert.Empty(t, h.transcript())
	require.Equal(t, 1, h.m.toasts.Len())
	toast := h.m.toasts.Toasts()[0]
	assert.Equal(t, notify.KindError, toast.Kind)
	assert.Contains(t, toast.Message, "frobnicate")
}

func TestCommand_ReportedErrorNotDuplicated(t *testing.T) {
	h := newHarness(t)
	h.run(h.typeAndSubmit("/provider nope"))

	// Only the controller's own warning is shown.
	require.Equal(t, 1, h.m.toasts.Len())
	assert.Equal(t, notify.KindWarning, h.m.toasts.Toasts()[0].Kind)
	assert.Equal(t, "openrouter", h.app.Sessions.Current().Provider)
}

func TestCommand_Quit(t *testing.T) {
	h := newHarness(t)

	cmd := h.apply(CommandDoneMsg{Name: "/quit", Result: commands.Result{Quit: true}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

// =============================================================================
// KEYS AND RENDERING
// =============================================================================

func TestTabCompletesCommand(t *testing.T) {
	h := newHarness(t)
	h.m.input.SetValue("/prov")

	h.apply(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "/provider", h.m.input.Value())
}

func TestCtrlCQuits(t *testing.T) {
	h := newHarness(t)

	_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestView_LoadingBeforeResize(t *testing.T) {
	m := New(context.Background(), Options{Theme: styles.NewTheme()})
	assert.Equal(t, "Loading...", m.View())
}

func TestView_ShowsToastAndModel(t *testing.T) {
	h := newHarness(t)
	h.apply(ModelMsg{Model: "gpt-test"}, NoticeMsg{Kind: exchange.NoticeSuccess, Text: "Session updated"})

	view := h.m.View()
	assert.Contains(t, view, "gpt-test")
	assert.Contains(t, view, "Session updated")
}

// =============================================================================
// PROGRAM VIEW
// =============================================================================

func TestProgramView_PostsMessages(t *testing.T) {
	box := &mailbox{}
	v := NewProgramView(box.send)

	v.Notify(exchange.NoticeWarning, "careful")
	v.ClearInput()
	v.SetSubmitEnabled(false)
	v.ShowMessage("1", model.NewUserMessage("hi"))
	v.ShowPlaceholder("1", "…")
	v.ResolvePlaceholder("1", "hello", false)
	v.SetModel("m")

	assert.Equal(t, []tea.Msg{
		NoticeMsg{Kind: exchange.NoticeWarning, Text: "careful"},
		ClearInputMsg{},
		SubmitEnabledMsg{Enabled: false},
		ShowMessageMsg{ID: "1", Message: model.NewUserMessage("hi")},
		PlaceholderMsg{ID: "1", Text: "…"},
		ResolveMsg{ID: "1", Text: "hello"},
		ModelMsg{Model: "m"},
	}, box.drain())
}
