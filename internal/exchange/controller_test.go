// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aurora-chat/internal/api"
	"github.com/jeranaias/aurora-chat/internal/model"
	"github.com/jeranaias/aurora-chat/internal/provider"
	"github.com/jeranaias/aurora-chat/internal/session"
	"github.com/jeranaias/aurora-chat/internal/storage"
	"github.com/jeranaias/aurora-chat/internal/testutil"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

type notice struct {
	Kind NoticeKind
	Text string
}

// recordingView captures every callback.
type recordingView struct {
	mu           sync.Mutex
	notices      []notice
	messages     []model.Message
	placeholders map[string]string
	failed       map[string]bool
	submitStates []bool
	cleared      int
	model        string
}

func newRecordingView() *recordingView {
	return &recordingView{placeholders: map[string]string{}, failed: map[string]bool{}}
}

func (v *recordingView) Notify(kind NoticeKind, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, notice{kind, text})
}

func (v *recordingView) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cleared++
}

func (v *recordingView) SetSubmitEnabled(enabled bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.submitStates = append(v.submitStates, enabled)
}

func (v *recordingView) ShowMessage(id string, msg model.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append(v.messages, msg)
}

func (v *recordingView) ShowPlaceholder(id, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.placeholders[id] = text
}

func (v *recordingView) ResolvePlaceholder(id, text string, failed bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.placeholders[id] = text
	v.failed[id] = failed
}

func (v *recordingView) SetModel(m string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.model = m
}

type harness struct {
	ctl     *Controller
	view    *recordingView
	backend *testutil.Backend
	store   storage.Store
	log     *model.Log
	mgr     *session.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	reg, err := provider.NewRegistry([]provider.Provider{
		{ID: "openrouter", Type: provider.TypeRemote, DefaultModel: "x-ai/grok-4-fast:free"},
		{ID: "claude", Type: provider.TypeRemote, DefaultModel: "anthropic/claude-3.5-sonnet"},
		{ID: "ollama", Type: provider.TypeLocal, DefaultModel: "llama3"},
	})
	require.NoError(t, err)

	st := storage.NewMemoryStore()
	backend := testutil.NewBackend(t)
	view := newRecordingView()

	mgr := session.NewManager(session.Config{
		Registry:        reg,
		DefaultProvider: "openrouter",
		Record:          storage.NewRecord[session.Session](st, storage.SessionKey, nil),
	})
	log := model.NewLog(storage.NewRecord[[]model.Message](st, storage.HistoryKey, nil))

	ctl, err := New(Config{
		Sessions: mgr,
		Log:      log,
		Registry: reg,
		Backend:  api.NewClient(&api.ClientConfig{BaseURL: backend.URL()}),
		View:     view,
	})
	require.NoError(t, err)

	return &harness{ctl: ctl, view: view, backend: backend, store: st, log: log, mgr: mgr}
}

func (h *harness) setSession(s session.Session) {
	h.mgr.Replace(s)
}

func persistedHistory(t *testing.T, st storage.Store) []model.Message {
	t.Helper()
	got, _ := storage.NewRecord[[]model.Message](st, storage.HistoryKey, nil).Load()
	return got
}

// =============================================================================
// SEND
// =============================================================================

func TestSend_Delivered(t *testing.T) {
	h := newHarness(t)
	h.setSession(session.Session{Provider: "openrouter", Model: "gpt-x", Temperature: 0.7, TopP: 0.9, APIKey: "k"})
	h.backend.OnChat(func(api.ChatRequest) testutil.Reply { return testutil.MessageReply("hello") })

	res, err := h.ctl.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, StateDelivered, res.State)
	assert.Equal(t, "hello", res.Reply)

	calls := h.backend.ChatCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, api.ChatRequest{
		Message:     "hi",
		History:     []model.Message{{Role: model.RoleUser, Content: "hi"}},
		Provider:    "openrouter",
		Model:       "gpt-x",
		Temperature: 0.7,
		TopP:        0.9,
		APIKey:      "k",
	}, calls[0].Request)

	want := []model.Message{model.NewUserMessage("hi"), model.NewAssistantMessage("hello")}
	assert.Equal(t, want, h.log.All())
	assert.Equal(t, want, persistedHistory(t, h.store))

	assert.Equal(t, "hello", h.view.placeholders[res.ID])
	assert.False(t, h.view.failed[res.ID])
	assert.Equal(t, []bool{false, true}, h.view.submitStates)
	assert.Equal(t, 1, h.view.cleared)
}

func TestSend_ApplicationErrorIsVisualOnly(t *testing.T) {
	h := newHarness(t)
	h.setSession(session.Session{Provider: "openrouter", Model: "gpt-x", Temperature: 0.7, TopP: 0.9, APIKey: "k"})
	h.backend.OnChat(func(api.ChatRequest) testutil.Reply {
		return testutil.ErrorReply(http.StatusTooManyRequests, "rate limited")
	})

	res, err := h.ctl.Send(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, StateFailed, res.State)

	want := []model.Message{model.NewUserMessage("hi")}
	assert.Equal(t, want, h.log.All())
	assert.Equal(t, want, persistedHistory(t, h.store))

	assert.Equal(t, "Error: rate limited", h.view.placeholders[res.ID])
	assert.True(t, h.view.failed[res.ID])
	assert.Equal(t, []bool{false, true}, h.view.submitStates, "submit must be re-enabled after failure")
}

func TestSend_ErrorFieldWithOKStatus(t *testing.T) {
	h := newHarness(t)
	h.backend.OnChat(func(api.ChatRequest) testutil.Reply { return testutil.ErrorReply(http.StatusOK, "bad model") })

	res, err := h.ctl.Send(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, "Error: bad model", res.Reply)
	assert.Len(t, h.log.All(), 1)
}

func TestSend_TransportError(t *testing.T) {
	h := newHarness(t)
	h.backend.Server.Close()

	res, err := h.ctl.Send(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, api.IsTransport(err))
	assert.Equal(t, StateFailed, res.State)
	assert.Contains(t, h.view.placeholders[res.ID], "Error: network error")
	assert.Len(t, h.log.All(), 1)
}

func TestSend_MissingMessageField(t *testing.T) {
	h := newHarness(t)
	h.backend.OnChat(func(api.ChatRequest) testutil.Reply {
		return testutil.Reply{Status: http.StatusOK, Body: map[string]any{"usage": 3}}
	})

	res, err := h.ctl.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, api.NoResponse, res.Reply)
	assert.Equal(t, model.NewAssistantMessage(api.NoResponse), h.log.All()[1])
}

func TestSend_EmptyMessage(t *testing.T) {
	h := newHarness(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := h.ctl.Send(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}

	assert.Empty(t, h.log.All())
	assert.Empty(t, h.backend.ChatCalls())
	assert.Empty(t, h.view.submitStates)
	require.NotEmpty(t, h.view.notices)
	assert.Equal(t, NoticeWarning, h.view.notices[0].Kind)
}

func TestSend_NoProvider(t *testing.T) {
	h := newHarness(t)
	h.mgr.Update(session.WithProvider(""))

	_, err := h.ctl.Send(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNoProvider)
	assert.Empty(t, h.log.All())
	assert.Empty(t, h.backend.ChatCalls())
	assert.Equal(t, []notice{{NoticeWarning, TextSelectProvider}}, h.view.notices)
}

func TestSend_TrimsMessage(t *testing.T) {
	h := newHarness(t)

	_, err := h.ctl.Send(context.Background(), "  hi there \n")
	require.NoError(t, err)
	assert.Equal(t, "hi there", h.backend.ChatCalls()[0].Request.Message)
}

func TestSend_SendsEntireHistory(t *testing.T) {
	h := newHarness(t)

	for _, text := range []string{"one", "two", "three"} {
		_, err := h.ctl.Send(context.Background(), text)
		require.NoError(t, err)
	}

	calls := h.backend.ChatCalls()
	require.Len(t, calls, 3)
	assert.Len(t, calls[2].Request.History, 5)
	assert.Equal(t, model.NewUserMessage("three"), calls[2].Request.History[4])
}

func TestSend_MaxHistory(t *testing.T) {
	h := newHarness(t)
	h.ctl.maxHistory = 2

	for _, text := range []string{"one", "two"} {
		_, err := h.ctl.Send(context.Background(), text)
		require.NoError(t, err)
	}

	calls := h.backend.ChatCalls()
	assert.Equal(t, []model.Message{
		model.NewAssistantMessage("echo: one"),
		model.NewUserMessage("two"),
	}, calls[1].Request.History)
	assert.Equal(t, 4, h.log.Len(), "the log itself is never truncated")
}

func TestSend_ConcurrentExchangesResolveOwnPlaceholders(t *testing.T) {
	h := newHarness(t)

	var wg sync.WaitGroup
	results := make([]Result, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := h.ctl.Send(context.Background(), string(rune('a'+i)))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		assert.Equal(t, "echo: "+string(rune('a'+i)), h.view.placeholders[res.ID])
	}
	assert.Equal(t, 10, h.log.Len())
}

// =============================================================================
// PAYLOAD
// =============================================================================

func TestBuildPayload_APIKeyOnlyForRemote(t *testing.T) {
	sess := session.Session{Provider: "x", Model: "m", Temperature: 0.7, TopP: 0.9, APIKey: "k"}

	remote := BuildPayload("hi", sess, provider.Provider{ID: "x", Type: provider.TypeRemote}, nil)
	assert.Equal(t, "k", remote.APIKey)
	assert.NotNil(t, remote.History)

	local := BuildPayload("hi", sess, provider.Provider{ID: "x", Type: provider.TypeLocal}, nil)
	assert.Empty(t, local.APIKey)

	unresolved := BuildPayload("hi", sess, provider.Provider{}, nil)
	assert.Empty(t, unresolved.APIKey)

	sess.APIKey = ""
	noKey := BuildPayload("hi", sess, provider.Provider{ID: "x", Type: provider.TypeRemote}, nil)
	assert.Empty(t, noKey.APIKey)
}

func TestSend_SwitchingProviderTogglesAPIKey(t *testing.T) {
	h := newHarness(t)
	h.setSession(session.Session{Provider: "openrouter", Model: "m", Temperature: 0.7, TopP: 0.9, APIKey: "k"})
	h.backend.OnModels(func(string) testutil.Reply { return testutil.ModelsReply("llama-3") })

	_, err := h.ctl.SwitchProvider(context.Background(), "ollama")
	require.NoError(t, err)
	_, err = h.ctl.Send(context.Background(), "local")
	require.NoError(t, err)

	_, err = h.ctl.SwitchProvider(context.Background(), "claude")
	require.NoError(t, err)
	_, err = h.ctl.Send(context.Background(), "remote")
	require.NoError(t, err)

	calls := h.backend.ChatCalls()
	require.Len(t, calls, 2)
	assert.False(t, calls[0].HasField("api_key"), "local provider must never receive the key")
	assert.True(t, calls[1].HasField("api_key"))
	assert.Equal(t, "k", calls[1].Request.APIKey)
}

// =============================================================================
// DEFAULT MODEL / PROVIDER SWITCH
// =============================================================================

func TestSwitchProvider_LocalUsesFirstListedModel(t *testing.T) {
	h := newHarness(t)
	h.backend.OnModels(func(string) testutil.Reply { return testutil.ModelsReply("llama-3", "mistral") })

	sess, err := h.ctl.SwitchProvider(context.Background(), "ollama")
	require.NoError(t, err)
	assert.Equal(t, "ollama", sess.Provider)
	assert.Equal(t, "llama-3", sess.Model)
	assert.Equal(t, "llama-3", h.view.model)
	assert.Equal(t, []string{"ollama"}, h.backend.ModelCalls())

	persisted, found := storage.NewRecord[session.Session](h.store, storage.SessionKey, nil).Load()
	require.True(t, found)
	assert.Equal(t, "llama-3", persisted.Model)
}

func TestSwitchProvider_LocalHostUnreachable(t *testing.T) {
	h := newHarness(t)
	h.backend.Server.Close()

	var sess session.Session
	var err error
	assert.NotPanics(t, func() {
		sess, err = h.ctl.SwitchProvider(context.Background(), "ollama")
	})
	require.NoError(t, err)
	assert.Equal(t, "", sess.Model)
	assert.Contains(t, h.view.notices, notice{NoticeWarning, TextLocalHostDown})
}

func TestSwitchProvider_LocalErrorField(t *testing.T) {
	h := newHarness(t)
	h.backend.OnModels(func(string) testutil.Reply {
		return testutil.ErrorReply(http.StatusBadGateway, "ollama is not running")
	})

	sess, err := h.ctl.SwitchProvider(context.Background(), "ollama")
	require.NoError(t, err)
	assert.Equal(t, "", sess.Model)
	assert.Contains(t, h.view.notices, notice{NoticeWarning, "ollama is not running"})
}

func TestSwitchProvider_RemoteUsesStaticDefault(t *testing.T) {
	h := newHarness(t)

	sess, err := h.ctl.SwitchProvider(context.Background(), "claude")
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", sess.Model)
	assert.Empty(t, h.backend.ModelCalls(), "remote providers need no network lookup")
}

func TestSwitchProvider_Unknown(t *testing.T) {
	h := newHarness(t)
	before := h.ctl.Session()

	_, err := h.ctl.SwitchProvider(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrUnknownProvider))
	assert.Equal(t, before, h.ctl.Session())
}

func TestDefaultModel_EmptyListAndUnknown(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "", h.ctl.DefaultModel(context.Background(), "ollama"))
	assert.Equal(t, "", h.ctl.DefaultModel(context.Background(), "missing"))
}

// =============================================================================
// FIELD EDITS
// =============================================================================

func TestSetField(t *testing.T) {
	h := newHarness(t)
	h.ctl.Bootstrap(context.Background())

	sess, err := h.ctl.SetField(context.Background(), "temperature", "")
	require.NoError(t, err)
	assert.Equal(t, session.DefaultTemperature, sess.Temperature)

	sess, err = h.ctl.SetField(context.Background(), "model", "custom")
	require.NoError(t, err)
	assert.Equal(t, "custom", sess.Model)
	assert.Equal(t, "custom", h.view.model)

	sess, err = h.ctl.SetField(context.Background(), "api_key", "secret")
	require.NoError(t, err)
	assert.Equal(t, "secret", sess.APIKey)

	_, err = h.ctl.SetField(context.Background(), "colour", "x")
	assert.Error(t, err)
}

func TestSetField_KeyRefusedForLocal(t *testing.T) {
	h := newHarness(t)
	_, err := h.ctl.SwitchProvider(context.Background(), "ollama")
	require.NoError(t, err)

	_, err = h.ctl.SetField(context.Background(), "api_key", "secret")
	assert.ErrorIs(t, err, ErrKeyNotAccepted)
	assert.Empty(t, h.ctl.Session().APIKey)
}

// =============================================================================
// BOOTSTRAP / CLEAR / SAVE
// =============================================================================

func TestBootstrap_RendersHistoryAndDerivesModel(t *testing.T) {
	h := newHarness(t)
	h.log.Append(model.NewUserMessage("earlier"))
	h.log.Append(model.NewAssistantMessage("reply"))

	sess := h.ctl.Bootstrap(context.Background())
	assert.Equal(t, "openrouter", sess.Provider)
	assert.Equal(t, "x-ai/grok-4-fast:free", sess.Model)
	assert.Len(t, h.view.messages, 2)
	assert.Equal(t, "x-ai/grok-4-fast:free", h.view.model)
}

func TestBootstrap_KeepsPersistedModel(t *testing.T) {
	h := newHarness(t)
	h.setSession(session.Session{Provider: "ollama", Model: "phi3", Temperature: 0.7, TopP: 0.9})

	sess := h.ctl.Bootstrap(context.Background())
	assert.Equal(t, "phi3", sess.Model)
	assert.Empty(t, h.backend.ModelCalls())
}

func TestClear_Idempotent(t *testing.T) {
	h := newHarness(t)
	_, err := h.ctl.Send(context.Background(), "hi")
	require.NoError(t, err)

	h.ctl.Clear()
	h.ctl.Clear()

	assert.Empty(t, h.ctl.History())
	assert.Empty(t, persistedHistory(t, h.store))
	assert.Contains(t, h.view.notices, notice{NoticeInfo, TextChatCleared})
}

func TestSaveSession(t *testing.T) {
	h := newHarness(t)

	sess := h.ctl.SaveSession(session.Session{Provider: "claude", Model: " m ", Temperature: 1, TopP: 1})
	assert.Equal(t, "m", sess.Model)
	assert.Contains(t, h.view.notices, notice{NoticeSuccess, TextSessionUpdated})
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "rate limited", ErrorText(&api.ClientError{Type: api.ErrTypeApplication, Message: "rate limited"}))
	assert.Equal(t, "network error: boom", ErrorText(&api.ClientError{Type: api.ErrTypeTransport, Message: "network error", Cause: errors.New("boom")}))
	assert.Equal(t, "Unknown error", ErrorText(nil))
}
