// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package testutil provides a scriptable fake chat backend for tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/jeranaias/aurora-chat/internal/api"
)

// =============================================================================
// RECORDED REQUESTS
// =============================================================================

// ChatCall is one request received by the chat endpoint.
type ChatCall struct {
	// Request is the decoded payload.
	Request api.ChatRequest

	// Raw holds the payload's top-level fields, for presence checks.
	Raw map[string]json.RawMessage
}

// HasField reports whether the raw payload contained key.
func (c ChatCall) HasField(key string) bool {
	_, ok := c.Raw[key]
	return ok
}

// Reply is a scripted response.
type Reply struct {
	Status int
	Body   any
}

// MessageReply answers a chat request with text.
func MessageReply(text string) Reply {
	return Reply{Status: http.StatusOK, Body: map[string]any{"message": text}}
}

// ErrorReply answers with an error field.
func ErrorReply(status int, text string) Reply {
	return Reply{Status: status, Body: map[string]any{"error": text}}
}

// ModelsReply answers a model listing.
func ModelsReply(models ...string) Reply {
	if models == nil {
		models = []string{}
	}
	return Reply{Status: http.StatusOK, Body: map[string]any{"models": models}}
}

// =============================================================================
// FAKE BACKEND
// =============================================================================

// Backend is an in-process chat backend serving {base}/config, {base}/models
// and {base}/chat. Handlers can be replaced at any time.
type Backend struct {
	Server *httptest.Server

	mu         sync.Mutex
	chatCalls  []ChatCall
	modelCalls []string
	chatFunc   func(api.ChatRequest) Reply
	modelsFunc func(provider string) Reply
	remoteConf api.RemoteConfig
}

// NewBackend starts a fake backend that echoes chat messages and lists no
// models. It is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		chatFunc: func(req api.ChatRequest) Reply {
			return MessageReply("echo: " + req.Message)
		},
		modelsFunc: func(string) Reply {
			return ModelsReply()
		},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	g := e.Group("/api")
	g.GET("/config", b.handleConfig)
	g.GET("/models", b.handleModels)
	g.POST("/chat", b.handleChat)

	b.Server = httptest.NewServer(e)
	t.Cleanup(b.Server.Close)
	return b
}

// URL returns the API base URL to configure clients with.
func (b *Backend) URL() string {
	return b.Server.URL + "/api"
}

// OnChat replaces the chat handler.
func (b *Backend) OnChat(fn func(api.ChatRequest) Reply) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chatFunc = fn
}

// OnModels replaces the model listing handler.
func (b *Backend) OnModels(fn func(provider string) Reply) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modelsFunc = fn
}

// SetConfig sets the document served at /config.
func (b *Backend) SetConfig(cfg api.RemoteConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.remoteConf = cfg
}

// ChatCalls returns the chat requests received so far.
func (b *Backend) ChatCalls() []ChatCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ChatCall, len(b.chatCalls))
	copy(out, b.chatCalls)
	return out
}

// ModelCalls returns the provider ids passed to /models so far.
func (b *Backend) ModelCalls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.modelCalls))
	copy(out, b.modelCalls)
	return out
}

// =============================================================================
// HANDLERS
// =============================================================================

func (b *Backend) handleConfig(c echo.Context) error {
	b.mu.Lock()
	cfg := b.remoteConf
	b.mu.Unlock()
	return c.JSON(http.StatusOK, cfg)
}

func (b *Backend) handleModels(c echo.Context) error {
	id := c.QueryParam("provider")

	b.mu.Lock()
	b.modelCalls = append(b.modelCalls, id)
	fn := b.modelsFunc
	b.mu.Unlock()

	reply := fn(id)
	return c.JSON(reply.Status, reply.Body)
}

func (b *Backend) handleChat(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var call ChatCall
	if err := json.Unmarshal(data, &call.Request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
	}
	if err := json.Unmarshal(data, &call.Raw); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
	}

	b.mu.Lock()
	b.chatCalls = append(b.chatCalls, call)
	fn := b.chatFunc
	b.mu.Unlock()

	reply := fn(call.Request)
	return c.JSON(reply.Status, reply.Body)
}
