// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aurora-chat/internal/api"
	"github.com/jeranaias/aurora-chat/internal/config"
	"github.com/jeranaias/aurora-chat/internal/provider"
	"github.com/jeranaias/aurora-chat/internal/storage"
	"github.com/jeranaias/aurora-chat/internal/testutil"
)

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.APIBaseURL = baseURL
	cfg.Storage.Backend = storage.BackendMemory
	return cfg
}

func TestNew_LocalCatalogue(t *testing.T) {
	backend := testutil.NewBackend(t)

	a, err := New(context.Background(), Options{Config: testConfig(backend.URL())})
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Registry.Has("openrouter"))
	assert.True(t, a.Registry.Has("ollama"))
	assert.Equal(t, "openrouter", a.Sessions.Current().Provider)
	assert.Equal(t, backend.URL(), a.Client.BaseURL())

	res, err := a.Controller.Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", res.Reply)
	assert.Equal(t, 2, a.Log.Len())
}

func TestNew_RemoteCatalogue(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.SetConfig(api.RemoteConfig{
		APIBaseURL:      "/api",
		DefaultProvider: "claude",
		AvailableProviders: []provider.Provider{
			{ID: "claude", Label: "Claude", Type: provider.TypeRemote, DefaultModel: "anthropic/claude-3.5-sonnet"},
		},
	})

	cfg := testConfig(backend.URL())
	cfg.RemoteCatalogue = true

	a, err := New(context.Background(), Options{Config: cfg})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"claude"}, a.Registry.IDs())
	assert.Equal(t, "claude", a.Startup.DefaultProvider)
	assert.Equal(t, backend.URL(), a.Startup.APIBaseURL)
	assert.Equal(t, "claude", a.Sessions.Current().Provider)
}

func TestNew_RemoteCatalogueUnreachable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1/api")
	cfg.RemoteCatalogue = true

	a, err := New(context.Background(), Options{Config: cfg})
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Registry.Has("openrouter"))
}

func TestNew_DefaultProviderNotInCatalogue(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.SetConfig(api.RemoteConfig{
		DefaultProvider: "missing",
		AvailableProviders: []provider.Provider{
			{ID: "qwen", Type: provider.TypeRemote, DefaultModel: "qwen/qwen2.5-7b-instruct"},
		},
	})

	cfg := testConfig(backend.URL())
	cfg.RemoteCatalogue = true

	a, err := New(context.Background(), Options{Config: cfg})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "qwen", a.Sessions.DefaultProvider())
}

func TestNew_SuppliedStoreSharesState(t *testing.T) {
	backend := testutil.NewBackend(t)
	st := storage.NewMemoryStore()

	first, err := New(context.Background(), Options{Config: testConfig(backend.URL()), Store: st})
	require.NoError(t, err)
	_, err = first.Controller.Send(context.Background(), "remember me")
	require.NoError(t, err)

	second, err := New(context.Background(), Options{Config: testConfig(backend.URL()), Store: st})
	require.NoError(t, err)
	history := second.Log.Hydrate()
	require.Len(t, history, 2)
	assert.Equal(t, "remember me", history[0].Content)
}
